package repository

import (
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// document es un registro junto con su forma de mapa JSON, usada para filtrar y ordenar.
type document[T any] struct {
	record T
	fields map[string]any
}

func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func fromMap[T any](m map[string]any) (*T, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var record T
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// jsonValue lleva un valor Go a su forma JSON (números a float64, structs a mapas...).
func jsonValue(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

func matches(doc map[string]any, q Query) bool {
	for field, want := range q.Equals {
		if !reflect.DeepEqual(doc[field], jsonValue(want)) {
			return false
		}
	}
	for field, unwanted := range q.NotEquals {
		if reflect.DeepEqual(doc[field], jsonValue(unwanted)) {
			return false
		}
	}
	for field, sub := range q.Contains {
		if sub == "" {
			continue
		}
		if !containsFold(doc[field], sub) {
			return false
		}
	}
	if q.Search != "" && len(q.SearchFields) > 0 {
		found := false
		for _, field := range q.SearchFields {
			if containsFold(doc[field], q.Search) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// containsFold en un arreglo coincide si algún elemento coincide, igual que $regex.
func containsFold(v any, sub string) bool {
	switch s := v.(type) {
	case string:
		return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
	case []any:
		for _, e := range s {
			if containsFold(e, sub) {
				return true
			}
		}
	}
	return false
}

func sortDocuments[T any](docs []document[T], keys []SortField) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, k := range keys {
			c := compareValues(docs[i].fields[k.Field], docs[j].fields[k.Field])
			if c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// compareValues ordena como Mongo en lo básico: ausente < número < texto < booleano.
// Las fechas RFC3339 se comparan como instantes.
func compareValues(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	switch av := a.(type) {
	case float64:
		bv := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case string:
		bv := b.(string)
		ta, errA := time.Parse(time.RFC3339Nano, av)
		tb, errB := time.Parse(time.RFC3339Nano, bv)
		if errA == nil && errB == nil {
			return ta.Compare(tb)
		}
		return strings.Compare(av, bv)
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		}
		return 1
	}
	return 0
}

func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case float64:
		return 1
	case string:
		return 2
	case bool:
		return 4
	}
	return 3
}

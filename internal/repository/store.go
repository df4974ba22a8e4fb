package repository

import (
	"context"
	"errors"
	"math"

	"storefront/internal/models"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicateID = errors.New("record already exists")
)

// Entity restringe T a structs cuyo puntero implementa models.Record.
type Entity[T any] interface {
	*T
	models.Record
}

// Store es el contrato común de las colecciones, sea en Mongo o en archivos JSON.
// Los nombres de campo son los nombres JSON, que coinciden con los de Mongo.
type Store[T any] interface {
	List(ctx context.Context, q Query) ([]T, int64, error)
	Count(ctx context.Context, q Query) (int64, error)
	Get(ctx context.Context, id string) (*T, error)
	FindOne(ctx context.Context, field string, value any) (*T, error)
	Create(ctx context.Context, record *T) error
	Update(ctx context.Context, id string, fields map[string]any) (*T, error)
	Increment(ctx context.Context, id, field string, delta int) (*T, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}

// SortField es una clave de ordenamiento.
type SortField struct {
	Field string
	Desc  bool
}

// Query describe filtros, búsqueda, orden y paginación.
// Page empieza en 1; Limit 0 significa sin límite.
type Query struct {
	Equals map[string]any
	// NotEquals excluye los valores dados; un campo ausente pasa el filtro.
	NotEquals    map[string]any
	Contains     map[string]string
	Search       string
	SearchFields []string
	Sort         []SortField
	Page         int
	Limit        int
}

// Where agrega un filtro de igualdad.
func (q Query) Where(field string, value any) Query {
	eq := make(map[string]any, len(q.Equals)+1)
	for k, v := range q.Equals {
		eq[k] = v
	}
	eq[field] = value
	q.Equals = eq
	return q
}

// WhereNot agrega un filtro de desigualdad.
func (q Query) WhereNot(field string, value any) Query {
	ne := make(map[string]any, len(q.NotEquals)+1)
	for k, v := range q.NotEquals {
		ne[k] = v
	}
	ne[field] = value
	q.NotEquals = ne
	return q
}

// Skip devuelve cuántos registros saltar según la página; satura en vez de desbordar.
func (q Query) Skip() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

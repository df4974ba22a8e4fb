package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"storefront/internal/models"
)

// Snapshotter guarda una copia del archivo antes de cada escritura.
type Snapshotter interface {
	Snapshot(path string) error
}

// FileStore guarda una colección como un arreglo JSON en un solo archivo.
// Cada mutación lee el arreglo completo, lo modifica y lo reescribe.
// El mutex serializa las escrituras dentro del proceso; entre procesos gana la última escritura.
type FileStore[T any, PT Entity[T]] struct {
	path      string
	snapshots Snapshotter
	mu        sync.Mutex
}

func NewFileStore[T any, PT Entity[T]](path string, snapshots Snapshotter) *FileStore[T, PT] {
	return &FileStore[T, PT]{
		path:      path,
		snapshots: snapshots,
	}
}

// Path devuelve la ruta del archivo de datos.
func (s *FileStore[T, PT]) Path() string {
	return s.path
}

func (s *FileStore[T, PT]) load() ([]T, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []T{}, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("corrupt data file %s: %w", s.path, err)
	}
	return records, nil
}

// save escribe primero la copia de respaldo y luego el archivo nuevo vía rename.
func (s *FileStore[T, PT]) save(records []T) error {
	if s.snapshots != nil {
		if _, err := os.Stat(s.path); err == nil {
			if err := s.snapshots.Snapshot(s.path); err != nil {
				return fmt.Errorf("failed to snapshot %s: %w", s.path, err)
			}
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileStore[T, PT]) documents(records []T) ([]document[T], error) {
	docs := make([]document[T], 0, len(records))
	for _, r := range records {
		m, err := toMap(r)
		if err != nil {
			return nil, err
		}
		docs = append(docs, document[T]{record: r, fields: m})
	}
	return docs, nil
}

func (s *FileStore[T, PT]) indexOf(records []T, id string) int {
	for i := range records {
		if PT(&records[i]).GetID() == id {
			return i
		}
	}
	return -1
}

func (s *FileStore[T, PT]) List(ctx context.Context, q Query) ([]T, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, 0, err
	}
	docs, err := s.documents(records)
	if err != nil {
		return nil, 0, err
	}

	filtered := docs[:0]
	for _, d := range docs {
		if matches(d.fields, q) {
			filtered = append(filtered, d)
		}
	}
	sortDocuments(filtered, q.Sort)

	total := int64(len(filtered))
	start, end := 0, len(filtered)
	if q.Limit > 0 {
		start = min(max(q.Skip(), 0), len(filtered))
		end = start + min(q.Limit, len(filtered)-start)
	}

	out := make([]T, 0, end-start)
	for _, d := range filtered[start:end] {
		out = append(out, d.record)
	}
	return out, total, nil
}

func (s *FileStore[T, PT]) Count(ctx context.Context, q Query) (int64, error) {
	q.Limit = 0
	_, total, err := s.List(ctx, q)
	return total, err
}

func (s *FileStore[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	i := s.indexOf(records, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return &records[i], nil
}

func (s *FileStore[T, PT]) FindOne(ctx context.Context, field string, value any) (*T, error) {
	records, _, err := s.List(ctx, Query{Equals: map[string]any{field: value}, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return &records[0], nil
}

func (s *FileStore[T, PT]) Create(ctx context.Context, record *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	p := PT(record)
	if s.indexOf(records, p.GetID()) >= 0 {
		return ErrDuplicateID
	}

	p.Stamp(time.Now())
	return s.save(append(records, *record))
}

func (s *FileStore[T, PT]) Update(ctx context.Context, id string, fields map[string]any) (*T, error) {
	return s.modify(id, func(doc map[string]any) error {
		for k, v := range fields {
			doc[k] = v
		}
		return nil
	})
}

func (s *FileStore[T, PT]) Increment(ctx context.Context, id, field string, delta int) (*T, error) {
	return s.modify(id, func(doc map[string]any) error {
		current := 0.0
		switch v := doc[field].(type) {
		case nil:
		case float64:
			current = v
		default:
			return fmt.Errorf("field %s is not numeric", field)
		}
		doc[field] = current + float64(delta)
		return nil
	})
}

func (s *FileStore[T, PT]) modify(id string, apply func(doc map[string]any) error) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	i := s.indexOf(records, id)
	if i < 0 {
		return nil, ErrNotFound
	}

	doc, err := toMap(records[i])
	if err != nil {
		return nil, err
	}
	createdAt := doc["createdAt"]
	if err := apply(doc); err != nil {
		return nil, err
	}
	models.StripProtected(doc)
	doc["id"] = id
	doc["createdAt"] = createdAt
	doc["updatedAt"] = time.Now()

	updated, err := fromMap[T](doc)
	if err != nil {
		return nil, err
	}
	records[i] = *updated
	if err := s.save(records); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *FileStore[T, PT]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	i := s.indexOf(records, id)
	if i < 0 {
		return ErrNotFound
	}
	return s.save(append(records[:i], records[i+1:]...))
}

func (s *FileStore[T, PT]) DeleteAll(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return 0, err
	}
	if err := s.save([]T{}); err != nil {
		return 0, err
	}
	return int64(len(records)), nil
}

package repository

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"storefront/internal/models"
)

type recordingSnapshotter struct {
	paths []string
	// contenido del archivo en el momento de la copia
	contents []string
}

func (r *recordingSnapshotter) Snapshot(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	r.paths = append(r.paths, path)
	r.contents = append(r.contents, string(data))
	return nil
}

func newProduct(id, name, category string, price float64, featured bool) *models.Product {
	p := &models.Product{
		Name:        name,
		Description: "A product used in tests",
		Price:       price,
		Category:    category,
		Featured:    featured,
		Tags:        []string{"tag-" + id},
	}
	p.ID = id
	p.Normalize()
	return p
}

func newTestStore(t *testing.T) (*FileStore[models.Product, *models.Product], *recordingSnapshotter) {
	t.Helper()
	snaps := &recordingSnapshotter{}
	return NewFileStore[models.Product](filepath.Join(t.TempDir(), "products.json"), snaps), snaps
}

func TestFileStoreCreateAndGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	p := newProduct("P1", "Herbal Oil", "hair", 199, false)
	if err := store.Create(ctx, p); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Error("create must stamp createdAt and updatedAt")
	}

	got, err := store.Get(ctx, "P1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Name != "Herbal Oil" || got.Price != 199 {
		t.Errorf("unexpected product %+v", got)
	}

	if err := store.Create(ctx, newProduct("P1", "Other", "hair", 1, false)); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStoreMissingAndEmptyFile(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	list, total, err := store.List(ctx, Query{})
	if err != nil || total != 0 || len(list) != 0 {
		t.Fatalf("missing file must read as empty: %v %d %v", list, total, err)
	}

	if err := os.WriteFile(store.Path(), []byte("  \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, total, err := store.List(ctx, Query{}); err != nil || total != 0 {
		t.Fatalf("empty file must read as empty: %d %v", total, err)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	store, _ := newTestStore(t)
	if err := os.WriteFile(store.Path(), []byte(`[{"id": "P1",`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := store.List(context.Background(), Query{})
	if err == nil || !strings.Contains(err.Error(), "corrupt data file") {
		t.Errorf("expected corrupt data file error, got %v", err)
	}
}

func TestFileStoreSnapshotsBeforeWrite(t *testing.T) {
	store, snaps := newTestStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, newProduct("P1", "First", "hair", 10, false)); err != nil {
		t.Fatal(err)
	}
	if len(snaps.paths) != 0 {
		t.Errorf("no snapshot expected before the file exists, got %d", len(snaps.paths))
	}

	if err := store.Create(ctx, newProduct("P2", "Second", "hair", 20, false)); err != nil {
		t.Fatal(err)
	}
	if len(snaps.paths) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snaps.paths))
	}
	if !strings.Contains(snaps.contents[0], `"P1"`) || strings.Contains(snaps.contents[0], `"P2"`) {
		t.Errorf("snapshot must hold the previous content, got %s", snaps.contents[0])
	}
}

func TestFileStoreUpdateKeepsProtectedFields(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	p := newProduct("P1", "Herbal Oil", "hair", 199, false)
	if err := store.Create(ctx, p); err != nil {
		t.Fatal(err)
	}
	created := p.CreatedAt

	time.Sleep(2 * time.Millisecond)
	updated, err := store.Update(ctx, "P1", map[string]any{
		"price":     249.0,
		"id":        "HIJACK",
		"createdAt": time.Now().Add(-48 * time.Hour),
		"variants":  []models.Variant{{Name: "200ml", Price: 249, Stock: 5}},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ID != "P1" {
		t.Errorf("id must not change, got %s", updated.ID)
	}
	if updated.Price != 249 {
		t.Errorf("expected price 249, got %v", updated.Price)
	}
	if !updated.CreatedAt.Equal(created) {
		t.Errorf("createdAt changed from %v to %v", created, updated.CreatedAt)
	}
	if !updated.UpdatedAt.After(created) {
		t.Error("updatedAt must move forward")
	}
	if len(updated.Variants) != 1 || updated.Variants[0].Stock != 5 {
		t.Errorf("unexpected variants %+v", updated.Variants)
	}

	again, _ := store.Get(ctx, "P1")
	if again.Price != 249 {
		t.Errorf("update not persisted, price %v", again.Price)
	}

	if _, err := store.Update(ctx, "missing", map[string]any{"price": 1.0}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStoreIncrement(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.json")
	store := NewFileStore[models.Review](path, nil)
	ctx := context.Background()

	r := &models.Review{ProductID: "P1", CustomerName: "A", Email: "a@x.com", Rating: 5, Title: "t", Comment: "c"}
	r.ID = "R1"
	if err := store.Create(ctx, r); err != nil {
		t.Fatal(err)
	}
	for range 3 {
		if _, err := store.Increment(ctx, "R1", "helpful", 1); err != nil {
			t.Fatal(err)
		}
	}
	got, _ := store.Get(ctx, "R1")
	if got.Helpful != 3 {
		t.Errorf("expected helpful 3, got %d", got.Helpful)
	}

	if _, err := store.Increment(ctx, "R1", "title", 1); err == nil {
		t.Error("incrementing a string field must fail")
	}
}

func TestFileStoreListFiltersSortsAndPages(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	seed := []*models.Product{
		newProduct("P1", "Neem Soap", "skin", 50, false),
		newProduct("P2", "Amla Oil", "hair", 150, true),
		newProduct("P3", "Aloe Gel", "skin", 120, true),
		newProduct("P4", "Shikakai Powder", "hair", 80, false),
	}
	for _, p := range seed {
		if err := store.Create(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	skin, total, err := store.List(ctx, Query{}.Where("category", "skin"))
	if err != nil || total != 2 || len(skin) != 2 {
		t.Fatalf("expected 2 skin products, got %d (%v)", total, err)
	}

	byPrice, _, _ := store.List(ctx, Query{Sort: []SortField{{Field: "price", Desc: true}}})
	if byPrice[0].ID != "P2" || byPrice[3].ID != "P1" {
		t.Errorf("unexpected price order %s..%s", byPrice[0].ID, byPrice[3].ID)
	}

	featuredFirst, _, _ := store.List(ctx, Query{Sort: []SortField{{Field: "featured", Desc: true}, {Field: "price"}}})
	if featuredFirst[0].ID != "P3" || featuredFirst[1].ID != "P2" {
		t.Errorf("expected featured products first by price, got %s, %s", featuredFirst[0].ID, featuredFirst[1].ID)
	}

	page2, total, _ := store.List(ctx, Query{Sort: []SortField{{Field: "price"}}, Page: 2, Limit: 3})
	if total != 4 || len(page2) != 1 || page2[0].ID != "P2" {
		t.Errorf("unexpected page 2: total %d, %d items", total, len(page2))
	}

	found, _, _ := store.List(ctx, Query{Search: "OIL", SearchFields: []string{"name", "description"}})
	if len(found) != 1 || found[0].ID != "P2" {
		t.Errorf("search by name failed: %d results", len(found))
	}
	byTag, _, _ := store.List(ctx, Query{Search: "tag-p4", SearchFields: []string{"tags"}})
	if len(byTag) != 1 || byTag[0].ID != "P4" {
		t.Errorf("search inside arrays failed: %d results", len(byTag))
	}

	contains, _, _ := store.List(ctx, Query{Contains: map[string]string{"name": "ALOE"}})
	if len(contains) != 1 || contains[0].ID != "P3" {
		t.Errorf("contains filter failed: %d results", len(contains))
	}

	n, err := store.Count(ctx, Query{Limit: 1}.Where("featured", true))
	if err != nil || n != 2 {
		t.Errorf("expected count 2, got %d (%v)", n, err)
	}

	one, err := store.FindOne(ctx, "name", "Aloe Gel")
	if err != nil || one.ID != "P3" {
		t.Errorf("FindOne failed: %v", err)
	}
	if _, err := store.FindOne(ctx, "name", "nothing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStoreDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	for _, id := range []string{"P1", "P2", "P3"} {
		if err := store.Create(ctx, newProduct(id, "Name "+id, "misc", 10, false)); err != nil {
			t.Fatal(err)
		}
	}

	if err := store.Delete(ctx, "P2"); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "P2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	n, err := store.DeleteAll(ctx)
	if err != nil || n != 2 {
		t.Errorf("expected 2 deleted, got %d (%v)", n, err)
	}
	data, _ := os.ReadFile(store.Path())
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("expected empty array on disk, got %s", data)
	}
}

func TestQueryWhereDoesNotShareMaps(t *testing.T) {
	base := Query{}.Where("a", 1)
	q1 := base.Where("b", 2)
	q2 := base.Where("c", 3)
	if len(base.Equals) != 1 || len(q1.Equals) != 2 || len(q2.Equals) != 2 {
		t.Errorf("Where mutated a shared map: %v %v %v", base.Equals, q1.Equals, q2.Equals)
	}
	if (Query{Page: 3, Limit: 10}).Skip() != 20 || (Query{Page: 3}).Skip() != 0 {
		t.Error("unexpected skip")
	}
	if got := (Query{Page: math.MaxInt, Limit: 50}).Skip(); got != math.MaxInt {
		t.Errorf("skip must saturate instead of overflowing, got %d", got)
	}
}

func TestFileStoreWhereNotKeepsMissingFields(t *testing.T) {
	store, _ := newTestStore(t)
	legacy := `[
  {"id":"P1","name":"Legacy Oil","description":"Legacy product record","price":100,"category":"hair"},
  {"id":"P2","name":"Hidden Soap","description":"Disabled product record","price":40,"category":"skin","isActive":false},
  {"id":"P3","name":"Aloe Gel","description":"Active product record","price":120,"category":"skin","isActive":true}
]`
	if err := os.WriteFile(store.Path(), []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	visible, total, err := store.List(context.Background(), Query{Sort: []SortField{{Field: "id"}}}.WhereNot("isActive", false))
	if err != nil || total != 2 {
		t.Fatalf("expected 2 visible products, got %d (%v)", total, err)
	}
	if visible[0].ID != "P1" || visible[1].ID != "P3" {
		t.Errorf("unexpected visible products %s, %s", visible[0].ID, visible[1].ID)
	}
}

func TestFileStoreListPastLastPage(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	if err := store.Create(ctx, newProduct("P1", "Neem Soap", "skin", 50, false)); err != nil {
		t.Fatal(err)
	}

	for _, page := range []int{2, math.MaxInt / 50, math.MaxInt} {
		items, total, err := store.List(ctx, Query{Page: page, Limit: 50})
		if err != nil || total != 1 || len(items) != 0 {
			t.Errorf("page %d: expected empty page of 1 record, got %d items, total %d (%v)", page, len(items), total, err)
		}
	}
}

func TestCompareValues(t *testing.T) {
	early := "2024-01-01T10:00:00Z"
	late := "2024-01-01T10:00:00.5+00:00"
	if compareValues(early, late) >= 0 {
		t.Error("timestamps must compare as instants")
	}
	if compareValues(nil, 1.0) >= 0 || compareValues(1.0, "a") >= 0 || compareValues("a", true) >= 0 {
		t.Error("unexpected rank order")
	}
	if compareValues(false, true) >= 0 || compareValues(2.0, 2.0) != 0 {
		t.Error("unexpected value order")
	}
}

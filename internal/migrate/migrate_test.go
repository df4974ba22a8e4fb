package migrate

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/repository"
)

func productStore(t *testing.T, dir string) repository.Store[models.Product] {
	t.Helper()
	return repository.NewFileStore[models.Product](filepath.Join(dir, "products.json"), nil)
}

func seedProduct(t *testing.T, store repository.Store[models.Product], id, image string, images ...string) {
	t.Helper()
	p := &models.Product{Name: "Product " + id, Description: "Imported product", Price: 10, Category: "misc", Image: image, Images: images}
	p.ID = id
	if err := store.Create(context.Background(), p); err != nil {
		t.Fatal(err)
	}
}

func TestImportSkipsExisting(t *testing.T) {
	ctx := context.Background()
	src := productStore(t, t.TempDir())
	dst := productStore(t, t.TempDir())

	seedProduct(t, src, "P1", "/p1.jpg")
	seedProduct(t, src, "P2", "")
	seedProduct(t, dst, "P2", "")

	res, err := Import(ctx, "products", src, dst, false, PrepareProduct)
	if err != nil {
		t.Fatal(err)
	}
	if res.Read != 2 || res.Imported != 1 || res.Skipped != 1 || res.Failed != 0 {
		t.Errorf("unexpected result %+v", res)
	}

	p1, err := dst.Get(ctx, "P1")
	if err != nil {
		t.Fatal(err)
	}
	if !p1.Active() || p1.IsActive == nil {
		t.Error("imported products must be active")
	}
	if len(p1.Images) != 1 || p1.Images[0] != "/p1.jpg" {
		t.Errorf("images must be seeded from image, got %v", p1.Images)
	}
}

func TestImportWipe(t *testing.T) {
	ctx := context.Background()
	src := productStore(t, t.TempDir())
	dst := productStore(t, t.TempDir())

	seedProduct(t, src, "P1", "")
	seedProduct(t, dst, "OLD1", "")
	seedProduct(t, dst, "OLD2", "")

	res, err := Import[models.Product](ctx, "products", src, dst, true, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Cleared != 2 || res.Imported != 1 {
		t.Errorf("unexpected result %+v", res)
	}
	if n, _ := dst.Count(ctx, repository.Query{}); n != 1 {
		t.Errorf("expected only the imported record, got %d", n)
	}
}

func TestImportOrdersAppliesDefaults(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	var src, dst repository.Store[models.Order]
	src = repository.NewFileStore[models.Order](filepath.Join(dir, "src.json"), nil)
	dst = repository.NewFileStore[models.Order](filepath.Join(dir, "dst.json"), nil)

	paid := &models.Order{Customer: "A", Email: "a@example.com", PaymentID: "pay_1", Amount: 10}
	paid.ID = "O1"
	pending := &models.Order{Customer: "B", Email: "b@example.com", Amount: 20}
	pending.ID = "O2"
	for _, o := range []*models.Order{paid, pending} {
		if err := src.Create(ctx, o); err != nil {
			t.Fatal(err)
		}
	}

	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	res, err := Import(ctx, "orders", src, dst, false, PrepareOrder(func() time.Time { return now }))
	if err != nil {
		t.Fatal(err)
	}
	if res.Imported != 2 {
		t.Fatalf("unexpected result %+v", res)
	}

	got, _ := dst.Get(ctx, "O1")
	if got.PaymentStatus != models.PaymentPaid || got.Status != models.StatusPending {
		t.Errorf("unexpected order %+v", got)
	}
	got, _ = dst.Get(ctx, "O2")
	if got.PaymentStatus != models.PaymentPending || !got.OrderDate.Equal(now) {
		t.Errorf("unexpected order %+v", got)
	}
}

func TestMigrateImages(t *testing.T) {
	ctx := context.Background()
	store := productStore(t, t.TempDir())

	seedProduct(t, store, "HAS", "/a.jpg", "/a.jpg", "/b.jpg")
	seedProduct(t, store, "ONE", "/one.jpg")
	seedProduct(t, store, "NONE", "")

	res, err := MigrateImages(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	if res.Skipped != 1 || res.Updated != 1 || res.Placeholder != 1 {
		t.Errorf("unexpected result %+v", res)
	}

	want := map[string]string{"ONE": "/one.jpg", "NONE": PlaceholderImage}
	for id, image := range want {
		p, err := store.Get(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if len(p.Images) != 1 || p.Images[0] != image {
			t.Errorf("%s: expected [%s], got %v", id, image, p.Images)
		}
	}

	again, err := MigrateImages(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	if again.Skipped != 3 {
		t.Errorf("second run must be a no-op, got %+v", again)
	}
}

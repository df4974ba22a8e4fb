// Package migrate copia colecciones entre almacenamientos y corrige datos heredados.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"storefront/internal/models"
	"storefront/internal/repository"
)

// PlaceholderImage se usa cuando un producto no tiene ninguna imagen.
const PlaceholderImage = "/placeholder-product.svg"

// Result resume una importación.
type Result struct {
	Collection string `json:"collection"`
	Read       int    `json:"read"`
	Imported   int    `json:"imported"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
	Cleared    int64  `json:"cleared,omitempty"`
}

// Import copia todos los registros de src a dst. Los ids que ya existen en
// dst se saltan; wipe vacía dst antes de empezar. prepare puede ser nil.
func Import[T any, PT repository.Entity[T]](ctx context.Context, name string, src, dst repository.Store[T], wipe bool, prepare func(PT)) (*Result, error) {
	res := &Result{Collection: name}

	records, _, err := src.List(ctx, repository.Query{})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	res.Read = len(records)

	if wipe {
		n, err := dst.DeleteAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to clear %s: %w", name, err)
		}
		res.Cleared = n
		log.Printf("🧹 Cleared %d %s", n, name)
	}

	for i := range records {
		p := PT(&records[i])
		if p.GetID() == "" {
			log.Printf("❌ Skipping %s record %d without id", name, i)
			res.Failed++
			continue
		}
		if prepare != nil {
			prepare(p)
		}

		err := dst.Create(ctx, &records[i])
		switch {
		case err == nil:
			res.Imported++
		case errors.Is(err, repository.ErrDuplicateID):
			log.Printf("⏭️ Skipped %s (already exists)", p.GetID())
			res.Skipped++
		default:
			log.Printf("❌ Failed to import %s: %v", p.GetID(), err)
			res.Failed++
		}
	}
	return res, nil
}

// PrepareProduct deja visibles los productos importados.
func PrepareProduct(p *models.Product) {
	active := true
	p.IsActive = &active
	if len(p.Images) == 0 && p.Image != "" {
		p.Images = []string{p.Image}
	}
}

// PrepareOrder deriva paymentStatus y los valores por defecto que falten.
func PrepareOrder(now func() time.Time) func(*models.Order) {
	return func(o *models.Order) {
		o.ApplyDefaults(now())
	}
}

// ImagesResult resume MigrateImages.
type ImagesResult struct {
	Updated     int `json:"updated"`
	Skipped     int `json:"skipped"`
	Placeholder int `json:"placeholder"`
}

// MigrateImages completa images con [image] cuando está vacío; si tampoco
// hay image, pone el placeholder.
func MigrateImages(ctx context.Context, products repository.Store[models.Product]) (*ImagesResult, error) {
	list, _, err := products.List(ctx, repository.Query{})
	if err != nil {
		return nil, err
	}

	res := &ImagesResult{}
	for _, p := range list {
		var images []string
		switch {
		case len(p.Images) > 0:
			res.Skipped++
			continue
		case p.Image != "":
			images = []string{p.Image}
			res.Updated++
		default:
			log.Printf("⚠️ %s has no image at all, using placeholder", p.Name)
			images = []string{PlaceholderImage}
			res.Placeholder++
		}
		if _, err := products.Update(ctx, p.ID, map[string]any{"images": images}); err != nil {
			return res, fmt.Errorf("failed to update %s: %w", p.ID, err)
		}
	}
	return res, nil
}

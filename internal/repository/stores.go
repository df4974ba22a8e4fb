package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"storefront/internal/models"
)

// Nombres de colección; en modo archivo son <dataDir>/<nombre>.json
const (
	ProductsCollection  = "products"
	OrdersCollection    = "orders"
	BannersCollection   = "banners"
	ReviewsCollection   = "reviews"
	UsersCollection     = "users"
	EnquiriesCollection = "enquiries"
)

// Collections lista todas las colecciones conocidas.
var Collections = []string{
	ProductsCollection,
	OrdersCollection,
	BannersCollection,
	ReviewsCollection,
	UsersCollection,
	EnquiriesCollection,
}

// Stores agrupa todas las colecciones de la aplicación.
type Stores struct {
	Driver    string
	Products  Store[models.Product]
	Orders    Store[models.Order]
	Banners   Store[models.Banner]
	Reviews   Store[models.Review]
	Users     Store[models.User]
	Enquiries Store[models.Enquiry]
	Analytics OrderAnalytics

	ping func(ctx context.Context) error
}

// Ping comprueba que el almacenamiento responde.
func (s *Stores) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// NewMongoStores crea los stores sobre una base de datos de Mongo.
func NewMongoStores(db *mongo.Database) *Stores {
	return &Stores{
		Driver:    "mongo",
		Products:  NewMongoStore[models.Product](db.Collection(ProductsCollection)),
		Orders:    NewMongoStore[models.Order](db.Collection(OrdersCollection)),
		Banners:   NewMongoStore[models.Banner](db.Collection(BannersCollection)),
		Reviews:   NewMongoStore[models.Review](db.Collection(ReviewsCollection)),
		Users:     NewMongoStore[models.User](db.Collection(UsersCollection)),
		Enquiries: NewMongoStore[models.Enquiry](db.Collection(EnquiriesCollection)),
		Analytics: NewMongoOrderAnalytics(db.Collection(OrdersCollection)),
		ping: func(ctx context.Context) error {
			return db.Client().Ping(ctx, readpref.Primary())
		},
	}
}

// NewFileStores crea los stores sobre archivos JSON en dataDir.
func NewFileStores(dataDir string, snapshots Snapshotter) *Stores {
	orders := NewFileStore[models.Order](DataFile(dataDir, OrdersCollection), snapshots)
	return &Stores{
		Driver:    "json",
		Products:  NewFileStore[models.Product](DataFile(dataDir, ProductsCollection), snapshots),
		Orders:    orders,
		Banners:   NewFileStore[models.Banner](DataFile(dataDir, BannersCollection), snapshots),
		Reviews:   NewFileStore[models.Review](DataFile(dataDir, ReviewsCollection), snapshots),
		Users:     NewFileStore[models.User](DataFile(dataDir, UsersCollection), snapshots),
		Enquiries: NewFileStore[models.Enquiry](DataFile(dataDir, EnquiriesCollection), snapshots),
		Analytics: NewStoreOrderAnalytics(orders),
		ping: func(ctx context.Context) error {
			info, err := os.Stat(dataDir)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", dataDir)
			}
			return nil
		},
	}
}

// DataFile devuelve la ruta del archivo JSON de una colección.
func DataFile(dataDir, collection string) string {
	return filepath.Join(dataDir, collection+".json")
}

// DataFiles devuelve las rutas de todas las colecciones.
func DataFiles(dataDir string) []string {
	files := make([]string, 0, len(Collections))
	for _, c := range Collections {
		files = append(files, DataFile(dataDir, c))
	}
	return files
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"storefront/internal/models"
)

const (
	writeTimeout = 5 * time.Second
	readTimeout  = 3 * time.Second
	listTimeout  = 10 * time.Second
)

// MongoStore guarda registros en una colección de Mongo, indexados por el campo id.
type MongoStore[T any, PT Entity[T]] struct {
	collection *mongo.Collection
}

func NewMongoStore[T any, PT Entity[T]](collection *mongo.Collection) *MongoStore[T, PT] {
	return &MongoStore[T, PT]{
		collection: collection,
	}
}

// Create inserta un registro nuevo; falla si el id ya existe
func (r *MongoStore[T, PT]) Create(ctx context.Context, record *T) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	p := PT(record)
	n, err := r.collection.CountDocuments(ctx, bson.M{"id": p.GetID()})
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrDuplicateID
	}

	p.Stamp(time.Now())
	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateID
		}
		return fmt.Errorf("failed to insert into %s: %w", r.collection.Name(), err)
	}
	return nil
}

// Get obtiene un registro por id
func (r *MongoStore[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	return r.FindOne(ctx, "id", id)
}

// FindOne obtiene el primer registro cuyo campo coincide con el valor
func (r *MongoStore[T, PT]) FindOne(ctx context.Context, field string, value any) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var record T
	err := r.collection.FindOne(ctx, bson.M{field: value}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// List lista registros con filtros, orden y paginación
func (r *MongoStore[T, PT]) List(ctx context.Context, q Query) ([]T, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	filter := buildFilter(q)

	findOptions := options.Find()
	if q.Limit > 0 {
		findOptions.SetSkip(int64(q.Skip()))
		findOptions.SetLimit(int64(q.Limit))
	}
	if len(q.Sort) > 0 {
		sort := bson.D{}
		for _, s := range q.Sort {
			order := 1
			if s.Desc {
				order = -1
			}
			sort = append(sort, bson.E{Key: s.Field, Value: order})
		}
		findOptions.SetSort(sort)
	}

	// Contar total en paralelo
	var total int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := r.collection.CountDocuments(gctx, filter)
		total = n
		return err
	})

	records := make([]T, 0)
	g.Go(func() error {
		cursor, err := r.collection.Find(gctx, filter, findOptions)
		if err != nil {
			return err
		}
		defer cursor.Close(gctx)
		return cursor.All(gctx, &records)
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *MongoStore[T, PT]) Count(ctx context.Context, q Query) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	return r.collection.CountDocuments(ctx, buildFilter(q))
}

// Update aplica un $set parcial y devuelve el registro actualizado
func (r *MongoStore[T, PT]) Update(ctx context.Context, id string, fields map[string]any) (*T, error) {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	models.StripProtected(set)
	set["updatedAt"] = time.Now()
	return r.findAndModify(ctx, id, bson.M{"$set": set})
}

// Increment suma delta a un campo numérico
func (r *MongoStore[T, PT]) Increment(ctx context.Context, id, field string, delta int) (*T, error) {
	return r.findAndModify(ctx, id, bson.M{
		"$inc": bson.M{field: delta},
		"$set": bson.M{"updatedAt": time.Now()},
	})
}

func (r *MongoStore[T, PT]) findAndModify(ctx context.Context, id string, update bson.M) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var record T
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Delete borra un registro por id
func (r *MongoStore[T, PT]) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll vacía la colección (solo lo usan los comandos de migración)
func (r *MongoStore[T, PT]) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// buildFilter traduce una Query a un filtro de Mongo
func buildFilter(q Query) bson.M {
	filter := bson.M{}
	for field, value := range q.Equals {
		filter[field] = value
	}
	for field, value := range q.NotEquals {
		filter[field] = bson.M{"$ne": value}
	}
	for field, sub := range q.Contains {
		if sub == "" {
			continue
		}
		filter[field] = bson.M{"$regex": regexp.QuoteMeta(sub), "$options": "i"}
	}

	// Búsqueda de texto
	if q.Search != "" && len(q.SearchFields) > 0 {
		or := make([]bson.M, 0, len(q.SearchFields))
		for _, field := range q.SearchFields {
			or = append(or, bson.M{field: bson.M{"$regex": regexp.QuoteMeta(q.Search), "$options": "i"}})
		}
		filter["$or"] = or
	}
	return filter
}

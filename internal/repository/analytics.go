package repository

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"storefront/internal/models"
)

const recentOrdersLimit = 10

// GroupCount es un conteo agrupado, con la misma forma que devuelve $group.
type GroupCount struct {
	ID    string `json:"_id" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// OrderStats es el resumen de GET /analytics/orders.
type OrderStats struct {
	TotalOrders           int64          `json:"totalOrders"`
	TotalRevenue          float64        `json:"totalRevenue"`
	OrdersByStatus        []GroupCount   `json:"ordersByStatus"`
	OrdersByPaymentMethod []GroupCount   `json:"ordersByPaymentMethod"`
	RecentOrders          []models.Order `json:"recentOrders"`
}

type OrderAnalytics interface {
	OrderStats(ctx context.Context) (*OrderStats, error)
}

// MongoOrderAnalytics usa pipelines de agregación, ejecutados en paralelo.
type MongoOrderAnalytics struct {
	collection *mongo.Collection
}

func NewMongoOrderAnalytics(collection *mongo.Collection) *MongoOrderAnalytics {
	return &MongoOrderAnalytics{collection: collection}
}

func (a *MongoOrderAnalytics) OrderStats(ctx context.Context) (*OrderStats, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	stats := &OrderStats{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := a.collection.CountDocuments(gctx, bson.M{})
		stats.TotalOrders = n
		return err
	})
	g.Go(func() error {
		var rows []struct {
			Total float64 `bson:"total"`
		}
		if err := a.aggregate(gctx, bson.A{
			bson.M{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}},
		}, &rows); err != nil {
			return err
		}
		if len(rows) > 0 {
			stats.TotalRevenue = rows[0].Total
		}
		return nil
	})
	g.Go(func() error {
		return a.aggregate(gctx, groupBy("$status"), &stats.OrdersByStatus)
	})
	g.Go(func() error {
		return a.aggregate(gctx, groupBy("$paymentMethod"), &stats.OrdersByPaymentMethod)
	})
	g.Go(func() error {
		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(recentOrdersLimit)
		cursor, err := a.collection.Find(gctx, bson.M{}, opts)
		if err != nil {
			return err
		}
		defer cursor.Close(gctx)
		stats.RecentOrders = make([]models.Order, 0, recentOrdersLimit)
		return cursor.All(gctx, &stats.RecentOrders)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if stats.OrdersByStatus == nil {
		stats.OrdersByStatus = []GroupCount{}
	}
	if stats.OrdersByPaymentMethod == nil {
		stats.OrdersByPaymentMethod = []GroupCount{}
	}
	return stats, nil
}

func (a *MongoOrderAnalytics) aggregate(ctx context.Context, pipeline bson.A, out any) error {
	cursor, err := a.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func groupBy(field string) bson.A {
	return bson.A{
		bson.M{"$group": bson.M{"_id": field, "count": bson.M{"$sum": 1}}},
		bson.M{"$sort": bson.M{"count": -1}},
	}
}

// StoreOrderAnalytics calcula el resumen en memoria sobre cualquier Store.
type StoreOrderAnalytics struct {
	orders Store[models.Order]
}

func NewStoreOrderAnalytics(orders Store[models.Order]) *StoreOrderAnalytics {
	return &StoreOrderAnalytics{orders: orders}
}

func (a *StoreOrderAnalytics) OrderStats(ctx context.Context) (*OrderStats, error) {
	orders, _, err := a.orders.List(ctx, Query{})
	if err != nil {
		return nil, err
	}
	return ComputeOrderStats(orders), nil
}

// ComputeOrderStats agrega una lista de pedidos.
func ComputeOrderStats(orders []models.Order) *OrderStats {
	stats := &OrderStats{TotalOrders: int64(len(orders))}
	byStatus := map[string]int64{}
	byMethod := map[string]int64{}
	for _, o := range orders {
		stats.TotalRevenue += o.Amount
		byStatus[string(o.Status)]++
		byMethod[o.PaymentMethod]++
	}
	stats.OrdersByStatus = sortedCounts(byStatus)
	stats.OrdersByPaymentMethod = sortedCounts(byMethod)

	recent := make([]models.Order, len(orders))
	copy(recent, orders)
	sort.SliceStable(recent, func(i, j int) bool {
		return createdOf(recent[i]).After(createdOf(recent[j]))
	})
	if len(recent) > recentOrdersLimit {
		recent = recent[:recentOrdersLimit]
	}
	stats.RecentOrders = recent
	return stats
}

func createdOf(o models.Order) time.Time {
	if !o.CreatedAt.IsZero() {
		return o.CreatedAt
	}
	return o.OrderDate
}

func sortedCounts(m map[string]int64) []GroupCount {
	out := make([]GroupCount, 0, len(m))
	for k, v := range m {
		out = append(out, GroupCount{ID: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ID < out[j].ID
	})
	return out
}

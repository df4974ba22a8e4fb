package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"storefront/internal/models"
)

func TestComputeOrderStats(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	var orders []models.Order
	for i := range 12 {
		o := models.Order{Amount: 100, PaymentMethod: "upi", Status: models.StatusPending}
		o.ID = fmt.Sprintf("ORD%02d", i)
		o.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if i%3 == 0 {
			o.PaymentMethod = "cod"
			o.Status = models.StatusDelivered
		}
		orders = append(orders, o)
	}

	stats := ComputeOrderStats(orders)

	if stats.TotalOrders != 12 || stats.TotalRevenue != 1200 {
		t.Errorf("unexpected totals %d / %v", stats.TotalOrders, stats.TotalRevenue)
	}
	want := []GroupCount{{ID: "upi", Count: 8}, {ID: "cod", Count: 4}}
	for i, g := range want {
		if stats.OrdersByPaymentMethod[i] != g {
			t.Errorf("payment method %d: expected %+v, got %+v", i, g, stats.OrdersByPaymentMethod[i])
		}
	}
	if stats.OrdersByStatus[0].ID != "pending" || stats.OrdersByStatus[0].Count != 8 {
		t.Errorf("unexpected status counts %+v", stats.OrdersByStatus)
	}
	if len(stats.RecentOrders) != 10 {
		t.Fatalf("expected 10 recent orders, got %d", len(stats.RecentOrders))
	}
	if stats.RecentOrders[0].ID != "ORD11" || stats.RecentOrders[9].ID != "ORD02" {
		t.Errorf("recent orders not newest first: %s..%s", stats.RecentOrders[0].ID, stats.RecentOrders[9].ID)
	}
}

func TestComputeOrderStatsEmpty(t *testing.T) {
	stats := ComputeOrderStats(nil)
	if stats.TotalOrders != 0 || stats.TotalRevenue != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.OrdersByStatus == nil || stats.RecentOrders == nil {
		t.Error("empty groups must serialize as arrays, not null")
	}
}

func TestStoreOrderAnalytics(t *testing.T) {
	stores := NewFileStores(t.TempDir(), nil)
	ctx := context.Background()

	for i, amount := range []float64{250, 750} {
		o := &models.Order{Amount: amount, PaymentMethod: "card"}
		o.ID = fmt.Sprintf("ORD%d", i)
		o.ApplyDefaults(time.Now())
		if err := stores.Orders.Create(ctx, o); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := stores.Analytics.OrderStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalOrders != 2 || stats.TotalRevenue != 1000 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if err := stores.Ping(ctx); err != nil {
		t.Errorf("ping on an existing dir failed: %v", err)
	}

	missing := NewFileStores(filepath.Join(t.TempDir(), "nope"), nil)
	if err := missing.Ping(ctx); err == nil {
		t.Error("ping on a missing dir must fail")
	}
}

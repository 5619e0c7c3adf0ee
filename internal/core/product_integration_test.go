package core_test

import (
	"context"
	"testing"
	"time"

	"sales-ledger/internal/core"
)

func TestProductService_CRUD(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewProductService(pool)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, "Cherry", dec(14), dec(40))
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if !product.Inventory.Equal(dec(40)) {
		t.Errorf("Expected opening inventory 40, got %s", product.Inventory)
	}

	updated, err := svc.UpdateProduct(ctx, product.ID, "Sour Cherry", dec(16))
	if err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}
	if updated.Name != "Sour Cherry" || !updated.Price.Equal(dec(16)) {
		t.Errorf("Expected updated name and price, got %+v", updated)
	}
	if !updated.Inventory.Equal(dec(40)) {
		t.Errorf("Price edit must not move inventory, got %s", updated.Inventory)
	}

	if _, err := svc.CreateProduct(ctx, "", dec(1), dec(0)); err == nil {
		t.Error("Expected blank name to be rejected")
	}
	if _, err := svc.UpdateProduct(ctx, 999, "Ghost", dec(1)); !core.IsNotFound(err) {
		t.Errorf("Expected not-found, got %v", err)
	}

	if err := svc.DeleteProduct(ctx, product.ID); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}
	if _, err := svc.GetProduct(ctx, product.ID); !core.IsNotFound(err) {
		t.Errorf("Expected product gone, got %v", err)
	}
}

func TestProductService_PriceEditKeepsSaleTimePrices(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	products := core.NewProductService(pool)
	orders := newOrderService(pool)
	ctx := context.Background()

	order, err := orders.CreateOrder(ctx, core.OrderInput{
		CustomerID: 1, CreatedAt: time.Now(),
		LineItems: []core.LineItemInput{{ProductID: 1, Quantity: dec(2), PricePerUnit: dec(10)}},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if _, err := products.UpdateProduct(ctx, 1, "Apple", dec(99)); err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}

	got, err := orders.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if !got.LineItems[0].PricePerUnit.Equal(dec(10)) {
		t.Errorf("Line item must keep its sale-time price, got %s", got.LineItems[0].PricePerUnit)
	}
	if !got.TotalAmount.Equal(dec(20)) {
		t.Errorf("Order total must not shift with catalog price, got %s", got.TotalAmount)
	}
}

func TestProductService_DeleteBlockedByLineItems(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	products := core.NewProductService(pool)
	orders := newOrderService(pool)
	ctx := context.Background()

	if _, err := orders.CreateOrder(ctx, core.OrderInput{
		CustomerID: 1, CreatedAt: time.Now(),
		LineItems: []core.LineItemInput{{ProductID: 1, Quantity: dec(1), PricePerUnit: dec(10)}},
	}); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if err := products.DeleteProduct(ctx, 1); err == nil {
		t.Error("Expected delete to fail while line items reference the product")
	}
}

func TestProductService_ListNewestFirst(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewProductService(pool)
	ctx := context.Background()

	if _, err := svc.CreateProduct(ctx, "Cherry", dec(14), dec(0)); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	products, count, err := svc.GetProducts(ctx, core.Page{Take: 2})
	if err != nil {
		t.Fatalf("GetProducts failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected count 3, got %d", count)
	}
	if len(products) != 2 {
		t.Errorf("Expected 2 products on the page, got %d", len(products))
	}
	if products[0].Name != "Cherry" {
		t.Errorf("Expected newest product first, got %q", products[0].Name)
	}
}

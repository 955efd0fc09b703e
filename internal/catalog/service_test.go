package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/tillpoint-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/tillpoint-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&models.Company{}, &models.Product{}); err != nil {
		t.Fatalf("migrating schema: %v", err)
	}
	return gdb
}

func seedProduct(t *testing.T, gdb *gorm.DB, companyID int64, name, barcode string, price string, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		CompanyID:     companyID,
		Name:          name,
		Barcode:       barcode,
		UnitPrice:     decimal.RequireFromString(price),
		StockQuantity: stock,
	}
	if err := gdb.Create(product).Error; err != nil {
		t.Fatalf("seeding product: %v", err)
	}
	return product
}

func newTestService(t *testing.T, gdb *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(gdb))
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestGetProductByBarcode(t *testing.T) {
	t.Parallel()

	gdb := newTestDB(t)
	seeded := seedProduct(t, gdb, 1, "Espresso Beans", "750123", "12.50", 10)
	svc := newTestService(t, gdb)

	got, err := svc.GetProductByBarcode(context.Background(), 1, "750123")
	if err != nil {
		t.Fatalf("GetProductByBarcode returned error: %v", err)
	}
	if got.ID != seeded.ID {
		t.Fatalf("expected product %d, got %d", seeded.ID, got.ID)
	}
	if !got.UnitPrice.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("unexpected unit price: %s", got.UnitPrice)
	}
}

func TestGetProductByBarcodeScopedToCompany(t *testing.T) {
	t.Parallel()

	gdb := newTestDB(t)
	seedProduct(t, gdb, 1, "Espresso Beans", "750123", "12.50", 10)
	svc := newTestService(t, gdb)

	_, err := svc.GetProductByBarcode(context.Background(), 2, "750123")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for other company, got %v", err)
	}
}

func TestListProductsOrderedByName(t *testing.T) {
	t.Parallel()

	gdb := newTestDB(t)
	seedProduct(t, gdb, 1, "Zucchini", "z-1", "1.00", 5)
	seedProduct(t, gdb, 1, "Apples", "a-1", "2.00", 5)
	seedProduct(t, gdb, 2, "Other Co Item", "o-1", "3.00", 5)
	svc := newTestService(t, gdb)

	rows, err := svc.ListProducts(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListProducts returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 products, got %d", len(rows))
	}
	if rows[0].Name != "Apples" || rows[1].Name != "Zucchini" {
		t.Fatalf("expected name ordering, got %q then %q", rows[0].Name, rows[1].Name)
	}
}

func TestCreateProductRejectsDuplicateBarcode(t *testing.T) {
	t.Parallel()

	gdb := newTestDB(t)
	svc := newTestService(t, gdb)

	input := CreateProductInput{Name: "Beans", Barcode: "750123", UnitPrice: decimal.RequireFromString("12.50"), StockQuantity: 3}
	if _, err := svc.CreateProduct(context.Background(), 1, input); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := svc.CreateProduct(context.Background(), 1, input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT on duplicate barcode, got %v", err)
	}

	// Same barcode under a different company is allowed.
	if _, err := svc.CreateProduct(context.Background(), 2, input); err != nil {
		t.Fatalf("create for other company failed: %v", err)
	}
}

func TestUpdateProductPartialFields(t *testing.T) {
	t.Parallel()

	gdb := newTestDB(t)
	seeded := seedProduct(t, gdb, 1, "Beans", "750123", "12.50", 10)
	svc := newTestService(t, gdb)

	newName := "Premium Beans"
	newPrice := decimal.RequireFromString("14.00")
	got, err := svc.UpdateProduct(context.Background(), 1, seeded.ID, UpdateProductInput{Name: &newName, UnitPrice: &newPrice})
	if err != nil {
		t.Fatalf("UpdateProduct returned error: %v", err)
	}

	if got.Name != "Premium Beans" {
		t.Fatalf("expected renamed product, got %q", got.Name)
	}
	if got.Barcode != "750123" {
		t.Fatalf("barcode should be untouched, got %q", got.Barcode)
	}
	if !got.UnitPrice.Equal(newPrice) {
		t.Fatalf("unexpected price: %s", got.UnitPrice)
	}
}

func TestRestockGuardsNegativeStock(t *testing.T) {
	t.Parallel()

	gdb := newTestDB(t)
	seeded := seedProduct(t, gdb, 1, "Beans", "750123", "12.50", 4)
	svc := newTestService(t, gdb)

	got, err := svc.Restock(context.Background(), 1, seeded.ID, -3)
	if err != nil {
		t.Fatalf("Restock returned error: %v", err)
	}
	if got.StockQuantity != 1 {
		t.Fatalf("expected stock 1, got %d", got.StockQuantity)
	}

	_, err = svc.Restock(context.Background(), 1, seeded.ID, -2)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT on overdraw, got %v", err)
	}

	_, err = svc.Restock(context.Background(), 1, 9999, 5)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for missing product, got %v", err)
	}
}

// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"marketplace-backend/internal/client"
	"marketplace-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory sqlite database with every table migrated. The pool
// holds a single connection, so code running inside a transaction must query through tx.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Discard, TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, client.Migrate(db))
	return db
}

func CreateCustomer(t testing.TB, db *gorm.DB, name, email string) *model.Customer {
	t.Helper()

	customer := &model.Customer{
		ID:          uuid.NewString(),
		Name:        name,
		Email:       email,
		PhoneNumber: "01700000000",
		Address:     "Dhaka",
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

// CreateShop creates a vendor with vendorEmail and the shop it owns.
func CreateShop(t testing.TB, db *gorm.DB, name, vendorEmail string) *model.Shop {
	t.Helper()

	vendor := &model.Vendor{ID: uuid.NewString(), Name: "Vendor of " + name, Email: vendorEmail}
	require.NoError(t, db.Create(vendor).Error)

	shop := &model.Shop{ID: uuid.NewString(), Name: name, VendorID: vendor.ID}
	require.NoError(t, db.Create(shop).Error)
	return shop
}

func CreateCategory(t testing.TB, db *gorm.DB, name string) *model.Category {
	t.Helper()

	category := &model.Category{ID: uuid.NewString(), Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

func CreateProduct(t testing.TB, db *gorm.DB, shopID, categoryID, name, price string) *model.Product {
	t.Helper()

	product := &model.Product{
		ID:         uuid.NewString(),
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Inventory:  10,
		CategoryID: categoryID,
		ShopID:     shopID,
		Status:     model.ProductStatusActive,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func CreateCoupon(t testing.TB, db *gorm.DB, code string, usageLimit int32, start, end time.Time) *model.Coupon {
	t.Helper()

	coupon := &model.Coupon{
		ID:             uuid.NewString(),
		Code:           code,
		DiscountAmount: decimal.NewFromInt(10),
		StartTime:      start,
		EndTime:        end,
		UsageLimit:     usageLimit,
	}
	require.NoError(t, db.Create(coupon).Error)
	return coupon
}

package payments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db/models"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/enums"
)

func setupPaymentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  role TEXT NOT NULL DEFAULT 'REPRESENTATIVE',
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  father_name TEXT,
  national_id TEXT NOT NULL UNIQUE,
  phone_number TEXT NOT NULL,
  city TEXT NOT NULL,
  address TEXT,
  education_center TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  profile_image TEXT,
  password_hash TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'PENDING',
  payment_status TEXT NOT NULL DEFAULT 'UNPAID',
  total_amount NUMERIC NOT NULL,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	payments := `
CREATE TABLE IF NOT EXISTS payments (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  payment_date DATETIME NOT NULL,
  receipt_image TEXT NOT NULL,
  created_at DATETIME
);`
	for _, stmt := range []string{users, orders, payments} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedPaidOrder(t *testing.T, db *gorm.DB) *models.Order {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Role:         enums.RoleRepresentative,
		FirstName:    "Sara",
		LastName:     "Ahmadi",
		NationalID:   uuid.NewString(),
		PhoneNumber:  "09120000000",
		City:         "Tehran",
		IsActive:     true,
		PasswordHash: "hash",
	}
	require.NoError(t, db.Create(user).Error)

	order := &models.Order{
		ID:            uuid.New(),
		OrderNumber:   uuid.NewString(),
		UserID:        user.ID,
		Status:        enums.OrderStatusPending,
		PaymentStatus: enums.PaymentStatusUnpaid,
		TotalAmount:   decimal.RequireFromString("2000.00"),
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func seedPayment(t *testing.T, db *gorm.DB, orderID uuid.UUID, amount string) *models.Payment {
	t.Helper()
	payment := &models.Payment{
		ID:           uuid.New(),
		OrderID:      orderID,
		Amount:       decimal.RequireFromString(amount),
		PaymentDate:  time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		ReceiptImage: "/uploads/receipt.jpg",
	}
	require.NoError(t, db.Create(payment).Error)
	return payment
}

func TestListAllJoinsOrderAndRepresentative(t *testing.T) {
	db := setupPaymentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedPaidOrder(t, db)
	seedPayment(t, db, order.ID, "800.00")

	rows, err := repo.ListAll(ctx, ListPaymentsQuery{OrderID: &order.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NotNil(t, rows[0].Order)
	assert.Equal(t, order.OrderNumber, rows[0].Order.OrderNumber)
	require.NotNil(t, rows[0].Order.User)
	assert.Equal(t, "Sara", rows[0].Order.User.FirstName)
	assert.Equal(t, "Ahmadi", rows[0].Order.User.LastName)
}

func TestListByOrderStaysBare(t *testing.T) {
	db := setupPaymentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedPaidOrder(t, db)
	seedPayment(t, db, order.ID, "800.00")

	rows, err := repo.ListByOrder(ctx, order.ID, OrderByCreatedAt)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Order)
}

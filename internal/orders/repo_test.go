package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db/models"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/enums"
	pkgerrors "github.com/ahmadmoradi/pakhshyar-backend/pkg/errors"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
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
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT,
  category TEXT,
  price NUMERIC NOT NULL,
  purchase_price NUMERIC,
  stock INTEGER NOT NULL DEFAULT 0,
  image TEXT,
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
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL,
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
	counters := `
CREATE TABLE IF NOT EXISTS order_counters (
  month_key TEXT PRIMARY KEY,
  seq INTEGER NOT NULL
);`
	for _, stmt := range []string{users, products, orders, orderItems, payments, counters} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
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
	return user
}

func seedOrder(t *testing.T, db *gorm.DB, userID uuid.UUID) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:            uuid.New(),
		OrderNumber:   uuid.NewString(),
		UserID:        userID,
		Status:        enums.OrderStatusPending,
		PaymentStatus: enums.PaymentStatusUnpaid,
		TotalAmount:   decimal.RequireFromString("100.00"),
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func seedProduct(t *testing.T, db *gorm.DB, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:    uuid.New(),
		Title: "item",
		Price: decimal.RequireFromString(price),
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

func TestFindRepresentative(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	rep := seedUser(t, db)
	found, err := repo.FindRepresentative(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, rep.ID, found.ID)

	admin := seedUser(t, db)
	require.NoError(t, db.Model(admin).Update("role", enums.RoleAdmin).Error)
	_, err = repo.FindRepresentative(ctx, admin.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindRepresentative(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateOrderRejectsUnknownRepresentative(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	svc, err := NewService(ServiceParams{Repo: repo, Tx: gormTxRunner{db: db}})
	require.NoError(t, err)

	product := seedProduct(t, db, "10.00")
	ghost := uuid.New()

	_, err = svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: ghost,
		Items:  []ItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Where("user_id = ?", ghost).Count(&count).Error)
	assert.Zero(t, count, "no order may exist for a user that was never created")
}

func TestAllocateSequence(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	march := "seq-" + uuid.NewString()
	april := "seq-" + uuid.NewString()

	first, err := repo.AllocateSequence(ctx, march)
	require.NoError(t, err)
	second, err := repo.AllocateSequence(ctx, march)
	require.NoError(t, err)
	other, err := repo.AllocateSequence(ctx, april)
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
	assert.Equal(t, 1, other, "a new month key starts its own sequence")
}

func TestFindOrderForUserScoping(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db)
	stranger := seedUser(t, db)
	order := seedOrder(t, db, owner.ID)

	found, err := repo.FindOrderForUser(ctx, order.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = repo.FindOrderForUser(ctx, order.ID, stranger.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStatusCounts(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := seedUser(t, db)
	seedOrder(t, db, user.ID)
	seedOrder(t, db, user.ID)
	completed := seedOrder(t, db, user.ID)
	require.NoError(t, db.Model(completed).Update("status", enums.OrderStatusCompleted).Error)

	counts, err := repo.StatusCounts(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[enums.OrderStatusPending])
	assert.Equal(t, int64(1), counts[enums.OrderStatusCompleted])
}

func TestDeleteOrderRemovesItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := seedUser(t, db)
	order := seedOrder(t, db, user.ID)
	item := &models.OrderItem{
		ID:        uuid.New(),
		OrderID:   order.ID,
		ProductID: uuid.New(),
		Price:     decimal.RequireFromString("100.00"),
		Quantity:  1,
	}
	require.NoError(t, db.Create(item).Error)

	require.NoError(t, repo.DeleteOrder(ctx, order.ID))

	var orderCount, itemCount int64
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)
}

func TestListOrdersFilters(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := seedUser(t, db)
	other := seedUser(t, db)
	seedOrder(t, db, user.ID)
	seedOrder(t, db, other.ID)

	mine, err := repo.ListOrders(ctx, ListOrdersQuery{UserID: &user.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, user.ID, mine[0].UserID)

	total, err := repo.CountOrders(ctx, ListOrdersQuery{UserID: &user.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

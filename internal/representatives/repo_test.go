package representatives

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db/models"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/enums"
)

func setupRepsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
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
	documents := `
CREATE TABLE IF NOT EXISTS documents (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  title TEXT NOT NULL,
  file_url TEXT NOT NULL,
  file_type TEXT NOT NULL,
  created_at DATETIME
);`
	contracts := `
CREATE TABLE IF NOT EXISTS contracts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  title TEXT NOT NULL,
  file_url TEXT NOT NULL,
  start_date DATETIME NOT NULL,
  end_date DATETIME NOT NULL,
  created_at DATETIME
);`
	for _, stmt := range []string{users, documents, contracts} {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	return gdb
}

func newRep(city string) *models.User {
	return &models.User{
		ID:           uuid.New(),
		Role:         enums.RoleRepresentative,
		FirstName:    "Sara",
		LastName:     "Ahmadi",
		NationalID:   uuid.NewString(),
		PhoneNumber:  "09120000000",
		City:         city,
		IsActive:     true,
		PasswordHash: "hash",
	}
}

func TestCreateRejectsDuplicateNationalID(t *testing.T) {
	gdb := setupRepsTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	first := newRep("Tehran")
	require.NoError(t, repo.Create(ctx, first))

	dup := newRep("Tehran")
	dup.NationalID = first.NationalID
	err := repo.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""), "expected unique violation, got %v", err)
}

func TestFindByIDOnlyReturnsRepresentatives(t *testing.T) {
	gdb := setupRepsTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	admin := newRep("Tehran")
	admin.Role = enums.RoleAdmin
	require.NoError(t, gdb.Create(admin).Error)

	_, err := repo.FindByID(ctx, admin.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFindDetailPreloadsFiles(t *testing.T) {
	gdb := setupRepsTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	rep := newRep("Tehran")
	require.NoError(t, repo.Create(ctx, rep))

	doc := &models.Document{
		ID:       uuid.New(),
		UserID:   rep.ID,
		Title:    "national card",
		FileURL:  "/uploads/card.jpg",
		FileType: "image/jpeg",
	}
	require.NoError(t, gdb.Create(doc).Error)

	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	contract := &models.Contract{
		ID:        uuid.New(),
		UserID:    rep.ID,
		Title:     "sales contract",
		FileURL:   "/uploads/contract.pdf",
		StartDate: start,
		EndDate:   start.AddDate(1, 0, 0),
	}
	require.NoError(t, gdb.Create(contract).Error)

	detail, err := repo.FindDetailByID(ctx, rep.ID)
	require.NoError(t, err)
	require.Len(t, detail.Documents, 1)
	require.Len(t, detail.Contracts, 1)
	assert.Equal(t, "national card", detail.Documents[0].Title)
	assert.Equal(t, "sales contract", detail.Contracts[0].Title)
}

func TestListFilters(t *testing.T) {
	gdb := setupRepsTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	tehran := newRep("Tehran")
	shiraz := newRep("Shiraz")
	shiraz.IsActive = false
	require.NoError(t, repo.Create(ctx, tehran))
	require.NoError(t, repo.Create(ctx, shiraz))

	city := "Shiraz"
	inCity, err := repo.List(ctx, ListQuery{City: &city})
	require.NoError(t, err)
	require.Len(t, inCity, 1)
	assert.Equal(t, shiraz.ID, inCity[0].ID)

	active := true
	count, err := repo.Count(ctx, ListQuery{IsActive: &active, City: &city})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeleteRemovesAttachedFiles(t *testing.T) {
	gdb := setupRepsTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	rep := newRep("Tehran")
	require.NoError(t, repo.Create(ctx, rep))
	doc := &models.Document{
		ID:       uuid.New(),
		UserID:   rep.ID,
		Title:    "national card",
		FileURL:  "/uploads/card.jpg",
		FileType: "image/jpeg",
	}
	require.NoError(t, gdb.Create(doc).Error)

	require.NoError(t, repo.Delete(ctx, rep.ID))

	var userCount, docCount int64
	require.NoError(t, gdb.Model(&models.User{}).Where("id = ?", rep.ID).Count(&userCount).Error)
	require.NoError(t, gdb.Model(&models.Document{}).Where("user_id = ?", rep.ID).Count(&docCount).Error)
	assert.Zero(t, userCount)
	assert.Zero(t, docCount)
}

package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Payment Index!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}

	base := filepath.Base(path)
	if !strings.HasSuffix(base, "_add_payment_index.sql") {
		t.Fatalf("expected sanitized filename, got %q", base)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if !strings.Contains(string(contents), "-- +goose Up") ||
		!strings.Contains(string(contents), "-- +goose Down") {
		t.Fatalf("expected goose template, got:\n%s", contents)
	}

	if _, err := CreateSQLMigration(dir, "Add Payment Index!"); err == nil {
		t.Fatalf("expected error for already existing migration")
	}
}

func TestCreateSQLMigrationRejectsEmptyName(t *testing.T) {
	if _, err := CreateSQLMigration(t.TempDir(), ""); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if _, err := CreateSQLMigration(t.TempDir(), "!!!"); err == nil {
		t.Fatalf("expected error for name that sanitizes away")
	}
}

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()

	good := "-- +goose Up\nCREATE TABLE t (id TEXT);\n-- +goose Down\nDROP TABLE t;\n"
	writeMigration(t, dir, "20260101120000_create_t.sql", good)

	if err := ValidateDir(dir); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "create_t.sql", "-- +goose Up\n-- +goose Down\n")

	if err := ValidateDir(dir); err == nil {
		t.Fatalf("expected error for unversioned filename")
	}
}

func TestValidateDirRejectsDuplicateVersions(t *testing.T) {
	dir := t.TempDir()
	body := "-- +goose Up\n-- +goose Down\n"
	writeMigration(t, dir, "20260101120000_first.sql", body)
	writeMigration(t, dir, "20260101120000_second.sql", body)

	if err := ValidateDir(dir); err == nil {
		t.Fatalf("expected error for duplicate version")
	}
}

func TestValidateDirRejectsMissingGooseMarkers(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20260101120000_create_t.sql", "CREATE TABLE t (id TEXT);")

	if err := ValidateDir(dir); err == nil {
		t.Fatalf("expected error for missing goose markers")
	}
}

func TestValidateShippedMigrations(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations invalid: %v", err)
	}
}

func writeMigration(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

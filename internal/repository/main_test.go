package repository

import (
	"context"
	"os"
	"testing"

	"wiseadvice/internal/testutil"

	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) (*gorm.DB, *Repositories, context.Context) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return db, New(db), context.Background()
}

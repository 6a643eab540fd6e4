package repository

import (
	"context"
	"regexp"
	"testing"

	"wiseadvice/internal/models"
	"wiseadvice/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name         string
		userID       uint
		mockBehavior func()
		expectedUser *models.User
		expectedCode string
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "login", "email", "role"}).
					AddRow(1, "sage", "sage@example.com", "admin")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(rows)
			},
			expectedUser: &models.User{ID: 1, Login: "sage", Email: "sage@example.com", Role: models.RoleAdmin},
		},
		{
			name:   "Not Found",
			userID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(99, 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			expectedCode: models.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)

			if tt.expectedCode != "" {
				require.Error(t, err)
				assert.True(t, models.HasCode(err, tt.expectedCode))
			} else if assert.NotNil(t, user) {
				assert.Equal(t, tt.expectedUser.Login, user.Login)
				assert.True(t, user.IsAdmin())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_CreateDuplicateIsConflict(t *testing.T) {
	db, repos, ctx := setupTestDB(t)
	existing := testutil.CreateUser(t, db)

	err := repos.Users.Create(ctx, &models.User{
		Login:    existing.Login,
		Email:    "other@example.com",
		Password: "x",
		Role:     models.RoleUser,
	})
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeConflict))
}

func TestUserRepository_LookupsReturnNilWhenMissing(t *testing.T) {
	db, repos, ctx := setupTestDB(t)
	u := testutil.CreateUser(t, db)

	got, err := repos.Users.GetByLogin(ctx, u.Login)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	got, err = repos.Users.GetByEmail(ctx, "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepository_AdjustRatingIsAdditive(t *testing.T) {
	db, repos, ctx := setupTestDB(t)
	u := testutil.CreateUser(t, db)

	require.NoError(t, repos.Users.AdjustRating(ctx, u.ID, 2))
	require.NoError(t, repos.Users.AdjustRating(ctx, u.ID, -5))
	require.NoError(t, repos.Users.AdjustRating(ctx, u.ID, 0))

	got, err := repos.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, -3, got.Rating)
}

func TestUserRepository_DeleteMissing(t *testing.T) {
	_, repos, ctx := setupTestDB(t)
	err := repos.Users.Delete(ctx, 404)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

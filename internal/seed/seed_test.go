package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wiseadvice/internal/models"
	"wiseadvice/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCategories(t *testing.T) {
	doc := `
categories:
  - title: "  Career "
    description: jobs
  - title: career
  - title: Money
`
	cats, err := DecodeCategories(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Career", cats[0].Title)
	assert.Equal(t, "jobs", cats[0].Description)
	assert.Equal(t, "Money", cats[1].Title)

	_, err = DecodeCategories(strings.NewReader("categories:\n  - title: \"a,b\"\n"))
	assert.Error(t, err)

	_, err = DecodeCategories(strings.NewReader("categories:\n  - description: untitled\n"))
	assert.Error(t, err)
}

func TestLoadCategories(t *testing.T) {
	builtin, err := LoadCategories("")
	require.NoError(t, err)
	assert.NotEmpty(t, builtin)

	path := filepath.Join(t.TempDir(), "cats.yml")
	require.NoError(t, os.WriteFile(path, []byte("categories:\n  - title: Pets\n"), 0o600))
	cats, err := LoadCategories(path)
	require.NoError(t, err)
	assert.Equal(t, []CategoryFixture{{Title: "Pets"}}, cats)

	_, err = LoadCategories(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestFactory_LoginsAreValidAndUnique(t *testing.T) {
	f := NewFactory(42)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		u := f.User(DefaultPassword)
		assert.Regexp(t, `^[a-z0-9]{3,30}$`, u.Login)
		assert.False(t, seen[u.Login], "duplicate login %s", u.Login)
		seen[u.Login] = true
	}
}

func TestSeeder_Run(t *testing.T) {
	db := testutil.NewTestDB(t)
	s := NewSeeder(db)
	ctx := context.Background()

	sum, err := s.Run(ctx, Options{NumUsers: 4, NumPosts: 6, Seed: 7})
	require.NoError(t, err)

	builtin, err := LoadCategories("")
	require.NoError(t, err)
	assert.Equal(t, len(builtin), sum.Categories)
	assert.Equal(t, 4, sum.Users)
	assert.Equal(t, 6, sum.Posts)

	var posts, comments int64
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	assert.Equal(t, int64(6), posts)
	assert.Equal(t, int64(sum.Comments), comments)

	var admin models.User
	require.NoError(t, db.Where("login = ?", "admin").First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	// A second run reuses the admin and the categories.
	sum, err = s.Run(ctx, Options{NumUsers: 1, Seed: 8})
	require.NoError(t, err)
	assert.Zero(t, sum.Categories)
	assert.Equal(t, 1, sum.Users)
}

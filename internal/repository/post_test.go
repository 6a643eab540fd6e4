package repository

import (
	"testing"
	"time"

	"wiseadvice/internal/models"
	"wiseadvice/internal/postquery"
	"wiseadvice/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postIDs(posts []models.Post) []uint {
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func TestPostRepository_ListSortsByLikesThenID(t *testing.T) {
	db, repos, ctx := setupTestDB(t)
	author := testutil.CreateUser(t, db)
	fans := []*models.User{testutil.CreateUser(t, db), testutil.CreateUser(t, db), testutil.CreateUser(t, db)}

	p1 := testutil.CreatePost(t, db, author)
	p2 := testutil.CreatePost(t, db, author)
	p3 := testutil.CreatePost(t, db, author)
	p4 := testutil.CreatePost(t, db, author)

	for _, f := range fans {
		testutil.React(t, db, f, models.PostTarget(p2.ID), models.ReactionLike)
	}
	testutil.React(t, db, fans[0], models.PostTarget(p3.ID), models.ReactionLike)
	testutil.React(t, db, fans[1], models.PostTarget(p1.ID), models.ReactionLike)
	testutil.React(t, db, fans[2], models.PostTarget(p1.ID), models.ReactionDislike)

	posts, total, err := repos.Posts.List(ctx, postquery.Build(postquery.Query{Sort: postquery.SortLikes, PageSize: 10}))
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	// p3 and p1 tie on one like; the higher id wins. Dislikes never count.
	assert.Equal(t, []uint{p2.ID, p3.ID, p1.ID, p4.ID}, postIDs(posts))
	assert.Equal(t, 3, posts[0].LikesCount)
	assert.Equal(t, author.Login, posts[0].AuthorLogin)
}

func TestPostRepository_ListSortsByDate(t *testing.T) {
	db, repos, ctx := setupTestDB(t)
	author := testutil.CreateUser(t, db)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	older := testutil.CreatePost(t, db, author, testutil.PublishedAt(base))
	newer := testutil.CreatePost(t, db, author, testutil.PublishedAt(base.Add(48*time.Hour)))
	sameAsOlder := testutil.CreatePost(t, db, author, testutil.PublishedAt(base))

	posts, _, err := repos.Posts.List(ctx, postquery.Build(postquery.Query{Sort: postquery.SortDate, PageSize: 10}))
	require.NoError(t, err)
	assert.Equal(t, []uint{newer.ID, sameAsOlder.ID, older.ID}, postIDs(posts))
}

func TestPostRepository_ListPagination(t *testing.T) {
	db, repos, ctx := setupTestDB(t)
	author := testutil.CreateUser(t, db)
	for i := 0; i < 5; i++ {
		testutil.CreatePost(t, db, author)
	}

	page2, total, err := repos.Posts.List(ctx, postquery.Build(postquery.Query{Page: 2}))
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page2, 2)

	page9, total, err := repos.Posts.List(ctx, postquery.Build(postquery.Query{Page: 9}))
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Empty(t, page9)
	assert.NotNil(t, page9)
}

func TestPostRepository_ListFilters(t *testing.T) {
	db, repos, ctx := setupTestDB(t)
	author := testutil.CreateUser(t, db)
	viewer := testutil.CreateUser(t, db)
	health := testutil.CreateCategory(t, db, "health")
	career := testutil.CreateCategory(t, db, "career")

	jan := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC)

	both := testutil.CreatePost(t, db, author, testutil.PublishedAt(jan), testutil.WithCategories(*health, *career))
	healthOnly := testutil.CreatePost(t, db, author, testutil.PublishedAt(feb), testutil.WithCategories(*health))
	hidden := testutil.CreatePost(t, db, author, testutil.PublishedAt(jan), testutil.Inactive())
	own := testutil.CreatePost(t, db, viewer, testutil.PublishedAt(feb), testutil.Inactive())

	// Likes on a multi-category post must not be multiplied by the category join.
	testutil.React(t, db, viewer, models.PostTarget(both.ID), models.ReactionLike)

	list := func(filters ...postquery.Filter) ([]uint, int64) {
		t.Helper()
		posts, total, err := repos.Posts.List(ctx, postquery.Build(postquery.Query{Filters: filters, PageSize: 10}))
		require.NoError(t, err)
		return postIDs(posts), total
	}

	ids, total := list(postquery.VisibilityFilter{})
	assert.ElementsMatch(t, []uint{both.ID, healthOnly.ID}, ids)
	assert.Equal(t, int64(2), total)

	ids, _ = list(postquery.VisibilityFilter{ViewerID: viewer.ID})
	assert.ElementsMatch(t, []uint{both.ID, healthOnly.ID, own.ID}, ids)

	ids, _ = list(postquery.VisibilityFilter{ViewerID: viewer.ID, Admin: true})
	assert.ElementsMatch(t, []uint{both.ID, healthOnly.ID, hidden.ID, own.ID}, ids)

	ids, total = list(postquery.CategoryFilter{Titles: []string{"health", "career"}})
	assert.Equal(t, []uint{both.ID, healthOnly.ID}, ids)
	assert.Equal(t, int64(2), total)

	posts, _, err := repos.Posts.List(ctx, postquery.Build(postquery.Query{
		Filters: []postquery.Filter{postquery.CategoryIDFilter{CategoryID: career.ID}},
	}))
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, 1, posts[0].LikesCount)

	ids, _ = list(postquery.DateRangeFilter{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC),
	})
	assert.ElementsMatch(t, []uint{both.ID, hidden.ID}, ids)

	ids, _ = list(postquery.StatusFilter{Status: models.StatusInactive}, postquery.AuthorFilter{AuthorID: author.ID})
	assert.Equal(t, []uint{hidden.ID}, ids)
}

func TestPostRepository_FavoritesAndSubscriptionsFilters(t *testing.T) {
	db, repos, ctx := setupTestDB(t)
	author := testutil.CreateUser(t, db)
	reader := testutil.CreateUser(t, db)
	p1 := testutil.CreatePost(t, db, author)
	p2 := testutil.CreatePost(t, db, author)

	_, err := repos.Follows.AddFavorite(ctx, reader.ID, p1.ID)
	require.NoError(t, err)
	require.NoError(t, repos.Follows.Subscribe(ctx, reader.ID, p2.ID))

	posts, total, err := repos.Posts.List(ctx, postquery.Build(postquery.Query{
		Filters: []postquery.Filter{postquery.FavoritesFilter{UserID: reader.ID}},
	}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []uint{p1.ID}, postIDs(posts))

	posts, _, err = repos.Posts.List(ctx, postquery.Build(postquery.Query{
		Filters: []postquery.Filter{postquery.SubscriptionsFilter{UserID: reader.ID}},
	}))
	require.NoError(t, err)
	assert.Equal(t, []uint{p2.ID}, postIDs(posts))
}

func TestPostRepository_GetByIDAndCategories(t *testing.T) {
	db, repos, ctx := setupTestDB(t)
	author := testutil.CreateUser(t, db)
	fan := testutil.CreateUser(t, db)
	health := testutil.CreateCategory(t, db, "health")
	career := testutil.CreateCategory(t, db, "career")
	p := testutil.CreatePost(t, db, author, testutil.WithCategories(*health))
	testutil.React(t, db, fan, models.PostTarget(p.ID), models.ReactionLike)

	got, err := repos.Posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, author.Login, got.AuthorLogin)
	assert.Equal(t, 1, got.LikesCount)
	require.Len(t, got.Categories, 1)

	require.NoError(t, repos.Posts.ReplaceCategories(ctx, got, []models.Category{*career}))
	cats, err := repos.Posts.Categories(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "career", cats[0].Title)

	_, err = repos.Posts.GetByID(ctx, 9999)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

package postquery

import (
	"testing"
	"time"

	"wiseadvice/internal/models"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

func render(st Statement) []byte {
	return []byte(st.SQL + "\n" + st.CountSQL + "\n")
}

func TestBuild_Golden(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jan31 := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name  string
		query Query
	}{
		{"no_filters_likes", Query{Sort: SortLikes}},
		{"anonymous_by_date", Query{
			Filters: []Filter{VisibilityFilter{}},
			Sort:    SortDate,
		}},
		{"member_all_filters", Query{
			Filters: []Filter{
				VisibilityFilter{ViewerID: 5},
				CategoryFilter{Titles: []string{"health", "career"}},
				DateRangeFilter{Start: jan1, End: jan31},
				StatusFilter{Status: models.StatusInactive},
			},
			Sort: SortLikes,
			Page: 2,
		}},
		{"admin_author", Query{
			Filters: []Filter{VisibilityFilter{ViewerID: 1, Admin: true}, AuthorFilter{AuthorID: 7}},
		}},
		{"favorites", Query{
			Filters: []Filter{VisibilityFilter{ViewerID: 5}, FavoritesFilter{UserID: 5}},
		}},
		{"subscriptions", Query{
			Filters: []Filter{VisibilityFilter{ViewerID: 5}, SubscriptionsFilter{UserID: 5}},
			Sort:    SortDate,
		}},
		{"category_id", Query{
			Filters: []Filter{VisibilityFilter{}, CategoryIDFilter{CategoryID: 3}},
			Sort:    Sort("bogus"),
		}},
	}

	g := goldie.New(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g.Assert(t, tt.name, render(Build(tt.query)))
		})
	}
}

func TestBuild_Args(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jan31 := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	st := Build(Query{
		Filters: []Filter{
			VisibilityFilter{ViewerID: 5},
			CategoryFilter{Titles: []string{"health", " ", "career"}},
			DateRangeFilter{Start: jan1, End: jan31},
			StatusFilter{Status: models.StatusInactive},
		},
		Page: 2,
	})

	wantFilterArgs := []any{"like", "active", uint(5), "health", "career", jan1, jan31, "inactive"}
	assert.Equal(t, wantFilterArgs, st.CountArgs)
	assert.Equal(t, append(wantFilterArgs, PageSize, 3), st.Args)
}

func TestBuild_EmptyFiltersEmitNothing(t *testing.T) {
	st := Build(Query{Filters: []Filter{
		CategoryFilter{},
		CategoryFilter{Titles: []string{"", "  "}},
		StatusFilter{},
		VisibilityFilter{Admin: true},
		nil,
	}})

	assert.NotContains(t, st.SQL, "WHERE")
	assert.Equal(t, []any{"like"}, st.CountArgs)
}

func TestBuild_Pagination(t *testing.T) {
	tests := []struct {
		page, size int
		wantLimit  int
		wantOffset int
	}{
		{page: 1, size: 3, wantLimit: 3, wantOffset: 0},
		{page: 2, size: 3, wantLimit: 3, wantOffset: 3},
		{page: 0, size: 3, wantLimit: 3, wantOffset: 0},
		{page: 3, size: 4, wantLimit: 4, wantOffset: 8},
		{page: 2, size: 0, wantLimit: PageSize, wantOffset: PageSize},
	}
	for _, tt := range tests {
		st := Build(Query{Page: tt.page, PageSize: tt.size})
		n := len(st.Args)
		assert.Equal(t, tt.wantLimit, st.Args[n-2], "limit for page %d size %d", tt.page, tt.size)
		assert.Equal(t, tt.wantOffset, st.Args[n-1], "offset for page %d size %d", tt.page, tt.size)
	}
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortLikes, ParseSort(""))
	assert.Equal(t, SortLikes, ParseSort("likes"))
	assert.Equal(t, SortDate, ParseSort(" DATE "))
	assert.Equal(t, SortLikes, ParseSort("rating"))
}

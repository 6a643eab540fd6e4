package postquery

import (
	"strings"

	"wiseadvice/internal/models"
)

// PageSize is the number of posts on one listing page.
const PageSize = 3

// Sort selects the listing order.
type Sort string

const (
	SortLikes Sort = "likes"
	SortDate  Sort = "date"
)

// ParseSort maps a raw value to a Sort. Unknown values sort by likes.
func ParseSort(raw string) Sort {
	if Sort(strings.ToLower(strings.TrimSpace(raw))) == SortDate {
		return SortDate
	}
	return SortLikes
}

func (s Sort) orderBy() string {
	if s == SortDate {
		return "posts.publish_date DESC, posts.id DESC"
	}
	return "likes_count DESC, posts.id DESC"
}

// Query describes one listing request.
type Query struct {
	Filters  []Filter
	Sort     Sort
	Page     int
	PageSize int
}

// Statement is a compiled listing: one page of rows plus the total count.
type Statement struct {
	SQL       string
	Args      []any
	CountSQL  string
	CountArgs []any
}

const baseSelect = "SELECT posts.*, users.login AS author_login, COUNT(likes.id) AS likes_count" +
	" FROM posts" +
	" JOIN users ON users.id = posts.author_id" +
	" LEFT JOIN likes ON likes.post_id = posts.id AND likes.type = ?"

// Build compiles q. Filter clauses appear in the order they were given.
func Build(q Query) Statement {
	var sb strings.Builder
	sb.WriteString(baseSelect)
	args := []any{string(models.ReactionLike)}

	first := true
	for _, f := range q.Filters {
		if f == nil {
			continue
		}
		cond, fargs, ok := f.clause()
		if !ok {
			continue
		}
		if first {
			sb.WriteString(" WHERE ")
			first = false
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(cond)
		args = append(args, fargs...)
	}
	sb.WriteString(" GROUP BY posts.id, users.login")
	grouped := sb.String()

	size := q.PageSize
	if size <= 0 {
		size = PageSize
	}

	listArgs := make([]any, 0, len(args)+2)
	listArgs = append(listArgs, args...)
	listArgs = append(listArgs, size, Offset(q.Page, size))

	return Statement{
		SQL:       grouped + " ORDER BY " + q.Sort.orderBy() + " LIMIT ? OFFSET ?",
		Args:      listArgs,
		CountSQL:  "SELECT COUNT(*) FROM (" + grouped + ") AS filtered",
		CountArgs: args,
	}
}

// Offset returns the row offset of page. Pages start at 1.
func Offset(page, size int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * size
}

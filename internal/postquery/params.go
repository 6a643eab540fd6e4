package postquery

import (
	"strconv"
	"strings"
	"time"

	"wiseadvice/internal/models"
)

// Params is a parsed listing query string.
type Params struct {
	Page    int
	Sort    Sort
	Filters []Filter
}

// ParsePage returns the page number, defaulting to 1 for absent,
// non-numeric or non-positive input.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ParseParams turns the raw listing parameters into filters. categories
// is a comma separated list of titles and dateInterval is "start,end".
// Filters are returned in the order categories, date range, status.
func ParseParams(page, sort, status, categories, dateInterval string) (Params, error) {
	p := Params{
		Page: ParsePage(page),
		Sort: ParseSort(sort),
	}

	if titles := SplitList(categories); len(titles) > 0 {
		p.Filters = append(p.Filters, CategoryFilter{Titles: titles})
	}

	if strings.TrimSpace(dateInterval) != "" {
		f, err := parseDateInterval(dateInterval)
		if err != nil {
			return Params{}, err
		}
		p.Filters = append(p.Filters, f)
	}

	if s := strings.TrimSpace(status); s != "" {
		st := models.Status(strings.ToLower(s))
		if !models.ValidStatus(st) {
			return Params{}, models.NewValidationError("status must be active or inactive")
		}
		p.Filters = append(p.Filters, StatusFilter{Status: st})
	}

	return p, nil
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseDateInterval(raw string) (DateRangeFilter, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return DateRangeFilter{}, models.NewValidationError("dateInterval must be two dates separated by a comma")
	}

	start, _, err := parseDate(parts[0])
	if err != nil {
		return DateRangeFilter{}, err
	}
	end, dateOnly, err := parseDate(parts[1])
	if err != nil {
		return DateRangeFilter{}, err
	}
	if dateOnly {
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	if end.Before(start) {
		return DateRangeFilter{}, models.NewValidationError("dateInterval end is before start")
	}
	return DateRangeFilter{Start: start, End: end}, nil
}

func parseDate(raw string) (time.Time, bool, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), false, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, models.NewValidationError("invalid date " + strconv.Quote(raw) + ", use YYYY-MM-DD or RFC3339")
}

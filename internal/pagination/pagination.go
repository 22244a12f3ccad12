// Package pagination implements the list-query convention shared by every listing
// endpoint: page/limit/sort normalisation, a case-insensitive search over a fixed set
// of columns, and equality filters over whitelisted columns.
package pagination

import (
	"sort"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPage      = 1
	DefaultLimit     = 10
	MaxLimit         = 100
	DefaultSortBy    = "created_at"
	DefaultSortOrder = "asc"
)

// Options is the raw pagination input as it arrives from the query string.
type Options struct {
	Page      string `query:"page"`
	Limit     string `query:"limit"`
	SortBy    string `query:"sortBy"`
	SortOrder string `query:"sortOrder"`
}

type Page struct {
	Page      int
	Limit     int
	Skip      int
	SortBy    string
	SortOrder string
}

type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type Result[T any] struct {
	Meta Meta `json:"meta"`
	Data []T  `json:"data"`
}

func NewResult[T any](p Page, total int64, data []T) *Result[T] {
	if data == nil {
		data = []T{}
	}
	return &Result[T]{
		Meta: Meta{Page: p.Page, Limit: p.Limit, Total: total},
		Data: data,
	}
}

// Calculate normalises opts. sortBy must be one of sortable (column names); anything
// else falls back to DefaultSortBy.
func Calculate(opts Options, sortable ...string) Page {
	page, err := strconv.Atoi(opts.Page)
	if err != nil || page < 1 {
		page = DefaultPage
	}

	limit, err := strconv.Atoi(opts.Limit)
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	sortBy := DefaultSortBy
	column := toSnake(opts.SortBy)
	for _, s := range sortable {
		if s == column {
			sortBy = column
			break
		}
	}

	sortOrder := strings.ToLower(opts.SortOrder)
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = DefaultSortOrder
	}

	return Page{
		Page:      page,
		Limit:     limit,
		Skip:      (page - 1) * limit,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}
}

// Paginate applies offset, limit and ordering. The sort column is qualified with the
// current table so joined queries stay unambiguous.
func Paginate(p Page) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Offset(p.Skip).
			Limit(p.Limit).
			Order(clause.OrderByColumn{
				Column: clause.Column{Table: clause.CurrentTable, Name: p.SortBy},
				Desc:   p.SortOrder == "desc",
			})
	}
}

// Search matches term case-insensitively as a substring of any of columns.
// columns are trusted identifiers, never user input.
func Search(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}

		like := "%" + strings.ToLower(term) + "%"
		conds := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			conds[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = like
		}

		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

// Equals adds one equality condition per non-empty filter value. Keys are looked up
// in allowed, which maps the public filter name to its column; unknown keys are
// ignored.
func Equals(filters map[string]string, allowed map[string]string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		keys := make([]string, 0, len(filters))
		for k := range filters {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			col, ok := allowed[k]
			if !ok || filters[k] == "" {
				continue
			}
			db = db.Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: col}, Value: filters[k]})
		}
		return db
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

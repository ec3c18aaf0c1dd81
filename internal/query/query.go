// Package query describes file listings as an ordered list of
// backend-agnostic predicates. The closed variant set keeps the store's
// SQL compilation exhaustively checkable.
package query

import (
	"strings"

	"skyvault/internal/filetype"
)

type Predicate interface {
	isPredicate()
}

// Equal matches rows whose field equals any of the given values.
type Equal struct {
	Field  string
	Values []any
}

// Contains matches rows whose field contains the value: substring match
// (case-insensitive) for text fields, membership for list fields.
type Contains struct {
	Field string
	Value string
}

// Or matches rows satisfying at least one of the alternatives.
type Or struct {
	Alternatives []Predicate
}

// OrderBy sorts the result on a single field.
type OrderBy struct {
	Field      string
	Descending bool
}

// Limit caps the number of returned rows.
type Limit struct {
	N int
}

func (Equal) isPredicate()    {}
func (Contains) isPredicate() {}
func (Or) isPredicate()       {}
func (OrderBy) isPredicate()  {}
func (Limit) isPredicate()    {}

const defaultSortField = "created_at"

// ForViewer builds the predicate list for a file listing. The first
// predicate is always the authorization boundary: the viewer owns the file
// or is named in its sharing list. No listing may omit it.
//
// sort has the form "<field>-<asc|desc>". Any direction token other than
// "asc", including a malformed or missing one, sorts descending; an empty
// sort falls back to created_at descending.
func ForViewer(viewerID int64, viewerEmail string, types []filetype.Category, searchText string, sort string, limit int) []Predicate {
	preds := []Predicate{
		Or{Alternatives: []Predicate{
			Equal{Field: "owner_id", Values: []any{viewerID}},
			Contains{Field: "shared_with", Value: viewerEmail},
		}},
	}

	if len(types) > 0 {
		values := make([]any, len(types))
		for i, t := range types {
			values[i] = string(t)
		}
		preds = append(preds, Equal{Field: "category", Values: values})
	}

	if searchText != "" {
		preds = append(preds, Contains{Field: "name", Value: searchText})
	}

	if limit > 0 {
		preds = append(preds, Limit{N: limit})
	}

	field, direction := splitSort(sort)
	preds = append(preds, OrderBy{Field: field, Descending: direction != "asc"})

	return preds
}

func splitSort(sort string) (field, direction string) {
	if sort == "" {
		return defaultSortField, "desc"
	}
	parts := strings.SplitN(sort, "-", 2)
	field = parts[0]
	if len(parts) == 2 {
		direction = parts[1]
	}
	return field, direction
}

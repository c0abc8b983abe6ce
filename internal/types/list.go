package types

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// ListEnvelope normalizes the two list shapes the catalog API returns:
// a bare JSON array, or an object carrying results and an optional next cursor.
type ListEnvelope[T any] struct {
	Results []T
	Next    string
}

type listObject[T any] struct {
	Results []T     `json:"results"`
	Next    *string `json:"next"`
}

// UnmarshalJSON accepts either `[...]` or `{"results": [...], "next": ...}`
func (l *ListEnvelope[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = ListEnvelope[T]{}
		return nil
	}

	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("decode list: %w", err)
		}
		*l = ListEnvelope[T]{Results: items}
		return nil
	}

	var obj listObject[T]
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decode list: %w", err)
	}
	l.Results = obj.Results
	l.Next = ""
	if obj.Next != nil {
		l.Next = *obj.Next
	}
	return nil
}

// HasNext reports whether the listing advertises another page
func (l ListEnvelope[T]) HasNext() bool {
	return l.Next != ""
}

// Catalog is a user-owned recipe collection
type Catalog struct {
	ID      ID          `json:"id"`
	Name    string      `json:"name"`
	IsOwner bool        `json:"is_owner,omitempty"`
	Recipes []RecipeRef `json:"recipes,omitempty"`
}

// PredefinedCatalog is a curated listing whose recipes are selected by filter criteria
type PredefinedCatalog struct {
	ID             ID             `json:"id"`
	Name           string         `json:"name"`
	Type           ID             `json:"type,omitempty"`
	FilterCriteria map[string]any `json:"filter_criteria"`
}

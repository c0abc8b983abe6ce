package types

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// ID is an identity as returned by the catalog API.
// The service emits both JSON strings and JSON numbers; both decode to the same text form.
type ID string

// UnmarshalJSON accepts a JSON string, a JSON number or null
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("id: %w", err)
		}
		*id = ID(s)
		return nil
	default:
		if _, err := strconv.ParseFloat(string(data), 64); err != nil {
			return fmt.Errorf("id: unsupported value %s", data)
		}
		*id = ID(data)
		return nil
	}
}

// String returns the id text
func (id ID) String() string { return string(id) }

// RecipeRef is a reference to a recipe with identity and minimal display attributes.
// Values returned by the catalog API are treated as immutable.
type RecipeRef struct {
	RecipeID  ID       `json:"recipe_id,omitempty"`
	ID        ID       `json:"id,omitempty"`
	Name      string   `json:"name"`
	Calories  *float64 `json:"calories,omitempty"`
	TotalMins *float64 `json:"total_mins,omitempty"`
	Images    []string `json:"images,omitempty"`
}

// Key returns the identity used for result deduplication: recipe_id, or id when recipe_id is absent
func (r RecipeRef) Key() string {
	if r.RecipeID != "" {
		return r.RecipeID.String()
	}
	return r.ID.String()
}

// RecipeDetail is the single-recipe payload from recipes/<id>/
type RecipeDetail struct {
	RecipeRef
	IsFavorite bool `json:"is_favorite"`
}

package pagination

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrMalformedCursor is returned for next references that are not absolute URLs
var ErrMalformedCursor = errors.New("malformed pagination cursor")

// DefaultAPIPrefix is the path segment the catalog service puts in front of every listing path
const DefaultAPIPrefix = "api/"

// NormalizeCursor translates the absolute next URL returned by the catalog
// service into a target relative to the client's API root: scheme and host
// are dropped, then the leading slash, then a leading apiPrefix segment. The
// query string is kept; a fragment is not.
//
//	NormalizeCursor("https://host/api/recipes/?page=2", "api/") == "recipes/?page=2"
//
// This depends on the service keeping its prefix convention.
func NormalizeCursor(next, apiPrefix string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(next))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedCursor, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("%w: %q is not an absolute URL", ErrMalformedCursor, next)
	}

	path := strings.TrimPrefix(u.EscapedPath(), "/")
	if prefix := strings.Trim(apiPrefix, "/"); prefix != "" {
		if path == prefix {
			path = ""
		} else if strings.HasPrefix(path, prefix+"/") {
			path = path[len(prefix)+1:]
		}
	}

	target := path
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	if target == "" {
		return "", fmt.Errorf("%w: %q has no path or query", ErrMalformedCursor, next)
	}
	return target, nil
}

// FiltersFromCriteria converts a predefined catalog's filter_criteria into query parameters.
// Lists become repeated parameters; null values are dropped.
func FiltersFromCriteria(criteria map[string]any) url.Values {
	params := url.Values{}
	for key, value := range criteria {
		switch v := value.(type) {
		case nil:
		case []any:
			for _, item := range v {
				if item != nil {
					params.Add(key, formatValue(item))
				}
			}
		default:
			params.Set(key, formatValue(v))
		}
	}
	return params
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

package normalizer

import (
	"fmt"
)

// containerKeys are the conventional wrapper keys APIs put record lists
// under, checked in this order.
var containerKeys = []string{"data", "results", "items", "listings", "properties"}

// unwrap coerces a decoded document into a list of listing objects. Arrays
// are used directly; an object either wraps the list under a container key
// or is itself the sole listing.
func unwrap(doc any) ([]map[string]any, error) {
	switch v := doc.(type) {
	case nil:
		return nil, ErrEmptyInput
	case []any:
		return toListings(v)
	case map[string]any:
		for _, key := range containerKeys {
			if list, ok := v[key].([]any); ok {
				return toListings(list)
			}
		}

		return []map[string]any{v}, nil
	default:
		return nil, fmt.Errorf("%w: document is %T, want object or array", ErrSchemaMismatch, doc)
	}
}

// toListings asserts every element of a record list is an object.
func toListings(items []any) ([]map[string]any, error) {
	listings := make([]map[string]any, 0, len(items))

	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %T, want object", ErrSchemaMismatch, i, item)
		}

		listings = append(listings, obj)
	}

	return listings, nil
}

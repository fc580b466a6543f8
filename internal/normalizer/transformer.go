package normalizer

import (
	"sort"

	"primesquare/internal/models"
)

// Flatten collapses nested objects into dotted field names, so a listing
// shaped {"address": {"city": "Dallas"}} exposes "address.city". Arrays and
// scalars stay as values. Keys are walked in sorted order so colliding names
// resolve the same way on every run.
func Flatten(obj map[string]any) map[string]any {
	flat := make(map[string]any, len(obj))
	flattenInto(flat, "", obj)

	return flat
}

func flattenInto(flat map[string]any, prefix string, obj map[string]any) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}

		if nested, ok := obj[k].(map[string]any); ok {
			flattenInto(flat, name, nested)
			continue
		}

		flat[name] = obj[k]
	}
}

// ApplyAliases renames known alternate field names onto their canonical
// columns. A canonical name already present in the input wins over any
// alias; between aliases for the same column the lexically smallest wins.
// Fields outside the alias table pass through unchanged.
func ApplyAliases(flat map[string]any) map[string]any {
	aliases := models.AliasTable()
	out := make(map[string]any, len(flat))

	var found []string

	for k, v := range flat {
		if _, isAlias := aliases[k]; isAlias {
			found = append(found, k)
			continue
		}

		out[k] = v
	}

	sort.Strings(found)

	for _, k := range found {
		target := aliases[k]
		if _, exists := out[target]; !exists {
			out[target] = flat[k]
		}
	}

	return out
}

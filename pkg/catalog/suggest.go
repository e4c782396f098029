package catalog

import (
	"sort"
	"strings"
)

// Suggest returns up to n member or window type names close to identifier:
// names it is a prefix of, then names sharing its package or type prefix,
// then fuzzy matches.
func (c *Catalog) Suggest(identifier string, n int) []string {
	key := strings.ToLower(identifier)
	keys := c.names.PrefixSearch(key)
	if len(keys) == 0 {
		if i := strings.LastIndex(key, "."); i > 0 {
			keys = c.names.PrefixSearch(key[:i+1])
		}
	}
	if len(keys) == 0 {
		keys = c.names.FuzzySearch(key)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})
	var r []string
	for _, k := range keys {
		for _, name := range c.spellings[k] {
			if len(r) == n {
				return r
			}
			r = append(r, name)
		}
	}
	return r
}

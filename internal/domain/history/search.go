package history

import "strings"

// Filter returns the items whose indexed fields contain query as a
// case-insensitive substring. A blank or whitespace-only query returns the
// input unchanged. Matching is plain substring containment, no tokenizing or
// fuzziness.
func Filter[T any](items []T, query string, fields func(T) []string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}

	matched := make([]T, 0)
	for _, item := range items {
		for _, f := range fields(item) {
			if strings.Contains(strings.ToLower(f), q) {
				matched = append(matched, item)
				break
			}
		}
	}
	return matched
}

package movie

import "strings"

// matcher is a compiled search query.
type matcher struct {
	needle string
	all    bool
}

func newMatcher(query string) matcher {
	if strings.TrimSpace(query) == "" {
		return matcher{all: true}
	}
	return matcher{needle: strings.ToLower(query)}
}

func (m matcher) match(name string) bool {
	return m.all || strings.Contains(strings.ToLower(name), m.needle)
}

// FilterByQuery returns the movies whose name contains query, case-insensitively.
// An empty or all-whitespace query keeps every movie. Order is preserved.
func FilterByQuery(movies []Movie, query string) []Movie {
	m := newMatcher(query)
	out := make([]Movie, 0, len(movies))
	for _, mv := range movies {
		if m.match(mv.Name) {
			out = append(out, mv)
		}
	}
	return out
}

// FilterByStatus returns the movies in the given column. Order is preserved.
func FilterByStatus(movies []Movie, status Status) []Movie {
	out := make([]Movie, 0, len(movies))
	for _, mv := range movies {
		if mv.Status == status {
			out = append(out, mv)
		}
	}
	return out
}

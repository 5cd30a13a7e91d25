package store

import (
	"strings"

	"github.com/gobwas/glob"
	"github.com/sahilm/fuzzy"
)

// Hit is one search result. Index is -1 when the category name itself matched.
type Hit struct {
	Category string
	Index    int
	Entry    Entry
	Score    int
}

type searchItem struct {
	category string
	index    int
	entry    Entry
	text     string
}

type searchSource []searchItem

func (s searchSource) String(i int) string { return s[i].text }
func (s searchSource) Len() int            { return len(s) }

// Search fuzzy-matches query against category names and entry text, best
// matches first. An empty query returns nothing.
func (s *Store) Search(query string) []Hit {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	var source searchSource
	for _, c := range s.categories {
		source = append(source, searchItem{category: c.Name, index: -1, text: c.Name})
		for i, e := range c.Entries {
			source = append(source, searchItem{
				category: c.Name,
				index:    i,
				entry:    e,
				text:     c.Name + " " + e.Text(),
			})
		}
	}

	matches := fuzzy.FindFrom(query, source)
	hits := make([]Hit, 0, len(matches))
	for _, m := range matches {
		item := source[m.Index]
		hits = append(hits, Hit{
			Category: item.category,
			Index:    item.index,
			Entry:    item.entry,
			Score:    m.Score,
		})
	}
	return hits
}

// Filter returns a store holding only categories whose name matches the
// glob pattern, case-insensitively. An empty pattern matches everything.
func (s *Store) Filter(pattern string) (*Store, error) {
	if pattern == "" {
		return s.clone(), nil
	}
	g, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return nil, err
	}

	out := New()
	for _, c := range s.categories {
		if g.Match(strings.ToLower(c.Name)) {
			out.categories = append(out.categories, c)
		}
	}
	return out, nil
}

func (s *Store) clone() *Store {
	return &Store{categories: s.Categories()}
}

// Narrow returns a store holding only what query matches. A category whose
// name matches keeps all its entries; otherwise only matching entries are
// kept. Store order is preserved. An empty query returns everything.
func (s *Store) Narrow(query string) *Store {
	if strings.TrimSpace(query) == "" {
		return s.clone()
	}

	whole := make(map[string]bool)
	picked := make(map[string]map[int]bool)
	for _, h := range s.Search(query) {
		if h.Index < 0 {
			whole[h.Category] = true
			continue
		}
		if picked[h.Category] == nil {
			picked[h.Category] = make(map[int]bool)
		}
		picked[h.Category][h.Index] = true
	}

	out := New()
	for _, c := range s.categories {
		switch {
		case whole[c.Name]:
			out.categories = append(out.categories, c)
		case len(picked[c.Name]) > 0:
			narrowed := Category{Name: c.Name}
			for i, e := range c.Entries {
				if picked[c.Name][i] {
					narrowed.Entries = append(narrowed.Entries, e)
				}
			}
			out.categories = append(out.categories, narrowed)
		}
	}
	return out
}

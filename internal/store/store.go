// Package store reads and writes the shortcut store: a JSON object mapping
// application names to lists of shortcut entries (or a single scalar value).
//
// Key order is preserved in both directions so that edits made by the agent
// produce minimal diffs against the file on disk.
package store

import (
	"encoding/json"
	"strings"

	"github.com/Iron-Ham/shortcuts/internal/errors"
)

// DefaultFileName is the store file name used when none is configured.
const DefaultFileName = "shortcuts.json"

// Placeholder messages shown when the store cannot be loaded.
const (
	PlaceholderKey   = "Error"
	MissingMessage   = "shortcuts.json not found"
	MalformedMessage = "shortcuts.json is not valid JSON"
)

// Field aliases, matched case-insensitively in order.
var (
	KeysAliases        = []string{"shortcut", "keys", "key", "hotkey", "combination"}
	CommandAliases     = []string{"command", "cmd"}
	UsageAliases       = []string{"usage example", "usage", "example"}
	DescriptionAliases = []string{"description", "desc", "purpose"}
)

// Field is one key/value pair of an entry, value kept as raw JSON.
type Field struct {
	Key   string
	Value json.RawMessage
}

// Entry is one shortcut record. Fields keep their file order; fields the
// viewer does not know about are carried through unchanged.
type Entry struct {
	Fields []Field
	// Raw holds list items that are not JSON objects.
	Raw json.RawMessage
}

// NewEntry builds an entry from string pairs, in argument order.
func NewEntry(pairs ...string) Entry {
	var e Entry
	for i := 0; i+1 < len(pairs); i += 2 {
		e.Set(pairs[i], pairs[i+1])
	}
	return e
}

// IsObject reports whether the entry was a JSON object.
func (e Entry) IsObject() bool { return e.Raw == nil }

// Lookup returns the string value of the first field matching any alias.
func (e Entry) Lookup(aliases ...string) (string, bool) {
	for _, alias := range aliases {
		for _, f := range e.Fields {
			if strings.EqualFold(f.Key, alias) {
				return rawString(f.Value), true
			}
		}
	}
	return "", false
}

func (e Entry) lookup(aliases []string) string {
	v, _ := e.Lookup(aliases...)
	return v
}

// Keys returns the key combination.
func (e Entry) Keys() string { return e.lookup(KeysAliases) }

// Command returns the command text.
func (e Entry) Command() string { return e.lookup(CommandAliases) }

// Usage returns the usage example.
func (e Entry) Usage() string { return e.lookup(UsageAliases) }

// Description returns the description.
func (e Entry) Description() string { return e.lookup(DescriptionAliases) }

// Get returns the raw value stored under key (exact match).
func (e Entry) Get(key string) (json.RawMessage, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Set stores value as a JSON string under key, replacing an existing field
// in place or appending a new one.
func (e *Entry) Set(key, value string) {
	raw, _ := marshalNoEscape(value)
	e.SetRaw(key, raw)
}

// SetRaw stores a raw JSON value under key.
func (e *Entry) SetRaw(key string, value json.RawMessage) {
	for i := range e.Fields {
		if e.Fields[i].Key == key {
			e.Fields[i].Value = value
			return
		}
	}
	e.Fields = append(e.Fields, Field{Key: key, Value: value})
}

// Delete removes key, reporting whether it was present.
func (e *Entry) Delete(key string) bool {
	for i := range e.Fields {
		if e.Fields[i].Key == key {
			e.Fields = append(e.Fields[:i], e.Fields[i+1:]...)
			return true
		}
	}
	return false
}

// DisplayField is one labelled line of an entry card.
type DisplayField struct {
	Label string
	Value string
}

// DisplayFields returns the known fields that are set, in card order:
// shortcut, command, usage, description. Non-object items show their raw
// text under an empty label.
func (e Entry) DisplayFields() []DisplayField {
	if !e.IsObject() {
		return []DisplayField{{Value: rawString(e.Raw)}}
	}
	var out []DisplayField
	for _, f := range []struct {
		label   string
		aliases []string
	}{
		{"Shortcut", KeysAliases},
		{"Command", CommandAliases},
		{"Usage", UsageAliases},
		{"Description", DescriptionAliases},
	} {
		if v := e.lookup(f.aliases); v != "" {
			out = append(out, DisplayField{Label: f.label, Value: v})
		}
	}
	return out
}

// Text returns every field value joined by spaces; used for searching.
func (e Entry) Text() string {
	if !e.IsObject() {
		return rawString(e.Raw)
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, rawString(f.Value))
	}
	return strings.Join(parts, " ")
}

// Category is one top-level key of the store.
type Category struct {
	Name    string
	Entries []Entry
	// Scalar is set when the category holds a non-list value.
	Scalar json.RawMessage
}

// IsList reports whether the category holds entries.
func (c Category) IsList() bool { return c.Scalar == nil }

// ScalarText returns the scalar as display text.
func (c Category) ScalarText() string { return rawString(c.Scalar) }

// Store is the ordered in-memory form of the shortcut file.
type Store struct {
	categories []Category
}

// New returns an empty store.
func New() *Store { return &Store{} }

// Placeholder returns the one-entry store shown in place of an unreadable file.
func Placeholder(message string) *Store {
	s := New()
	raw, _ := marshalNoEscape(message)
	s.put(Category{Name: PlaceholderKey, Scalar: raw})
	return s
}

// Len returns the number of categories.
func (s *Store) Len() int { return len(s.categories) }

// Names returns category names in file order.
func (s *Store) Names() []string {
	names := make([]string, len(s.categories))
	for i, c := range s.categories {
		names[i] = c.Name
	}
	return names
}

// Categories returns a copy of the categories in file order.
func (s *Store) Categories() []Category {
	out := make([]Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// Get returns the named category (exact match).
func (s *Store) Get(name string) (Category, bool) {
	if i := s.index(name); i >= 0 {
		return s.categories[i], true
	}
	return Category{}, false
}

func (s *Store) index(name string) int {
	for i, c := range s.categories {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// put replaces a category in place or appends it. Replacing keeps the
// original position, matching how a repeated key behaves in a JSON object.
func (s *Store) put(c Category) {
	if i := s.index(c.Name); i >= 0 {
		s.categories[i] = c
		return
	}
	s.categories = append(s.categories, c)
}

// EnsureCategory creates an empty list category if name is absent.
// Returns true if it was created.
func (s *Store) EnsureCategory(name string) bool {
	if s.index(name) >= 0 {
		return false
	}
	s.categories = append(s.categories, Category{Name: name, Entries: []Entry{}})
	return true
}

// HasCommand reports whether category already holds an entry with command.
func (s *Store) HasCommand(category, command string) bool {
	c, ok := s.Get(category)
	if !ok || !c.IsList() {
		return false
	}
	for _, e := range c.Entries {
		if e.Command() == command {
			return true
		}
	}
	return false
}

// AddEntry appends entry to category, creating the category if needed.
// It fails with ErrDuplicateEntry when the category already holds the same
// command, and with ErrNotAList when the category is a scalar.
func (s *Store) AddEntry(category string, entry Entry) error {
	s.EnsureCategory(category)
	i := s.index(category)
	if !s.categories[i].IsList() {
		return errors.NewStoreError("cannot add entry", errors.ErrNotAList).WithCategory(category)
	}
	if cmd := entry.Command(); cmd != "" && s.HasCommand(category, cmd) {
		return errors.NewStoreError("cannot add entry", errors.ErrDuplicateEntry).WithCategory(category)
	}
	s.categories[i].Entries = append(s.categories[i].Entries, entry)
	return nil
}

// EntryCount returns the number of entries across all list categories.
func (s *Store) EntryCount() int {
	n := 0
	for _, c := range s.categories {
		n += len(c.Entries)
	}
	return n
}

// rawString renders a raw JSON value for display: strings are unquoted,
// anything else is returned as its JSON text.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

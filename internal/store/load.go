package store

import (
	"os"

	"github.com/Iron-Ham/shortcuts/internal/errors"
)

// Load reads and parses the store at path.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewStoreError("cannot load store", errors.ErrStoreNotFound).WithPath(path)
		}
		return nil, errors.NewStoreError("cannot read store", err).WithPath(path)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, errors.NewStoreError("cannot parse store", errors.Join(errors.ErrStoreMalformed, err)).
			WithPath(path)
	}
	return s, nil
}

// LoadOrPlaceholder never fails to produce a store. When the file is missing
// or malformed it returns a one-entry placeholder store describing the
// problem together with the underlying error, so callers can keep running
// and still tell the user what happened.
func LoadOrPlaceholder(path string) (*Store, error) {
	s, err := Load(path)
	if err == nil {
		return s, nil
	}
	if errors.Is(err, errors.ErrStoreNotFound) {
		return Placeholder(MissingMessage), err
	}
	return Placeholder(MalformedMessage), err
}

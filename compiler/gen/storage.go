package gen

import (
	"fmt"

	"github.com/syssam/modelgen/schema/field"
)

// Storage describes the backend a model targets: where its dialect types
// are imported from and how mutable containers are wrapped.
type Storage struct {
	Name           string            // storage name.
	Dialect        string            // module exporting the backend types.
	IsBackendType  func(string) bool // reports dialect types.
	IsMutable      func(string) bool // reports types wrapped by MutableAdapter.
	MutableAdapter string            // change-tracking adapter class.
	MutableModule  string            // module exporting MutableAdapter.
}

// drivers holds the supported storage backends.
var drivers = []*Storage{
	{
		Name:           "postgres",
		Dialect:        "sqlalchemy.dialects.postgresql",
		IsBackendType:  field.IsBackendSpecific,
		IsMutable:      field.IsMutableContainer,
		MutableAdapter: "MutableDict",
		MutableModule:  "sqlalchemy.ext.mutable",
	},
}

// NewStorage returns the storage backend with the given name.
func NewStorage(s string) (*Storage, error) {
	for _, d := range drivers {
		if s == d.Name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("modelgen/gen: invalid storage driver %q", s)
}

// String implements the fmt.Stringer interface.
func (s *Storage) String() string { return s.Name }

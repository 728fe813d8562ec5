// Package combosearch runs a searchable combo box over records read from a
// source named in a yaml layout.
package combosearch

import (
	nt "combosearch/entity"
	"combosearch/field"
)

// Source specifies where records come from.
type Source interface {
	// Name returns the name of the data source
	Name() string
	// Load a file
	Load(path string) (err error)
	// Fields returns the schema of the loaded records
	Fields() (fields []nt.Field, err error)
	// Lines returns all records in source order
	Lines() (lines []nt.Line, err error)
	// Registry declares a field accessor per schema field
	Registry() (reg *field.Registry[nt.Line], err error)
}

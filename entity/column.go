package entity

// Column configures how a field is shown in the combo dropdown.
type Column struct {
	Field  string `yaml:"field"`
	Width  int    `yaml:"width"`
	Format string `yaml:"format,omitempty"` // time layout or fmt verb for numbers
	Hidden bool   `yaml:"hidden,omitempty"`
}

// Field describes a record field as reported by a source.
type Field struct {
	Name string
	Type string // source type name, ex: VARCHAR, BIGINT
}

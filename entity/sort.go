package entity

import (
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Direction is the order of a sort.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (dir Direction) String() string {
	if dir == Descending {
		return "descending"
	}
	return "ascending"
}

// ParseDirection accepts asc, ascending, desc and descending in any case.
func ParseDirection(in string) (dir Direction, err error) {

	switch strings.ToLower(strings.TrimSpace(in)) {
	case "", "asc", "ascending":
		dir = Ascending
	case "desc", "descending":
		dir = Descending
	default:
		err = errors.Errorf("unknown sort direction %q", in)
	}
	return
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (dir *Direction) UnmarshalYAML(node *yaml.Node) (err error) {

	var raw string
	err = node.Decode(&raw)
	if err != nil {
		return errors.Wrapf(err, "failed to decode direction")
	}

	*dir, err = ParseDirection(raw)
	return
}

// MarshalYAML implements yaml.Marshaler.
func (dir Direction) MarshalYAML() (any, error) {
	return dir.String(), nil
}

// Sort represents a sort directive.
type Sort struct {
	Field     string    `yaml:"field"`
	Direction Direction `yaml:"direction,omitempty"`
}

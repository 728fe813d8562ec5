package combosearch

import (
	"github.com/pkg/errors"

	nt "combosearch/entity"
	"combosearch/util"
)

// Layout configures the source, the search field and the dropdown.
type Layout struct {
	Source  string      `yaml:"source"`
	Search  string      `yaml:"search"`
	Columns []nt.Column `yaml:"columns"`
	Filter  string      `yaml:"filter,omitempty"`
	Sort    *nt.Sort    `yaml:"sort,omitempty"`
	Visible int         `yaml:"visible,omitempty"`
	LogFile string      `yaml:"logfile,omitempty"`
}

// SampleLayout is written for the user to edit when no layout exists.
func SampleLayout() *Layout {

	return &Layout{
		Source: "people.ndjson",
		Search: "name",
		Columns: []nt.Column{
			{Field: "name", Width: 24},
			{Field: "age", Width: 5},
		},
		Sort:    &nt.Sort{Field: "name", Direction: nt.Ascending},
		Visible: 10,
		LogFile: "combosearch.log",
	}
}

// LoadLayout reads and checks the layout at path.
func LoadLayout(path string) (layout *Layout, err error) {

	layout = &Layout{}
	err = util.LoadConfig(layout, path)
	if err != nil {
		return
	}

	err = layout.check()
	err = errors.Wrapf(err, "invalid layout in %s", path)
	return
}

// unexported

func (layout *Layout) check() error {

	if layout.Source == "" {
		return errors.Errorf("source is required")
	}
	if layout.Search == "" {
		return errors.Errorf("search is required")
	}
	if len(layout.Columns) == 0 {
		layout.Columns = []nt.Column{{Field: layout.Search}}
	}
	return nil
}

package combosearch

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nt "combosearch/entity"
	"combosearch/field"
	"combosearch/message"
)

type fakeSource struct{}

func (fakeSource) Name() string           { return "people.ndjson" }
func (fakeSource) Load(path string) error { return nil }

func (fakeSource) Fields() ([]nt.Field, error) {
	return []nt.Field{{Name: "name", Type: "VARCHAR"}, {Name: "age", Type: "BIGINT"}}, nil
}

func (fakeSource) Lines() ([]nt.Line, error) {
	return []nt.Line{
		{{Raw: "Al"}, {Raw: int64(30)}},
		{{Raw: "Bo"}, {Raw: int64(20)}},
		{{Raw: "Cy"}, {Raw: int64(40)}},
	}, nil
}

func (fakeSource) Registry() (*field.Registry[nt.Line], error) {
	return field.NewRegistry(
		field.Text("name", func(ln nt.Line) string { return ln.Get(0).String() }),
		field.Custom("age", func(ln nt.Line) any { return ln.Get(1).Raw }, nil, nil),
	)
}

func testLayout() *Layout {
	return &Layout{
		Source:  "people.ndjson",
		Search:  "name",
		Columns: []nt.Column{{Field: "name", Width: 10}},
		Visible: 5,
	}
}

func TestNewModel(t *testing.T) {

	layout := testLayout()
	layout.Sort = &nt.Sort{Field: "name", Direction: nt.Descending}

	model, err := NewModel(context.Background(), fakeSource{}, layout, nt.NopLogger{})
	require.NoError(t, err)
	assert.Equal(t, 3, model.List.Len())

	first, ok := model.Combo.Selected()
	require.True(t, ok)
	assert.Equal(t, "Cy", first.Get(0).String())

	t.Run("unknown sort field", func(t *testing.T) {
		layout := testLayout()
		layout.Sort = &nt.Sort{Field: "nope"}

		_, err := NewModel(context.Background(), fakeSource{}, layout, nt.NopLogger{})
		assert.ErrorIs(t, err, nt.ErrUnknownField)
	})

	t.Run("malformed filter", func(t *testing.T) {
		layout := testLayout()
		layout.Filter = "name"

		_, err := NewModel(context.Background(), fakeSource{}, layout, nt.NopLogger{})
		assert.ErrorIs(t, err, nt.ErrMalformedFilter)
	})
}

func TestModelUpdate(t *testing.T) {

	model, err := NewModel(context.Background(), fakeSource{}, testLayout(), nt.NopLogger{})
	require.NoError(t, err)

	var next tea.Model = model
	next, _ = next.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	next, _ = next.Update(tea.KeyPressMsg{Code: 'B', Text: "B"})

	m := next.(Model)
	assert.Equal(t, "name LIKE 'B%'", m.List.Filter())
	assert.Equal(t, 1, m.List.Len())

	next, _ = next.Update(message.SelectedMsg{Row: 1, Value: "Bo"})
	assert.Contains(t, next.(Model).Render(), "1: Bo")
	assert.Contains(t, next.(Model).Render(), "people.ndjson")

	next, _ = next.Update(message.ErrorMsg{Err: errors.New("boom")})
	assert.Contains(t, next.(Model).Render(), "boom")

	next, _ = next.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.NotContains(t, next.(Model).Render(), "boom")

	_, cmd := next.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

package combosearch

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/pkg/errors"

	"combosearch/combo"
	nt "combosearch/entity"
	"combosearch/message"
	"combosearch/recordlist"
	"combosearch/style"
)

// Model is the bubbletea model hosting the combo box and a footer.
type Model struct {
	Source Source
	Layout *Layout
	List   *recordlist.List[nt.Line]
	Combo  combo.ComboBox

	selected    string
	errorString string
	width       int

	ctx    context.Context
	logger nt.Logger
}

// NewModel reads records from source into a list shaped by layout.
func NewModel(ctx context.Context, source Source, layout *Layout, lgr nt.Logger) (model Model, err error) {

	reg, err := source.Registry()
	if err != nil {
		return
	}

	fields, err := source.Fields()
	if err != nil {
		return
	}

	lines, err := source.Lines()
	if err != nil {
		return
	}

	list := recordlist.New(reg, recordlist.WithLogger(ctx, lgr))
	list.AddRange(lines...)

	if layout.Filter != "" {
		err = list.SetFilter(layout.Filter)
		if err != nil {
			err = errors.Wrapf(err, "failed to apply layout filter")
			return
		}
	}

	if layout.Sort != nil {
		err = list.ApplySort(layout.Sort.Field, layout.Sort.Direction)
		if err != nil {
			err = errors.Wrapf(err, "failed to apply layout sort")
			return
		}
	}

	cb, err := combo.New(ctx, list, fields, layout.Columns, layout.Search, layout.Visible, lgr)
	if err != nil {
		return
	}

	lgr.Info(ctx, "model ready", "source", source.Name(), "records", list.OriginalLen(), "shown", list.Len())

	model = Model{
		Source: source,
		Layout: layout,
		List:   list,
		Combo:  cb,
		ctx:    ctx,
		logger: lgr,
	}
	return
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {

	switch msg := msg.(type) {

	case message.ErrorMsg:
		m.logger.Error(m.ctx, "error msg", msg.Err)
		m.errorString = msg.Err.Error()
		return m, nil

	case message.SelectedMsg:
		m.logger.Info(m.ctx, "selected", "row", msg.Row, "value", msg.Value)
		m.selected = fmt.Sprintf("%d: %s", msg.Row, msg.Value)
		return m, nil

	case tea.KeyPressMsg:
		m.errorString = ""
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
	}

	var cmd tea.Cmd
	m.Combo, cmd = m.Combo.Update(msg)
	return m, cmd
}

// Render renders the combo box over the footer
func (m Model) Render() string {

	footer := RenderFooter(m.selected, m.Source.Name(), m.width)
	if m.errorString != "" {
		footer = style.ErrorStyle.Render(m.errorString)
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.Combo.Render(), footer)
}

func (m Model) View() tea.View {
	return tea.NewView(m.Render())
}

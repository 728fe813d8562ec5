// Package combo is a searchable combo box bound to a record list.
//
// Typed text becomes a LIKE filter on the search field, a leading ":"
// switches to raw filter expressions applied on enter.
package combo

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/pkg/errors"

	nt "combosearch/entity"
	"combosearch/message"
	"combosearch/recordlist"
	"combosearch/style"
)

const (
	exprPrefix     = ":"
	defaultVisible = 10
)

// ComboBox shows a search input over a dropdown of matching records
type ComboBox struct {
	list      *recordlist.List[nt.Line]
	fields    []nt.Field
	search    string // field typed into
	searchIdx int

	input  Input
	adding bool

	changes *[]recordlist.Change

	selected int // position in view
	offset   int // first row shown
	visible  int // rows shown
	width    int

	colFmts []colFmt
	table   *table.Table

	ctx    context.Context
	logger nt.Logger
}

type colFmt struct {
	lineIdx   int
	width     int
	fieldName string
	formatter func(nt.Value) string
}

// New binds a combo box to list, whose records follow fields.
func New(ctx context.Context, list *recordlist.List[nt.Line], fields []nt.Field, columns []nt.Column, search string, visible int, lgr nt.Logger) (cb ComboBox, err error) {

	idxByName := map[string]int{}
	for i, fld := range fields {
		idxByName[fld.Name] = i
	}

	searchIdx, ok := idxByName[search]
	if !ok {
		err = errors.Errorf("search field %q is not one of the record fields", search)
		return
	}

	colFmts, err := makeColFmts(columns, idxByName)
	if err != nil {
		return
	}

	if visible <= 0 {
		visible = defaultVisible
	}

	// listeners only record, the box catches up in sync
	changes := &[]recordlist.Change{}
	list.Subscribe(func(change recordlist.Change) {
		*changes = append(*changes, change)
	})

	tbl := table.New()
	style.StyleDropdown(tbl)

	cb = ComboBox{
		list:      list,
		fields:    fields,
		search:    search,
		searchIdx: searchIdx,
		input:     NewInput(0),
		changes:   changes,
		visible:   visible,
		colFmts:   colFmts,
		table:     tbl,
		ctx:       ctx,
		logger:    lgr,
	}
	cb.setHeaders()

	return
}

func (cb ComboBox) Init() tea.Cmd {
	return nil
}

func (cb ComboBox) Update(msg tea.Msg) (ComboBox, tea.Cmd) {

	var cmd tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		cb.width = msg.Width

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up":
			cb.selected--
		case "down":
			cb.selected++
		case "pgup":
			cb.selected -= cb.visible
		case "pgdown":
			cb.selected += cb.visible
		case "enter":
			cb, cmd = cb.enter()
		case "esc":
			cb, cmd = cb.escape()
		case "ctrl+s":
			cmd = cb.cycleSort()
		case "ctrl+n":
			cb = cb.startAdding()
		case "ctrl+x":
			cmd = cb.removeSelected()
		default:
			var changed bool
			cb.input, changed = cb.input.Update(msg)
			if changed && !cb.adding && !cb.exprMode() {
				cmd = cb.applySearch(cb.input.Value())
			}
		}
	}

	cb = cb.sync()
	return cb, cmd
}

// Selected returns the record under the cursor
func (cb ComboBox) Selected() (line nt.Line, ok bool) {
	return cb.list.At(cb.selected)
}

// SelectedIndex returns the cursor position in the view
func (cb ComboBox) SelectedIndex() int {
	return cb.selected
}

// Text returns the input text
func (cb ComboBox) Text() string {
	return cb.input.Value()
}

// Adding reports whether typed text is collected as a new record
func (cb ComboBox) Adding() bool {
	return cb.adding
}

// Render renders the input, the visible slice of the dropdown and a status line
func (cb ComboBox) Render() string {

	prompt := cb.search
	switch {
	case cb.adding:
		prompt = "new " + cb.search
	case cb.exprMode():
		prompt = "filter"
	}

	inputStyle := style.InputStyle
	if cb.width > 2 {
		inputStyle = inputStyle.Width(cb.width - 2)
	}
	input := inputStyle.Render(style.PromptStyle.Render(prompt+" ") + cb.input.Render())

	cb.table.StyleFunc(style.RowStyler(cb.selected - cb.offset))
	cb.table.ClearRows()
	end := min(cb.offset+cb.visible, cb.list.Len())
	for i := cb.offset; i < end; i++ {
		line, _ := cb.list.At(i)
		cb.table.Row(cb.row(line)...)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		input,
		cb.table.String(),
		style.MutedStyle.Render(cb.status()),
	)
}

func (cb ComboBox) View() tea.View {
	return tea.NewView(cb.Render())
}

// unexported

func (cb ComboBox) exprMode() bool {
	return strings.HasPrefix(cb.input.Value(), exprPrefix)
}

func (cb ComboBox) enter() (ComboBox, tea.Cmd) {

	text := cb.input.Value()

	switch {
	case cb.adding:
		if text == "" {
			return cb, nil
		}
		if !cb.list.AllowNew() {
			return cb, message.ErrorCmd(errors.Errorf("cannot add while filtered"))
		}
		cb.list.Add(cb.newLine(text))
		cb.logger.Info(cb.ctx, "record added", cb.search, text)
		cb.adding = false
		cb.input = cb.input.Set("")
		return cb, nil

	case cb.exprMode():
		expr := strings.TrimSpace(strings.TrimPrefix(text, exprPrefix))
		err := cb.list.SetFilter(expr)
		if err != nil {
			return cb, message.ErrorCmd(err)
		}
		return cb, nil
	}

	line, ok := cb.list.At(cb.selected)
	if !ok {
		return cb, nil
	}
	row := cb.selected + 1
	value := line.Get(cb.searchIdx).String()
	return cb, func() tea.Msg {
		return message.SelectedMsg{Row: row, Value: value}
	}
}

func (cb ComboBox) escape() (ComboBox, tea.Cmd) {

	if cb.input.Value() == "" && !cb.adding {
		return cb, tea.Quit
	}

	cb.adding = false
	cb.input = cb.input.Set("")
	cb.list.RemoveFilter()
	return cb, nil
}

func (cb ComboBox) startAdding() ComboBox {

	cb.adding = true
	cb.input = cb.input.Set("")
	cb.list.RemoveFilter()
	return cb
}

func (cb ComboBox) applySearch(text string) tea.Cmd {

	if text == "" {
		cb.list.RemoveFilter()
		return nil
	}

	err := cb.list.SetFilter(fmt.Sprintf("%s LIKE '%s%%'", cb.search, text))
	if err != nil {
		return message.ErrorCmd(err)
	}
	return nil
}

// cycleSort goes ascending, descending, unsorted on the search field
func (cb ComboBox) cycleSort() tea.Cmd {

	var err error
	switch {
	case !cb.list.IsSorted() || cb.list.SortField() != cb.search:
		err = cb.list.ApplySort(cb.search, nt.Ascending)
	case cb.list.SortDirection() == nt.Ascending:
		err = cb.list.ApplySort(cb.search, nt.Descending)
	default:
		cb.list.RemoveSort()
	}

	if err != nil {
		return message.ErrorCmd(err)
	}
	return nil
}

func (cb ComboBox) removeSelected() tea.Cmd {

	err := cb.list.RemoveAt(cb.selected)
	if err != nil {
		return message.ErrorCmd(err)
	}
	return nil
}

// sync catches up with list changes and keeps the selection in view
func (cb ComboBox) sync() ComboBox {

	for _, change := range *cb.changes {
		switch change.Kind {
		case recordlist.Reset:
			cb.selected = 0
			cb.offset = 0
		case recordlist.ItemAdded:
			cb.selected = change.Index
		case recordlist.ItemRemoved:
			if change.Index < cb.selected {
				cb.selected--
			}
		}
	}
	*cb.changes = (*cb.changes)[:0]

	count := cb.list.Len()
	cb.selected = max(0, min(cb.selected, count-1))

	if cb.selected < cb.offset {
		cb.offset = cb.selected
	} else if cb.selected >= cb.offset+cb.visible {
		cb.offset = cb.selected - cb.visible + 1
	}
	return cb
}

func (cb ComboBox) newLine(text string) nt.Line {

	line := make(nt.Line, len(cb.fields))
	line[cb.searchIdx] = nt.Value{Raw: text}
	return line
}

func (cb ComboBox) status() string {

	parts := []string{fmt.Sprintf("%d/%d", cb.list.Len(), cb.list.OriginalLen())}

	if cb.list.IsSorted() {
		arrow := "▲"
		if cb.list.SortDirection() == nt.Descending {
			arrow = "▼"
		}
		parts = append(parts, cb.list.SortField()+" "+arrow)
	}

	if flt := cb.list.Filter(); flt != "" {
		parts = append(parts, flt)
	}

	return strings.Join(parts, "  ")
}

func (cb ComboBox) row(line nt.Line) []string {

	row := make([]string, len(cb.colFmts))
	for i, colFmt := range cb.colFmts {
		formatted := colFmt.formatter(line.Get(colFmt.lineIdx))
		row[i] = truncate(formatted, colFmt.width)
	}
	return row
}

func (cb ComboBox) setHeaders() {

	var headers []string
	for _, colFmt := range cb.colFmts {
		padded := fmt.Sprintf("%-*s", colFmt.width+1, colFmt.fieldName)
		headers = append(headers, padded)
	}
	cb.table.Headers(headers...)
}

// help

func makeColFmts(columns []nt.Column, idxByName map[string]int) (colFmts []colFmt, err error) {

	for _, col := range columns {
		if col.Hidden {
			continue
		}

		idx, ok := idxByName[col.Field]
		if !ok {
			err = errors.Errorf("column %q is not one of the record fields", col.Field)
			return
		}

		colFmts = append(colFmts, colFmt{
			lineIdx:   idx,
			width:     col.Width,
			fieldName: col.Field,
			formatter: makeFormatter(col.Format),
		})
	}
	return
}

// makeFormatter formats numbers when format holds a fmt verb, ex: "%.2f",
// otherwise it is taken as a time layout.
func makeFormatter(format string) func(nt.Value) string {

	switch {
	case format == "":
		return func(val nt.Value) string {
			return val.String()
		}
	case strings.Contains(format, "%"):
		return func(val nt.Value) string {
			num, err := val.Float()
			if err != nil {
				var whole int
				whole, err = val.Int()
				num = float64(whole)
			}
			if err != nil {
				return val.String()
			}
			return fmt.Sprintf(format, num)
		}
	}

	return func(val nt.Value) string {
		ts, err := val.Time()
		if err != nil {
			return val.String()
		}
		return ts.Format(format)
	}
}

func truncate(in string, width int) string {

	runes := []rune(in)
	if width <= 0 || len(runes) <= width {
		return in
	}

	truncated := string(runes[:width-1])
	ellipsis := style.MutedStyle.Render("…")
	return truncated + ellipsis
}

package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/victor-takai/ff12-augment-tool/internal/catalog"
	"github.com/victor-takai/ff12-augment-tool/internal/editor"
)

// ErrCancelled is returned by Pick when the user quits without confirming.
var ErrCancelled = errors.New("selection cancelled")

var (
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	checkedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	columnStyle   = lipgloss.NewStyle().PaddingRight(4)
	modeAddStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("78"))
	modeDropStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("197"))
)

// Selection is what the picker returns on confirm.
type Selection struct {
	Names []string
	Mode  editor.Mode
}

type item struct {
	entry   catalog.Entry
	checked bool
}

// Picker is a checkbox grid over both catalogs: one column per field.
type Picker struct {
	columns   [2][]item
	col, row  int
	mode      editor.Mode
	confirmed bool
	cancelled bool
}

// NewPicker lists every entry of set except the NONE sentinels. Names in
// preselected start checked.
func NewPicker(set *catalog.Set, mode editor.Mode, preselected []string) Picker {
	checked := make(map[string]bool, len(preselected))
	for _, n := range preselected {
		checked[catalog.Normalize(n)] = true
	}

	p := Picker{mode: mode}
	for i, c := range []*catalog.Catalog{set.First, set.Second} {
		for _, e := range c.Entries() {
			if e.IsNone() {
				continue
			}
			p.columns[i] = append(p.columns[i], item{entry: e, checked: checked[e.Name]})
		}
	}
	if len(p.columns[0]) == 0 {
		p.col = 1
	}
	return p
}

// Selection returns the checked names, first field first, in catalog order.
func (p Picker) Selection() Selection {
	var names []string
	for _, col := range p.columns {
		for _, it := range col {
			if it.checked {
				names = append(names, it.entry.Name)
			}
		}
	}
	return Selection{Names: names, Mode: p.mode}
}

// Confirmed reports whether the user accepted the selection.
func (p Picker) Confirmed() bool {
	return p.confirmed
}

func (p Picker) Init() tea.Cmd {
	return nil
}

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch key.String() {
	case "q", "esc", "ctrl+c":
		p.cancelled = true
		return p, tea.Quit
	case "enter":
		p.confirmed = true
		return p, tea.Quit
	case "up", "k":
		if p.row > 0 {
			p.row--
		}
	case "down", "j":
		if p.row < len(p.columns[p.col])-1 {
			p.row++
		}
	case "left", "h", "right", "l", "tab":
		other := 1 - p.col
		if len(p.columns[other]) > 0 {
			p.col = other
			p.row = min(p.row, len(p.columns[other])-1)
		}
	case " ", "x":
		if len(p.columns[p.col]) > 0 {
			it := &p.columns[p.col][p.row]
			it.checked = !it.checked
		}
	case "a":
		p.setAll(true)
	case "n":
		p.setAll(false)
	case "m":
		if p.mode == editor.Add {
			p.mode = editor.Remove
		} else {
			p.mode = editor.Add
		}
	}
	return p, nil
}

func (p *Picker) setAll(v bool) {
	for c := range p.columns {
		for r := range p.columns[c] {
			p.columns[c][r].checked = v
		}
	}
}

func (p Picker) View() string {
	if p.confirmed || p.cancelled {
		return ""
	}
	var b strings.Builder

	mode := modeAddStyle.Render("ADD")
	if p.mode == editor.Remove {
		mode = modeDropStyle.Render("REMOVE")
	}
	b.WriteString(headerStyle.Render("Select augments") + "  mode: " + mode + "\n\n")

	var cols []string
	for c, col := range p.columns {
		var cb strings.Builder
		cb.WriteString(faintStyle.Render(fmt.Sprintf("%s field", catalog.Field(c))) + "\n")
		for r, it := range col {
			box := "[ ]"
			if it.checked {
				box = checkedStyle.Render("[x]")
			}
			name := it.entry.Name
			if c == p.col && r == p.row {
				name = cursorStyle.Render("> " + name)
			} else {
				name = "  " + name
			}
			cb.WriteString(box + " " + name + "\n")
		}
		cols = append(cols, columnStyle.Render(cb.String()))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	b.WriteString("\n")

	if len(p.columns[p.col]) > 0 {
		cur := p.columns[p.col][p.row].entry
		b.WriteString(fmt.Sprintf("0x%08x  %s\n", cur.Mask, cur.Description))
	}
	b.WriteString(faintStyle.Render("space: toggle  a: all  n: none  m: add/remove  tab: switch field  enter: run  q: quit"))
	b.WriteString("\n")
	return b.String()
}

// Pick runs the picker full screen and returns the confirmed selection.
func Pick(set *catalog.Set, mode editor.Mode, preselected []string) (Selection, error) {
	final, err := tea.NewProgram(NewPicker(set, mode, preselected), tea.WithAltScreen()).Run()
	if err != nil {
		return Selection{}, fmt.Errorf("picker failed: %w", err)
	}
	p, ok := final.(Picker)
	if !ok || !p.confirmed {
		return Selection{}, ErrCancelled
	}
	return p.Selection(), nil
}

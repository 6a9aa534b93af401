package tui

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"midi2text/convert"
	"midi2text/theme"
)

// MIDIExtensions are the files offered by the source picker
var MIDIExtensions = []string{".mid", ".midi"}

type stage int

const (
	stageSource stage = iota
	stageDest
	stageDone
)

// Selection is what the user picked. Empty paths mean the step was
// cancelled.
type Selection struct {
	Source string
	Dest   string
}

type Model struct {
	Theme    *theme.Theme
	picker   filepicker.Model
	input    textinput.Model
	stage    stage
	sel      Selection
	outDir   string
	warning  string
	quitting bool
}

// NewModel starts the picker in inDir; outDir (if set) is where the
// suggested destination goes.
func NewModel(th *theme.Theme, inDir, outDir string) Model {
	fp := filepicker.New()
	fp.AllowedTypes = MIDIExtensions
	fp.CurrentDirectory = startDir(inDir)
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(th.Cursor())
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(th.Cursor()).Bold(true)
	fp.Styles.File = lipgloss.NewStyle().Foreground(th.FG())

	ti := textinput.New()
	ti.Prompt = "save as: "
	ti.Placeholder = "output.txt"
	ti.CharLimit = 4096
	ti.PromptStyle = lipgloss.NewStyle().Foreground(th.Accent())
	ti.TextStyle = lipgloss.NewStyle().Foreground(th.FG())
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(th.Cursor())

	return Model{
		Theme:  th,
		picker: fp,
		input:  ti,
		outDir: outDir,
	}
}

func startDir(dir string) string {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// Selection returns the current picks
func (m Model) Selection() Selection {
	return m.sel
}

func (m Model) Init() tea.Cmd {
	return m.picker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return m.quit()
		case "q":
			if m.stage == stageSource {
				return m.quit()
			}
		case "esc":
			if m.stage == stageDest {
				return m.quit()
			}
		}
	}

	switch m.stage {
	case stageSource:
		return m.updateSource(msg)
	case stageDest:
		return m.updateDest(msg)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m Model) updateSource(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.sel.Source = path
		m.warning = ""
		m.stage = stageDest
		m.input.SetValue(convert.DefaultDest(path, m.outDir))
		m.input.CursorEnd()
		return m, tea.Batch(cmd, m.input.Focus())
	}

	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.warning = filepath.Base(path) + " is not a MIDI file"
	}

	return m, cmd
}

func (m Model) updateDest(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		dest := strings.TrimSpace(m.input.Value())
		if dest == "" {
			m.warning = "enter a file name"
			return m, nil
		}
		if filepath.Ext(dest) == "" {
			dest += ".txt"
		}
		m.sel.Dest = dest
		m.stage = stageDone
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting || m.stage == stageDone {
		return ""
	}

	headerStyle := m.Theme.HeaderStyle()
	dimStyle := m.Theme.DimStyle()

	var out strings.Builder
	out.WriteString("\n")

	switch m.stage {
	case stageSource:
		out.WriteString(headerStyle.Render("Select MIDI file"))
		out.WriteString("\n")
		out.WriteString(dimStyle.Render(m.picker.CurrentDirectory))
		out.WriteString("\n\n")
		out.WriteString(m.picker.View())
		out.WriteString("\n")
		out.WriteString(dimStyle.Render("hjkl:nav  enter:select  q:quit"))

	case stageDest:
		out.WriteString(headerStyle.Render("Save TXT file as"))
		out.WriteString("\n")
		out.WriteString(dimStyle.Render(string(m.Theme.Symbols.Note) + " " + m.sel.Source))
		out.WriteString("\n\n")
		out.WriteString(m.input.View())
		out.WriteString("\n\n")
		out.WriteString(dimStyle.Render("enter:convert  esc:quit"))
	}

	if m.warning != "" {
		out.WriteString("\n")
		out.WriteString(m.Theme.WarnStyle().Render(m.warning))
	}

	return out.String()
}

// Run shows the picker and returns the selection
func Run(th *theme.Theme, inDir, outDir string) (Selection, error) {
	p := tea.NewProgram(NewModel(th, inDir, outDir))
	final, err := p.Run()
	if err != nil {
		return Selection{}, err
	}
	m, ok := final.(Model)
	if !ok {
		return Selection{}, nil
	}
	return m.Selection(), nil
}

package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/airtime/internal/config"
	"github.com/san-kum/airtime/internal/scene"
)

var sceneInfo = map[string]string{
	"gymnast": "trunk and limb bent through a driven or servo-held hinge",
	"spinner": "free box, torque-free rotation",
}

// Entry is one selectable scene and preset.
type Entry struct {
	Scene, Preset string
}

func (e Entry) String() string { return e.Scene + "/" + e.Preset }

// Picker lists every preset and opens the live viewer on the chosen one.
type Picker struct {
	registry *scene.Registry
	entries  []Entry
	cursor   int
	live     *Model
	err      error
}

func NewPicker(registry *scene.Registry) Picker {
	var entries []Entry
	for _, name := range registry.ListScenes() {
		for _, p := range config.ListPresets(name) {
			entries = append(entries, Entry{Scene: name, Preset: p})
		}
	}
	return Picker{registry: registry, entries: entries}
}

func (p Picker) Entries() []Entry { return p.entries }

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.live != nil {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			p.live = nil
			return p, nil
		}
		next, cmd := p.live.Update(msg)
		live := next.(Model)
		p.live = &live
		return p, cmd
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch k.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.entries)-1 {
			p.cursor++
		}
	case "enter":
		if len(p.entries) == 0 {
			return p, nil
		}
		live, err := p.open(p.entries[p.cursor])
		if err != nil {
			p.err = err
			return p, nil
		}
		p.err = nil
		p.live = &live
		return p, live.Init()
	}
	return p, nil
}

func (p Picker) open(e Entry) (Model, error) {
	cfg := config.GetPreset(e.Scene, e.Preset)
	if cfg == nil {
		return Model{}, fmt.Errorf("unknown preset %s", e)
	}
	build := func() (scene.Scene, error) { return p.registry.Build(cfg) }
	return NewModel(build, e.String(), cfg)
}

func (p Picker) View() string {
	if p.live != nil {
		return p.live.View()
	}

	var s strings.Builder
	s.WriteString(titleStyle().Render(GradientText("AIRTIME", CurrentTheme.Primary, CurrentTheme.Accent)) + "\n")
	muted := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	selected := lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Accent)
	for i, e := range p.entries {
		line := fmt.Sprintf("%-22s %s", e, muted.Render(sceneInfo[e.Scene]))
		if i == p.cursor {
			s.WriteString(selected.Render("> ") + line + "\n")
		} else {
			s.WriteString("  " + line + "\n")
		}
	}
	if p.err != nil {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(p.err.Error()) + "\n")
	}
	s.WriteString(hintStyle().Render("↑↓:Select Enter:Open Esc:Back Q:Quit"))
	return s.String()
}

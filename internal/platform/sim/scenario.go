package sim

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/docklike/internal/appinfo"
	"github.com/mj1618/docklike/internal/logger"
	"github.com/mj1618/docklike/internal/platform"
	"github.com/mj1618/docklike/internal/settings"
)

// Scenario is a scripted session: an initial screen plus a list of steps.
type Scenario struct {
	Name      string             `yaml:"name"`
	Settings  settings.Settings  `yaml:"settings"`
	Apps      []*appinfo.AppInfo `yaml:"apps"`
	Workspace *int               `yaml:"workspace"`
	Panel     int                `yaml:"panel"`
	Monitors  []MonitorDef       `yaml:"monitors"`
	Windows   []WindowDef        `yaml:"windows"`
	Active    string             `yaml:"active"`
	Steps     []Step             `yaml:"steps"`
}

// MonitorDef is a monitor in scenario form. Bounds is "x,y,w,h".
type MonitorDef struct {
	ID     int    `yaml:"id"`
	Bounds string `yaml:"bounds"`
}

// WindowDef is a window in scenario form. A window without a workspace is
// on all workspaces.
type WindowDef struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Class     string   `yaml:"class"`
	Instance  string   `yaml:"instance"`
	Icon      string   `yaml:"icon"`
	State     []string `yaml:"state"`
	Workspace *int     `yaml:"workspace"`
	Geometry  string   `yaml:"geometry"`
}

// Step is one scenario action. Exactly one field should be set.
type Step struct {
	Open          *WindowDef   `yaml:"open,omitempty"`
	Close         string       `yaml:"close,omitempty"`
	Focus         string       `yaml:"focus,omitempty"`
	Workspace     *int         `yaml:"workspace,omitempty"`
	Move          *MoveStep    `yaml:"move,omitempty"`
	State         *StateStep   `yaml:"state,omitempty"`
	Class         *ClassStep   `yaml:"class,omitempty"`
	Rename        *RenameStep  `yaml:"rename,omitempty"`
	Panel         *int         `yaml:"panel,omitempty"`
	Monitors      []MonitorDef `yaml:"monitors,omitempty"`
	ActivateGroup string       `yaml:"activate_group,omitempty"`
}

// MoveStep moves a window to another workspace and/or position.
type MoveStep struct {
	ID        string `yaml:"id"`
	Workspace *int   `yaml:"workspace"`
	Sticky    bool   `yaml:"sticky"`
	Geometry  string `yaml:"geometry"`
}

// StateStep replaces a window's state flags.
type StateStep struct {
	ID    string   `yaml:"id"`
	State []string `yaml:"set"`
}

// ClassStep changes a window's class.
type ClassStep struct {
	ID       string `yaml:"id"`
	Class    string `yaml:"class"`
	Instance string `yaml:"instance"`
}

// RenameStep changes a window's title.
type RenameStep struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Hooks lets the caller take part in playback.
type Hooks struct {
	// ActivateGroup handles activate_group steps. Required if the
	// scenario uses them.
	ActivateGroup func(id string) error
	// AfterStep runs after each step.
	AfterStep func(index int, step Step)
}

// LoadScenario decodes a scenario. Unknown keys are rejected.
func LoadScenario(r io.Reader) (*Scenario, error) {
	sc := &Scenario{Settings: settings.Default()}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(sc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	return sc, nil
}

// LoadScenarioFile reads a scenario from path.
func LoadScenarioFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario: %w", err)
	}
	defer f.Close()
	return LoadScenario(f)
}

// Registry builds an application registry from the scenario's apps.
func (sc *Scenario) Registry(log *logger.Logger) *appinfo.Registry {
	r := appinfo.FromApps(log, sc.Apps...)
	r.SetAliases(sc.Settings.Aliases)
	return r
}

// Setup builds the initial screen. Nothing is subscribed yet, so no
// notifications fire.
func (sc *Scenario) Setup() (*Screen, error) {
	s := NewScreen()
	if sc.Workspace != nil {
		s.workspace = platform.OnWorkspace(platform.WorkspaceID(*sc.Workspace))
	}
	if len(sc.Monitors) > 0 {
		monitors, err := parseMonitors(sc.Monitors)
		if err != nil {
			return nil, err
		}
		s.monitors = monitors
	}
	s.panel = platform.MonitorID(sc.Panel)
	for _, def := range sc.Windows {
		spec, err := def.spec()
		if err != nil {
			return nil, err
		}
		if _, err := s.Open(spec); err != nil {
			return nil, err
		}
	}
	if sc.Active != "" {
		id, err := platform.ParseWindowID(sc.Active)
		if err != nil {
			return nil, err
		}
		if err := s.Focus(id); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Play applies every step to s in order.
func (sc *Scenario) Play(s *Screen, h Hooks) error {
	for i, step := range sc.Steps {
		if err := step.apply(s, h); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Describe(), err)
		}
		if h.AfterStep != nil {
			h.AfterStep(i, step)
		}
	}
	return nil
}

// Describe renders the step in one line.
func (st Step) Describe() string {
	switch {
	case st.Open != nil:
		return fmt.Sprintf("open %s (%s)", st.Open.ID, st.Open.Class)
	case st.Close != "":
		return "close " + st.Close
	case st.Focus != "":
		return "focus " + st.Focus
	case st.Workspace != nil:
		return fmt.Sprintf("workspace %d", *st.Workspace)
	case st.Move != nil:
		return "move " + st.Move.ID
	case st.State != nil:
		return fmt.Sprintf("state %s %v", st.State.ID, st.State.State)
	case st.Class != nil:
		return fmt.Sprintf("class %s %s", st.Class.ID, st.Class.Class)
	case st.Rename != nil:
		return "rename " + st.Rename.ID
	case st.Panel != nil:
		return fmt.Sprintf("panel %d", *st.Panel)
	case st.Monitors != nil:
		return fmt.Sprintf("monitors (%d)", len(st.Monitors))
	case st.ActivateGroup != "":
		return "activate_group " + st.ActivateGroup
	}
	return "noop"
}

func (st Step) apply(s *Screen, h Hooks) error {
	switch {
	case st.Open != nil:
		spec, err := st.Open.spec()
		if err != nil {
			return err
		}
		_, err = s.Open(spec)
		return err
	case st.Close != "":
		id, err := platform.ParseWindowID(st.Close)
		if err != nil {
			return err
		}
		return s.Close(id)
	case st.Focus != "":
		id, err := platform.ParseWindowID(st.Focus)
		if err != nil {
			return err
		}
		return s.Focus(id)
	case st.Workspace != nil:
		s.SwitchWorkspace(platform.OnWorkspace(platform.WorkspaceID(*st.Workspace)))
	case st.Move != nil:
		w, err := lookup(s, st.Move.ID)
		if err != nil {
			return err
		}
		if st.Move.Sticky {
			w.MoveToWorkspace(platform.NoWorkspace)
		} else if st.Move.Workspace != nil {
			w.MoveToWorkspace(platform.OnWorkspace(platform.WorkspaceID(*st.Move.Workspace)))
		}
		if st.Move.Geometry != "" {
			b, err := platform.ParseBBox(st.Move.Geometry)
			if err != nil {
				return err
			}
			w.SetGeometry(*b)
		}
	case st.State != nil:
		w, err := lookup(s, st.State.ID)
		if err != nil {
			return err
		}
		state, err := platform.ParseState(st.State.State)
		if err != nil {
			return err
		}
		w.SetState(state)
	case st.Class != nil:
		w, err := lookup(s, st.Class.ID)
		if err != nil {
			return err
		}
		w.SetClass(st.Class.Class, st.Class.Instance)
	case st.Rename != nil:
		w, err := lookup(s, st.Rename.ID)
		if err != nil {
			return err
		}
		w.SetName(st.Rename.Name)
	case st.Panel != nil:
		s.SetPanelMonitor(platform.MonitorID(*st.Panel))
	case st.Monitors != nil:
		monitors, err := parseMonitors(st.Monitors)
		if err != nil {
			return err
		}
		s.SetMonitors(monitors)
	case st.ActivateGroup != "":
		if h.ActivateGroup == nil {
			return errors.New("no group activation handler")
		}
		return h.ActivateGroup(st.ActivateGroup)
	default:
		return errors.New("empty step")
	}
	return nil
}

func lookup(s *Screen, raw string) (*Window, error) {
	id, err := platform.ParseWindowID(raw)
	if err != nil {
		return nil, err
	}
	w, ok := s.Window(id)
	if !ok {
		return nil, fmt.Errorf("window %s: %w", id, platform.ErrWindowGone)
	}
	return w, nil
}

func (def WindowDef) spec() (WindowSpec, error) {
	id, err := platform.ParseWindowID(def.ID)
	if err != nil {
		return WindowSpec{}, err
	}
	state, err := platform.ParseState(def.State)
	if err != nil {
		return WindowSpec{}, err
	}
	spec := WindowSpec{
		ID:            id,
		Name:          def.Name,
		ClassGroup:    def.Class,
		ClassInstance: def.Instance,
		Icon:          def.Icon,
		State:         state,
		Geometry:      platform.Bounds{Width: 800, Height: 600},
	}
	if spec.Name == "" {
		spec.Name = def.Class
	}
	if def.Workspace != nil {
		spec.Workspace = platform.OnWorkspace(platform.WorkspaceID(*def.Workspace))
	}
	if def.Geometry != "" {
		b, err := platform.ParseBBox(def.Geometry)
		if err != nil {
			return WindowSpec{}, err
		}
		spec.Geometry = *b
	}
	return spec, nil
}

func parseMonitors(defs []MonitorDef) ([]Monitor, error) {
	monitors := make([]Monitor, 0, len(defs))
	for _, d := range defs {
		b, err := platform.ParseBBox(d.Bounds)
		if err != nil {
			return nil, fmt.Errorf("monitor %d: %w", d.ID, err)
		}
		monitors = append(monitors, Monitor{ID: platform.MonitorID(d.ID), Bounds: *b})
	}
	return monitors, nil
}

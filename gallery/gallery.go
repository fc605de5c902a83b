package gallery

import (
	"errors"
	"fmt"
)

// FilterAll is the filter value that shows every project.
const FilterAll = "all"

var (
	ErrUnknownProject = errors.New("gallery: unknown project")
	ErrUnknownTarget  = errors.New("gallery: unknown activation target")
)

// Target names the control a visitor activated.
type Target int

const (
	CardBody Target = iota + 1
	GitHubLink
	PlayControl
	ReadToggle
	WatchDemo
	DetailClose
	DetailBackdrop
	VideoClose
	VideoBackdrop
	FilterTag
)

func (t Target) String() string {
	switch t {
	case CardBody:
		return "card"
	case GitHubLink:
		return "github"
	case PlayControl:
		return "play"
	case ReadToggle:
		return "toggle"
	case WatchDemo:
		return "demo"
	case DetailClose:
		return "detail-close"
	case DetailBackdrop:
		return "detail-backdrop"
	case VideoClose:
		return "video-close"
	case VideoBackdrop:
		return "video-backdrop"
	case FilterTag:
		return "filter"
	}
	return fmt.Sprintf("target(%d)", int(t))
}

// onCard reports whether the control sits inside a card, so an unhandled
// activation falls through to the card body.
func (t Target) onCard() bool {
	return t == GitHubLink || t == PlayControl || t == ReadToggle
}

// Activation is one user activation of a gallery control.
type Activation struct {
	Target    Target
	ProjectID string
	Tag       string
}

// EventKind classifies what an activation did, for interaction stats.
type EventKind string

const (
	EventNone   EventKind = ""
	EventSelect EventKind = "select"
	EventPlay   EventKind = "play"
	EventDemo   EventKind = "demo"
	EventGitHub EventKind = "github"
	EventToggle EventKind = "toggle"
	EventClose  EventKind = "close"
	EventFilter EventKind = "filter"
)

// Result is what a control handler reports back.
type Result struct {
	// Stop is set when a card sub-control handled the activation; the
	// card body handler does not run.
	Stop      bool
	Event     EventKind
	ProjectID string
	// Outbound is a URL to open in a new browsing context.
	Outbound string
}

// Gallery is one gallery instance: a read-only project list plus the
// selection, playback, expansion and filter state of a single visitor.
// It is not safe for concurrent use; Registry serializes access.
type Gallery struct {
	projects []Project
	index    map[string]int

	selected string
	playing  string
	expanded map[string]bool
	filter   string
}

// New returns a gallery over projects with all state empty. The slice is
// not copied and must not be modified afterwards.
func New(projects []Project) *Gallery {
	idx := make(map[string]int, len(projects))
	for i, p := range projects {
		idx[p.ID] = i
	}
	return &Gallery{
		projects: projects,
		index:    idx,
		expanded: make(map[string]bool),
		filter:   FilterAll,
	}
}

type handler func(*Gallery, Activation) (Result, error)

var handlers = map[Target]handler{
	CardBody:       (*Gallery).selectCard,
	GitHubLink:     (*Gallery).followGitHub,
	PlayControl:    (*Gallery).playFromCard,
	ReadToggle:     (*Gallery).toggleDescription,
	WatchDemo:      (*Gallery).watchDemo,
	DetailClose:    (*Gallery).closeDetail,
	DetailBackdrop: (*Gallery).closeDetail,
	VideoClose:     (*Gallery).closeVideo,
	VideoBackdrop:  (*Gallery).closeVideo,
	FilterTag:      (*Gallery).setFilter,
}

// Activate runs the handler for a.Target. Card sub-controls that are not
// present for the project (no GitHub URL, no video, short description)
// leave the activation unhandled and it reaches the card body instead.
func (g *Gallery) Activate(a Activation) (Result, error) {
	h, ok := handlers[a.Target]
	if !ok {
		return Result{}, fmt.Errorf("%w: %v", ErrUnknownTarget, a.Target)
	}
	res, err := h(g, a)
	if err != nil || res.Stop || !a.Target.onCard() {
		return res, err
	}
	return g.selectCard(a)
}

func (g *Gallery) lookup(id string) (Project, error) {
	i, ok := g.index[id]
	if !ok {
		return Project{}, fmt.Errorf("%w: %q", ErrUnknownProject, id)
	}
	return g.projects[i], nil
}

func (g *Gallery) selectCard(a Activation) (Result, error) {
	p, err := g.lookup(a.ProjectID)
	if err != nil {
		return Result{}, err
	}
	g.selected = p.ID
	return Result{Event: EventSelect, ProjectID: p.ID}, nil
}

func (g *Gallery) followGitHub(a Activation) (Result, error) {
	p, err := g.lookup(a.ProjectID)
	if err != nil || p.GitHub == "" {
		return Result{}, err
	}
	return Result{Stop: true, Event: EventGitHub, ProjectID: p.ID, Outbound: p.GitHub}, nil
}

func (g *Gallery) playFromCard(a Activation) (Result, error) {
	p, err := g.lookup(a.ProjectID)
	if err != nil || p.Video == "" {
		return Result{}, err
	}
	g.playing = p.Video
	return Result{Stop: true, Event: EventPlay, ProjectID: p.ID}, nil
}

func (g *Gallery) toggleDescription(a Activation) (Result, error) {
	p, err := g.lookup(a.ProjectID)
	if err != nil {
		return Result{}, err
	}
	if _, long := Excerpt(p.Description); !long {
		return Result{}, nil
	}
	if g.expanded[p.ID] {
		delete(g.expanded, p.ID)
	} else {
		g.expanded[p.ID] = true
	}
	return Result{Stop: true, Event: EventToggle, ProjectID: p.ID}, nil
}

// watchDemo moves from the detail overlay to the video overlay in one step.
func (g *Gallery) watchDemo(a Activation) (Result, error) {
	if g.selected == "" {
		return Result{}, nil
	}
	id := a.ProjectID
	if id == "" {
		id = g.selected
	}
	if id != g.selected {
		return Result{}, nil
	}
	p, err := g.lookup(id)
	if err != nil || p.Video == "" {
		return Result{}, err
	}
	g.playing = p.Video
	g.selected = ""
	return Result{Event: EventDemo, ProjectID: p.ID}, nil
}

func (g *Gallery) closeDetail(Activation) (Result, error) {
	if g.selected == "" {
		return Result{}, nil
	}
	id := g.selected
	g.selected = ""
	return Result{Event: EventClose, ProjectID: id}, nil
}

func (g *Gallery) closeVideo(Activation) (Result, error) {
	if g.playing == "" {
		return Result{}, nil
	}
	g.playing = ""
	return Result{Event: EventClose}, nil
}

func (g *Gallery) setFilter(a Activation) (Result, error) {
	tag := a.Tag
	if tag == "" {
		tag = FilterAll
	}
	g.filter = tag
	return Result{Event: EventFilter}, nil
}

// Selected returns the project shown in the detail overlay.
func (g *Gallery) Selected() (Project, bool) {
	if g.selected == "" {
		return Project{}, false
	}
	p, err := g.lookup(g.selected)
	return p, err == nil
}

// Playing returns the video URL shown in the video overlay.
func (g *Gallery) Playing() (string, bool) {
	return g.playing, g.playing != ""
}

// Expanded reports whether the project's description is shown in full.
func (g *Gallery) Expanded(id string) bool { return g.expanded[id] }

// Filter returns the active technology filter, or FilterAll.
func (g *Gallery) Filter() string { return g.filter }

// Projects returns the gallery's project list in source order.
func (g *Gallery) Projects() []Project { return g.projects }

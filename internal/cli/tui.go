package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kstrandberg/uncouple/pkg/engine"
	"github.com/kstrandberg/uncouple/pkg/model"
	"github.com/kstrandberg/uncouple/pkg/observability"
)

// Junction display states.
const (
	statePending = iota
	stateDiscovered
	stateDone
	stateFailed
)

type junctionStatus struct {
	id       model.ElementID
	state    int
	segments int
	outcome  string
	err      string
}

// Messages delivered to the TUI from engine hooks.
type (
	discoverMsg struct {
		id       string
		segments int
	}
	junctionDoneMsg struct {
		id      string
		outcome string
		err     error
	}
	batchDoneMsg struct {
		sum engine.Summary
	}
	tickMsg time.Time
)

// tuiHooks forwards engine events into the bubbletea program.
type tuiHooks struct {
	events chan<- tea.Msg
}

func (h *tuiHooks) OnDiscover(_ context.Context, junctionID string, segmentCount int) {
	h.events <- discoverMsg{id: junctionID, segments: segmentCount}
}

func (h *tuiHooks) OnStrategy(context.Context, string, string, bool, time.Duration) {}

func (h *tuiHooks) OnJunctionDone(_ context.Context, junctionID, outcome string, err error) {
	h.events <- junctionDoneMsg{id: junctionID, outcome: outcome, err: err}
}

// ProcessTUI is the bubbletea model showing per-junction batch progress.
type ProcessTUI struct {
	statuses []junctionStatus
	index    map[string]int
	events   <-chan tea.Msg
	frame    int
	summary  *engine.Summary
	aborted  bool
}

// NewProcessTUI creates the progress view for the given junctions.
func NewProcessTUI(junctions []*model.Junction, events <-chan tea.Msg) ProcessTUI {
	t := ProcessTUI{
		index:  make(map[string]int, len(junctions)),
		events: events,
	}
	for i, j := range junctions {
		t.statuses = append(t.statuses, junctionStatus{id: j.ID(), state: statePending})
		t.index[string(j.ID())] = i
	}
	return t
}

// Done reports whether the batch finished, and with what summary.
func (t ProcessTUI) Done() (engine.Summary, bool) {
	if t.summary == nil {
		return engine.Summary{}, false
	}
	return *t.summary, true
}

// Aborted reports whether the user quit before the batch finished.
func (t ProcessTUI) Aborted() bool { return t.aborted }

func (t ProcessTUI) Init() tea.Cmd {
	return tea.Batch(t.waitForEvent(), tick())
}

func (t ProcessTUI) waitForEvent() tea.Cmd {
	return func() tea.Msg { return <-t.events }
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(ts time.Time) tea.Msg {
		return tickMsg(ts)
	})
}

func (t ProcessTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			t.aborted = true
			return t, tea.Quit
		}
	case discoverMsg:
		if i, ok := t.index[msg.id]; ok {
			t.statuses[i].state = stateDiscovered
			t.statuses[i].segments = msg.segments
		}
		return t, t.waitForEvent()
	case junctionDoneMsg:
		if i, ok := t.index[msg.id]; ok {
			t.statuses[i].outcome = msg.outcome
			if msg.err != nil {
				t.statuses[i].state = stateFailed
				t.statuses[i].err = msg.err.Error()
			} else {
				t.statuses[i].state = stateDone
			}
		}
		return t, t.waitForEvent()
	case batchDoneMsg:
		sum := msg.sum
		t.summary = &sum
		return t, tea.Quit
	case tickMsg:
		t.frame++
		return t, tick()
	}
	return t, nil
}

var tuiFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (t ProcessTUI) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Removing couplings"))
	b.WriteString("\n\n")

	for _, st := range t.statuses {
		switch st.state {
		case stateDone:
			line := fmt.Sprintf("%s %s %s",
				styleIconSuccess.Render(iconSuccess),
				StyleValue.Render(string(st.id)),
				styleOutcome.Render(st.outcome))
			b.WriteString(line)
		case stateFailed:
			b.WriteString(fmt.Sprintf("%s %s %s",
				styleIconError.Render(iconError),
				StyleValue.Render(string(st.id)),
				StyleDim.Render(st.err)))
		case stateDiscovered:
			frame := tuiFrames[t.frame%len(tuiFrames)]
			b.WriteString(fmt.Sprintf("%s %s %s",
				styleIconSpinner.Render(frame),
				StyleValue.Render(string(st.id)),
				StyleDim.Render(fmt.Sprintf("%d segment(s)", st.segments))))
		default:
			b.WriteString(StyleDim.Render("  " + string(st.id)))
		}
		b.WriteString("\n")
	}

	if t.summary != nil {
		b.WriteString("\n")
		b.WriteString(renderSummary(*t.summary))
	} else {
		b.WriteString("\n" + StyleDim.Render("q to abort") + "\n")
	}
	return b.String()
}

// runProcessTUI drives the engine under the progress TUI and returns the
// batch summary. The engine runs on its own goroutine; hook events stream
// into the program.
func runProcessTUI(ctx context.Context, eng *engine.Engine, junctions []*model.Junction) (engine.Summary, error) {
	events := make(chan tea.Msg, 2*len(junctions)+1)
	observability.SetEngineHooks(&tuiHooks{events: events})
	defer observability.SetEngineHooks(nil)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		sum := eng.Process(ctx, junctions)
		events <- batchDoneMsg{sum: sum}
	}()

	prog := tea.NewProgram(NewProcessTUI(junctions, events), tea.WithContext(ctx))
	final, err := prog.Run()
	if err != nil {
		return engine.Summary{}, err
	}
	t := final.(ProcessTUI)
	if t.Aborted() {
		cancel()
		// Drain until the engine winds down so the model is not mutated
		// after we return.
		for {
			if done, ok := (<-events).(batchDoneMsg); ok {
				return done.sum, nil
			}
		}
	}
	sum, _ := t.Done()
	return sum, nil
}

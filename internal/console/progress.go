package console

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// Progress tracks the pipeline's advancement through monotonic counters.
// The rendering goroutine only ever reads them, the pipeline only ever
// increments them, so neither side can block or corrupt the other.
type Progress struct {
	pagesTotal atomic.Int64
	pagesDone  atomic.Int64
	unitsTotal atomic.Int64
	unitsDone  atomic.Int64

	program *tea.Program
	stopped chan struct{}
}

func NewProgress() *Progress {
	return &Progress{
		stopped: make(chan struct{}),
	}
}

func (p *Progress) AddUnits(n int) { p.unitsTotal.Add(int64(n)) }
func (p *Progress) UnitDone()      { p.unitsDone.Add(1) }
func (p *Progress) AddPages(n int) { p.pagesTotal.Add(int64(n)) }
func (p *Progress) PageDone()      { p.pagesDone.Add(1) }

// Start launches the display in its own goroutine. Display errors are
// deliberately dropped, a broken terminal must not fail a download.
func (p *Progress) Start() {
	p.program = tea.NewProgram(newProgressModel(p), tea.WithoutSignalHandler())

	go func() {
		defer close(p.stopped)
		_, _ = p.program.Run()
	}()
}

// Stop tells the display to finish and waits for its final frame.
func (p *Progress) Stop() {
	if p.program == nil {
		return
	}

	p.program.Quit()
	<-p.stopped
}

type tickMsg time.Time

type progressModel struct {
	progress *Progress
	bar      progress.Model
}

func newProgressModel(p *Progress) progressModel {
	return progressModel{
		progress: p,
		bar:      progress.New(progress.WithDefaultGradient()),
	}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m progressModel) Init() tea.Cmd {
	return tick()
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		return m, tick()
	case tea.QuitMsg:
		return m, tea.Quit
	}

	return m, nil
}

func (m progressModel) View() string {
	pagesTotal := m.progress.pagesTotal.Load()
	pagesDone := m.progress.pagesDone.Load()
	unitsTotal := m.progress.unitsTotal.Load()
	unitsDone := m.progress.unitsDone.Load()

	var ratio float64
	if pagesTotal > 0 {
		ratio = float64(pagesDone) / float64(pagesTotal)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("pages     %s %d/%d\n", m.bar.ViewAs(ratio), pagesDone, pagesTotal))
	if unitsTotal > 1 {
		b.WriteString(fmt.Sprintf("units     %d/%d\n", unitsDone, unitsTotal))
	}

	return b.String()
}

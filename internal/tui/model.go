// Package tui implements the interactive quiz flow: settings form, AI
// generation, question-by-question play, results, and the AI review.
package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizdeck/internal/coordinator"
	"github.com/abhisek/quizdeck/internal/progress"
	"github.com/abhisek/quizdeck/internal/quiz"
	"github.com/abhisek/quizdeck/internal/quizgen"
	"github.com/abhisek/quizdeck/internal/review"
	"github.com/abhisek/quizdeck/internal/session"
	"github.com/abhisek/quizdeck/internal/ui/components"
)

type phase int

const (
	phaseSetup phase = iota
	phaseGenerating
	phaseQuestion
	phaseResults
	phaseReviewing
	phaseReview
)

var difficulties = []quiz.Difficulty{quiz.Beginner, quiz.Intermediate, quiz.Advanced}

// setupField tracks which form field has focus.
type setupField int

const (
	fieldTopic setupField = iota
	fieldDifficulty
	fieldCount
)

// Model is the root Bubble Tea model for the quiz flow.
type Model struct {
	coord     *coordinator.Coordinator
	generator *quizgen.Service
	session   *session.Session
	progress  *progress.Store
	reviews   *review.Service

	phase  phase
	width  int
	height int

	// Setup form.
	topicInput components.TextInput
	countInput components.TextInput
	diffIndex  int
	focus      setupField

	// Question view.
	selected int

	// Review view.
	currentReview *quiz.Review

	spinnerFrame int
	errMsg       string
}

// Deps bundles the services the TUI drives.
type Deps struct {
	Coordinator *coordinator.Coordinator
	Generator   *quizgen.Service
	Session     *session.Session
	Progress    *progress.Store
	Reviews     *review.Service
}

// NewModel creates the root model in the setup phase. The form pre-fills
// from the generator's remembered settings.
func NewModel(deps Deps) Model {
	defaults := deps.Generator.DefaultSettings()

	topic := components.NewTextInput("e.g. Go concurrency", false, 60)
	count := components.NewTextInput(fmt.Sprintf("%d", defaults.NumQuestions), true, 2)

	diffIndex := 0
	for i, d := range difficulties {
		if d == defaults.Difficulty {
			diffIndex = i
			break
		}
	}

	return Model{
		coord:      deps.Coordinator,
		generator:  deps.Generator,
		session:    deps.Session,
		progress:   deps.Progress,
		reviews:    deps.Reviews,
		phase:      phaseSetup,
		topicInput: topic,
		countInput: count,
		diffIndex:  diffIndex,
		focus:      fieldTopic,
	}
}

func (m Model) Init() tea.Cmd {
	return m.topicInput.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case quizReadyMsg:
		return m.handleQuizReady(msg)

	case reviewReadyMsg:
		return m.handleReviewReady(msg)

	case attemptSavedMsg:
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
		}
		return m, nil

	case timerTickMsg:
		return m.handleTimerTick()

	case spinnerTickMsg:
		if m.phase == phaseGenerating || m.phase == phaseReviewing {
			m.spinnerFrame++
			return m, spinnerTickCmd()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.forwardToInputs(msg)
}

func (m Model) forwardToInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.phase != phaseSetup {
		return m, nil
	}
	var cmd tea.Cmd
	switch m.focus {
	case fieldTopic:
		m.topicInput, cmd = m.topicInput.Update(msg)
	case fieldCount:
		m.countInput, cmd = m.countInput.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.phase {
	case phaseSetup:
		return m.handleSetupKey(msg)
	case phaseQuestion:
		return m.handleQuestionKey(msg)
	case phaseResults:
		return m.handleResultsKey(msg)
	case phaseReview:
		if msg.String() == "esc" || msg.String() == "q" {
			m.phase = phaseResults
		}
		return m, nil
	case phaseGenerating, phaseReviewing:
		// Nothing to do but wait or quit.
		if msg.String() == "q" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) handleSetupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % 3
		return m, nil
	case "shift+tab", "up":
		m.focus = (m.focus + 2) % 3
		return m, nil
	case "left":
		if m.focus == fieldDifficulty && m.diffIndex > 0 {
			m.diffIndex--
			return m, nil
		}
	case "right":
		if m.focus == fieldDifficulty && m.diffIndex < len(difficulties)-1 {
			m.diffIndex++
			return m, nil
		}
	case "enter":
		return m.startGeneration()
	case "esc", "q":
		if m.focus != fieldTopic {
			return m, tea.Quit
		}
	}

	return m.forwardToInputs(msg)
}

func (m Model) startGeneration() (tea.Model, tea.Cmd) {
	defaults := m.generator.DefaultSettings()
	settings := quizgen.Settings{
		Topic:        m.topicInput.Value(),
		Difficulty:   difficulties[m.diffIndex],
		NumQuestions: defaults.NumQuestions,
		Language:     defaults.Language,
	}
	if n, err := m.countInput.NumericValue(); err == nil && n > 0 {
		settings.NumQuestions = n
	}
	if err := settings.Validate(); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	m.generator.SetDefaultSettings(settings)

	m.errMsg = ""
	m.phase = phaseGenerating
	m.spinnerFrame = 0

	generator := m.generator
	return m, tea.Batch(
		spinnerTickCmd(),
		func() tea.Msg {
			q, err := generator.Generate(context.Background(), settings)
			return quizReadyMsg{Quiz: q, Err: err}
		},
	)
}

func (m Model) handleQuizReady(msg quizReadyMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// Generation failure blocks the transition to play; the message
		// shows inline on the setup form.
		m.phase = phaseSetup
		m.errMsg = msg.Err.Error()
		return m, nil
	}

	if err := m.coord.StartQuizFlow(msg.Quiz); err != nil {
		m.phase = phaseSetup
		m.errMsg = err.Error()
		return m, nil
	}

	m.phase = phaseQuestion
	m.selected = 0
	m.errMsg = ""
	return m, timerTickCmd()
}

func (m Model) handleTimerTick() (tea.Model, tea.Cmd) {
	if m.phase != phaseQuestion {
		return m, nil
	}

	m.session.Tick()
	if m.session.State() == session.StateCompleted {
		return m.finishQuiz()
	}
	return m, timerTickCmd()
}

func (m Model) handleQuestionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	q := m.session.CurrentQuestion()
	if q == nil {
		return m, nil
	}

	if m.session.State() == session.StatePaused {
		if msg.String() == " " || msg.String() == "p" {
			m.session.ResumeQuiz()
		}
		return m, nil
	}

	switch key := msg.String(); key {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(q.Options)-1 {
			m.selected++
		}
	case "1", "2", "3", "4":
		idx := int(key[0] - '1')
		if idx < len(q.Options) {
			m.selected = idx
			m.session.SubmitAnswer(q.ID, idx)
		}
	case "enter":
		m.session.SubmitAnswer(q.ID, m.selected)
	case "c":
		m.session.ClearAnswer(q.ID)
	case "e":
		m.session.ToggleExplanation()
	case "n", "right":
		if m.session.IsLastQuestion() {
			return m.finishQuiz()
		}
		m.session.NextQuestion()
		m.selected = m.selectedForCurrent()
	case "b", "left":
		m.session.PreviousQuestion()
		m.selected = m.selectedForCurrent()
	case " ", "p":
		m.session.PauseQuiz()
	case "esc":
		return m.finishQuiz()
	}
	return m, nil
}

// selectedForCurrent restores the cursor to a previously submitted answer.
func (m Model) selectedForCurrent() int {
	q := m.session.CurrentQuestion()
	if q == nil {
		return 0
	}
	if a, ok := m.session.Answer(q.ID); ok {
		return a.SelectedOption
	}
	return 0
}

// finishQuiz ends the run on the Update goroutine; only the save happens
// in the background. The session is single-goroutine state, so it must
// never be touched from inside a command closure.
func (m Model) finishQuiz() (tea.Model, tea.Cmd) {
	attempt, err := m.coord.FinishQuizSession()
	m.phase = phaseResults
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}

	coord := m.coord
	return m, func() tea.Msg {
		err := coord.SaveAttempt(context.Background(), attempt)
		return attemptSavedMsg{Attempt: attempt, Err: err}
	}
}

func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		// Snapshot here so the background command never reads the session.
		snap := m.session.Snapshot()
		m.phase = phaseReviewing
		m.spinnerFrame = 0
		m.errMsg = ""
		coord := m.coord
		return m, tea.Batch(
			spinnerTickCmd(),
			func() tea.Msg {
				r, err := coord.GenerateReview(context.Background(), snap.Quiz, snap.Answers, "en")
				return reviewReadyMsg{Review: r, Err: err}
			},
		)
	case "enter", "n":
		// Back to setup for another round.
		m.coord.ResetAllStores()
		m.phase = phaseSetup
		m.currentReview = nil
		m.errMsg = ""
		return m, m.topicInput.Init()
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleReviewReady(msg reviewReadyMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// Review failure leaves the results visible with the error shown
		// and a retry available.
		m.phase = phaseResults
		m.errMsg = msg.Err.Error()
		return m, nil
	}
	m.phase = phaseReview
	m.currentReview = msg.Review
	m.errMsg = ""
	return m, nil
}

// timerTickCmd returns a 1-second tick command.
func timerTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}

// spinnerTickCmd returns a short tick for spinner animation.
func spinnerTickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

// Run starts the Bubble Tea program.
func Run(deps Deps) error {
	p := tea.NewProgram(NewModel(deps))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

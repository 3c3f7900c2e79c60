package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdeck/internal/session"
	"github.com/abhisek/quizdeck/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	var content string
	switch m.phase {
	case phaseSetup:
		content = m.viewSetup()
	case phaseGenerating:
		content = m.viewSpinner("Generating your quiz...")
	case phaseQuestion:
		content = m.viewQuestion()
	case phaseResults:
		content = m.viewResults()
	case phaseReviewing:
		content = m.viewSpinner("Reviewing your answers...")
	case phaseReview:
		content = m.viewReview()
	}

	v.SetContent(content)
	return v
}

func (m Model) viewSetup() string {
	var b strings.Builder

	b.WriteString(theme.Title.Width(m.width).Render("QuizDeck"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(m.width).Render("AI-generated quizzes in your terminal"))
	b.WriteString("\n\n")

	label := func(f setupField, text string) string {
		if m.focus == f {
			return theme.Selected.Render("▸ " + text)
		}
		return theme.Unselected.Render("  " + text)
	}

	b.WriteString(label(fieldTopic, "Topic:      ") + m.topicInput.View() + "\n\n")

	diffs := make([]string, len(difficulties))
	for i, d := range difficulties {
		if i == m.diffIndex {
			diffs[i] = theme.Selected.Render("[" + string(d) + "]")
		} else {
			diffs[i] = theme.Hint.Render(" " + string(d) + " ")
		}
	}
	b.WriteString(label(fieldDifficulty, "Difficulty: ") + strings.Join(diffs, " ") + "\n\n")

	b.WriteString(label(fieldCount, "Questions:  ") + m.countInput.View() + "\n\n")

	if m.errMsg != "" {
		b.WriteString(theme.Incorrect.Render("  " + m.errMsg))
		b.WriteString("\n\n")
	}

	b.WriteString(theme.Hint.Render("  tab: next field · ←/→: difficulty · enter: generate · ctrl+c: quit"))

	return b.String()
}

func (m Model) viewSpinner(msg string) string {
	frame := spinnerFrames[m.spinnerFrame%len(spinnerFrames)]
	line := fmt.Sprintf("%s %s", frame, msg)
	return lipgloss.NewStyle().
		Width(m.width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("\n\n\n" + line)
}

func (m Model) viewQuestion() string {
	q := m.session.CurrentQuestion()
	quiz := m.session.Quiz()
	if q == nil || quiz == nil {
		return ""
	}

	var b strings.Builder

	// Status line: position, progress, answered count, timer.
	remaining := m.session.TimeRemaining()
	timer := fmt.Sprintf("%d:%02d", remaining/60, remaining%60)
	status := fmt.Sprintf("  Q %d/%d · %d%% · answered %d · %s",
		m.session.CurrentIndex()+1,
		len(quiz.Questions),
		m.session.Progress(),
		m.session.AnsweredCount(),
		theme.Timer.Render(timer),
	)
	b.WriteString(theme.Subtitle.Render(status))
	b.WriteString("\n")
	b.WriteString(theme.Divider.Render(strings.Repeat("─", max(m.width-4, 0))))
	b.WriteString("\n\n")

	if m.session.State() == session.StatePaused {
		b.WriteString(lipgloss.NewStyle().
			Width(m.width).
			Align(lipgloss.Center).
			Foreground(theme.Accent).
			Bold(true).
			Render("Paused — press space to resume"))
		return b.String()
	}

	b.WriteString("  " + theme.Body.Bold(true).Render(q.Question))
	b.WriteString("\n\n")

	answer, answered := m.session.Answer(q.ID)
	labels := []string{"1", "2", "3", "4"}
	for i, opt := range q.Options {
		prefix := "  "
		if i == m.selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("  %s%s)  %s", prefix, labels[i], opt)

		style := theme.Unselected
		switch {
		case answered && i == answer.SelectedOption:
			style = theme.Answered
		case i == m.selected:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	if m.session.ShowExplanation() && q.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("  " + q.Explanation))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("  1-4/enter: answer · n/b: next/back · c: clear · e: explanation · space: pause · esc: finish"))

	return b.String()
}

func (m Model) viewResults() string {
	quiz := m.session.Quiz()
	if quiz == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString(theme.Title.Width(m.width).Render("Quiz Complete"))
	b.WriteString("\n\n")

	score := m.session.Score()
	scoreStyle := theme.Correct
	if score < 70 {
		scoreStyle = theme.Incorrect
	}
	b.WriteString(lipgloss.NewStyle().Width(m.width).Align(lipgloss.Center).
		Render(scoreStyle.Render(fmt.Sprintf("%d%%", score))))
	b.WriteString("\n\n")

	correct := 0
	for _, a := range m.session.Answers() {
		if a.IsCorrect {
			correct++
		}
	}
	summary := fmt.Sprintf("%d of %d correct · %s",
		correct, len(quiz.Questions), quiz.Title)
	b.WriteString(theme.Subtitle.Width(m.width).Render(summary))
	b.WriteString("\n\n")

	if m.errMsg != "" {
		b.WriteString(lipgloss.NewStyle().Width(m.width).Align(lipgloss.Center).
			Render(theme.Incorrect.Render(m.errMsg + " — press r to retry")))
		b.WriteString("\n\n")
	}

	b.WriteString(theme.Hint.Width(m.width).Align(lipgloss.Center).
		Render("r: AI review · enter: new quiz · q: quit"))

	return b.String()
}

func (m Model) viewReview() string {
	r := m.currentReview
	if r == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString(theme.Title.Width(m.width).Render("Performance Review"))
	b.WriteString("\n\n")

	b.WriteString(theme.Subtitle.Width(m.width).
		Render(fmt.Sprintf("Score %d/%d · accuracy %.0f%%", r.Score, r.Total, r.Accuracy*100)))
	b.WriteString("\n\n")

	b.WriteString("  " + theme.Body.Render(r.Comment))
	b.WriteString("\n\n")

	if len(r.RecommendedTopics) > 0 {
		b.WriteString("  " + theme.Selected.Render("Study next:"))
		b.WriteString("\n")
		for _, topic := range r.RecommendedTopics {
			b.WriteString(theme.Body.Render("   · " + topic))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(r.Tips) > 0 {
		b.WriteString("  " + theme.Selected.Render("Tips:"))
		b.WriteString("\n")
		for _, tip := range r.Tips {
			b.WriteString(theme.Body.Render("   · " + tip))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if weak := m.reviews.WeakTags(); len(weak) > 0 {
		b.WriteString("  " + theme.Incorrect.Render("Weak areas: ") + theme.Body.Render(strings.Join(weak, ", ")))
		b.WriteString("\n")
	}
	if strong := m.reviews.StrongTags(); len(strong) > 0 {
		b.WriteString("  " + theme.Correct.Render("Strong areas: ") + theme.Body.Render(strings.Join(strong, ", ")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("  esc: back to results"))

	return b.String()
}

package tui

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/semana/internal/task"
)

// Form fields in tab order.
const (
	fieldTitle = iota
	fieldDescription
	fieldDuration
	fieldCategory
	fieldPriority
	fieldCount
)

const defaultFormDuration = 60

// taskForm edits the content of a pool task.
type taskForm struct {
	editID      string // Empty for a new task
	title       textinput.Model
	description textinput.Model
	duration    textinput.Model
	category    int // Index into task.Categories
	priority    int // Index into task.Priorities
	focus       int
	err         string
}

func newInput(placeholder string, limit, width int) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = width
	return in
}

// newTaskForm returns an empty form, or one filled from t when editing.
func newTaskForm(t *task.Task) taskForm {
	f := taskForm{
		title:       newInput("What needs doing?", 120, 40),
		description: newInput("Optional details", 200, 40),
		duration:    newInput("60", 4, 6),
		category:    slices.Index(task.Categories, task.CategoryOther),
		priority:    slices.Index(task.Priorities, task.PriorityMedium),
	}
	f.duration.SetValue(strconv.Itoa(defaultFormDuration))

	if t != nil {
		f.editID = t.ID
		f.title.SetValue(t.Title)
		f.description.SetValue(t.Description)
		f.duration.SetValue(strconv.Itoa(t.Duration))
		if i := slices.Index(task.Categories, t.Category); i >= 0 {
			f.category = i
		}
		if i := slices.Index(task.Priorities, t.Priority); i >= 0 {
			f.priority = i
		}
	}

	f.setFocus(fieldTitle)
	return f
}

// input returns the text input of the focused field, or nil for selectors.
func (f *taskForm) input() *textinput.Model {
	switch f.focus {
	case fieldTitle:
		return &f.title
	case fieldDescription:
		return &f.description
	case fieldDuration:
		return &f.duration
	default:
		return nil
	}
}

func (f *taskForm) setFocus(field int) {
	f.focus = (field + fieldCount) % fieldCount
	f.title.Blur()
	f.description.Blur()
	f.duration.Blur()
	if in := f.input(); in != nil {
		in.Focus()
	}
}

// cycle steps the focused selector by delta.
func (f *taskForm) cycle(delta int) {
	switch f.focus {
	case fieldCategory:
		n := len(task.Categories)
		f.category = (f.category + delta + n) % n
	case fieldPriority:
		n := len(task.Priorities)
		f.priority = (f.priority + delta + n) % n
	}
}

// update forwards a message to the focused text input.
func (f taskForm) update(msg tea.Msg) (taskForm, tea.Cmd) {
	in := f.input()
	if in == nil {
		return f, nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return f, cmd
}

func (f taskForm) minutes() (int, error) {
	raw := strings.TrimSpace(f.duration.Value())
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: duration %q is not a number of minutes", task.ErrValidation, raw)
	}
	return n, nil
}

func (f taskForm) draft() (task.Draft, error) {
	minutes, err := f.minutes()
	if err != nil {
		return task.Draft{}, err
	}
	return task.Draft{
		Title:       f.title.Value(),
		Description: f.description.Value(),
		Category:    task.Categories[f.category],
		Priority:    task.Priorities[f.priority],
		Duration:    minutes,
	}, nil
}

func (f taskForm) fields() (task.Fields, error) {
	d, err := f.draft()
	if err != nil {
		return task.Fields{}, err
	}
	return task.Fields{
		Title:       &d.Title,
		Description: &d.Description,
		Category:    &d.Category,
		Priority:    &d.Priority,
		Duration:    &d.Duration,
	}, nil
}

// openForm shows the task form, prefilled when t is not nil.
func (m Model) openForm(t *task.Task) (tea.Model, tea.Cmd) {
	m.form = newTaskForm(t)
	m.setMode(ModeForm, "open form")
	return m, textinput.Blink
}

// handleFormKeys handles keys while the task form is open.
func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.setMode(ModeNormal, "form cancelled")
		return m, nil
	case "tab", "down":
		m.form.setFocus(m.form.focus + 1)
		return m, textinput.Blink
	case "shift+tab", "up":
		m.form.setFocus(m.form.focus - 1)
		return m, textinput.Blink
	case "ctrl+s":
		return m.submitForm()
	case "enter":
		if m.form.focus == fieldPriority {
			return m.submitForm()
		}
		m.form.setFocus(m.form.focus + 1)
		return m, textinput.Blink
	}

	if m.form.input() == nil {
		switch msg.String() {
		case "left", "h":
			m.form.cycle(-1)
		case "right", "l", " ":
			m.form.cycle(1)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

// submitForm creates or edits the task. Validation errors keep the form
// open with the message shown.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	ctx := context.Background()

	if m.form.editID == "" {
		d, err := m.form.draft()
		if err == nil {
			_, err = m.engine.CreateTask(ctx, d)
		}
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		m.poolCursor = len(m.pool()) - 1
	} else {
		f, err := m.form.fields()
		if err == nil {
			_, err = m.engine.EditTask(ctx, m.form.editID, f)
		}
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
	}

	m.setMode(ModeNormal, "form submitted")
	return m, m.noticeStatus()
}

func (m Model) renderForm() string {
	s := m.styles
	f := m.form

	heading := "New task"
	if f.editID != "" {
		heading = "Edit task"
	}

	selector := func(field int, value string) string {
		text := "‹ " + value + " ›"
		if f.focus == field {
			return s.ModalSelected.Render(text)
		}
		return s.ModalText.Render(text)
	}

	rows := []string{
		s.ModalTitle.Render(heading),
		"",
		s.ModalLabel.Render("Title") + f.title.View(),
		s.ModalLabel.Render("Notes") + f.description.View(),
		s.ModalLabel.Render("Minutes") + f.duration.View(),
		s.ModalLabel.Render("Category") + selector(fieldCategory, task.Categories[f.category].Label()),
		s.ModalLabel.Render("Priority") + selector(fieldPriority, task.Priorities[f.priority].Label()),
	}
	if f.err != "" {
		rows = append(rows, "", s.ModalError.Render(f.err))
	}
	rows = append(rows, "", s.ModalMuted.Render("tab next · ←/→ change · enter next/save · ctrl+s save · esc cancel"))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

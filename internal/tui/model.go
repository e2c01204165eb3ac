// Package tui hosts a date range control in a bubbletea program.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/daterange/internal/daterange"
	"github.com/jask/daterange/internal/observe"
)

type focusArea int

const (
	focusChips focusArea = iota
	focusFrom
	focusTo
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true)
	chipStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#bac2de"))
	chipCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Bold(true)
	chipActiveBg    = lipgloss.Color("#313244")
	labelStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	pickerStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	pickerFocus     = pickerStyle.BorderForeground(lipgloss.Color("#89b4fa"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 2)
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is a bubbletea model acting as the host form of one control.
type Model struct {
	title      string
	ctl        *daterange.Control
	options    []daterange.CategoryOption
	dateFormat string
	cursor     int
	focus      focusArea
	status     string
	last       daterange.Value
	changes    int
	sub        *observe.Subscription
}

// New wraps ctl. dateFormat is the Go layout used to display picker dates.
func New(title string, ctl *daterange.Control, dateFormat string) *Model {
	if dateFormat == "" {
		dateFormat = "2006-01-02"
	}
	m := &Model{
		title:      title,
		ctl:        ctl,
		options:    ctl.Options(),
		dateFormat: dateFormat,
		last:       ctl.Value(),
	}
	for i, opt := range m.options {
		if opt.Value == ctl.DateRangeType() {
			m.cursor = i
		}
	}
	if len(m.options) == 0 {
		m.focus = focusFrom
	}
	m.sub = ctl.RegisterOnChange(func(v daterange.Value) {
		m.last = v
		m.changes++
	})
	return m
}

// Close releases the model's change subscription.
func (m *Model) Close() {
	m.sub.Dispose()
}

// Changes returns the number of change notifications received.
func (m *Model) Changes() int {
	return m.changes
}

// Last returns the most recent value received from the control.
func (m *Model) Last() daterange.Value {
	return m.last
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		m.cycleFocus(1)
		return m, nil
	case "shift+tab":
		m.cycleFocus(-1)
		return m, nil
	}
	if m.focus == focusChips {
		m.handleChipKey(keyMsg.String())
	} else {
		m.handlePickerKey(keyMsg.String())
	}
	return m, nil
}

func (m *Model) focusable() []focusArea {
	var out []focusArea
	if len(m.options) > 0 {
		out = append(out, focusChips)
	}
	if m.ctl.DisplayDatePickers() {
		out = append(out, focusFrom, focusTo)
	}
	return out
}

func (m *Model) cycleFocus(step int) {
	areas := m.focusable()
	if len(areas) == 0 {
		return
	}
	idx := 0
	for i, a := range areas {
		if a == m.focus {
			idx = i
		}
	}
	idx = (idx + step + len(areas)) % len(areas)
	m.focus = areas[idx]
}

func (m *Model) handleChipKey(key string) {
	if len(m.options) == 0 {
		return
	}
	switch strings.ToLower(key) {
	case "left", "h":
		m.cursor--
		if m.cursor < 0 {
			m.cursor = len(m.options) - 1
		}
	case "right", "l":
		m.cursor = (m.cursor + 1) % len(m.options)
	case "enter", " ", "space":
		opt := m.options[m.cursor]
		m.ctl.SelectCategory(opt.Value)
		m.status = "Range: " + opt.Label
		if m.ctl.DisplayDatePickers() {
			m.status += "  (tab to pick dates)"
		}
	}
}

func (m *Model) handlePickerKey(key string) {
	if !m.ctl.DisplayDatePickers() {
		m.focus = focusChips
		return
	}
	days := 0
	switch strings.ToLower(key) {
	case "left", "h":
		days = -1
	case "right", "l":
		days = 1
	case "up", "k":
		days = -7
	case "down", "j":
		days = 7
	default:
		return
	}
	if m.focus == focusFrom {
		picked := m.ctl.StartDate().AddDate(0, 0, days)
		m.ctl.PickFrom(picked)
		m.status = "From: " + picked.Format(m.dateFormat)
		return
	}
	picked := m.ctl.EndDate().AddDate(0, 0, days)
	m.ctl.PickTo(picked)
	m.status = "To: " + picked.Format(m.dateFormat)
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	if len(m.options) > 0 {
		b.WriteString(m.renderChips())
		b.WriteString("\n\n")
	}
	if m.ctl.DisplayDatePickers() {
		from := m.renderPicker("From", m.ctl.StartDate().Format(m.dateFormat), m.focus == focusFrom)
		to := m.renderPicker("To", m.ctl.EndDate().Format(m.dateFormat), m.focus == focusTo)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, from, " ", to))
		b.WriteString("\n\n")
	}

	b.WriteString(labelStyle.Render("Range:"))
	b.WriteString(" " + m.ctl.StartDateString() + " -> " + m.ctl.EndDateString())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("Changes: %d", m.changes)))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m *Model) renderChips() string {
	chips := make([]string, 0, len(m.options))
	current := m.ctl.DateRangeType()
	for i, opt := range m.options {
		style, label, marker := chipStyle, opt.Label, " "
		if i == m.cursor && m.focus == focusChips {
			style, marker = chipCursorStyle, ">"
		}
		if opt.Value == current {
			style = style.Background(chipActiveBg).Bold(true)
			label = "[" + label + "]"
		}
		chips = append(chips, style.Render(marker+label))
	}
	return strings.Join(chips, " ")
}

func (m *Model) renderPicker(label, value string, focused bool) string {
	style := pickerStyle
	if focused {
		style = pickerFocus
	}
	return style.Render(labelStyle.Render(label) + "\n" + value)
}

func (m *Model) help() string {
	if m.focus == focusChips {
		return "left/right choose  enter apply  tab focus  q quit"
	}
	return "left/right day  up/down week  tab focus  q quit"
}

package view

import (
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/salesboard/internal/transaction"
)

// MonthSelectedMsg is emitted once the user has picked a month.
type MonthSelectedMsg struct {
	Range transaction.MonthRange
}

// monthValues is shared between copies of the picker so the form bindings
// stay valid as the model is passed by value.
type monthValues struct {
	month int
	year  string
}

// MonthPicker is a reusable form for choosing a calendar month.
type MonthPicker struct {
	form *huh.Form
	vals *monthValues
}

// NewMonthPicker creates a picker preselected on the month of now.
func NewMonthPicker(now time.Time) MonthPicker {
	vals := &monthValues{
		month: int(now.Month()),
		year:  strconv.Itoa(now.Year()),
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Key("month").
				Title("Month").
				Options(monthOptions()...).
				Value(&vals.month),

			huh.NewInput().
				Key("year").
				Title("Year").
				CharLimit(4).
				Value(&vals.year).
				Validate(validateYear),
		),
	).WithWidth(30).WithShowHelp(false)

	return MonthPicker{form: form, vals: vals}
}

func monthOptions() []huh.Option[int] {
	opts := make([]huh.Option[int], 12)
	for i := range opts {
		opts[i] = huh.NewOption(time.Month(i+1).String(), i+1)
	}

	return opts
}

func validateYear(s string) error {
	year, err := strconv.Atoi(s)
	if err != nil || year < 1 || year > 9999 {
		return fmt.Errorf("year must be a number between 1 and 9999")
	}

	return nil
}

func (m MonthPicker) Init() tea.Cmd {
	return m.form.Init()
}

// Update forwards msg to the form and emits MonthSelectedMsg when it completes.
func (m MonthPicker) Update(msg tea.Msg) (MonthPicker, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	year, _ := strconv.Atoi(m.vals.year)

	rng, err := transaction.NewMonthRange(year, m.vals.month)
	if err != nil {
		return m, nil
	}

	return m, func() tea.Msg {
		return MonthSelectedMsg{Range: rng}
	}
}

func (m MonthPicker) View() string {
	return "Select Month:\n\n" + m.form.View() + "\n\n(Enter to select, Esc to back)"
}

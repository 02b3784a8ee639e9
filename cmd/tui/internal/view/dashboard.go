package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/salesboard/internal/transaction"
)

type dashboardState int

const (
	dashboardStateMonth dashboardState = iota
	dashboardStateLoading
	dashboardStateReady
)

// DashboardModel shows the statistics, price histogram and category
// breakdown of one month.
type DashboardModel struct {
	CommonModel
	txService *transaction.Service

	state   dashboardState
	picker  MonthPicker
	spinner spinner.Model

	rng  transaction.MonthRange
	data *transaction.Combined
	err  error
}

func NewDashboardModel(txSvc *transaction.Service) DashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle

	return DashboardModel{
		txService: txSvc,
		state:     dashboardStateMonth,
		picker:    NewMonthPicker(time.Now()),
		spinner:   s,
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	if m.state == dashboardStateReady {
		return "Esc: back | m: change month | r: refresh"
	}

	return "Esc: back | Enter: confirm"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.picker.Init()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MonthSelectedMsg:
		m.rng = msg.Range
		return m.load()

	case dashboardLoadedMsg:
		m.state = dashboardStateReady
		m.data, m.err = msg.data, msg.err

		return m, nil
	}

	switch m.state {
	case dashboardStateMonth:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd

	case dashboardStateLoading:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case dashboardStateReady:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				return m, Back
			case "r":
				return m.load()
			case "m":
				m.state = dashboardStateMonth
				m.picker = NewMonthPicker(m.rng.Start)

				return m, m.picker.Init()
			}
		}
	}

	return m, nil
}

func (m DashboardModel) load() (tea.Model, tea.Cmd) {
	m.state = dashboardStateLoading
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.loadCmd(m.rng))
}

func (m DashboardModel) View() string {
	switch m.state {
	case dashboardStateMonth:
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())

	case dashboardStateLoading:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Loading %s...", m.spinner.View(), m.rng),
		)
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return lipgloss.NewStyle().Padding(1).Render(renderDashboard(m.rng, m.data))
}

func renderDashboard(rng transaction.MonthRange, c *transaction.Combined) string {
	stats := fmt.Sprintf(
		"Total sale amount: %s\nSold items:        %d\nNot sold items:    %d",
		accentStyle.Render(FormatPrice(c.Statistics.TotalAmount)),
		c.Statistics.TotalSold,
		c.Statistics.TotalNotSold,
	)

	buckets := make([]Bar, len(c.BarChartData))
	for i, b := range c.BarChartData {
		buckets[i] = Bar{Label: b.Range, Value: b.Count}
	}

	categories := make([]Bar, len(c.PieChartData))
	for i, cat := range c.PieChartData {
		categories[i] = Bar{Label: cat.Category, Value: cat.Count}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("Statistics - "+rng.String()),
		stats,
		"",
		headerStyle.Render("Price Range"),
		RenderBars(buckets, barWidth),
		"",
		headerStyle.Render("Categories"),
		RenderBars(categories, barWidth),
	)
}

type dashboardLoadedMsg struct {
	data *transaction.Combined
	err  error
}

func (m DashboardModel) loadCmd(rng transaction.MonthRange) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		data, err := m.txService.Combined(ctx, rng)

		return dashboardLoadedMsg{data: data, err: err}
	}
}

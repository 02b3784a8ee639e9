package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/salesboard/internal/transaction"
)

type browseState int

const (
	browseStateMonth browseState = iota
	browseStateTable
	browseStateSearch
)

// BrowseModel pages through the transactions of a month with an optional
// search filter.
type BrowseModel struct {
	CommonModel
	txService *transaction.Service

	state   browseState
	picker  MonthPicker
	table   table.Model
	search  textinput.Model
	spinner spinner.Model

	params  transaction.ListParams
	page    *transaction.Page
	loading bool
	err     error
}

func NewBrowseModel(txSvc *transaction.Service) BrowseModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Title", Width: 36},
		{Title: "Category", Width: 20},
		{Title: "Price", Width: 10},
		{Title: "Sold", Width: 6},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(transaction.DefaultPerPage+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	ti := textinput.New()
	ti.Placeholder = "title, description or price"
	ti.CharLimit = 64
	ti.Width = 40
	ti.Prompt = "Search: "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	return BrowseModel{
		txService: txSvc,
		state:     browseStateMonth,
		picker:    NewMonthPicker(time.Now()),
		table:     t,
		search:    ti,
		spinner:   sp,
		params: transaction.ListParams{
			Page:    transaction.DefaultPage,
			PerPage: transaction.DefaultPerPage,
		},
	}
}

func (m BrowseModel) Title() string { return "Browse Transactions" }

func (m BrowseModel) ShortHelp() string {
	switch m.state {
	case browseStateSearch:
		return "Enter: apply | Esc: cancel"
	case browseStateTable:
		return "Esc: back | /: search | n: next page | p: previous page | m: change month"
	}

	return "Esc: back | Enter: confirm"
}

func (m BrowseModel) Init() tea.Cmd {
	return m.picker.Init()
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MonthSelectedMsg:
		m.state = browseStateTable
		m.params.Range = msg.Range
		m.params.Page = transaction.DefaultPage

		return m.load()

	case browseLoadedMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.page = msg.page
			m.refreshTable()
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(min(msg.Height-10, transaction.DefaultPerPage+1))
		return m, nil
	}

	if m.loading {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	switch m.state {
	case browseStateMonth:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd

	case browseStateSearch:
		return m.updateSearch(msg)

	case browseStateTable:
		return m.updateTable(msg)
	}

	return m, nil
}

func (m BrowseModel) updateTable(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "/":
			m.state = browseStateSearch
			m.table.Blur()
			m.search.SetValue(m.params.Search)

			return m, m.search.Focus()
		case "n":
			if m.hasNext() {
				m.params.Page++
				return m.load()
			}

			return m, nil
		case "p":
			if m.params.Page > 1 {
				m.params.Page--
				return m.load()
			}

			return m, nil
		case "m":
			m.state = browseStateMonth
			m.picker = NewMonthPicker(m.params.Range.Start)

			return m, m.picker.Init()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m BrowseModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEnter:
			m.state = browseStateTable
			m.search.Blur()
			m.table.Focus()
			m.params.Search = m.search.Value()
			m.params.Page = transaction.DefaultPage

			return m.load()
		case tea.KeyEsc:
			m.state = browseStateTable
			m.search.Blur()
			m.table.Focus()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	return m, cmd
}

func (m BrowseModel) hasNext() bool {
	return m.page != nil && m.params.Page*m.params.PerPage < m.page.Total
}

func (m BrowseModel) load() (tea.Model, tea.Cmd) {
	m.loading = true
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.loadCmd(m.params))
}

func (m BrowseModel) View() string {
	if m.state == browseStateMonth {
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Loading transactions...", m.spinner.View()),
		)
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	search := m.params.Search
	if search == "" {
		search = "none"
	}

	header := fmt.Sprintf("Month: %s | [/] Search: %s | Page %s",
		accentStyle.Render(m.params.Range.String()),
		accentStyle.Render(search),
		accentStyle.Render(pageLabel(m.params.Page, m.params.PerPage, m.total())),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == browseStateSearch {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", m.search.View())
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m BrowseModel) total() int {
	if m.page == nil {
		return 0
	}

	return m.page.Total
}

// pageLabel renders "page/pages (total)". An empty result still has page 1.
func pageLabel(page, perPage, total int) string {
	pages := max(1, (total+perPage-1)/perPage)
	return fmt.Sprintf("%d/%d (%d)", page, pages, total)
}

func (m *BrowseModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.page.Transactions))
	for _, tx := range m.page.Transactions {
		sold := "no"
		if tx.Sold {
			sold = "yes"
		}

		rows = append(rows, table.Row{
			FormatDate(tx.DateOfSale),
			tx.Title,
			tx.Category,
			FormatPrice(tx.Price),
			sold,
		})
	}

	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

type browseLoadedMsg struct {
	page *transaction.Page
	err  error
}

func (m BrowseModel) loadCmd(params transaction.ListParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		page, err := m.txService.List(ctx, params)

		return browseLoadedMsg{page: page, err: err}
	}
}

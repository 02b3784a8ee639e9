package main

import (
	"io"
	"log"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/salesboard/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/salesboard/internal/config"
	"github.com/MrJamesThe3rd/salesboard/internal/database"
	"github.com/MrJamesThe3rd/salesboard/internal/export"
	"github.com/MrJamesThe3rd/salesboard/internal/transaction"
	txStore "github.com/MrJamesThe3rd/salesboard/internal/transaction/store"
)

type model struct {
	txService     *transaction.Service
	exportService *export.Service

	currentView View

	dashboardView view.DashboardModel
	browseView    view.BrowseModel
	exportView    view.ExportModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewBrowse    View = 2
	ViewExport    View = 3
)

func initialModel(cfg *config.Config) model {
	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	txSvc := transaction.NewService(txStore.New(db))
	expSvc := export.NewService(txSvc)

	return model{
		txService:     txSvc,
		exportService: expSvc,
		currentView:   ViewMenu,
		dashboardView: view.NewDashboardModel(txSvc),
		browseView:    view.NewBrowseModel(txSvc),
		exportView:    view.NewExportModel(expSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.txService)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewBrowse
				m.browseView = view.NewBrowseModel(m.txService)

				return m, m.browseView.Init()
			case "3":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewBrowse:
		var newModel tea.Model
		newModel, cmd = m.browseView.Update(msg)
		m.browseView = newModel.(view.BrowseModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Salesboard\n\n" +
				"1. Dashboard\n" +
				"2. Browse Transactions\n" +
				"3. Export Month\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		current = m.dashboardView
	case ViewBrowse:
		current = m.browseView
	case ViewExport:
		current = m.exportView
	default:
		return "Unknown View"
	}

	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Padding(1, 1, 0).Render(current.Title()),
		current.View(),
		help,
	)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Logs would draw over the screen, so they go to a file or nowhere.
	if cfg.TUI.LogFile != "" {
		f, err := tea.LogToFile(cfg.TUI.LogFile, "tui")
		if err != nil {
			slog.Error("failed to open log file", "error", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	slog.SetLogLoggerLevel(cfg.Level())

	p := tea.NewProgram(initialModel(cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

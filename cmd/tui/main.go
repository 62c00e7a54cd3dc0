package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/comanda/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/comanda/internal/app"
	"github.com/MrJamesThe3rd/comanda/internal/config"
)

type model struct {
	app *app.App

	currentView View

	ticketsView     view.TicketsModel
	revenueView     view.RevenueModel
	maintenanceView view.MaintenanceModel
}

type View int

const (
	ViewMenu        View = 0
	ViewTickets     View = 1
	ViewRevenue     View = 2
	ViewMaintenance View = 3
)

func initialModel(a *app.App) model {
	return model{
		app:             a,
		currentView:     ViewMenu,
		ticketsView:     view.NewTicketsModel(a.Tickets, a.Settlement),
		revenueView:     view.NewRevenueModel(a.Revenue, a.Settlement),
		maintenanceView: view.NewMaintenanceModel(a.Settlement),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewTickets
				m.ticketsView = view.NewTicketsModel(m.app.Tickets, m.app.Settlement)

				return m, m.ticketsView.Init()
			case "2":
				m.currentView = ViewRevenue
				m.revenueView = view.NewRevenueModel(m.app.Revenue, m.app.Settlement)

				return m, m.revenueView.Init()
			case "3":
				m.currentView = ViewMaintenance
				m.maintenanceView = view.NewMaintenanceModel(m.app.Settlement)

				return m, m.maintenanceView.Init()
			}
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewTickets:
		var newModel tea.Model
		newModel, cmd = m.ticketsView.Update(msg)
		m.ticketsView = newModel.(view.TicketsModel)
	case ViewRevenue:
		var newModel tea.Model
		newModel, cmd = m.revenueView.Update(msg)
		m.revenueView = newModel.(view.RevenueModel)
	case ViewMaintenance:
		var newModel tea.Model
		newModel, cmd = m.maintenanceView.Update(msg)
		m.maintenanceView = newModel.(view.MaintenanceModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.app.Config.App.Name + "\n\n" +
				"1. Open Tickets\n" +
				"2. Today's Revenue\n" +
				"3. Delete Test Data\n\n" +
				"q. Quit",
		)
	case ViewTickets:
		return m.ticketsView.View()
	case ViewRevenue:
		return m.revenueView.View()
	case ViewMaintenance:
		return m.maintenanceView.View()
	}

	return "Unknown View"
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to start application", "error", err)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(a))
	_, runErr := p.Run()

	if err := a.Close(); err != nil {
		slog.Error("failed to close resources", "error", err)
	}

	if runErr != nil {
		slog.Error("failed to run TUI", "error", runErr)
		os.Exit(1)
	}
}

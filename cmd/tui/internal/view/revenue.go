package view

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/comanda/internal/errs"
	"github.com/MrJamesThe3rd/comanda/internal/revenue"
	"github.com/MrJamesThe3rd/comanda/internal/settlement"
)

type RevenueModel struct {
	CommonModel
	revenue    *revenue.Service
	settlement *settlement.Service

	day     revenue.Day
	row     *revenue.Row
	loading bool
	err     error
	status  string
}

func NewRevenueModel(revenueSvc *revenue.Service, settlementSvc *settlement.Service) RevenueModel {
	return RevenueModel{
		revenue:    revenueSvc,
		settlement: settlementSvc,
		day:        revenueSvc.Today(),
		loading:    true,
	}
}

func (m RevenueModel) Title() string     { return "Today's Revenue" }
func (m RevenueModel) ShortHelp() string { return "Esc: back | r: refresh | c: recompute from records" }

func (m RevenueModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m RevenueModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadRevenueMsg:
		m.loading = false
		m.row, m.err = msg.row, msg.err
		return m, nil

	case recomputedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Recompute failed: %v", msg.err)
			return m, nil
		}
		m.row = msg.rc.Row
		m.status = fmt.Sprintf("Rebuilt %s from finalization records", msg.rc.Day)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			m.day = m.revenue.Today()
			return m, m.loadCmd()
		case "c":
			m.status = "Recomputing..."
			return m, m.recomputeCmd()
		}
	}

	return m, nil
}

func (m RevenueModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading revenue...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	rev, commissions, count := decimal.Zero, decimal.Zero, int64(0)
	if m.row != nil {
		rev, commissions, count = m.row.Revenue, m.row.Commissions, m.row.TicketCount
	}

	label := lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Width(14)
	body := lipgloss.JoinVertical(lipgloss.Left,
		activeStyle(m.day.String()),
		"",
		label.Render("Revenue")+FormatAmount(rev),
		label.Render("Commissions")+FormatAmount(commissions),
		label.Render("Tickets")+fmt.Sprint(count),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		panelStyle().Width(40).Render(body),
		lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()),
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type loadRevenueMsg struct {
	row *revenue.Row
	err error
}

func (m RevenueModel) loadCmd() tea.Cmd {
	day := m.day

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		row, err := m.revenue.Get(ctx, day)
		if errors.Is(err, errs.ErrNotFound) {
			return loadRevenueMsg{}
		}

		return loadRevenueMsg{row: row, err: err}
	}
}

type recomputedMsg struct {
	rc  *settlement.Recomputed
	err error
}

func (m RevenueModel) recomputeCmd() tea.Cmd {
	day := m.day

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		rc, err := m.settlement.RecomputeDay(ctx, day)
		return recomputedMsg{rc: rc, err: err}
	}
}

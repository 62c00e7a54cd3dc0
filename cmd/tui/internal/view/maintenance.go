package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/comanda/internal/settlement"
	"github.com/MrJamesThe3rd/comanda/internal/ticket"
)

type maintenanceState int

const (
	maintenanceStateForm maintenanceState = iota
	maintenanceStateRunning
	maintenanceStateDone
)

type MaintenanceModel struct {
	CommonModel
	settlement *settlement.Service

	state   maintenanceState
	form    *huh.Form
	fields  *wipeFields
	summary *settlement.Summary
	err     error
}

type wipeFields struct {
	statuses []string
	global   bool
	confirm  bool
}

func NewMaintenanceModel(settlementSvc *settlement.Service) MaintenanceModel {
	fields := &wipeFields{statuses: []string{string(ticket.StatusOpen), string(ticket.StatusFinalized)}}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Tickets to delete").
				Options(
					huh.NewOption("Open", string(ticket.StatusOpen)).Selected(true),
					huh.NewOption("Finalized", string(ticket.StatusFinalized)).Selected(true),
					huh.NewOption("Void", string(ticket.StatusVoid)),
				).
				Validate(func(s []string) error {
					if len(s) == 0 {
						return fmt.Errorf("select at least one status")
					}
					return nil
				}).
				Value(&fields.statuses),

			huh.NewConfirm().
				Title("Wipe every finalization, commission and client history?").
				Description("Leave off to undo only what the selected tickets produced.").
				Value(&fields.global),

			huh.NewConfirm().
				Title("Delete now?").
				Description("This cannot be undone.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&fields.confirm),
		),
	).WithWidth(60).WithShowHelp(false)

	return MaintenanceModel{
		settlement: settlementSvc,
		form:       form,
		fields:     fields,
	}
}

func (m MaintenanceModel) Title() string { return "Maintenance" }
func (m MaintenanceModel) ShortHelp() string {
	if m.state == maintenanceStateForm {
		return "Navigate form | Esc: back"
	}
	return "Esc: back"
}

func (m MaintenanceModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m MaintenanceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reversedMsg:
		m.state = maintenanceStateDone
		m.summary, m.err = msg.summary, msg.err
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc && m.state != maintenanceStateRunning {
			return m, Back
		}
	}

	if m.state != maintenanceStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.fields.confirm {
		return m, Back
	}

	m.state = maintenanceStateRunning

	return m, m.reverseCmd()
}

func (m MaintenanceModel) View() string {
	switch m.state {
	case maintenanceStateRunning:
		return lipgloss.NewStyle().Padding(2).Render("Deleting test data...")
	case maintenanceStateDone:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v\n\nEsc: back", m.err))
		}

		return lipgloss.NewStyle().Padding(1).Render(renderSummary(m.summary) + "\n\nEsc: back")
	}

	return lipgloss.NewStyle().Padding(1).Render(
		panelStyle().Render("Delete Test Data\n\n" + m.form.View()),
	)
}

func renderSummary(sum *settlement.Summary) string {
	var b strings.Builder

	mode := "scoped"
	if sum.Global {
		mode = "global"
	}

	fmt.Fprintf(&b, "%s\n\n", activeStyle("Reversal complete ("+mode+")"))
	fmt.Fprintf(&b, "Tickets deleted:        %d\n", sum.TicketsDeleted)
	fmt.Fprintf(&b, "Finalizations deleted:  %d\n", sum.FinalizationsDeleted)
	fmt.Fprintf(&b, "Commissions deleted:    %d\n", sum.CommissionsDeleted)
	fmt.Fprintf(&b, "Revenue rows deleted:   %d\n", sum.RevenueRowsDeleted)
	fmt.Fprintf(&b, "Revenue rows rebuilt:   %d\n", sum.RevenueRowsRecomputed)
	fmt.Fprintf(&b, "Clients reset:          %d\n", sum.ClientsReset)
	fmt.Fprintf(&b, "Products restocked:     %d (%d units)", sum.ProductsRestocked, sum.UnitsRestocked)

	warn := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	for _, w := range sum.Warnings {
		b.WriteString("\n" + warn.Render("warning: "+w))
	}

	return b.String()
}

// Messages

type reversedMsg struct {
	summary *settlement.Summary
	err     error
}

func (m MaintenanceModel) reverseCmd() tea.Cmd {
	params := settlement.ReverseParams{Global: m.fields.global, Confirm: true}
	for _, s := range m.fields.statuses {
		params.Statuses = append(params.Statuses, ticket.Status(s))
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		sum, err := m.settlement.ReverseTestTickets(ctx, params)
		return reversedMsg{summary: sum, err: err}
	}
}

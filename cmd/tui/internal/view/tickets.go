package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/comanda/internal/settlement"
	"github.com/MrJamesThe3rd/comanda/internal/ticket"
)

type ticketsState int

const (
	ticketsStateBrowse ticketsState = iota
	ticketsStateFinalize
)

var paymentMethods = []string{"pix", "dinheiro", "credito", "debito"}

type TicketsModel struct {
	CommonModel
	tickets    *ticket.Service
	settlement *settlement.Service

	state   ticketsState
	table   table.Model
	open    []*ticket.Ticket
	form    *huh.Form
	loading bool
	err     error
	status  string

	// Form bindings live behind a pointer so they survive model copies.
	fields *finalizeFields
}

type finalizeFields struct {
	payment  string
	discount string
	credit   string
}

func NewTicketsModel(tickets *ticket.Service, settlementSvc *settlement.Service) TicketsModel {
	columns := []table.Column{
		{Title: "Ticket", Width: 10},
		{Title: "Opened", Width: 17},
		{Title: "Client", Width: 10},
		{Title: "Items", Width: 36},
		{Title: "Total", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
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

	return TicketsModel{
		tickets:    tickets,
		settlement: settlementSvc,
		table:      t,
		loading:    true,
	}
}

func (m TicketsModel) Title() string { return "Open Tickets" }
func (m TicketsModel) ShortHelp() string {
	if m.state == ticketsStateFinalize {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | f: finalize | v: void | r: refresh"
}

func (m TicketsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m TicketsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadTicketsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.open = msg.tickets
		m.refreshTable()
		return m, nil

	case finalizedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Finalize failed: %v", msg.err)
		} else {
			r := msg.res.Record
			m.status = fmt.Sprintf("Ticket %s finalized: %s paid by %s, commissions %s",
				ShortID(r.TicketID), FormatAmount(r.FinalAmount), r.PaymentMethod, FormatAmount(r.CommissionTotal))
		}
		return m, m.loadCmd()

	case voidedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Void failed: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Ticket %s voided", ShortID(msg.ticket.ID))
		}
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case ticketsStateBrowse:
		return m.updateBrowse(msg)
	case ticketsStateFinalize:
		return m.updateFinalize(msg)
	}

	return m, nil
}

func (m TicketsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "f":
			return m.enterFinalize()
		case "v":
			return m, m.voidCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m TicketsModel) selected() *ticket.Ticket {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.open) {
		return nil
	}

	return m.open[idx]
}

func (m TicketsModel) enterFinalize() (tea.Model, tea.Cmd) {
	if m.selected() == nil {
		return m, nil
	}

	m.fields = &finalizeFields{payment: paymentMethods[0]}

	validateAmount := func(s string) error {
		_, err := parseAmount(s)
		return err
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("payment").
				Title("Payment method").
				Options(huh.NewOptions(paymentMethods...)...).
				Value(&m.fields.payment),

			huh.NewInput().
				Key("discount").
				Title("Discount (R$)").
				Placeholder("0,00").
				Value(&m.fields.discount).
				Validate(validateAmount),

			huh.NewInput().
				Key("credit").
				Title("Credit applied (R$)").
				Placeholder("0,00").
				Value(&m.fields.credit).
				Validate(validateAmount),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = ticketsStateFinalize
	m.table.Blur()
	return m, m.form.Init()
}

func (m TicketsModel) updateFinalize(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = ticketsStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	finalize := m.finalizeCmd()

	m.state = ticketsStateBrowse
	m.form = nil
	m.status = "Finalizing..."
	m.table.Focus()

	return m, finalize
}

func (m TicketsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading tickets...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("%s open ticket(s) | %s", activeStyle(fmt.Sprint(len(m.open))), m.ShortHelp())

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == ticketsStateFinalize && m.form != nil {
		t := m.selected()
		summary := ""
		if t != nil {
			summary = fmt.Sprintf("Subtotal: %s", FormatAmount(t.Subtotal()))
		}

		panel := panelStyle().Width(48).Render(
			fmt.Sprintf("Finalize Ticket\n\n%s\n\n%s", summary, m.form.View()),
		)

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *TicketsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.open))
	for _, t := range m.open {
		rows = append(rows, table.Row{
			ShortID(t.ID),
			FormatTime(t.OpenedAt),
			ShortID(t.ClientID),
			strings.Join(t.ItemNames(), ", "),
			FormatAmount(t.Subtotal()),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadTicketsMsg struct {
	tickets []*ticket.Ticket
	err     error
}

func (m TicketsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		tickets, err := m.tickets.List(ctx, ticket.StatusOpen)
		return loadTicketsMsg{tickets: tickets, err: err}
	}
}

type finalizedMsg struct {
	res *settlement.Result
	err error
}

func (m TicketsModel) finalizeCmd() tea.Cmd {
	t := m.selected()
	if t == nil || m.fields == nil {
		return nil
	}

	// Both parse: the form validated them.
	discount, _ := parseAmount(m.fields.discount)
	credit, _ := parseAmount(m.fields.credit)

	params := settlement.FinalizeParams{
		TicketID:      t.ID,
		PaymentMethod: m.fields.payment,
		Discount:      discount,
		CreditApplied: credit,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := m.settlement.FinalizeTicket(ctx, params)
		return finalizedMsg{res: res, err: err}
	}
}

type voidedMsg struct {
	ticket *ticket.Ticket
	err    error
}

func (m TicketsModel) voidCmd() tea.Cmd {
	t := m.selected()
	if t == nil {
		return nil
	}

	id := t.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		voided, err := m.tickets.Void(ctx, id)
		return voidedMsg{ticket: voided, err: err}
	}
}

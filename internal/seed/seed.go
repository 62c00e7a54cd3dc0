// Package seed loads demo and test fixtures from TOML and writes them through the repositories.
package seed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/comanda/internal/client"
	"github.com/MrJamesThe3rd/comanda/internal/encoding"
	"github.com/MrJamesThe3rd/comanda/internal/errs"
	"github.com/MrJamesThe3rd/comanda/internal/inventory"
	"github.com/MrJamesThe3rd/comanda/internal/ticket"
)

// File is a fixture document. Entities refer to each other by key.
type File struct {
	Professionals []Professional `toml:"professionals"`
	Clients       []Client       `toml:"clients"`
	Products      []Product      `toml:"products"`
	Tickets       []Ticket       `toml:"tickets"`
}

type Professional struct {
	Key  string `toml:"key"`
	Name string `toml:"name"`
}

type Client struct {
	Key   string `toml:"key"`
	Name  string `toml:"name"`
	Phone string `toml:"phone"`
}

type Product struct {
	Key   string `toml:"key"`
	Name  string `toml:"name"`
	Stock int64  `toml:"stock"`
}

type Ticket struct {
	Client       string        `toml:"client"`
	Professional string        `toml:"professional"`
	Services     []ServiceLine `toml:"services"`
	Products     []ProductLine `toml:"products"`
}

type ServiceLine struct {
	Name     string          `toml:"name"`
	Price    decimal.Decimal `toml:"price"`
	Quantity int             `toml:"quantity"`
}

type ProductLine struct {
	Product  string          `toml:"product"`
	Price    decimal.Decimal `toml:"price"`
	Quantity int             `toml:"quantity"`
	Seller   string          `toml:"seller"`
}

// Decode reads a fixture document. Files saved by spreadsheet tools in a Latin charset are
// converted to UTF-8 first.
func Decode(r io.Reader) (*File, error) {
	utf8Reader, charset, err := encoding.Normalize(r)
	if err != nil {
		return nil, fmt.Errorf("reading fixtures: %w", err)
	}

	if charset != encoding.UTF8 {
		slog.Info("converting fixtures to UTF-8", "charset", charset)
	}

	var f File
	if _, err := toml.NewDecoder(utf8Reader).Decode(&f); err != nil {
		return nil, errs.Validation("decoding fixtures: %v", err)
	}

	return &f, nil
}

func DecodeFile(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening fixtures: %w", err)
	}
	defer file.Close()

	f, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

// Report lists what Apply created.
type Report struct {
	Professionals map[string]uuid.UUID
	Clients       int
	Products      int
	TicketIDs     []uuid.UUID
}

type Seeder struct {
	clients   client.Repository
	inventory inventory.Repository
	tickets   *ticket.Service
}

func New(clients client.Repository, inv inventory.Repository, tickets *ticket.Service) *Seeder {
	return &Seeder{clients: clients, inventory: inv, tickets: tickets}
}

// Apply creates every fixture with fresh ids. Tickets are opened, never finalized.
func (s *Seeder) Apply(ctx context.Context, f *File) (*Report, error) {
	rep := &Report{Professionals: make(map[string]uuid.UUID)}

	for _, p := range f.Professionals {
		rep.Professionals[p.Key] = uuid.New()
	}

	clients := make(map[string]uuid.UUID, len(f.Clients))

	for _, c := range f.Clients {
		cl := &client.Client{
			ID:      uuid.New(),
			Name:    c.Name,
			Phone:   c.Phone,
			History: client.History{LifetimeSpend: decimal.Zero},
		}

		if err := s.clients.Create(ctx, cl); err != nil {
			return rep, fmt.Errorf("seeding client %q: %w", c.Key, err)
		}

		clients[c.Key] = cl.ID
		rep.Clients++
	}

	products := make(map[string]*inventory.Item, len(f.Products))

	for _, p := range f.Products {
		item := &inventory.Item{ProductID: uuid.New(), Name: p.Name, Stock: p.Stock}
		if err := s.inventory.Put(ctx, item); err != nil {
			return rep, fmt.Errorf("seeding product %q: %w", p.Key, err)
		}

		products[p.Key] = item
		rep.Products++
	}

	for i, t := range f.Tickets {
		params, err := t.params(clients, rep.Professionals, products)
		if err != nil {
			return rep, fmt.Errorf("ticket %d: %w", i, err)
		}

		tk, err := s.tickets.Open(ctx, params)
		if err != nil {
			return rep, fmt.Errorf("seeding ticket %d: %w", i, err)
		}

		rep.TicketIDs = append(rep.TicketIDs, tk.ID)
	}

	return rep, nil
}

func (t Ticket) params(clients, pros map[string]uuid.UUID, products map[string]*inventory.Item) (ticket.OpenParams, error) {
	clientID, ok := clients[t.Client]
	if !ok {
		return ticket.OpenParams{}, errs.Validation("unknown client %q", t.Client)
	}

	proID, ok := pros[t.Professional]
	if !ok {
		return ticket.OpenParams{}, errs.Validation("unknown professional %q", t.Professional)
	}

	params := ticket.OpenParams{ClientID: clientID, ProfessionalID: proID}

	for _, l := range t.Services {
		params.Services = append(params.Services, ticket.ServiceLine{Name: l.Name, Price: l.Price, Quantity: quantity(l.Quantity)})
	}

	for _, l := range t.Products {
		item, ok := products[l.Product]
		if !ok {
			return ticket.OpenParams{}, errs.Validation("unknown product %q", l.Product)
		}

		line := ticket.ProductLine{ProductID: item.ProductID, Name: item.Name, Price: l.Price, Quantity: quantity(l.Quantity)}

		if l.Seller != "" {
			seller, ok := pros[l.Seller]
			if !ok {
				return ticket.OpenParams{}, errs.Validation("unknown seller %q", l.Seller)
			}

			line.SellerID = &seller
		}

		params.Products = append(params.Products, line)
	}

	return params, nil
}

func quantity(q int) int {
	if q == 0 {
		return 1
	}

	return q
}

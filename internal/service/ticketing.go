// Package service holds the validation and generation layer that sits
// between the HTTP handlers and the stores.  Every mutating operation
// passes exactly one validation step before it reaches storage.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/iliyamo/stadium-entry/internal/model"
	"github.com/iliyamo/stadium-entry/internal/queue"
	"github.com/iliyamo/stadium-entry/internal/repository"
)

// UserStore is satisfied by repository.UserRepo and repository.MemoryUsers.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	GetByNationalID(ctx context.Context, nationalID string) (*model.User, error)
	ListAll(ctx context.Context) ([]model.User, error)
}

// StadiumStore is satisfied by repository.StadiumRepo and repository.MemoryStadiums.
type StadiumStore interface {
	Create(ctx context.Context, s *model.Stadium) error
	GetByID(ctx context.Context, id uint64) (*model.Stadium, error)
	ListAll(ctx context.Context) ([]model.Stadium, error)
}

// TicketStore is satisfied by repository.TicketRepo and repository.MemoryTickets.
type TicketStore interface {
	Create(ctx context.Context, t *model.Ticket) error
	GetByID(ctx context.Context, id uint64) (*model.Ticket, error)
	FindByUserAndNumber(ctx context.Context, userID uint64, number string) (*model.Ticket, error)
	ListAll(ctx context.Context) ([]model.Ticket, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.UserTicket, error)
}

// EventPublisher delivers ticket events.  *queue.Publisher implements it.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.TicketEvent) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, queue.TicketEvent) error { return nil }

// Ticketing implements user, stadium and ticket operations plus gate
// verification on top of the injected stores.
type Ticketing struct {
	users     UserStore
	stadiums  StadiumStore
	tickets   TicketStore
	events    EventPublisher
	newNumber NumberGenerator
}

// Option customises a Ticketing.
type Option func(*Ticketing)

// WithPublisher sets the event publisher.  Events are dropped by default.
func WithPublisher(p EventPublisher) Option {
	return func(t *Ticketing) {
		if p != nil {
			t.events = p
		}
	}
}

// WithNumberGenerator replaces the random ticket number generator.
func WithNumberGenerator(g NumberGenerator) Option {
	return func(t *Ticketing) {
		if g != nil {
			t.newNumber = g
		}
	}
}

// New constructs a Ticketing and panics if any store is nil.
func New(users UserStore, stadiums StadiumStore, tickets TicketStore, opts ...Option) *Ticketing {
	if users == nil || stadiums == nil || tickets == nil {
		panic("nil store passed to service.New")
	}
	t := &Ticketing{
		users:     users,
		stadiums:  stadiums,
		tickets:   tickets,
		events:    nopPublisher{},
		newNumber: defaultNumberGenerator,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ValidateNewUser fails with ErrDuplicateNationalID when nationalID is taken.
func (s *Ticketing) ValidateNewUser(ctx context.Context, nationalID string) error {
	_, err := s.users.GetByNationalID(ctx, nationalID)
	switch {
	case err == nil:
		return ErrDuplicateNationalID
	case errors.Is(err, repository.ErrUserNotFound):
		return nil
	default:
		return fmt.Errorf("lookup national id: %w", err)
	}
}

// CreateUser registers a user.  The store's unique index backs the
// validation for concurrent duplicates.
func (s *Ticketing) CreateUser(ctx context.Context, name, nationalID string) (*model.User, error) {
	if err := s.ValidateNewUser(ctx, nationalID); err != nil {
		return nil, err
	}
	u := &model.User{Name: name, NationalID: nationalID}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrNationalIDExists) {
			return nil, ErrDuplicateNationalID
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *Ticketing) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.ListAll(ctx)
}

func (s *Ticketing) GetUser(ctx context.Context, id uint64) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetUserWithTickets resolves a user by national id and attaches every
// ticket the user holds, each annotated with its stadium name.
func (s *Ticketing) GetUserWithTickets(ctx context.Context, nationalID string) (*model.UserWithTickets, error) {
	u, err := s.users.GetByNationalID(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	tickets, err := s.tickets.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("list tickets of user %d: %w", u.ID, err)
	}
	return &model.UserWithTickets{User: *u, Tickets: tickets}, nil
}

// CreateStadium stores a stadium.  Capacities are trusted as given.
func (s *Ticketing) CreateStadium(ctx context.Context, name string, numGates, numSeats int) (*model.Stadium, error) {
	st := &model.Stadium{Name: name, NumGates: numGates, NumSeats: numSeats}
	if err := s.stadiums.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("create stadium: %w", err)
	}
	return st, nil
}

func (s *Ticketing) ListStadiums(ctx context.Context) ([]model.Stadium, error) {
	return s.stadiums.ListAll(ctx)
}

func (s *Ticketing) GetStadium(ctx context.Context, id uint64) (*model.Stadium, error) {
	return s.stadiums.GetByID(ctx, id)
}

// TicketInput carries the fields of a ticket to be issued.
type TicketInput struct {
	Number     TicketNumber
	SeatNumber int
	RowNumber  int
	ColNumber  int
	GateNumber int
	UserID     uint64
	StadiumID  uint64
}

// ValidateNewTicket checks, in order, that the stadium exists, that the
// user exists and that gate lies within the stadium's gate range.
func (s *Ticketing) ValidateNewTicket(ctx context.Context, userID, stadiumID uint64, gate int) (*model.Stadium, error) {
	st, err := s.stadiums.GetByID(ctx, stadiumID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if !st.HasGate(gate) {
		return nil, ErrInvalidGateNumber
	}
	return st, nil
}

// CreateTicket validates in, resolves its number and stores the ticket.
// Nothing is persisted when validation fails.
func (s *Ticketing) CreateTicket(ctx context.Context, in TicketInput) (*model.Ticket, error) {
	if _, err := s.ValidateNewTicket(ctx, in.UserID, in.StadiumID, in.GateNumber); err != nil {
		return nil, err
	}
	number, err := in.Number.Resolve(s.newNumber)
	if err != nil {
		return nil, fmt.Errorf("generate ticket number: %w", err)
	}
	t := &model.Ticket{
		Number:     number,
		SeatNumber: in.SeatNumber,
		RowNumber:  in.RowNumber,
		ColNumber:  in.ColNumber,
		GateNumber: in.GateNumber,
		UserID:     in.UserID,
		StadiumID:  in.StadiumID,
	}
	if err := s.tickets.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	ev := ticketEvent(queue.TicketIssued, t)
	s.publish(ctx, ev)
	return t, nil
}

func (s *Ticketing) ListTickets(ctx context.Context) ([]model.Ticket, error) {
	return s.tickets.ListAll(ctx)
}

func (s *Ticketing) GetTicket(ctx context.Context, id uint64) (*model.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

// Verify confirms that number is a ticket held by the user identified by
// nationalID.  An unknown user yields ErrUserNotFound; a number the user
// does not hold yields ErrInvalidTicket, even when another user holds it.
func (s *Ticketing) Verify(ctx context.Context, nationalID, number string) (*model.VerifyResult, error) {
	u, err := s.users.GetByNationalID(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	t, err := s.tickets.FindByUserAndNumber(ctx, u.ID, number)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return nil, ErrInvalidTicket
		}
		return nil, fmt.Errorf("lookup ticket: %w", err)
	}
	st, err := s.stadiums.GetByID(ctx, t.StadiumID)
	if err != nil {
		return nil, fmt.Errorf("lookup stadium %d: %w", t.StadiumID, err)
	}

	return &model.VerifyResult{
		Status: model.VerifyStatusSuccess,
		User:   model.VerifiedHolder{Name: u.Name, NationalID: u.NationalID},
		Ticket: t.Detail(st.Name),
	}, nil
}

func ticketEvent(typ string, t *model.Ticket) queue.TicketEvent {
	ev := queue.NewTicketEvent(typ)
	ev.TicketID = t.ID
	ev.TicketNumber = t.Number
	ev.UserID = t.UserID
	ev.StadiumID = t.StadiumID
	ev.GateNumber = t.GateNumber
	ev.SeatNumber = t.SeatNumber
	ev.RowNumber = t.RowNumber
	ev.ColNumber = t.ColNumber
	return ev
}

// publish never fails the request; the event is best effort.
func (s *Ticketing) publish(ctx context.Context, ev queue.TicketEvent) {
	if err := s.events.Publish(ctx, ev); err != nil {
		log.Printf("ticketing: publish %s for ticket %d failed: %v", ev.Type, ev.TicketID, err)
	}
}

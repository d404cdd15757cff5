package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/iliyamo/stadium-entry/internal/model"
)

// Memory is a process-local store holding users, stadiums and tickets.
// Records are never deleted, so a record with id N lives at index N-1.
// A single lock covers all three tables; uniqueness checks and inserts
// happen under it so racing duplicate users cannot both succeed.
type Memory struct {
	mu           sync.RWMutex
	users        []model.User
	stadiums     []model.Stadium
	tickets      []model.Ticket
	byNationalID map[string]uint64
}

func NewMemory() *Memory {
	return &Memory{byNationalID: map[string]uint64{}}
}

// Users returns the users table view of m.
func (m *Memory) Users() *MemoryUsers { return &MemoryUsers{m: m} }

// Stadiums returns the stadiums table view of m.
func (m *Memory) Stadiums() *MemoryStadiums { return &MemoryStadiums{m: m} }

// Tickets returns the tickets table view of m.
func (m *Memory) Tickets() *MemoryTickets { return &MemoryTickets{m: m} }

func (m *Memory) user(id uint64) (model.User, bool) {
	if id == 0 || id > uint64(len(m.users)) {
		return model.User{}, false
	}
	return m.users[id-1], true
}

func (m *Memory) stadium(id uint64) (model.Stadium, bool) {
	if id == 0 || id > uint64(len(m.stadiums)) {
		return model.Stadium{}, false
	}
	return m.stadiums[id-1], true
}

// MemoryUsers mirrors UserRepo on top of Memory.
type MemoryUsers struct{ m *Memory }

func (r *MemoryUsers) Create(_ context.Context, u *model.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u.NationalID = strings.TrimSpace(u.NationalID)
	if _, taken := r.m.byNationalID[u.NationalID]; taken {
		return ErrNationalIDExists
	}
	u.ID = uint64(len(r.m.users) + 1)
	r.m.users = append(r.m.users, *u)
	r.m.byNationalID[u.NationalID] = u.ID
	return nil
}

func (r *MemoryUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	u, ok := r.m.user(id)
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (r *MemoryUsers) GetByNationalID(_ context.Context, nationalID string) (*model.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	id, ok := r.m.byNationalID[strings.TrimSpace(nationalID)]
	if !ok {
		return nil, ErrUserNotFound
	}
	u, _ := r.m.user(id)
	return &u, nil
}

func (r *MemoryUsers) ListAll(context.Context) ([]model.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return append([]model.User{}, r.m.users...), nil
}

// MemoryStadiums mirrors StadiumRepo on top of Memory.
type MemoryStadiums struct{ m *Memory }

func (r *MemoryStadiums) Create(_ context.Context, s *model.Stadium) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s.ID = uint64(len(r.m.stadiums) + 1)
	r.m.stadiums = append(r.m.stadiums, *s)
	return nil
}

func (r *MemoryStadiums) GetByID(_ context.Context, id uint64) (*model.Stadium, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	s, ok := r.m.stadium(id)
	if !ok {
		return nil, ErrStadiumNotFound
	}
	return &s, nil
}

func (r *MemoryStadiums) ListAll(context.Context) ([]model.Stadium, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return append([]model.Stadium{}, r.m.stadiums...), nil
}

// MemoryTickets mirrors TicketRepo on top of Memory.
type MemoryTickets struct{ m *Memory }

// Create enforces the same foreign keys the SQL schema declares.
func (r *MemoryTickets) Create(_ context.Context, t *model.Ticket) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.user(t.UserID); !ok {
		return ErrUserNotFound
	}
	if _, ok := r.m.stadium(t.StadiumID); !ok {
		return ErrStadiumNotFound
	}
	t.ID = uint64(len(r.m.tickets) + 1)
	r.m.tickets = append(r.m.tickets, *t)
	return nil
}

func (r *MemoryTickets) GetByID(_ context.Context, id uint64) (*model.Ticket, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if id == 0 || id > uint64(len(r.m.tickets)) {
		return nil, ErrTicketNotFound
	}
	t := r.m.tickets[id-1]
	return &t, nil
}

func (r *MemoryTickets) FindByUserAndNumber(_ context.Context, userID uint64, number string) (*model.Ticket, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	for _, t := range r.m.tickets {
		if t.UserID == userID && t.Number == number {
			return &t, nil
		}
	}
	return nil, ErrTicketNotFound
}

func (r *MemoryTickets) ListAll(context.Context) ([]model.Ticket, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return append([]model.Ticket{}, r.m.tickets...), nil
}

func (r *MemoryTickets) ListByUser(_ context.Context, userID uint64) ([]model.UserTicket, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := []model.UserTicket{}
	for _, t := range r.m.tickets {
		if t.UserID != userID {
			continue
		}
		s, _ := r.m.stadium(t.StadiumID)
		out = append(out, t.Detail(s.Name))
	}
	return out, nil
}

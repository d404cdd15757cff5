package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/stadium-entry/internal/model"
	"github.com/iliyamo/stadium-entry/internal/queue"
	"github.com/iliyamo/stadium-entry/internal/repository"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.TicketEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.TicketEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func newTestService(t *testing.T, opts ...Option) *Ticketing {
	t.Helper()
	m := repository.NewMemory()
	return New(m.Users(), m.Stadiums(), m.Tickets(), opts...)
}

// seed creates Stadium("Main", 4 gates, 100 seats) and User("Alice", "N1").
func seed(t *testing.T, s *Ticketing) (*model.Stadium, *model.User) {
	t.Helper()
	ctx := context.Background()
	st, err := s.CreateStadium(ctx, "Main", 4, 100)
	require.NoError(t, err)
	u, err := s.CreateUser(ctx, "Alice", "N1")
	require.NoError(t, err)
	return st, u
}

func TestCreateUserThenLookupByNationalID(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "Alice", "N1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), u.ID)

	got, err := s.GetUserWithTickets(ctx, "N1")
	require.NoError(t, err)
	assert.Equal(t, *u, got.User)
	assert.Empty(t, got.Tickets)
}

func TestCreateUserDuplicateNationalID(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, "Alice", "N1")
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, "Bob", "N1")
	assert.ErrorIs(t, err, ErrDuplicateNationalID)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, "Alice", users[0].Name)
}

func TestCreateUserConcurrentDuplicates(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	const racers = 16
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.CreateUser(ctx, "racer", "SAME")
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrDuplicateNationalID)
	}
	assert.Equal(t, 1, ok)
}

func TestGetUser(t *testing.T) {
	s := newTestService(t)
	_, u := seed(t, s)

	got, err := s.GetUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = s.GetUser(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = s.GetUserWithTickets(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestValidateNewTicket(t *testing.T) {
	s := newTestService(t)
	st, u := seed(t, s)
	ctx := context.Background()

	tests := []struct {
		name      string
		userID    uint64
		stadiumID uint64
		gate      int
		want      error
	}{
		{"first gate", u.ID, st.ID, 1, nil},
		{"last gate", u.ID, st.ID, 4, nil},
		{"gate zero", u.ID, st.ID, 0, ErrInvalidGateNumber},
		{"gate negative", u.ID, st.ID, -1, ErrInvalidGateNumber},
		{"gate above range", u.ID, st.ID, 5, ErrInvalidGateNumber},
		{"missing stadium", u.ID, 42, 1, ErrStadiumNotFound},
		{"missing user", 42, st.ID, 1, ErrUserNotFound},
		// Stadium is checked before the user.
		{"both missing", 42, 42, 1, ErrStadiumNotFound},
		{"missing user with bad gate", 42, st.ID, 9, ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ValidateNewTicket(ctx, tt.userID, tt.stadiumID, tt.gate)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateTicketRejectsOutOfRangeGateWithoutPersisting(t *testing.T) {
	s := newTestService(t)
	st, u := seed(t, s)
	ctx := context.Background()

	for _, gate := range []int{0, 5, 100} {
		_, err := s.CreateTicket(ctx, TicketInput{
			SeatNumber: 5, RowNumber: 2, ColNumber: 3, GateNumber: gate,
			UserID: u.ID, StadiumID: st.ID,
		})
		assert.ErrorIs(t, err, ErrInvalidGateNumber, "gate %d", gate)
	}

	tickets, err := s.ListTickets(ctx)
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestCreateTicketNumber(t *testing.T) {
	s := newTestService(t)
	st, u := seed(t, s)
	ctx := context.Background()

	generated, err := s.CreateTicket(ctx, TicketInput{
		Number: GenerateNumber(), SeatNumber: 5, RowNumber: 2, ColNumber: 3, GateNumber: 2,
		UserID: u.ID, StadiumID: st.ID,
	})
	require.NoError(t, err)
	assert.Regexp(t, ticketNumberPattern, generated.Number)

	provided, err := s.CreateTicket(ctx, TicketInput{
		Number: ProvidedNumber("my ticket #7"), SeatNumber: 6, RowNumber: 2, ColNumber: 4, GateNumber: 3,
		UserID: u.ID, StadiumID: st.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "my ticket #7", provided.Number)

	stored, err := s.GetTicket(ctx, provided.ID)
	require.NoError(t, err)
	assert.Equal(t, provided, stored)
}

func TestCreateTicketGeneratorFailure(t *testing.T) {
	boom := errors.New("no entropy")
	s := newTestService(t, WithNumberGenerator(func() (string, error) { return "", boom }))
	st, u := seed(t, s)

	_, err := s.CreateTicket(context.Background(), TicketInput{
		SeatNumber: 1, RowNumber: 1, ColNumber: 1, GateNumber: 1, UserID: u.ID, StadiumID: st.ID,
	})
	assert.ErrorIs(t, err, boom)
}

func TestVerify(t *testing.T) {
	pub := &recordingPublisher{}
	s := newTestService(t, WithPublisher(pub))
	st, u := seed(t, s)
	ctx := context.Background()

	tk, err := s.CreateTicket(ctx, TicketInput{
		SeatNumber: 5, RowNumber: 2, ColNumber: 3, GateNumber: 2, UserID: u.ID, StadiumID: st.ID,
	})
	require.NoError(t, err)

	res, err := s.Verify(ctx, "N1", tk.Number)
	require.NoError(t, err)
	assert.Equal(t, &model.VerifyResult{
		Status: "success",
		User:   model.VerifiedHolder{Name: "Alice", NationalID: "N1"},
		Ticket: model.UserTicket{
			Number: tk.Number, SeatNumber: 5, RowNumber: 2, ColNumber: 3, GateNumber: 2, Stadium: "Main",
		},
	}, res)

	again, err := s.Verify(ctx, "N1", tk.Number)
	require.NoError(t, err)
	assert.Equal(t, res, again, "verify is idempotent")

	// Only the issue is published; gate checks leave no trace.
	require.Len(t, pub.events, 1)
	assert.Equal(t, queue.TicketIssued, pub.events[0].Type)
	assert.Equal(t, tk.Number, pub.events[0].TicketNumber)
}

func TestVerifyFailures(t *testing.T) {
	s := newTestService(t)
	st, alice := seed(t, s)
	ctx := context.Background()

	bob, err := s.CreateUser(ctx, "Bob", "N2")
	require.NoError(t, err)
	_, err = s.CreateTicket(ctx, TicketInput{
		Number: ProvidedNumber("BOBTICKT"), SeatNumber: 1, RowNumber: 1, ColNumber: 1, GateNumber: 1,
		UserID: bob.ID, StadiumID: st.ID,
	})
	require.NoError(t, err)

	tests := []struct {
		name       string
		nationalID string
		number     string
		want       error
	}{
		{"unknown user", "N9", "BOBTICKT", ErrUserNotFound},
		{"unknown user empty number", "N9", "", ErrUserNotFound},
		{"no such ticket", alice.NationalID, "NOPE0000", ErrInvalidTicket},
		{"ticket held by another user", alice.NationalID, "BOBTICKT", ErrInvalidTicket},
		{"case matters", bob.NationalID, "bobtickt", ErrInvalidTicket},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Verify(ctx, tt.nationalID, tt.number)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	res, err := s.Verify(ctx, bob.NationalID, "BOBTICKT")
	require.NoError(t, err)
	assert.Equal(t, "Bob", res.User.Name)
}

// Ticket numbers are not unique: the same code may be issued to two users
// and each of them verifies against their own ticket only.
func TestDuplicateTicketNumbersAcrossUsers(t *testing.T) {
	s := newTestService(t, WithNumberGenerator(func() (string, error) { return "SAMECODE", nil }))
	st, alice := seed(t, s)
	ctx := context.Background()
	bob, err := s.CreateUser(ctx, "Bob", "N2")
	require.NoError(t, err)

	for _, u := range []*model.User{alice, bob} {
		tk, err := s.CreateTicket(ctx, TicketInput{
			SeatNumber: 1, RowNumber: 1, ColNumber: int(u.ID), GateNumber: 1, UserID: u.ID, StadiumID: st.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "SAMECODE", tk.Number)
	}

	res, err := s.Verify(ctx, "N2", "SAMECODE")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Ticket.ColNumber)
}

func TestGetUserWithTickets(t *testing.T) {
	s := newTestService(t)
	home, u := seed(t, s)
	ctx := context.Background()
	annex, err := s.CreateStadium(ctx, "Annex", 2, 50)
	require.NoError(t, err)

	for _, in := range []TicketInput{
		{Number: ProvidedNumber("A1"), SeatNumber: 1, RowNumber: 1, ColNumber: 1, GateNumber: 4, UserID: u.ID, StadiumID: home.ID},
		{Number: ProvidedNumber("B2"), SeatNumber: 2, RowNumber: 1, ColNumber: 2, GateNumber: 2, UserID: u.ID, StadiumID: annex.ID},
	} {
		_, err := s.CreateTicket(ctx, in)
		require.NoError(t, err)
	}

	got, err := s.GetUserWithTickets(ctx, "N1")
	require.NoError(t, err)
	require.Len(t, got.Tickets, 2)
	assert.Equal(t, model.UserTicket{Number: "A1", SeatNumber: 1, RowNumber: 1, ColNumber: 1, GateNumber: 4, Stadium: "Main"}, got.Tickets[0])
	assert.Equal(t, "Annex", got.Tickets[1].Stadium)
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	s := newTestService(t, WithPublisher(pub))
	st, u := seed(t, s)

	_, err := s.CreateTicket(context.Background(), TicketInput{
		SeatNumber: 1, RowNumber: 1, ColNumber: 1, GateNumber: 1, UserID: u.ID, StadiumID: st.ID,
	})
	require.NoError(t, err)
	assert.Len(t, pub.events, 1)
}

func TestStadiums(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	st, err := s.CreateStadium(ctx, "Main", 4, 100)
	require.NoError(t, err)
	assert.Equal(t, model.Stadium{ID: 1, Name: "Main", NumGates: 4, NumSeats: 100}, *st)

	got, err := s.GetStadium(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, st, got)

	_, err = s.GetStadium(ctx, 2)
	assert.ErrorIs(t, err, ErrStadiumNotFound)

	all, err := s.ListStadiums(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// Package queue defines message payloads exchanged over the message broker
// and the publisher and consumer that move them.
package queue

import (
    "time"

    "github.com/google/uuid"
)

// TicketEventsQueue is the durable queue carrying every TicketEvent.
const TicketEventsQueue = "ticket.events"

// TicketIssued is the type of the event published for every new ticket.
// Gate checks publish nothing.
const TicketIssued = "ticket.issued"

// TicketEvent carries enough detail for downstream consumers to log or
// notify without querying the primary database.
type TicketEvent struct {
    EventID      string `json:"event_id"`
    Type         string `json:"type"`
    TicketID     uint64 `json:"ticket_id"`
    TicketNumber string `json:"ticket_number"`
    UserID       uint64 `json:"user_id"`
    StadiumID    uint64 `json:"stadium_id"`
    GateNumber   int    `json:"gate_number"`
    SeatNumber   int    `json:"seat_number"`
    RowNumber    int    `json:"row_number"`
    ColNumber    int    `json:"col_number"`
    OccurredAt   string `json:"occurred_at"`
}

// NewTicketEvent stamps an event of the given type with a fresh id and
// the current UTC time.
func NewTicketEvent(typ string) TicketEvent {
    return TicketEvent{
        EventID:    uuid.NewString(),
        Type:       typ,
        OccurredAt: time.Now().UTC().Format(time.RFC3339),
    }
}

package model

// Ticket models a row in the `tickets` table.  A ticket binds a user to
// a seat and an entry gate of one stadium.  Tickets are created once and
// never updated.  Number is not unique across tickets.
//
// Fields:
//  ID         – primary key identifier.
//  Number     – code printed on the ticket, supplied or generated.
//  SeatNumber – seat within the stadium.
//  RowNumber  – seating row.
//  ColNumber  – seating column.
//  GateNumber – entry gate, within [1, stadium.NumGates] at creation.
//  UserID     – owner (users.id).
//  StadiumID  – venue (stadiums.id).
type Ticket struct {
    ID         uint64 `json:"id"`          // tickets.id
    Number     string `json:"number"`      // tickets.number
    SeatNumber int    `json:"seat_number"` // tickets.seat_number
    RowNumber  int    `json:"row_number"`  // tickets.row_number
    ColNumber  int    `json:"col_number"`  // tickets.col_number
    GateNumber int    `json:"gate_number"` // tickets.gate_number
    UserID     uint64 `json:"user_id"`     // tickets.user_id
    StadiumID  uint64 `json:"stadium_id"`  // tickets.stadium_id
}

// UserTicket is a ticket as presented to its holder: placement details
// plus the stadium name instead of the raw foreign keys.
type UserTicket struct {
    Number     string `json:"number"`
    SeatNumber int    `json:"seat_number"`
    RowNumber  int    `json:"row_number"`
    ColNumber  int    `json:"col_number"`
    GateNumber int    `json:"gate_number"`
    Stadium    string `json:"stadium"`
}

// Detail projects t into a UserTicket for the given stadium name.
func (t Ticket) Detail(stadium string) UserTicket {
    return UserTicket{
        Number:     t.Number,
        SeatNumber: t.SeatNumber,
        RowNumber:  t.RowNumber,
        ColNumber:  t.ColNumber,
        GateNumber: t.GateNumber,
        Stadium:    stadium,
    }
}

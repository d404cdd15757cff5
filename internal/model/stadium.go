package model

// Stadium represents a venue in the `stadiums` table.  NumGates
// declares the valid gate range [1, NumGates] for tickets issued
// against the stadium.  NumSeats is informational only.
//
// Fields:
//  ID       – primary key identifier.
//  Name     – stadium name.
//  NumGates – number of entry gates.
//  NumSeats – declared seat capacity.
type Stadium struct {
    ID       uint64 `json:"id"`        // stadiums.id
    Name     string `json:"name"`      // stadiums.name
    NumGates int    `json:"num_gates"` // stadiums.num_gates
    NumSeats int    `json:"num_seats"` // stadiums.num_seats
}

// HasGate reports whether gate lies within the declared gate range.
func (s Stadium) HasGate(gate int) bool {
    return gate >= 1 && gate <= s.NumGates
}

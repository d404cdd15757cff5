package model

// User represents a ticket holder as stored in the `users` table.
// NationalID is the external identifier presented at the gate and is
// unique across all users.
//
// Fields:
//  ID         – primary key identifier, assigned by the store.
//  Name       – display name.
//  NationalID – unique national identifier.
type User struct {
    ID         uint64 `json:"id"`          // users.id
    Name       string `json:"name"`        // users.name
    NationalID string `json:"national_id"` // users.national_id
}

// UserWithTickets is the response shape of the lookup by national id.
// Each ticket carries the name of the stadium it was issued for.
type UserWithTickets struct {
    User
    Tickets []UserTicket `json:"tickets"`
}

package model

// VerifyStatusSuccess is the status reported for an accepted ticket.
const VerifyStatusSuccess = "success"

// VerifiedHolder is the subset of the user shown at the gate.
type VerifiedHolder struct {
    Name       string `json:"name"`
    NationalID string `json:"national_id"`
}

// VerifyResult is returned when a presented ticket number belongs to the
// user identified by the national id.
type VerifyResult struct {
    Status string         `json:"status"`
    User   VerifiedHolder `json:"user"`
    Ticket UserTicket     `json:"ticket"`
}

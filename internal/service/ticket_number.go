package service

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// TicketNumberLength is the length of generated ticket numbers.
const TicketNumberLength = 8

const ticketAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// TicketNumber is either a number supplied by the caller or a request to
// generate one.  The zero value means generate.
type TicketNumber struct {
	value    string
	provided bool
}

// ProvidedNumber wraps a caller-supplied ticket number.  It is stored verbatim.
func ProvidedNumber(s string) TicketNumber { return TicketNumber{value: s, provided: true} }

// GenerateNumber asks for a generated ticket number.
func GenerateNumber() TicketNumber { return TicketNumber{} }

// NumberFromRequest maps an optional request field to a TicketNumber.
// A missing or blank value means generate.
func NumberFromRequest(s *string) TicketNumber {
	if s == nil || strings.TrimSpace(*s) == "" {
		return GenerateNumber()
	}
	return ProvidedNumber(*s)
}

// Provided reports whether the caller supplied the number.
func (n TicketNumber) Provided() bool { return n.provided }

// Resolve returns the supplied number or calls gen to produce one.
func (n TicketNumber) Resolve(gen NumberGenerator) (string, error) {
	if n.provided {
		return n.value, nil
	}
	return gen()
}

// NumberGenerator produces a new ticket number.
type NumberGenerator func() (string, error)

// GenerateTicketNumber returns a code of length n drawn uniformly from
// A-Z and 0-9.  Uniqueness is not checked.
func GenerateTicketNumber(n int) (string, error) {
	max := big.NewInt(int64(len(ticketAlphabet)))
	buf := make([]byte, n)
	for i := range buf {
		k, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = ticketAlphabet[k.Int64()]
	}
	return string(buf), nil
}

func defaultNumberGenerator() (string, error) {
	return GenerateTicketNumber(TicketNumberLength)
}

// Package rooms names the logical multicast groups that websocket connections join.
package rooms

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// AdminTicketFeed is the shared topic every admin connection listens on.
const AdminTicketFeed = "tickets:admin"

var ErrInvalidPairKey = errors.New("invalid pair key")

// User is the personal room of a user; every device of the user joins it.
func User(userID int) string {
	return "user:" + strconv.Itoa(userID)
}

// Ticket is the room of everyone viewing a ticket's detail.
func Ticket(ticketID int) string {
	return "ticket:" + strconv.Itoa(ticketID)
}

// Chat is the presence room of a two-party conversation.
func Chat(pairKey string) string {
	return "chat:" + pairKey
}

// CanonicalPair orders two user ids so that (a, b) and (b, a) agree.
func CanonicalPair(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

// PairKey is the order-independent key of two users.
func PairKey(a, b int) string {
	lo, hi := CanonicalPair(a, b)
	return fmt.Sprintf("%d_%d", lo, hi)
}

// ParsePairKey returns the two ids encoded in a canonical pair key.
func ParsePairKey(key string) (int, int, error) {
	left, right, ok := strings.Cut(key, "_")
	if !ok {
		return 0, 0, ErrInvalidPairKey
	}
	lo, err := strconv.Atoi(left)
	if err != nil {
		return 0, 0, ErrInvalidPairKey
	}
	hi, err := strconv.Atoi(right)
	if err != nil {
		return 0, 0, ErrInvalidPairKey
	}
	if lo >= hi {
		return 0, 0, ErrInvalidPairKey
	}
	return lo, hi, nil
}

package models

import "time"

// InterestStatus is the lifecycle state of an interest.
type InterestStatus string

const (
	InterestPending  InterestStatus = "pending"
	InterestAccepted InterestStatus = "accepted"
	InterestDeclined InterestStatus = "declined"
)

// Terminal reports whether no further transitions are defined from s.
func (s InterestStatus) Terminal() bool {
	return s == InterestAccepted || s == InterestDeclined
}

// Interest is a directed expression of interest from one user to another.
type Interest struct {
	ID         int            `db:"id" json:"id"`
	FromUserID int            `db:"from_user_id" json:"from_user_id"`
	ToUserID   int            `db:"to_user_id" json:"to_user_id"`
	Status     InterestStatus `db:"status" json:"status"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// IsParticipant reports whether userID sent or received the interest.
func (i Interest) IsParticipant(userID int) bool {
	return i.FromUserID == userID || i.ToUserID == userID
}

// InterestList groups a user's interests by direction.
type InterestList struct {
	Received []Interest `json:"received"`
	Sent     []Interest `json:"sent"`
}

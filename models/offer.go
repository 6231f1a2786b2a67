package models

import "time"

// ContractOffer is a pending offer. A row exists only between delivery
// confirmation and resolution: accepting converts it into a membership,
// declining deletes it, and expired rows are swept in the background.
type ContractOffer struct {
	ID        int       `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	Salary    string    `json:"salary" db:"salary"`
	Duration  string    `json:"duration" db:"duration"`
	Position  *string   `json:"position,omitempty" db:"position"`
	MessageID string    `json:"message_id" db:"message_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Team *Team `json:"team,omitempty" db:"-"`
}

package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusCancelled MatchStatus = "cancelled"
)

// Match stores kickoff as a single absolute instant in UTC. The calendar
// date and time-of-day the adapter shows are derived from it, never stored
// separately.
type Match struct {
	ID           int         `json:"id" db:"id"`
	HomeTeamID   int         `json:"home_team_id" db:"home_team_id"`
	AwayTeamID   int         `json:"away_team_id" db:"away_team_id"`
	Venue        string      `json:"venue" db:"venue"`
	KickoffAt    time.Time   `json:"kickoff_at" db:"kickoff_at"`
	Status       MatchStatus `json:"status" db:"status"`
	CancelReason *string     `json:"cancel_reason,omitempty" db:"cancel_reason"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`

	HomeTeam *Team `json:"home_team,omitempty" db:"-"`
	AwayTeam *Team `json:"away_team,omitempty" db:"-"`
}

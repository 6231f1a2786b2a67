package models

import "time"

type MembershipRole string

const (
	MembershipRoleManager MembershipRole = "manager"
	MembershipRolePlayer  MembershipRole = "player"
)

type Membership struct {
	ID        int            `json:"id" db:"id"`
	PlayerID  int            `json:"player_id" db:"player_id"`
	TeamID    int            `json:"team_id" db:"team_id"`
	Role      MembershipRole `json:"role" db:"role"`
	Salary    *string        `json:"salary,omitempty" db:"salary"`
	Duration  *string        `json:"duration,omitempty" db:"duration"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`

	Player *Player `json:"player,omitempty" db:"-"`
}

package models

import "time"

// Player is created lazily the first time a platform user is referenced
// (contract offer, result line). UserID is the platform user identifier.
type Player struct {
	ID        int       `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Goals     int       `json:"goals" db:"goals"`
	Assists   int       `json:"assists" db:"assists"`
	Mentions  int       `json:"mentions" db:"mentions"`
	MOTM      int       `json:"motm" db:"motm"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

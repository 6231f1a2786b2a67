package models

import "time"

type Team struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	ShortName string    `json:"short_name" db:"short_name"`
	RoleID    string    `json:"role_id" db:"role_id"`
	ManagerID *string   `json:"manager_id,omitempty" db:"manager_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Manager     *Player      `json:"manager,omitempty" db:"-"`
	Memberships []Membership `json:"memberships,omitempty" db:"-"`

	CrestKey *string `json:"-" db:"crest_key"`
	CrestURL *string `json:"crest_url,omitempty" db:"-"`
}

package models

import "time"

type Team struct {
	ID         int    `json:"id" db:"id"`
	EventID    int    `json:"event_id" db:"event_id"`
	Name       string `json:"name" db:"name"`
	Color      string `json:"color" db:"color"`
	OrderIndex int    `json:"order_index" db:"order_index"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Members []Participant `json:"members,omitempty" db:"-"`
}

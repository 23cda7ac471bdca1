package models

// Participant is owned by the events subsystem; this service only reads
// it to drive balanced team assignment.
type Participant struct {
	ID         int     `json:"id" db:"id"`
	EventID    int     `json:"event_id" db:"event_id"`
	Name       string  `json:"name" db:"name"`
	SkillLevel *int    `json:"skill_level,omitempty" db:"skill_level"`
	Gender     *string `json:"gender,omitempty" db:"gender"`
	CheckedIn  bool    `json:"checked_in" db:"checked_in"`
}

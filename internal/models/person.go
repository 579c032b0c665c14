package models

import (
	"time"
)

// Person is one human on the platform. Mentor and tutor are roles a person
// holds, not subtypes; one person may hold both at once, which is why
// conflict checks span both subsystems.
type Person struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Mentor is the mentoring role of a person
type Mentor struct {
	ID        int64     `json:"id"`
	PersonID  int64     `json:"personId"`
	Expertise string    `json:"expertise"`
	Bio       string    `json:"bio"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// Tutor is the tutoring role of a person
type Tutor struct {
	ID        int64     `json:"id"`
	PersonID  int64     `json:"personId"`
	Subjects  string    `json:"subjects"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

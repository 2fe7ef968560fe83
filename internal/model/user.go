package model

import "time"

// Instruments a user can declare at sign-up. The practice-session instrument
// must come from the user's declared subset.
var Instruments = []string{
	"Oboe", "Flute", "Clarinet", "Saxophone", "Trumpet", "Trombone",
	"French Horn", "Violin", "Viola", "Cello", "Bass", "Piano",
}

func IsValidInstrument(name string) bool {
	for _, inst := range Instruments {
		if inst == name {
			return true
		}
	}
	return false
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Instruments  []string  `json:"instruments"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) HasInstrument(name string) bool {
	for _, inst := range u.Instruments {
		if inst == name {
			return true
		}
	}
	return false
}

// DailyPractice holds the per-user daily counters: index 0 is today, index 6
// is six days ago. Only today's counter is ever incremented; there is no
// rollover job shifting values at day boundaries.
type DailyPractice [7]int

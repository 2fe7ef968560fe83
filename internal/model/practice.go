package model

import "time"

// Subsession categories. A draft card cannot finalize without one.
var Categories = []string{"Warm Ups", "Band Music", "Orchestra Music", "Scales"}

func IsValidCategory(name string) bool {
	for _, cat := range Categories {
		if cat == name {
			return true
		}
	}
	return false
}

// DateLayout is the calendar-day key for sessions and trend buckets.
const DateLayout = "2006-01-02"

type PracticeSession struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Date         string    `json:"date"`
	Instrument   string    `json:"instrument"`
	TotalMinutes int       `json:"totalMinutes"`
	CreatedAt    time.Time `json:"createdAt"`
}

type PracticeSubsession struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId"`
	Category  string `json:"category"`
	Minutes   int    `json:"minutes"`
	Notes     string `json:"notes,omitempty"`
}

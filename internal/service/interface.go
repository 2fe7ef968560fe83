package service

import (
	"context"

	"practicetracker/backend/internal/model"
)

// UserStore is the slice of the user repository the practice service needs.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	IncrementPracticedToday(ctx context.Context, userID string, minutes int) error
	DailyPractice(ctx context.Context, userID string) (model.DailyPractice, error)
}

// PracticeStore persists sessions and reads them back for the dashboard.
type PracticeStore interface {
	InsertSession(ctx context.Context, session *model.PracticeSession, subsessions []model.PracticeSubsession) error
	ListRecentSessions(ctx context.Context, userID string, limit int) ([]model.PracticeSession, error)
	ListSessionsBetween(ctx context.Context, userID, from, to string) ([]model.PracticeSession, error)
	ListSubsessions(ctx context.Context, sessionIDs []string) ([]model.PracticeSubsession, error)
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"practicetracker/backend/internal/model"
)

type PracticeRepository struct {
	db *sql.DB
}

func NewPracticeRepository(db *sql.DB) *PracticeRepository {
	return &PracticeRepository{db: db}
}

// InsertSession writes one session row together with its subsession rows.
// The pair is one transaction: a session never exists without its details.
func (r *PracticeRepository) InsertSession(
	ctx context.Context,
	session *model.PracticeSession,
	subsessions []model.PracticeSubsession,
) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO practice_sessions (id, user_id, date, instrument, total_minutes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		session.Date,
		session.Instrument,
		session.TotalMinutes,
		session.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for _, sub := range subsessions {
		var notes interface{}
		if sub.Notes != "" {
			notes = sub.Notes
		}
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO practice_subsessions (id, session_id, category, minutes, notes)
			 VALUES (?, ?, ?, ?, ?)`,
			sub.ID,
			session.ID,
			sub.Category,
			sub.Minutes,
			notes,
		)
		if err != nil {
			return fmt.Errorf("insert subsession: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

func (r *PracticeRepository) ListRecentSessions(ctx context.Context, userID string, limit int) ([]model.PracticeSession, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, user_id, date, instrument, total_minutes, created_at
		 FROM practice_sessions
		 WHERE user_id = ?
		 ORDER BY date DESC, created_at DESC
		 LIMIT ?`,
		userID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent sessions: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

// ListSessionsBetween returns the user's sessions whose date falls in
// [from, to], both inclusive, dates in model.DateLayout.
func (r *PracticeRepository) ListSessionsBetween(ctx context.Context, userID, from, to string) ([]model.PracticeSession, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, user_id, date, instrument, total_minutes, created_at
		 FROM practice_sessions
		 WHERE user_id = ? AND date >= ? AND date <= ?
		 ORDER BY date ASC`,
		userID,
		from,
		to,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions between: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

func (r *PracticeRepository) ListSubsessions(ctx context.Context, sessionIDs []string) ([]model.PracticeSubsession, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(sessionIDs)), ",")
	args := make([]interface{}, len(sessionIDs))
	for i, id := range sessionIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, session_id, category, minutes, notes
		 FROM practice_subsessions
		 WHERE session_id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list subsessions: %w", err)
	}
	defer rows.Close()

	subsessions := make([]model.PracticeSubsession, 0)
	for rows.Next() {
		var sub model.PracticeSubsession
		var notes sql.NullString
		if err := rows.Scan(&sub.ID, &sub.SessionID, &sub.Category, &sub.Minutes, &notes); err != nil {
			return nil, fmt.Errorf("scan subsession: %w", err)
		}
		if notes.Valid {
			sub.Notes = notes.String
		}
		subsessions = append(subsessions, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subsessions: %w", err)
	}
	return subsessions, nil
}

func collectSessions(rows *sql.Rows) ([]model.PracticeSession, error) {
	sessions := make([]model.PracticeSession, 0)
	for rows.Next() {
		var session model.PracticeSession
		var createdAt string
		if err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.Date,
			&session.Instrument,
			&session.TotalMinutes,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		parsedCreatedAt, err := parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse session created_at: %w", err)
		}
		session.CreatedAt = parsedCreatedAt
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"practicetracker/backend/internal/model"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	instruments, err := json.Marshal(user.Instruments)
	if err != nil {
		return fmt.Errorf("encode instruments: %w", err)
	}

	_, err = r.db.ExecContext(
		ctx,
		`INSERT INTO users (id, email, password_hash, first_name, last_name, instruments, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		string(instruments),
		user.CreatedAt.UTC().Format(time.RFC3339Nano),
		user.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT id, email, password_hash, first_name, last_name, instruments, created_at, updated_at
		 FROM users
		 WHERE email = ?`,
		email,
	)
	return scanUser(row, "email")
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT id, email, password_hash, first_name, last_name, instruments, created_at, updated_at
		 FROM users
		 WHERE id = ?`,
		id,
	)
	return scanUser(row, "id")
}

// IncrementPracticedToday adds minutes to the user's "today" counter in
// place, the server-side increment primitive. Only today's column is ever
// touched; the remaining day columns are not rotated here.
func (r *UserRepository) IncrementPracticedToday(ctx context.Context, userID string, minutes int) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE users
		 SET minutes_practiced_today = minutes_practiced_today + ?,
		     updated_at = ?
		 WHERE id = ?`,
		minutes,
		time.Now().UTC().Format(time.RFC3339Nano),
		userID,
	)
	if err != nil {
		return fmt.Errorf("increment practiced today: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment practiced today: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DailyPractice returns the seven per-day counters, today first.
func (r *UserRepository) DailyPractice(ctx context.Context, userID string) (model.DailyPractice, error) {
	var daily model.DailyPractice
	row := r.db.QueryRowContext(
		ctx,
		`SELECT minutes_practiced_today, minutes_practiced_yesterday,
		        minutes_practiced_2_days_ago, minutes_practiced_3_days_ago,
		        minutes_practiced_4_days_ago, minutes_practiced_5_days_ago,
		        minutes_practiced_6_days_ago
		 FROM users
		 WHERE id = ?`,
		userID,
	)
	err := row.Scan(&daily[0], &daily[1], &daily[2], &daily[3], &daily[4], &daily[5], &daily[6])
	if err != nil {
		if err == sql.ErrNoRows {
			return daily, ErrNotFound
		}
		return daily, fmt.Errorf("daily practice: %w", err)
	}
	return daily, nil
}

func scanUser(row *sql.Row, by string) (*model.User, error) {
	var user model.User
	var instruments string
	var createdAt string
	var updatedAt string
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&instruments,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by %s: %w", by, err)
	}

	if err := json.Unmarshal([]byte(instruments), &user.Instruments); err != nil {
		return nil, fmt.Errorf("decode instruments: %w", err)
	}

	parsedCreatedAt, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse user created_at: %w", err)
	}
	parsedUpdatedAt, err := parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse user updated_at: %w", err)
	}
	user.CreatedAt = parsedCreatedAt
	user.UpdatedAt = parsedUpdatedAt

	return &user, nil
}

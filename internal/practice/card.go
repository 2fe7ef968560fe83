package practice

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"practicetracker/backend/internal/model"
)

// Duration input modes. Only the active mode's value counts at submission;
// switching modes never resets the stopwatch.
const (
	ModeStopwatch = "stopwatch"
	ModeManual    = "manual"
)

var (
	ErrCardFinalized   = errors.New("subsession already submitted")
	ErrNoCategory      = errors.New("a category must be selected")
	ErrNoMinutes       = errors.New("practice time must be greater than 0 minutes")
	ErrInvalidMode     = errors.New("unknown duration mode")
	ErrUnknownCategory = errors.New("unknown category")
)

// Card is one draft subsession being built: a category, a duration source
// (its own stopwatch or a manual minute count) and optional notes. A card is
// mutable until Submit succeeds, immutable afterwards.
type Card struct {
	ID            string
	Category      string
	Mode          string
	ManualMinutes int
	Notes         string
	Stopwatch     *Stopwatch
	Finalized     bool
	FinalMinutes  int
}

func NewCard(now func() time.Time) *Card {
	return &Card{
		ID:        uuid.NewString(),
		Mode:      ModeStopwatch,
		Stopwatch: NewStopwatch(now),
	}
}

func (c *Card) SetCategory(category string) error {
	if c.Finalized {
		return ErrCardFinalized
	}
	if !model.IsValidCategory(category) {
		return ErrUnknownCategory
	}
	c.Category = category
	return nil
}

func (c *Card) SetMode(mode string) error {
	if c.Finalized {
		return ErrCardFinalized
	}
	if mode != ModeStopwatch && mode != ModeManual {
		return ErrInvalidMode
	}
	c.Mode = mode
	return nil
}

func (c *Card) SetManualMinutes(minutes int) error {
	if c.Finalized {
		return ErrCardFinalized
	}
	c.ManualMinutes = minutes
	return nil
}

func (c *Card) SetNotes(notes string) error {
	if c.Finalized {
		return ErrCardFinalized
	}
	c.Notes = notes
	return nil
}

// ResolvedMinutes is the duration the active mode would submit right now.
// Stopwatch mode converts whole seconds to minutes with half-up rounding, so
// 89s is 1 minute and 90s is 2.
func (c *Card) ResolvedMinutes() int {
	if c.Mode == ModeManual {
		return c.ManualMinutes
	}
	return (c.Stopwatch.ElapsedSeconds() + 30) / 60
}

// Submit validates and finalizes the card. A running stopwatch is stopped
// first so its final reading is the one submitted. Validation failures leave
// the card editable.
func (c *Card) Submit() error {
	if c.Finalized {
		return ErrCardFinalized
	}
	if c.Mode == ModeStopwatch && c.Stopwatch.Running() {
		c.Stopwatch.Stop()
	}

	if c.Category == "" {
		return ErrNoCategory
	}
	minutes := c.ResolvedMinutes()
	if minutes <= 0 {
		return ErrNoMinutes
	}

	c.FinalMinutes = minutes
	c.Finalized = true
	return nil
}

// Minutes is the card's contribution to the session total: the frozen value
// once finalized, zero before.
func (c *Card) Minutes() int {
	if !c.Finalized {
		return 0
	}
	return c.FinalMinutes
}

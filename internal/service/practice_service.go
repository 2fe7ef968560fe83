package service

import (
	"context"
	"errors"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "practicetracker/backend/internal/errors"
	"practicetracker/backend/internal/model"
	"practicetracker/backend/internal/practice"
)

const DefaultHistoryLimit = 5

// PracticeService owns the per-user draft sessions (the composition state
// machine) and the persisted-session reads behind the dashboard. Drafts live
// only in process memory: discarding one, or losing the process, loses it.
type PracticeService struct {
	users UserStore
	store PracticeStore
	now   func() time.Time

	mu     sync.Mutex
	drafts map[string]*practice.Draft
}

func NewPracticeService(users UserStore, store PracticeStore, now func() time.Time) *PracticeService {
	if now == nil {
		now = time.Now
	}
	return &PracticeService{
		users:  users,
		store:  store,
		now:    now,
		drafts: make(map[string]*practice.Draft),
	}
}

type CardView struct {
	ID             string `json:"id"`
	Category       string `json:"category"`
	Mode           string `json:"mode"`
	ManualMinutes  int    `json:"manualMinutes"`
	Notes          string `json:"notes"`
	ElapsedSeconds int    `json:"elapsedSeconds"`
	Display        string `json:"display"`
	Running        bool   `json:"running"`
	Finalized      bool   `json:"finalized"`
	Minutes        int    `json:"minutes"`
}

type DraftView struct {
	Cards        []CardView `json:"cards"`
	TotalMinutes int        `json:"totalMinutes"`
}

type UpdateCardInput struct {
	Category      *string
	Mode          *string
	ManualMinutes *int
	Notes         *string
}

type SessionSummary struct {
	ID           string                     `json:"id"`
	Date         string                     `json:"date"`
	Instrument   string                     `json:"instrument"`
	TotalMinutes int                        `json:"totalMinutes"`
	Subsessions  []model.PracticeSubsession `json:"subsessions"`
	// HasDetails is false when no subsession rows matched the session; the
	// dashboard renders "No subsession details found." instead of a list.
	HasDetails bool `json:"hasDetails"`
}

type HistoryView struct {
	Sessions []SessionSummary `json:"sessions"`
	Empty    bool             `json:"empty"`
}

type TrendView struct {
	Labels         []string `json:"labels"`
	Data           []int    `json:"data"`
	AverageMinutes float64  `json:"averageMinutes"`
}

type ProfileView struct {
	User          model.User          `json:"user"`
	DailyPractice model.DailyPractice `json:"dailyPractice"`
}

// StartDraft moves the user from Idle to Composing. Calling it while already
// composing keeps the existing draft.
func (s *PracticeService) StartDraft(userID string) *DraftView {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[userID]
	if !ok {
		draft = practice.NewDraft(s.now)
		s.drafts[userID] = draft
	}
	view := s.draftView(draft)
	return &view
}

func (s *PracticeService) GetDraft(userID string) (*DraftView, *apperrors.APIError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[userID]
	if !ok {
		return nil, apperrors.NotFound("no_draft", "no practice session in progress")
	}
	view := s.draftView(draft)
	return &view, nil
}

// DiscardDraft returns the user to Idle, dropping any unsaved subsessions.
func (s *PracticeService) DiscardDraft(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, userID)
}

func (s *PracticeService) AddCard(userID string) (*CardView, *apperrors.APIError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[userID]
	if !ok {
		return nil, apperrors.NotFound("no_draft", "no practice session in progress")
	}
	card := draft.AddCard()
	view := s.cardView(card)
	return &view, nil
}

func (s *PracticeService) UpdateCard(userID, cardID string, input UpdateCardInput) (*CardView, *apperrors.APIError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, apiErr := s.findCard(userID, cardID)
	if apiErr != nil {
		return nil, apiErr
	}

	if input.Category != nil {
		if err := card.SetCategory(*input.Category); err != nil {
			return nil, cardError(err)
		}
	}
	if input.Mode != nil {
		if err := card.SetMode(*input.Mode); err != nil {
			return nil, cardError(err)
		}
	}
	if input.ManualMinutes != nil {
		if err := card.SetManualMinutes(*input.ManualMinutes); err != nil {
			return nil, cardError(err)
		}
	}
	if input.Notes != nil {
		if err := card.SetNotes(*input.Notes); err != nil {
			return nil, cardError(err)
		}
	}

	view := s.cardView(card)
	return &view, nil
}

// Stopwatch actions accepted by StopwatchAction.
const (
	ActionStart = "start"
	ActionStop  = "stop"
	ActionReset = "reset"
)

func (s *PracticeService) StopwatchAction(userID, cardID, action string) (*CardView, *apperrors.APIError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, apiErr := s.findCard(userID, cardID)
	if apiErr != nil {
		return nil, apiErr
	}
	if card.Finalized {
		return nil, apperrors.Conflict("card_finalized", "subsession already submitted", nil)
	}

	switch action {
	case ActionStart:
		card.Stopwatch.Start()
	case ActionStop:
		card.Stopwatch.Stop()
	case ActionReset:
		card.Stopwatch.Reset()
	default:
		return nil, apperrors.BadRequest("invalid_action", "unknown stopwatch action")
	}

	view := s.cardView(card)
	return &view, nil
}

func (s *PracticeService) SubmitCard(userID, cardID string) (*DraftView, *apperrors.APIError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[userID]
	if !ok {
		return nil, apperrors.NotFound("no_draft", "no practice session in progress")
	}
	card, ok := draft.Card(cardID)
	if !ok {
		return nil, apperrors.NotFound("card_not_found", "subsession not found")
	}

	if err := card.Submit(); err != nil {
		return nil, cardError(err)
	}
	draft.Upsert(card)

	view := s.draftView(draft)
	return &view, nil
}

func (s *PracticeService) RemoveCard(userID, cardID string) (*DraftView, *apperrors.APIError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[userID]
	if !ok {
		return nil, apperrors.NotFound("no_draft", "no practice session in progress")
	}
	draft.Remove(cardID)

	view := s.draftView(draft)
	return &view, nil
}

// Save persists the draft: one session row plus its subsessions, and an
// increment of the user's "practiced today" counter. The two writes are
// independent and both are always attempted; a failure in one never skips
// the other, and a partial failure is reported without compensation.
func (s *PracticeService) Save(ctx context.Context, userID, instrument string) (*model.PracticeSession, *apperrors.APIError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[userID]
	if !ok {
		return nil, apperrors.NotFound("no_draft", "no practice session in progress")
	}
	if draft.FinalizedCount() == 0 {
		return nil, apperrors.Validation("submit at least one subsession before saving")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.DataFetch("failed to load user")
	}
	if instrument == "" || !user.HasInstrument(instrument) {
		return nil, apperrors.Validation("please select one of your instruments")
	}

	now := s.now().UTC()
	totalMinutes := draft.Total()

	session := model.PracticeSession{
		ID:           uuid.NewString(),
		UserID:       userID,
		Date:         now.Format(model.DateLayout),
		Instrument:   instrument,
		TotalMinutes: totalMinutes,
		CreatedAt:    now,
	}

	subsessions := make([]model.PracticeSubsession, 0, draft.FinalizedCount())
	for _, card := range draft.Cards() {
		if !card.Finalized {
			continue
		}
		subsessions = append(subsessions, model.PracticeSubsession{
			ID:        uuid.NewString(),
			SessionID: session.ID,
			Category:  card.Category,
			Minutes:   card.Minutes(),
			Notes:     card.Notes,
		})
	}

	incrementErr := s.users.IncrementPracticedToday(ctx, userID, totalMinutes)
	insertErr := s.store.InsertSession(ctx, &session, subsessions)

	if incrementErr != nil || insertErr != nil {
		joined := errors.Join(incrementErr, insertErr)
		log.Printf("save practice session for user %s: %v", userID, joined)
		return nil, apperrors.DataWrite("failed to save practice session")
	}

	delete(s.drafts, userID)
	return &session, nil
}

// RecentSessions builds the dashboard history: the newest sessions with
// their subsessions grouped per session.
func (s *PracticeService) RecentSessions(ctx context.Context, userID string, limit int) (*HistoryView, *apperrors.APIError) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	sessions, err := s.store.ListRecentSessions(ctx, userID, limit)
	if err != nil {
		log.Printf("list recent sessions for user %s: %v", userID, err)
		return nil, apperrors.DataFetch("failed to load recent sessions")
	}

	if len(sessions) == 0 {
		return &HistoryView{Sessions: []SessionSummary{}, Empty: true}, nil
	}

	ids := make([]string, len(sessions))
	for i, session := range sessions {
		ids[i] = session.ID
	}

	subsessions, err := s.store.ListSubsessions(ctx, ids)
	if err != nil {
		log.Printf("list subsessions for user %s: %v", userID, err)
		return nil, apperrors.DataFetch("failed to load session details")
	}

	grouped := make(map[string][]model.PracticeSubsession)
	for _, sub := range subsessions {
		grouped[sub.SessionID] = append(grouped[sub.SessionID], sub)
	}

	summaries := make([]SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		subs := grouped[session.ID]
		if subs == nil {
			subs = []model.PracticeSubsession{}
		}
		summaries = append(summaries, SessionSummary{
			ID:           session.ID,
			Date:         session.Date,
			Instrument:   session.Instrument,
			TotalMinutes: session.TotalMinutes,
			Subsessions:  subs,
			HasDetails:   len(subs) > 0,
		})
	}

	return &HistoryView{Sessions: summaries}, nil
}

// WeeklyTrend buckets the last 7 calendar days of sessions (today inclusive)
// into a chart-ready series, oldest day first, and the 7-day average.
func (s *PracticeService) WeeklyTrend(ctx context.Context, userID string) (*TrendView, *apperrors.APIError) {
	today := s.now().UTC()
	windowStart := today.AddDate(0, 0, -6)

	labels := make([]string, 7)
	data := make([]int, 7)
	bucketIndex := make(map[string]int, 7)
	for i := 0; i < 7; i++ {
		day := windowStart.AddDate(0, 0, i)
		labels[i] = day.Weekday().String()[:3]
		bucketIndex[day.Format(model.DateLayout)] = i
	}

	sessions, err := s.store.ListSessionsBetween(
		ctx,
		userID,
		windowStart.Format(model.DateLayout),
		today.Format(model.DateLayout),
	)
	if err != nil {
		log.Printf("list sessions in trend window for user %s: %v", userID, err)
		return nil, apperrors.DataFetch("failed to load practice trend")
	}

	windowTotal := 0
	for _, session := range sessions {
		windowTotal += session.TotalMinutes
		if idx, ok := bucketIndex[session.Date]; ok {
			data[idx] += session.TotalMinutes
		}
	}

	average := math.Round(float64(windowTotal)/7*10) / 10

	return &TrendView{
		Labels:         labels,
		Data:           data,
		AverageMinutes: average,
	}, nil
}

// Profile returns the dashboard header data: name, email, instruments and
// the per-day counters.
func (s *PracticeService) Profile(ctx context.Context, userID string) (*ProfileView, *apperrors.APIError) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.DataFetch("failed to load user")
	}
	daily, err := s.users.DailyPractice(ctx, userID)
	if err != nil {
		return nil, apperrors.DataFetch("failed to load practice counters")
	}

	user.PasswordHash = ""
	return &ProfileView{
		User:          *user,
		DailyPractice: daily,
	}, nil
}

func (s *PracticeService) findCard(userID, cardID string) (*practice.Card, *apperrors.APIError) {
	draft, ok := s.drafts[userID]
	if !ok {
		return nil, apperrors.NotFound("no_draft", "no practice session in progress")
	}
	card, ok := draft.Card(cardID)
	if !ok {
		return nil, apperrors.NotFound("card_not_found", "subsession not found")
	}
	return card, nil
}

func (s *PracticeService) cardView(card *practice.Card) CardView {
	return CardView{
		ID:             card.ID,
		Category:       card.Category,
		Mode:           card.Mode,
		ManualMinutes:  card.ManualMinutes,
		Notes:          card.Notes,
		ElapsedSeconds: card.Stopwatch.ElapsedSeconds(),
		Display:        card.Stopwatch.Display(),
		Running:        card.Stopwatch.Running(),
		Finalized:      card.Finalized,
		Minutes:        card.Minutes(),
	}
}

func (s *PracticeService) draftView(draft *practice.Draft) DraftView {
	cards := draft.Cards()
	views := make([]CardView, 0, len(cards))
	for _, card := range cards {
		views = append(views, s.cardView(card))
	}
	return DraftView{
		Cards:        views,
		TotalMinutes: draft.Total(),
	}
}

func cardError(err error) *apperrors.APIError {
	switch {
	case errors.Is(err, practice.ErrCardFinalized):
		return apperrors.Conflict("card_finalized", "subsession already submitted", nil)
	case errors.Is(err, practice.ErrNoCategory),
		errors.Is(err, practice.ErrNoMinutes),
		errors.Is(err, practice.ErrUnknownCategory),
		errors.Is(err, practice.ErrInvalidMode):
		return apperrors.Validation(err.Error())
	default:
		return apperrors.Internal("")
	}
}

package practice

import "testing"

func finalizedCard(t *testing.T, clock *fakeClock, category string, minutes int) *Card {
	t.Helper()
	card := NewCard(clock.Now)
	if err := card.SetCategory(category); err != nil {
		t.Fatalf("set category: %v", err)
	}
	if err := card.SetMode(ModeManual); err != nil {
		t.Fatalf("set mode: %v", err)
	}
	if err := card.SetManualMinutes(minutes); err != nil {
		t.Fatalf("set minutes: %v", err)
	}
	if err := card.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	return card
}

func TestDraftTotalTracksEntries(t *testing.T) {
	clock := newFakeClock()
	draft := NewDraft(clock.Now)

	a := finalizedCard(t, clock, "Warm Ups", 10)
	b := finalizedCard(t, clock, "Scales", 20)
	draft.Upsert(a)
	draft.Upsert(b)

	if got := draft.Total(); got != 30 {
		t.Fatalf("expected total 30, got %d", got)
	}

	// Re-upsert of the same id must not double-count.
	draft.Upsert(a)
	if got := draft.Total(); got != 30 {
		t.Fatalf("expected total 30 after re-upsert, got %d", got)
	}

	draft.Remove(b.ID)
	if got := draft.Total(); got != 10 {
		t.Fatalf("expected total 10 after remove, got %d", got)
	}

	draft.Remove("no-such-id") // no-op
	if got := draft.Total(); got != 10 {
		t.Fatalf("expected total 10 after removing unknown id, got %d", got)
	}
}

func TestDraftKeepsInsertionOrder(t *testing.T) {
	clock := newFakeClock()
	draft := NewDraft(clock.Now)

	first := draft.AddCard()
	second := draft.AddCard()
	third := draft.AddCard()
	draft.Remove(second.ID)

	cards := draft.Cards()
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[0].ID != first.ID || cards[1].ID != third.ID {
		t.Fatal("expected cards in insertion order after removal")
	}
}

func TestDraftUnfinalizedCardsDoNotCount(t *testing.T) {
	clock := newFakeClock()
	draft := NewDraft(clock.Now)

	card := draft.AddCard()
	if err := card.SetMode(ModeManual); err != nil {
		t.Fatalf("set mode: %v", err)
	}
	if err := card.SetManualMinutes(45); err != nil {
		t.Fatalf("set minutes: %v", err)
	}

	if got := draft.Total(); got != 0 {
		t.Fatalf("unsubmitted card must not count, got total %d", got)
	}
	if got := draft.FinalizedCount(); got != 0 {
		t.Fatalf("expected 0 finalized cards, got %d", got)
	}
}

package practice

import "time"

// Draft is the in-progress session: an insertion-ordered, id-keyed set of
// cards. It exists only in memory for the duration of one composition and is
// discarded, not persisted, on navigation away.
type Draft struct {
	now   func() time.Time
	order []string
	cards map[string]*Card
}

func NewDraft(now func() time.Time) *Draft {
	if now == nil {
		now = time.Now
	}
	return &Draft{
		now:   now,
		cards: make(map[string]*Card),
	}
}

// AddCard creates a fresh card with its own stopwatch and appends it.
func (d *Draft) AddCard() *Card {
	card := NewCard(d.now)
	d.Upsert(card)
	return card
}

// Upsert replaces the entry with a matching id, or appends when new.
// Re-submitting an edited card is therefore idempotent on id.
func (d *Draft) Upsert(card *Card) {
	if _, ok := d.cards[card.ID]; !ok {
		d.order = append(d.order, card.ID)
	}
	d.cards[card.ID] = card
}

func (d *Draft) Card(id string) (*Card, bool) {
	card, ok := d.cards[id]
	return card, ok
}

// Remove deletes the card regardless of finalized state; no-op when absent.
func (d *Draft) Remove(id string) {
	if _, ok := d.cards[id]; !ok {
		return
	}
	delete(d.cards, id)
	for i, existing := range d.order {
		if existing == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Cards returns the draft's cards in insertion order.
func (d *Draft) Cards() []*Card {
	cards := make([]*Card, 0, len(d.order))
	for _, id := range d.order {
		cards = append(cards, d.cards[id])
	}
	return cards
}

// Total is the running session total: the sum of finalized card minutes,
// recomputed on every call rather than cached.
func (d *Draft) Total() int {
	total := 0
	for _, id := range d.order {
		total += d.cards[id].Minutes()
	}
	return total
}

// FinalizedCount reports how many cards have been submitted.
func (d *Draft) FinalizedCount() int {
	count := 0
	for _, id := range d.order {
		if d.cards[id].Finalized {
			count++
		}
	}
	return count
}

// Package scheduler implements the multi-deck card selection state machine.
// Each call to NextCard walks a four-tier priority chain: continue the active
// deck, pull a due long-term review, promote cooled-down discards or
// introduce new material, and finally force a repeat from the active deck.
package scheduler

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/lessonforge/lessonforge/internal/interval"
	"github.com/lessonforge/lessonforge/internal/leitner"
)

const (
	// secondsPerDay is the simulated aging applied to the finished deck at
	// the start of every session.
	secondsPerDay = 60 * 60 * 24

	// maxSelectAttempts bounds the duplicate-avoidance retry loop. Deck
	// state that cannot settle within this many passes indicates a
	// corrupted partition.
	maxSelectAttempts = 1000
)

// ErrSelectionStuck reports that NextCard could not make progress within its
// retry budget. This is a logic corruption, not a recoverable condition.
var ErrSelectionStuck = errors.New("card selection did not settle within retry budget")

// Config carries the scheduling knobs consumed directly by the scheduler.
type Config struct {
	NewCardMaxTries       int
	NewCardTriesDecrement int
	NewCardsMaxPerSession int
	NewCardsPerSession    int
	NewCardsIncrement     int

	ReviewCardMaxTries        int
	ReviewCardTriesDecrement  int
	ReviewCardsMaxPerSession  int
	ReviewCardsPerSession     int
	ReviewCardsIncrement      int
}

// Scheduler owns the four-deck partition and all per-session selection
// state. It is not safe for concurrent use; the session runner drives it
// from a single goroutine.
type Scheduler struct {
	cfg    Config
	tables *interval.Tables

	Main     *leitner.Deck
	Active   *leitner.Deck
	Discards *leitner.Deck
	Finished *leitner.Deck

	sessionIndex  int
	reviewCount   int
	maxReviews    int
	maxNew        int
	maxNewReached bool

	verbStemCounts     map[string]int
	boundPronounCounts map[string]int
}

// New creates a scheduler around an already loaded main deck. The remaining
// decks start empty and share the main deck's tie-breaking RNG.
func New(cfg Config, tables *interval.Tables, mainDeck *leitner.Deck, rng *rand.Rand) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		tables:   tables,
		Main:     mainDeck,
		Active:   leitner.NewDeck("active", rng),
		Discards: leitner.NewDeck("discards", rng),
		Finished: leitner.NewDeck("finished", rng),
	}
}

// BeginSession prepares the decks for one session: the finished deck ages by
// a simulated day so long-term-due cards become eligible, the stem counts
// used to hide already-known new cards are rebuilt, and the per-session
// counters and caps reset.
func (s *Scheduler) BeginSession(sessionIndex int) {
	s.sessionIndex = sessionIndex
	s.reviewCount = 0
	s.maxNewReached = false

	s.Finished.UpdateTime(secondsPerDay)
	s.Finished.SortByShowAgain()
	s.rebuildStemCounts()

	s.maxNew = sessionCap(s.cfg.NewCardsMaxPerSession, s.cfg.NewCardsPerSession, s.cfg.NewCardsIncrement, sessionIndex)
	s.maxReviews = sessionCap(s.cfg.ReviewCardsMaxPerSession, s.cfg.ReviewCardsPerSession, s.cfg.ReviewCardsIncrement, sessionIndex)

	if s.Finished.HasCards() {
		slog.Debug("previously finished cards available for review",
			"count", s.Finished.Len(), "session", sessionIndex+1)
	}
}

// MaxNewCards returns the new-card cap computed for the current session.
func (s *Scheduler) MaxNewCards() int {
	return s.maxNew
}

// ReviewCount returns how many review cards have been pulled this session.
func (s *Scheduler) ReviewCount() int {
	return s.reviewCount
}

// StopNewCards stops further new-card intake for the remainder of the
// session. Called when the session cap is reached or an end note fires.
func (s *Scheduler) StopNewCards() {
	s.maxNewReached = true
}

// NewCardsStopped reports whether new-card intake has been cut off.
func (s *Scheduler) NewCardsStopped() bool {
	return s.maxNewReached
}

func sessionCap(maxPerSession, perSession, increment, sessionIndex int) int {
	limit := perSession + sessionIndex*increment
	if limit > maxPerSession {
		return maxPerSession
	}
	return limit
}

// NextCard selects the next card to present and moves it into the discards
// deck. It returns nil when no card is eligible, which ends the session.
// prevCardID is the id of the card presented immediately before this call;
// the scheduler avoids returning it again while other active cards exist,
// but the caller still owns final duplicate suppression.
func (s *Scheduler) NextCard(prevCardID string) (*leitner.Card, error) {
	for attempt := 0; attempt < maxSelectAttempts; attempt++ {
		s.BumpCompleted()

		// Tier 1: continue working the active deck.
		if s.Active.HasCards() {
			card := s.Active.TopCard()
			s.Discards.Append(card)
			if card.ID() != prevCardID {
				card.Stats.TriesRemainingDec()
				card.Stats.Shown++
				return card, nil
			}
			if s.Active.HasCards() {
				// The just-shown card was on top; retry with it parked
				// in discards.
				continue
			}
			// The active deck held only the just-shown card. Fall through
			// to the later tiers instead of repeating it immediately.
		}

		// Tier 2: a long-term review card is due.
		if s.Finished.NextShowTime() <= 0 && s.Finished.HasCards() && s.reviewCount < s.maxReviews {
			card := s.Finished.TopCard()
			card.Stats.NewCard = false
			card.ResetStats()
			card.ResetTriesRemaining(s.reviewTries())
			s.Discards.Append(card)
			s.reviewCount++
			slog.Debug("review card selected", "card", card.ID(),
				"challenge", card.Challenge, "tries", card.Stats.TriesRemaining)
			return card, nil
		}

		// Tier 3: advance the discard cooldowns and promote whatever has
		// cooled off, then introduce new material if the budget allows.
		extraDelay := s.Discards.NextShowTime()
		s.Discards.UpdateTime(extraDelay)
		s.promoteCooledDiscards()

		if !s.maxNewReached && s.Main.HasCards() {
			card := s.Main.TopCard()
			card.Stats.NewCard = true
			card.ResetTriesRemaining(s.newTries())
			s.Discards.Append(card)
			return card, nil
		}

		// Tier 4: nothing else to do but repeat from the active deck.
		if !s.Active.HasCards() {
			slog.Debug("active deck is out of cards")
			return nil, nil
		}
		s.Active.SortByShowAgain()
		card := s.Active.TopCard()
		s.Discards.Append(card)
		card.Stats.ShowAgainDelay = extraDelay
		card.Stats.TriesRemainingDec()
		card.Stats.Shown++
		return card, nil
	}
	return nil, fmt.Errorf("%w: prev card %q", ErrSelectionStuck, prevCardID)
}

func (s *Scheduler) reviewTries() int {
	tries := s.cfg.ReviewCardMaxTries - s.cfg.ReviewCardTriesDecrement*s.sessionIndex
	if floor := s.cfg.ReviewCardMaxTries / 2; tries < floor {
		return floor
	}
	return tries
}

func (s *Scheduler) newTries() int {
	tries := s.cfg.NewCardMaxTries - s.cfg.NewCardTriesDecrement*s.sessionIndex
	if floor := s.cfg.NewCardMaxTries / 2; tries < floor {
		return floor
	}
	return tries
}

// HideTries exposes the review-card try budget used when a "new" card is
// hidden because its stems are already well represented.
func (s *Scheduler) HideTries() int {
	return s.reviewTries()
}

// promoteCooledDiscards moves every discard whose cooldown has expired back
// into the active deck.
func (s *Scheduler) promoteCooledDiscards() {
	for _, card := range s.Discards.Cards() {
		if card.Stats.ShowAgainDelay > 0 {
			continue
		}
		s.Active.Append(card)
	}
}

// BumpCompleted migrates every discard that has exhausted its presentation
// budget into the finished deck, assigning the next long-term delay and
// advancing its Leitner box. This is the only path by which a card leaves
// circulation for the rest of the session.
func (s *Scheduler) BumpCompleted() {
	for _, card := range s.Discards.Cards() {
		if card.Stats.TriesRemaining >= 1 {
			continue
		}
		card.Stats.ShowAgainDelay = s.tables.NextSessionIntervalSecs(card.Stats.LeitnerBox)
		card.Stats.LeitnerBoxInc()
		s.Finished.Append(card)
	}
}

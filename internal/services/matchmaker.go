package services

import (
	"github.com/kapilnath546/study-buddies/internal/apperror"
	"github.com/kapilnath546/study-buddies/internal/models"
	"github.com/kapilnath546/study-buddies/internal/repositories"
	"github.com/rs/zerolog/log"
)

// Matchmaker drives the swipe flow. Each session carries a candidate deck
// and a cursor; swiping left records a session-local skip, swiping right
// persists a match edge. The cursor advances past a right-swiped candidate
// only after the edge insert is confirmed, so a failed write never loses a
// match silently.
type Matchmaker struct {
	userRepository  repositories.UserRepository
	matchRepository repositories.MatchRepository
}

// NewMatchmaker creates a new Matchmaker
func NewMatchmaker(userRepo repositories.UserRepository, matchRepo repositories.MatchRepository) *Matchmaker {
	return &Matchmaker{
		userRepository:  userRepo,
		matchRepository: matchRepo,
	}
}

// LoadDeck builds the candidate deck for the session: every profile except
// the user, users already matched with them, and candidates skipped this
// session. The cursor resets to the top of the deck.
func (mm *Matchmaker) LoadDeck(sess *Session) error {
	users, err := mm.userRepository.GetUsers()
	if err != nil {
		return apperror.Classify(err)
	}
	matchedIDs, err := mm.matchRepository.GetMatchedUserIDs(sess.UserID)
	if err != nil {
		return apperror.Classify(err)
	}
	matched := make(map[uint]struct{}, len(matchedIDs))
	for _, id := range matchedIDs {
		matched[id] = struct{}{}
	}

	deck := make([]uint, 0, len(users))
	for _, u := range users {
		if u.ID == sess.UserID {
			continue
		}
		if _, ok := matched[u.ID]; ok {
			continue
		}
		if sess.HasSkipped(u.ID) {
			continue
		}
		deck = append(deck, u.ID)
	}

	sess.mu.Lock()
	sess.deck = deck
	sess.cursor = 0
	sess.mu.Unlock()

	log.Debug().Uint("user_id", sess.UserID).Int("candidates", len(deck)).Msg("Swipe deck loaded")
	return nil
}

// Current returns the candidate profile the deck cursor points at, or
// ErrNotFound when the deck is exhausted.
func (mm *Matchmaker) Current(sess *Session) (*models.User, error) {
	id, ok := mm.currentID(sess)
	if !ok {
		return nil, apperror.ErrNotFound
	}
	user, err := mm.userRepository.GetUserByID(id)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	return user, nil
}

// SwipeLeft skips the current candidate. The skip lives only in the
// session; no record is persisted and a new session shows the candidate
// again.
func (mm *Matchmaker) SwipeLeft(sess *Session) error {
	id, ok := mm.currentID(sess)
	if !ok {
		return apperror.ErrNotFound
	}
	sess.Skip(id)
	mm.advance(sess)
	return nil
}

// SwipeRight persists a match edge to the current candidate and, only on
// confirmed success, advances the deck cursor. On failure the candidate
// stays current and the error is surfaced.
func (mm *Matchmaker) SwipeRight(sess *Session) (*models.Match, error) {
	id, ok := mm.currentID(sess)
	if !ok {
		return nil, apperror.ErrNotFound
	}

	match := &models.Match{LikerID: sess.UserID, TargetID: id}
	if err := mm.matchRepository.CreateMatch(match); err != nil {
		log.Warn().Err(err).Uint("user_id", sess.UserID).Uint("target_id", id).Msg("Match write failed, candidate kept")
		return nil, apperror.Classify(err)
	}

	mm.advance(sess)
	return match, nil
}

func (mm *Matchmaker) currentID(sess *Session) (uint, bool) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.cursor >= len(sess.deck) {
		return 0, false
	}
	return sess.deck[sess.cursor], true
}

func (mm *Matchmaker) advance(sess *Session) {
	sess.mu.Lock()
	sess.cursor++
	sess.mu.Unlock()
}

// Package matchmaker implements the pairing state machine: the waiting
// pool, the symmetric session registry, and the search / cancel / end /
// relay / rate transitions over them.
package matchmaker

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"gramroulette/internal/config"
	"gramroulette/internal/economy"
	"gramroulette/internal/models"
	"gramroulette/internal/storage"
)

// Notifier delivers fire-and-forget notices to the side of an operation
// that did not trigger it. Delivery failures are not surfaced back.
type Notifier interface {
	Notify(notice models.Notice)
}

// UserState is the per-user position in the pairing state machine.
type UserState string

const (
	StateIdle      UserState = "idle"
	StateWaiting   UserState = "waiting"
	StateInSession UserState = "in_session"
)

// SearchResult reports the outcome of a search to its initiator.
type SearchResult struct {
	Matched bool
	Partner int64
}

// EndResult reports a completed endSession to its initiator.
type EndResult struct {
	Partner int64
	// Rewarded is false when the daily cap declined the token reward.
	Rewarded bool
	// RatingToken addresses the partner in a later rating callback.
	// Empty when the token could not be minted.
	RatingToken string
}

// StatusReport is the read-only status snapshot for one user.
type StatusReport struct {
	State          UserState
	Waiting        int
	ActiveSessions int
}

// Service owns the waiting pool and session registry. A single mutex
// guards both so that no caller can observe a half-paired state: the bot's
// update loop and the HTTP stats surface run concurrently.
type Service struct {
	mu       sync.Mutex
	pool     *WaitingPool
	registry *SessionRegistry

	Storage storage.Storage
	Economy *economy.Service
	Policy  MatchPolicy

	notifier Notifier
}

// NewService creates a matchmaker over the given persistence and ledger.
func NewService(s storage.Storage, e *economy.Service, policy MatchPolicy) *Service {
	return &Service{
		pool:     NewWaitingPool(),
		registry: NewSessionRegistry(),
		Storage:  s,
		Economy:  e,
		Policy:   policy,
	}
}

// SetNotifier wires the outbound delivery side. Must be called before the
// first operation; the gateway adapter registers itself at startup.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *Service) notify(userID int64, noticeType, content string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(models.Notice{UserID: userID, Type: noticeType, Content: content})
}

// Search moves an idle user toward a session: pair with a waiting
// candidate when one exists, otherwise join the waiting pool. The session
// row is persisted before any in-memory state changes, so a storage
// failure leaves the caller in their prior state.
func (s *Service) Search(userID int64) (SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.registry.PartnerOf(userID); ok {
		return SearchResult{}, ErrAlreadyInSession
	}
	if s.pool.Contains(userID) {
		return SearchResult{}, ErrAlreadySearching
	}

	candidate, found := s.pool.SelectMatch(userID, s.Policy, s.Economy.AverageRatingOf)
	if !found {
		s.pool.Add(userID)
		return SearchResult{}, nil
	}

	sessionID := uuid.New().String()
	session := &models.Session{
		SessionID: sessionID,
		User1ID:   userID,
		User2ID:   candidate,
		IsActive:  true,
		StartedAt: time.Now(),
	}
	if err := s.Storage.SaveSession(session); err != nil {
		log.Printf("ERROR: Failed to save new session %s: %v", sessionID, err)
		return SearchResult{}, err
	}

	s.pool.Remove(candidate)
	if err := s.registry.Pair(userID, candidate, sessionID); err != nil {
		// Unreachable for well-behaved callers; both sides were just
		// verified unpaired under the same lock.
		return SearchResult{}, err
	}

	s.notify(candidate, models.NoticeMatchFound, "")
	log.Printf("Match found: %d and %d in session %s", userID, candidate, sessionID)
	return SearchResult{Matched: true, Partner: candidate}, nil
}

// CancelSearch removes a waiting user from the pool.
func (s *Service) CancelSearch(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pool.Remove(userID) {
		return ErrNotSearching
	}
	return nil
}

// EndSession tears down the caller's session. A waiting caller is removed
// from the pool but still gets ErrNotInSession ("nothing to end"). For a
// paired caller the registry is unpaired first, then the session row is
// closed and the completion is credited to the initiator only; ledger
// failures after the unpair degrade to an unrewarded end rather than
// resurrecting the session.
func (s *Service) EndSession(userID int64) (EndResult, error) {
	s.mu.Lock()
	if s.pool.Remove(userID) {
		s.mu.Unlock()
		return EndResult{}, ErrNotInSession
	}
	partner, sessionID, err := s.registry.Unpair(userID)
	s.mu.Unlock()
	if err != nil {
		return EndResult{}, err
	}

	if err := s.Storage.CloseSession(sessionID); err != nil {
		log.Printf("ERROR: Failed to close session %s: %v", sessionID, err)
	}

	rewarded, err := s.Economy.RegisterChat(userID)
	if err != nil {
		log.Printf("ERROR: Failed to register completed chat for %d: %v", userID, err)
		rewarded = false
	}

	ratingToken, err := s.Storage.CreateRatingToken(partner)
	if err != nil {
		log.Printf("ERROR: Failed to mint rating token for %d: %v", partner, err)
		ratingToken = ""
	}

	s.notify(partner, models.NoticePartnerDisconnect, "")
	return EndResult{Partner: partner, Rewarded: rewarded, RatingToken: ratingToken}, nil
}

// Relay forwards a message verbatim to the sender's partner. Returns
// false when the sender is not paired; the content is dropped and never
// persisted either way.
func (s *Service) Relay(userID int64, content string) bool {
	s.mu.Lock()
	partner, ok := s.registry.PartnerOf(userID)
	s.mu.Unlock()

	if !ok {
		return false
	}
	s.notify(partner, models.NoticeRelay, content)
	return true
}

// SubmitRating records a score for the user a rating token names. The
// token decouples rating from session state: the session it came from has
// usually ended already.
func (s *Service) SubmitRating(token string, score int) error {
	if score < config.RatingScoreMin || score > config.RatingScoreMax {
		return ErrInvalidRatingScore
	}

	rated, err := s.Storage.ResolveRatingToken(token)
	if err != nil {
		return err
	}
	if rated == 0 {
		return ErrUnknownRatingToken
	}
	return s.Economy.AddRating(rated, score)
}

// Partner returns the caller's current partner and session, if paired.
func (s *Service) Partner(userID int64) (int64, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	partner, ok := s.registry.PartnerOf(userID)
	if !ok {
		return 0, "", false
	}
	sessionID, _ := s.registry.SessionOf(userID)
	return partner, sessionID, true
}

// Status derives the caller's state plus a snapshot of pool size and
// active session count.
func (s *Service) Status(userID int64) StatusReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := StateIdle
	if _, ok := s.registry.PartnerOf(userID); ok {
		state = StateInSession
	} else if s.pool.Contains(userID) {
		state = StateWaiting
	}
	return StatusReport{
		State:          state,
		Waiting:        s.pool.Len(),
		ActiveSessions: s.registry.Len() / 2,
	}
}

// Snapshot returns the global counters for the stats surface.
func (s *Service) Snapshot() (waiting, activeSessions int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Len(), s.registry.Len() / 2
}

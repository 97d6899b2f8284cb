package matchmaker

// SessionRegistry is the symmetric pairing table of active sessions.
// If A maps to B then B maps to A; the table is always even-sized and the
// active session count is Len()/2. Not safe for concurrent use; the
// matchmaker's mutex guards it.
type SessionRegistry struct {
	partners map[int64]int64
	sessions map[int64]string // user -> session ID, same value on both sides
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		partners: make(map[int64]int64),
		sessions: make(map[int64]string),
	}
}

// Pair inserts both directions of a pairing. Rejects self-pairing and any
// side that already has a partner.
func (r *SessionRegistry) Pair(a, b int64, sessionID string) error {
	if a == b {
		return ErrAlreadyPaired
	}
	if _, ok := r.partners[a]; ok {
		return ErrAlreadyPaired
	}
	if _, ok := r.partners[b]; ok {
		return ErrAlreadyPaired
	}
	r.partners[a] = b
	r.partners[b] = a
	r.sessions[a] = sessionID
	r.sessions[b] = sessionID
	return nil
}

// Unpair removes both directions and returns the former partner and the
// session ID they shared.
func (r *SessionRegistry) Unpair(userID int64) (int64, string, error) {
	partner, ok := r.partners[userID]
	if !ok {
		return 0, "", ErrNotInSession
	}
	sessionID := r.sessions[userID]
	delete(r.partners, userID)
	delete(r.partners, partner)
	delete(r.sessions, userID)
	delete(r.sessions, partner)
	return partner, sessionID, nil
}

// PartnerOf is a read-only partner lookup.
func (r *SessionRegistry) PartnerOf(userID int64) (int64, bool) {
	partner, ok := r.partners[userID]
	return partner, ok
}

// SessionOf returns the session ID the user is part of, if any.
func (r *SessionRegistry) SessionOf(userID int64) (string, bool) {
	id, ok := r.sessions[userID]
	return id, ok
}

// Len returns the number of entries (twice the active session count).
func (r *SessionRegistry) Len() int {
	return len(r.partners)
}

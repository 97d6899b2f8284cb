package matchmaker

import "errors"

var (
	// ErrAlreadyInSession is returned when a paired user tries to search.
	ErrAlreadyInSession = errors.New("already in an active chat")
	// ErrAlreadySearching is returned when a waiting user searches again.
	ErrAlreadySearching = errors.New("already in the waiting list")
	// ErrAlreadyPaired signals a pairing attempt on a user that already has
	// a partner. The state machine never produces it for well-behaved
	// callers; seeing it means an invariant was broken.
	ErrAlreadyPaired = errors.New("user already paired")
	// ErrNotInSession is returned when there is no session to act on.
	ErrNotInSession = errors.New("not in a chat")
	// ErrNotSearching is returned when there is no search to cancel.
	ErrNotSearching = errors.New("not searching")
	// ErrInvalidRatingScore is returned for scores outside the 1-10 range.
	ErrInvalidRatingScore = errors.New("rating score out of range")
	// ErrUnknownRatingToken is returned for expired or fabricated tokens.
	ErrUnknownRatingToken = errors.New("unknown rating token")
)

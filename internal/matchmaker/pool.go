package matchmaker

import "math"

// MatchPolicy selects how a partner is picked from the waiting pool.
type MatchPolicy int

const (
	// PolicyFIFO pairs with the earliest-inserted waiting user.
	PolicyFIFO MatchPolicy = iota
	// PolicyClosestRating pairs with the waiting user whose average rating
	// is closest to the requester's, earliest insertion breaking ties.
	PolicyClosestRating
)

// WaitingPool is the ordered set of users currently seeking a partner.
// Insertion order is meaningful: FIFO selection and rating tie-breaks
// both follow it. Not safe for concurrent use; the matchmaker's mutex
// guards it.
type WaitingPool struct {
	order   []int64
	members map[int64]struct{}
}

func NewWaitingPool() *WaitingPool {
	return &WaitingPool{members: make(map[int64]struct{})}
}

// Add inserts a user. Returns false without changes if already present.
func (p *WaitingPool) Add(userID int64) bool {
	if _, ok := p.members[userID]; ok {
		return false
	}
	p.members[userID] = struct{}{}
	p.order = append(p.order, userID)
	return true
}

// Remove deletes a user and reports whether they were present.
func (p *WaitingPool) Remove(userID int64) bool {
	if _, ok := p.members[userID]; !ok {
		return false
	}
	delete(p.members, userID)
	for i, id := range p.order {
		if id == userID {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports pool membership.
func (p *WaitingPool) Contains(userID int64) bool {
	_, ok := p.members[userID]
	return ok
}

// Len returns the number of waiting users.
func (p *WaitingPool) Len() int {
	return len(p.order)
}

// SelectMatch picks a partner candidate for the requester under the given
// policy. The requester is never selected. Selection does not remove the
// candidate; the caller removes it once the pairing is committed.
// ratingOf is consulted only under PolicyClosestRating.
func (p *WaitingPool) SelectMatch(requester int64, policy MatchPolicy, ratingOf func(int64) float64) (int64, bool) {
	switch policy {
	case PolicyClosestRating:
		want := ratingOf(requester)
		best := int64(0)
		bestDiff := math.Inf(1)
		found := false
		for _, id := range p.order {
			if id == requester {
				continue
			}
			diff := math.Abs(want - ratingOf(id))
			if diff < bestDiff {
				best, bestDiff, found = id, diff, true
			}
		}
		return best, found
	default: // PolicyFIFO
		for _, id := range p.order {
			if id != requester {
				return id, true
			}
		}
		return 0, false
	}
}

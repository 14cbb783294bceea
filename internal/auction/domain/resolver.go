package domain

import "bytes"

// ResolvePolicy selects the winner-selection variant.
type ResolvePolicy int

const (
	// PolicyLowest is the canonical rule: lowest amount wins, ties broken by
	// earliest CreatedAt.
	PolicyLowest ResolvePolicy = iota
	// PolicyLowestUnique is the documented alternative: a tied amount
	// disqualifies every bid carrying it, and the search continues to the
	// next distinct amount. Selectable via WINNER_POLICY, off by default.
	PolicyLowestUnique
)

// ResolveWinner picks the winning bid from a snapshot, or nil when no bid
// qualifies. Pure and deterministic: for a fixed multiset of bids the result
// does not depend on input order. Non-positive amounts are ignored.
func ResolveWinner(bids []*Bid, policy ResolvePolicy) *Bid {
	if policy == PolicyLowestUnique {
		return resolveLowestUnique(bids)
	}
	return resolveLowest(bids)
}

func resolveLowest(bids []*Bid) *Bid {
	var winner *Bid
	for _, b := range bids {
		if b.Amount <= 0 {
			continue
		}
		if winner == nil || better(b, winner) {
			winner = b
		}
	}
	return winner
}

// better reports whether a beats b under the canonical rule. Equal
// timestamps fall through to an id comparison so the result is total.
func better(a, b *Bid) bool {
	if a.Amount != b.Amount {
		return a.Amount < b.Amount
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}

func resolveLowestUnique(bids []*Bid) *Bid {
	counts := make(map[float64]int, len(bids))
	for _, b := range bids {
		if b.Amount <= 0 {
			continue
		}
		counts[b.Amount]++
	}

	var winner *Bid
	for _, b := range bids {
		if b.Amount <= 0 || counts[b.Amount] != 1 {
			continue
		}
		if winner == nil || b.Amount < winner.Amount {
			winner = b
		}
	}
	return winner
}

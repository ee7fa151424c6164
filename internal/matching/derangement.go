package matching

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/manitto-app/manitto-server/internal/domain"
)

// DefaultMaxAttempts bounds the rejection-sampling loop. A random
// permutation is fixed-point-free with probability ≈ 1/e, so the expected
// number of shuffles is ≈ 2.72 regardless of room size; the cap only
// matters for inputs no derangement can satisfy.
const DefaultMaxAttempts = 1000

// Matcher produces anonymous giver assignments for a set of room members.
// It is pure: no I/O, randomness from math/rand only.
type Matcher struct {
	// MaxAttempts caps shuffle retries. Zero or negative means
	// DefaultMaxAttempts.
	MaxAttempts int
}

func New(maxAttempts int) Matcher {
	return Matcher{MaxAttempts: maxAttempts}
}

// Assign returns a mapping memberID → assigned manitto such that the
// mapping is a bijection over memberIDs with no fixed point. Fewer than
// two members can never satisfy that and fail with KindInsufficientMembers
// before any shuffle.
func (m Matcher) Assign(memberIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	if len(memberIDs) < 2 {
		return nil, domain.E(domain.KindInsufficientMembers,
			fmt.Sprintf("cannot match a room with %d member(s), need at least 2", len(memberIDs)))
	}

	seen := make(map[uuid.UUID]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		if _, ok := seen[id]; ok {
			return nil, domain.E(domain.KindValidation, "member ids must be distinct: "+id.String())
		}
		seen[id] = struct{}{}
	}

	maxAttempts := m.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	shuffled := make([]uuid.UUID, len(memberIDs))
	copy(shuffled, memberIDs)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		if hasFixedPoint(memberIDs, shuffled) {
			continue
		}

		assignment := make(map[uuid.UUID]uuid.UUID, len(memberIDs))
		for i, id := range memberIDs {
			assignment[id] = shuffled[i]
		}
		return assignment, nil
	}

	return nil, domain.E(domain.KindDerangementUnreachable,
		fmt.Sprintf("no fixed-point-free permutation found after %d attempts", maxAttempts))
}

func hasFixedPoint(original []uuid.UUID, shuffled []uuid.UUID) bool {
	for i := range original {
		if original[i] == shuffled[i] {
			return true
		}
	}
	return false
}

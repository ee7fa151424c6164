package matching

import (
	"testing"

	"github.com/google/uuid"
	"github.com/manitto-app/manitto-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemberIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func TestAssignNoFixedPoints(t *testing.T) {
	m := New(0)

	// 11 trials per size over sizes 2..100 gives 1089 trials total.
	for size := 2; size <= 100; size++ {
		ids := newMemberIDs(size)
		for trial := 0; trial < 11; trial++ {
			assignment, err := m.Assign(ids)
			require.NoError(t, err, "size %d trial %d", size, trial)
			require.Len(t, assignment, size)

			targets := make(map[uuid.UUID]struct{}, size)
			for _, id := range ids {
				target, ok := assignment[id]
				require.True(t, ok, "member %s missing from assignment", id)
				require.NotEqual(t, id, target, "member %s assigned to themselves", id)
				targets[target] = struct{}{}
			}
			// Bijection: every member shows up as a target exactly once.
			require.Len(t, targets, size)
		}
	}
}

func TestAssignTwoMembersSwap(t *testing.T) {
	ids := newMemberIDs(2)

	assignment, err := New(0).Assign(ids)
	require.NoError(t, err)

	assert.Equal(t, ids[1], assignment[ids[0]])
	assert.Equal(t, ids[0], assignment[ids[1]])
}

func TestAssignSingleMember(t *testing.T) {
	assignment, err := New(0).Assign(newMemberIDs(1))

	require.Error(t, err)
	assert.Nil(t, assignment)
	assert.Equal(t, domain.KindInsufficientMembers, domain.KindOf(err))
}

func TestAssignNoMembers(t *testing.T) {
	_, err := New(0).Assign(nil)

	require.Error(t, err)
	assert.Equal(t, domain.KindInsufficientMembers, domain.KindOf(err))
}

func TestAssignDuplicateMembers(t *testing.T) {
	id := uuid.New()
	_, err := New(0).Assign([]uuid.UUID{id, id, uuid.New()})

	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestAssignIsStableAcrossInputOrder(t *testing.T) {
	// The mapping keys must always be exactly the input set, whatever the
	// input order was.
	ids := newMemberIDs(10)
	reversed := make([]uuid.UUID, len(ids))
	for i, id := range ids {
		reversed[len(ids)-1-i] = id
	}

	assignment, err := New(0).Assign(reversed)
	require.NoError(t, err)

	for _, id := range ids {
		assert.Contains(t, assignment, id)
	}
}

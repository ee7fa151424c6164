package code

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/manitto-app/manitto-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func neverExists(ctx context.Context, code string) (bool, error) {
	return false, nil
}

func TestGenerateFormat(t *testing.T) {
	g := New(0, 0)
	pattern := regexp.MustCompile(`^U[A-Za-z0-9]{7}$`)

	for i := 0; i < 100; i++ {
		code, err := g.Generate(context.Background(), "U", neverExists)
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

func TestGenerateRespectsConfiguredLength(t *testing.T) {
	g := New(10, 0)

	code, err := g.Generate(context.Background(), "R", neverExists)
	require.NoError(t, err)
	assert.Regexp(t, `^R[A-Za-z0-9]{10}$`, code)
}

func TestGenerateRetriesOnCollision(t *testing.T) {
	calls := 0
	exists := func(ctx context.Context, code string) (bool, error) {
		calls++
		return calls <= 3, nil
	}

	code, err := New(0, 0).Generate(context.Background(), "R", exists)

	require.NoError(t, err)
	assert.Equal(t, 4, calls)
	assert.Regexp(t, `^R[A-Za-z0-9]{7}$`, code)
}

func TestGenerateExhausted(t *testing.T) {
	calls := 0
	alwaysExists := func(ctx context.Context, code string) (bool, error) {
		calls++
		return true, nil
	}

	code, err := New(0, 0).Generate(context.Background(), "U", alwaysExists)

	require.Error(t, err)
	assert.Empty(t, code)
	assert.Equal(t, domain.KindCodeGenerationExhausted, domain.KindOf(err))
	assert.Equal(t, DefaultMaxAttempts, calls, "must never exceed the retry bound")
}

func TestGeneratePropagatesCheckError(t *testing.T) {
	checkErr := errors.New("connection refused")
	exists := func(ctx context.Context, code string) (bool, error) {
		return false, checkErr
	}

	_, err := New(0, 0).Generate(context.Background(), "U", exists)

	require.ErrorIs(t, err, checkErr)
}

func TestGenerateStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	exists := func(ctx context.Context, code string) (bool, error) {
		calls++
		return false, nil
	}

	_, err := New(0, 0).Generate(ctx, "U", exists)

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

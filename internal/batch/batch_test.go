package batch

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"shannon/internal/entropy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRun_PreservesOrder(t *testing.T) {
	lines := make([]string, 200)
	for i := range lines {
		lines[i] = strings.Repeat("a", i+1) + strings.Repeat("b", i%7)
	}

	results, err := Run(context.Background(), lines, 8)
	require.NoError(t, err)
	require.Len(t, results, len(lines))

	for i, r := range results {
		want, err := entropy.Compute(lines[i])
		require.NoError(t, err)
		assert.Equal(t, i+1, r.Line)
		assert.Equal(t, want, r.Value, "line %d", i+1)
		assert.NoError(t, r.Err)
	}
}

func TestRun_EmptyLinesReportedPerLine(t *testing.T) {
	results, err := Run(context.Background(), []string{"ab", "", "aabb", ""}, 2)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.InDelta(t, 1.0, results[0].Value, 1e-12)
	assert.ErrorIs(t, results[1].Err, entropy.ErrInvalidInput)
	assert.InDelta(t, 1.0, results[2].Value, 1e-12)
	assert.ErrorIs(t, results[3].Err, entropy.ErrInvalidInput)
	assert.Equal(t, 2, Failed(results))
}

func TestRun_NonPositiveWorkers(t *testing.T) {
	for _, workers := range []int{0, -3} {
		t.Run(fmt.Sprint(workers), func(t *testing.T) {
			results, err := Run(context.Background(), []string{"abc", "zz"}, workers)
			require.NoError(t, err)
			assert.Len(t, results, 2)
			assert.Equal(t, 0, Failed(results))
		})
	}
}

func TestRun_NoLines(t *testing.T) {
	results, err := Run(context.Background(), nil, 4)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := Run(ctx, []string{"a", "b", "c"}, 2)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}

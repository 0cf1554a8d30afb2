package async_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"snapgram/pkg/async"
)

var testErr = errors.New("boom")

func TestParallelMap(t *testing.T) {
	t.Parallel()

	t.Run("preserves order", func(t *testing.T) {
		t.Parallel()

		results := async.ParallelMap(context.Background(), 4, []int{1, 2, 3, 4, 5}, func(_ context.Context, n int) (int, error) {
			return n * 10, nil
		})

		require.Equal(t, []int{10, 20, 30, 40, 50}, async.Values(results))
	})

	t.Run("failures stay with their item", func(t *testing.T) {
		t.Parallel()

		results := async.ParallelMap(context.Background(), 2, []int{1, 2, 3}, func(_ context.Context, n int) (int, error) {
			if n == 2 {
				return 0, testErr
			}
			return n, nil
		})

		require.Len(t, results, 3)
		require.NoError(t, results[0].Err)
		require.ErrorIs(t, results[1].Err, testErr)
		require.NoError(t, results[2].Err)

		require.Equal(t, []int{1, 3}, async.Values(results))
	})

	t.Run("respects the concurrency bound", func(t *testing.T) {
		t.Parallel()

		var running, peak atomic.Int32

		async.ParallelMap(context.Background(), 3, make([]int, 20), func(_ context.Context, n int) (int, error) {
			current := running.Add(1)
			defer running.Add(-1)

			for {
				observed := peak.Load()
				if current <= observed || peak.CompareAndSwap(observed, current) {
					break
				}
			}
			return n, nil
		})

		require.LessOrEqual(t, peak.Load(), int32(3))
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		results := async.ParallelMap(context.Background(), 4, []int{}, func(_ context.Context, n int) (int, error) {
			return n, nil
		})
		require.Empty(t, results)
	})
}

func TestResult(t *testing.T) {
	t.Parallel()

	value, err := async.NewResult(42, nil).Unpack()
	require.NoError(t, err)
	require.Equal(t, 42, value)

	_, err = async.NewResult(0, testErr).Unpack()
	require.ErrorIs(t, err, testErr)
}

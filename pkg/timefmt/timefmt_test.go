package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMultiFormatDateString(t *testing.T) {
	t.Parallel()

	now := time.Now()

	require.Equal(t, "Just now", multiFormat(now, now))
	require.Contains(t, multiFormat(now.Add(-5*time.Minute), now), "min")
	require.Contains(t, multiFormat(now.Add(-2*time.Hour), now), "hour")
	require.Contains(t, multiFormat(now.Add(-3*24*time.Hour), now), "day")
	require.Equal(t, "1 hour ago", multiFormat(now.Add(-90*time.Minute), now))
	require.Regexp(t, `^\d{1,2}/\d{1,2}/\d{4}$`, multiFormat(now.Add(-8*24*time.Hour), now))
}

func TestMultiFormatDateStringOldDate(t *testing.T) {
	t.Parallel()

	old := time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "1/15/2023", multiFormat(old, old.Add(365*24*time.Hour)))
}

package timezone_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio/shared/timezone"
)

func useLocation(t *testing.T, name string) {
	t.Helper()

	previous := timezone.GetLocation().String()
	require.NoError(t, timezone.SetLocation(name))

	t.Cleanup(func() {
		_ = timezone.SetLocation(previous)
	})
}

func TestSetLocation(t *testing.T) {
	useLocation(t, "Asia/Jakarta")

	assert.Equal(t, "Asia/Jakarta", timezone.GetLocation().String())
	assert.Equal(t, "Asia/Jakarta", timezone.Now().Location().String())

	assert.Error(t, timezone.SetLocation("Mars/Olympus_Mons"))
	assert.Equal(t, "Asia/Jakarta", timezone.GetLocation().String())
}

func TestParseAndFormat(t *testing.T) {
	useLocation(t, "Asia/Jakarta")

	parsed, err := timezone.Parse(time.DateTime, "2030-03-14 09:00:00")
	require.NoError(t, err)

	assert.Equal(t, 2, parsed.UTC().Hour())
	assert.Equal(t, "2030-03-14 09:00", timezone.Format(parsed.UTC(), "2006-01-02 15:04"))

	_, err = timezone.Parse(time.DateOnly, "14/03/2030")
	assert.Error(t, err)
}

func TestStartOfDay(t *testing.T) {
	useLocation(t, "Asia/Jakarta")

	// 20:30 UTC is already the next day in Jakarta.
	input := time.Date(2030, 3, 14, 20, 30, 0, 0, time.UTC)

	got := timezone.StartOfDay(input)

	assert.Equal(t, time.Date(2030, 3, 15, 0, 0, 0, 0, timezone.GetLocation()), got)
	assert.True(t, timezone.Today().Equal(timezone.StartOfDay(timezone.Now())))
}

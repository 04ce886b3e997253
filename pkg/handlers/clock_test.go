package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

func TestClockCurrentTime(t *testing.T) {
	c := NewClock("UTC", nil)
	c.now = func() time.Time { return fixedTime }

	resp, err := c.CurrentTime(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, resp.Content, 1)
	assert.Equal(t, "The current time is Tuesday, March 5, 2024 at 2:07:09 PM UTC", resp.Content[0].Text)
}

func TestClockFormatInZone(t *testing.T) {
	c := NewClock("America/New_York", nil)
	if _, err := time.LoadLocation("America/New_York"); err != nil {
		t.Skip("tzdata not available")
	}
	assert.Equal(t, "Tuesday, March 5, 2024 at 9:07:09 AM EST", c.Format(fixedTime))
}

func TestClockFallsBackOnUnknownZone(t *testing.T) {
	c := NewClock("Not/A_Zone", nil)
	c.now = func() time.Time { return fixedTime }

	resp, err := c.CurrentTime(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "The current time is 2024-03-05T14:07:09Z", resp.Content[0].Text)
}

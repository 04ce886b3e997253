package handlers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/BearHuddleston/gemini-mcp-server/pkg/mcp"
)

// CurrentTimeLayout renders weekday, full date, time and zone abbreviation.
const CurrentTimeLayout = "Monday, January 2, 2006 at 3:04:05 PM MST"

// Clock implements get_current_time.
type Clock struct {
	now      func() time.Time
	timezone string
	logger   *slog.Logger
}

// NewClock returns a clock reporting time in timezone, an IANA name. An empty
// timezone means the process's local zone.
func NewClock(timezone string, logger *slog.Logger) *Clock {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Clock{now: time.Now, timezone: timezone, logger: logger}
}

// CurrentTime reports the current time. It never fails.
func (c *Clock) CurrentTime(ctx context.Context, args map[string]any) (mcp.ToolResponse, error) {
	return mcp.TextResponse("The current time is " + c.Format(c.now())), nil
}

// Format renders t with CurrentTimeLayout in the clock's zone, falling back to
// an RFC 3339 UTC timestamp when the zone cannot be loaded.
func (c *Clock) Format(t time.Time) string {
	loc, err := c.location()
	if err != nil {
		c.logger.Warn("time zone unavailable, using UTC timestamp", "timezone", c.timezone, "error", err)
		return t.UTC().Format(time.RFC3339)
	}
	text := t.In(loc).Format(CurrentTimeLayout)
	if strings.TrimSpace(text) == "" {
		return t.UTC().Format(time.RFC3339)
	}
	return text
}

func (c *Clock) location() (*time.Location, error) {
	if c.timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.timezone)
}

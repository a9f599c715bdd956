package styles

import (
	"fmt"
	"time"
)

// CountBadge renders "n noun" with a plural s when n is not one.
func (t *Theme) CountBadge(n int, noun string) string {
	if n != 1 {
		noun += "s"
	}
	return t.BadgeMuted.Render(fmt.Sprintf("%d %s", n, noun))
}

// WindowBadge renders a window id.
func (t *Theme) WindowBadge(id string) string {
	return t.Badge.Render(IconWindow + " " + id)
}

// MutedBadge renders text in the muted badge style.
func (t *Theme) MutedBadge(text string) string {
	return t.BadgeMuted.Render(text)
}

// ageSteps maps an age threshold to its unit, largest first.
var ageSteps = []struct {
	unit time.Duration
	tag  string
}{
	{365 * 24 * time.Hour, "y"},
	{30 * 24 * time.Hour, "mo"},
	{7 * 24 * time.Hour, "w"},
	{24 * time.Hour, "d"},
	{time.Hour, "h"},
	{time.Minute, "m"},
}

// TabAge formats how long ago a tab was created, relative to now.
func TabAge(created, now time.Time) string {
	age := now.Sub(created)
	for _, s := range ageSteps {
		if age >= s.unit {
			return fmt.Sprintf("%d%s ago", int(age/s.unit), s.tag)
		}
	}
	return "just now"
}

// README: Human-readable "time since creation" formatting for pending requests.
package requests

import (
	"fmt"
	"time"
)

// Elapsed renders the time since createdAt using the largest applicable
// unit pair. A zero or future createdAt yields "" so a bad timestamp from
// the gateway never breaks the display.
func Elapsed(now, createdAt time.Time) string {
	if createdAt.IsZero() || createdAt.After(now) {
		return ""
	}
	d := now.Sub(createdAt)
	switch {
	case d >= time.Hour:
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		return fmt.Sprintf("%dh %dm", h, m)
	case d >= time.Minute:
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
}

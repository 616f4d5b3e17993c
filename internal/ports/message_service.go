package ports

import (
	"context"
	"strings"
	"time"
)

const DefaultContextLimit = 50

// ContextWindow is the oldest-first slice of a user's history sent to the AI.
type ContextWindow struct {
	Handle  string          `json:"handle"`
	Entries []StoredMessage `json:"entries"`
}

const contextTimeLayout = "2006-01-02 15:04"

// Render joins entries as "<timestamp> - <text>" lines.
func (w ContextWindow) Render() string {
	lines := make([]string, 0, len(w.Entries))
	for _, m := range w.Entries {
		lines = append(lines, m.CreatedAt.Format(contextTimeLayout)+" - "+m.Text)
	}
	return strings.Join(lines, "\n")
}

type MessageService interface {
	SaveMessage(ctx context.Context, userHandle, text string) error
	GetContext(ctx context.Context, userHandle string, limit int) (ContextWindow, error)
}

// RetryPolicy for message writes: Attempts tries, sleeping Step*attempt
// after each transient failure.
type RetryPolicy struct {
	Attempts int
	Step     time.Duration
}

var DefaultRetryPolicy = RetryPolicy{Attempts: 3, Step: 3 * time.Second}

package client

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// History keeps the ids of settlements the user has created, newest first.
// Refresh drops ids the server no longer knows about, so the list converges
// on live records as settlements expire and get swept.
type History struct {
	mu  sync.Mutex
	ids []string
}

// NewHistory creates a History pre-populated with ids, newest first.
func NewHistory(ids ...string) *History {
	return &History{ids: slices.Clone(ids)}
}

// Add records an id at the front of the history. Duplicates move to the front.
func (h *History) Add(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.ids = slices.DeleteFunc(h.ids, func(s string) bool { return s == id })
	h.ids = append([]string{id}, h.ids...)
}

// IDs returns a copy of the tracked ids, newest first.
func (h *History) IDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.ids)
}

// Refresh re-fetches every tracked settlement and prunes the ids that are
// gone or unknown. It returns the live settlements in history order. Any
// other error aborts the refresh with the history unchanged.
func (h *History) Refresh(ctx context.Context, c *Client) ([]*Settlement, error) {
	ids := h.IDs()

	live := make([]*Settlement, 0, len(ids))
	keep := make([]string, 0, len(ids))
	for _, id := range ids {
		rec, err := c.Get(ctx, id)
		switch {
		case err == nil:
			live = append(live, rec)
			keep = append(keep, id)
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrGone):
			// Swept or expired, drop it.
		default:
			return nil, err
		}
	}

	h.mu.Lock()
	h.ids = keep
	h.mu.Unlock()
	return live, nil
}

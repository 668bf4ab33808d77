// Package notify holds the local notification state for the current user.
package notify

import (
	"context"
	"fmt"
	"os"

	"github.com/devlog/devlog-cli/internal/api"
	"github.com/devlog/devlog-cli/internal/model"
)

// Feed caches the last fetched notification list and an optimistic read
// overlay. Reads marked locally show as read immediately; the next full
// fetch reconciles with the backend, and the server's state wins so a
// silently failed mark-read call can never diverge forever.
type Feed struct {
	client      *api.Client
	items       []model.Notification
	pendingRead map[string]bool
}

// NewFeed creates an empty feed backed by the given client.
func NewFeed(client *api.Client) *Feed {
	return &Feed{
		client:      client,
		pendingRead: map[string]bool{},
	}
}

// Refresh fetches the list and fully replaces local state — no incremental
// merge. The optimistic overlay is dropped: whatever the server says about
// read-state is now the truth.
func (f *Feed) Refresh(ctx context.Context) error {
	items, err := f.client.Notifications(ctx)
	if err != nil {
		return err
	}
	f.items = items
	f.pendingRead = map[string]bool{}
	return nil
}

// Items returns the notifications with the optimistic overlay applied, in
// backend order (most recent first).
func (f *Feed) Items() []model.Notification {
	out := make([]model.Notification, len(f.items))
	copy(out, f.items)
	for i := range out {
		if f.pendingRead[out[i].ID] {
			out[i].Read = true
		}
	}
	return out
}

// UnreadCount is derived from the overlaid items and recomputed on every
// call.
func (f *Feed) UnreadCount() int {
	n := 0
	for _, item := range f.Items() {
		if !item.Read {
			n++
		}
	}
	return n
}

// MarkRead flips the notification's read flag locally right away, then fires
// the backend call. The call's failure is deliberately swallowed — read
// state is best-effort and the next Refresh reconciles it. Marking an
// already-read notification is a harmless no-op call.
func (f *Feed) MarkRead(ctx context.Context, id string) {
	f.pendingRead[id] = true
	if err := f.client.MarkNotificationRead(ctx, id); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not mark notification %s read: %v\n", id, err)
	}
}

// Package pins mirrors the server's saved-listing set and mutates it
// optimistically: membership flips before the network call settles, and is
// rolled back if the call fails, so the mirror never permanently diverges
// from server truth.
package pins

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"

	"github.com/dukerupert/jobdeck/internal/api"
	"github.com/dukerupert/jobdeck/internal/model"
)

// ErrToggleInProgress rejects a second toggle for a listing whose previous
// toggle has not settled. Toggles for different listings are independent.
var ErrToggleInProgress = errors.New("a pin change for this listing is already in flight")

// Syncer holds the local pinned set. Safe for concurrent use.
// The set is empty and untrustworthy until the first Reconcile.
type Syncer struct {
	client *api.Client

	mu       sync.Mutex
	ids      map[int]struct{}
	inflight map[int]struct{}
}

func NewSyncer(client *api.Client) *Syncer {
	return &Syncer{
		client:   client,
		ids:      make(map[int]struct{}),
		inflight: make(map[int]struct{}),
	}
}

type saveRequest struct {
	JobID int `json:"job_id"`
}

// Reconcile replaces the local set wholesale with the server's saved-listing
// ids. Idempotent; a reconcile racing a toggle may clobber the toggle's
// local effect, which the next reconcile or toggle self-corrects.
func (s *Syncer) Reconcile(ctx context.Context) error {
	records, err := s.Saved(ctx)
	if err != nil {
		return err
	}

	next := make(map[int]struct{}, len(records))
	for _, r := range records {
		next[r.ListingID()] = struct{}{}
	}

	s.mu.Lock()
	s.ids = next
	s.mu.Unlock()
	return nil
}

// Saved fetches the full save records, normalized so ListingID is usable
// whichever id field the server populated.
func (s *Syncer) Saved(ctx context.Context) ([]model.SavedListing, error) {
	raw, err := s.client.Do(ctx, http.MethodGet, "/saved-jobs", nil)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var records []model.SavedListing
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode saved listings: %w", err)
	}
	return records, nil
}

// Toggle flips membership for id: pin if absent, unpin if present. The local
// set is mutated before the network call so callers see the change with zero
// latency; on failure the prior membership is restored and the error
// returned. Returns whether the listing is pinned after the call settles.
func (s *Syncer) Toggle(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	if _, busy := s.inflight[id]; busy {
		_, pinned := s.ids[id]
		s.mu.Unlock()
		return pinned, ErrToggleInProgress
	}
	_, wasPinned := s.ids[id]
	if wasPinned {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
	s.inflight[id] = struct{}{}
	s.mu.Unlock()

	var err error
	if wasPinned {
		_, err = s.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/saved-jobs/%d", id), nil)
	} else {
		_, err = s.client.Do(ctx, http.MethodPost, "/saved-jobs", saveRequest{JobID: id})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, id)
	if err != nil {
		// Compensate: restore the pre-toggle membership.
		if wasPinned {
			s.ids[id] = struct{}{}
		} else {
			delete(s.ids, id)
		}
		return wasPinned, err
	}
	return !wasPinned, nil
}

// Pinned reports local membership for id.
func (s *Syncer) Pinned(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// IDs returns the local pinned ids in ascending order.
func (s *Syncer) IDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Package jobs translates sparse search criteria into the service's query
// parameters and fetches matching listings.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dukerupert/jobdeck/internal/api"
	"github.com/dukerupert/jobdeck/internal/model"
)

// Criteria is a transient search filter. Zero-valued fields are omitted from
// the outgoing query so they never over-constrain server-side filtering.
// Remote is a tri-state: nil contributes no parameter at all, which is not
// the same as an explicit remote=false.
type Criteria struct {
	Phrase   string
	Location string
	Remote   *bool
}

type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Search fetches listings matching criteria, in server-provided order.
// Every call is a fresh fetch; nothing is cached. criteria may be nil.
func (s *Service) Search(ctx context.Context, criteria *Criteria) ([]model.Listing, error) {
	raw, err := s.client.Do(ctx, http.MethodGet, "/jobs"+buildQuery(criteria), nil)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var listings []model.Listing
	if err := json.Unmarshal(raw, &listings); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	return listings, nil
}

func buildQuery(criteria *Criteria) string {
	if criteria == nil {
		return ""
	}

	params := url.Values{}
	if criteria.Phrase != "" {
		params.Set("q", criteria.Phrase)
	}
	if criteria.Location != "" {
		params.Set("location", criteria.Location)
	}
	if criteria.Remote != nil {
		params.Set("remote", strconv.FormatBool(*criteria.Remote))
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}

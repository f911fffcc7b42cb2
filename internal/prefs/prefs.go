// Package prefs synchronizes the user's preference record. The record is
// fetched and persisted whole; the client-held copy is the source of truth
// at the moment of save.
package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dukerupert/jobdeck/internal/api"
	"github.com/dukerupert/jobdeck/internal/model"
)

type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Fetch retrieves the preference record. Fields the server omitted come back
// as zero values; list fields are never nil.
func (s *Service) Fetch(ctx context.Context) (model.Preferences, error) {
	raw, err := s.client.Do(ctx, http.MethodGet, "/preferences", nil)
	if err != nil {
		return model.Preferences{}, err
	}

	var p model.Preferences
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			return model.Preferences{}, fmt.Errorf("decode preferences: %w", err)
		}
	}
	normalize(&p)
	return p, nil
}

// Persist replaces the remote record with p. No merge with prior server
// state. Returns the record as the server now holds it.
func (s *Service) Persist(ctx context.Context, p model.Preferences) (model.Preferences, error) {
	normalize(&p)
	raw, err := s.client.Do(ctx, http.MethodPut, "/preferences", p)
	if err != nil {
		return model.Preferences{}, err
	}

	var saved model.Preferences
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &saved); err != nil {
			return model.Preferences{}, fmt.Errorf("decode preferences: %w", err)
		}
	}
	normalize(&saved)
	return saved, nil
}

func normalize(p *model.Preferences) {
	if p.Keywords == nil {
		p.Keywords = []string{}
	}
	if p.Locations == nil {
		p.Locations = []string{}
	}
	if p.JobTypes == nil {
		p.JobTypes = []string{}
	}
}

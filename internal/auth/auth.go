// Package auth performs credential operations and keeps the vault in step
// with the service: a successful login or registration archives the returned
// ticket, logout erases it.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dukerupert/jobdeck/internal/api"
	"github.com/dukerupert/jobdeck/internal/model"
	"github.com/dukerupert/jobdeck/internal/vault"
)

type Service struct {
	client *api.Client
	vault  *vault.Store
}

func NewService(client *api.Client, v *vault.Store) *Service {
	return &Service{client: client, vault: v}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username,omitempty"`
}

// Login authenticates with email and password. The returned ticket, if any,
// is stored in the vault so subsequent requests carry it.
func (s *Service) Login(ctx context.Context, email, password string) (model.AuthResponse, error) {
	return s.authenticate(ctx, "/auth/login", credentials{Email: email, Password: password})
}

// Register creates an account and, like Login, archives the returned ticket.
func (s *Service) Register(ctx context.Context, email, password, username string) (model.AuthResponse, error) {
	return s.authenticate(ctx, "/auth/register", credentials{Email: email, Password: password, Username: username})
}

func (s *Service) authenticate(ctx context.Context, path string, creds credentials) (model.AuthResponse, error) {
	raw, err := s.client.Do(ctx, http.MethodPost, path, creds)
	if err != nil {
		return model.AuthResponse{}, err
	}

	var out model.AuthResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return model.AuthResponse{}, fmt.Errorf("decode auth response: %w", err)
		}
	}
	if out.AccessToken != "" {
		s.vault.SetTicket(out.AccessToken)
	}
	return out, nil
}

// Logout clears the stored ticket. Purely local; no network call.
func (s *Service) Logout() {
	s.vault.Clear()
}

// Me returns the account record for the current session.
func (s *Service) Me(ctx context.Context) (model.User, error) {
	raw, err := s.client.Do(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return model.User{}, fmt.Errorf("decode user: %w", err)
	}
	return user, nil
}

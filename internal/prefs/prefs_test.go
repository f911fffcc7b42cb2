package prefs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/dukerupert/jobdeck/internal/api"
	"github.com/dukerupert/jobdeck/internal/model"
	"github.com/dukerupert/jobdeck/internal/vault"
)

func newService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewService(api.New(api.Config{BaseURL: server.URL}, vault.New(nil, "")))
}

func TestFetchFillsMissingFields(t *testing.T) {
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A sparse record: only keywords present.
		w.Write([]byte(`{"keywords":["go"]}`))
	}))

	p, err := svc.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if !reflect.DeepEqual(p.Keywords, []string{"go"}) {
		t.Errorf("keywords = %v, want [go]", p.Keywords)
	}
	if p.Locations == nil || p.JobTypes == nil {
		t.Error("missing list fields came back nil")
	}
	if len(p.Locations) != 0 || len(p.JobTypes) != 0 {
		t.Errorf("missing list fields not empty: %v %v", p.Locations, p.JobTypes)
	}
	if p.RemotePreference || p.SalaryMin != 0 || p.EmailAlerts {
		t.Errorf("missing scalar fields not zero: %+v", p)
	}
}

func TestFetchEmptyBody(t *testing.T) {
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	p, err := svc.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if p.Keywords == nil || p.Locations == nil || p.JobTypes == nil {
		t.Error("empty response produced nil list fields")
	}
}

func TestPersistSendsWholeRecord(t *testing.T) {
	var sent map[string]json.RawMessage
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&sent); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"keywords":["go"],"locations":[],"job_types":[],"remote_preference":true,"salary_min":90000,"email_alerts":false}`))
	}))

	in := model.Preferences{
		Keywords:         []string{"go"},
		RemotePreference: true,
		SalaryMin:        90000,
	}
	saved, err := svc.Persist(context.Background(), in)
	if err != nil {
		t.Fatalf("persist: %v", err)
	}

	// Every field is on the wire, including zero-valued ones.
	for _, field := range []string{"keywords", "locations", "job_types", "remote_preference", "salary_min", "email_alerts"} {
		if _, ok := sent[field]; !ok {
			t.Errorf("field %q missing from persisted record", field)
		}
	}
	// nil lists are sent as [], not null.
	if string(sent["locations"]) != "[]" {
		t.Errorf("locations on the wire = %s, want []", sent["locations"])
	}

	if saved.SalaryMin != 90000 || !saved.RemotePreference {
		t.Errorf("saved = %+v", saved)
	}
}

func TestFetchPersistRoundTripUnchanged(t *testing.T) {
	const record = `{"keywords":["go","rust"],"locations":["Berlin"],"job_types":["full-time"],"remote_preference":true,"salary_min":80000,"email_alerts":true}`

	var stored model.Preferences
	if err := json.Unmarshal([]byte(record), &stored); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			if err := json.NewDecoder(r.Body).Decode(&stored); err != nil {
				t.Errorf("decode put: %v", err)
			}
		}
		json.NewEncoder(w).Encode(stored)
	}))

	fetched, err := svc.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if _, err := svc.Persist(context.Background(), fetched); err != nil {
		t.Fatalf("persist: %v", err)
	}

	after, err := svc.Fetch(context.Background())
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if !reflect.DeepEqual(fetched, after) {
		t.Errorf("round trip changed the record:\nbefore %+v\nafter  %+v", fetched, after)
	}
}

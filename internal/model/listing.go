package model

// Listing is a job posting as returned by the service. Read-only on the
// client; identity is the server-assigned ID.
type Listing struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	PostedAt    Timestamp `json:"posted_at"`
	URL         string    `json:"url,omitempty"`
	Remote      bool      `json:"remote,omitempty"`
	Salary      string    `json:"salary,omitempty"`
}

// SavedListing is a save record from /saved-jobs. Depending on the endpoint
// version it may carry the listing id as job_id, as id, or both.
type SavedListing struct {
	ID          int       `json:"id"`
	JobID       int       `json:"job_id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	PostedAt    Timestamp `json:"posted_at"`
	URL         string    `json:"url,omitempty"`
	Remote      bool      `json:"remote,omitempty"`
	Salary      string    `json:"salary,omitempty"`
}

// ListingID returns the id of the saved listing itself, preferring job_id
// over the save record's own primary key when both are present.
func (s SavedListing) ListingID() int {
	if s.JobID != 0 {
		return s.JobID
	}
	return s.ID
}

package model

// Preferences is the user's search preference record. It is fetched and
// persisted as a whole; there is no partial update.
type Preferences struct {
	Keywords         []string `json:"keywords"`
	Locations        []string `json:"locations"`
	JobTypes         []string `json:"job_types"`
	RemotePreference bool     `json:"remote_preference"`
	SalaryMin        int      `json:"salary_min"`
	EmailAlerts      bool     `json:"email_alerts"`
}

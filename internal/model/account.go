package model

// Account is a person who can sign in. ID is an email-like string.
type Account struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Password  string `json:"password"` // credential as produced by the configured authenticator
	TrackerID string `json:"trackerId"`
}

// Session points at the signed-in account and its tracker.
type Session struct {
	AccountID string `json:"accountId"`
	TrackerID string `json:"trackerId"`
}

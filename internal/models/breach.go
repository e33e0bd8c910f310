package models

import "time"

// Breach describes a known data breach. The ID is the breach name and is
// stable across sources, so repeated fetches upsert the same row.
type Breach struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Domain       string     `json:"domain,omitempty"`
	BreachDate   time.Time  `json:"breach_date"`
	AddedDate    time.Time  `json:"added_date"`
	ModifiedDate *time.Time `json:"modified_date,omitempty"`
	PwnCount     int64      `json:"pwn_count"`
	Description  string     `json:"description"`
	DataClasses  []string   `json:"data_classes"`
	IsVerified   bool       `json:"is_verified"`
	IsFabricated bool       `json:"is_fabricated"`
	IsSensitive  bool       `json:"is_sensitive"`
	IsRetired    bool       `json:"is_retired"`
	IsSpamList   bool       `json:"is_spam_list"`
	LogoPath     string     `json:"logo_path,omitempty"`
}

// Paste is a paste dump containing an email address.
type Paste struct {
	ID         string     `json:"id"`
	Source     string     `json:"source"`
	Title      string     `json:"title,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
	EmailCount int        `json:"email_count"`
}

// PwnedCheckResult is the outcome of an "am I pwned?" lookup for one email.
type PwnedCheckResult struct {
	Email     string    `json:"email"`
	IsPwned   bool      `json:"is_pwned"`
	Breaches  []Breach  `json:"breaches"`
	Pastes    []Paste   `json:"pastes,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

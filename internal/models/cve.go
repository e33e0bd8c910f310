package models

import "time"

// CVEEntry is a Common Vulnerabilities and Exposures record.
// Severity is always derived from CVSSScore, never taken from the wire.
type CVEEntry struct {
	ID               string    `json:"id"` // e.g. CVE-2024-1234
	Description      string    `json:"description"`
	PublishedDate    time.Time `json:"published_date"`
	LastModifiedDate time.Time `json:"last_modified_date"`
	CVSSScore        *float64  `json:"cvss_score,omitempty"` // 0.0 - 10.0
	Severity         Severity  `json:"severity"`
	AttackVector     string    `json:"attack_vector,omitempty"`
	AffectedProducts []string  `json:"affected_products"`
	References       []string  `json:"references"`
	ExploitAvailable bool      `json:"exploit_available"`
	PatchAvailable   bool      `json:"patch_available"`
}

// Severity is the CVSS severity band.
type Severity string

const (
	SeverityNone     Severity = "NONE"
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

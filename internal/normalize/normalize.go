// Package normalize maps raw remote and local values into the canonical
// domain shapes. Every function is pure and total: unparseable input falls
// back to a documented default instead of failing the record.
package normalize

import (
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/cyberpulse/pulse/internal/models"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// CleanHTML strips HTML tags, unescapes entities and collapses whitespace.
// Breach descriptions in particular arrive as HTML fragments.
func CleanHTML(input string) string {
	cleaned := htmlTagRegex.ReplaceAllString(input, " ")
	cleaned = html.UnescapeString(cleaned)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return strings.TrimSpace(cleaned)
}

// ParseTimestamp parses a full RFC 3339 date-time. On failure it falls back
// to the current instant; see ParseDate for date-only input.
func ParseTimestamp(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	// NVD omits the zone designator on its timestamps.
	if t, err := time.Parse("2006-01-02T15:04:05.000", s); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t.UTC()
	}
	return time.Now().UTC()
}

// ParseDate parses a timestamp that may lack a time component; date-only
// input is taken as midnight UTC. Falls back to the current instant on any
// parse failure.
func ParseDate(s string) time.Time {
	if !strings.Contains(s, "T") {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t.UTC()
		}
		return time.Now().UTC()
	}
	return ParseTimestamp(s)
}

// ResolveTag matches a free-text tag against the closed tag set, case
// insensitively, by internal name or display name. Spaces and hyphens are
// normalized to underscores before matching.
func ResolveTag(raw string) (models.Tag, bool) {
	norm := strings.ReplaceAll(strings.TrimSpace(raw), " ", "_")
	norm = strings.ReplaceAll(norm, "-", "_")
	for _, tag := range models.Tags {
		if strings.EqualFold(string(tag), norm) || strings.EqualFold(tag.DisplayName(), strings.TrimSpace(raw)) {
			return tag, true
		}
	}
	return "", false
}

// ResolveTags maps free-text tags to known tags, silently dropping anything
// that does not match.
func ResolveTags(raw []string) []models.Tag {
	tags := make([]models.Tag, 0, len(raw))
	for _, r := range raw {
		if tag, ok := ResolveTag(r); ok {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ResolveCategory matches a free-text category against the closed category
// set, defaulting to GENERAL.
func ResolveCategory(raw string) models.Category {
	norm := strings.ReplaceAll(strings.TrimSpace(raw), " ", "_")
	for _, cat := range models.Categories {
		if strings.EqualFold(string(cat), norm) {
			return cat
		}
	}
	return models.CategoryGeneral
}

// officialSources are government/authority names; checked before the verified
// outlet list, so an official match always wins.
var officialSources = []string{"NIST", "CISA", "FBI", "NSA", "CERT"}

var verifiedSources = []string{
	"The Hacker News", "BleepingComputer", "Krebs on Security",
	"Dark Reading", "SecurityWeek", "Threatpost",
	"Microsoft Security", "Google Security Blog",
}

// ClassifyReliability derives a source's reliability rank from its display
// name by substring match against fixed allow-lists.
func ClassifyReliability(sourceName string) models.Reliability {
	lower := strings.ToLower(sourceName)
	for _, s := range officialSources {
		if strings.Contains(lower, strings.ToLower(s)) {
			return models.ReliabilityOfficial
		}
	}
	for _, s := range verifiedSources {
		if strings.Contains(lower, strings.ToLower(s)) {
			return models.ReliabilityVerified
		}
	}
	return models.ReliabilityCommunity
}

// SeverityOf maps a CVSS base score to its severity band. A nil score means
// the severity is unknown.
func SeverityOf(score *float64) models.Severity {
	switch {
	case score == nil:
		return models.SeverityNone
	case *score >= 9.0:
		return models.SeverityCritical
	case *score >= 7.0:
		return models.SeverityHigh
	case *score >= 4.0:
		return models.SeverityMedium
	case *score >= 0.1:
		return models.SeverityLow
	default:
		return models.SeverityNone
	}
}

const maxAffectedProducts = 10

// ExtractProducts turns flattened CPE criteria strings into distinct product
// names, capped at 10 after dedup. A CPE 2.3 string looks like
// "cpe:2.3:a:vendor:product:version:..."; vendor and product are kept.
func ExtractProducts(criteria []string) []string {
	seen := make(map[string]struct{}, len(criteria))
	products := make([]string, 0, len(criteria))
	for _, c := range criteria {
		parts := strings.Split(c, ":")
		name := c
		if len(parts) >= 5 {
			name = parts[3] + " " + parts[4]
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		products = append(products, name)
		if len(products) == maxAffectedProducts {
			break
		}
	}
	return products
}

var cveIDRegex = regexp.MustCompile(`^CVE-\d{4}-\d+$`)

// IsCVEID reports whether s is a well-formed CVE identifier.
func IsCVEID(s string) bool {
	return cveIDRegex.MatchString(s)
}

// SourceID derives a stable source id from a display name.
func SourceID(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

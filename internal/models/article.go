package models

import "time"

// Article represents a cybersecurity news article.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Content     string    `json:"content,omitempty"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url,omitempty"`
	Source      Source    `json:"source"`
	Author      string    `json:"author,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Tags        []Tag     `json:"tags"`
	Category    Category  `json:"category"`
	Saved       bool      `json:"saved"`
	Read        bool      `json:"read"`
}

// Source identifies where an article came from.
type Source struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	IconURL     string      `json:"icon_url,omitempty"`
	Website     string      `json:"website"`
	Reliability Reliability `json:"reliability"`
}

// Reliability ranks how trustworthy a news source is.
type Reliability string

const (
	ReliabilityOfficial   Reliability = "OFFICIAL"   // government/vendor authorities
	ReliabilityVerified   Reliability = "VERIFIED"   // well-known security outlets
	ReliabilityCommunity  Reliability = "COMMUNITY"  // blogs, community sources
	ReliabilityUnverified Reliability = "UNVERIFIED"
)

// Category classifies an article into one of a closed set of topics.
type Category string

const (
	CategoryGeneral       Category = "GENERAL"
	CategoryBreach        Category = "BREACH"
	CategoryVulnerability Category = "VULNERABILITY"
	CategoryMalware       Category = "MALWARE"
	CategoryRansomware    Category = "RANSOMWARE"
	CategoryAPT           Category = "APT"
	CategoryPrivacy       Category = "PRIVACY"
	CategoryRegulatory    Category = "REGULATORY"
	CategoryTools         Category = "TOOLS"
	CategoryResearch      Category = "RESEARCH"
)

// Categories is the closed set used when resolving free-text category strings.
var Categories = []Category{
	CategoryGeneral, CategoryBreach, CategoryVulnerability, CategoryMalware,
	CategoryRansomware, CategoryAPT, CategoryPrivacy, CategoryRegulatory,
	CategoryTools, CategoryResearch,
}

// Tag is a smart tag attached to news articles.
type Tag string

const (
	TagRansomware   Tag = "RANSOMWARE"
	TagZeroDay      Tag = "ZERO_DAY"
	TagDataBreach   Tag = "DATA_BREACH"
	TagPatchTuesday Tag = "PATCH_TUESDAY"
	TagCVE          Tag = "CVE"
	TagPhishing     Tag = "PHISHING"
	TagAPT          Tag = "APT"
	TagMalware      Tag = "MALWARE"
	TagSupplyChain  Tag = "SUPPLY_CHAIN"
	TagCritical     Tag = "CRITICAL"
)

// tagDisplay maps each tag to its human-readable name.
var tagDisplay = map[Tag]string{
	TagRansomware:   "Ransomware",
	TagZeroDay:      "Zero-Day",
	TagDataBreach:   "Data Breach",
	TagPatchTuesday: "Patch Tuesday",
	TagCVE:          "CVE",
	TagPhishing:     "Phishing",
	TagAPT:          "APT",
	TagMalware:      "Malware",
	TagSupplyChain:  "Supply Chain",
	TagCritical:     "Critical",
}

// Tags is the closed set used when resolving free-text tag strings.
var Tags = []Tag{
	TagRansomware, TagZeroDay, TagDataBreach, TagPatchTuesday, TagCVE,
	TagPhishing, TagAPT, TagMalware, TagSupplyChain, TagCritical,
}

// DisplayName returns the human-readable name of the tag.
func (t Tag) DisplayName() string {
	if name, ok := tagDisplay[t]; ok {
		return name
	}
	return string(t)
}

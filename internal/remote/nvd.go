package remote

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/cyberpulse/pulse/internal/models"
	"github.com/cyberpulse/pulse/internal/normalize"
)

// NVDClient fetches CVE entries from a NIST NVD style API.
type NVDClient struct {
	client *resty.Client
}

func NewNVDClient(baseURL, apiKey string, timeout time.Duration) *NVDClient {
	client := newClient(baseURL, timeout)
	if apiKey != "" {
		client.SetHeader("apiKey", apiKey)
	}
	return &NVDClient{client: client}
}

type cveResponse struct {
	ResultsPerPage  int          `json:"resultsPerPage"`
	StartIndex      int          `json:"startIndex"`
	TotalResults    int          `json:"totalResults"`
	Vulnerabilities []cveItemDTO `json:"vulnerabilities"`
}

type cveItemDTO struct {
	CVE cveDataDTO `json:"cve"`
}

type cveDataDTO struct {
	ID             string             `json:"id"`
	Descriptions   []descriptionDTO   `json:"descriptions"`
	Published      string             `json:"published"`
	LastModified   string             `json:"lastModified"`
	Metrics        *metricsDTO        `json:"metrics"`
	References     []referenceDTO     `json:"references"`
	Configurations []configurationDTO `json:"configurations"`
}

type descriptionDTO struct {
	Lang  string `json:"lang"`
	Value string `json:"value"`
}

type metricsDTO struct {
	CvssV31 []cvssDTO `json:"cvssMetricV31"`
}

type cvssDTO struct {
	CvssData cvssDataDTO `json:"cvssData"`
}

type cvssDataDTO struct {
	BaseScore    float64 `json:"baseScore"`
	BaseSeverity string  `json:"baseSeverity"`
	AttackVector string  `json:"attackVector"`
}

type referenceDTO struct {
	URL string `json:"url"`
}

type configurationDTO struct {
	Nodes []nodeDTO `json:"nodes"`
}

type nodeDTO struct {
	CpeMatch []cpeMatchDTO `json:"cpeMatch"`
}

type cpeMatchDTO struct {
	Criteria string `json:"criteria"`
}

func (d cveItemDTO) toDomain() models.CVEEntry {
	var description string
	for _, desc := range d.CVE.Descriptions {
		if desc.Lang == "en" {
			description = desc.Value
			break
		}
	}

	var score *float64
	var attackVector string
	if d.CVE.Metrics != nil && len(d.CVE.Metrics.CvssV31) > 0 {
		data := d.CVE.Metrics.CvssV31[0].CvssData
		s := data.BaseScore
		score = &s
		attackVector = data.AttackVector
	}

	var criteria []string
	for _, cfg := range d.CVE.Configurations {
		for _, node := range cfg.Nodes {
			for _, match := range node.CpeMatch {
				criteria = append(criteria, match.Criteria)
			}
		}
	}

	references := make([]string, len(d.CVE.References))
	for i, ref := range d.CVE.References {
		references[i] = ref.URL
	}

	return models.CVEEntry{
		ID:               d.CVE.ID,
		Description:      description,
		PublishedDate:    normalize.ParseTimestamp(d.CVE.Published),
		LastModifiedDate: normalize.ParseTimestamp(d.CVE.LastModified),
		CVSSScore:        score,
		// Severity is recomputed from the score, never taken from
		// baseSeverity on the wire.
		Severity:         normalize.SeverityOf(score),
		AttackVector:     attackVector,
		AffectedProducts: normalize.ExtractProducts(criteria),
		References:       references,
	}
}

func cvesToDomain(resp cveResponse) []models.CVEEntry {
	entries := make([]models.CVEEntry, len(resp.Vulnerabilities))
	for i, v := range resp.Vulnerabilities {
		entries[i] = v.toDomain()
	}
	return entries
}

// Search queries CVEs by optional keyword and severity.
func (c *NVDClient) Search(ctx context.Context, keyword string, severity models.Severity, limit, offset int) ([]models.CVEEntry, error) {
	query := map[string]string{
		"resultsPerPage": itoa(limit),
		"startIndex":     itoa(offset),
	}
	if keyword != "" {
		query["keywordSearch"] = keyword
	}
	if severity != "" {
		query["cvssV3Severity"] = string(severity)
	}
	var resp cveResponse
	if err := getJSON(ctx, c.client, "nvd.search", "/cves/2.0", query, &resp); err != nil {
		return nil, err
	}
	return cvesToDomain(resp), nil
}

// GetByID fetches a single CVE, returning nil when the API knows no such id.
func (c *NVDClient) GetByID(ctx context.Context, cveID string) (*models.CVEEntry, error) {
	var resp cveResponse
	err := getJSON(ctx, c.client, "nvd.getById", "/cves/2.0",
		map[string]string{"cveId": cveID}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Vulnerabilities) == 0 {
		return nil, nil
	}
	entry := resp.Vulnerabilities[0].toDomain()
	return &entry, nil
}

// ListByProduct queries CVEs affecting a CPE name.
func (c *NVDClient) ListByProduct(ctx context.Context, cpeName string, limit int) ([]models.CVEEntry, error) {
	var resp cveResponse
	err := getJSON(ctx, c.client, "nvd.listByProduct", "/cves/2.0", map[string]string{
		"cpeName":        cpeName,
		"resultsPerPage": itoa(limit),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return cvesToDomain(resp), nil
}

package remote

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/cyberpulse/pulse/internal/models"
	"github.com/cyberpulse/pulse/internal/normalize"
)

// HIBPClient fetches breach data from a Have I Been Pwned style API.
type HIBPClient struct {
	client *resty.Client
}

func NewHIBPClient(baseURL, apiKey string, timeout time.Duration) *HIBPClient {
	client := newClient(baseURL, timeout)
	if apiKey != "" {
		client.SetHeader("hibp-api-key", apiKey)
	}
	return &HIBPClient{client: client}
}

type breachDTO struct {
	Name         string   `json:"Name"`
	Title        string   `json:"Title"`
	Domain       string   `json:"Domain"`
	BreachDate   string   `json:"BreachDate"`
	AddedDate    string   `json:"AddedDate"`
	ModifiedDate string   `json:"ModifiedDate"`
	PwnCount     int64    `json:"PwnCount"`
	Description  string   `json:"Description"`
	DataClasses  []string `json:"DataClasses"`
	IsVerified   bool     `json:"IsVerified"`
	IsFabricated bool     `json:"IsFabricated"`
	IsSensitive  bool     `json:"IsSensitive"`
	IsRetired    bool     `json:"IsRetired"`
	IsSpamList   bool     `json:"IsSpamList"`
	LogoPath     string   `json:"LogoPath"`
}

type pasteDTO struct {
	ID         string `json:"Id"`
	Source     string `json:"Source"`
	Title      string `json:"Title"`
	Date       string `json:"Date"`
	EmailCount int    `json:"EmailCount"`
}

func (d breachDTO) toDomain() models.Breach {
	name := d.Title
	if name == "" {
		name = d.Name
	}
	b := models.Breach{
		ID:           d.Name, // breach name is the stable id across sources
		Name:         name,
		Domain:       d.Domain,
		BreachDate:   normalize.ParseDate(d.BreachDate),
		AddedDate:    normalize.ParseDate(d.AddedDate),
		PwnCount:     d.PwnCount,
		Description:  normalize.CleanHTML(d.Description),
		DataClasses:  d.DataClasses,
		IsVerified:   d.IsVerified,
		IsFabricated: d.IsFabricated,
		IsSensitive:  d.IsSensitive,
		IsRetired:    d.IsRetired,
		IsSpamList:   d.IsSpamList,
		LogoPath:     d.LogoPath,
	}
	if d.ModifiedDate != "" {
		t := normalize.ParseDate(d.ModifiedDate)
		b.ModifiedDate = &t
	}
	return b
}

func (d pasteDTO) toDomain() models.Paste {
	p := models.Paste{
		ID:         d.ID,
		Source:     d.Source,
		Title:      d.Title,
		EmailCount: d.EmailCount,
	}
	if d.Date != "" {
		t := normalize.ParseDate(d.Date)
		p.Date = &t
	}
	return p
}

func breachesToDomain(dtos []breachDTO) []models.Breach {
	breaches := make([]models.Breach, len(dtos))
	for i, d := range dtos {
		breaches[i] = d.toDomain()
	}
	return breaches
}

// ListAll returns every known breach.
func (c *HIBPClient) ListAll(ctx context.Context) ([]models.Breach, error) {
	var dtos []breachDTO
	if err := getJSON(ctx, c.client, "hibp.listAll", "/breaches", nil, &dtos); err != nil {
		return nil, err
	}
	return breachesToDomain(dtos), nil
}

// ListByEmail returns the breaches a given account appears in.
func (c *HIBPClient) ListByEmail(ctx context.Context, email string) ([]models.Breach, error) {
	var dtos []breachDTO
	err := getJSON(ctx, c.client, "hibp.listByEmail", "/breachedaccount/"+email,
		map[string]string{"truncateResponse": "false"}, &dtos)
	if err != nil {
		return nil, err
	}
	return breachesToDomain(dtos), nil
}

// GetByName returns details for a single breach.
func (c *HIBPClient) GetByName(ctx context.Context, name string) (*models.Breach, error) {
	var dto breachDTO
	if err := getJSON(ctx, c.client, "hibp.getByName", "/breach/"+name, nil, &dto); err != nil {
		return nil, err
	}
	breach := dto.toDomain()
	return &breach, nil
}

// ListPastesByEmail returns paste dumps containing the account.
func (c *HIBPClient) ListPastesByEmail(ctx context.Context, email string) ([]models.Paste, error) {
	var dtos []pasteDTO
	if err := getJSON(ctx, c.client, "hibp.listPastes", "/pasteaccount/"+email, nil, &dtos); err != nil {
		return nil, err
	}
	pastes := make([]models.Paste, len(dtos))
	for i, d := range dtos {
		pastes[i] = d.toDomain()
	}
	return pastes, nil
}

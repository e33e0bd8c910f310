package remote

import (
	"context"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/cyberpulse/pulse/internal/models"
	"github.com/cyberpulse/pulse/internal/normalize"
)

// EventsClient fetches CTF events from a CTFtime style API.
type EventsClient struct {
	client *resty.Client
}

func NewEventsClient(baseURL string, timeout time.Duration) *EventsClient {
	return &EventsClient{client: newClient(baseURL, timeout)}
}

type ctfEventDTO struct {
	ID          int            `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	URL         string         `json:"url"`
	Logo        string         `json:"logo"`
	Organizers  []organizerDTO `json:"organizers"`
	Start       string         `json:"start"`
	Finish      string         `json:"finish"`
	Onsite      bool           `json:"onsite"`
	Location    string         `json:"location"`
}

type organizerDTO struct {
	Name string `json:"name"`
}

func (d ctfEventDTO) toDomain() models.CyberEvent {
	organizer := "Unknown"
	if len(d.Organizers) > 0 {
		organizer = d.Organizers[0].Name
	}
	end := normalize.ParseTimestamp(d.Finish)
	return models.CyberEvent{
		ID:              strconv.Itoa(d.ID),
		Name:            d.Title,
		Type:            models.EventCTF,
		Description:     d.Description,
		URL:             d.URL,
		ImageURL:        d.Logo,
		Organizer:       organizer,
		StartDate:       normalize.ParseTimestamp(d.Start),
		EndDate:         &end,
		Timezone:        "UTC",
		IsOnline:        !d.Onsite,
		Location:        d.Location,
		RegistrationURL: d.URL,
	}
}

// ListUpcoming returns upcoming CTF events.
func (c *EventsClient) ListUpcoming(ctx context.Context, limit int) ([]models.CyberEvent, error) {
	var dtos []ctfEventDTO
	err := getJSON(ctx, c.client, "events.listUpcoming", "/events/", map[string]string{
		"limit": itoa(limit),
		"start": strconv.FormatInt(time.Now().Unix(), 10),
	}, &dtos)
	if err != nil {
		return nil, err
	}
	events := make([]models.CyberEvent, len(dtos))
	for i, d := range dtos {
		events[i] = d.toDomain()
	}
	return events, nil
}

package models

import "time"

// CyberEvent is a CTF, hackathon, conference or similar event.
// Registered and HasReminder are user state, persisted locally only.
type CyberEvent struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Type                 EventType  `json:"type"`
	Description          string     `json:"description"`
	URL                  string     `json:"url"`
	ImageURL             string     `json:"image_url,omitempty"`
	Organizer            string     `json:"organizer"`
	StartDate            time.Time  `json:"start_date"`
	EndDate              *time.Time `json:"end_date,omitempty"`
	Timezone             string     `json:"timezone"`
	IsOnline             bool       `json:"is_online"`
	Location             string     `json:"location,omitempty"`
	Prizes               string     `json:"prizes,omitempty"`
	RegistrationURL      string     `json:"registration_url,omitempty"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
	Registered           bool       `json:"registered"`
	HasReminder          bool       `json:"has_reminder"`
}

// EventType classifies a cyber event.
type EventType string

const (
	EventCTF         EventType = "CTF"
	EventHackathon   EventType = "HACKATHON"
	EventWebinar     EventType = "WEBINAR"
	EventConference  EventType = "CONFERENCE"
	EventWorkshop    EventType = "WORKSHOP"
	EventMeetup      EventType = "MEETUP"
	EventCompetition EventType = "COMPETITION"
)

// Package calendars covers user calendars and events.
package calendars

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/riddler/msgraph"
)

// Calendar represents a calendar from Microsoft Graph.
type Calendar struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	IsDefault bool   `json:"isDefaultCalendar"`
	CanEdit   bool   `json:"canEdit"`
	CanShare  bool   `json:"canShare"`
	Owner     *struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	} `json:"owner"`
}

// Event represents a calendar event. The etag guards concurrent updates.
type Event struct {
	Etag            string         `json:"@odata.etag"`
	ID              string         `json:"id"`
	Subject         string         `json:"subject"`
	BodyPreview     string         `json:"bodyPreview"`
	Start           *DateTimeZone  `json:"start"`
	End             *DateTimeZone  `json:"end"`
	Location        *Location      `json:"location"`
	Organizer       *EmailAddress  `json:"organizer"`
	Attendees       []Attendee     `json:"attendees"`
	IsAllDay        bool           `json:"isAllDay"`
	IsCancelled     bool           `json:"isCancelled"`
	IsOnlineMeeting bool           `json:"isOnlineMeeting"`
	OnlineMeeting   *OnlineMeeting `json:"onlineMeeting"`
	WebLink         string         `json:"webLink"`
}

// DateTimeZone is Graph's dateTime + timeZone pair.
type DateTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// Location is an event location.
type Location struct {
	DisplayName string `json:"displayName"`
}

// EmailAddress wraps Graph's nested emailAddress shape.
type EmailAddress struct {
	EmailAddress struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	} `json:"emailAddress"`
}

// Attendee is an event attendee with response status.
type Attendee struct {
	EmailAddress struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	} `json:"emailAddress"`
	Type   string `json:"type"`
	Status *struct {
		Response string `json:"response"`
	} `json:"status"`
}

// OnlineMeeting carries the join link for online events.
type OnlineMeeting struct {
	JoinURL string `json:"joinUrl"`
}

// Service exposes calendar and event operations for one user.
type Service struct {
	client *msgraph.Client
	userID string
}

// NewService creates a calendar service scoped to a user. Pass "me" style
// IDs only with delegated tokens; daemon apps address users by ID or UPN.
func NewService(client *msgraph.Client, userID string) *Service {
	return &Service{client: client, userID: userID}
}

func (s *Service) userPath(suffix string) string {
	return "/users/" + s.userID + suffix
}

// ListCalendars returns the user's calendars.
func (s *Service) ListCalendars(ctx context.Context, opts msgraph.ListOptions) ([]Calendar, string, error) {
	return msgraph.ListAs[Calendar](ctx, s.client, s.userPath("/calendars"), opts)
}

// GetCalendar fetches a calendar by ID.
func (s *Service) GetCalendar(ctx context.Context, calendarID string) (*Calendar, error) {
	body, err := s.client.Get(ctx, s.userPath("/calendars/"+calendarID))
	if err != nil {
		return nil, err
	}

	var calendar Calendar
	if err := json.Unmarshal(body, &calendar); err != nil {
		return nil, fmt.Errorf("decode calendar: %w", err)
	}
	return &calendar, nil
}

// CreateCalendar creates a calendar with the given name.
func (s *Service) CreateCalendar(ctx context.Context, name string) (*Calendar, error) {
	body, err := s.client.Post(ctx, s.userPath("/calendars"), map[string]any{"name": name})
	if err != nil {
		return nil, err
	}

	var calendar Calendar
	if err := json.Unmarshal(body, &calendar); err != nil {
		return nil, fmt.Errorf("decode calendar: %w", err)
	}
	return &calendar, nil
}

// DeleteCalendar removes a calendar.
func (s *Service) DeleteCalendar(ctx context.Context, calendarID string, opts msgraph.DeleteOptions) error {
	return s.client.Delete(ctx, s.userPath("/calendars/"+calendarID), opts)
}

// ListEvents returns events from the user's default calendar.
func (s *Service) ListEvents(ctx context.Context, opts msgraph.ListOptions) ([]Event, string, error) {
	return msgraph.ListAs[Event](ctx, s.client, s.userPath("/events"), opts)
}

// ListCalendarEvents returns events from a specific calendar.
func (s *Service) ListCalendarEvents(ctx context.Context, calendarID string, opts msgraph.ListOptions) ([]Event, string, error) {
	return msgraph.ListAs[Event](ctx, s.client, s.userPath("/calendars/"+calendarID+"/events"), opts)
}

// CalendarView returns event occurrences in the given window, expanding
// recurring series the way the events listing does not.
func (s *Service) CalendarView(ctx context.Context, start, end time.Time, opts msgraph.ListOptions) ([]Event, string, error) {
	window := url.Values{
		"startDateTime": {start.UTC().Format(time.RFC3339)},
		"endDateTime":   {end.UTC().Format(time.RFC3339)},
	}
	return msgraph.ListAs[Event](ctx, s.client, s.userPath("/calendarView?"+window.Encode()), opts)
}

// GetEvent fetches an event by ID.
func (s *Service) GetEvent(ctx context.Context, eventID string) (*Event, error) {
	body, err := s.client.Get(ctx, s.userPath("/events/"+eventID))
	if err != nil {
		return nil, err
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return &event, nil
}

// CreateEvent creates an event from local-form attributes, e.g.
// {"subject": ..., "start": {"date_time": ..., "time_zone": ...}}.
func (s *Service) CreateEvent(ctx context.Context, attrs map[string]any) (*Event, error) {
	body, err := s.client.Post(ctx, s.userPath("/events"), attrs)
	if err != nil {
		return nil, err
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return &event, nil
}

// UpdateEvent applies a partial update. A non-empty tag makes the update
// conditional; Outlook accepts unconditional updates, so an empty tag means
// last-writer-wins.
func (s *Service) UpdateEvent(ctx context.Context, eventID string, patch map[string]any, tag string) (*Event, error) {
	path := s.userPath("/events/" + eventID)

	var body []byte
	var err error
	if tag == "" {
		body, err = s.client.Patch(ctx, path, patch)
	} else {
		body, err = s.client.UpdateWithTag(ctx, path, patch, tag)
	}
	if err != nil {
		return nil, err
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return &event, nil
}

// DeleteEvent removes an event.
func (s *Service) DeleteEvent(ctx context.Context, eventID string, opts msgraph.DeleteOptions) error {
	return s.client.Delete(ctx, s.userPath("/events/"+eventID), opts)
}

// Package subscriptions manages change-notification subscriptions and the
// webhook payloads they deliver.
package subscriptions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/riddler/msgraph"
)

// ChangeNotification and its codec are re-exported so webhook consumers
// only import this package.
type ChangeNotification = msgraph.ChangeNotification

// Re-exported codec errors.
var (
	ErrInvalidShape       = msgraph.ErrInvalidShape
	ErrInvalidClientState = msgraph.ErrInvalidClientState
)

// ValidateNotifications checks a webhook payload's client state. See
// msgraph.ValidateNotifications.
func ValidateNotifications(payload []byte, expectedClientState string) error {
	return msgraph.ValidateNotifications(payload, expectedClientState)
}

// DecodeNotifications decodes a webhook payload. See
// msgraph.DecodeNotifications.
func DecodeNotifications(payload []byte) ([]ChangeNotification, error) {
	return msgraph.DecodeNotifications(payload)
}

// Subscription represents a change-notification subscription.
type Subscription struct {
	ID                 string `json:"id"`
	Resource           string `json:"resource"`
	ChangeType         string `json:"changeType"`
	NotificationURL    string `json:"notificationUrl"`
	ClientState        string `json:"clientState"`
	ExpirationDateTime string `json:"expirationDateTime"`
	ApplicationID      string `json:"applicationId"`
	CreatorID          string `json:"creatorId"`
}

// CreateRequest describes a new subscription. ClientState is optional; a
// random UUID is generated when empty, and the caller must persist whichever
// value is used to validate incoming notifications against.
type CreateRequest struct {
	Resource        string
	ChangeTypes     []string
	NotificationURL string
	Expiration      time.Time
	ClientState     string
}

// Validate checks the required fields before any request is issued.
func (r CreateRequest) Validate() error {
	if r.Resource == "" {
		return errors.New("resource is required")
	}
	if len(r.ChangeTypes) == 0 {
		return errors.New("at least one change type is required")
	}
	if r.NotificationURL == "" {
		return errors.New("notification URL is required")
	}
	if r.Expiration.IsZero() {
		return errors.New("expiration is required")
	}
	return nil
}

// Service exposes subscription operations over a Graph client.
type Service struct {
	client *msgraph.Client
}

// NewService creates a subscription service.
func NewService(client *msgraph.Client) *Service {
	return &Service{client: client}
}

// Create registers a subscription. Graph calls the notification URL with a
// validation handshake before this returns.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Subscription, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid subscription request: %w", err)
	}

	clientState := req.ClientState
	if clientState == "" {
		clientState = uuid.NewString()
	}

	body, err := s.client.Post(ctx, "/subscriptions", map[string]any{
		"resource":             req.Resource,
		"change_type":          strings.Join(req.ChangeTypes, ","),
		"notification_url":     req.NotificationURL,
		"expiration_date_time": req.Expiration.UTC().Format(time.RFC3339),
		"client_state":         clientState,
	})
	if err != nil {
		return nil, err
	}

	var sub Subscription
	if err := json.Unmarshal(body, &sub); err != nil {
		return nil, fmt.Errorf("decode subscription: %w", err)
	}
	return &sub, nil
}

// Get fetches a subscription by ID.
func (s *Service) Get(ctx context.Context, subscriptionID string) (*Subscription, error) {
	body, err := s.client.Get(ctx, "/subscriptions/"+subscriptionID)
	if err != nil {
		return nil, err
	}

	var sub Subscription
	if err := json.Unmarshal(body, &sub); err != nil {
		return nil, fmt.Errorf("decode subscription: %w", err)
	}
	return &sub, nil
}

// List returns the application's active subscriptions.
func (s *Service) List(ctx context.Context, opts msgraph.ListOptions) ([]Subscription, string, error) {
	return msgraph.ListAs[Subscription](ctx, s.client, "/subscriptions", opts)
}

// Renew extends a subscription's expiration. Graph caps the lifetime per
// resource type, so renewal is a recurring chore for long-lived watchers.
func (s *Service) Renew(ctx context.Context, subscriptionID string, expiration time.Time) (*Subscription, error) {
	body, err := s.client.Patch(ctx, "/subscriptions/"+subscriptionID, map[string]any{
		"expiration_date_time": expiration.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	var sub Subscription
	if err := json.Unmarshal(body, &sub); err != nil {
		return nil, fmt.Errorf("decode subscription: %w", err)
	}
	return &sub, nil
}

// Delete tears a subscription down. A subscription that already expired
// server-side is gone, so missing is collapsed into success here; callers
// needing a strict delete can use the client directly.
func (s *Service) Delete(ctx context.Context, subscriptionID string) error {
	return s.client.Delete(ctx, "/subscriptions/"+subscriptionID, msgraph.DeleteOptions{AllowMissing: true})
}

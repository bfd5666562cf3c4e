package msgraph

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Notification validation errors.
var (
	// ErrInvalidShape indicates the payload is not a notification envelope.
	ErrInvalidShape = errors.New("msgraph: invalid notification payload")

	// ErrInvalidClientState indicates the envelope's client state does not
	// match the expected value.
	ErrInvalidClientState = errors.New("msgraph: client state mismatch")
)

// ChangeType is the kind of change a notification reports.
type ChangeType string

// Change types delivered by Graph subscriptions.
const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// ChangeNotification is one change event from a subscription batch.
// ResourceData is passed through opaquely; its shape depends on the
// subscribed resource.
type ChangeNotification struct {
	SubscriptionID string          `json:"subscriptionId"`
	ClientState    string          `json:"clientState,omitempty"`
	ChangeType     ChangeType      `json:"changeType"`
	Resource       string          `json:"resource"`
	ResourceData   json.RawMessage `json:"resourceData,omitempty"`
}

// notificationEnvelope is the wire shape of a notification batch. Value is
// a pointer so a structurally missing list can be told apart from an
// empty one.
type notificationEnvelope struct {
	Value *[]ChangeNotification `json:"value"`
}

// ValidateNotifications checks the authenticity token of an inbound
// notification batch against the client state supplied when the
// subscription was created.
//
// Only the first notification's clientState is inspected. Graph sets the
// same state on every notification of a batch, so this is the minimal
// anti-forgery check, not a per-item verification. An empty expectedClientState
// means no check is wanted and any well-formed envelope passes.
func ValidateNotifications(payload []byte, expectedClientState string) error {
	var env notificationEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidShape, err)
	}
	if env.Value == nil {
		return ErrInvalidShape
	}
	if expectedClientState == "" {
		return nil
	}
	items := *env.Value
	if len(items) == 0 {
		return nil
	}
	if items[0].ClientState != expectedClientState {
		return ErrInvalidClientState
	}
	return nil
}

// DecodeNotifications decodes a notification batch into its change
// events, preserving order. A payload without a value list decodes as an
// empty batch rather than an error; an envelope with zero items is a
// valid, empty result.
func DecodeNotifications(payload []byte) ([]ChangeNotification, error) {
	var env notificationEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidShape, err)
	}
	if env.Value == nil {
		return []ChangeNotification{}, nil
	}
	return *env.Value, nil
}

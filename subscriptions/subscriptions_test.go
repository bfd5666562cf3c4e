package subscriptions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riddler/msgraph"
)

func newTestService(server *httptest.Server) *Service {
	client := msgraph.NewClient(msgraph.StaticTokenProvider("t"), msgraph.WithBaseURL(server.URL))
	return NewService(client)
}

func TestCreateRequest_Validate(t *testing.T) {
	valid := CreateRequest{
		Resource:        "/users/u1/events",
		ChangeTypes:     []string{"created", "updated"},
		NotificationURL: "https://hooks.example.com/graph",
		Expiration:      time.Now().Add(time.Hour),
	}

	tests := []struct {
		name    string
		mutate  func(*CreateRequest)
		wantErr string
	}{
		{
			name:   "complete",
			mutate: func(*CreateRequest) {},
		},
		{
			name:    "missing resource",
			mutate:  func(r *CreateRequest) { r.Resource = "" },
			wantErr: "resource is required",
		},
		{
			name:    "missing change types",
			mutate:  func(r *CreateRequest) { r.ChangeTypes = nil },
			wantErr: "at least one change type is required",
		},
		{
			name:    "missing notification url",
			mutate:  func(r *CreateRequest) { r.NotificationURL = "" },
			wantErr: "notification URL is required",
		},
		{
			name:    "missing expiration",
			mutate:  func(r *CreateRequest) { r.Expiration = time.Time{} },
			wantErr: "expiration is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestCreate_SendsWireFormPayload(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.0/subscriptions", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": "sub-1", "resource": "/users/u1/events", "changeType": "created,updated"}`)
	}))
	defer server.Close()

	sub, err := newTestService(server).Create(context.Background(), CreateRequest{
		Resource:        "/users/u1/events",
		ChangeTypes:     []string{"created", "updated"},
		NotificationURL: "https://hooks.example.com/graph",
		Expiration:      time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		ClientState:     "shared-secret",
	})

	require.NoError(t, err)
	assert.Equal(t, "sub-1", sub.ID)
	assert.Equal(t, "created,updated", received["changeType"])
	assert.Equal(t, "https://hooks.example.com/graph", received["notificationUrl"])
	assert.Equal(t, "2026-09-01T12:00:00Z", received["expirationDateTime"])
	assert.Equal(t, "shared-secret", received["clientState"])
}

func TestCreate_DefaultsClientStateToUUID(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": "sub-1"}`)
	}))
	defer server.Close()

	_, err := newTestService(server).Create(context.Background(), CreateRequest{
		Resource:        "/users/u1/events",
		ChangeTypes:     []string{"created"},
		NotificationURL: "https://hooks.example.com/graph",
		Expiration:      time.Now().Add(time.Hour),
	})

	require.NoError(t, err)
	state, ok := received["clientState"].(string)
	require.True(t, ok)
	_, err = uuid.Parse(state)
	assert.NoError(t, err, "generated client state should be a UUID")
}

func TestCreate_InvalidRequestIssuesNoCall(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		requests++
	}))
	defer server.Close()

	_, err := newTestService(server).Create(context.Background(), CreateRequest{})

	require.Error(t, err)
	assert.Zero(t, requests)
}

func TestRenew(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/v1.0/subscriptions/sub-1", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"expirationDateTime": "2026-09-02T12:00:00Z"}`, string(body))
		fmt.Fprint(w, `{"id": "sub-1", "expirationDateTime": "2026-09-02T12:00:00Z"}`)
	}))
	defer server.Close()

	sub, err := newTestService(server).Renew(
		context.Background(), "sub-1", time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC),
	)

	require.NoError(t, err)
	assert.Equal(t, "2026-09-02T12:00:00Z", sub.ExpirationDateTime)
}

func TestDelete_MissingIsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	err := newTestService(server).Delete(context.Background(), "sub-gone")

	assert.NoError(t, err, "expired subscriptions are already gone; teardown stays idempotent")
}

func TestList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.0/subscriptions", r.URL.Path)
		fmt.Fprint(w, `{"value": [{"id": "sub-1", "resource": "/users/u1/events"}]}`)
	}))
	defer server.Close()

	subs, _, err := newTestService(server).List(context.Background(), msgraph.DefaultListOptions())

	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "/users/u1/events", subs[0].Resource)
}

func TestReexportedCodec(t *testing.T) {
	payload := []byte(`{"value": [{"subscriptionId": "sub-1", "clientState": "secret", "changeType": "created", "resource": "users/1"}]}`)

	require.NoError(t, ValidateNotifications(payload, "secret"))
	assert.ErrorIs(t, ValidateNotifications(payload, "other"), ErrInvalidClientState)

	items, err := DecodeNotifications(payload)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "sub-1", items[0].SubscriptionID)
}

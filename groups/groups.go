// Package groups covers directory groups and their membership.
package groups

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/riddler/msgraph"
)

// Group represents a directory group from Microsoft Graph.
type Group struct {
	ID              string   `json:"id"`
	DisplayName     string   `json:"displayName"`
	Description     string   `json:"description"`
	Mail            string   `json:"mail"`
	MailNickname    string   `json:"mailNickname"`
	MailEnabled     bool     `json:"mailEnabled"`
	SecurityEnabled bool     `json:"securityEnabled"`
	GroupTypes      []string `json:"groupTypes"`
	Visibility      string   `json:"visibility"`
	CreatedDateTime string   `json:"createdDateTime"`
}

// DirectoryObject is the minimal shape shared by group members and owners
// (users, service principals, devices).
type DirectoryObject struct {
	Type        string `json:"@odata.type"`
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Service exposes group operations over a Graph client.
type Service struct {
	client *msgraph.Client
}

// NewService creates a group service.
func NewService(client *msgraph.Client) *Service {
	return &Service{client: client}
}

// List returns groups. With AutoPaginate the continuation is always empty.
func (s *Service) List(ctx context.Context, opts msgraph.ListOptions) ([]Group, string, error) {
	return msgraph.ListAs[Group](ctx, s.client, "/groups", opts)
}

// Get fetches a single group by ID.
func (s *Service) Get(ctx context.Context, groupID string) (*Group, error) {
	body, err := s.client.Get(ctx, "/groups/"+groupID)
	if err != nil {
		return nil, err
	}

	var group Group
	if err := json.Unmarshal(body, &group); err != nil {
		return nil, fmt.Errorf("decode group: %w", err)
	}
	return &group, nil
}

// Create creates a group from local-form attributes, e.g.
// {"display_name": ..., "mail_enabled": false, "security_enabled": true,
// "mail_nickname": ...}. Keys are converted to wire form on the way out.
func (s *Service) Create(ctx context.Context, attrs map[string]any) (*Group, error) {
	body, err := s.client.Post(ctx, "/groups", attrs)
	if err != nil {
		return nil, err
	}

	var group Group
	if err := json.Unmarshal(body, &group); err != nil {
		return nil, fmt.Errorf("decode group: %w", err)
	}
	return &group, nil
}

// Update applies a partial update with local-form keys.
func (s *Service) Update(ctx context.Context, groupID string, patch map[string]any) error {
	_, err := s.client.Patch(ctx, "/groups/"+groupID, patch)
	return err
}

// Delete removes a group.
func (s *Service) Delete(ctx context.Context, groupID string, opts msgraph.DeleteOptions) error {
	return s.client.Delete(ctx, "/groups/"+groupID, opts)
}

// ListMembers returns the group's direct members.
func (s *Service) ListMembers(ctx context.Context, groupID string, opts msgraph.ListOptions) ([]DirectoryObject, string, error) {
	return msgraph.ListAs[DirectoryObject](ctx, s.client, "/groups/"+groupID+"/members", opts)
}

// ListOwners returns the group's owners.
func (s *Service) ListOwners(ctx context.Context, groupID string, opts msgraph.ListOptions) ([]DirectoryObject, string, error) {
	return msgraph.ListAs[DirectoryObject](ctx, s.client, "/groups/"+groupID+"/owners", opts)
}

// AddMember adds a directory object to the group by reference.
func (s *Service) AddMember(ctx context.Context, groupID, memberID string) error {
	ref := map[string]any{
		"_odata_id": msgraph.DefaultBaseURL + "/" + msgraph.DefaultVersion + "/directoryObjects/" + memberID,
	}
	_, err := s.client.Post(ctx, "/groups/"+groupID+"/members/$ref", ref)
	return err
}

// RemoveMember removes a member reference from the group.
func (s *Service) RemoveMember(ctx context.Context, groupID, memberID string, opts msgraph.DeleteOptions) error {
	return s.client.Delete(ctx, "/groups/"+groupID+"/members/"+memberID+"/$ref", opts)
}

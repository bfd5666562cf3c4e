// Package users covers directory user accounts.
package users

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/riddler/msgraph"
)

// User represents a directory user from Microsoft Graph.
type User struct {
	ID                string   `json:"id"`
	DisplayName       string   `json:"displayName"`
	GivenName         string   `json:"givenName"`
	Surname           string   `json:"surname"`
	Mail              string   `json:"mail"`
	UserPrincipalName string   `json:"userPrincipalName"`
	JobTitle          string   `json:"jobTitle"`
	Department        string   `json:"department"`
	OfficeLocation    string   `json:"officeLocation"`
	MobilePhone       string   `json:"mobilePhone"`
	BusinessPhones    []string `json:"businessPhones"`
	AccountEnabled    bool     `json:"accountEnabled"`
}

// MemberGroup is a group the user belongs to, as returned by memberOf.
type MemberGroup struct {
	Type        string `json:"@odata.type"`
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Service exposes user operations over a Graph client.
type Service struct {
	client *msgraph.Client
}

// NewService creates a user service.
func NewService(client *msgraph.Client) *Service {
	return &Service{client: client}
}

// List returns users.
func (s *Service) List(ctx context.Context, opts msgraph.ListOptions) ([]User, string, error) {
	return msgraph.ListAs[User](ctx, s.client, "/users", opts)
}

// Get fetches a user by ID or userPrincipalName.
func (s *Service) Get(ctx context.Context, userID string) (*User, error) {
	body, err := s.client.Get(ctx, "/users/"+userID)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

// Create creates a user from local-form attributes, e.g.
// {"display_name": ..., "user_principal_name": ..., "account_enabled": true}.
func (s *Service) Create(ctx context.Context, attrs map[string]any) (*User, error) {
	body, err := s.client.Post(ctx, "/users", attrs)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

// Update applies a partial update with local-form keys.
func (s *Service) Update(ctx context.Context, userID string, patch map[string]any) error {
	_, err := s.client.Patch(ctx, "/users/"+userID, patch)
	return err
}

// Delete removes a user.
func (s *Service) Delete(ctx context.Context, userID string, opts msgraph.DeleteOptions) error {
	return s.client.Delete(ctx, "/users/"+userID, opts)
}

// ListMemberOf returns the groups and roles the user is a direct member of.
func (s *Service) ListMemberOf(ctx context.Context, userID string, opts msgraph.ListOptions) ([]MemberGroup, string, error) {
	return msgraph.ListAs[MemberGroup](ctx, s.client, "/users/"+userID+"/memberOf", opts)
}

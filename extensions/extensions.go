// Package extensions manages open extensions, the free-form property bags
// Graph lets applications attach to directory resources.
package extensions

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/riddler/msgraph"
)

const openTypeExtension = "microsoft.graph.openTypeExtension"

// Extension is an open extension: a named bag of application-defined
// properties attached to a resource. Properties holds everything beyond
// the envelope fields, in wire form.
type Extension struct {
	ID            string
	ExtensionName string
	Properties    map[string]any
}

// UnmarshalJSON splits the envelope fields from the free-form properties.
func (e *Extension) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.Properties = make(map[string]any, len(raw))
	for key, value := range raw {
		switch key {
		case "id":
			e.ID, _ = value.(string)
		case "extensionName":
			e.ExtensionName, _ = value.(string)
		case "@odata.type", "@odata.context":
			// envelope noise
		default:
			e.Properties[key] = value
		}
	}
	return nil
}

// Service manages the open extensions of one resource, e.g.
// "/users/u1" or "/groups/g1".
type Service struct {
	client       *msgraph.Client
	resourcePath string
}

// NewService creates an extension service for the resource at path.
func NewService(client *msgraph.Client, resourcePath string) *Service {
	return &Service{client: client, resourcePath: resourcePath}
}

func (s *Service) extensionsPath() string {
	return s.resourcePath + "/extensions"
}

// List returns the resource's open extensions.
func (s *Service) List(ctx context.Context, opts msgraph.ListOptions) ([]Extension, string, error) {
	return msgraph.ListAs[Extension](ctx, s.client, s.extensionsPath(), opts)
}

// Get fetches an extension by name.
func (s *Service) Get(ctx context.Context, name string) (*Extension, error) {
	body, err := s.client.Get(ctx, s.extensionsPath()+"/"+name)
	if err != nil {
		return nil, err
	}

	var ext Extension
	if err := json.Unmarshal(body, &ext); err != nil {
		return nil, fmt.Errorf("decode extension: %w", err)
	}
	return &ext, nil
}

// Create attaches a named extension with local-form properties.
func (s *Service) Create(ctx context.Context, name string, properties map[string]any) (*Extension, error) {
	payload := make(map[string]any, len(properties)+2)
	for key, value := range properties {
		payload[key] = value
	}
	payload["_odata_type"] = openTypeExtension
	payload["extension_name"] = name

	body, err := s.client.Post(ctx, s.extensionsPath(), payload)
	if err != nil {
		return nil, err
	}

	var ext Extension
	if err := json.Unmarshal(body, &ext); err != nil {
		return nil, fmt.Errorf("decode extension: %w", err)
	}
	return &ext, nil
}

// Update replaces the extension's properties.
func (s *Service) Update(ctx context.Context, name string, properties map[string]any) error {
	payload := make(map[string]any, len(properties)+1)
	for key, value := range properties {
		payload[key] = value
	}
	payload["_odata_type"] = openTypeExtension

	_, err := s.client.Patch(ctx, s.extensionsPath()+"/"+name, payload)
	return err
}

// Delete detaches an extension by name.
func (s *Service) Delete(ctx context.Context, name string, opts msgraph.DeleteOptions) error {
	return s.client.Delete(ctx, s.extensionsPath()+"/"+name, opts)
}

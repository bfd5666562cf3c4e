package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// taggedResource picks the version tag out of a resource body.
type taggedResource struct {
	Etag string `json:"@odata.etag"`
}

// UpdateWithTag applies a patch to an etag-bearing resource with the
// caller's current tag as an If-Match precondition. On success the
// server's response body is returned; it carries the new tag and callers
// must read it from there, the client does not cache or infer it.
//
// If the server rejects the tag (412), the resource is re-read once in the
// same call and a TagMismatchError exposing the now-current tag is
// returned, letting the caller retry without a discovery read. If that
// re-read fails, its error is surfaced instead.
func (c *Client) UpdateWithTag(ctx context.Context, path string, patch map[string]any, tag string) (json.RawMessage, error) {
	if tag == "" {
		return nil, ErrMissingEtag
	}
	headers := map[string]string{
		"If-Match": tag,
		"Prefer":   "return=representation",
	}
	body, err := c.call(ctx, http.MethodPatch, path, patch, headers)
	if err != nil {
		if IsPreconditionFailed(err) {
			return nil, c.tagConflict(ctx, path)
		}
		return nil, err
	}
	return json.RawMessage(body), nil
}

// DeleteWithTag deletes an etag-bearing resource under an If-Match
// precondition, with the same 412 recovery behaviour as UpdateWithTag.
func (c *Client) DeleteWithTag(ctx context.Context, path, tag string, opts DeleteOptions) error {
	if tag == "" {
		return ErrMissingEtag
	}
	_, err := c.call(ctx, http.MethodDelete, path, nil, map[string]string{"If-Match": tag})
	if err != nil {
		if opts.AllowMissing && IsNotFound(err) {
			return nil
		}
		if IsPreconditionFailed(err) {
			return c.tagConflict(ctx, path)
		}
	}
	return err
}

// tagConflict re-reads the resource after a 412 and reports its current
// tag. One extra read here saves every caller a read of their own.
func (c *Client) tagConflict(ctx context.Context, path string) error {
	body, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	var tagged taggedResource
	if err := json.Unmarshal(body, &tagged); err != nil {
		return fmt.Errorf("%w: %w", ErrUnexpectedResponseShape, err)
	}
	return &TagMismatchError{CurrentTag: tagged.Etag}
}

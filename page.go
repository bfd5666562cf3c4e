package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Page is one page of a Graph collection. NextLink is the continuation
// URL for the following page; it is empty exactly when no further pages
// exist.
type Page struct {
	Items    []json.RawMessage
	NextLink string
}

// ListOptions configures a collection request. The query fields pass
// through to the corresponding OData parameters.
type ListOptions struct {
	// AutoPaginate follows the whole continuation chain and returns the
	// fully materialised collection. When false a single page plus its
	// continuation link is returned and the caller drives further fetches.
	AutoPaginate bool

	Filter  string
	Search  string
	Select  []string
	OrderBy string
	Expand  string
	Top     int
	Count   bool
}

// DefaultListOptions returns the default listing behaviour: eager
// pagination, no query parameters.
func DefaultListOptions() ListOptions {
	return ListOptions{AutoPaginate: true}
}

// queryString encodes the OData query parameters.
func (o ListOptions) queryString() string {
	values := url.Values{}
	if o.Filter != "" {
		values.Set("$filter", o.Filter)
	}
	if o.Search != "" {
		values.Set("$search", o.Search)
	}
	if len(o.Select) > 0 {
		values.Set("$select", strings.Join(o.Select, ","))
	}
	if o.OrderBy != "" {
		values.Set("$orderby", o.OrderBy)
	}
	if o.Expand != "" {
		values.Set("$expand", o.Expand)
	}
	if o.Top > 0 {
		values.Set("$top", strconv.Itoa(o.Top))
	}
	if o.Count {
		values.Set("$count", "true")
	}
	return values.Encode()
}

// collectionResponse is the wire shape of a Graph collection page. Value
// is a pointer so an absent items field can be told apart from an empty
// page.
type collectionResponse struct {
	Value    *[]json.RawMessage `json:"value"`
	NextLink string             `json:"@odata.nextLink"`
}

// GetPage fetches a single collection page.
func (c *Client) GetPage(ctx context.Context, path string, opts ListOptions) (*Page, error) {
	if q := opts.queryString(); q != "" {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		path += sep + q
	}
	body, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return decodePage(body)
}

// GetPageAt dereferences a continuation link returned in a previous Page.
func (c *Client) GetPageAt(ctx context.Context, nextLink string) (*Page, error) {
	path, err := c.normalizeNextLink(nextLink)
	if err != nil {
		return nil, err
	}
	body, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return decodePage(body)
}

// ListAll eagerly follows the whole continuation chain and returns the
// concatenated items. Any page failure aborts the chain: partial results
// are discarded rather than returned as a silently truncated collection.
func (c *Client) ListAll(ctx context.Context, path string, opts ListOptions) ([]json.RawMessage, error) {
	page, err := c.GetPage(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	return c.collectPages(ctx, page.NextLink, page.Items)
}

// collectPages walks the continuation chain, appending each page's items.
// The base case, an empty continuation, returns the accumulator unchanged
// so the first page folds in uniformly.
func (c *Client) collectPages(ctx context.Context, next string, acc []json.RawMessage) ([]json.RawMessage, error) {
	if next == "" {
		return acc, nil
	}
	page, err := c.GetPageAt(ctx, next)
	if err != nil {
		return nil, err
	}
	return c.collectPages(ctx, page.NextLink, append(acc, page.Items...))
}

// List fetches a collection honouring opts.AutoPaginate: either the whole
// chain flattened into one page with no continuation, or a single page
// with its continuation link.
func (c *Client) List(ctx context.Context, path string, opts ListOptions) (*Page, error) {
	if opts.AutoPaginate {
		items, err := c.ListAll(ctx, path, opts)
		if err != nil {
			return nil, err
		}
		return &Page{Items: items}, nil
	}
	return c.GetPage(ctx, path, opts)
}

// normalizeNextLink turns an absolute continuation URL into a path the
// client can reissue. Graph returns next links with the scheme, host and
// API version baked in; the version prefix must be stripped because the
// client prefixes it again, and a doubled prefix 404s on every second
// page.
func (c *Client) normalizeNextLink(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parse continuation link: %w", err)
	}
	path := strings.TrimPrefix(u.Path, "/"+c.version)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path, nil
}

// decodePage validates and decodes a collection body. A 2xx body without
// the value array is a protocol error, never an empty page.
func decodePage(body []byte) (*Page, error) {
	var resp collectionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedResponseShape, err)
	}
	if resp.Value == nil {
		return nil, fmt.Errorf("%w: missing value field", ErrUnexpectedResponseShape)
	}
	return &Page{Items: *resp.Value, NextLink: resp.NextLink}, nil
}

// UnmarshalItems decodes every raw item of a page into T, preserving
// order.
func UnmarshalItems[T any](items []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, raw := range items {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		out = append(out, item)
	}
	return out, nil
}

// ListAs fetches a collection and decodes its items into T. The returned
// string is the continuation link, empty when the collection is complete.
func ListAs[T any](ctx context.Context, c *Client, path string, opts ListOptions) ([]T, string, error) {
	page, err := c.List(ctx, path, opts)
	if err != nil {
		return nil, "", err
	}
	items, err := UnmarshalItems[T](page.Items)
	if err != nil {
		return nil, "", err
	}
	return items, page.NextLink, nil
}

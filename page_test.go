package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient returns a client pointed at the test server.
func newTestClient(server *httptest.Server) *Client {
	return NewClient(StaticTokenProvider("test-token"), WithBaseURL(server.URL))
}

func TestGetPage_SinglePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.0/groups", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"value": [{"id": "1"}, {"id": "2"}]}`)
	}))
	defer server.Close()

	page, err := newTestClient(server).GetPage(context.Background(), "/groups", ListOptions{})

	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Empty(t, page.NextLink)
}

func TestGetPage_QueryParameters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "startswith(displayName,'eng')", q.Get("$filter"))
		assert.Equal(t, "id,displayName", q.Get("$select"))
		assert.Equal(t, "displayName", q.Get("$orderby"))
		assert.Equal(t, "25", q.Get("$top"))
		fmt.Fprint(w, `{"value": []}`)
	}))
	defer server.Close()

	opts := ListOptions{
		Filter:  "startswith(displayName,'eng')",
		Select:  []string{"id", "displayName"},
		OrderBy: "displayName",
		Top:     25,
	}
	page, err := newTestClient(server).GetPage(context.Background(), "/groups", opts)

	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestGetPage_MissingValueFieldIsProtocolError(t *testing.T) {
	// A successful status with no items array must be a hard error, not an
	// empty page.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"@odata.context": "ctx"}`)
	}))
	defer server.Close()

	page, err := newTestClient(server).GetPage(context.Background(), "/groups", ListOptions{})

	assert.Nil(t, page)
	assert.ErrorIs(t, err, ErrUnexpectedResponseShape)
}

func TestGetPage_EmptyValueIsEmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"value": []}`)
	}))
	defer server.Close()

	page, err := newTestClient(server).GetPage(context.Background(), "/groups", ListOptions{})

	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestListAll_FollowsChain(t *testing.T) {
	// Three pages; each continuation link carries the absolute URL with
	// the version prefix baked in, as Graph returns it.
	var requests int
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		require.Equal(t, "/v1.0/items", r.URL.Path, "doubled version prefix would 404")
		switch r.URL.Query().Get("skip") {
		case "":
			fmt.Fprintf(w, `{"value": [{"id": "1"}], "@odata.nextLink": "%s/v1.0/items?skip=1"}`, server.URL)
		case "1":
			fmt.Fprintf(w, `{"value": [{"id": "2"}], "@odata.nextLink": "%s/v1.0/items?skip=2"}`, server.URL)
		case "2":
			fmt.Fprint(w, `{"value": [{"id": "3"}]}`)
		default:
			t.Errorf("unexpected skip value %q", r.URL.Query().Get("skip"))
		}
	}))
	defer server.Close()

	items, err := newTestClient(server).ListAll(context.Background(), "/items", ListOptions{})

	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, 3, requests, "one request per page, no more")
	for i, raw := range items {
		var item struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(raw, &item))
		assert.Equal(t, fmt.Sprintf("%d", i+1), item.ID, "order preserved")
	}
}

func TestListAll_AbortsOnMidChainError(t *testing.T) {
	// If page 2 of 3 fails the whole call fails; no partial result.
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("skip") == "" {
			fmt.Fprintf(w, `{"value": [{"id": "1"}], "@odata.nextLink": "%s/v1.0/items?skip=1"}`, server.URL)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error": {"code": "InternalServerError", "message": "boom"}}`)
	}))
	defer server.Close()

	items, err := newTestClient(server).ListAll(context.Background(), "/items", ListOptions{})

	assert.Nil(t, items)
	assert.ErrorIs(t, err, ErrServerError)
}

func TestList_AutoPaginateToggle(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("skip") == "" {
			fmt.Fprintf(w, `{"value": [{"id": "1"}], "@odata.nextLink": "%s/v1.0/res?skip=1"}`, server.URL)
			return
		}
		fmt.Fprint(w, `{"value": [{"id": "2"}]}`)
	}))
	defer server.Close()

	client := newTestClient(server)

	t.Run("eager returns the flattened collection", func(t *testing.T) {
		page, err := client.List(context.Background(), "/res", DefaultListOptions())

		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
		assert.Empty(t, page.NextLink)
	})

	t.Run("lazy returns one page plus continuation", func(t *testing.T) {
		page, err := client.List(context.Background(), "/res", ListOptions{AutoPaginate: false})

		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
		require.NotEmpty(t, page.NextLink)

		next, err := client.GetPageAt(context.Background(), page.NextLink)
		require.NoError(t, err)
		assert.Len(t, next.Items, 1)
		assert.Empty(t, next.NextLink)
	})
}

func TestNormalizeNextLink(t *testing.T) {
	client := NewClient(StaticTokenProvider("t"))

	tests := []struct {
		name     string
		link     string
		expected string
	}{
		{
			name:     "strips host and version prefix",
			link:     "https://graph.microsoft.com/v1.0/groups?$skiptoken=abc",
			expected: "/groups?$skiptoken=abc",
		},
		{
			name:     "no version prefix",
			link:     "https://graph.microsoft.com/groups?x=1",
			expected: "/groups?x=1",
		},
		{
			name:     "no query",
			link:     "https://graph.microsoft.com/v1.0/users",
			expected: "/users",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := client.normalizeNextLink(tt.link)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, path)
		})
	}
}

func TestListAs_DecodesItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"value": [{"id": "1", "displayName": "one"}, {"id": "2", "displayName": "two"}]}`)
	}))
	defer server.Close()

	type item struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
	}

	items, next, err := ListAs[item](context.Background(), newTestClient(server), "/things", DefaultListOptions())

	require.NoError(t, err)
	assert.Empty(t, next)
	require.Len(t, items, 2)
	assert.Equal(t, "one", items[0].DisplayName)
	assert.Equal(t, "two", items[1].DisplayName)
}

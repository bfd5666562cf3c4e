// Package msgraph is a client library for the Microsoft Graph REST API.
//
// The package provides:
//   - An authenticated HTTP client with rate limiting and structured errors
//   - Cursor-based pagination over @odata.nextLink collection chains
//   - Optimistic concurrency control for etag-bearing resources (If-Match)
//   - Key-convention translation between snake_case and the wire format
//   - Parsing and validation of change-notification payloads
//
// Resource packages (groups, users, calendars, planner, subscriptions,
// extensions) compose these building blocks with fixed endpoint paths.
//
// # Key conventions
//
// Outbound request bodies built as map[string]any use snake_case keys and
// are converted to the camelCase wire form before sending. The reserved
// marker "_odata_" in a key denotes an OData annotation, so
// "owners_odata_bind" becomes "owners@odata.bind". Responses are returned
// exactly as the API sends them: callers read wire-form keys. Graph
// always responds in wire form and no inverse mapping exists.
//
// # Pagination
//
// Collection endpoints return pages linked by @odata.nextLink. ListAll
// follows the whole chain eagerly; GetPage and GetPageAt let callers
// drive one page at a time. Continuation links are absolute URLs, so the
// client strips its own host and API version prefix before reissuing
// them.
//
// # Concurrency control
//
// Mutations on versioned resources (Planner in particular) carry the
// resource's current etag as an If-Match precondition. On a 412 response
// the client re-reads the resource once and reports the now-current tag
// through TagMismatchError, so a caller can retry without an extra read.
// The client never retries or merges on its own.
package msgraph

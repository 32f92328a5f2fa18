// Package bridge moves import requests from producers (an MCP tool, an HTTP
// endpoint) to the process that renders them, either through a shared state
// file that is polled or through a per-session event stream.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FunctionImportHTML is the function name carried by import payloads.
const FunctionImportHTML = "mcp_html_to_design_import-html"

// Arguments are the arguments of an import call.
type Arguments struct {
	HTML string `json:"html"`
	Name string `json:"name,omitempty"`
}

// Payload is the message shared by every transport.
type Payload struct {
	// Timestamp is in Unix milliseconds; consumers treat a payload as new when
	// its timestamp is strictly greater than the last one handled.
	Timestamp int64           `json:"timestamp"`
	Function  string          `json:"function"`
	Arguments json.RawMessage `json:"arguments"`
	RequestID string          `json:"requestId"`
}

// NewPayload builds an import payload stamped with now and a fresh request id.
func NewPayload(now time.Time, args Arguments) (Payload, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return Payload{}, fmt.Errorf("encode arguments: %w", err)
	}
	return Payload{
		Timestamp: now.UnixMilli(),
		Function:  FunctionImportHTML,
		Arguments: raw,
		RequestID: uuid.NewString(),
	}, nil
}

// IsImport reports whether the payload asks for an HTML import.
func (p Payload) IsImport() bool {
	return p.Function == FunctionImportHTML
}

// Publisher delivers payloads to a consumer.
type Publisher interface {
	Publish(ctx context.Context, p Payload) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, p Payload) error

// Publish implements Publisher.
func (f PublisherFunc) Publish(ctx context.Context, p Payload) error {
	return f(ctx, p)
}

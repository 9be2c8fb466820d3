// Package core defines the contracts shared by all Tributary connectors.
package core

import (
	"context"
)

// Record is one extracted item: an arbitrary key-value mapping as decoded
// from an upstream JSON response.
type Record = map[string]interface{}

// Page is the ordered sequence of records produced by one pagination step.
// Elements are usually Records, but an upstream API returning a bare array
// of scalars yields scalar elements; callers that need mappings assert.
// A Page is not persisted; it is consumed once by the caller.
type Page []interface{}

// Connector is the capability set every concrete connector implements.
// Implementations are independent variants composed over base.BaseConnector;
// there is no inheritance hierarchy.
type Connector interface {
	// Name returns the connector identifier used in logs and metrics
	Name() string

	// AuthHeaders returns the headers that authenticate requests against
	// the upstream API. Empty when no credential is configured.
	AuthHeaders() map[string]string

	// Extract runs the connector's main extraction and returns the records.
	// Connector-specific parameters (a username, a date range) arrive via
	// params. Each call owns its own pagination state; no state is shared
	// across concurrent Extract calls.
	Extract(ctx context.Context, params map[string]string) ([]Record, error)

	// ValidateResponse reports whether a single extracted record conforms
	// to the connector's schema. The framework does not impose a policy on
	// failures; connectors decide whether a bad record aborts extraction
	// or is skipped.
	ValidateResponse(v interface{}) bool

	// Close releases the connector's session. Safe to call more than once.
	Close() error
}

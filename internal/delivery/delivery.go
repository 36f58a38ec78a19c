// Package delivery defines the contract every transport entry point fulfils.
package delivery

import "context"

// Delivery is a long-running transport (e.g. the HTTP server). Serve blocks
// until the delivery stops or fails.
type Delivery interface {
	Serve(ctx context.Context) error
}

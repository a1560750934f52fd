// Package delivery defines the contract for transport servers (HTTP, workers, ...).
package delivery

import "context"

// Delivery is a long-running transport endpoint with a blocking serve loop.
type Delivery interface {
	Serve(ctx context.Context) error
}

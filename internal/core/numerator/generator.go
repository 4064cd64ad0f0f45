package numerator

import (
	"context"
	"time"

	"ledgerpos/internal/core/id"
)

// Generator allocates sequential document numbers per tenant.
// Implementations must allocate inside the transaction carried by ctx so a
// rolled-back document does not consume a number.
type Generator interface {
	// Next returns the next formatted number for cfg in period.
	Next(ctx context.Context, tenantID id.ID, cfg Config, period time.Time) (string, error)
}

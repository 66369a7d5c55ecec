package driving

import (
	"context"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// IntegrityService scans the store for rows that disagree with the model.
type IntegrityService interface {
	// Verify reports every inconsistency found. It never repairs.
	Verify(ctx context.Context) (*domain.IntegrityReport, error)
}

package report

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/model"
)

type UseCase interface {
	Dashboard(ctx context.Context, window model.DateRange) (*Dashboard, error)
	// Snapshot returns the loaded rows alongside the dashboard, for callers
	// that also need the raw catalog.
	Snapshot(ctx context.Context, window model.DateRange) (*Dashboard, *Input, error)
}

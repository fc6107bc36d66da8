package punctuality

import (
	"context"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
)

type PunctualityService interface {
	// Aggregate rolls per-day deviations into buckets (admin only)
	Aggregate(ctx context.Context, caller auth.Identity, req Request) ([]BucketResponse, error)

	// Daily returns the per-day deviations behind Aggregate (admin only)
	Daily(ctx context.Context, caller auth.Identity, req Request) ([]DayDeviationResponse, error)

	// ExportXLSX renders buckets and daily rows into a workbook (admin only)
	ExportXLSX(ctx context.Context, caller auth.Identity, req Request) (Report, error)
}

// Report is a rendered export ready to stream.
type Report struct {
	Filename    string
	ContentType string
	Content     []byte
}

package samplestars

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/okian/hrdiagram/internal/domain/classify"
	"github.com/okian/hrdiagram/internal/domain/model"
	"github.com/okian/hrdiagram/pkg/logger"
)

// ErrMismatch reports a service response that disagrees with the catalog.
var ErrMismatch = errors.New("service response does not match catalog")

// verifyClassification checks the /classify response against the locally
// generated catalog: one row per star in input order, the expected label per
// row, and one series per label in first-appearance order.
func verifyClassification(ctx context.Context, stars []model.Star, resp *ClassifyResponse) error {
	logger.Get().Info(ctx, "verifying classification", logger.Int("stars", len(stars)))

	if len(resp.Rows) != len(stars) {
		return fmt.Errorf("%w: got %d rows, want %d", ErrMismatch, len(resp.Rows), len(stars))
	}

	labels := make([]string, len(stars))
	for i, s := range stars {
		attrs, err := classify.Lookup(s.StarType)
		if err != nil {
			return err
		}
		labels[i] = attrs.Label
		row := resp.Rows[i]
		if row.Label != attrs.Label || row.Temperature != s.Temperature {
			return fmt.Errorf("%w: row %d is %q at %.0f K, want %q at %.0f K",
				ErrMismatch, i, row.Label, row.Temperature, attrs.Label, s.Temperature)
		}
	}

	want := lo.Uniq(labels)
	got := lo.Map(resp.Series, func(s SeriesSummary, _ int) string { return s.Label })
	if len(got) != len(want) {
		return fmt.Errorf("%w: got %d series, want %d", ErrMismatch, len(got), len(want))
	}
	counts := lo.CountValues(labels)
	for i, s := range resp.Series {
		if s.Label != want[i] {
			return fmt.Errorf("%w: series %d is %q, want %q", ErrMismatch, i, s.Label, want[i])
		}
		if s.Count != counts[s.Label] {
			return fmt.Errorf("%w: series %q has %d points, want %d", ErrMismatch, s.Label, s.Count, counts[s.Label])
		}
	}

	logger.Get().Info(ctx, "classification verified", logger.Int("series", len(want)))
	return nil
}

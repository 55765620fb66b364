// ABOUTME: Data copy between workout log storage backends.
// ABOUTME: Snapshots the source and replaces the destination in one transaction.

package storage

import (
	"context"
	"fmt"
)

// CopyData copies all data from src to dst. Existing destination data is
// replaced; ids are reassigned by the destination.
func CopyData(ctx context.Context, src, dst Repository) (*CopySummary, error) {
	data, err := src.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot source: %w", err)
	}
	if err := dst.ReplaceAll(ctx, data); err != nil {
		return nil, fmt.Errorf("write destination: %w", err)
	}
	return summarize(data), nil
}

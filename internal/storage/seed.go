// ABOUTME: Seed loader for demo and test data.
// ABOUTME: Replaces stored data with the embedded fixture document.
package storage

import (
	"context"
	_ "embed"
)

//go:embed fixtures/seed.yaml
var defaultFixture []byte

// DefaultDocument returns the built-in fixture: five exercises, three workouts
// and one association per workout.
func DefaultDocument() (*Document, error) {
	return ParseYAMLDocument(defaultFixture)
}

// Seed clears repo and loads doc, or the default fixture when doc is nil.
func Seed(ctx context.Context, repo Repository, doc *Document) (*CopySummary, error) {
	if doc == nil {
		var err error
		if doc, err = DefaultDocument(); err != nil {
			return nil, err
		}
	}
	return ImportDocument(ctx, repo, doc)
}

package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/pulsekit/go-studio/components/analytics"
)

type analyticsSnapshotter interface {
	Snapshot() analytics.PageSnapshot
}

// AnalyticsSnapshotInput addresses the current analytics projection; it
// carries no parameters because the controller holds the page state.
type AnalyticsSnapshotInput struct{}

// AnalyticsSnapshotQuery reads the analytics page projection.
type AnalyticsSnapshotQuery struct {
	controller analyticsSnapshotter
}

// NewAnalyticsSnapshotQuery builds the query.
func NewAnalyticsSnapshotQuery(controller analyticsSnapshotter) *AnalyticsSnapshotQuery {
	return &AnalyticsSnapshotQuery{controller: controller}
}

var _ gocommand.Querier[AnalyticsSnapshotInput, analytics.PageSnapshot] = (*AnalyticsSnapshotQuery)(nil)

// Query returns the current analytics snapshot.
func (q *AnalyticsSnapshotQuery) Query(ctx context.Context, _ AnalyticsSnapshotInput) (analytics.PageSnapshot, error) {
	return q.controller.Snapshot(), nil
}

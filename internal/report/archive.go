// Package report turns finished plans into human-readable summaries and
// archived JSON documents.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hivecore/internal/blob"
	"hivecore/pkg/domain"
)

// Archiver persists plan documents to a blob store so a run can be audited
// after the fact. One archived document per planning run.
type Archiver struct {
	store  blob.Store
	logger zerolog.Logger
}

// NewArchiver wraps store. The logger may be zerolog.Nop().
func NewArchiver(store blob.Store, logger zerolog.Logger) *Archiver {
	return &Archiver{store: store, logger: logger}
}

// Key returns the archive key for a plan run.
func Key(target domain.Item, runID uuid.UUID) string {
	return fmt.Sprintf("plans/%s/%s.json", target, runID)
}

// Archive writes the plan as indented JSON under Key(plan.Target, runID).
func (a *Archiver) Archive(ctx context.Context, plan *domain.Plan, runID uuid.UUID) (blob.Info, error) {
	if plan == nil {
		return blob.Info{}, fmt.Errorf("archive: nil plan")
	}
	body, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return blob.Info{}, fmt.Errorf("archive: encode plan: %w", err)
	}
	key := Key(plan.Target, runID)
	info, err := a.store.Put(ctx, key, bytes.NewReader(body), blob.PutOptions{
		ContentType: "application/json",
		Metadata: map[string]string{
			"target":      string(plan.Target),
			"total_steps": strconv.Itoa(plan.TotalSteps),
			"run_id":      runID.String(),
		},
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("archive: store plan: %w", err)
	}
	a.logger.Info().
		Str("target", string(plan.Target)).
		Str("key", key).
		Int64("size_bytes", info.Size).
		Msg("plan archived")
	return info, nil
}

// Load reads a previously archived plan back.
func (a *Archiver) Load(ctx context.Context, target domain.Item, runID uuid.UUID) (*domain.Plan, error) {
	_, rc, err := a.store.Get(ctx, Key(target, runID))
	if err != nil {
		return nil, fmt.Errorf("archive: load plan: %w", err)
	}
	defer rc.Close()
	var plan domain.Plan
	if err := json.NewDecoder(rc).Decode(&plan); err != nil {
		return nil, fmt.Errorf("archive: decode plan: %w", err)
	}
	return &plan, nil
}

// ListRuns returns the archived documents for one target, oldest key first.
func (a *Archiver) ListRuns(ctx context.Context, target domain.Item) ([]blob.Info, error) {
	return a.store.List(ctx, fmt.Sprintf("plans/%s/", target))
}

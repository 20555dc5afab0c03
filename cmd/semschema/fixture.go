package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/c360/semschema/config"
	"github.com/c360/semschema/datamodel"
	"github.com/c360/semschema/store"
	"github.com/c360/semschema/store/memstore"
)

// fixture is the JSON shape accepted by --fixture: the statements of
// both graphs in canonical term form.
type fixture struct {
	Constraint []store.Statement `json:"constraint"`
	Inference  []store.Statement `json:"inference"`
}

// loadFixtureModel seeds an in-memory store from a fixture file and
// loads the project's model from it, so graphs can be checked without a
// running store.
func loadFixtureModel(
	ctx context.Context,
	cfg *config.Config,
	path string,
	logger *slog.Logger,
) (*datamodel.DataModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}

	mem := memstore.New()
	if err := mem.ApplyDelta(ctx, store.ConstraintGraph(cfg.Project),
		store.Delta{Additions: fx.Constraint}); err != nil {
		return nil, fmt.Errorf("seed constraint graph: %w", err)
	}
	if err := mem.ApplyDelta(ctx, store.InferenceGraph(cfg.Project),
		store.Delta{Additions: fx.Inference}); err != nil {
		return nil, fmt.Errorf("seed inference graph: %w", err)
	}

	model := datamodel.New(mem, cfg.Project, datamodel.WithLogger(logger))

	slog.Info("Loading data model from fixture", "project", cfg.Project, "fixture", path)
	if err := model.Load(ctx); err != nil {
		return nil, fmt.Errorf("load fixture model for project %s: %w", cfg.Project, err)
	}
	return model, nil
}

package engine

import (
	"github.com/google/uuid"

	"github.com/digitaiam/warehouse-ledger/pkg/checkpoints"
	"github.com/digitaiam/warehouse-ledger/pkg/ledgererr"
	"github.com/digitaiam/warehouse-ledger/pkg/log"
	"github.com/digitaiam/warehouse-ledger/pkg/metrics"
	"github.com/digitaiam/warehouse-ledger/pkg/operations"
	"github.com/digitaiam/warehouse-ledger/pkg/storage"
	"github.com/digitaiam/warehouse-ledger/pkg/types"
)

// transferNamespace derives the stable id of a transfer's auto-generated
// receive leg from its issue leg's id, so repeated edits of the same
// transfer always resolve to the same dependent op.
var transferNamespace = uuid.MustParse("5a7c9e3a-4b1d-4f2e-9c8a-1d6e2f4b7a90")

// Engine runs the mutation protocol against a storage.Backend.
type Engine struct {
	backend     storage.Backend
	ops         operations.Topology
	checkpoints checkpoints.Topology
}

// New builds an Engine over backend, using the default bbolt-backed
// topologies.
func New(backend storage.Backend) *Engine {
	return &Engine{
		backend:     backend,
		ops:         operations.New(),
		checkpoints: checkpoints.New(),
	}
}

// Apply runs the mutation protocol for each mutation in order. Each
// mutation commits under its own snapshot; a failure aborts only that
// mutation's write batch, leaving prior mutations committed and the
// database otherwise unchanged.
func (e *Engine) Apply(mutations []types.OpMutation) error {
	for _, m := range mutations {
		if err := e.applyOne(m); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) applyOne(m types.OpMutation) error {
	kind := mutationKind(m)
	timer := metrics.NewTimer()

	if !m.IsValid() {
		metrics.MutationsTotal.WithLabelValues(kind, "bad_input").Inc()
		return ledgererr.New(ledgererr.BadInput, "mutation has neither before nor after")
	}

	logger := log.WithOp(m.ID.String())
	logger.Debug().Msg("applying mutation")
	log.WithStore(m.Store.String()).Debug().Msg("applying mutation for store")

	err := e.backend.Update(func(w storage.Writer) error {
		return e.applyMutation(w, m)
	})
	metrics.MutationDuration.WithLabelValues(kind).Observe(timer.Duration().Seconds())
	if err != nil {
		outcome := "error"
		if ledgerErr, ok := ledgererr.As(err); ok {
			outcome = ledgerErr.Kind.String()
		}
		metrics.MutationsTotal.WithLabelValues(kind, outcome).Inc()
		logger.Warn().Err(err).Msg("mutation aborted")
		return err
	}
	metrics.MutationsTotal.WithLabelValues(kind, "ok").Inc()
	logger.Info().Msg("mutation committed")
	return nil
}

// mutationKind reports the op kind a mutation carries for metric labels,
// preferring After (the kind being created/edited to) and falling back
// to Before for a delete.
func mutationKind(m types.OpMutation) string {
	switch {
	case m.After != nil:
		return m.After.Kind.String()
	case m.Before != nil:
		return m.Before.Kind.String()
	default:
		return "unknown"
	}
}

func (e *Engine) applyMutation(w storage.Writer, m types.OpMutation) error {
	if m.StoreInto != nil {
		return e.applyTransfer(w, m)
	}

	_, err := e.processLeg(w, legInput{
		id:     m.ID,
		date:   m.Date,
		store:  m.Store,
		goods:  m.Goods,
		batch:  m.Batch,
		before: m.Before,
		after:  m.After,
	})
	return err
}

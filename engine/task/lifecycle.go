package task

import (
	"context"
	"fmt"

	"github.com/gridflow/gridflow/pkg/logger"
)

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

// Lifecycle is the five-stage contract every concrete task fulfills. The
// stages form a linear sequence; the base type enforces no ordering itself,
// that is the driver's obligation.
type Lifecycle interface {
	// Initialize prepares the task before any configuration is applied.
	Initialize(ctx context.Context) error
	// Configure readies the task for execution.
	Configure(ctx context.Context) error
	// Execute performs the task's work.
	Execute(ctx context.Context) error
	// Finalize handles the products of execution.
	Finalize(ctx context.Context) error
	// Clean removes working state after finalization.
	Clean(ctx context.Context) error
}

type Stage string

const (
	StageCreated     Stage = "CREATED"
	StageInitialized Stage = "INITIALIZED"
	StageConfigured  Stage = "CONFIGURED"
	StageExecuted    Stage = "EXECUTED"
	StageFinalized   Stage = "FINALIZED"
	StageCleaned     Stage = "CLEANED"
)

func (s Stage) String() string {
	return string(s)
}

// Stages returns the lifecycle stages a task passes through, in order,
// starting from the state reached by construction.
func Stages() []Stage {
	return []Stage{
		StageCreated,
		StageInitialized,
		StageConfigured,
		StageExecuted,
		StageFinalized,
		StageCleaned,
	}
}

// Context satisfies Lifecycle with no-op stages so concrete tasks override
// only what they need.

func (t *Context) Initialize(_ context.Context) error { return nil }

func (t *Context) Configure(_ context.Context) error { return nil }

func (t *Context) Execute(_ context.Context) error { return nil }

func (t *Context) Finalize(_ context.Context) error { return nil }

func (t *Context) Clean(_ context.Context) error { return nil }

// Run drives a single task through its stages in order, stopping at the
// first failure. It never skips or repeats a stage within one run.
func Run(ctx context.Context, lc Lifecycle) error {
	log := logger.FromContext(ctx)
	steps := []struct {
		stage Stage
		fn    func(context.Context) error
	}{
		{StageInitialized, lc.Initialize},
		{StageConfigured, lc.Configure},
		{StageExecuted, lc.Execute},
		{StageFinalized, lc.Finalize},
		{StageCleaned, lc.Clean},
	}
	for _, step := range steps {
		log.Debug("entering lifecycle stage", "stage", step.stage)
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("lifecycle stage %s: %w", step.stage, err)
		}
	}
	return nil
}

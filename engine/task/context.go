package task

import (
	"context"
	"fmt"
	"time"

	"github.com/gridflow/gridflow/engine/core"
	"github.com/gridflow/gridflow/pkg/logger"
	"github.com/gridflow/gridflow/pkg/timeutil"
)

// Configuration keys written or consumed during construction.
const (
	KeyCurrentCycle  = "current_cycle"
	KeyPreviousCycle = "previous_cycle"
	KeyAssimFreq     = "assim_freq"
)

// runtimeKeys is the fixed, ordered set of keys the workflow driver must
// supply. They describe execution context rather than task behavior and are
// stripped from the private snapshot once accounted for.
// TODO: retire CDUMP once every downstream consumer reads RUN.
var runtimeKeys = []string{"PDY", "cyc", "DATA", "RUN", "CDUMP"}

// RuntimeKeys returns the fixed runtime key names in their defined order.
func RuntimeKeys() []string {
	keys := make([]string, len(runtimeKeys))
	copy(keys, runtimeKeys)
	return keys
}

// Runtime is the typed view of the runtime keys, decoded from the task
// configuration at construction.
type Runtime struct {
	PDY   string `mapstructure:"PDY"   validate:"required,len=8,numeric"`
	Cyc   int    `mapstructure:"cyc"   validate:"gte=0,lte=23"`
	Data  string `mapstructure:"DATA"  validate:"required"`
	Run   string `mapstructure:"RUN"   validate:"required"`
	CDump string `mapstructure:"CDUMP" validate:"required"`
}

// -----------------------------------------------------------------------------
// Context
// -----------------------------------------------------------------------------

// Context is the per-task configuration context every concrete task embeds.
// TaskConfig is the only configuration surface downstream logic may read or
// write; the private snapshot exists to account for runtime keys and is
// never touched after construction.
type Context struct {
	config core.Config

	// TaskConfig carries everything the raw configuration held, enriched
	// with the derived cycle fields. Mutable for the lifetime of the task.
	TaskConfig core.Config

	// Extras holds the additional constructor values, keyed by name.
	Extras map[string]any

	// Runtime is the validated, typed view of the runtime keys.
	Runtime Runtime
}

// NewContext builds a task context from a raw configuration and optional
// extras. The configuration must carry the five runtime keys and
// assim_freq; anything missing is a fatal configuration error.
func NewContext(ctx context.Context, cfg core.Config, extras ...Extra) (*Context, error) {
	log := logger.FromContext(ctx)

	snapshot, err := cfg.DeepCopy()
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot config: %w", err)
	}
	if snapshot == nil {
		snapshot = core.Config{}
	}

	taskConfig, err := snapshot.DeepCopy()
	if err != nil {
		return nil, fmt.Errorf("failed to derive task config: %w", err)
	}

	tc := &Context{
		config:     snapshot,
		TaskConfig: taskConfig,
		Extras:     applyExtras(extras),
	}

	for _, key := range runtimeKeys {
		if !tc.config.Has(key) {
			log.Error("runtime key absent from config", "key", key)
			return nil, &MissingRuntimeKeyError{Key: key}
		}
		log.Debug("deleting runtime key from config", "key", key)
		tc.config.Delete(key)
	}

	if err := tc.deriveCycles(log); err != nil {
		return nil, err
	}

	if err := tc.TaskConfig.Decode(&tc.Runtime); err != nil {
		log.Error("runtime keys failed to decode", "error", err)
		return nil, fmt.Errorf("invalid runtime keys: %w", err)
	}
	if err := NewRuntimeValidator(&tc.Runtime).Validate(); err != nil {
		log.Error("runtime keys failed validation", "error", err)
		return nil, fmt.Errorf("invalid runtime keys: %w", err)
	}

	return tc, nil
}

// deriveCycles computes the current and previous cycle datetimes and writes
// them into the task configuration.
func (t *Context) deriveCycles(log logger.Logger) error {
	pdy, err := timeutil.ParseCycleDate(t.TaskConfig.GetString("PDY"))
	if err != nil {
		log.Error("invalid PDY in config", "error", err)
		return fmt.Errorf("invalid runtime keys: %w", err)
	}
	cycDelta, err := timeutil.ToTimedelta(fmt.Sprintf("%s hours", t.TaskConfig.GetString("cyc")))
	if err != nil {
		log.Error("invalid cyc in config", "error", err)
		return fmt.Errorf("invalid runtime keys: %w", err)
	}
	currentCycle := timeutil.AddToDatetime(pdy, cycDelta)
	t.TaskConfig.Set(KeyCurrentCycle, currentCycle)
	log.Debug("current cycle", "cycle", currentCycle)

	if !t.config.Has(KeyAssimFreq) {
		log.Error("config key absent", "key", KeyAssimFreq)
		return &MissingConfigKeyError{Key: KeyAssimFreq}
	}
	freqDelta, err := timeutil.ToTimedelta(fmt.Sprintf("%s hours", t.config.GetString(KeyAssimFreq)))
	if err != nil {
		log.Error("invalid assim_freq in config", "error", err)
		return fmt.Errorf("invalid config key %q: %w", KeyAssimFreq, err)
	}
	previousCycle := timeutil.AddToDatetime(currentCycle, -freqDelta)
	t.TaskConfig.Set(KeyPreviousCycle, previousCycle)
	log.Debug("previous cycle", "cycle", previousCycle)

	return nil
}

// CurrentCycle returns the derived current cycle datetime.
func (t *Context) CurrentCycle() time.Time {
	cycle, _ := t.TaskConfig[KeyCurrentCycle].(time.Time)
	return cycle
}

// PreviousCycle returns the derived previous cycle datetime.
func (t *Context) PreviousCycle() time.Time {
	cycle, _ := t.TaskConfig[KeyPreviousCycle].(time.Time)
	return cycle
}

// Extra returns the extra constructor value stored under name.
func (t *Context) Extra(name string) (any, bool) {
	value, ok := t.Extras[name]
	return value, ok
}

package task

import "fmt"

// -----------------------------------------------------------------------------
// Construction errors
// -----------------------------------------------------------------------------

// MissingRuntimeKeyError reports that one of the fixed runtime keys was
// absent from the configuration handed to NewContext. Construction aborts;
// no partial context is usable.
type MissingRuntimeKeyError struct {
	Key string
}

func (e *MissingRuntimeKeyError) Error() string {
	return fmt.Sprintf("encountered an unreferenced runtime key %q in config", e.Key)
}

// MissingConfigKeyError reports that a configuration key required to derive
// a composite field was absent. Construction aborts.
type MissingConfigKeyError struct {
	Key string
}

func (e *MissingConfigKeyError) Error() string {
	return fmt.Sprintf("missing config key %q", e.Key)
}

package task

import "fmt"

// -----------------------------------------------------------------------------
// Extra constructor arguments
// -----------------------------------------------------------------------------

// Extra is an additional value handed to NewContext beyond the
// configuration itself. Flag values are stored under their own string form;
// Value entries are stored under an explicit name and are applied after all
// Flag entries, overwriting same-named ones.
type Extra struct {
	name  string
	value any
	named bool
}

// Flag wraps a bare extra value. Its string form becomes its name, so two
// flags that stringify identically leave only the second (a documented
// quirk, not a contract).
func Flag(value any) Extra {
	return Extra{value: value}
}

// Value wraps a named extra value.
func Value(name string, value any) Extra {
	return Extra{name: name, value: value, named: true}
}

// applyExtras resolves the extras into the context map: flags first in
// order, then named values.
func applyExtras(extras []Extra) map[string]any {
	resolved := make(map[string]any, len(extras))
	for _, extra := range extras {
		if extra.named {
			continue
		}
		resolved[fmt.Sprint(extra.value)] = extra.value
	}
	for _, extra := range extras {
		if extra.named {
			resolved[extra.name] = extra.value
		}
	}
	return resolved
}

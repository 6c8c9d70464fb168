package core

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/mohae/deepcopy"
)

// stringToBase10IntHook decodes integer-like strings in base 10. Without it
// mapstructure's weak typing parses with base 0, where zero-padded cycle
// hours such as "08" and "09" are invalid octal.
func stringToBase10IntHook(from reflect.Kind, to reflect.Kind, data any) (any, error) {
	if from != reflect.String {
		return data, nil
	}
	switch to {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return data, nil
	}
	s, ok := data.(string)
	if !ok {
		return data, nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		// Leave it for the decoder to report.
		return data, nil
	}
	return parsed, nil
}

// newWeakDecoder builds the decoder every weakly typed conversion in the
// engine goes through.
func newWeakDecoder(result any) (*mapstructure.Decoder, error) {
	return mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.DecodeHookFuncKind(stringToBase10IntHook),
		Result:           result,
	})
}

// -----------------------------------------------------------------------------
// Config
// -----------------------------------------------------------------------------

// Config is the attribute-accessible mapping carried through the engine: a
// string-keyed container of scalars, strings and nested mappings. Keys are
// case-sensitive; insertion order carries no meaning.
type Config map[string]any

// Get returns the value stored under key and whether it was present.
func (c Config) Get(key string) (any, bool) {
	value, ok := c[key]
	return value, ok
}

// GetString returns the value under key rendered as a string, or "" when
// absent.
func (c Config) GetString(key string) string {
	value, ok := c[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// GetInt returns the value under key coerced to an int. String values such
// as "06" coerce the way the rest of the engine decodes configuration.
func (c Config) GetInt(key string) (int, error) {
	value, ok := c[key]
	if !ok {
		return 0, fmt.Errorf("key %q not found", key)
	}
	var out int
	decoder, err := newWeakDecoder(&out)
	if err != nil {
		return 0, err
	}
	if err := decoder.Decode(value); err != nil {
		return 0, fmt.Errorf("key %q is not integer-like: %w", key, err)
	}
	return out, nil
}

// Has reports whether key is present.
func (c Config) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// Set stores value under key.
func (c Config) Set(key string, value any) {
	c[key] = value
}

// Delete removes key from the mapping.
func (c Config) Delete(key string) {
	delete(c, key)
}

// Keys returns all keys in sorted order.
func (c Config) Keys() []string {
	keys := make([]string, 0, len(c))
	for key := range c {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// DeepCopy returns a copy of the mapping that shares no state with the
// original, nested mappings included.
func (c Config) DeepCopy() (Config, error) {
	if c == nil {
		return nil, nil
	}
	copied, ok := deepcopy.Copy(map[string]any(c)).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("failed to copy config")
	}
	return Config(copied), nil
}

// Merge overlays other on top of this mapping, overriding existing keys.
func (c *Config) Merge(other Config) error {
	if c == nil {
		return fmt.Errorf("cannot merge into nil config")
	}
	if *c == nil {
		*c = Config{}
	}
	target := map[string]any(*c)
	if err := mergo.Merge(&target, map[string]any(other), mergo.WithOverride); err != nil {
		return fmt.Errorf("failed to merge configs: %w", err)
	}
	*c = Config(target)
	return nil
}

// Decode populates a typed struct from the mapping using weakly-typed
// conversion, so "06" and "08" decode into an int field.
func (c Config) Decode(out any) error {
	decoder, err := newWeakDecoder(out)
	if err != nil {
		return err
	}
	if err := decoder.Decode(map[string]any(c)); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

// AsMap exposes the mapping as a plain map.
func (c Config) AsMap() map[string]any {
	return map[string]any(c)
}

// Package config assembles the raw configuration a workflow driver hands to
// a task: struct defaults underneath, an experiment YAML file on top, and an
// allowlisted environment overlay above both.
package config

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/gridflow/gridflow/engine/core"
	"github.com/gridflow/gridflow/pkg/logger"
)

// Defaults are the supplemental knobs applied beneath every other layer.
// Runtime keys and assim_freq never default; the driver must supply them
// explicitly.
type Defaults struct {
	Envir    string `koanf:"envir"`
	KeepData string `koanf:"KEEPDATA"`
}

func DefaultValues() Defaults {
	return Defaults{
		Envir:    "prod",
		KeepData: "NO",
	}
}

// RuntimeEnvKeys returns the environment variables a workflow driver
// conventionally exports for a task.
func RuntimeEnvKeys() []string {
	return []string{"PDY", "cyc", "DATA", "RUN", "CDUMP", "assim_freq"}
}

type Loader struct {
	defaults any
	filePath string
	envKeys  []string
}

type Option func(*Loader)

// WithDefaults supplies the struct whose koanf-tagged fields seed the lowest
// layer.
func WithDefaults(defaults any) Option {
	return func(l *Loader) {
		l.defaults = defaults
	}
}

// WithFile points the loader at a YAML configuration file.
func WithFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithEnvironment sets the environment variables allowed to overlay the
// file layer.
func WithEnvironment(keys ...string) Option {
	return func(l *Loader) {
		l.envKeys = keys
	}
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		defaults: DefaultValues(),
		envKeys:  RuntimeEnvKeys(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load assembles the layers into one configuration, later layers overriding
// earlier ones.
func (l *Loader) Load(ctx context.Context) (core.Config, error) {
	log := logger.FromContext(ctx)

	cfg, err := l.loadDefaults()
	if err != nil {
		return nil, err
	}

	if l.filePath != "" {
		fileLayer, err := l.loadFile()
		if err != nil {
			return nil, err
		}
		if err := cfg.Merge(fileLayer); err != nil {
			return nil, err
		}
		log.Debug("loaded config file", "path", l.filePath)
	}

	envLayer, err := l.loadEnvironment()
	if err != nil {
		return nil, err
	}
	if err := cfg.Merge(envLayer); err != nil {
		return nil, err
	}

	log.Debug("assembled raw config", "keys", len(cfg))
	return cfg, nil
}

func (l *Loader) loadDefaults() (core.Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(l.defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	return core.Config(k.Raw()), nil
}

func (l *Loader) loadFile() (core.Config, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", l.filePath, err)
	}
	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", l.filePath, err)
	}
	return core.Config(parsed), nil
}

func (l *Loader) loadEnvironment() (core.Config, error) {
	allowed := make(map[string]struct{}, len(l.envKeys))
	for _, key := range l.envKeys {
		allowed[key] = struct{}{}
	}
	k := koanf.New(".")
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: "",
		TransformFunc: func(key string, value string) (string, any) {
			if _, ok := allowed[key]; ok {
				return key, value
			}
			return "", nil
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	return core.Config(k.Raw()), nil
}

package fastslic

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config bundles the tuning knobs and ambient collaborators for Iterate
// and the connectivity operations. Construct one with DefaultConfig and
// override with functional Options, or load one from YAML with
// LoadConfig.
type Config struct {
	// Compactness trades color fidelity for regular cluster shape. Higher
	// values produce more square, grid-like superpixels.
	Compactness float64 `yaml:"compactness"`

	// MinSizeFactor bounds how small a cluster's expected footprint
	// (H*W/K) may shrink to before EnforceConnectivity folds it into a
	// neighbor instead of keeping it as its own component.
	MinSizeFactor float64 `yaml:"min_size_factor"`

	// QuantizeLevel sets the number of fractional bits used when
	// quantizing the spatial distance term into the packed 32-bit
	// assignment word.
	QuantizeLevel int `yaml:"quantize_level"`

	// MaxIter bounds the number of assign/update passes Iterate will run.
	MaxIter int `yaml:"max_iter"`

	// Workers bounds assignment/update parallelism. Zero means
	// DefaultWorkers(Logger).
	Workers int `yaml:"workers"`

	Logger   *Logger   `yaml:"-"`
	Governor *Governor `yaml:"-"`
}

// DefaultConfig returns the configuration used when a caller does not
// need anything unusual: compactness 10, min_size_factor 0.25,
// 8-bit quantization, 10 iterations, GOMAXPROCS workers.
func DefaultConfig() Config {
	return Config{
		Compactness:   10,
		MinSizeFactor: 0.25,
		QuantizeLevel: 8,
		MaxIter:       10,
		Workers:       0,
		Logger:        NoopLogger(),
		Governor:      nil,
	}
}

// Option mutates a Config in place.
//
// Breaking changes are expected while fastslic is pre-release.
type Option func(*Config)

// WithCompactness overrides the compactness weight.
func WithCompactness(c float64) Option {
	return func(cfg *Config) { cfg.Compactness = c }
}

// WithMinSizeFactor overrides the minimum cluster size factor.
func WithMinSizeFactor(f float64) Option {
	return func(cfg *Config) { cfg.MinSizeFactor = f }
}

// WithQuantizeLevel overrides the spatial-distance quantization level.
func WithQuantizeLevel(level int) Option {
	return func(cfg *Config) { cfg.QuantizeLevel = level }
}

// WithMaxIter overrides the iteration budget.
func WithMaxIter(n int) Option {
	return func(cfg *Config) { cfg.MaxIter = n }
}

// WithWorkers overrides assignment/update parallelism. n <= 0 means
// DefaultWorkers(Logger).
func WithWorkers(n int) Option {
	return func(cfg *Config) { cfg.Workers = n }
}

// WithLogger configures structured logging for Iterate and the
// connectivity operations. Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(cfg *Config) { cfg.Logger = logger }
}

// WithGovernor attaches a resource Governor that Iterate consults for its
// memory reservation, worker slot and progress-log throttling.
func WithGovernor(g *Governor) Option {
	return func(cfg *Config) { cfg.Governor = g }
}

// Apply returns cfg with every opt applied in order.
func (cfg Config) Apply(opts ...Option) Config {
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (cfg Config) workerCount() int {
	if cfg.Workers > 0 {
		return cfg.Workers
	}
	return DefaultWorkers(cfg.logger())
}

func (cfg Config) logger() *Logger {
	if cfg.Logger == nil {
		return NoopLogger()
	}
	return cfg.Logger
}

// Validate checks that cfg's numeric fields are within usable ranges.
func (cfg Config) Validate() error {
	if cfg.Compactness < 0 {
		return invalidArgf("Compactness", "must be non-negative, got %v", cfg.Compactness)
	}
	if cfg.MinSizeFactor < 0 || cfg.MinSizeFactor >= 1 {
		return invalidArgf("MinSizeFactor", "must be in [0, 1), got %v", cfg.MinSizeFactor)
	}
	if cfg.QuantizeLevel < 1 || cfg.QuantizeLevel > 15 {
		return invalidArgf("QuantizeLevel", "must be in [1, 15], got %d", cfg.QuantizeLevel)
	}
	if cfg.MaxIter < 0 {
		return invalidArgf("MaxIter", "must be non-negative, got %d", cfg.MaxIter)
	}
	return nil
}

// LoadConfig reads a YAML-encoded Config from path, starting from
// DefaultConfig and overriding only the fields present in the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("fastslic: load config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("fastslic: parse config %s: %w", path, err)
	}
	if cfg.Logger == nil {
		cfg.Logger = NoopLogger()
	}
	return cfg, nil
}

// SaveConfig writes cfg as YAML to path.
func SaveConfig(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("fastslic: marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("fastslic: save config %s: %w", path, err)
	}
	return nil
}

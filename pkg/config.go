package blockdupes

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-ini/ini"
)

// ErrInvalidConfigValue is returned by Validate for a key whose value cannot be parsed
var ErrInvalidConfigValue = errors.New("invalid configuration value")

// Config represents the blockdupes configuration file
type Config struct {
	configPath string
	ini        *ini.File
}

// EngineConfig represents comparison engine configuration
type EngineConfig struct {
	BlockSize string // Block size, human-readable (default: "4K")
	Hash      string // Block hash algorithm (default: crc32)
	Workers   int    // Concurrent size-class workers (default: 4)
}

// CollectConfig represents candidate intake configuration
type CollectConfig struct {
	MinSize        int64 // Files smaller than this are dropped (default: 2)
	FollowSymlinks bool  // Compare the targets of symlinked files (default: true)
}

// OutputConfig represents output format configuration
type OutputConfig struct {
	Format string // Output format: human, json
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // Default verbose level (0=quiet, 1=basic, 2=detailed, 3=trace)
	Debug string // Default debug flags (comma-separated)
}

// AllConfig represents all configuration options
type AllConfig struct {
	Engine  *EngineConfig
	Collect *CollectConfig
	Output  *OutputConfig
	Verbose *VerboseConfig
}

// LoadConfig loads configuration from configPath.
// A missing file (or an empty path) yields the built-in defaults without touching disk.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{
		configPath: configPath,
	}

	if configPath == "" {
		return cfg, cfg.initDefaults()
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := cfg.initDefaults(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	iniFile, err := ini.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}
	cfg.ini = iniFile

	return cfg, nil
}

func (c *Config) initDefaults() error {
	c.ini = ini.Empty()
	if err := c.setDefaults(); err != nil {
		return fmt.Errorf("failed to set default config: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values
func (c *Config) setDefaults() error {
	defaults := []struct {
		section, key, value string
	}{
		{"engine", "block_size", strconv.Itoa(DefaultBlockSize)},
		{"engine", "hash", DefaultHashName},
		{"engine", "workers", strconv.Itoa(DefaultWorkers)},
		{"collect", "min_size", strconv.Itoa(DefaultMinSize)},
		{"collect", "follow_symlinks", "true"},
		{"output", "format", FormatHuman},
		{"verbose", "level", "0"},
		{"verbose", "debug", ""},
	}

	for _, d := range defaults {
		section, err := c.ini.NewSection(d.section)
		if err != nil {
			return fmt.Errorf("failed to create %s section: %w", d.section, err)
		}
		if _, err := section.NewKey(d.key, d.value); err != nil {
			return fmt.Errorf("failed to set default %s.%s: %w", d.section, d.key, err)
		}
	}

	return nil
}

// Path returns the file the configuration is saved to
func (c *Config) Path() string {
	return c.configPath
}

// GetEngineConfig returns the engine configuration
func (c *Config) GetEngineConfig() *EngineConfig {
	engineConfig := &EngineConfig{
		BlockSize: strconv.Itoa(DefaultBlockSize), // fallback default
		Hash:      DefaultHashName,                // fallback default
		Workers:   DefaultWorkers,                 // fallback default
	}

	if c.ini.HasSection("engine") {
		section := c.ini.Section("engine")
		if section.HasKey("block_size") {
			if blockSize := section.Key("block_size").String(); blockSize != "" {
				engineConfig.BlockSize = blockSize
			}
		}
		if section.HasKey("hash") {
			if hashName := section.Key("hash").String(); hashName != "" {
				engineConfig.Hash = hashName
			}
		}
		if section.HasKey("workers") {
			if workers, err := section.Key("workers").Int(); err == nil {
				engineConfig.Workers = workers
			}
		}
	}

	return engineConfig
}

// GetCollectConfig returns the candidate intake configuration
func (c *Config) GetCollectConfig() *CollectConfig {
	collectConfig := &CollectConfig{
		MinSize:        DefaultMinSize, // fallback default
		FollowSymlinks: true,           // fallback default
	}

	if c.ini.HasSection("collect") {
		section := c.ini.Section("collect")
		if section.HasKey("min_size") {
			if minSize, err := section.Key("min_size").Int64(); err == nil {
				collectConfig.MinSize = minSize
			}
		}
		if section.HasKey("follow_symlinks") {
			if follow, err := section.Key("follow_symlinks").Bool(); err == nil {
				collectConfig.FollowSymlinks = follow
			}
		}
	}

	return collectConfig
}

// GetOutputConfig returns the output configuration
func (c *Config) GetOutputConfig() *OutputConfig {
	outputConfig := &OutputConfig{
		Format: FormatHuman, // fallback default
	}

	if c.ini.HasSection("output") {
		section := c.ini.Section("output")
		if section.HasKey("format") {
			outputConfig.Format = section.Key("format").String()
		}
	}

	return outputConfig
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{}

	if c.ini.HasSection("verbose") {
		section := c.ini.Section("verbose")
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				verboseConfig.Level = level
			}
		}
		if section.HasKey("debug") {
			verboseConfig.Debug = section.Key("debug").String()
		}
	}

	return verboseConfig
}

// GetAllConfig returns all configuration options
func (c *Config) GetAllConfig() *AllConfig {
	return &AllConfig{
		Engine:  c.GetEngineConfig(),
		Collect: c.GetCollectConfig(),
		Output:  c.GetOutputConfig(),
		Verbose: c.GetVerboseConfig(),
	}
}

// Options converts the engine section into Finder options
func (c *Config) Options() (Options, error) {
	engine := c.GetEngineConfig()
	blockSize, err := ParseHumanSize(engine.BlockSize)
	if err != nil {
		return Options{}, fmt.Errorf("invalid engine.block_size: %w", err)
	}
	return Options{
		BlockSize: blockSize,
		Hash:      engine.Hash,
		Workers:   engine.Workers,
	}, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("config has no file path")
	}
	return c.ini.SaveTo(c.configPath)
}

// overrideKeys maps override names onto section and key
var overrideKeys = map[string][2]string{
	"block_size":      {"engine", "block_size"},
	"hash":            {"engine", "hash"},
	"workers":         {"engine", "workers"},
	"min_size":        {"collect", "min_size"},
	"follow_symlinks": {"collect", "follow_symlinks"},
	"format":          {"output", "format"},
	"level":           {"verbose", "level"},
	"debug":           {"verbose", "debug"},
}

// ApplyOverrides applies command-line overrides to the configuration
// Accepts strings like "hash:md5", "block_size:64K", "format:json", "level:2"
func (c *Config) ApplyOverrides(overrides []string) error {
	for _, override := range overrides {
		parts := strings.SplitN(override, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid override format '%s', expected 'key:value'", override)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		target, ok := overrideKeys[key]
		if !ok {
			return fmt.Errorf("unsupported override key '%s' (supported: block_size, hash, workers, min_size, follow_symlinks, format, level, debug)", key)
		}
		c.ini.Section(target[0]).Key(target[1]).SetValue(value)
	}

	return nil
}

// Validate checks every configured value and reports the first problem
func (c *Config) Validate() error {
	if err := c.validateValueTypes(); err != nil {
		return err
	}
	all := c.GetAllConfig()

	blockSize, err := ParseHumanSize(all.Engine.BlockSize)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBlockSize, err)
	}
	if err := ValidateBlockSize(blockSize); err != nil {
		return err
	}
	if err := ValidateHashAlgorithm(all.Engine.Hash); err != nil {
		return err
	}
	if err := ValidateWorkers(all.Engine.Workers); err != nil {
		return err
	}
	if all.Collect.MinSize < 0 {
		return fmt.Errorf("min_size must not be negative, got: %d", all.Collect.MinSize)
	}
	if err := ValidateOutputFormat(all.Output.Format); err != nil {
		return err
	}
	return ValidateVerboseLevel(all.Verbose.Level)
}

// ValidateHashAlgorithm validates that a hash algorithm is supported
func ValidateHashAlgorithm(algorithm string) error {
	_, err := GetHashAlgorithm(algorithm)
	return err
}

// ValidateBlockSize validates that a block size is usable
func ValidateBlockSize(blockSize int) error {
	if blockSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}
	return nil
}

// ValidateOutputFormat validates that an output format is supported
func ValidateOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case FormatHuman, FormatJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: human, json)", format)
	}
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < 0 || level > MaxVerboseLevel {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-%d)", level, MaxVerboseLevel)
	}
	return nil
}

// ValidateWorkers validates that the worker count is reasonable
func ValidateWorkers(workers int) error {
	if workers < 1 {
		return fmt.Errorf("workers must be at least 1, got: %d", workers)
	}
	if workers > MaxWorkers {
		return fmt.Errorf("workers should not exceed %d, got: %d", MaxWorkers, workers)
	}
	return nil
}

// typedKeys lists the keys the getters parse as numbers or booleans
var typedKeys = []struct {
	section, key string
	parse        func(*ini.Key) error
}{
	{"engine", "workers", func(k *ini.Key) error { _, err := k.Int(); return err }},
	{"collect", "min_size", func(k *ini.Key) error { _, err := k.Int64(); return err }},
	{"collect", "follow_symlinks", func(k *ini.Key) error { _, err := k.Bool(); return err }},
	{"verbose", "level", func(k *ini.Key) error { _, err := k.Int(); return err }},
}

// validateValueTypes rejects typed keys that are present but unparseable,
// which the getters would otherwise replace with defaults
func (c *Config) validateValueTypes() error {
	for _, tk := range typedKeys {
		if !c.ini.HasSection(tk.section) {
			continue
		}
		section := c.ini.Section(tk.section)
		if !section.HasKey(tk.key) {
			continue
		}
		key := section.Key(tk.key)
		if key.String() == "" {
			continue
		}
		if err := tk.parse(key); err != nil {
			return fmt.Errorf("%w %s.%s = %q: %v", ErrInvalidConfigValue, tk.section, tk.key, key.String(), err)
		}
	}
	return nil
}

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cortexcore/cortexcore/internal/corerr"
)

// envPrefix mirrors the teacher's env-prefix convention, renamed for this
// module.
const envPrefix = "CORTEXCORE"

// Load reads configuration for projectRoot from (in viper's own precedence
// order) environment variables prefixed CORTEXCORE_, a config file named
// .cortexcore.yaml at the project root, and the package defaults. No
// command-line flags are bound.
func Load(projectRoot string) (Config, error) {
	cfg := Default(projectRoot)

	v := viper.New()
	v.SetConfigName(".cortexcore")
	v.SetConfigType("yaml")
	v.AddConfigPath(projectRoot)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("include", cfg.Include)
	v.SetDefault("exclude", cfg.Exclude)
	v.SetDefault("respectGitignore", cfg.RespectGitignore)
	v.SetDefault("maxFileSize", "10MB")
	v.SetDefault("indexingStrategy", string(cfg.IndexingStrategy))
	v.SetDefault("lazyIdleThreshold", cfg.LazyIdleThreshold.String())
	v.SetDefault("extractComments", cfg.ExtractComments)
	v.SetDefault("device", string(cfg.Device))
	v.SetDefault("gitignoreMaxDepth", cfg.GitignoreMaxDepth)
	v.SetDefault("dataDir", cfg.DataDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, &corerr.ConfigurationError{Option: "config file", Reason: err.Error()}
		}
	}

	cfg.Include = v.GetStringSlice("include")
	cfg.Exclude = v.GetStringSlice("exclude")
	cfg.RespectGitignore = v.GetBool("respectGitignore")
	cfg.ExtractComments = v.GetBool("extractComments")
	cfg.GitignoreMaxDepth = v.GetInt("gitignoreMaxDepth")
	cfg.DataDir = v.GetString("dataDir")

	strategy := IndexingStrategy(v.GetString("indexingStrategy"))
	switch strategy {
	case StrategyRealtime, StrategyLazy, StrategyGit:
		cfg.IndexingStrategy = strategy
	default:
		return Config{}, &corerr.ConfigurationError{
			Option: "indexingStrategy",
			Reason: fmt.Sprintf("unknown strategy %q", strategy),
		}
	}

	cfg.Device = Device(v.GetString("device"))

	size, err := ParseSize(v.GetString("maxFileSize"))
	if err != nil {
		return Config{}, &corerr.ConfigurationError{Option: "maxFileSize", Reason: err.Error()}
	}
	cfg.MaxFileSize = size

	idleRaw := v.GetString("lazyIdleThreshold")
	idle, err := time.ParseDuration(idleRaw)
	if err != nil {
		return Config{}, &corerr.ConfigurationError{Option: "lazyIdleThreshold", Reason: err.Error()}
	}
	cfg.LazyIdleThreshold = idle

	return cfg, nil
}

// ParseSize parses a human-readable byte size such as "10MB", "512KB" or a
// bare integer number of bytes.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	units := []struct {
		suffix string
		mult   int64
	}{
		{"GB", 1024 * 1024 * 1024},
		{"MB", 1024 * 1024},
		{"KB", 1024},
		{"B", 1},
	}

	upper := strings.ToUpper(s)
	for _, u := range units {
		if strings.HasSuffix(upper, u.suffix) {
			numPart := strings.TrimSpace(s[:len(s)-len(u.suffix)])
			f, err := strconv.ParseFloat(numPart, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid size %q: %w", s, err)
			}
			return int64(f * float64(u.mult)), nil
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return n, nil
}

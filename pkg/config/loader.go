package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/paldeploy/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileName is the optional per-work-directory configuration file
const FileName = ".paldeploy.toml"

// EnvPrefix prefixes environment overrides. A double underscore separates
// sections: PALDEPLOY_REPOS__DEFAULT_BRANCH=main.
const EnvPrefix = "PALDEPLOY_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Load builds the configuration for workDir. Layers, lowest priority first:
// embedded defaults, <workDir>/.paldeploy.toml, PALDEPLOY_* environment
// variables, then overrides (dotted keys, usually from command line flags).
func Load(workDir string, overrides map[string]interface{}) (Config, error) {
	absWorkDir, err := filepath.Abs(workDir)
	if err != nil {
		return Config{}, errors.Wrapf(err, errors.ErrConfigLoad, "failed to resolve work directory %s", workDir)
	}

	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return Config{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Work directory config
	path := filepath.Join(absWorkDir, FileName)
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return Config{}, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
		}
	}

	// 3. Environment
	err = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return Config{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return Config{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return Config{}, err
	}
	cfg.WorkDir = absWorkDir
	postProcess(&cfg)
	return cfg, nil
}

// Default returns the embedded defaults for workDir without consulting
// files, environment or flags.
func Default(workDir string) Config {
	k := koanf.New(".")
	cfg := Config{}
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err == nil {
		if loaded, err := unmarshal(k); err == nil {
			cfg = loaded
		}
	}
	cfg.WorkDir = workDir
	postProcess(&cfg)
	return cfg
}

func unmarshal(k *koanf.Koanf) (Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return Config{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}
	return cfg, nil
}

func postProcess(cfg *Config) {
	if cfg.Tools.Git == "" {
		cfg.Tools.Git = "git"
	}
	if cfg.Tools.Patch == "" {
		cfg.Tools.Patch = defaultPatchTool()
	}
	if cfg.Tools.Make == "" {
		cfg.Tools.Make = defaultMakeTool()
	}
	if cfg.Repos.DefaultBranch == "" {
		cfg.Repos.DefaultBranch = "master"
	}

	var middleware []string
	for _, mw := range cfg.Selection.Middleware {
		if mw = strings.TrimSpace(mw); mw != "" {
			middleware = append(middleware, mw)
		}
	}
	cfg.Selection.Middleware = middleware
}

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/mtgban/tcg2deckbox/deckbox"
	"github.com/mtgban/tcg2deckbox/refcache"
	"github.com/mtgban/tcg2deckbox/replacements"
)

const envPrefix = "TCG2DECKBOX_"

var configFileNames = []string{"tcg2deckbox.yaml", "tcg2deckbox.yml"}

// Settings holds every knob of a conversion run.
type Settings struct {
	Replacements string        `koanf:"replacements"`
	Output       string        `koanf:"output"`
	CacheDir     string        `koanf:"cache_dir"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
	DeckboxURL   string        `koanf:"deckbox_url"`
	Retries      int           `koanf:"retries"`
	SkipColumns  []string      `koanf:"skip_columns"`
	Report       string        `koanf:"report"`
	Verbose      bool          `koanf:"verbose"`
}

var defaultSettings = map[string]interface{}{
	"replacements": replacements.DefaultFile,
	"output":       deckbox.OutputFile,
	"cache_dir":    ".",
	"cache_ttl":    refcache.DefaultTTL.String(),
	"deckbox_url":  deckbox.BaseURL,
	"retries":      0,
	"skip_columns": []string{},
	"report":       "",
	"verbose":      false,
}

// loadSettings merges, from lowest to highest priority, the defaults, the
// config file, the environment and the flags set on the command line.
func loadSettings(cfgFile string, flags *pflag.FlagSet) (*Settings, error) {
	k := koanf.New(".")

	err := k.Load(confmap.Provider(defaultSettings, "."), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile == "" {
		cfgFile = findConfigFile()
	}
	if cfgFile != "" {
		err = k.Load(file.Provider(cfgFile), yaml.Parser())
		if err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// TCG2DECKBOX_CACHE_DIR -> cache_dir
	err = k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		err = k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var settings Settings
	err = k.Unmarshal("", &settings)
	if err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}

	if settings.Output == "" {
		return nil, fmt.Errorf("output path cannot be empty")
	}
	if settings.CacheTTL < 0 {
		return nil, fmt.Errorf("invalid cache ttl %s", settings.CacheTTL)
	}

	return &settings, nil
}

func findConfigFile() string {
	for _, name := range configFileNames {
		_, err := os.Stat(name)
		if err == nil {
			return name
		}
	}
	return ""
}

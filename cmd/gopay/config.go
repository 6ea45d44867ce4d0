package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mihaimyh/gopay/pkg/gopay"
	zerologadapter "github.com/mihaimyh/gopay/pkg/gopay/logger/zerolog"
)

const envPrefix = "GOPAY"

// settings is the resolved CLI configuration.
type settings struct {
	APIKey     string
	BaseURL    string
	APIVersion string
	Timeout    time.Duration
	Verbose    bool
}

func addConfigFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Config file (default: ./gopay.yaml or $HOME/.config/gopay/gopay.yaml)")
	flags.String("env-file", "", "Load environment variables from this file (default: ./.env if present)")
	flags.String("api-key", "", "Secret API key ($GOPAY_API_KEY)")
	flags.String("base-url", gopay.DefaultBaseURL, "API root ($GOPAY_BASE_URL)")
	flags.String("api-version", "", "Pin the API version ($GOPAY_API_VERSION)")
	flags.Duration("timeout", 30*time.Second, "HTTP timeout ($GOPAY_TIMEOUT)")
	flags.BoolP("verbose", "v", false, "Log requests to stderr ($GOPAY_VERBOSE)")
}

// loadSettings resolves flags, environment and config file into settings.
func loadSettings(flags *pflag.FlagSet) (settings, error) {
	envFile, _ := flags.GetString("env-file")
	if err := loadEnvFile(envFile); err != nil {
		return settings{}, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return settings{}, fmt.Errorf("bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return settings{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("gopay")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/gopay")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return settings{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return settings{
		APIKey:     v.GetString("api-key"),
		BaseURL:    v.GetString("base-url"),
		APIVersion: v.GetString("api-version"),
		Timeout:    v.GetDuration("timeout"),
		Verbose:    v.GetBool("verbose"),
	}, nil
}

// loadEnvFile loads path, or ./.env when path is empty. A missing default
// file is not an error.
func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func (s settings) clientConfig() gopay.Config {
	level := zerolog.WarnLevel
	if s.Verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	return gopay.Config{
		APIKey:     s.APIKey,
		BaseURL:    s.BaseURL,
		APIVersion: s.APIVersion,
		Timeout:    s.Timeout,
		UserAgent:  "gopay-cli/" + Version,
		Logger:     zerologadapter.NewLogger(logger),
	}
}

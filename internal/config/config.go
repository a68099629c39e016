// Package config loads txreconciled's configuration from a TOML file and CLI
// flags, the way github.com/spacemeshos/go-spacemesh/config does for the
// full node: viper reads the file, mapstructure decodes it onto a struct of
// sane defaults, and cobra flags override anything the user set explicitly.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/naumenkogs/bitcoin/reconcile"
)

const defaultConfigFileName = "txreconciled.toml"

// Config holds every tunable listed in SPEC_FULL.md §4.7 and §6, plus the ambient metrics/logging knobs the teacher's BaseConfig
// carries for every executable.
type Config struct {
	ReconRequestInterval time.Duration `mapstructure:"recon-request-interval"`
	ReconResponseTimeout time.Duration `mapstructure:"recon-response-timeout"`

	DefaultQ float64 `mapstructure:"default-q"`

	InboundFanoutDestinationsFraction float64 `mapstructure:"inbound-fanout-fraction"`
	OutboundFanoutDestinations        int     `mapstructure:"outbound-fanout-destinations"`

	ScanInterval time.Duration `mapstructure:"scan-interval"`

	ProtocolVersion uint32 `mapstructure:"protocol-version"`

	MetricsPort    int  `mapstructure:"metrics-port"`
	CollectMetrics bool `mapstructure:"metrics"`

	LogLevel string `mapstructure:"log-level"`
}

// DefaultConfig returns the configuration used when no TOML file and no
// flags override a value.
func DefaultConfig() Config {
	return Config{
		ReconRequestInterval:              reconcile.ReconRequestInterval,
		ReconResponseTimeout:              reconcile.ReconResponseTimeout,
		DefaultQ:                          reconcile.DefaultQ,
		InboundFanoutDestinationsFraction: reconcile.InboundFanoutDestinationsFraction,
		OutboundFanoutDestinations:        reconcile.OutboundFanoutDestinations,
		ScanInterval:                      500 * time.Millisecond,
		ProtocolVersion:                   reconcile.TxReconciliationVersion,
		MetricsPort:                       1010,
		CollectMetrics:                    false,
		LogLevel:                          "info",
	}
}

// LoadConfig reads the TOML file at fileLocation into vip, falling back to
// defaultConfigFileName if that read fails and a different location was
// requested. A file that cannot be read, including a missing one, is
// returned as an error; Parse turns a missing file into DefaultConfig.
func LoadConfig(fileLocation string, vip *viper.Viper) error {
	if fileLocation == "" {
		fileLocation = defaultConfigFileName
	}

	vip.SetConfigFile(fileLocation)
	err := vip.ReadInConfig()
	if err != nil {
		if fileLocation != defaultConfigFileName {
			vip.SetConfigFile(defaultConfigFileName)
			err = vip.ReadInConfig()
		}
		if err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
	}
	return nil
}

// Parse loads fileLocation into a Config, starting from DefaultConfig and
// overlaying whatever the file sets. A non-existent config file at the
// default location yields DefaultConfig unchanged.
func Parse(fileLocation string) (Config, error) {
	vip := viper.New()
	cfg := DefaultConfig()

	if err := LoadConfig(fileLocation, vip); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, err
	}

	hook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	)
	if err := vip.Unmarshal(&cfg, viper.DecodeHook(hook)); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

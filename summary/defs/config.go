package defs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "summary"

// Defaults.
const (
	DefaultInsulinFile    = "InsulinData.csv"
	DefaultCGMFile        = "CGMData.csv"
	DefaultResultsFile    = "Results.csv"
	DefaultFormat         = "csv"
	DefaultCountThreshold = 250
	DefaultAutoModeAlarm  = "AUTO MODE ACTIVE PLGM OFF"
)

var DefaultTimeLayouts = []string{
	"1/2/2006 15:04:05",
	"2006-01-02 15:04:05",
}

type Config struct {
	Input          InputConfig  `yaml:"input"`
	Output         OutputConfig `yaml:"output"`
	CountThreshold int          `yaml:"countThreshold" envconfig:"COUNT_THRESHOLD"`
	AutoModeAlarm  string       `yaml:"autoModeAlarm" envconfig:"AUTO_MODE_ALARM"`
	TimeLayouts    []string     `yaml:"timeLayouts" envconfig:"TIME_LAYOUTS"`
	Logger         *zap.Logger  `yaml:"-" ignored:"true"`
}

type InputConfig struct {
	Insulin string `yaml:"insulin" envconfig:"INSULIN"`
	CGM     string `yaml:"cgm" envconfig:"CGM"`
}

type OutputConfig struct {
	Path   string `yaml:"path" envconfig:"PATH"`
	Format string `yaml:"format" envconfig:"FORMAT"`
}

func DefaultConfig() Config {
	return Config{
		Input: InputConfig{
			Insulin: DefaultInsulinFile,
			CGM:     DefaultCGMFile,
		},
		Output: OutputConfig{
			Path:   DefaultResultsFile,
			Format: DefaultFormat,
		},
		CountThreshold: DefaultCountThreshold,
		AutoModeAlarm:  DefaultAutoModeAlarm,
		TimeLayouts:    append([]string(nil), DefaultTimeLayouts...),
	}
}

// Load reads the config file at path over the defaults, then applies SUMMARY_* environment
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("unable to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(file, &config); err != nil {
			return Config{}, fmt.Errorf("unable to parse config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &config); err != nil {
		return Config{}, fmt.Errorf("unable to apply environment overrides: %w", err)
	}

	return config, config.Validate()
}

func (c Config) Validate() error {
	if c.CountThreshold < 0 || c.CountThreshold > ReadingsPerDay {
		return fmt.Errorf("count threshold %d outside [0, %d]", c.CountThreshold, ReadingsPerDay)
	}
	if c.AutoModeAlarm == "" {
		return errors.New("auto mode alarm label is empty")
	}
	if len(c.TimeLayouts) == 0 {
		return errors.New("no time layouts configured")
	}
	if c.Input.Insulin == "" || c.Input.CGM == "" || c.Output.Path == "" {
		return errors.New("input and output paths must be set")
	}
	return nil
}

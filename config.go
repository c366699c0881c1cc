package openthread

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bahubali-bg/openthread/protocol"
)

// Config holds bring-up parameters for the stack. The CSL timing constants
// themselves are fixed at build time in the protocol package.
type Config struct {
	PanChannel     uint8  `yaml:"panChannel"`
	ChildTableSize int    `yaml:"childTableSize"`
	LogLevel       string `yaml:"logLevel"`
}

func DefaultConfig() Config {
	return Config{
		PanChannel:     protocol.DefaultPanChannel,
		ChildTableSize: 16,
		LogLevel:       "INFO",
	}
}

// LoadConfig reads a yaml config file; absent fields keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.PanChannel < protocol.MinChannel || c.PanChannel > protocol.MaxChannel {
		return protocol.ErrInvalidChannel
	}
	if c.ChildTableSize <= 0 {
		return errors.New("child table size must be positive")
	}
	return nil
}

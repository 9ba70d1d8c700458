package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
)

// Load reads the defaults from the given filename (e.g. "dmicopy.yaml").
// A missing file is not an error: the built-in defaults apply.
func Load(filename string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.SetDefault("quiet", false)
	v.SetDefault("color", true)
	v.SetDefault("backup", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
			return &Config{Quiet: false, Color: true, Backup: false}, nil
		}
		return nil, fmt.Errorf("error reading config file %s: %w", filename, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config file %s: %w", filename, err)
	}
	return &cfg, nil
}

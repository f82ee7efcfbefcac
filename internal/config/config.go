package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config represents the uenv configuration
type Config struct {
	Repo         string `mapstructure:"repo"`
	MountUtility string `mapstructure:"mount_utility"`
	Shell        string `mapstructure:"shell"`
	Uarch        string `mapstructure:"uarch"`
	Color        *bool  `mapstructure:"color"`
	Mounts       Mounts `mapstructure:"mounts"`
}

// Mounts are the default mount points for images given without one
type Mounts struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
}

// ShouldColor returns whether styled output is wanted.
// Defaults to true when not explicitly set.
func (c *Config) ShouldColor() bool {
	if c.Color == nil {
		return true
	}
	return *c.Color
}

// Load reads the configuration from path, or from ~/.uenv/config.yaml when
// path is empty. A missing default file is not an error. Flags in flags that
// share a key with the configuration (currently only "repo") take precedence
// when set.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(expanded)
	} else {
		configDir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName("config")
		v.AddConfigPath(configDir)
	}

	setDefaults(v)

	if err := v.BindEnv("repo", "UENV_REPO_PATH"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("uarch", "UENV_UARCH"); err != nil {
		return nil, err
	}
	if flags != nil {
		if f := flags.Lookup("repo"); f != nil {
			if err := v.BindPFlag("repo", f); err != nil {
				return nil, err
			}
		}
	}

	// Try to read config file, but don't fail if the default one doesn't exist
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Repo = expandPath(cfg.Repo)
	cfg.MountUtility = expandPath(cfg.MountUtility)
	cfg.Mounts.Primary = expandPath(cfg.Mounts.Primary)
	cfg.Mounts.Secondary = expandPath(cfg.Mounts.Secondary)

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("repo", defaultRepo())
	v.SetDefault("mount_utility", "squashfs-mount")
	v.SetDefault("shell", "bash")
	v.SetDefault("uarch", "")
	v.SetDefault("mounts.primary", "/user-environment")
	v.SetDefault("mounts.secondary", "/user-tools")
}

// defaultRepo is $SCRATCH/.uenv-images, or empty on systems without SCRATCH.
func defaultRepo() string {
	scratch := os.Getenv("SCRATCH")
	if scratch == "" {
		return ""
	}
	return filepath.Join(scratch, ".uenv-images")
}

// expandPath expands a leading ~, keeping the original on failure
func expandPath(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}

// ConfigDir returns the uenv configuration directory path
func ConfigDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".uenv"), nil
}

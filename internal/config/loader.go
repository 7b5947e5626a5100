package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tododaemon/pkg/logging"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/tododaemon"
	configFileName = "config"

	// EnvPrefix prefixes environment overrides, e.g. TODODAEMON_IDENTITY_CLIENTID.
	EnvPrefix = "TODODAEMON"
)

// osUserHomeDir is a variable so tests can point the user config directory elsewhere.
var osUserHomeDir = os.UserHomeDir

// LoadConfig loads configuration from configPath, or when it is empty from
// config.yaml in the working directory or ~/.config/tododaemon. Environment
// variables prefixed with TODODAEMON_ override file values, and defaults fill
// everything else. A missing explicit file is an error; a missing default
// file is not.
func LoadConfig(configPath string) (DaemonConfig, error) {
	v := viper.New()
	setDefaults(v, GetDefaultConfig())

	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configFileName)
		v.AddConfigPath(".")
		if home, err := osUserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, userConfigDir))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return DaemonConfig{}, fmt.Errorf("error loading config: %w", err)
		}
		logging.Info("ConfigLoader", "No config file found, using defaults and environment")
	} else {
		logging.Info("ConfigLoader", "Loaded configuration from %s", v.ConfigFileUsed())
	}

	var cfg DaemonConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return DaemonConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can resolve it even
// when the config file does not mention it.
func setDefaults(v *viper.Viper, d DaemonConfig) {
	v.SetDefault("identity.aadInstance", d.Identity.AADInstance)
	v.SetDefault("identity.tenant", d.Identity.Tenant)
	v.SetDefault("identity.clientId", d.Identity.ClientID)
	v.SetDefault("identity.certName", d.Identity.CertName)
	v.SetDefault("identity.certStorePath", d.Identity.CertStorePath)
	v.SetDefault("identity.tokenEndpoint", d.Identity.TokenEndpoint)
	v.SetDefault("identity.endpointVersion", d.Identity.EndpointVersion)
	v.SetDefault("identity.httpTimeout", d.Identity.HTTPTimeout)
	v.SetDefault("identity.retry.maxAttempts", d.Identity.Retry.MaxAttempts)
	v.SetDefault("identity.retry.backoff", d.Identity.Retry.Backoff)

	v.SetDefault("todoList.resourceId", d.TodoList.ResourceID)
	v.SetDefault("todoList.baseAddress", d.TodoList.BaseAddress)
	v.SetDefault("todoList.requestTimeout", d.TodoList.RequestTimeout)

	v.SetDefault("daemon.iterations", d.Daemon.Iterations)
	v.SetDefault("daemon.delay", d.Daemon.Delay)
	v.SetDefault("daemon.titleTemplate", d.Daemon.TitleTemplate)
}

// Marshal renders the configuration as YAML, the same shape LoadConfig reads.
func (c DaemonConfig) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

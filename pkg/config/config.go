// Package config manages nbflow configuration from .nbflow.yaml and
// NBFLOW_* environment variables.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	RepoURL      string `mapstructure:"repo_url" yaml:"repo_url,omitempty"`
	Revision     string `mapstructure:"revision" yaml:"revision,omitempty"`
	NotebookPath string `mapstructure:"notebook_path" yaml:"notebook_path,omitempty"`
	RunnerImage  string `mapstructure:"runner_image" yaml:"runner_image,omitempty"`
	TemplateName string `mapstructure:"template_name" yaml:"template_name,omitempty"`
	Namespace    string `mapstructure:"namespace" yaml:"namespace,omitempty"`
	ServerURL    string `mapstructure:"server_url" yaml:"server_url,omitempty"`
}

var (
	configFile = ".nbflow.yaml"
	v          *viper.Viper
)

func init() {
	v = newViper()
}

func newViper() *viper.Viper {
	nv := viper.New()
	nv.SetConfigFile(configFile)

	// Defaults
	nv.SetDefault("revision", "main")
	nv.SetDefault("namespace", "argo")

	// Environment variables: NBFLOW_SERVER_URL, NBFLOW_TOKEN, ...
	nv.SetEnvPrefix("NBFLOW")
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()

	// Unmarshal only sees keys viper already knows about, so env-only
	// keys must be bound explicitly.
	for _, k := range keys {
		_ = nv.BindEnv(k)
	}

	// Config file is optional
	_ = nv.ReadInConfig()
	return nv
}

func Path() string {
	return configFile
}

func Load() (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Token returns the Argo API token. It is read from the environment only
// (NBFLOW_TOKEN) and never written to the config file.
func Token() string {
	return v.GetString("token")
}

var keys = []string{
	"repo_url", "revision", "notebook_path",
	"runner_image", "template_name", "namespace", "server_url",
}

func validKey(key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func Get(key string) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("unknown config key: %s", key)
	}
	return v.GetString(key), nil
}

func Set(key, value string) error {
	if !validKey(key) {
		return fmt.Errorf("unknown config key: %s (valid: %s)", key, strings.Join(keys, ", "))
	}

	v.Set(key, value)

	cfg, err := Load()
	if err != nil {
		cfg = &Config{}
	}
	return writeConfig(cfg)
}

func All() map[string]string {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		out[k] = v.GetString(k)
	}
	return out
}

func writeConfig(cfg *Config) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return os.WriteFile(configFile, buf.Bytes(), 0644)
}

// ResetForTest resets viper state against a test directory (only use in tests)
func ResetForTest(testPath string) {
	configFile = testPath + "/.nbflow.yaml"
	v = newViper()
}

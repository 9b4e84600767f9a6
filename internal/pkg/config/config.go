package config

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// DefaultLogLevel is used when neither the config file nor LOG_LEVEL set one
const DefaultLogLevel = "INFO"

// Networks lists the participant networks the tool can target
var Networks = []string{"devnet", "testnet", "mainnet"}

// keys which may be overridden from the environment (upper-cased)
var envKeys = []string{"base_url", "auth_url", "client_id", "client_secret", "log_level"}

// Settings is the resolved, read-only configuration for one network
type Settings struct {
	Network      string `json:"network"`
	Stage        string `json:"stage"`
	BaseURL      string `json:"base_url"`
	AuthURL      string `json:"auth_url"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"-"`
	BackupFile   string `json:"backup_file"`
	LogLevel     string `json:"log_level"`
}

// ValidNetwork reports whether name is one of the supported networks
func ValidNetwork(name string) bool {
	for _, n := range Networks {
		if n == name {
			return true
		}
	}
	return false
}

// Environment returns a viper instance bound to the override variables
// (BASE_URL, AUTH_URL, CLIENT_ID, CLIENT_SECRET, LOG_LEVEL). Values from an
// optional dotenv file are used when the process environment lacks them.
func Environment(dotenv string) (*viper.Viper, error) {
	env := viper.New()
	for _, k := range envKeys {
		if err := env.BindEnv(k, strings.ToUpper(k)); err != nil {
			return nil, &ConfigurationError{Reason: "binding " + k, Err: err}
		}
	}
	if dotenv == "" {
		return env, nil
	}
	if _, err := os.Stat(dotenv); err != nil {
		if os.IsNotExist(err) {
			return env, nil
		}
		return nil, &ConfigurationError{Reason: "reading " + dotenv, Err: err}
	}
	env.SetConfigFile(dotenv)
	env.SetConfigType("env")
	if err := env.ReadInConfig(); err != nil {
		return nil, &ConfigurationError{Reason: "parsing " + dotenv, Err: err}
	}
	return env, nil
}

// LoadFile reads a TOML config file and resolves the settings for network
func LoadFile(path, network string, env *viper.Viper) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, &ConfigurationError{Reason: "reading " + path, Err: err}
	}
	return Load(v, network, env)
}

// Load resolves the settings for network from the [general] and
// [networks.<network>] tables of v. Network keys replace general keys, and
// non-empty values from env replace both. env may be nil.
func Load(v *viper.Viper, network string, env *viper.Viper) (*Settings, error) {
	general, err := table(v, "general", false)
	if err != nil {
		return nil, err
	}
	override, err := table(v, "networks."+network, true)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]interface{}, len(general)+len(override))
	for k, val := range general {
		merged[k] = val
	}
	for k, val := range override {
		merged[k] = val
	}

	s := &Settings{
		Network:      network,
		Stage:        str(merged, "stage"),
		BaseURL:      str(merged, "base_url"),
		AuthURL:      str(merged, "auth_url"),
		ClientID:     str(merged, "client_id"),
		ClientSecret: str(merged, "client_secret"),
		BackupFile:   str(merged, "backup_file"),
		LogLevel:     str(merged, "log_level"),
	}
	if env != nil {
		overlay(&s.BaseURL, env.GetString("base_url"))
		overlay(&s.AuthURL, env.GetString("auth_url"))
		overlay(&s.ClientID, env.GetString("client_id"))
		overlay(&s.ClientSecret, env.GetString("client_secret"))
		overlay(&s.LogLevel, env.GetString("log_level"))
	}
	if s.Stage == "" {
		s.Stage = network
	}
	if s.LogLevel == "" {
		s.LogLevel = DefaultLogLevel
	}

	log.WithFields(s.Fields()).Debug("Settings struct variable assignments")

	return s, nil
}

// Fields returns the settings as log fields with the client secret redacted
func (s *Settings) Fields() log.Fields {
	secret := ""
	if s.ClientSecret != "" {
		secret = "REDACTED"
	}
	return log.Fields{
		"Network":      s.Network,
		"Stage":        s.Stage,
		"BaseURL":      s.BaseURL,
		"AuthURL":      s.AuthURL,
		"ClientID":     s.ClientID,
		"ClientSecret": secret,
		"BackupFile":   s.BackupFile,
		"LogLevel":     s.LogLevel,
	}
}

// Endpoints renders the base and auth URL templates. Both must be non-empty
// before any network call is made.
func (s *Settings) Endpoints() (baseURL, authURL string, err error) {
	baseURL, err = s.Render(s.BaseURL)
	if err != nil {
		return "", "", err
	}
	authURL, err = s.Render(s.AuthURL)
	if err != nil {
		return "", "", err
	}
	if baseURL == "" {
		return "", "", &ConfigurationError{Reason: "base_url is not set for network " + s.Network}
	}
	if authURL == "" {
		return "", "", &ConfigurationError{Reason: "auth_url is not set for network " + s.Network}
	}
	return strings.TrimRight(baseURL, "/"), authURL, nil
}

// HasBackupTemplate reports whether the backup filename is fixed by config
func (s *Settings) HasBackupTemplate() bool {
	return s.BackupFile != ""
}

// DefaultBackupFile is the filename offered when no template is configured
func (s *Settings) DefaultBackupFile() string {
	return fmt.Sprintf("%s-%s-users.json", s.Stage, s.Network)
}

func table(v *viper.Viper, key string, required bool) (map[string]interface{}, error) {
	raw := v.Get(key)
	if raw == nil {
		if required {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("no [%s] section in configuration", key)}
		}
		return map[string]interface{}{}, nil
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("[%s] must be a table, found %T", key, raw)}
	}
	return m, nil
}

func str(m map[string]interface{}, key string) string {
	val, ok := m[key]
	if !ok || val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return fmt.Sprint(val)
}

func overlay(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}

package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"copartwatch/internal/models"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName         = "copartwatch"
	ConfigFileName  = "config.json"
	ProxiesFileName = "proxies.txt"

	// StateFileName is the default seen-lot store, resolved against the
	// working directory so cron jobs keep their state next to the binary.
	StateFileName = "seen_cars.json"
)

// Config contains the persisted settings. Criteria fields left unset fall
// back to the built-in search defaults.
type Config struct {
	StatePath string         `json:"state_path"`
	Criteria  CriteriaConfig `json:"criteria"`
}

// CriteriaConfig is the config-file shape of the search criteria. All
// fields are optional overrides.
type CriteriaConfig struct {
	Category     string   `json:"category,omitempty"`
	YearMin      int      `json:"year_min,omitempty"`
	YearMax      int      `json:"year_max,omitempty"`
	Transmission string   `json:"transmission,omitempty"`
	MileageMin   int      `json:"mileage_min,omitempty"`
	MileageMax   int      `json:"mileage_max,omitempty"`
	DamageCodes  []string `json:"damage_codes,omitempty"`
	RequireV5    *bool    `json:"require_v5,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		StatePath: StateFileName,
	}
}

// SearchCriteria merges configured overrides onto the built-in criteria.
func (c Config) SearchCriteria() models.Criteria {
	criteria := models.DefaultCriteria()
	o := c.Criteria

	if o.Category != "" {
		criteria.Category = o.Category
	}
	if o.YearMin != 0 {
		criteria.YearMin = o.YearMin
	}
	if o.YearMax != 0 {
		criteria.YearMax = o.YearMax
	}
	if o.Transmission != "" {
		criteria.Transmission = models.ParseTransmission(o.Transmission)
	}
	if o.MileageMin != 0 {
		criteria.MileageMin = o.MileageMin
	}
	if o.MileageMax != 0 {
		criteria.MileageMax = o.MileageMax
	}
	if len(o.DamageCodes) > 0 {
		criteria.DamageCodes = append([]string{}, o.DamageCodes...)
	}
	if o.RequireV5 != nil {
		criteria.RequireV5 = *o.RequireV5
	}
	return criteria
}

// Credentials returns the Telegram bot token and chat id from the
// environment. Both empty means notifications are unconfigured.
func Credentials() (token string, chatID string) {
	return envString("BOT_TOKEN", ""), envString("CHAT_ID", "")
}

func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

func ProxiesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ProxiesFileName), nil
}

func Load() (Config, error) {
	cfg := DefaultConfig()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if err := json5.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Init writes default config.json and proxies.txt if they don't already exist.
func Init() ([]string, error) {
	var created []string

	dir, err := ConfigDir()
	if err != nil {
		return created, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeConfig(configPath, DefaultConfig()); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	proxiesPath := filepath.Join(dir, ProxiesFileName)
	if _, err := os.Stat(proxiesPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(proxiesPath, []byte(""), 0o644); err != nil {
			return created, err
		}
		created = append(created, proxiesPath)
	}

	return created, nil
}

func writeConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// LoadProxies resolves the proxy pool: the flag wins, then the
// COPARTWATCH_PROXIES environment variable, then proxies.txt in the config
// directory. A missing file just means no proxies.
func LoadProxies(flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return splitCSV(flagValue), nil
	}

	if env := strings.TrimSpace(os.Getenv("COPARTWATCH_PROXIES")); env != "" {
		return splitCSV(env), nil
	}

	path, err := ProxiesPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var proxies []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		proxies = append(proxies, line)
	}
	return proxies, nil
}

// ResolveStatePath picks the seen-lot store location: the flag wins, then
// COPARTWATCH_STATE, then the configured path.
func ResolveStatePath(flagValue string, cfg Config) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	if env := strings.TrimSpace(os.Getenv("COPARTWATCH_STATE")); env != "" {
		return env
	}
	if strings.TrimSpace(cfg.StatePath) != "" {
		return cfg.StatePath
	}
	return StateFileName
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

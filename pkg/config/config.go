package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultListenAddress = ":8080"
	DefaultSheetRange    = "Feuille1!A:Z"
	DefaultMaxRetries    = 5
)

type ServerConfig struct {
	ListenAddress string
}

type SheetsConfig struct {
	// Path to a service account JSON file. Takes precedence over ClientEmail/PrivateKey.
	CredentialsFile string
	ClientEmail     string
	PrivateKey      string `toml:",omitempty"`
	DefaultRange    string
	MaxRetries      int
}

type OrdersConfig struct {
	// Extra cities matched before the built-in list.
	KnownCities []string
	Currency    string
}

type Store struct {
	Server ServerConfig
	Sheets SheetsConfig
	Orders OrdersConfig
}

type Config struct {
	Filename string
	Store    Store
}

// Save writes the current config out to a toml file.
func (c *Config) Save() error {
	b, err := toml.Marshal(c.Store)
	if err != nil {
		return err
	}
	return os.WriteFile(c.Filename, b, 0600)
}

// Load reads the config from its toml file.
func (c *Config) Load() error {
	b, err := os.ReadFile(c.Filename)
	if err != nil {
		return err
	}
	return toml.Unmarshal(b, &c.Store)
}

// New loads filename, writing a default file when it does not exist, then
// applies .env and environment overrides. An empty filename skips the file.
func New(filename string) (*Config, error) {
	c := &Config{Filename: filename}
	if filename != "" {
		if err := c.Load(); err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			c.setDefaults()
			if err := c.Save(); err != nil {
				return nil, err
			}
			log.Infof("Wrote default config to %s", filename)
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Could not read .env")
	}
	c.applyEnv(os.Getenv)
	c.setDefaults()
	return c, nil
}

func (c *Config) setDefaults() {
	if c.Store.Server.ListenAddress == "" {
		c.Store.Server.ListenAddress = DefaultListenAddress
	}
	if c.Store.Sheets.DefaultRange == "" {
		c.Store.Sheets.DefaultRange = DefaultSheetRange
	}
	if c.Store.Sheets.MaxRetries <= 0 {
		c.Store.Sheets.MaxRetries = DefaultMaxRetries
	}
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("LISTEN_ADDRESS"); v != "" {
		c.Store.Server.ListenAddress = v
	} else if v := getenv("PORT"); v != "" {
		c.Store.Server.ListenAddress = ":" + v
	}
	if v := getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" {
		c.Store.Sheets.CredentialsFile = v
	}
	if v := getenv("GOOGLE_CLIENT_EMAIL"); v != "" {
		c.Store.Sheets.ClientEmail = v
	}
	if v := getenv("GOOGLE_PRIVATE_KEY"); v != "" {
		// Keys pasted into .env files usually carry escaped newlines.
		c.Store.Sheets.PrivateKey = strings.ReplaceAll(v, `\n`, "\n")
	}
	if v := getenv("SHEET_RANGE"); v != "" {
		c.Store.Sheets.DefaultRange = v
	}
	if v := getenv("SHEETS_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.WithField("value", v).Warn("Ignoring invalid SHEETS_MAX_RETRIES")
		} else {
			c.Store.Sheets.MaxRetries = n
		}
	}
	if v := getenv("KNOWN_CITIES"); v != "" {
		var cities []string
		for _, city := range strings.Split(v, ",") {
			if city = strings.TrimSpace(city); city != "" {
				cities = append(cities, city)
			}
		}
		c.Store.Orders.KnownCities = cities
	}
	if v := getenv("CURRENCY"); v != "" {
		c.Store.Orders.Currency = v
	}
}

// HasServiceAccount reports whether write-capable credentials are configured.
func (c *Config) HasServiceAccount() bool {
	s := c.Store.Sheets
	return s.CredentialsFile != "" || (s.ClientEmail != "" && s.PrivateKey != "")
}

package config

import "time"

// Config holds runtime settings for the job portal CLI.
type Config struct {
	ServerURL           string
	HealthAddr          string
	StateDBPath         string
	DownloadDir         string
	OnlineCheckInterval time.Duration
	Verbose             bool
}

// LoadDefaults populates c with defaults suitable for a local server.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.HealthAddr = "127.0.0.1:50051"
	c.StateDBPath = "jobportal.db"
	c.DownloadDir = "downloads"
	c.OnlineCheckInterval = 5 * time.Second
	c.Verbose = false
}

// LoadConfig applies defaults, then the JSON file (if any), then flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

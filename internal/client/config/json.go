package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/jobportal/internal/flagx"
	"github.com/dmitrijs2005/jobportal/internal/timex"
)

// JsonConfig is the on-disk shape of the CLI config.
type JsonConfig struct {
	ServerURL           string         `json:"server_url"`
	HealthAddr          string         `json:"health_addr"`
	StateDBPath         string         `json:"state_db_path"`
	DownloadDir         string         `json:"download_dir"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	Verbose             *bool          `json:"verbose"`
}

// parseJson overlays cfg with the fields present in the JSON file named by
// flagx.JsonConfigFlags. Read or decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.HealthAddr != "" {
		cfg.HealthAddr = jc.HealthAddr
	}
	if jc.StateDBPath != "" {
		cfg.StateDBPath = jc.StateDBPath
	}
	if jc.DownloadDir != "" {
		cfg.DownloadDir = jc.DownloadDir
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.Verbose != nil {
		cfg.Verbose = *jc.Verbose
	}
}

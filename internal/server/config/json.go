package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/jobportal/internal/flagx"
	"github.com/dmitrijs2005/jobportal/internal/timex"
)

type JsonEsewaConfig struct {
	ProductCode    string `json:"product_code"`
	SecretKey      string `json:"secret_key"`
	PaymentURL     string `json:"payment_url"`
	StatusCheckURL string `json:"status_check_url"`
}

type JsonSMTPConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	From     string `json:"from"`
}

// JsonConfig is the on-disk shape of the server config. Durations accept
// either "15m" or integer nanoseconds.
type JsonConfig struct {
	EndpointAddr                string           `json:"endpoint_addr"`
	HealthAddr                  string           `json:"health_addr"`
	DatabaseDSN                 string           `json:"database_dsn"`
	SecretKey                   string           `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration   `json:"access_token_validity_duration"`
	Env                         string           `json:"env"`
	FrontendURL                 string           `json:"frontend_url"`
	BackendURL                  string           `json:"backend_url"`
	CORSOrigins                 []string         `json:"cors_origins"`
	RedisAddr                   string           `json:"redis_addr"`
	S3AccessKeyID               string           `json:"s3_access_key_id"`
	S3SecretAccessKey           string           `json:"s3_secret_access_key"`
	S3Bucket                    string           `json:"s3_bucket"`
	S3Region                    string           `json:"s3_region"`
	S3BaseEndpoint              string           `json:"s3_base_endpoint"`
	S3PresignDuration           timex.Duration   `json:"s3_presign_duration"`
	Esewa                       *JsonEsewaConfig `json:"esewa"`
	SMTP                        *JsonSMTPConfig  `json:"smtp"`
	LoginRatePerMinute          int              `json:"login_rate_per_minute"`
}

// parseJson overlays config with the non-empty fields of the JSON file named
// by -c/-config (or JOBPORTAL_CONFIG). Read or decode errors panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddr, c.EndpointAddr)
	setString(&config.HealthAddr, c.HealthAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	setString(&config.Env, c.Env)
	setString(&config.FrontendURL, c.FrontendURL)
	setString(&config.BackendURL, c.BackendURL)
	if len(c.CORSOrigins) > 0 {
		config.CORSOrigins = c.CORSOrigins
	}
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.S3AccessKeyID, c.S3AccessKeyID)
	setString(&config.S3SecretAccessKey, c.S3SecretAccessKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.S3PresignDuration.Duration > 0 {
		config.S3PresignDuration = c.S3PresignDuration.Duration
	}

	if e := c.Esewa; e != nil {
		setString(&config.Esewa.ProductCode, e.ProductCode)
		setString(&config.Esewa.SecretKey, e.SecretKey)
		setString(&config.Esewa.PaymentURL, e.PaymentURL)
		setString(&config.Esewa.StatusCheckURL, e.StatusCheckURL)
	}

	if m := c.SMTP; m != nil {
		setString(&config.SMTP.Host, m.Host)
		if m.Port > 0 {
			config.SMTP.Port = m.Port
		}
		setString(&config.SMTP.User, m.User)
		setString(&config.SMTP.Password, m.Password)
		setString(&config.SMTP.From, m.From)
	}

	if c.LoginRatePerMinute > 0 {
		config.LoginRatePerMinute = c.LoginRatePerMinute
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

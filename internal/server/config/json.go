package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/datalyst-app/authd/internal/flagx"
	"github.com/datalyst-app/authd/internal/timex"
)

// JsonConfig is the file-format counterpart of Config. Interval fields use
// timex.Duration so the file can express them as strings such as "24h".
// Omitted fields keep their current (default) values.
type JsonConfig struct {
	EndpointAddrHTTP      *string         `json:"endpoint_addr_http"`
	DatabaseDSN           *string         `json:"database_dsn"`
	SecretKey             *string         `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	StoreTimeout          *timex.Duration `json:"store_timeout"`
	MailTimeout           *timex.Duration `json:"mail_timeout"`
	SMTPHost              *string         `json:"smtp_host"`
	SMTPPort              *int            `json:"smtp_port"`
	SMTPUsername          *string         `json:"smtp_username"`
	SMTPPassword          *string         `json:"smtp_password"`
	SMTPFrom              *string         `json:"smtp_from"`
}

// parseJson overlays values from the JSON file named by the -c/-config
// flags, if any. A missing flag means no file is loaded.
func parseJson(config *Config) error {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if c.EndpointAddrHTTP != nil {
		config.EndpointAddrHTTP = *c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.StoreTimeout != nil {
		config.StoreTimeout = c.StoreTimeout.Duration
	}
	if c.MailTimeout != nil {
		config.MailTimeout = c.MailTimeout.Duration
	}
	if c.SMTPHost != nil {
		config.SMTPHost = *c.SMTPHost
	}
	if c.SMTPPort != nil {
		config.SMTPPort = *c.SMTPPort
	}
	if c.SMTPUsername != nil {
		config.SMTPUsername = *c.SMTPUsername
	}
	if c.SMTPPassword != nil {
		config.SMTPPassword = *c.SMTPPassword
	}
	if c.SMTPFrom != nil {
		config.SMTPFrom = *c.SMTPFrom
	}

	return nil
}

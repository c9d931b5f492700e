package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dkuznecov/authgate/internal/flagx"
	"github.com/dkuznecov/authgate/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "2h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrNATS             string         `json:"endpoint_addr_nats"`
	SubjectPrefix                string         `json:"subject_prefix"`
	QueueGroup                   string         `json:"queue_group"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	RefreshSecretKey             string         `json:"refresh_secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	EventQueueSize               int            `json:"event_queue_size"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; when
// neither is set, no JSON file is loaded. Zero values in the file leave the
// corresponding Config fields untouched. If the file cannot be read or
// contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
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

	if c.EndpointAddrNATS != "" {
		config.EndpointAddrNATS = c.EndpointAddrNATS
	}
	if c.SubjectPrefix != "" {
		config.SubjectPrefix = c.SubjectPrefix
	}
	if c.QueueGroup != "" {
		config.QueueGroup = c.QueueGroup
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.RefreshSecretKey != "" {
		config.RefreshSecretKey = c.RefreshSecretKey
	}
	if c.AccessTokenValidityDuration != 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration)
	}
	if c.RefreshTokenValidityDuration != 0 {
		config.RefreshTokenValidityDuration = time.Duration(c.RefreshTokenValidityDuration)
	}
	if c.EventQueueSize != 0 {
		config.EventQueueSize = c.EventQueueSize
	}
}

package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/keybackup/internal/flagx"
	"github.com/dmitrijs2005/keybackup/internal/timex"
)

// JsonConfig is the DTO for the optional JSON configuration file. Durations
// accept both strings ("5s") and integer nanoseconds via timex.Duration.
// Fields left out of the file keep their defaults.
type JsonConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	BaseURL          string         `json:"base_url"`
	S3AccessKey      string         `json:"s3_access_key"`
	S3SecretKey      string         `json:"s3_secret_key"`
	S3Bucket         string         `json:"s3_bucket"`
	S3Region         string         `json:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint"`
	SESRegion        string         `json:"ses_region"`
	EmailSender      string         `json:"email_sender"`
	EmailMode        string         `json:"email_mode"`
	Argon2Time       uint32         `json:"argon2_time"`
	Argon2Memory     uint32         `json:"argon2_memory"`
	Argon2Threads    uint8          `json:"argon2_threads"`
	MaxBodyBytes     int64          `json:"max_body_bytes"`
	ShutdownTimeout  timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads configuration values from the JSON file named by the
// -c or -config flags into the provided Config. When neither flag is set,
// nothing is loaded. An unreadable or invalid file panics: a half-applied
// config is worse than a crash at startup.
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

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.BaseURL != "" {
		config.BaseURL = c.BaseURL
	}
	if c.S3AccessKey != "" {
		config.S3AccessKey = c.S3AccessKey
	}
	if c.S3SecretKey != "" {
		config.S3SecretKey = c.S3SecretKey
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
	if c.SESRegion != "" {
		config.SESRegion = c.SESRegion
	}
	if c.EmailSender != "" {
		config.EmailSender = c.EmailSender
	}
	if c.EmailMode != "" {
		config.EmailMode = c.EmailMode
	}
	if c.Argon2Time != 0 {
		config.Argon2Time = c.Argon2Time
	}
	if c.Argon2Memory != 0 {
		config.Argon2Memory = c.Argon2Memory
	}
	if c.Argon2Threads != 0 {
		config.Argon2Threads = c.Argon2Threads
	}
	if c.MaxBodyBytes != 0 {
		config.MaxBodyBytes = c.MaxBodyBytes
	}
	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}

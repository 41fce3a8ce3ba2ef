// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the key backup server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public HTTP endpoint.
//   - BaseURL: externally reachable root of the service, used in reset links.
//   - S3AccessKey / S3SecretKey: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings. An empty
//     base endpoint targets AWS proper.
//   - SESRegion / EmailSender: reset email transport settings.
//   - EmailMode: "ses" sends real mail, "log" writes the link to the log.
//   - Argon2Time / Argon2Memory / Argon2Threads: password hashing cost.
//   - MaxBodyBytes: persona upload size cap.
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
type Config struct {
	EndpointAddrHTTP string
	BaseURL          string
	S3AccessKey      string
	S3SecretKey      string
	S3Bucket         string
	S3Region         string
	S3BaseEndpoint   string
	SESRegion        string
	EmailSender      string
	EmailMode        string
	Argon2Time       uint32
	Argon2Memory     uint32
	Argon2Threads    uint8
	MaxBodyBytes     int64
	ShutdownTimeout  time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.BaseURL = "http://localhost:8080"
	c.S3AccessKey = "admin"
	c.S3SecretKey = "secretpassword"
	c.S3Bucket = "keybackups"
	c.S3Region = "us-west-2"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.SESRegion = "us-west-2"
	c.EmailSender = "do-not-reply@cryptomessaging.org"
	c.EmailMode = "log"
	c.Argon2Time = 1
	c.Argon2Memory = 64 * 1024
	c.Argon2Threads = 4
	c.MaxBodyBytes = 10 << 20
	c.ShutdownTimeout = 5 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

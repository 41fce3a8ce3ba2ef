package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/keybackup/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-l string   external base URL used in reset links
//	-u string   S3 access key
//	-p string   S3 secret key
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-r string   SES region
//	-f string   sender address for reset emails
//	-m string   email mode: "ses" or "log"
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with the JSON-overlay flags.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-l", "-u", "-p", "-b", "-g", "-e", "-r", "-f", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.BaseURL, "l", config.BaseURL, "external base URL for reset links")

	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&config.SESRegion, "r", config.SESRegion, "SES region")
	fs.StringVar(&config.EmailSender, "f", config.EmailSender, "sender address for reset emails")
	fs.StringVar(&config.EmailMode, "m", config.EmailMode, "email mode (ses or log)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8000")
//	-g string   gRPC health bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-e string   environment ("development", "production")
//	-f string   frontend URL
//	-b string   backend URL
//	-r string   Redis address for the token denylist
//	-u string   S3 access key id
//	-p string   S3 secret access key
//	-x string   S3 bucket
//	-k string   S3 region
//	-y string   S3 base endpoint
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-s", "-t", "-e", "-f", "-b", "-r", "-u", "-p", "-x", "-k", "-y"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run the HTTP API")
	fs.StringVar(&config.HealthAddr, "g", config.HealthAddr, "address and port to run the gRPC health endpoint")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	fs.StringVar(&config.Env, "e", config.Env, "environment")
	fs.StringVar(&config.FrontendURL, "f", config.FrontendURL, "frontend URL")
	fs.StringVar(&config.BackendURL, "b", config.BackendURL, "backend URL")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")

	fs.StringVar(&config.S3AccessKeyID, "u", config.S3AccessKeyID, "S3 access key id")
	fs.StringVar(&config.S3SecretAccessKey, "p", config.S3SecretAccessKey, "S3 secret access key")
	fs.StringVar(&config.S3Bucket, "x", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "k", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "y", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name != "t" {
			return
		}
		if *accessTokenValidityDuration <= 0 {
			panic(fmt.Errorf("access token validity must be positive, got %d", *accessTokenValidityDuration))
		}
		config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	})
}

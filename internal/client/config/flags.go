package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/flagx"
)

// parseFlags overlays cfg with the command-line flags this package owns.
// Unknown arguments (REPL commands, -c) are filtered out beforehand.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgsWithSwitches(os.Args[1:], []string{"-a", "-g", "-d", "-o", "-i"}, []string{"-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the HTTP API")
	fs.StringVar(&cfg.HealthAddr, "g", cfg.HealthAddr, "address and port of the gRPC health endpoint")
	fs.StringVar(&cfg.StateDBPath, "d", cfg.StateDBPath, "local state database path")
	fs.StringVar(&cfg.DownloadDir, "o", cfg.DownloadDir, "download directory")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval/time.Second), "online check interval (in seconds)")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "verbose logging")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// -i only overrides when given, so a sub-second JSON value survives.
	fs.Visit(func(f *flag.Flag) {
		if f.Name != "i" {
			return
		}
		if *onlineCheckInterval <= 0 {
			panic(fmt.Errorf("online check interval must be positive, got %d", *onlineCheckInterval))
		}
		cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	})
}

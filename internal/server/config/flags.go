package config

import (
	"flag"
	"os"
	"time"

	"github.com/hushdrop/hushdrop/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-k string   content encryption key material
//	-s string   admin JWT HMAC secret
//	-l int      default secret TTL, hours
//	-w int      sweep interval, minutes
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers and converted to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-k", "-s", "-l", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.EncryptionKey, "k", config.EncryptionKey, "content encryption key")
	fs.StringVar(&config.AdminSecret, "s", config.AdminSecret, "admin token secret")

	defaultTTL := fs.Int("l", int(config.DefaultSecretTTL.Hours()), "default secret ttl (in hours)")
	sweepInterval := fs.Int("w", int(config.SweepInterval.Minutes()), "sweep interval (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.DefaultSecretTTL = time.Duration(*defaultTTL) * time.Hour
	config.SweepInterval = time.Duration(*sweepInterval) * time.Minute
}

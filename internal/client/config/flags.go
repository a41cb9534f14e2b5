package config

import (
	"flag"
	"os"
	"time"

	"github.com/dkarpov/reelmark/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend server (default from Config)
//	-f string   path to the shared credential store file
//	-t int      session lifetime in hours
//	-i int      store polling interval in seconds
//
// Note: The function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, so subcommand arguments pass through
// untouched.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-f", "-t", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the backend server")
	fs.StringVar(&cfg.StorePath, "f", cfg.StorePath, "path to the shared credential store file")
	sessionTTL := fs.Int("t", int(cfg.SessionTTL.Hours()), "session lifetime (in hours)")
	syncInterval := fs.Int("i", int(cfg.SyncInterval.Seconds()), "store polling interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SessionTTL = time.Duration(*sessionTTL) * time.Hour
	cfg.SyncInterval = time.Duration(*syncInterval) * time.Second
}

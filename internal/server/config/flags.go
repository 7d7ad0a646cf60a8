package config

import (
	"flag"
	"os"

	"noticeboard/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-r string   upload root directory
//	-w string   daily sweep time-of-day, "HH:MM"
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-r", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.UploadRoot, "r", config.UploadRoot, "upload root directory")
	fs.StringVar(&config.SweepTime, "w", config.SweepTime, "daily sweep time-of-day (HH:MM)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

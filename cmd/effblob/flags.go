package main

import "github.com/urfave/cli/v3"

var (
	configFile string
	logLevel   string
	logFormat  string
	debug      bool
)

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml (default $XDG_CONFIG_HOME/effblob/config.yaml)",
			Sources:     cli.EnvVars("EFFBLOB_CONFIG"),
			Destination: &configFile,
		},
	}
}

// orderFlag declares a byte order flag. auto allows detection from the
// blob header and is only meaningful when reading a blob.
func orderFlag(name, usage, value string, dest *string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:        name,
		Aliases:     []string{name[:1]},
		Usage:       usage,
		Value:       value,
		Destination: dest,
	}
}

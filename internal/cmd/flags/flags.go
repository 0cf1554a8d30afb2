package flags

import (
	"fmt"
	"slices"

	libnats "github.com/nats-io/nats.go"
	"github.com/urfave/cli/v3"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

var Addr = &cli.StringFlag{
	Name:    "addr",
	Aliases: []string{"a"},
	Usage:   "The address the API server listens on",
	Value:   ":8080",
	Sources: cli.EnvVars("ADDR"),
}

var Docstore = &cli.StringFlag{
	Name:    "docstore",
	Usage:   "The document store backend: appwrite, postgres or memory",
	Value:   "appwrite",
	Validator: func(value string) error {
		if !slices.Contains([]string{"appwrite", "postgres", "memory"}, value) {
			return fmt.Errorf("invalid docstore backend: %s", value)
		}
		return nil
	},
	Sources: cli.EnvVars("DOCSTORE"),
}

var Storage = &cli.StringFlag{
	Name:    "storage",
	Usage:   "The file storage backend: appwrite or local",
	Value:   "appwrite",
	Validator: func(value string) error {
		if !slices.Contains([]string{"appwrite", "local"}, value) {
			return fmt.Errorf("invalid storage backend: %s", value)
		}
		return nil
	},
	Sources: cli.EnvVars("STORAGE"),
}

var NATSUrl = &cli.StringFlag{
	Name:        "nats-url",
	Aliases:     []string{"n"},
	Usage:       "The URL of the NATS server, empty disables the activity stream",
	DefaultText: libnats.DefaultURL,
	Value:       "",
	Sources:     cli.EnvVars("NATS_URL"),
}

var InitNATS = &cli.BoolFlag{
	Name:        "nats-init",
	Aliases:     []string{"i"},
	Usage:       "Initialize the NATS server: create streams, consumers, etc.",
	DefaultText: "false",
	Value:       false,
	Sources:     cli.EnvVars("NATS_INIT"),
}

var LogLevel = &cli.StringFlag{
	Name:    "log-level",
	Aliases: []string{"l"},
	Usage:   "The level of the logs",
	Value:   "info",
	Validator: func(value string) error {
		if !slices.Contains(validLogLevels, value) {
			return fmt.Errorf("invalid log level: %s, allowed values are: %s", value, validLogLevels)
		}
		return nil
	},
	Sources: cli.EnvVars("LOG_LEVEL"),
}

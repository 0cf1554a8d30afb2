package config

// Config holds command-line settings. Environment-sourced backend
// credentials live in core.Config.
type Config struct {
	Addr     string `flag:"addr"`
	LogLevel string `flag:"log-level"`

	Docstore string `flag:"docstore"`
	Storage  string `flag:"storage"`

	NATSURL  string `flag:"nats-url"`
	NATSInit bool   `flag:"nats-init"`
}

const (
	DocstoreAppwrite = "appwrite"
	DocstorePostgres = "postgres"
	DocstoreMemory   = "memory"

	StorageAppwrite = "appwrite"
	StorageLocal    = "local"
)

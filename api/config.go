package api

const (
	// DefaultBodyLimit caps upload size at 64 MiB.
	DefaultBodyLimit = 64 << 20
)

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// BodyLimit is the maximum accepted request body size in bytes.
	// Defaults to DefaultBodyLimit when zero.
	BodyLimit int
}

// withDefaults fills zero fields.
func (c Config) withDefaults() Config {
	if c.BodyLimit == 0 {
		c.BodyLimit = DefaultBodyLimit
	}
	return c
}

// ErrorResponse is the JSON error envelope returned by all handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

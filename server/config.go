package server

// Config is the dream analysis server configuration.
type Config struct {
	// Address to listen on (e.g., ":8787")
	ListenAddr string

	// AllowedOrigins is the CORS allow list, comma separated. Empty means "*".
	AllowedOrigins string

	// BodyLimit caps request bodies in bytes. Zero uses fiber's default (4 MiB).
	BodyLimit int
}

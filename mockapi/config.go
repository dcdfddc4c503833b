package mockapi

// Config is the mock server configuration.
type Config struct {
	// Address to listen on (e.g., ":8081")
	ListenAddr string
}

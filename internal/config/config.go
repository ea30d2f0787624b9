package config

// Config holds runtime configuration for the kiosk server.
type Config struct {
	Port       string
	AdminToken string
	Feed       FeedConfig
	Display    DisplayConfig
	Layout     LayoutConfig
	Metrics    MetricsConfig

	// EnvFileErr is set when the dotenv file exists but could not be applied.
	// Loading carries on with the process environment alone.
	EnvFileErr error
}

// Load reads configuration from environment variables with sensible defaults.
// A dotenv file (ENV_FILE, default .env) is applied first when present; real
// environment variables always win over it.
func Load() Config {
	envErr := loadDotenv(envOrDefault(envEnvFile, defaultEnvFile))

	return Config{
		Port:       envOrDefault(envPort, defaultPort),
		AdminToken: envOrDefault(envAdminToken, ""),
		Feed:       loadFeed(),
		Display:    loadDisplay(),
		Layout:     loadLayout(),
		Metrics:    loadMetrics(),
		EnvFileErr: envErr,
	}
}

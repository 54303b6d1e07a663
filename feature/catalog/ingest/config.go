package ingest

// Config holds configuration for the periodic refresh loop.
type Config struct {
	// Enabled toggles the background refresh ticker in the server.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// IntervalSeconds is the delay between refresh runs.
	IntervalSeconds int `mapstructure:"interval_seconds" default:"120"`
}

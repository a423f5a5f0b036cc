package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	ClubID        string
	Turso         TursoConfig
	Push          PushConfig
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
type PushConfig struct {
	ProjectID string
	Topic     string
}

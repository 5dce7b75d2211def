package config

// DB holds the database configuration settings.
type DB struct {
	Driver   string // "sqlite", "mysql" or "postgres"
	Path     string // sqlite database file, ":memory:" for ephemeral
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Extras   string
}

package config

const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./accountd.db"
)

package config

import "fmt"

// Драйверы хранилища.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// StorageConfig выбирает реализацию хранилища заметок.
type StorageConfig struct {
	Driver        string `yaml:"driver" env:"NOTESD_STORAGE_DRIVER" env-default:"memory"`
	MigrationsDir string `yaml:"migrations_dir" env:"NOTESD_MIGRATIONS_DIR" env-default:"migrations/notes"`
}

// PostgresConfig содержит настройки подключения к базе данных.
type PostgresConfig struct {
	Host     string `yaml:"host" env:"NOTESD_POSTGRES_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"NOTESD_POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"NOTESD_POSTGRES_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"NOTESD_POSTGRES_PASSWORD" env-default:"postgres"`
	Database string `yaml:"database" env:"NOTESD_POSTGRES_DB" env-default:"notes"`
	MinConn  int    `yaml:"min_conn" env:"NOTESD_POSTGRES_MIN_CONN" env-default:"1"`
	MaxConn  int    `yaml:"max_conn" env:"NOTESD_POSTGRES_MAX_CONN" env-default:"10"`
	// ConnectAttempts - число попыток подключения при старте.
	ConnectAttempts int `yaml:"connect_attempts" env:"NOTESD_POSTGRES_CONNECT_ATTEMPTS" env-default:"5"`
}

// GetDSN возвращает строку подключения к Postgres.
func (p *PostgresConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		p.Host, p.Port, p.User, p.Password, p.Database)
}

// GetConnectionURL возвращает URL-строку подключения для миграций.
func (p *PostgresConfig) GetConnectionURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		p.User, p.Password, p.Host, p.Port, p.Database)
}

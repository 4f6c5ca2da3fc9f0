package config

import (
	"strconv"
	"time"
)

// RedisConfig представляет конфигурацию кэша списка заметок.
type RedisConfig struct {
	Enabled        bool          `yaml:"enabled" env:"NOTESD_REDIS_ENABLED" env-default:"false"`
	Host           string        `yaml:"host" env:"NOTESD_REDIS_HOST" env-default:"localhost"`
	Port           int           `yaml:"port" env:"NOTESD_REDIS_PORT" env-default:"6379"`
	Password       string        `yaml:"password" env:"NOTESD_REDIS_PASSWORD" env-default:""`
	DB             int           `yaml:"db" env:"NOTESD_REDIS_DB" env-default:"0"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"NOTESD_REDIS_CONNECT_TIMEOUT" env-default:"5s"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"NOTESD_REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"NOTESD_REDIS_WRITE_TIMEOUT" env-default:"3s"`
	PoolSize       int           `yaml:"pool_size" env:"NOTESD_REDIS_POOL_SIZE" env-default:"10"`
	DefaultTTL     time.Duration `yaml:"default_ttl" env:"NOTESD_REDIS_DEFAULT_TTL" env-default:"1m"`
	KeyPrefix      string        `yaml:"key_prefix" env:"NOTESD_REDIS_KEY_PREFIX" env-default:"notesd:"`
}

// GetAddress возвращает адрес Redis строкой.
func (c *RedisConfig) GetAddress() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

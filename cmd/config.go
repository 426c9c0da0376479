package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"fulfillment/internal/pkg/errs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const maxConflictRetries = 20

// Config holds every setting of the service. Keys are dotted in YAML files and
// upper-cased with underscores in the environment (db.host is DB_HOST).
type Config struct {
	HTTP  HTTPConfig  `mapstructure:"http"`
	DB    DBConfig    `mapstructure:"db"`
	Redis RedisConfig `mapstructure:"redis"`
	Log   LogConfig   `mapstructure:"log"`
	Jobs  JobsConfig  `mapstructure:"jobs"`
}

type HTTPConfig struct {
	Port string `mapstructure:"port"`
}

type DBConfig struct {
	Host               string `mapstructure:"host"`
	Port               string `mapstructure:"port"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	Name               string `mapstructure:"name"`
	SslMode            string `mapstructure:"sslmode"`
	Isolation          string `mapstructure:"isolation"`
	MaxConflictRetries int    `mapstructure:"max_conflict_retries"`
}

// RedisConfig configures change notifications. An empty Addr disables them.
type RedisConfig struct {
	Addr          string `mapstructure:"addr"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	ChannelPrefix string `mapstructure:"channel_prefix"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type JobsConfig struct {
	ReconcileSchedule string `mapstructure:"reconcile_schedule"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", "8080")
	v.SetDefault("db.host", "")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.isolation", "repeatable_read")
	v.SetDefault("db.max_conflict_retries", 3)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel_prefix", "fulfillment")
	v.SetDefault("log.level", "info")
	v.SetDefault("jobs.reconcile_schedule", "0 */5 * * * *")
}

// LoadConfig reads an optional .env file into the environment, then the optional
// YAML file at path, then the environment. Later sources win.
func LoadConfig(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings the service cannot start without.
func (c Config) Validate() error {
	var problems []error
	if strings.TrimSpace(c.DB.Host) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("db.host"))
	}
	if strings.TrimSpace(c.DB.Name) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("db.name"))
	}
	if _, err := c.DB.IsolationLevel(); err != nil {
		problems = append(problems, err)
	}
	if c.DB.MaxConflictRetries < 0 || c.DB.MaxConflictRetries > maxConflictRetries {
		problems = append(problems, errs.NewValueIsOutOfRangeError(
			"db.max_conflict_retries", c.DB.MaxConflictRetries, 0, maxConflictRetries,
		))
	}
	return errors.Join(problems...)
}

// IsolationLevel maps the configured isolation name onto database/sql.
func (c DBConfig) IsolationLevel() (sql.IsolationLevel, error) {
	switch strings.ToLower(strings.TrimSpace(c.Isolation)) {
	case "", "repeatable_read":
		return sql.LevelRepeatableRead, nil
	case "serializable":
		return sql.LevelSerializable, nil
	case "read_committed":
		return sql.LevelReadCommitted, nil
	default:
		return sql.LevelDefault, errs.NewValueIsInvalidErrorWithCause(
			"db.isolation", fmt.Errorf("%q is not one of repeatable_read, serializable, read_committed", c.Isolation),
		)
	}
}

// DSN returns the PostgreSQL connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SslMode)
}

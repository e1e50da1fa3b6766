package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

// Config holds the service settings. Every field has a flag whose default
// is read from the environment variable named in Load.
type Config struct {
	Port string

	Backend         string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	ConnectTimeout  time.Duration

	DataFile       string
	BackgroundSave time.Duration

	LogLevel  string
	LogFormat string
	LogFile   string

	ShutdownTimeout time.Duration
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// Load parses args (without the program name) into a Config. lookupEnv
// supplies flag defaults; pass os.LookupEnv in production.
func Load(name string, args []string, lookupEnv func(string) (string, bool), output io.Writer) (Config, error) {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	env := envReader{lookupEnv: lookupEnv}

	var cfg Config
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	if output != nil {
		flags.SetOutput(output)
	}

	flags.StringVar(&cfg.Port, "port", env.String("PORT", "3001"), "Server port (PORT)")
	flags.StringVar(&cfg.Backend, "backend", env.String("STORE_BACKEND", BackendMemory), "Storage backend: memory or mongo (STORE_BACKEND)")
	flags.StringVar(&cfg.MongoURI, "mongo-uri", env.String("MONGO_URI", "mongodb://127.0.0.1:27017"), "MongoDB connection string (MONGO_URI)")
	flags.StringVar(&cfg.MongoDatabase, "mongo-database", env.String("MONGO_DATABASE", "employee"), "MongoDB database name (MONGO_DATABASE)")
	flags.StringVar(&cfg.MongoCollection, "mongo-collection", env.String("MONGO_COLLECTION", "employees"), "Collection holding employee documents (MONGO_COLLECTION)")
	flags.DurationVar(&cfg.ConnectTimeout, "connect-timeout", env.Duration("CONNECT_TIMEOUT", 10*time.Second), "How long to retry the initial MongoDB connection (CONNECT_TIMEOUT)")
	flags.StringVar(&cfg.DataFile, "data-file", env.StringOrEmpty("DATA_FILE", "employees.godb"), "Snapshot file for the memory backend, empty disables persistence (DATA_FILE)")
	flags.DurationVar(&cfg.BackgroundSave, "background-save", env.Duration("BACKGROUND_SAVE", 0), "Background save interval for the memory backend (e.g., 5m, 30s). 0 saves after every write (BACKGROUND_SAVE)")
	flags.StringVar(&cfg.LogLevel, "log-level", env.String("LOG_LEVEL", "info"), "Log level (LOG_LEVEL)")
	flags.StringVar(&cfg.LogFormat, "log-format", env.String("LOG_FORMAT", "json"), "Log format: json or text (LOG_FORMAT)")
	flags.StringVar(&cfg.LogFile, "log-file", env.String("LOG_FILE", ""), "Optional file receiving a copy of the logs (LOG_FILE)")
	flags.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", env.Duration("SHUTDOWN_TIMEOUT", 30*time.Second), "Grace period for in-flight requests on shutdown (SHUTDOWN_TIMEOUT)")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}
	if err := env.Err(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that flags cannot express
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return fmt.Errorf("invalid port %q", c.Port)
	}

	switch c.Backend {
	case BackendMemory:
		if c.BackgroundSave < 0 {
			return fmt.Errorf("background save interval cannot be negative")
		}
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("mongo uri required for the mongo backend")
		}
		if c.MongoDatabase == "" || c.MongoCollection == "" {
			return fmt.Errorf("mongo database and collection required for the mongo backend")
		}
	default:
		return fmt.Errorf("unknown backend %q: expected %s or %s", c.Backend, BackendMemory, BackendMongo)
	}
	return nil
}

// Addr is the listen address for the HTTP server
func (c Config) Addr() string {
	return ":" + c.Port
}

// envReader reads typed environment values, remembering the first parse error
type envReader struct {
	lookupEnv func(string) (string, bool)
	err       error
}

// String returns the variable's value; unset or empty yields fallback
func (e *envReader) String(key, fallback string) string {
	if val, _ := e.lookupEnv(key); val != "" {
		return val
	}
	return fallback
}

// StringOrEmpty is String for settings where an empty value means off:
// only an unset variable yields fallback.
func (e *envReader) StringOrEmpty(key, fallback string) string {
	if val, ok := e.lookupEnv(key); ok {
		return val
	}
	return fallback
}

func (e *envReader) Duration(key string, fallback time.Duration) time.Duration {
	val, _ := e.lookupEnv(key)
	if val == "" {
		return fallback
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if i, err := strconv.Atoi(val); err == nil {
		return time.Duration(i) * time.Second
	}
	if e.err == nil {
		e.err = fmt.Errorf("invalid duration %q for %s", val, key)
	}
	return fallback
}

func (e *envReader) Err() error {
	return e.err
}

package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Варианты локального хранилища клиента и хранилища токена.
const (
	StoreSQLite = "sqlite"
	StoreBolt   = "bolt"

	TokenStoreFile    = "file"
	TokenStoreKeyring = "keyring"
)

type Config struct {
	// Server-side settings
	DatabaseDSN string        `env:"DATABASE_URI"`
	AuthSecret  string        `env:"AUTH_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL"`
	CORSOrigins []string      `env:"CORS_ORIGINS" envSeparator:","`
	RateLimit   int           `env:"RATE_LIMIT"` // запросов в минуту на /api/auth/* с одного IP
	Seed        bool          `env:"-"`          // создать legacy-пользователя с демо-карточками (flag only)

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL    string        `env:"-"`
	ClientDBPath string        `env:"CLIENT_DB_PATH"`
	ClientStore  string        `env:"CLIENT_STORE"` // sqlite | bolt
	EncryptCache bool          `env:"ENCRYPT_CACHE"`
	TokenFile    string        `env:"TOKEN_FILE"`
	TokenStore   string        `env:"TOKEN_STORE"` // file | keyring
	SyncDelay    time.Duration `env:"SYNC_DELAY"`
	Version      bool          `env:"-"` // show client version and exit (flag only)
	Verbose      bool          `env:"CLIENT_VERBOSE"`
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (путь SQLite или postgres://...)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "время жизни JWT")
	flag.IntVar(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "лимит запросов к /api/auth/* в минуту с одного IP")
	flag.BoolVar(&cfg.Seed, "seed", cfg.Seed, "seed legacy user and sample cards on start")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "address:port of the CardWallet server")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	// Client flags
	flag.StringVar(&cfg.ClientDBPath, "client-db", cfg.ClientDBPath, "path to client local store")
	flag.StringVar(&cfg.ClientStore, "client-store", cfg.ClientStore, "client local store backend: sqlite|bolt")
	flag.BoolVar(&cfg.EncryptCache, "encrypt-cache", cfg.EncryptCache, "encrypt client local store values")
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "path to auth token file (client)")
	flag.StringVar(&cfg.TokenStore, "token-store", cfg.TokenStore, "where the client keeps its token: file|keyring")
	flag.DurationVar(&cfg.SyncDelay, "sync-delay", cfg.SyncDelay, "delay before syncing local cards after login")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")
	flag.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "print client debug log to stderr")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = "cardwallet.db"
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 20
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"http://localhost:5173"}
	}
	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	// Fill client defaults if empty
	if cfg.ClientStore != StoreBolt {
		cfg.ClientStore = StoreSQLite
	}
	if cfg.TokenStore != TokenStoreKeyring {
		cfg.TokenStore = TokenStoreFile
	}
	if cfg.SyncDelay <= 0 {
		cfg.SyncDelay = 1500 * time.Millisecond
	}
	home, _ := os.UserHomeDir()
	if cfg.ClientDBPath == "" {
		name := "cwcli.db"
		if cfg.ClientStore == StoreBolt {
			name = "cwcli.bolt"
		}
		cfg.ClientDBPath = filepath.Join(home, name)
	}
	if cfg.TokenFile == "" {
		cfg.TokenFile = filepath.Join(home, ".cw_token")
	}
}

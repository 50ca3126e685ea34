package config

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Cart         CartConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TVSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"TVSHOP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TVSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TVSHOP_LOG_WARN_STACK" default:"false"`

	ShopName    string   `envconfig:"TVSHOP_SHOP_NAME" default:"TV Shop"`
	CORSOrigins []string `envconfig:"TVSHOP_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TVSHOP_DB_DSN"`
	Driver string `envconfig:"TVSHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TVSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"TVSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TVSHOP_DB_USER"`
	LegacyPassword string `envconfig:"TVSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"TVSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"TVSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TVSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TVSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TVSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TVSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	// SlowQuery is the duration above which a statement is logged as slow.
	SlowQuery time.Duration `envconfig:"TVSHOP_DB_SLOW_QUERY" default:"250ms"`
}

// IsSQLite reports whether the configured driver targets SQLite.
func (d DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(d.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"TVSHOP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TVSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"TVSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"TVSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TVSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TVSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TVSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TVSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TVSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TVSHOP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TVSHOP_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"TVSHOP_JWT_EXPIRATION_MINUTES" required:"true"`
}

// CartConfig controls how long an idle session cart survives in the session store.
type CartConfig struct {
	SessionTTL   time.Duration `envconfig:"TVSHOP_CART_SESSION_TTL" default:"336h"`
	CookieName   string        `envconfig:"TVSHOP_CART_COOKIE_NAME" default:"tvshop_session"`
	CookieSecure bool          `envconfig:"TVSHOP_CART_COOKIE_SECURE" default:"true"`
}

// RateLimitConfig bounds how often a caller may mutate carts and submit checkouts.
// A zero window or zero limits disable the corresponding policy.
type RateLimitConfig struct {
	Window            time.Duration `envconfig:"TVSHOP_RATE_LIMIT_WINDOW" default:"1m"`
	CartIPLimit       int           `envconfig:"TVSHOP_RATE_LIMIT_CART_IP" default:"120"`
	CartSessionLimit  int           `envconfig:"TVSHOP_RATE_LIMIT_CART_SESSION" default:"60"`
	CheckoutIPLimit   int           `envconfig:"TVSHOP_RATE_LIMIT_CHECKOUT_IP" default:"20"`
	CheckoutUserLimit int           `envconfig:"TVSHOP_RATE_LIMIT_CHECKOUT_USER" default:"5"`
	// TrustedProxies lists the load balancers whose X-Forwarded-For hops are
	// believed. Empty means the peer address is the client.
	TrustedProxies ProxyList `envconfig:"TVSHOP_RATE_LIMIT_TRUSTED_PROXIES"`
}

// ProxyList is a comma separated list of CIDRs or bare addresses.
type ProxyList []netip.Prefix

func (p *ProxyList) Decode(value string) error {
	var out ProxyList
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, "/") {
			prefix, err := netip.ParsePrefix(part)
			if err != nil {
				return fmt.Errorf("trusted proxy %q: %w", part, err)
			}
			out = append(out, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(part)
		if err != nil {
			return fmt.Errorf("trusted proxy %q: %w", part, err)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	*p = out
	return nil
}

// Contains reports whether addr belongs to one of the trusted proxies.
func (p ProxyList) Contains(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range p {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TVSHOP_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvDBDriver, DBDriverSQLite)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

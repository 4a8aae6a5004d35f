package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "STOREFRONT_CONFIG_FILE"
	envPrefix         = "STOREFRONT"
)

const (
	CatalogSourceStatic = "static"
	CatalogSourceSQL    = "sql"
)

var ErrInvalidConfig = errors.New("invalid config")

type catalog struct {
	Source string `mapstructure:"source"`
	SQLDB  string `mapstructure:"sql_db"`
}

type session struct {
	CookieName    string        `mapstructure:"cookie_name"`
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type topics struct {
	CartEvents string `mapstructure:"cart_events"`
}

type consumers struct {
	CartActivityGroup string `mapstructure:"cart_activity_group"`
}

type tlsFiles struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

func (t tlsFiles) Enabled() bool {
	return t.CA != "" || t.Cert != "" || t.Key != ""
}

type broker struct {
	Enabled            bool      `mapstructure:"enabled"`
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	Topics             topics    `mapstructure:"topics"`
	Consumers          consumers `mapstructure:"consumers"`
	TLS                tlsFiles  `mapstructure:"tls"`
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	Catalog        catalog    `mapstructure:"catalog"`
	Session        session    `mapstructure:"session"`
	Broker         broker     `mapstructure:"broker"`
}

// Load reads .env, the config file and STOREFRONT_* variables,
// exiting the process when the result is unusable.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		die(err)
	}

	cfg, err := load(os.Args[1:])
	if err != nil {
		die(err)
	}
	return cfg
}

func load(args []string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := getConfigFilepath(args); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", ":8080")

	v.SetDefault("catalog.source", CatalogSourceStatic)
	v.SetDefault("catalog.sql_db", "")

	v.SetDefault("session.cookie_name", "cart_session")
	v.SetDefault("session.idle_timeout", 2*time.Hour)
	v.SetDefault("session.sweep_interval", time.Minute)

	v.SetDefault("broker.enabled", false)
	v.SetDefault("broker.seed_brokers", []string{})
	v.SetDefault("broker.schema_registry_urls", []string{})
	v.SetDefault("broker.topics.cart_events", "cart-events")
	v.SetDefault("broker.consumers.cart_activity_group", "cart-activity")
	v.SetDefault("broker.tls.ca", "")
	v.SetDefault("broker.tls.cert", "")
	v.SetDefault("broker.tls.key", "")
}

func getConfigFilepath(args []string) string {
	cmdLine := pflag.NewFlagSet("config", pflag.ContinueOnError)
	cmdLine.SetOutput(io.Discard)
	cmdLine.ParseErrorsWhitelist.UnknownFlags = true
	arg := cmdLine.String("config", "", "config file")
	_ = cmdLine.Parse(args)
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func (c Config) validate() error {
	var errs []error

	if c.HTTPServerAddr == "" {
		errs = append(errs, errors.New("http_server_addr: required"))
	}

	switch c.Catalog.Source {
	case CatalogSourceStatic:
	case CatalogSourceSQL:
		if c.Catalog.SQLDB == "" {
			errs = append(errs, errors.New("catalog.sql_db: required for sql source"))
		}
	default:
		errs = append(errs, fmt.Errorf("catalog.source: unknown %q", c.Catalog.Source))
	}

	if c.Session.CookieName == "" {
		errs = append(errs, errors.New("session.cookie_name: required"))
	}
	if c.Session.IdleTimeout > 0 && c.Session.SweepInterval <= 0 {
		errs = append(errs, errors.New("session.sweep_interval: must be positive"))
	}

	if c.Broker.Enabled {
		b := c.Broker
		if len(b.SeedBrokers) == 0 {
			errs = append(errs, errors.New("broker.seed_brokers: required"))
		}
		if len(b.SchemaRegistryURLs) == 0 {
			errs = append(errs, errors.New("broker.schema_registry_urls: required"))
		}
		if b.Topics.CartEvents == "" {
			errs = append(errs, errors.New("broker.topics.cart_events: required"))
		}
		if b.Consumers.CartActivityGroup == "" {
			errs = append(errs, errors.New("broker.consumers.cart_activity_group: required"))
		}
		if b.TLS.Enabled() && (b.TLS.CA == "" || b.TLS.Cert == "" || b.TLS.Key == "") {
			errs = append(errs, errors.New("broker.tls: ca, cert and key go together"))
		}
	}

	if len(errs) != 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func die(err error) {
	fmt.Printf("failed to load config: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q

	Catalog:
	Source=%q
	SQLDB=%q

	Session:
	CookieName=%q
	IdleTimeout=%q
	SweepInterval=%q

	BrokerConfig:
	Enabled=%t
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	TLS=%t
	Topics:
		CartEvents=%q
	Consumers:
		CartActivityGroup=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.Catalog.Source,
		maskDSN(c.Catalog.SQLDB),
		c.Session.CookieName,
		c.Session.IdleTimeout,
		c.Session.SweepInterval,
		c.Broker.Enabled,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.TLS.Enabled(),
		c.Broker.Topics.CartEvents,
		c.Broker.Consumers.CartActivityGroup,
	)
}

// maskDSN hides the password of a postgres URL.
func maskDSN(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dsn
	}
	userinfo, host, ok := strings.Cut(rest, "@")
	if !ok {
		return dsn
	}
	user, _, hasPass := strings.Cut(userinfo, ":")
	if !hasPass {
		return dsn
	}
	return scheme + "://" + user + ":***@" + host
}

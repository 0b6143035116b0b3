package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const _envPrefix = "vehicle_dashboard"

var loadConfigOnce sync.Once
var configInstance AppConfig

var commandLineArgs = func() []string { return os.Args[1:] }

// LoadConfig reads server.yaml from config/ or /config, or the file given
// with --config. Every key has a default so the service boots without one.
func LoadConfig() AppConfig {
	loadConfigOnce.Do(func() {
		v := viper.GetViper()
		flags := pflag.NewFlagSet("vehicle-dashboard", pflag.ContinueOnError)
		flags.ParseErrorsWhitelist.UnknownFlags = true
		flags.String("config", "", "path to the configuration file")
		_ = flags.Parse(commandLineArgs())

		path, _ := flags.GetString("config")
		cfg, err := load(v, path)
		if err != nil {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
		configInstance = cfg
	})

	return configInstance
}

func load(v *viper.Viper, path string) (AppConfig, error) {
	setDefaults(v)
	v.SetEnvPrefix(_envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("server")
		v.AddConfigPath("config")
		v.AddConfigPath("/config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return AppConfig{}, err
		}
	}

	return AppConfig{
		General: GeneralConfig{
			LogLevel: v.GetString("general.log_level"),
		},
		HTTP: HTTPConfig{
			Addr:           v.GetString("http.addr"),
			AllowedOrigins: v.GetStringSlice("http.allowed_origins"),
			ShutdownGrace:  v.GetDuration("http.shutdown_grace"),
		},
		Backend: BackendConfig{
			BaseURL:          v.GetString("backend.base_url"),
			Timeout:          v.GetDuration("backend.timeout"),
			CSRFToken:        v.GetString("backend.csrf_token"),
			AppSessionToken:  v.GetString("backend.app_session_token"),
			UserSessionToken: v.GetString("backend.user_session_token"),
		},
		KeyStore: KeyStoreConfig{
			Driver:        v.GetString("keystore.driver"),
			Path:          v.GetString("keystore.path"),
			DSN:           v.GetString("keystore.dsn"),
			Timeout:       v.GetDuration("keystore.timeout"),
			EncryptionKey: v.GetString("keystore.encryption_key"),
			Salt:          v.GetString("keystore.salt"),
		},
		Poller: PollerConfig{
			Interval:    v.GetDuration("poller.interval"),
			MaxAttempts: v.GetInt("poller.max_attempts"),
			StatusCodes: v.GetStringMapString("poller.status_codes"),
			StatusNames: v.GetStringMapString("poller.status_names"),
		},
		StateCache: StateCacheConfig{
			Coalesce: v.GetBool("state_cache.coalesce"),
			Store:    v.GetString("state_cache.store"),
			TTL:      v.GetDuration("state_cache.ttl"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Push: PushConfig{
			Transport:      v.GetString("push.transport"),
			WebSocketURL:   v.GetString("push.websocket_url"),
			ReconnectDelay: v.GetDuration("push.reconnect_delay"),
			TopicRoot:      v.GetString("push.topic_root"),
			QoS:            byte(v.GetUint("push.qos")),
		},
		MQTTClient: MQTTClientConfig{
			Broker:   v.GetString("mqtt_client.broker"),
			ClientID: v.GetString("mqtt_client.client_id"),
			Username: v.GetString("mqtt_client.username"),
			Password: v.GetString("mqtt_client.password"),
		},
		Refresh: RefreshConfig{
			Enabled:     v.GetBool("refresh.enabled"),
			Schedule:    v.GetString("refresh.schedule"),
			Vehicles:    v.GetStringSlice("refresh.vehicles"),
			Concurrency: v.GetInt("refresh.concurrency"),
		},
		History: HistoryConfig{
			MaxAge:        v.GetDuration("history.max_age"),
			PurgeSchedule: v.GetString("history.purge_schedule"),
		},
		OTel: OTelConfig{
			Enabled:  v.GetBool("otel.enabled"),
			Endpoint: v.GetString("otel.endpoint"),
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.log_level", "info")

	v.SetDefault("http.addr", ":3000")
	v.SetDefault("http.allowed_origins", []string{"http://localhost:5173", "http://127.0.0.1:5173"})
	v.SetDefault("http.shutdown_grace", 10*time.Second)

	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.timeout", 30*time.Second)

	v.SetDefault("keystore.driver", "sqlite")
	v.SetDefault("keystore.path", "vehicle-dashboard.db")
	v.SetDefault("keystore.timeout", 5*time.Second)
	v.SetDefault("keystore.salt", "vehicle-dashboard")

	v.SetDefault("poller.interval", 2*time.Second)
	v.SetDefault("poller.max_attempts", 10)

	v.SetDefault("state_cache.coalesce", true)
	v.SetDefault("state_cache.store", "memory")
	v.SetDefault("state_cache.ttl", 24*time.Hour)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("push.transport", "none")
	v.SetDefault("push.reconnect_delay", 5*time.Second)
	v.SetDefault("push.topic_root", "vehicle-dashboard")
	v.SetDefault("push.qos", 1)

	v.SetDefault("mqtt_client.client_id", "vehicle-dashboard")

	v.SetDefault("refresh.enabled", true)
	v.SetDefault("refresh.schedule", "@every 30s")
	v.SetDefault("refresh.concurrency", 4)

	v.SetDefault("history.max_age", 24*time.Hour)
	v.SetDefault("history.purge_schedule", "@every 1h")

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.endpoint", "localhost:4317")
}

type AppConfig struct {
	General    GeneralConfig
	HTTP       HTTPConfig
	Backend    BackendConfig
	KeyStore   KeyStoreConfig
	Poller     PollerConfig
	StateCache StateCacheConfig
	Redis      RedisConfig
	Push       PushConfig
	MQTTClient MQTTClientConfig
	Refresh    RefreshConfig
	History    HistoryConfig
	OTel       OTelConfig
}

type GeneralConfig struct {
	LogLevel string
}

type HTTPConfig struct {
	Addr           string
	AllowedOrigins []string
	ShutdownGrace  time.Duration
}

// BackendConfig tokens are used when a request carries no session headers.
type BackendConfig struct {
	BaseURL          string
	Timeout          time.Duration
	CSRFToken        string
	AppSessionToken  string
	UserSessionToken string
}

// KeyStoreConfig Driver is sqlite, memory or postgres. An empty EncryptionKey
// stores bundles unsealed.
type KeyStoreConfig struct {
	Driver        string
	Path          string
	DSN           string
	Timeout       time.Duration
	EncryptionKey string
	Salt          string
}

type PollerConfig struct {
	Interval    time.Duration
	MaxAttempts int
	StatusCodes map[string]string
	StatusNames map[string]string
}

// StateCacheConfig Store is memory, ristretto or redis.
type StateCacheConfig struct {
	Coalesce bool
	Store    string
	TTL      time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// PushConfig Transport is none, websocket or mqtt.
type PushConfig struct {
	Transport      string
	WebSocketURL   string
	ReconnectDelay time.Duration
	TopicRoot      string
	QoS            byte
}

type MQTTClientConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

type RefreshConfig struct {
	Enabled     bool
	Schedule    string
	Vehicles    []string
	Concurrency int
}

type HistoryConfig struct {
	MaxAge        time.Duration
	PurgeSchedule string
}

type OTelConfig struct {
	Enabled  bool
	Endpoint string
}

package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	HTTP   HTTPConfig
	Store  StoreConfig
	DB     DBConfig
	AI     AIConfig
	Client ClientConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP del record store.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Backends de hoja de cálculo soportados por el servidor.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// StoreConfig configuración del record store (lado servidor).
type StoreConfig struct {
	Backend    string        // memory | sqlite | postgres
	SQLitePath string        // ruta del archivo si Backend = sqlite
	LockWait   time.Duration // espera máxima del lock por petición; vencida, la petición sigue sin lock
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// Proveedores de IA soportados.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// AIConfig configuración del asistente de IA (estimaciones y chat).
type AIConfig struct {
	Provider        string // gemini | anthropic
	GeminiAPIKey    string
	GeminiModel     string
	AnthropicAPIKey string
	AnthropicModel  string
}

// ClientConfig configuración del cliente (CLI) del record store.
type ClientConfig struct {
	Endpoint        string        // vacío = modo fallback en memoria
	Timeout         time.Duration // timeout del transporte HTTP
	FallbackLatency time.Duration // latencia simulada del modo fallback
	SettingsPath    string        // archivo donde se persiste el endpoint
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, STORE_BACKEND, GEMINI_API_KEY, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "tailorflow"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Store: StoreConfig{
			Backend:    strings.ToLower(getString(v, "STORE_BACKEND", BackendMemory)),
			SQLitePath: getString(v, "SQLITE_PATH", "tailorflow.db"),
			LockWait:   time.Duration(getInt(v, "STORE_LOCK_WAIT_SECONDS", 10)) * time.Second,
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "tailorflow"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		AI: AIConfig{
			Provider:        strings.ToLower(getString(v, "AI_PROVIDER", ProviderGemini)),
			GeminiAPIKey:    getString(v, "GEMINI_API_KEY", ""),
			GeminiModel:     getString(v, "GEMINI_MODEL", "gemini-2.5-flash"),
			AnthropicAPIKey: getString(v, "ANTHROPIC_API_KEY", ""),
			AnthropicModel:  getString(v, "ANTHROPIC_MODEL", "claude-3-5-haiku-20241022"),
		},
		Client: ClientConfig{
			Endpoint:        getString(v, "STORE_ENDPOINT", ""),
			Timeout:         time.Duration(getInt(v, "STORE_TIMEOUT_SECONDS", 30)) * time.Second,
			FallbackLatency: time.Duration(getInt(v, "FALLBACK_LATENCY_MS", 500)) * time.Millisecond,
			SettingsPath:    getString(v, "TAILORFLOW_SETTINGS", DefaultSettingsPath()),
		},
	}

	switch cfg.Store.Backend {
	case BackendMemory, BackendSQLite, BackendPostgres:
	default:
		return nil, fmt.Errorf("STORE_BACKEND desconocido: %q", cfg.Store.Backend)
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

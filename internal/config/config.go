package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App            App            `mapstructure:",squash"`
	Server         Server         `mapstructure:",squash"`
	Database       Database       `mapstructure:",squash"`
	Storage        Storage        `mapstructure:",squash"`
	Inbox          Inbox          `mapstructure:",squash"`
	Extraction     Extraction     `mapstructure:",squash"`
	Gemini         Gemini         `mapstructure:",squash"`
	Normalization  Normalization  `mapstructure:",squash"`
	ColumnSynonyms ColumnSynonyms `mapstructure:",squash"`
	PriceSync      PriceSync      `mapstructure:",squash"`
	Report         Report         `mapstructure:",squash"`
	Auth           Auth           `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

// Storage define onde os snapshots diários ficam guardados
type Storage struct {
	Backend   string `mapstructure:"storage_backend"` // file | sql
	Dir       string `mapstructure:"storage_dir"`
	CacheSize int    `mapstructure:"storage_cache_size"` // snapshots mantidos em memória pela API
}

type Inbox struct {
	Dir string `mapstructure:"inbox_dir"`
}

type Extraction struct {
	Engine            string        `mapstructure:"extraction_engine"` // rule | gemini
	MaxAttempts       int           `mapstructure:"extraction_max_attempts"`
	Backoff           time.Duration `mapstructure:"extraction_backoff"`
	DocumentTimeout   time.Duration `mapstructure:"extraction_document_timeout"`
	DefaultConfidence float64       `mapstructure:"extraction_default_confidence"`
	CacheTTL          time.Duration `mapstructure:"extraction_cache_ttl"`
	MaxConcurrentJobs int           `mapstructure:"extraction_max_concurrent_jobs"`
}

type Gemini struct {
	APIKey            string        `mapstructure:"gemini_api_key"`
	BaseURL           string        `mapstructure:"gemini_base_url"`
	Model             string        `mapstructure:"gemini_model"`
	RequestsPerMinute int           `mapstructure:"gemini_requests_per_minute"`
	Burst             int           `mapstructure:"gemini_burst"`
	Timeout           time.Duration `mapstructure:"gemini_timeout"`
}

type Normalization struct {
	FallbackCurrency  string `mapstructure:"fallback_currency"`
	RateDecimalPlaces int32  `mapstructure:"rate_decimal_places"`
	RateEpsilon       string `mapstructure:"rate_epsilon"`
}

// Epsilon devolve RATE_EPSILON como decimal; vazio vale zero
func (n Normalization) Epsilon() (decimal.Decimal, error) {
	if strings.TrimSpace(n.RateEpsilon) == "" {
		return decimal.Zero, nil
	}
	eps, err := decimal.NewFromString(strings.TrimSpace(n.RateEpsilon))
	if err != nil {
		return decimal.Zero, fmt.Errorf("RATE_EPSILON inválido: %q", n.RateEpsilon)
	}
	if eps.IsNegative() {
		return decimal.Zero, fmt.Errorf("RATE_EPSILON não pode ser negativo: %q", n.RateEpsilon)
	}
	return eps, nil
}

// ColumnSynonyms sobrescreve a lista de nomes de coluna aceitos por campo (listas separadas por vírgula)
type ColumnSynonyms struct {
	Rate          []string `mapstructure:"column_synonyms_rate"`
	Currency      []string `mapstructure:"column_synonyms_currency"`
	Country       []string `mapstructure:"column_synonyms_country"`
	MCC           []string `mapstructure:"column_synonyms_mcc"`
	MNC           []string `mapstructure:"column_synonyms_mnc"`
	MCCMNC        []string `mapstructure:"column_synonyms_mccmnc"`
	Destination   []string `mapstructure:"column_synonyms_destination"`
	Operator      []string `mapstructure:"column_synonyms_operator"`
	Provider      []string `mapstructure:"column_synonyms_provider"`
	EffectiveFrom []string `mapstructure:"column_synonyms_effective_from"`
}

// AsMap devolve apenas os campos configurados, indexados pelo nome do campo
func (c ColumnSynonyms) AsMap() map[string][]string {
	out := make(map[string][]string)
	add := func(field string, aliases []string) {
		if len(aliases) > 0 {
			out[field] = aliases
		}
	}

	add("rate", c.Rate)
	add("currency", c.Currency)
	add("country", c.Country)
	add("mcc", c.MCC)
	add("mnc", c.MNC)
	add("mccmnc", c.MCCMNC)
	add("destination", c.Destination)
	add("operator", c.Operator)
	add("provider", c.Provider)
	add("effective_from", c.EffectiveFrom)

	return out
}

type PriceSync struct {
	CronSchedule string `mapstructure:"price_sync_cron"`
	Enabled      bool   `mapstructure:"price_sync_enabled"`
}

type Report struct {
	OutboxDir string `mapstructure:"report_outbox_dir"`
	Enabled   bool   `mapstructure:"report_enabled"`
}

type Auth struct {
	Secret   string        `mapstructure:"auth_secret"`
	TokenTTL time.Duration `mapstructure:"auth_token_ttl"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/prices?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("STORAGE_BACKEND", "file")
	viper.SetDefault("STORAGE_DIR", "logs")
	viper.SetDefault("STORAGE_CACHE_SIZE", 32)

	viper.SetDefault("INBOX_DIR", "inbox")

	viper.SetDefault("EXTRACTION_ENGINE", "rule")
	viper.SetDefault("EXTRACTION_MAX_ATTEMPTS", 3)
	viper.SetDefault("EXTRACTION_BACKOFF", "2s")
	viper.SetDefault("EXTRACTION_DOCUMENT_TIMEOUT", "60s")
	viper.SetDefault("EXTRACTION_DEFAULT_CONFIDENCE", 0.5)
	viper.SetDefault("EXTRACTION_CACHE_TTL", "24h")
	viper.SetDefault("EXTRACTION_MAX_CONCURRENT_JOBS", 3)

	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("GEMINI_REQUESTS_PER_MINUTE", 15) // Limite do plano gratuito
	viper.SetDefault("GEMINI_BURST", 1)
	viper.SetDefault("GEMINI_TIMEOUT", "45s")

	viper.SetDefault("FALLBACK_CURRENCY", "EUR")
	viper.SetDefault("RATE_DECIMAL_PLACES", 6)
	viper.SetDefault("RATE_EPSILON", "0")

	for _, field := range []string{"RATE", "CURRENCY", "COUNTRY", "MCC", "MNC", "MCCMNC", "DESTINATION", "OPERATOR", "PROVIDER", "EFFECTIVE_FROM"} {
		viper.SetDefault("COLUMN_SYNONYMS_"+field, "")
	}

	viper.SetDefault("PRICE_SYNC_CRON", "0 7 * * *") // Todos os dias às 7h da manhã
	viper.SetDefault("PRICE_SYNC_ENABLED", false)

	viper.SetDefault("REPORT_OUTBOX_DIR", "outbox")
	viper.SetDefault("REPORT_ENABLED", true)

	viper.SetDefault("AUTH_SECRET", "your_secret_key")
	viper.SetDefault("AUTH_TOKEN_TTL", "24h")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.Database.DSN = buildDSN(config.Database)

	return config, nil
}

// Validate verifica combinações de configuração que impediriam a execução
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "file", "sql":
	default:
		return fmt.Errorf("STORAGE_BACKEND inválido: %q (use file ou sql)", c.Storage.Backend)
	}

	switch c.Extraction.Engine {
	case "rule":
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY é obrigatório com EXTRACTION_ENGINE=gemini")
		}
	default:
		return fmt.Errorf("EXTRACTION_ENGINE inválido: %q (use rule ou gemini)", c.Extraction.Engine)
	}

	if _, err := c.Normalization.Epsilon(); err != nil {
		return err
	}

	if c.PriceSync.Enabled {
		if _, err := cron.ParseStandard(c.PriceSync.CronSchedule); err != nil {
			return fmt.Errorf("PRICE_SYNC_CRON inválido: %q: %w", c.PriceSync.CronSchedule, err)
		}
	}

	c.Normalization.FallbackCurrency = strings.ToUpper(strings.TrimSpace(c.Normalization.FallbackCurrency))
	if len(c.Normalization.FallbackCurrency) != 3 {
		return fmt.Errorf("FALLBACK_CURRENCY inválido: %q", c.Normalization.FallbackCurrency)
	}

	return nil
}

// buildDSN monta a string de conexão; para sqlite DATABASE_URL é o caminho do arquivo
func buildDSN(db Database) string {
	if db.Driver == "sqlite" {
		return db.URL
	}

	return fmt.Sprintf(
		"%s://%s:%s@%s",
		db.Driver,
		db.User,
		db.Password,
		db.URL,
	)
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	// Obter diretório atual
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/riskibarqy/community-league/internal/platform/logging"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                      string
	ServiceName                 string
	ServiceVersion              string
	HTTPAddr                    string
	StoreDriver                 string
	DBURL                       string
	DBBinaryParameters          bool
	SeedOnStart                 bool
	SeasonStart                 time.Time
	CacheEnabled                bool
	CacheTTL                    time.Duration
	CORSAllowedOrigins          []string
	ReadTimeout                 time.Duration
	WriteTimeout                time.Duration
	ResultRequireReview         bool
	StandingsSkipUndecided      bool
	PprofEnabled                bool
	PprofAddr                   string
	AnubisBaseURL               string
	AnubisIntrospectURL         string
	AnubisAdminKey              string
	AnubisTimeout               time.Duration
	AnubisCacheTTL              time.Duration
	AnubisCircuitEnabled        bool
	AnubisCircuitFailureCount   int
	AnubisCircuitOpenTimeout    time.Duration
	AnubisCircuitHalfOpenMaxReq int
	DocstoreEnabled             bool
	DocstoreBaseURL             string
	DocstoreToken               string
	DocstoreTimeout             time.Duration
	DocstoreMaxRetries          int
	DocstoreRetryBackoff        time.Duration
	DocstoreCircuitEnabled      bool
	DocstoreCircuitFailureCount int
	DocstoreCircuitOpenTimeout  time.Duration
	DocstoreCircuitHalfOpenMax  int
	ReplicationBatchSize        int
	ReplicationWorkers          int
	ReplicationInterval         time.Duration
	UptraceEnabled              bool
	UptraceDSN                  string
	PyroscopeEnabled            bool
	PyroscopeServerAddress      string
	PyroscopeAppName            string
	PyroscopeAuthToken          string
	PyroscopeBasicAuthUser      string
	PyroscopeBasicAuthPassword  string
	PyroscopeUploadRate         time.Duration
	InternalJobToken            string
	LogLevel                    logging.Level
}

// Load reads the process environment. A .env file (or ENV_FILE) is applied
// first without overriding variables that are already set.
func Load() (Config, error) {
	if err := loadDotEnv(getEnv("ENV_FILE", ".env")); err != nil {
		return Config{}, err
	}

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	storeDriver, err := parseStoreDriver(getEnv("STORE_DRIVER", StoreMemory))
	if err != nil {
		return Config{}, err
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if storeDriver == StorePostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when STORE_DRIVER=postgres")
	}
	dbBinaryParameters, err := strconv.ParseBool(getEnv("DB_BINARY_PARAMETERS", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_BINARY_PARAMETERS: %w", err)
	}
	seedOnStart, err := strconv.ParseBool(getEnv("SEED_ON_START", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SEED_ON_START: %w", err)
	}
	seasonStart, err := parseSeasonStart(getEnv("SEASON_START", ""))
	if err != nil {
		return Config{}, err
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	requireReview, err := strconv.ParseBool(getEnv("RESULT_REQUIRE_REVIEW", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RESULT_REQUIRE_REVIEW: %w", err)
	}
	skipUndecided, err := strconv.ParseBool(getEnv("STANDINGS_SKIP_UNDECIDED_LINES", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STANDINGS_SKIP_UNDECIDED_LINES: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))

	anubis, err := loadBreaker("ANUBIS")
	if err != nil {
		return Config{}, err
	}
	anubisTimeout, err := time.ParseDuration(getEnv("ANUBIS_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ANUBIS_TIMEOUT: %w", err)
	}
	anubisCacheTTL, err := time.ParseDuration(getEnv("ANUBIS_CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ANUBIS_CACHE_TTL: %w", err)
	}
	if anubisCacheTTL < 0 {
		return Config{}, fmt.Errorf("ANUBIS_CACHE_TTL must be >= 0")
	}

	docstoreEnabled, err := strconv.ParseBool(getEnv("DOCSTORE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DOCSTORE_ENABLED: %w", err)
	}
	docstoreBaseURL := strings.TrimSpace(getEnv("DOCSTORE_BASE_URL", ""))
	if docstoreEnabled && docstoreBaseURL == "" {
		return Config{}, fmt.Errorf("DOCSTORE_BASE_URL is required when DOCSTORE_ENABLED=true")
	}
	docstoreTimeout, err := time.ParseDuration(getEnv("DOCSTORE_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DOCSTORE_TIMEOUT: %w", err)
	}
	if docstoreTimeout <= 0 {
		return Config{}, fmt.Errorf("DOCSTORE_TIMEOUT must be > 0")
	}
	docstoreMaxRetries, err := getEnvAsInt("DOCSTORE_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse DOCSTORE_MAX_RETRIES: %w", err)
	}
	if docstoreMaxRetries < 0 {
		return Config{}, fmt.Errorf("DOCSTORE_MAX_RETRIES must be >= 0")
	}
	docstoreRetryBackoff, err := time.ParseDuration(getEnv("DOCSTORE_RETRY_BACKOFF", "250ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DOCSTORE_RETRY_BACKOFF: %w", err)
	}
	docstore, err := loadBreaker("DOCSTORE")
	if err != nil {
		return Config{}, err
	}

	replicationBatchSize, err := getEnvAsInt("REPLICATION_BATCH_SIZE", 100)
	if err != nil {
		return Config{}, fmt.Errorf("parse REPLICATION_BATCH_SIZE: %w", err)
	}
	if replicationBatchSize < 1 {
		return Config{}, fmt.Errorf("REPLICATION_BATCH_SIZE must be >= 1")
	}
	replicationWorkers, err := getEnvAsInt("REPLICATION_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse REPLICATION_WORKERS: %w", err)
	}
	if replicationWorkers < 1 {
		return Config{}, fmt.Errorf("REPLICATION_WORKERS must be >= 1")
	}
	replicationInterval, err := time.ParseDuration(getEnv("REPLICATION_INTERVAL", "0s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REPLICATION_INTERVAL: %w", err)
	}
	if replicationInterval < 0 {
		return Config{}, fmt.Errorf("REPLICATION_INTERVAL must be >= 0")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:                      appEnv,
		ServiceName:                 getEnv("APP_SERVICE_NAME", "community-league-api"),
		ServiceVersion:              getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                    getEnv("APP_HTTP_ADDR", ":8080"),
		StoreDriver:                 storeDriver,
		DBURL:                       dbURL,
		DBBinaryParameters:          dbBinaryParameters,
		SeedOnStart:                 seedOnStart,
		SeasonStart:                 seasonStart,
		CacheEnabled:                cacheEnabled,
		CacheTTL:                    cacheTTL,
		CORSAllowedOrigins:          splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:                 readTimeout,
		WriteTimeout:                writeTimeout,
		ResultRequireReview:         requireReview,
		StandingsSkipUndecided:      skipUndecided,
		PprofEnabled:                pprofEnabled,
		PprofAddr:                   pprofAddr,
		AnubisBaseURL:               getEnv("ANUBIS_BASE_URL", "http://localhost:8081"),
		AnubisIntrospectURL:         getEnv("ANUBIS_INTROSPECT_PATH", "/v1/auth/introspect"),
		AnubisAdminKey:              getEnv("ANUBIS_ADMIN_KEY", ""),
		AnubisTimeout:               anubisTimeout,
		AnubisCacheTTL:              anubisCacheTTL,
		AnubisCircuitEnabled:        anubis.enabled,
		AnubisCircuitFailureCount:   anubis.failureCount,
		AnubisCircuitOpenTimeout:    anubis.openTimeout,
		AnubisCircuitHalfOpenMaxReq: anubis.halfOpenMaxReq,
		DocstoreEnabled:             docstoreEnabled,
		DocstoreBaseURL:             docstoreBaseURL,
		DocstoreToken:               strings.TrimSpace(getEnv("DOCSTORE_TOKEN", "")),
		DocstoreTimeout:             docstoreTimeout,
		DocstoreMaxRetries:          docstoreMaxRetries,
		DocstoreRetryBackoff:        docstoreRetryBackoff,
		DocstoreCircuitEnabled:      docstore.enabled,
		DocstoreCircuitFailureCount: docstore.failureCount,
		DocstoreCircuitOpenTimeout:  docstore.openTimeout,
		DocstoreCircuitHalfOpenMax:  docstore.halfOpenMaxReq,
		ReplicationBatchSize:        replicationBatchSize,
		ReplicationWorkers:          replicationWorkers,
		ReplicationInterval:         replicationInterval,
		UptraceEnabled:              uptraceEnabled,
		UptraceDSN:                  uptraceDSN,
		PyroscopeEnabled:            pyroscopeEnabled,
		PyroscopeServerAddress:      pyroscopeServerAddress,
		PyroscopeAuthToken:          strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:      strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:  strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:         pyroscopeUploadRate,
		InternalJobToken:            strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		LogLevel:                    parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

type breakerEnv struct {
	enabled        bool
	failureCount   int
	openTimeout    time.Duration
	halfOpenMaxReq int
}

// loadBreaker reads <PREFIX>_CIRCUIT_* settings.
func loadBreaker(prefix string) (breakerEnv, error) {
	var out breakerEnv
	var err error

	out.enabled, err = strconv.ParseBool(getEnv(prefix+"_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return breakerEnv{}, fmt.Errorf("parse %s_CIRCUIT_ENABLED: %w", prefix, err)
	}
	out.failureCount, err = getEnvAsInt(prefix+"_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return breakerEnv{}, fmt.Errorf("parse %s_CIRCUIT_FAILURE_COUNT: %w", prefix, err)
	}
	if out.failureCount < 1 {
		return breakerEnv{}, fmt.Errorf("%s_CIRCUIT_FAILURE_COUNT must be >= 1", prefix)
	}
	out.openTimeout, err = time.ParseDuration(getEnv(prefix+"_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return breakerEnv{}, fmt.Errorf("parse %s_CIRCUIT_OPEN_TIMEOUT: %w", prefix, err)
	}
	if out.openTimeout <= 0 {
		return breakerEnv{}, fmt.Errorf("%s_CIRCUIT_OPEN_TIMEOUT must be > 0", prefix)
	}
	out.halfOpenMaxReq, err = getEnvAsInt(prefix+"_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return breakerEnv{}, fmt.Errorf("parse %s_CIRCUIT_HALF_OPEN_MAX_REQ: %w", prefix, err)
	}
	if out.halfOpenMaxReq < 1 {
		return breakerEnv{}, fmt.Errorf("%s_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1", prefix)
	}
	return out, nil
}

func loadDotEnv(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

// parseSeasonStart accepts a YYYY-MM-DD date. Empty means the Saturday of the
// current week, which keeps the seeded fixtures near "now".
func parseSeasonStart(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		now := time.Now().UTC()
		offset := (int(time.Saturday) - int(now.Weekday()) + 7) % 7
		day := now.AddDate(0, 0, offset)
		return time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, time.UTC), nil
	}
	value, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse SEASON_START: %w", err)
	}
	return value.Add(9 * time.Hour), nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseStoreDriver(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case StoreMemory, StorePostgres:
		return value, nil
	default:
		return "", fmt.Errorf("invalid STORE_DRIVER %q: valid values are %s, %s", v, StoreMemory, StorePostgres)
	}
}

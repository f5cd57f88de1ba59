package cfg

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/film-indexer/pkg/e"
	"github.com/DRSN-tech/film-indexer/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverQdrant   = "qdrant"
)

type Config struct {
	Http      *HTTPConfig
	Grpc      *GRPCConfig
	Datastore *DatastoreCfg
	Catalog   *CatalogCfg
	Embedding *EmbeddingCfg
	Redis     *RedisCfg  // nil, если REDIS_ADDR не задан
	Kafka     *KafkaCfg  // nil, если KAFKA_BROKERS не задан
	Minio     *MinIOCfg  // nil, если MINIO_ENDPOINT не задан
	Qdrant    *QdrantCfg // заполняется только для DATASTORE_DRIVER=qdrant
	Db        *PGDBCfg   // заполняется только для DATASTORE_DRIVER=postgres
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type GRPCConfig struct {
	Port        string
	NetworkMode string
}

// DatastoreCfg описывает хранилище фильмов.
type DatastoreCfg struct {
	Driver     string // postgres | qdrant
	URL        string
	ServiceKey string
	Table      string // таблица PostgreSQL или коллекция Qdrant
}

type PGDBCfg struct {
	URL           string
	Password      string
	Table         string
	RunMigrations bool
}

type QdrantCfg struct {
	Host                 string
	Port                 int
	ApiKey               string
	QdrantCollectionName string
	UseTLS               bool
	VectorSize           uint64
}

type CatalogCfg struct {
	BaseURL string
	ApiKey  string
}

type EmbeddingCfg struct {
	BaseURL    string
	ApiKey     string
	Model      string
	Dimensions int // 0: размерность модели по умолчанию
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	DialTimeout time.Duration
	Timeout     time.Duration
	StatusTTL   time.Duration
}

type KafkaCfg struct {
	Topic   string
	Brokers []string
}

type MinIOCfg struct {
	MinioEndpoint     string
	BucketName        string
	MinioRootUser     string
	MinioRootPassword string
	MinioUseSSL       bool
}

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// ValidYear сообщает, является ли строка четырёхзначным годом.
func ValidYear(year string) bool {
	return yearPattern.MatchString(year)
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
// envFile, если он существует, подгружается до чтения окружения; уже заданные переменные не перезаписываются.
func Load(log logger.Logger, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !os.IsNotExist(err) {
				return nil, e.Wrap(whereami.WhereAmI(), err)
			}
			log.Debugf("env file %s not found, using process environment", envFile)
		}
	}

	datastore, err := loadDatastoreCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	catalog, err := loadCatalogCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	embedding, err := loadEmbeddingCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	config := &Config{
		Http:      http,
		Grpc:      loadGRPCConfig(),
		Datastore: datastore,
		Catalog:   catalog,
		Embedding: embedding,
		Redis:     redis,
		Kafka:     kafka,
		Minio:     minio,
	}

	switch datastore.Driver {
	case DriverPostgres:
		db, err := loadPGDBCfg(datastore)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		config.Db = db
	case DriverQdrant:
		qdrant, err := loadQdrantCfg(log, datastore)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		config.Qdrant = qdrant
	}

	return config, nil
}

func loadDatastoreCfg() (*DatastoreCfg, error) {
	const (
		defaultDriver = DriverPostgres
		defaultTable  = "films"
	)

	dsURL, err := requireEnv("DATASTORE_URL")
	if err != nil {
		return nil, err
	}

	key, err := requireEnv("DATASTORE_SERVICE_KEY")
	if err != nil {
		return nil, err
	}

	driver := strings.ToLower(getEnvOrDefault("DATASTORE_DRIVER", defaultDriver))
	if driver != DriverPostgres && driver != DriverQdrant {
		return nil, e.Wrap(driver, e.ErrUnknownDriver)
	}

	return &DatastoreCfg{
		Driver:     driver,
		URL:        dsURL,
		ServiceKey: key,
		Table:      getEnvOrDefault("FILMS_TABLE", defaultTable),
	}, nil
}

func loadPGDBCfg(ds *DatastoreCfg) (*PGDBCfg, error) {
	runMigrations, err := strconv.ParseBool(getEnvOrDefault("RUN_MIGRATIONS", "true"))
	if err != nil {
		return nil, e.Wrap("RUN_MIGRATIONS", e.ErrIncorrectEnvVariable)
	}

	return &PGDBCfg{
		URL:           ds.URL,
		Password:      ds.ServiceKey,
		Table:         ds.Table,
		RunMigrations: runMigrations,
	}, nil
}

// loadQdrantCfg разбирает DATASTORE_URL вида https://host:6334 или host:6334.
func loadQdrantCfg(log logger.Logger, ds *DatastoreCfg) (*QdrantCfg, error) {
	const (
		defaultQdrantGRPCPort = 6334
		defaultVectorSize     = "1536"
	)

	host, port, useTLS, err := parseHostPort(ds.URL, defaultQdrantGRPCPort)
	if err != nil {
		log.Errorf(err, "invalid DATASTORE_URL for qdrant")
		return nil, err
	}

	vectorSize, err := strconv.ParseUint(getEnvOrDefault("VECTOR_SIZE", defaultVectorSize), 10, 64)
	if err != nil || vectorSize == 0 {
		log.Errorf(err, "invalid VECTOR_SIZE")
		return nil, e.Wrap("VECTOR_SIZE", e.ErrIncorrectEnvVariable)
	}

	return &QdrantCfg{
		Host:                 host,
		Port:                 port,
		ApiKey:               ds.ServiceKey,
		QdrantCollectionName: ds.Table,
		UseTLS:               useTLS,
		VectorSize:           vectorSize,
	}, nil
}

func loadCatalogCfg() (*CatalogCfg, error) {
	const defaultBaseURL = "https://api.themoviedb.org/3"

	key, err := requireEnv("TMDB_API_KEY")
	if err != nil {
		return nil, err
	}

	return &CatalogCfg{
		BaseURL: strings.TrimRight(getEnvOrDefault("TMDB_BASE_URL", defaultBaseURL), "/"),
		ApiKey:  key,
	}, nil
}

func loadEmbeddingCfg() (*EmbeddingCfg, error) {
	const (
		defaultBaseURL = "https://api.openai.com/v1"
		defaultModel   = "text-embedding-3-small"
	)

	key, err := requireEnv("OPEN_AI_API_KEY")
	if err != nil {
		return nil, err
	}

	dimensions, err := parseIntEnv("EMBEDDING_DIMENSIONS", 0)
	if err != nil || dimensions < 0 {
		return nil, e.Wrap("EMBEDDING_DIMENSIONS", e.ErrIncorrectEnvVariable)
	}

	return &EmbeddingCfg{
		BaseURL:    getEnvOrDefault("OPENAI_BASE_URL", defaultBaseURL),
		ApiKey:     key,
		Model:      getEnvOrDefault("EMBEDDING_MODEL", defaultModel),
		Dimensions: dimensions,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 5 * time.Minute
		defaultIdleTimeout  = 60 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         port,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadGRPCConfig() *GRPCConfig {
	const (
		defaultPort        = "8091"
		defaultNetworkMode = "tcp"
	)

	return &GRPCConfig{
		Port:        getEnvOrDefault("GRPC_PORT", defaultPort),
		NetworkMode: getEnvOrDefault("GRPC_NETWORK_MODE", defaultNetworkMode),
	}
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultDB           = 0
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultStatusTTL    = 24 * time.Hour
	)

	addr := getEnv("REDIS_ADDR")
	if addr == "" {
		return nil, nil
	}

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	statusTTL, err := parseDurationEnv("INGESTION_STATUS_TTL", defaultStatusTTL)
	if err != nil {
		log.Errorf(err, "invalid INGESTION_STATUS_TTL")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        addr,
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
		StatusTTL:   statusTTL,
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const defaultTopic = "films.ingested"

	brokerStr := getEnv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, nil
	}

	brokers := make([]string, 0)
	for _, b := range strings.Split(brokerStr, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	if len(brokers) == 0 {
		return nil, e.Wrap("KAFKA_BROKERS", e.ErrIncorrectEnvVariable)
	}

	return &KafkaCfg{
		Brokers: brokers,
		Topic:   getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL = false
		defaultBucket = "film-catalog"
	)

	endpoint := getEnv("MINIO_ENDPOINT")
	if endpoint == "" {
		return nil, nil
	}

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	return &MinIOCfg{
		MinioEndpoint:     endpoint,
		BucketName:        getEnvOrDefault("BUCKET_NAME", defaultBucket),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
	}, nil
}

// parseHostPort принимает "scheme://host:port" или "host:port"; https включает TLS.
func parseHostPort(raw string, defaultPort int) (string, int, bool, error) {
	useTLS := false
	hostPort := raw

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", 0, false, err
		}
		useTLS = u.Scheme == "https"
		hostPort = u.Host
	}

	host, portStr, err := net.SplitHostPort(hostPort)
	if err != nil {
		// порт не указан
		return hostPort, defaultPort, useTLS, nil
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, false, fmt.Errorf("invalid port %q: %w", portStr, err)
	}

	return host, port, useTLS, nil
}

// requireEnv возвращает значение обязательной переменной окружения или ErrMissingConfig.
func requireEnv(key string) (string, error) {
	v := getEnv(key)
	if v == "" {
		return "", e.Wrap(fmt.Sprintf("environment variable %s is not set", key), e.ErrMissingConfig)
	}

	return v, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := getEnv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := getEnv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := getEnv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}

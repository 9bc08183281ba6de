package config

import "time"

// Library definition library_service YAML structure
type Library struct {
	Port     string `mapstructure:"port" validate:"required,numeric"`
	IP       string `mapstructure:"ip"`
	GRPCPort string `mapstructure:"grpc_port" validate:"required,numeric"`
	Pprof    bool   `mapstructure:"pprof"`

	PostgreSQL DatabaseConfig   `mapstructure:"pg" validate:"required"`
	MongoSQL   DatabaseConfig   `mapstructure:"mongo" validate:"required"`
	Redis      RedisConfig      `mapstructure:"redis"`
	MinIO      MinIOConfig      `mapstructure:"minio" validate:"required"`
	RabbitMQ   RabbitMQConfig   `mapstructure:"rabbitmq" validate:"required"`
	KafKa      KafkaConfig      `mapstructure:"kafka" validate:"required"`
	Resilience ResilienceConfig `mapstructure:"resilience"`
	Library    LibraryConfig    `mapstructure:"library"`
}

// ServiceConfig definition service port & name
type ServiceConfig struct {
	Port string `mapstructure:"service_port"`
	Name string `mapstructure:"service_name"`
}

// RedisConfig definition redis setting
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	RedisDB  int           `mapstructure:"redis_db" validate:"gte=0,lte=15"`
	CountTTL time.Duration `mapstructure:"count_ttl"`
	PrefsTTL time.Duration `mapstructure:"prefs_ttl"`
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host" validate:"required"`
	Port          int    `mapstructure:"port" validate:"required,gt=0"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database" validate:"required"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count" validate:"gte=1"`
}

// MinIOConfig definition minio setting
type MinIOConfig struct {
	Host          string        `mapstructure:"host" validate:"required"`
	Port          int           `mapstructure:"port" validate:"required,gt=0"`
	User          string        `mapstructure:"user"`
	Password      string        `mapstructure:"password"`
	BucketName    string        `mapstructure:"bucket_name" validate:"required"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	URLExpiry     time.Duration `mapstructure:"url_expiry"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	RetryCount    int           `mapstructure:"retry_count" validate:"gte=1"`
}

// RabbitMQConfig definition rabbitmq setting
type RabbitMQConfig struct {
	IP            string        `mapstructure:"ip" validate:"required"`
	Port          string        `mapstructure:"port" validate:"required"`
	User          string        `mapstructure:"user"`
	Password      string        `mapstructure:"password"`
	Queue         string        `mapstructure:"queue" validate:"required"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	RetryCount    int           `mapstructure:"retry_count" validate:"gte=1"`
}

// KafkaConfig definition kafka setting
type KafkaConfig struct {
	Brokers       []string      `mapstructure:"brokers" validate:"required,min=1"`
	Topic         string        `mapstructure:"topic" validate:"required"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	RetryCount    int           `mapstructure:"retry_count" validate:"gte=1"`
}

// ResilienceConfig definition catalog fetch breaker & cache setting.
// Zero values fall back to the library defaults (3 failures, 30s, 60s).
type ResilienceConfig struct {
	FailureThreshold int           `mapstructure:"failure_threshold" validate:"gte=0"`
	Cooldown         time.Duration `mapstructure:"cooldown"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
}

// LibraryConfig definition query behaviour
type LibraryConfig struct {
	SearchDebounce time.Duration `mapstructure:"search_debounce"`
	FetchTimeout   time.Duration `mapstructure:"fetch_timeout"`
}

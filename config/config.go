package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	minBcryptCost = 10
)

type (
	APP struct {
		Name       string
		Host       string
		Port       string
		Env        string
		JWTSecret  string
		TokenTTL   time.Duration
		BcryptCost int
	}
	Store struct {
		Driver string
	}
	Mongo struct {
		URI      string
		Database string
	}
	DB struct {
		User     string
		Password string
		Name     string
		Host     string
		Port     string
	}
	Redis struct {
		Addr             string
		Password         string
		DB               int
		LoginMaxAttempts int
		LoginWindow      time.Duration
	}
	Image struct {
		Region     string
		Bucket     string
		Endpoint   string
		PathPrefix string
		Folder     string
	}
	MQ struct {
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}

	Config struct {
		App   APP
		Store Store
		Mongo Mongo
		DB    DB
		Redis Redis
		Image Image
		MQ    MQ
	}
)

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func Load() Config {
	app := APP{
		Name:       getEnv("SERVICE_NAME", "accountmanager"),
		Host:       getEnv("SERVICE_HOST", ""),
		Port:       getEnv("SERVICE_PORT", "6060"),
		Env:        getEnv("SERVICE_ENV", ""),
		JWTSecret:  getEnv("SERVICE_JWT_SECRET", ""),
		TokenTTL:   getEnvDuration("SERVICE_TOKEN_TTL", 365*24*time.Hour),
		BcryptCost: max(getEnvInt("SERVICE_BCRYPT_COST", minBcryptCost), minBcryptCost),
	}
	store := Store{
		Driver: getEnv("STORE_DRIVER", StoreMongo),
	}
	mongo := Mongo{
		URI:      getEnv("MONGO_URI", ""),
		Database: getEnv("MONGO_DB", "accountmanager"),
	}
	db := DB{
		User:     getEnv("POSTGRES_USER", ""),
		Password: getEnv("POSTGRES_PASSWORD", ""),
		Name:     getEnv("POSTGRES_DB", ""),
		Host:     getEnv("POSTGRES_HOST", ""),
		Port:     getEnv("POSTGRES_PORT", ""),
	}
	redis := Redis{
		Addr:             getEnv("REDIS_ADDR", ""),
		Password:         getEnv("REDIS_PASSWORD", ""),
		DB:               getEnvInt("REDIS_DB", 0),
		LoginMaxAttempts: getEnvInt("LOGIN_MAX_ATTEMPTS", 5),
		LoginWindow:      getEnvDuration("LOGIN_WINDOW", 15*time.Minute),
	}
	image := Image{
		Region:     getEnv("S3_REGION", ""),
		Bucket:     getEnv("S3_BUCKET_UPLOADS", ""),
		Endpoint:   getEnv("S3_ENDPOINT", ""),
		PathPrefix: getEnv("IMAGE_PATH", ""),
		Folder:     getEnv("IMAGE_FOLDER", "admin-profile"),
	}
	mq := MQ{
		User:         getEnv("RABBITMQ_USER", ""),
		Password:     getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:        getEnv("RABBITMQ_VHOST", ""),
		Host:         getEnv("RABBITMQ_HOST", ""),
		AmqpPort:     getEnv("RABBITMQ_AMQP_PORT", ""),
		Exchange:     getEnv("RABBITMQ_EXCHANGE", "accounts"),
		ExchangeType: getEnv("RABBITMQ_EXCHANGE_TYPE", "topic"),
		QueueName:    getEnv("RABBITMQ_QUEUE_NAME", "accounts.audit"),
	}

	return Config{
		App:   app,
		Store: store,
		Mongo: mongo,
		DB:    db,
		Redis: redis,
		Image: image,
		MQ:    mq,
	}
}

func (c Config) Validate() error {
	if c.App.JWTSecret == "" {
		return fmt.Errorf("SERVICE_JWT_SECRET is required")
	}
	switch c.Store.Driver {
	case StoreMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required for the %s store", StoreMongo)
		}
	case StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	return nil
}

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
	), nil
}

// MQEnabled reports whether account events should be published.
func (c Config) MQEnabled() bool { return c.MQ.Host != "" }

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}

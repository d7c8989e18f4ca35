package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
		MaxUploadSize   int64  `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10 MiB
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
		AutoMigrate        bool   `env:"AUTO_MIGRATE" envDefault:"true"`
	} `envPrefix:"DATABASE_"`
	JWT struct {
		Secret string `env:"SECRET,required"`
	} `envPrefix:"JWT_"`
	Catalog struct {
		Path string `env:"PATH"` // 为空时使用内置的班次定义
	} `envPrefix:"CATALOG_"`
	Calendar struct {
		TimeZone string `env:"TIME_ZONE" envDefault:"Europe/Berlin"`
	} `envPrefix:"CALENDAR_"`
	Seed struct {
		Year       int `env:"YEAR" envDefault:"2024"`
		StaffCount int `env:"STAFF_COUNT" envDefault:"12"`
		WishCount  int `env:"WISH_COUNT" envDefault:"40"`
	} `envPrefix:"SEED_"`
	Email struct {
		NotifyAddress string `env:"NOTIFY_ADDRESS,required"`
		SMTP          struct {
			Username    string `env:"USERNAME,required"`
			Password    string `env:"PASSWORD,required"`
			Host        string `env:"HOST,required"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host           string `env:"HOST" envDefault:"localhost"`
		Port           int    `env:"PORT" envDefault:"6379"`
		Password       string `env:"PASSWORD,required"`
		ConnectTimeout int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		CacheTTL       int    `env:"CACHE_TTL" envDefault:"300"`
	} `envPrefix:"REDIS_"`
}

// ClientConfig 是命令行工具使用的配置
type ClientConfig struct {
	APIURL         string `env:"API_URL" envDefault:"http://localhost:3000"`
	GeneratorURL   string `env:"GENERATOR_URL"` // 为空时使用 APIURL
	Token          string `env:"TOKEN"`
	RequestTimeout int    `env:"REQUEST_TIMEOUT" envDefault:"30"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := parse(cfg, env.Options{}); err != nil {
		return nil, err
	}

	return cfg, nil
}

func LoadClientConfig() (*ClientConfig, error) {
	cfg := &ClientConfig{}
	if err := parse(cfg, env.Options{Prefix: "ROSTER_"}); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parse(v any, opts env.Options) error {
	if err := env.ParseWithOptions(v, opts); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return aggErr.Errors[0]
		}
		return err
	}
	return nil
}

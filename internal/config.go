package internal

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

type Config struct {
	HTTPServerPort              int           `env:"HTTP_SERVER_PORT,default=8080" validate:"min=1,max=65535"`
	SocketServerPort            int           `env:"SOCKET_SERVER_PORT,default=9000" validate:"min=1,max=65535"`
	SocketServerHost            string        `env:"SOCKET_SERVER_HOST"`
	RelayHost                   string        `env:"RELAY_HOST,default=localhost" validate:"required"`
	MongoDBHost                 string        `env:"MONGO_DB_HOST"`
	MongoServerSelectionTimeout time.Duration `env:"MONGO_SERVER_SELECTION_TIMEOUT,default=30s" validate:"min=0"`
	BadgerFilepath              string        `env:"BADGER_FILEPATH,default=./data/messages"`
	WebRoot                     string        `env:"WEB_ROOT,default=./front-init" validate:"required"`
	LogLevel                    string        `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR"`
	LogFile                     string        `env:"LOG_FILE,default=server.log" validate:"required"`
	MaxMessageSize              int           `env:"MAX_MESSAGE_SIZE,default=65536" validate:"min=1024"`
	MaxConnections              int           `env:"MAX_CONNECTIONS,default=0" validate:"min=0"`
	RestartInterval             time.Duration `env:"RESTART_INTERVAL,default=200ms" validate:"min=0"`
	MetricInterval              time.Duration `env:"METRIC_INTERVAL,default=0s" validate:"min=0"`
	DebugPort                   int           `env:"DEBUG_PORT,default=0" validate:"min=0,max=65535"`
}

// LoadConfig reads an optional .env file then the process environment, once.
// Variables already set in the environment win over the .env file.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, err
	}
	if err := validate.Struct(config); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if config.MongoDBHost == "" && config.BadgerFilepath == "" {
		return Config{}, fmt.Errorf("invalid configuration: MONGO_DB_HOST or BADGER_FILEPATH is required")
	}
	return config, nil
}

// HTTPAddress is where the front end listens, on every interface.
func (c Config) HTTPAddress() string {
	return net.JoinHostPort("", strconv.Itoa(c.HTTPServerPort))
}

// SocketAddress is where the relay listens.
func (c Config) SocketAddress() string {
	return net.JoinHostPort(c.SocketServerHost, strconv.Itoa(c.SocketServerPort))
}

// RelayAddress is the loopback address the front end dials.
func (c Config) RelayAddress() string {
	return net.JoinHostPort(c.RelayHost, strconv.Itoa(c.SocketServerPort))
}

// UseMongo tells whether the remote document store is configured.
func (c Config) UseMongo() bool {
	return c.MongoDBHost != ""
}

package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/configparser"
)

// Flags
var (
	modeFlag = flag.String("mode", "", "saga stage to run")
)

// Errors
var (
	ErrModeNotProvided = errors.New("mode flag not provided")
	ErrInvalidMode     = errors.New("invalid mode flag")
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Mode types.ServiceMode

		Database DatabaseConfig
		RabbitMQ RabbitMQConfig
		Stages   StagesConfig
		Secrets  SecretsConfig
		Gateway  GatewayConfig
		Relay    RelayConfig
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"rideflow_user"`
		Password string `env:"DATABASE_PASSWORD" default:"rideflow_pass"`
		Database string `env:"DATABASE_DATABASE" default:"rideflow_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`
	}

	RabbitMQConfig struct {
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	// StagesConfig holds the HTTP port each stage serves health,
	// metrics and, for ride intake, the rides API on.
	StagesConfig struct {
		RideIntake     string `env:"STAGES_RIDE_INTAKE" default:"3000"`
		Pricing        string `env:"STAGES_PRICING" default:"3001"`
		DriverMatching string `env:"STAGES_DRIVER_MATCHING" default:"3002"`
		Payment        string `env:"STAGES_PAYMENT" default:"3003"`
		PaymentRelay   string `env:"STAGES_PAYMENT_RELAY" default:"3004"`
		RideCompletion string `env:"STAGES_RIDE_COMPLETION" default:"3005"`
	}

	SecretsConfig struct {
		SurgeURL string        `env:"SECRETS_SURGE_URL" default:"http://localhost:4010/secrets/rush-hour"`
		Timeout  time.Duration `env:"SECRETS_TIMEOUT" default:"5s"`
	}

	GatewayConfig struct {
		ApprovalRate float64       `env:"GATEWAY_APPROVAL_RATE" default:"0.95"`
		SlowMethod   string        `env:"GATEWAY_SLOW_METHOD" default:"somecompany-pay"`
		SlowDelay    time.Duration `env:"GATEWAY_SLOW_DELAY" default:"5s"`
	}

	RelayConfig struct {
		BatchSize    int           `env:"RELAY_BATCH_SIZE" default:"25"`
		MaxAttempts  int           `env:"RELAY_MAX_ATTEMPTS" default:"5"`
		PollInterval time.Duration `env:"RELAY_POLL_INTERVAL" default:"2s"`
		ExtractDelay time.Duration `env:"RELAY_EXTRACT_DELAY" default:"500ms"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

// StagePort returns the HTTP port configured for a stage.
func (c StagesConfig) StagePort(mode types.ServiceMode) (string, error) {
	switch mode {
	case types.RideIntakeStage:
		return c.RideIntake, nil
	case types.PricingStage:
		return c.Pricing, nil
	case types.DriverMatchingStage:
		return c.DriverMatching, nil
	case types.PaymentStage:
		return c.Payment, nil
	case types.PaymentRelayStage:
		return c.PaymentRelay, nil
	case types.RideCompletionStage:
		return c.RideCompletion, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	// Parsing flags
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	return cfg, nil
}

func parseFlags(cfg *Config) error {
	if modeFlag == nil || *modeFlag == "" {
		return ErrModeNotProvided
	}

	mode := types.ServiceMode(*modeFlag)
	if !mode.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidMode, *modeFlag)
	}

	cfg.Mode = mode

	return nil
}

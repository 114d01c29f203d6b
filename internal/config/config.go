package config

import (
	"ctchen222/terminal-tic-tac-toe/internal/validator"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Board     Board     `yaml:"board"`
	Game      Game      `yaml:"game"`
	Search    Search    `yaml:"search"`
	Log       Log       `yaml:"log"`
	Telemetry Telemetry `yaml:"telemetry"`
	History   History   `yaml:"history"`
	Redis     Redis     `yaml:"redis"`
	HTTP      HTTP      `yaml:"http"`
}

type Board struct {
	// A full search of an empty 4x4 board does not finish in practical time.
	Size int `yaml:"size" env:"TTT_BOARD_SIZE" env-default:"3" validate:"min=3,max=3"`
}

type Game struct {
	ComputerDelay time.Duration `yaml:"computer-delay" env:"TTT_COMPUTER_DELAY" env-default:"500ms" validate:"min=0"`
	Difficulty    string        `yaml:"difficulty" env:"TTT_DIFFICULTY" env-default:"hard" validate:"oneof=easy medium hard"`
}

type Search struct {
	Prune bool `yaml:"prune" env:"TTT_SEARCH_PRUNE" env-default:"false"`
	Cache bool `yaml:"cache" env:"TTT_SEARCH_CACHE" env-default:"false"`
}

type Log struct {
	Level string `yaml:"level" env:"TTT_LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	File  string `yaml:"file" env:"TTT_LOG_FILE" env-default:"tictactoe.log"`
}

type Telemetry struct {
	// Empty disables export.
	Endpoint    string `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:""`
	ServiceName string `yaml:"service-name" env:"OTEL_SERVICE_NAME" env-default:"tic-tac-toe"`
}

type History struct {
	// Empty disables match history.
	Path string `yaml:"path" env:"TTT_HISTORY_PATH" env-default:"tictactoe.db"`
}

type Redis struct {
	// Empty disables the search cache and match events.
	Addr     string        `yaml:"addr" env:"REDIS_CONNSTRING" env-default:""`
	CacheTTL time.Duration `yaml:"cache-ttl" env:"TTT_CACHE_TTL" env-default:"24h"`
}

type HTTP struct {
	Addr string `yaml:"addr" env:"TTT_HTTP_ADDR" env-default:":8080"`
}

// Load reads the YAML file at path, applying env overrides and defaults. A
// missing file is not an error: env and defaults apply alone.
func Load(path string) (*Config, error) {
	config := &Config{}

	var err error
	if Exists(path) {
		err = cleanenv.ReadConfig(path, config)
	} else {
		err = cleanenv.ReadEnv(config)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := validator.GetValidator().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// MustLoad - load all configurations in the config file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}
	return config
}

// Exists reports whether a config file is present at path.
func Exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

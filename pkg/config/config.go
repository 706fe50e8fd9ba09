package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv            = "CABINET_APP_ENV"
	EnvLogLevel          = "CABINET_LOG_LEVEL"
	EnvLogFormat         = "CABINET_LOG_FORMAT"
	EnvHTTPAddr          = "CABINET_HTTP_ADDR"
	EnvDBPath            = "CABINET_DB_PATH"
	EnvPreviewMeshCells  = "CABINET_PREVIEW_MESH_CELLS"
	EnvScriptTimeout     = "CABINET_SCRIPT_TIMEOUT"
	EnvResetDoorOverride = "CABINET_RESET_DOOR_OVERRIDE"
	EnvMaxScriptCabinets = "CABINET_MAX_SCRIPT_CABINETS"
	EnvMaxScriptsRunning = "CABINET_MAX_SCRIPTS_RUNNING"
)

type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	DB      DBConfig
	Preview PreviewConfig
	Script  ScriptConfig
	Form    FormConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) validate() error {
	if c.Preview.MeshCells < 8 {
		return fmt.Errorf("%s must be at least 8, got %d", EnvPreviewMeshCells, c.Preview.MeshCells)
	}
	if c.Script.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvScriptTimeout)
	}
	if c.Script.MaxCabinets < 1 {
		return fmt.Errorf("%s must be at least 1", EnvMaxScriptCabinets)
	}
	if c.Script.MaxInFlight < 1 {
		return fmt.Errorf("%s must be at least 1", EnvMaxScriptsRunning)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"CABINET_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"CABINET_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"CABINET_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"CABINET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type HTTPConfig struct {
	Addr         string        `envconfig:"CABINET_HTTP_ADDR" default:":8080"`
	ReadTimeout  time.Duration `envconfig:"CABINET_HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"CABINET_HTTP_WRITE_TIMEOUT" default:"30s"`
}

// DBConfig points at the SQLite file holding history and preferences. An
// empty path keeps everything in memory for the life of the process.
type DBConfig struct {
	Path string `envconfig:"CABINET_DB_PATH"`
}

func (d DBConfig) Enabled() bool {
	return strings.TrimSpace(d.Path) != ""
}

type PreviewConfig struct {
	MeshCells int `envconfig:"CABINET_PREVIEW_MESH_CELLS" default:"64"`
}

type ScriptConfig struct {
	Timeout     time.Duration `envconfig:"CABINET_SCRIPT_TIMEOUT" default:"5s"`
	MaxCabinets int           `envconfig:"CABINET_MAX_SCRIPT_CABINETS" default:"200"`
	MaxInFlight int           `envconfig:"CABINET_MAX_SCRIPTS_RUNNING" default:"4"`
}

type FormConfig struct {
	ResetDoorOverride bool `envconfig:"CABINET_RESET_DOOR_OVERRIDE" default:"true"`
}

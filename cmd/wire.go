package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kvasek/betterschedule/internal/adapters/bakalari"
	renderschedule "github.com/kvasek/betterschedule/internal/adapters/render/schedule"
	tomlrepo "github.com/kvasek/betterschedule/internal/adapters/repo/toml"
	chainstore "github.com/kvasek/betterschedule/internal/adapters/secrets/chain"
	"github.com/kvasek/betterschedule/internal/application"
	"github.com/kvasek/betterschedule/internal/domain"
	"github.com/kvasek/betterschedule/internal/ports"
)

const (
	configDirName  = ".betterschedule"
	configFileName = "config"
	configFileType = "toml"
	envPrefix      = "BS"
)

type app struct {
	manager          *application.SessionManager
	schedule         *application.ScheduleService
	scheduleRenderer func([]domain.DayLessons, renderschedule.RenderOptions) (string, error)
	refreshThreshold time.Duration
	checkInterval    time.Duration
	clock            ports.Clock
	logger           *zap.Logger
}

func wireApp() (*app, error) {
	// A local .env can override config without touching the shell.
	_ = godotenv.Load()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg := viper.New()
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()
	cfg.SetConfigName(configFileName)
	cfg.SetConfigType(configFileType)
	cfg.AddConfigPath(filepath.Join(homeDir, configDirName))
	cfg.SetDefault("api.base_url", "https://znamky.ggg.cz")
	cfg.SetDefault("api.client_id", "ANDR")
	cfg.SetDefault("refresh.threshold", application.DefaultRefreshThreshold)
	cfg.SetDefault("refresh.interval", application.DefaultCheckInterval)
	cfg.SetDefault("secrets.dir", filepath.Join(homeDir, configDirName, "secrets"))
	cfg.SetDefault("log.level", "info")

	// The config file has to be loaded before the first key read, or
	// file-provided values would only apply to keys resolved later.
	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	logger, err := buildLogger(cfg.GetString("log.level"))
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	credentials, err := chainstore.NewPassFirstWithFileFallback(cfg.GetString("secrets.dir"))
	if err != nil {
		return nil, fmt.Errorf("wire credential store: %w", err)
	}

	sessions, err := tomlrepo.NewSessionRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire session repository: %w", err)
	}

	client := &bakalari.Client{
		API:         bakalari.DefaultAPI(cfg.GetString("api.base_url")),
		ClientID:    cfg.GetString("api.client_id"),
		HTTPClient:  http.DefaultClient,
		Credentials: credentials,
	}

	manager := application.NewSessionManager(client, credentials, sessions, bakalari.ClaimsDecoder{}, logger)

	return &app{
		manager:          manager,
		schedule:         application.NewScheduleService(client, logger),
		scheduleRenderer: renderschedule.Render,
		refreshThreshold: cfg.GetDuration("refresh.threshold"),
		checkInterval:    cfg.GetDuration("refresh.interval"),
		clock:            ports.SystemClock{},
		logger:           logger,
	}, nil
}

// buildLogger creates a structured zap.Logger at the configured level.
func buildLogger(levelName string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(levelName)); err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.Config{
		Level:    zap.NewAtomicLevelAt(level),
		Encoding: "json",
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "message",
			LevelKey:   "level",
			TimeKey:    "ts",
			EncodeLevel: func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
				enc.AppendString(l.String())
			},
			EncodeTime: zapcore.ISO8601TimeEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return zapCfg.Build()
}

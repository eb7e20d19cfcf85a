// Package config aggregates the process environment into the settings the
// function host, the worker and the CLI share. It is loaded once per process.
package config

import (
	"strings"

	"asciify/internal/ascii"
	"asciify/internal/pkg/errors"
	"asciify/internal/pkg/logger"
	"asciify/internal/storage"
	"asciify/internal/util"
)

const (
	DefaultPort            = "8080"
	DefaultNamePrefix      = "asciify-"
	DefaultQueue           = "asciify:blobs"
	DefaultSourceContainer = "images"
	DefaultLocalRoot       = "/data"
)

type Config struct {
	// Port is the custom handler port the function host forwards to.
	Port string

	ASCII      ascii.Options
	Storage    storage.Config
	NamePrefix string

	// DatabaseURL enables the invocation ledger when set.
	DatabaseURL string

	RedisAddr       string
	Queue           string
	SourceContainer string

	Log logger.Config
}

// Load reads every setting from the environment. Storage credentials are
// read but not validated; a missing ACCOUNT_KEY fails the invocation that
// needs it, not the process.
func Load() (Config, error) {
	opts, err := loadASCII()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:       util.Env("FUNCTIONS_CUSTOMHANDLER_PORT", DefaultPort),
		ASCII:      opts,
		NamePrefix: util.Env("BLOB_NAME_PREFIX", DefaultNamePrefix),
		Storage: storage.Config{
			Provider:  util.Env("STORAGE_PROVIDER", storage.ProviderAzure),
			Container: util.Env("STORAGE_CONTAINER", storage.DefaultContainer),
			Azure: storage.AzureConfig{
				AccountName:    util.Env("ACCOUNT_NAME", ""),
				AccountKey:     util.Env("ACCOUNT_KEY", ""),
				EndpointSuffix: util.Env("STORAGE_ENDPOINT_SUFFIX", ""),
				ServiceURL:     util.Env("STORAGE_SERVICE_URL", ""),
			},
			LocalRoot: util.Env("STORAGE_LOCAL_ROOT", DefaultLocalRoot),
		},
		DatabaseURL:     util.Env("DATABASE_URL", ""),
		RedisAddr:       util.Env("REDIS_ADDR", ""),
		Queue:           util.Env("ASCIIFY_QUEUE", DefaultQueue),
		SourceContainer: util.Env("SOURCE_CONTAINER", DefaultSourceContainer),
		Log:             logger.DefaultConfig(),
	}

	cfg.Storage.S3.Region = util.Env("S3_REGION", "us-east-1")
	cfg.Storage.S3.Endpoint = util.Env("S3_ENDPOINT", "")
	cfg.Storage.S3.PathStyle = util.BoolEnv("S3_PATH_STYLE", false)
	cfg.Storage.S3.AccessKeyID = util.Env("AWS_ACCESS_KEY_ID", "")
	cfg.Storage.S3.SecretAccessKey = util.Env("AWS_SECRET_ACCESS_KEY", "")

	cfg.Storage.GDrive.ClientID = util.Env("GDRIVE_CLIENT_ID", "")
	cfg.Storage.GDrive.ClientSecret = util.Env("GDRIVE_CLIENT_SECRET", "")
	cfg.Storage.GDrive.RefreshToken = util.Env("GDRIVE_REFRESH_TOKEN", "")
	cfg.Storage.GDrive.FolderID = util.Env("GDRIVE_FOLDER_ID", "")

	return cfg, nil
}

func loadASCII() (ascii.Options, error) {
	opts := ascii.DefaultOptions()

	fit, err := ascii.ParseFit(util.Env("ASCII_FIT", string(ascii.FitBox)))
	if err != nil {
		return ascii.Options{}, errors.WrapWithCode(err, errors.CodeValidation, "config.ascii", "invalid ASCII_FIT").
			WithField("setting", "ASCII_FIT")
	}
	opts.Fit = fit
	opts.Width = util.IntEnv("ASCII_WIDTH", ascii.DefaultWidth)
	opts.Height = util.IntEnv("ASCII_HEIGHT", ascii.DefaultHeight)
	opts.Color = util.BoolEnv("ASCII_COLOR", false)
	opts.Reversed = util.BoolEnv("ASCII_REVERSED", false)
	return opts, nil
}

// LedgerEnabled reports whether invocations are recorded in Postgres.
func (c Config) LedgerEnabled() bool { return strings.TrimSpace(c.DatabaseURL) != "" }

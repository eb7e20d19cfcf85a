package storage

import (
	"context"
	"strings"

	"asciify/internal/adapters/storage/azure"
	"asciify/internal/adapters/storage/gcs"
	"asciify/internal/adapters/storage/gdrive"
	"asciify/internal/adapters/storage/localfs"
	"asciify/internal/adapters/storage/memory"
	"asciify/internal/adapters/storage/s3"
	"asciify/internal/pkg/errors"
)

const (
	ProviderAzure   = "azblob"
	ProviderS3      = "s3"
	ProviderGCS     = "gcs"
	ProviderGDrive  = "gdrive"
	ProviderLocalFS = "localfs"
	ProviderMemory  = "memory"

	DefaultContainer = "emerge"
)

// Config selects and parameterises one blob backend. It is loaded once per
// process; clients built from it are not.
type Config struct {
	Provider  string
	Container string

	Azure     AzureConfig
	S3        s3.Config
	GDrive    gdrive.Config
	LocalRoot string

	// Memory backs ProviderMemory. A nil store gets a fresh one per call.
	Memory *memory.Store
}

// Validate checks the settings of the selected provider without building a
// client. The deep health check uses it.
func (c Config) Validate() error {
	switch c.provider() {
	case ProviderAzure:
		if strings.TrimSpace(c.Azure.AccountName) == "" {
			return errors.Configuration("ACCOUNT_NAME", "storage account name is required")
		}
		if strings.TrimSpace(c.Azure.AccountKey) == "" {
			return errors.Configuration("ACCOUNT_KEY", "storage account key is required")
		}
	case ProviderS3, ProviderGCS, ProviderMemory:
	case ProviderGDrive:
		if c.GDrive.RefreshToken == "" {
			return errors.Configuration("GDRIVE_REFRESH_TOKEN", "gdrive refresh token is required")
		}
	case ProviderLocalFS:
		if c.LocalRoot == "" {
			return errors.Configuration("STORAGE_LOCAL_ROOT", "local storage root is required")
		}
	default:
		return errors.Configuration("STORAGE_PROVIDER", "unknown storage provider: "+c.Provider)
	}
	return nil
}

func (c Config) provider() string {
	p := strings.ToLower(strings.TrimSpace(c.Provider))
	if p == "" {
		return ProviderAzure
	}
	return p
}

func (c Config) container() string {
	if c.Container == "" {
		return DefaultContainer
	}
	return c.Container
}

// NewProvider builds a fresh client for the configured container. Failures
// carry CodeConfiguration and happen before any upload.
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	return Open(ctx, cfg, cfg.container())
}

// Open builds a client for an arbitrary container of the configured backend,
// e.g. the worker's source container.
func Open(ctx context.Context, cfg Config, container string) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.provider() {
	case ProviderAzure:
		c, err := azure.New(cfg.Azure, container)
		if err != nil {
			return nil, err
		}
		return c, nil

	case ProviderS3:
		c, err := s3.New(ctx, cfg.S3, container)
		if err != nil {
			return nil, err
		}
		return c, nil

	case ProviderGCS:
		c, err := gcs.New(ctx, container)
		if err != nil {
			return nil, err
		}
		return c, nil

	case ProviderGDrive:
		// Drive has no containers; uploads land in GDRIVE_FOLDER_ID.
		c, err := gdrive.New(ctx, cfg.GDrive)
		if err != nil {
			return nil, err
		}
		return c, nil

	case ProviderLocalFS:
		return localfs.New(cfg.LocalRoot, container), nil

	default:
		store := cfg.Memory
		if store == nil {
			store = memory.New()
		}
		return store.Bucket(container), nil
	}
}

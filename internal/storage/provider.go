package storage

import (
	"asciify/internal/adapters/storage/azure"
	"asciify/internal/ports"
)

// Provider is the storage contract used by the function handlers, the worker
// and the CLI. It is an alias to ports.StorageProvider to keep call-sites simple.
type Provider = ports.StorageProvider

// AzureConfig is the shared-key credential of the primary sink.
type AzureConfig = azure.Config

package azure

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/streaming"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/service"

	"asciify/internal/pkg/errors"
	"asciify/internal/ports"
)

const DefaultEndpointSuffix = "core.windows.net"

// Config carries the shared-key credential of one storage account.
type Config struct {
	AccountName string
	AccountKey  string
	// EndpointSuffix defaults to core.windows.net.
	EndpointSuffix string
	// ServiceURL overrides the derived https://{account}.blob.{suffix}/ (Azurite, sovereign clouds).
	ServiceURL string
}

// URL returns the blob service endpoint for the account.
func (c Config) URL() string {
	if u := strings.TrimSpace(c.ServiceURL); u != "" {
		return strings.TrimSuffix(u, "/") + "/"
	}
	suffix := c.EndpointSuffix
	if suffix == "" {
		suffix = DefaultEndpointSuffix
	}
	return fmt.Sprintf("https://%s.blob.%s/", c.AccountName, suffix)
}

// Client implements ports.StorageProvider for one Azure Blob container.
type Client struct {
	container *container.Client
	name      string
}

// New validates the credential and resolves a container handle. It performs
// no network calls; a missing or malformed key fails here with
// CodeConfiguration.
func New(cfg Config, containerName string) (*Client, error) {
	if strings.TrimSpace(cfg.AccountName) == "" {
		return nil, errors.Configuration("ACCOUNT_NAME", "storage account name is required")
	}
	if strings.TrimSpace(cfg.AccountKey) == "" {
		return nil, errors.Configuration("ACCOUNT_KEY", "storage account key is required")
	}
	if strings.TrimSpace(containerName) == "" {
		return nil, errors.Configuration("STORAGE_CONTAINER", "container name is required")
	}

	cred, err := azblob.NewSharedKeyCredential(cfg.AccountName, cfg.AccountKey)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeConfiguration, "azure.credential", "invalid shared key credential")
	}

	svc, err := service.NewClientWithSharedKeyCredential(cfg.URL(), cred, nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeConfiguration, "azure.client", "cannot build blob service client")
	}

	return &Client{container: svc.NewContainerClient(containerName), name: containerName}, nil
}

func (c *Client) Provider() string  { return "azblob" }
func (c *Client) Container() string { return c.name }

func (c *Client) PutObject(ctx context.Context, in ports.PutObjectInput) (ports.PutObjectOutput, error) {
	data, err := ports.ReadBody(in)
	if err != nil {
		return ports.PutObjectOutput{}, err
	}

	opts := &blockblob.UploadOptions{}
	if in.ContentType != "" {
		opts.HTTPHeaders = &blob.HTTPHeaders{BlobContentType: to.Ptr(in.ContentType)}
	}

	resp, err := c.container.NewBlockBlobClient(in.ObjectKey).
		Upload(ctx, streaming.NopCloser(bytes.NewReader(data)), opts)
	if err != nil {
		return ports.PutObjectOutput{}, fmt.Errorf("azblob upload failed: %w", err)
	}

	out := ports.PutObjectOutput{ObjectKey: in.ObjectKey, Size: int64(len(data))}
	if resp.ETag != nil {
		out.ETag = strings.Trim(string(*resp.ETag), "\"")
	}
	if resp.RequestID != nil {
		out.RequestID = *resp.RequestID
	}
	return out, nil
}

func (c *Client) GetObject(ctx context.Context, objectKey string) (rc io.ReadCloser, contentType string, size int64, err error) {
	resp, err := c.container.NewBlobClient(objectKey).DownloadStream(ctx, nil)
	if err != nil {
		return nil, "", 0, err
	}
	if resp.ContentType != nil {
		contentType = *resp.ContentType
	}
	if resp.ContentLength != nil {
		size = *resp.ContentLength
	}
	return resp.Body, contentType, size, nil
}

func (c *Client) DeleteObject(ctx context.Context, objectKey string) error {
	_, err := c.container.NewBlobClient(objectKey).Delete(ctx, nil)
	return err
}

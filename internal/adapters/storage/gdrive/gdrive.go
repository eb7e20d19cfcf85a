package gdrive

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"asciify/internal/pkg/errors"
	"asciify/internal/ports"
)

// Config holds the OAuth client and the refresh token minted by cmd/gdrive-auth.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	FolderID     string
}

// Client implements ports.StorageProvider backed by Google Drive.
// Uploads use the object key as the file name; the returned ObjectKey is the
// Drive fileId, which Get/Delete expect.
type Client struct {
	srv      *drive.Service
	folderID string
}

// OAuthConfig returns the Drive file-scoped OAuth configuration.
func OAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{drive.DriveFileScope},
		RedirectURL:  redirectURL,
	}
}

// New builds a Drive service from a refresh token. No request is sent until
// the first upload.
func New(ctx context.Context, cfg Config) (*Client, error) {
	switch {
	case cfg.ClientID == "":
		return nil, errors.Configuration("GDRIVE_CLIENT_ID", "gdrive client id is required")
	case cfg.ClientSecret == "":
		return nil, errors.Configuration("GDRIVE_CLIENT_SECRET", "gdrive client secret is required")
	case cfg.RefreshToken == "":
		return nil, errors.Configuration("GDRIVE_REFRESH_TOKEN", "gdrive refresh token is required")
	}

	httpClient := OAuthConfig(cfg.ClientID, cfg.ClientSecret, "").
		Client(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	srv, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeConfiguration, "gdrive.client", "cannot build drive service")
	}
	return NewClient(srv, cfg.FolderID), nil
}

func NewClient(srv *drive.Service, folderID string) *Client {
	return &Client{srv: srv, folderID: folderID}
}

func (c *Client) Provider() string  { return "gdrive" }
func (c *Client) Container() string { return c.folderID }

func (c *Client) PutObject(ctx context.Context, in ports.PutObjectInput) (ports.PutObjectOutput, error) {
	data, err := ports.ReadBody(in)
	if err != nil {
		return ports.PutObjectOutput{}, err
	}

	file := &drive.File{Name: in.ObjectKey}
	if c.folderID != "" {
		file.Parents = []string{c.folderID}
	}

	call := c.srv.Files.Create(file)
	if in.ContentType != "" {
		call = call.Media(bytes.NewReader(data), googleapi.ContentType(in.ContentType))
	} else {
		call = call.Media(bytes.NewReader(data))
	}

	created, err := call.Context(ctx).Do()
	if err != nil {
		return ports.PutObjectOutput{}, fmt.Errorf("gdrive upload failed: %w", err)
	}

	return ports.PutObjectOutput{ObjectKey: created.Id, Size: int64(len(data))}, nil
}

func (c *Client) GetObject(ctx context.Context, objectKey string) (rc io.ReadCloser, contentType string, size int64, err error) {
	resp, err := c.srv.Files.Get(objectKey).
		SupportsAllDrives(true).
		Context(ctx).
		Download()
	if err != nil {
		return nil, "", 0, err
	}

	return resp.Body, resp.Header.Get("Content-Type"), resp.ContentLength, nil
}

func (c *Client) DeleteObject(ctx context.Context, objectKey string) error {
	return c.srv.Files.Delete(objectKey).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
}

package gdrive

import (
	"context"
	"testing"

	"asciify/internal/pkg/errors"
)

func TestNewRequiresOAuthSettings(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		setting string
	}{
		{"no client id", Config{ClientSecret: "s", RefreshToken: "r"}, "GDRIVE_CLIENT_ID"},
		{"no secret", Config{ClientID: "c", RefreshToken: "r"}, "GDRIVE_CLIENT_SECRET"},
		{"no token", Config{ClientID: "c", ClientSecret: "s"}, "GDRIVE_REFRESH_TOKEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(context.Background(), tt.cfg)
			if !errors.IsConfiguration(err) {
				t.Fatalf("expected configuration error, got %v", err)
			}
			if errors.GetFields(err)["setting"] != tt.setting {
				t.Errorf("expected setting %s, got %v", tt.setting, errors.GetFields(err))
			}
		})
	}
}

func TestNewBuildsClientWithoutNetwork(t *testing.T) {
	c, err := New(context.Background(), Config{ClientID: "c", ClientSecret: "s", RefreshToken: "r", FolderID: "folder"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Provider() != "gdrive" || c.Container() != "folder" {
		t.Errorf("unexpected identity %s/%s", c.Provider(), c.Container())
	}
}

func TestOAuthConfigScope(t *testing.T) {
	conf := OAuthConfig("id", "secret", "http://127.0.0.1/callback")
	if len(conf.Scopes) != 1 || conf.Scopes[0] != "https://www.googleapis.com/auth/drive.file" {
		t.Errorf("unexpected scopes %v", conf.Scopes)
	}
}

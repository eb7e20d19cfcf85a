package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"asciify/internal/adapters/storage/gdrive"
	"asciify/internal/util"
)

// newGDriveAuthCmd mints the refresh token STORAGE_PROVIDER=gdrive needs.
func newGDriveAuthCmd() *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "gdrive-auth",
		Short: "Obtain a Google Drive refresh token through a local OAuth callback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientID := util.Env("GDRIVE_CLIENT_ID", "")
			clientSecret := util.Env("GDRIVE_CLIENT_SECRET", "")
			if clientID == "" || clientSecret == "" {
				return errors.New("GDRIVE_CLIENT_ID and GDRIVE_CLIENT_SECRET are required")
			}
			return gdriveAuth(cmd, clientID, clientSecret, wait)
		},
	}
	cmd.Flags().DurationVar(&wait, "wait", 3*time.Minute, "how long to wait for the browser callback")
	return cmd
}

func gdriveAuth(cmd *cobra.Command, clientID, clientSecret string, wait time.Duration) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	defer ln.Close()

	redirectURL := fmt.Sprintf("http://127.0.0.1:%d/callback", ln.Addr().(*net.TCPAddr).Port)
	conf := gdrive.OAuthConfig(clientID, clientSecret, redirectURL)
	state := randomState()

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", callbackHandler(state, codeCh, errCh))

	srv := &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() { _ = srv.Serve(ln) }()
	defer srv.Close()

	// offline + consent so Google returns a refresh token
	authURL := conf.AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)

	fmt.Fprintf(out, "Open this URL in your browser:\n\n%s\n\nWaiting for authorization on %s\n", authURL, redirectURL)

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return err
	case <-time.After(wait):
		return errors.New("timed out waiting for authorization")
	}

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return err
	}

	if strings.TrimSpace(tok.RefreshToken) == "" {
		return errors.New("no refresh_token returned; revoke the app at https://myaccount.google.com/permissions and retry")
	}

	fmt.Fprintf(out, "\nGDRIVE_REFRESH_TOKEN=%s\n", tok.RefreshToken)
	return nil
}

func callbackHandler(state string, codeCh chan<- string, errCh chan<- error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		fail := func(msg string) {
			http.Error(w, msg, http.StatusBadRequest)
			select {
			case errCh <- errors.New(msg):
			default:
			}
		}

		if q.Get("state") != state {
			fail("invalid state")
			return
		}
		if e := q.Get("error"); e != "" {
			fail("auth error: " + e)
			return
		}
		code := q.Get("code")
		if code == "" {
			fail("missing code")
			return
		}

		fmt.Fprintln(w, "OK. You can close this window and return to the terminal.")
		select {
		case codeCh <- code:
		default:
		}
	}
}

func randomState() string {
	b := make([]byte, 18)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

package msgraph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/donburnsideAZ/project-tracker/internal/config"
)

var requiredScopes = []string{
	"https://graph.microsoft.com/Calendars.Read",
	"offline_access",
}

func msEndpoint(tenantID, path string) string {
	return "https://login.microsoftonline.com/" + tenantID + "/oauth2/v2.0/" + path
}

// TokenFilePath returns ~/.projecttracker/auth/msgraph_tokens.json.
func TokenFilePath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "auth", "msgraph_tokens.json"), nil
}

// oauth2Config returns the oauth2.Config for Microsoft Graph using the
// provided tenant and client IDs.
func oauth2Config(tenantID, clientID string) *oauth2.Config {
	return &oauth2.Config{
		ClientID: clientID,
		Scopes:   requiredScopes,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: msEndpoint(tenantID, "devicecode"),
			TokenURL:      msEndpoint(tenantID, "token"),
			AuthStyle:     oauth2.AuthStyleInParams,
		},
	}
}

// Auth obtains Graph tokens with the device code flow and caches them on disk.
type Auth struct {
	TenantID  string
	ClientID  string
	TokenPath string
	// Prompt receives the sign-in instructions. Nil means stdout.
	Prompt io.Writer
	Log    *zap.Logger
}

// NewAuth returns an Auth for the given Outlook settings, caching tokens at
// the default token path.
func NewAuth(cfg config.OutlookConfig, log *zap.Logger) (*Auth, error) {
	path, err := TokenFilePath()
	if err != nil {
		return nil, err
	}
	return &Auth{TenantID: cfg.TenantID, ClientID: cfg.ClientID, TokenPath: path, Log: log}, nil
}

func (a *Auth) logger() *zap.Logger {
	if a.Log == nil {
		return zap.NewNop()
	}
	return a.Log
}

// loadToken loads a previously saved token. A missing file yields nil, nil.
func (a *Auth) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(a.TokenPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token file (delete %s to re-authenticate): %w", a.TokenPath, err)
	}
	return &tok, nil
}

// saveToken persists tok next to the config.
func (a *Auth) saveToken(tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(a.TokenPath), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	tmpPath := a.TokenPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := os.Rename(tmpPath, a.TokenPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving token file: %w", err)
	}
	return nil
}

// Token returns a usable Graph token. It reuses the cached token, refreshes
// it when expired, or runs the device code flow when neither works.
func (a *Auth) Token(ctx context.Context) (*oauth2.Token, *oauth2.Config, error) {
	cfg := oauth2Config(a.TenantID, a.ClientID)
	log := a.logger()

	tok, err := a.loadToken()
	if err != nil {
		log.Warn("ignoring cached token", zap.Error(err))
		tok = nil
	}

	if tok != nil && tok.Valid() {
		return tok, cfg, nil
	}

	if tok != nil && tok.RefreshToken != "" {
		refreshed, err := cfg.TokenSource(ctx, tok).Token()
		if err == nil {
			if err := a.saveToken(refreshed); err != nil {
				log.Warn("could not save refreshed token", zap.Error(err))
			}
			return refreshed, cfg, nil
		}
		log.Info("token refresh failed, re-authenticating", zap.Error(err))
	}

	resp, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("device auth request failed: %w", err)
	}

	out := a.Prompt
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "To sign in, use a web browser to open the page:")
	fmt.Fprintf(out, "  %s\n", resp.VerificationURI)
	fmt.Fprintf(out, "Enter the code: %s\n", resp.UserCode)
	fmt.Fprintln(out)

	newTok, err := cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, nil, fmt.Errorf("device authentication failed: %w", err)
	}
	if err := a.saveToken(newTok); err != nil {
		log.Warn("could not save token", zap.Error(err))
	}
	return newTok, cfg, nil
}

// Client authenticates and returns a Graph client whose refreshed tokens
// are written back to the cache.
func (a *Auth) Client(ctx context.Context) (*Client, error) {
	tok, cfg, err := a.Token(ctx)
	if err != nil {
		return nil, err
	}
	return NewClient(ctx, cfg.TokenSource(ctx, tok), a), nil
}

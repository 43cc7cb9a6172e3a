package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

const (
	// ClientSecretsFile is the Google API credentials.json downloaded from the
	// cloud console, read from the config directory.
	ClientSecretsFile = "credentials.json"

	// TokenFile caches the user's access and refresh token in the config directory.
	TokenFile = "token.json"

	// LocalhostAuthPort is where the local redirect listener runs during login.
	LocalhostAuthPort = "6789"

	xdgAppName = "harvestboard"
)

// SheetsScopes allow reading and editing the task sheet.
var SheetsScopes = []string{sheets.SpreadsheetsScope}

// GetConfig creates an oauth2.Config from the client secrets file.
func GetConfig(scopes []string) (*oauth2.Config, error) {
	xdgConfigBase, err := GetXdgHome()
	if err != nil {
		return nil, err
	}

	clientSecretsFile := filepath.Join(xdgConfigBase, ClientSecretsFile)
	b, err := os.ReadFile(clientSecretsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", clientSecretsFile, err)
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	config.RedirectURL = redirectURL(config.RedirectURL)
	return config, nil
}

// redirectURL pins localhost and out-of-band redirects to the local listener.
func redirectURL(configured string) string {
	local := fmt.Sprintf("http://localhost:%s/oauth2callback", LocalhostAuthPort)
	if configured == "" || configured == "urn:ietf:wg:oauth:2.0:oob" {
		return local
	}

	parsedURL, err := url.Parse(configured)
	if err != nil {
		log.Printf("Warning: could not parse RedirectURL '%s': %v. Using it as is.", configured, err)
		return configured
	}
	if parsedURL.Hostname() != "localhost" && parsedURL.Hostname() != "127.0.0.1" {
		log.Printf("Warning: RedirectURL in credentials.json is not a localhost callback: %s", configured)
		return configured
	}
	if parsedURL.Port() != LocalhostAuthPort {
		parsedURL.Host = net.JoinHostPort(parsedURL.Hostname(), LocalhostAuthPort)
	}
	return parsedURL.String()
}

// GetClient returns an authenticated *http.Client. It reuses the cached token
// when present and otherwise runs the browser authorization flow. The client
// refreshes expired access tokens on its own.
func GetClient(ctx context.Context, scopes []string) (*http.Client, error) {
	config, err := GetConfig(scopes)
	if err != nil {
		return nil, err
	}

	tokenFile, err := TokenPath()
	if err != nil {
		return nil, err
	}

	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		log.Printf("No existing token found at %s. Initiating web authorization flow...", tokenFile)
		tok, err = getTokenFromWeb(ctx, config)
		if err != nil {
			return nil, fmt.Errorf("failed to get token from web: %w", err)
		}
		if err := saveToken(tokenFile, tok); err != nil {
			log.Printf("Warning: could not cache token: %v", err)
		}
	}

	src := config.TokenSource(ctx, tok)
	current, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("unable to refresh token: %w", err)
	}
	if current.AccessToken != tok.AccessToken || current.RefreshToken != tok.RefreshToken {
		if err := saveToken(tokenFile, current); err != nil {
			log.Printf("Warning: could not save refreshed token: %v", err)
		}
	}

	return oauth2.NewClient(ctx, src), nil
}

// Reset removes the cached token so the next GetClient asks the user again.
func Reset() error {
	tokenFile, err := TokenPath()
	if err != nil {
		return err
	}
	if err := os.Remove(tokenFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete token file '%s': %w", tokenFile, err)
	}
	return nil
}

// getTokenFromWeb runs the authorization code flow through a local listener.
func getTokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", LocalhostAuthPort))
	if err != nil {
		return nil, fmt.Errorf("failed to start listener on port %s: %w", LocalhostAuthPort, err)
	}
	defer listener.Close()

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "Authorization code not found", http.StatusBadRequest)
				select {
				case errCh <- fmt.Errorf("authorization code not found in redirect URL"):
				default:
				}
				return
			}
			fmt.Fprintf(w, "Authentication successful! You can close this window.")
			select {
			case codeCh <- code:
			default:
			}
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}
	defer server.Shutdown(context.Background())

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			select {
			case errCh <- fmt.Errorf("HTTP server error: %w", err):
			default:
			}
		}
	}()

	// AccessTypeOffline is needed for a refresh token.
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Printf("Please open the following URL in your browser to authorize harvestboard:\n%s\n", authURL)
	log.Println("Waiting for authorization code...")

	select {
	case authCode := <-codeCh:
		exchangeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		tok, err := config.Exchange(exchangeCtx, authCode)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve token from Google: %w", err)
		}
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Minute):
		return nil, fmt.Errorf("authorization timed out. Please try again")
	}
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token from file %s: %w", file, err)
	}
	return tok, nil
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("could not create token directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache OAuth token to %s: %w", path, err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// TokenPath is the cached token location.
func TokenPath() (string, error) {
	xdgConfigBase, err := GetXdgHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgConfigBase, TokenFile), nil
}

func GetXdgHome() (string, error) {
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgHome, ".config", xdgAppName), nil
}

package auth

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRedirectURL(t *testing.T) {
	cases := map[string]string{
		"":                                "http://localhost:6789/oauth2callback",
		"urn:ietf:wg:oauth:2.0:oob":       "http://localhost:6789/oauth2callback",
		"http://localhost":                "http://localhost:6789",
		"http://localhost:8080/cb":        "http://localhost:6789/cb",
		"http://127.0.0.1:6789/cb":        "http://127.0.0.1:6789/cb",
		"https://farm.example.com/oauth2": "https://farm.example.com/oauth2",
	}
	for in, want := range cases {
		if got := redirectURL(in); got != want {
			t.Errorf("redirectURL(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestResetRemovesToken(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := TokenPath()
	if err != nil {
		t.Fatalf("TokenPath failed: %v", err)
	}
	if path != filepath.Join(home, ".config", "harvestboard", "token.json") {
		t.Errorf("Unexpected token path %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected token file removed, stat err=%v", err)
	}
	if err := Reset(); err != nil {
		t.Errorf("Expected Reset on missing token to succeed, got %v", err)
	}
}

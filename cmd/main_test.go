package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ochronus/gozipline/internal/services/zipline"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"success", nil, exitOK},
		{"unauthenticated", zipline.NewAPIError(401, "no"), exitAuthFail},
		{"forbidden wrapped", fmt.Errorf("upload a.txt: %w", zipline.NewAPIError(403, "no")), exitAuthFail},
		{"not found", zipline.NewAPIError(404, "missing"), exitFailure},
		{"server error", zipline.NewAPIError(500, "boom"), exitFailure},
		{"plain error", errors.New("boom"), exitFailure},
		{"explicit code", &exitError{code: 3, err: errors.New("x")}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.expected {
				t.Errorf("exitCode() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	msg := errorMessage(zipline.NewAPIError(401, "bad token"))
	if !strings.Contains(msg, "authentication failed") {
		t.Errorf("expected an authentication hint, got %q", msg)
	}
	if got := errorMessage(errors.New("plain")); got != "plain" {
		t.Errorf("expected the error text, got %q", got)
	}
}

// runCLI runs the command line with a config path that does not exist
func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("ZIPLINE_SERVER", "")
	t.Setenv("ZIPLINE_TOKEN", "")
	t.Setenv("ZIPLINE_LOGLEVEL", "")

	var out, errOut bytes.Buffer
	args = append([]string{"--config", filepath.Join(t.TempDir(), "missing.toml")}, args...)
	code := run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func newUploadServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/upload" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "secret" {
			t.Errorf("expected token in Authorization header, got %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			fmt.Fprint(w, `{"error":"nope"}`)
			return
		}
		fmt.Fprint(w, `{"files":[{"id":"1","type":"text/plain","url":"https://z.example.com/u/a.txt","name":"a.txt"}]}`)
	}))
	t.Cleanup(server.Close)
	return server
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	return path
}

func TestUploadCommand(t *testing.T) {
	server := newUploadServer(t, http.StatusOK)
	path := writeTempFile(t, "a.txt", "hello")

	code, out, errOut := runCLI(t, "", "upload", "-s", server.URL, "-t", "secret", path)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut)
	}
	if strings.TrimSpace(out) != "https://z.example.com/u/a.txt" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestUploadCommandAuthFailure(t *testing.T) {
	server := newUploadServer(t, http.StatusUnauthorized)
	path := writeTempFile(t, "a.txt", "hello")

	code, _, errOut := runCLI(t, "", "upload", "--server", server.URL, "--token", "secret", path)
	if code != exitAuthFail {
		t.Errorf("expected exit %d, got %d", exitAuthFail, code)
	}
	if !strings.Contains(errOut, "authentication failed") {
		t.Errorf("expected authentication message, got %q", errOut)
	}
}

func TestUploadCommandServerError(t *testing.T) {
	server := newUploadServer(t, http.StatusInternalServerError)
	path := writeTempFile(t, "a.txt", "hello")

	if code, _, _ := runCLI(t, "", "upload", "-s", server.URL, "-t", "secret", path); code != exitFailure {
		t.Errorf("expected exit %d, got %d", exitFailure, code)
	}
}

func TestUploadCommandPromptsForCredentials(t *testing.T) {
	server := newUploadServer(t, http.StatusOK)
	path := writeTempFile(t, "a.txt", "hello")

	code, out, errOut := runCLI(t, server.URL+"\nsecret\n", "upload", path)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut)
	}
	if !strings.Contains(errOut, "Zipline server") || !strings.Contains(errOut, "Zipline token") {
		t.Errorf("expected prompts on stderr, got %q", errOut)
	}
	if strings.TrimSpace(out) != "https://z.example.com/u/a.txt" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestUploadCommandUsesEnvironment(t *testing.T) {
	server := newUploadServer(t, http.StatusOK)
	path := writeTempFile(t, "a.txt", "hello")

	var out, errOut bytes.Buffer
	t.Setenv("ZIPLINE_SERVER", server.URL)
	t.Setenv("ZIPLINE_TOKEN", "secret")
	code := run([]string{"--config", filepath.Join(t.TempDir(), "none.toml"), "upload", path}, strings.NewReader(""), &out, &errOut)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut.String())
	}
}

func TestUploadCommandMissingCredentials(t *testing.T) {
	path := writeTempFile(t, "a.txt", "hello")

	if code, _, _ := runCLI(t, "", "upload", path); code != exitFailure {
		t.Errorf("expected exit %d without credentials, got %d", exitFailure, code)
	}
}

func TestUploadCommandInvalidFormat(t *testing.T) {
	server := newUploadServer(t, http.StatusOK)
	path := writeTempFile(t, "a.txt", "hello")

	if code, _, _ := runCLI(t, "", "upload", "-s", server.URL, "-t", "secret", "--format", "words", path); code != exitFailure {
		t.Errorf("expected exit %d for an unknown format, got %d", exitFailure, code)
	}
}

func TestShortenCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/user/urls" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Zipline-No-Json") != "true" {
			t.Errorf("expected no-json header")
		}
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, "https://z.example.com/go/abc")
	}))
	defer server.Close()

	code, out, errOut := runCLI(t, "", "shorten", "-s", server.URL, "-t", "secret", "--no-json", "https://example.com/long")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut)
	}
	if strings.TrimSpace(out) != "https://z.example.com/go/abc" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestVersionCommandOffline(t *testing.T) {
	code, out, _ := runCLI(t, "", "version")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "gozipline version "+zipline.Version) {
		t.Errorf("unexpected output %q", out)
	}
}

func TestVersionCommandChecksServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"version":"3.7.9"}`)
	}))
	defer server.Close()

	code, out, errOut := runCLI(t, "", "version", "-s", server.URL, "-t", "secret")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "version 3.7.9") {
		t.Errorf("expected server version in output, got %q", out)
	}
	if !strings.Contains(errOut, "not supported") {
		t.Errorf("expected compatibility warning, got %q", errOut)
	}
}

func TestGenerateConfigCommand(t *testing.T) {
	t.Setenv("ZIPLINE_SERVER", "")
	t.Setenv("ZIPLINE_TOKEN", "")
	configPath := filepath.Join(t.TempDir(), "gozipline", "config.toml")

	var out, errOut bytes.Buffer
	code := run([]string{"--config", configPath, "generate-config", "-s", "https://z.example.com"},
		strings.NewReader("secret\n"), &out, &errOut)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut.String())
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("expected config to be written: %v", err)
	}
	if !strings.Contains(string(content), `token = "secret"`) || !strings.Contains(string(content), `server = "https://z.example.com"`) {
		t.Errorf("unexpected config contents:\n%s", content)
	}
}

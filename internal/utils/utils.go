package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/term"
)

const configTemplate = `# Required. Address of the Zipline server, e.g. "https://zipline.example.com"
server = {{SERVER}}

# Required. API token, found in the dashboard under your user settings
token = {{TOKEN}}

# Optional log level, default "info"
loglevel = "info"

# Optional request timeout in secs, default 60
timeout = 60

[upload]
# Optional name format for uploaded files: random, uuid, date, name or gfycat. Default "random"
format = "random"

# Optional image compression percentage (0-100). Unset leaves images untouched
# compression_percent = 90

# Optional expiry for uploads, e.g. "24h", "7d" or an ISO timestamp. Unset keeps files forever
# expiry = "7d"

# Optional folder ID that new uploads are placed in
# folder = ""

# Optional domain used in returned links
# domain = ""

# Optional. Send each file's own name along with the upload, default false
keep_original_name = false

[import]
# Optional number of upload workers for import and watch, default 4
workers = 4

# Optional file the import command writes its filename to URL map to, default "uploaded.json"
output = "uploaded.json"

# Optional patterns of file and directory names to skip, default [".*", "*.part", "*.tmp"]
skip_patterns = [".*", "*.part", "*.tmp"]

# Optional quiet period in millisecs before a watched file is uploaded, default 500
watch_debounce_ms = 500

[relay]
# Required for 'gozipline serve'. Username and password clients use to reach the relay
username = "myusername"
password = "mypassword"

# Optional bind address, default "127.0.0.1"
bind_address = "127.0.0.1"

# Optional TCP port, default 9292
port = 9292

# Optional largest accepted upload in bytes, default 104857600 (100 MiB)
max_upload_bytes = 104857600
`

// ErrEmptyInput is returned when a required prompt is answered with nothing.
var ErrEmptyInput = errors.New("no value entered")

// Prompter asks for values on a terminal, hiding secrets when it can.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

// NewPrompter reads answers from in and writes questions to out.
// Secrets are read without echo when in is a terminal.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &Prompter{in: bufio.NewReader(in), out: out, fd: fd}
}

// Prompt asks for a value, returning def when the answer is empty.
func (p *Prompter) Prompt(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}

	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF && def != "" {
			return def, nil
		}
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		if def == "" {
			return "", fmt.Errorf("%s: %w", strings.ToLower(label), ErrEmptyInput)
		}
		return def, nil
	}
	return line, nil
}

// PromptSecret asks for a value without echoing it.
func (p *Prompter) PromptSecret(label string) (string, error) {
	if p.fd < 0 {
		return p.Prompt(label, "")
	}

	fmt.Fprintf(p.out, "%s: ", label)
	secret, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	value := strings.TrimSpace(string(secret))
	if value == "" {
		return "", fmt.Errorf("%s: %w", strings.ToLower(label), ErrEmptyInput)
	}
	return value, nil
}

// PromptCredentials fills in whichever of server and token is empty.
func PromptCredentials(p *Prompter, server, token string) (string, string, error) {
	var err error
	if server == "" {
		if server, err = p.Prompt("Zipline server", ""); err != nil {
			return "", "", err
		}
	}
	if token == "" {
		if token, err = p.PromptSecret("Zipline token"); err != nil {
			return "", "", err
		}
	}
	return server, token, nil
}

// RenderConfig returns the config template filled with server and token
func RenderConfig(server, token string) string {
	config := strings.Replace(configTemplate, "{{SERVER}}", strconv.Quote(server), 1)
	return strings.Replace(config, "{{TOKEN}}", strconv.Quote(token), 1)
}

// GenerateConfig writes a configuration file for server and token, backing up any existing one
func GenerateConfig(configPath, server, token string) error {
	fmt.Printf("Generating config %s\n", configPath)

	config := RenderConfig(server, token)

	// Check if config file already exists and back it up
	if _, err := os.Stat(configPath); err == nil {
		backupPath := configPath + ".bak"
		fmt.Printf("Backing up config %s\n", configPath)
		if err := os.Rename(configPath, backupPath); err != nil {
			return fmt.Errorf("failed to backup config: %w", err)
		}
	}

	// Create parent directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The file holds the token
	fmt.Printf("Writing %s\n", configPath)
	if err := os.WriteFile(configPath, []byte(config), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

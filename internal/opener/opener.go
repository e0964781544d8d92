package opener

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ============================================================================
// Clipboard Interface
// ============================================================================

// Clipboard defines the interface for clipboard operations
type Clipboard interface {
	Copy(text string) error
}

// ErrNoClipboard is returned when no clipboard tool is installed
var ErrNoClipboard = errors.New("no clipboard tool found (install wl-copy, xclip, xsel or pbcopy)")

// systemClipboard implements Clipboard using system commands
type systemClipboard struct {
	find func() *exec.Cmd
}

// Copy copies text to the system clipboard
func (c *systemClipboard) Copy(text string) error {
	cmd := c.find()
	if cmd == nil {
		return ErrNoClipboard
	}
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// findClipboardCommand returns the appropriate clipboard command for the system
func findClipboardCommand() *exec.Cmd {
	switch {
	case commandExists("wl-copy"):
		return exec.Command("wl-copy")
	case commandExists("xclip"):
		return exec.Command("xclip", "-selection", "clipboard")
	case commandExists("xsel"):
		return exec.Command("xsel", "--clipboard", "--input")
	case commandExists("pbcopy"):
		return exec.Command("pbcopy")
	default:
		return nil
	}
}

// commandExists checks if a command is available in PATH
func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// ============================================================================
// Browser Interface
// ============================================================================

// Browser opens URLs in the user's default handler
type Browser interface {
	Open(url string) error
}

// systemBrowser launches the platform URL handler without waiting for it
type systemBrowser struct{}

// Open starts the handler in the background
func (systemBrowser) Open(url string) error {
	if url == "" {
		return fmt.Errorf("no link to open")
	}
	_, err := startDetached(browserCommand(runtime.GOOS, url))
	return err
}

// startDetached starts cmd and reaps it in the background. The returned
// channel receives the exit error once the process is gone.
func startDetached(cmd *exec.Cmd) (<-chan error, error) {
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	return done, nil
}

// browserCommand picks the launcher for goos
func browserCommand(goos, url string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", url)
	case "windows":
		return exec.Command("cmd", "/c", "start", "", url)
	default: // linux, freebsd, etc.
		return exec.Command("xdg-open", url)
	}
}

// ============================================================================
// Opener
// ============================================================================

// Opener routes problem links to the browser or clipboard
type Opener struct {
	browser   Browser
	clipboard Clipboard
}

// New creates an opener backed by the system browser and clipboard
func New() *Opener {
	return &Opener{
		browser:   systemBrowser{},
		clipboard: &systemClipboard{find: findClipboardCommand},
	}
}

// WithClipboard sets a custom clipboard implementation (useful for testing)
func (o *Opener) WithClipboard(c Clipboard) *Opener {
	o.clipboard = c
	return o
}

// WithBrowser sets a custom browser implementation (useful for testing)
func (o *Opener) WithBrowser(b Browser) *Opener {
	o.browser = b
	return o
}

// Open launches url in the browser
func (o *Opener) Open(url string) error {
	return o.browser.Open(url)
}

// Copy puts text on the clipboard
func (o *Opener) Copy(text string) error {
	if text == "" {
		return fmt.Errorf("nothing to copy")
	}
	return o.clipboard.Copy(text)
}

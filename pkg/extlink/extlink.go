// Package extlink opens web links from a person's socials in the user's
// browser.
package extlink

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// ErrNotLink is returned for values that are not http or https URLs.
var ErrNotLink = errors.New("not a web link")

// IsLinkish reports whether v looks like a web link.
func IsLinkish(v string) bool {
	v = strings.TrimSpace(v)
	return strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://")
}

// Normalize validates v and returns the URL to open.
func Normalize(v string) (string, error) {
	v = strings.TrimSpace(v)
	if !IsLinkish(v) {
		return "", fmt.Errorf("%q: %w", v, ErrNotLink)
	}
	u, err := url.Parse(v)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%q: %w", v, ErrNotLink)
	}
	return u.String(), nil
}

// Runner starts an external command.
type Runner func(ctx context.Context, name string, args ...string) error

// Opener hands links to the platform's URL handler.
type Opener struct {
	GOOS string
	Run  Runner
}

// NewOpener returns an opener for the current platform.
func NewOpener() *Opener {
	return &Opener{GOOS: runtime.GOOS, Run: start}
}

func start(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

// Open opens v if it is a web link.
func (o *Opener) Open(ctx context.Context, v string) error {
	link, err := Normalize(v)
	if err != nil {
		return err
	}
	name, args := command(o.GOOS, link)
	if err := o.Run(ctx, name, args...); err != nil {
		return fmt.Errorf("open %s: %w", link, err)
	}
	return nil
}

func command(goos, link string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{link}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", link}
	}
	return "xdg-open", []string{link}
}

package config

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/careerhub/pulse/internal/core/styles"
)

// Validate performs structural validation of the configuration.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("server.socket_url", c.Server.SocketURL, socketURL),
		criterio.Run("server.api_url", c.Server.APIURL, httpURL),
		criterio.Run("identity.email", c.Identity.Email, optionalEmail),
		criterio.Run("tui.theme", c.TUI.Theme, knownTheme),
		c.validateMutePatterns(),
	)
}

func (c *Config) validateMutePatterns() error {
	for i, pattern := range c.Mute {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("mute[%d]: invalid pattern %q", i, pattern)
		}
	}
	return nil
}

func socketURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("not a valid url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("scheme must be ws or wss, got %q", u.Scheme)
	}
	return nil
}

func httpURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("not a valid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	return nil
}

// optionalEmail accepts an empty identity; private events are then
// effectively unmatched, which is a valid signed-out state.
func optionalEmail(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if _, err := mail.ParseAddress(raw); err != nil {
		return fmt.Errorf("not a valid email address")
	}
	return nil
}

func knownTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}

package app

import (
	"os"
	"strings"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete engine configuration, loadable from environment
// variables (SHOP_ prefix), flags, or YAML config files.
type Config struct {
	BackendURL     string        `default:"" usage:"Backend API origin (SHOP_BACKEND_URL or BACKEND_URL)" flag:"backend-url"`
	ChatURL        string        `default:"" usage:"Chat websocket URL; derived from the backend origin when empty" flag:"chat-url"`
	CardGatewayURL string        `default:"" usage:"Card payment gateway origin" flag:"card-gateway-url"`
	DataDir        string        `default:"." usage:"Directory for the durable session cache" flag:"data-dir"`
	NotifyInterval time.Duration `default:"30s" usage:"Notification poll interval" flag:"notify-interval"`
	ProbeInterval  time.Duration `default:"15s" usage:"Connectivity probe interval" flag:"probe-interval"`
	Login          LoginConfig
}

// LoginConfig optionally signs the agent in at startup when no cached
// session can be restored.
type LoginConfig struct {
	Email    string `default:"" usage:"Account email (SHOP_LOGIN_EMAIL)"`
	Password string `default:"" usage:"Account password (SHOP_LOGIN_PASSWORD)"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform fallbacks.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SHOP",
		Files:     []string{"config.yaml", "/etc/shopfront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyFallbacks()

	if cfg.BackendURL == "" {
		return nil, errors.New("backend URL is required: set SHOP_BACKEND_URL or BACKEND_URL")
	}
	return &cfg, nil
}

// applyFallbacks maps unprefixed environment variables and derives the chat
// URL from the backend origin when not set explicitly.
func (c *Config) applyFallbacks() {
	if c.BackendURL == "" {
		if v := os.Getenv("BACKEND_URL"); v != "" {
			c.BackendURL = v
		}
	}
	if c.ChatURL == "" && c.BackendURL != "" {
		c.ChatURL = deriveChatURL(c.BackendURL)
	}
}

// deriveChatURL swaps the http scheme for ws and appends the chat path.
func deriveChatURL(backendURL string) string {
	if rest, ok := strings.CutPrefix(backendURL, "https://"); ok {
		return "wss://" + rest + "/chat"
	}
	if rest, ok := strings.CutPrefix(backendURL, "http://"); ok {
		return "ws://" + rest + "/chat"
	}
	return backendURL + "/chat"
}

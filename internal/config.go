package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Admin modes.
const (
	AdminModeDisabled = "disabled"
	AdminModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App          ApplicationConfig  `yaml:"app"`
	Content      ContentConfig      `yaml:"content"`
	SQLite       SQLiteConfig       `yaml:"sqlite"`
	Admin        AdminConfig        `yaml:"admin"`
	Security     SecurityConfig     `yaml:"security"`
	RateLimit    RateLimitConfig    `yaml:"rate_limit"`
	Cache        CacheConfig        `yaml:"cache"`
	Integrations IntegrationsConfig `yaml:"integrations"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Content.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Admin.Validate(); err != nil {
		return err
	}
	if err := c.RateLimit.Validate(); err != nil {
		return err
	}
	return c.Cache.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// ContentConfig holds the path to the Markdown content directory.
type ContentConfig struct {
	Path string `yaml:"path"`
	// Watch enables hot reload via filesystem notifications.
	Watch bool `yaml:"watch"`
}

// Validate validates the content configuration.
func (c *ContentConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds the guestbook database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AdminConfig guards the destructive routes (guestbook delete).
//
// Mode controls how the admin surface is exposed:
//   - "disabled" (default): admin routes reject every request.
//   - "token": Bearer token authentication; Token must be non-empty.
type AdminConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the admin configuration.
func (c *AdminConfig) Validate() error {
	// Normalise empty mode to "disabled".
	if c.Mode == "" {
		c.Mode = AdminModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AdminModeDisabled, AdminModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AdminModeToken && c.Token == "" {
		return fmt.Errorf("admin: mode is %q but token is empty", AdminModeToken)
	}
	return nil
}

// Enabled returns true when the admin surface is active.
func (c *AdminConfig) Enabled() bool {
	return c.Mode == AdminModeToken
}

// SecurityConfig holds CSRF and IP ban settings.
type SecurityConfig struct {
	CSRFCookie string        `yaml:"csrf_cookie"`
	CSRFTTL    time.Duration `yaml:"csrf_ttl"`
	// BannedIPs accepts plain addresses and CIDR ranges.
	BannedIPs []string `yaml:"banned_ips"`
}

// RateLimitConfig holds the per-IP request limits.
type RateLimitConfig struct {
	Disabled bool          `yaml:"disabled"`
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
	// WriteRequests caps the guestbook write path separately.
	WriteRequests int           `yaml:"write_requests"`
	WriteWindow   time.Duration `yaml:"write_window"`
}

// Validate validates the rate limit configuration.
func (c *RateLimitConfig) Validate() error {
	if c.Disabled {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Requests, validation.Required, validation.Min(1)),
		validation.Field(&c.Window, validation.Required),
		validation.Field(&c.WriteRequests, validation.Required, validation.Min(1)),
		validation.Field(&c.WriteWindow, validation.Required),
	)
}

// CacheConfig holds the memoization TTLs for the proxy routes.
type CacheConfig struct {
	NowPlaying time.Duration `yaml:"now_playing"`
	Spotify    time.Duration `yaml:"spotify"`
	WakaTime   time.Duration `yaml:"wakatime"`
	Analytics  time.Duration `yaml:"analytics"`
	GitHub     time.Duration `yaml:"github"`
	Lanyard    time.Duration `yaml:"lanyard"`
	Guestbook  time.Duration `yaml:"guestbook"`
}

// Validate validates the cache configuration.
func (c *CacheConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.NowPlaying, validation.Required),
		validation.Field(&c.Spotify, validation.Required),
		validation.Field(&c.WakaTime, validation.Required),
		validation.Field(&c.Analytics, validation.Required),
		validation.Field(&c.GitHub, validation.Required),
		validation.Field(&c.Lanyard, validation.Required),
		validation.Field(&c.Guestbook, validation.Required),
	)
}

// IntegrationsConfig holds credentials for the third-party services. Empty
// credentials disable the integration; its routes answer 503.
type IntegrationsConfig struct {
	Spotify   SpotifyConfig   `yaml:"spotify"`
	WakaTime  WakaTimeConfig  `yaml:"wakatime"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	GitHub    GitHubConfig    `yaml:"github"`
	Lanyard   LanyardConfig   `yaml:"lanyard"`
	Stripe    StripeConfig    `yaml:"stripe"`
	// PollInterval drives the presence poller behind the SSE stream.
	PollInterval time.Duration `yaml:"poll_interval"`
}

// SpotifyConfig holds the refresh-token grant credentials.
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
}

// WakaTimeConfig holds the WakaTime API key.
type WakaTimeConfig struct {
	APIKey string `yaml:"api_key"`
}

// AnalyticsConfig holds the analytics reporting endpoint and key.
type AnalyticsConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
}

// GitHubConfig holds the GitHub username and optional token.
type GitHubConfig struct {
	Username string `yaml:"username"`
	Token    string `yaml:"token"`
}

// LanyardConfig holds the Discord user ID resolved through Lanyard.
type LanyardConfig struct {
	UserID string `yaml:"user_id"`
}

// StripeConfig holds the webhook signing secret. Zero tolerance falls back
// to the handler default.
type StripeConfig struct {
	WebhookSecret string        `yaml:"webhook_secret"`
	Tolerance     time.Duration `yaml:"tolerance"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Content: ContentConfig{
			Path:  "./content",
			Watch: true,
		},
		SQLite: SQLiteConfig{
			Path: "./folio.db",
		},
		Admin: AdminConfig{
			Mode: AdminModeDisabled,
		},
		Security: SecurityConfig{
			CSRFTTL: 12 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Requests:      60,
			Window:        time.Minute,
			WriteRequests: 5,
			WriteWindow:   time.Minute,
		},
		Cache: CacheConfig{
			NowPlaying: 30 * time.Second,
			Spotify:    5 * time.Minute,
			WakaTime:   15 * time.Minute,
			Analytics:  time.Hour,
			GitHub:     10 * time.Minute,
			Lanyard:    30 * time.Second,
			Guestbook:  30 * time.Second,
		},
		Integrations: IntegrationsConfig{
			PollInterval: 30 * time.Second,
		},
	}
}

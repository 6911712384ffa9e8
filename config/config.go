package config

import (
	"fmt"
	"time"
)

// DefaultMetaPrefix namespaces the metadata keys this module owns on an
// account. The linkage key becomes "<prefix>id", the extended-attributes key
// "<prefix>obj".
const DefaultMetaPrefix = "authentiq_"

// Duration wraps time.Duration so TOML files can carry durations as strings
// like "5m" or "1h30m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Policy holds the account reconciliation knobs.
type Policy struct {
	// RequireEmail makes account creation fail when the provider supplied
	// no usable email address. The host policy behind it is that every
	// account needs a verifiable contact address.
	RequireEmail bool `toml:"require_email"`

	// LoginSuffixAttempts caps the collision-resolution loop. After this
	// many random numeric suffixes the login gets a single random
	// alphanumeric suffix instead of probing further.
	LoginSuffixAttempts int `toml:"login_suffix_attempts"`

	// PasswordLength is the length of the generated throwaway password
	// for newly created accounts.
	PasswordLength int `toml:"password_length"`

	// MetaPrefix namespaces the metadata keys. Changing it orphans
	// existing linkage records, so pick it once.
	MetaPrefix string `toml:"meta_prefix"`

	// LinkageCacheTTL bounds how long a sub -> account id mapping may be
	// served from cache. Zero disables expiry.
	LinkageCacheTTL Duration `toml:"linkage_cache_ttl"`
}

// Smtp configures the mail notifier. Unused when Notify.MailTo is empty.
type Smtp struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
}

// Notify configures the lifecycle notification sinks.
type Notify struct {
	// DiscordWebhookURL enables the Discord notifier when non-empty.
	DiscordWebhookURL string `toml:"discord_webhook_url"`
	// MailTo enables the mail notifier when non-empty; account-created
	// events are mailed to this address.
	MailTo string `toml:"mail_to"`
}

type Config struct {
	DBPath string `toml:"db_path"`
	Policy Policy `toml:"policy"`
	Smtp   Smtp   `toml:"smtp"`
	Notify Notify `toml:"notify"`
}

// NewDefaultConfig returns a Config with the defaults the module ships with.
func NewDefaultConfig() *Config {
	return &Config{
		Policy: Policy{
			RequireEmail:        true,
			LoginSuffixAttempts: 10,
			PasswordLength:      22,
			MetaPrefix:          DefaultMetaPrefix,
			LinkageCacheTTL:     Duration{Duration: 5 * time.Minute},
		},
	}
}

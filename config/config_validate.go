package config

import "fmt"

func Validate(cfg *Config) error {
	if err := validatePolicy(&cfg.Policy); err != nil {
		return fmt.Errorf("policy config validation failed: %w", err)
	}
	if err := validateNotify(cfg); err != nil {
		return fmt.Errorf("notify config validation failed: %w", err)
	}
	return nil
}

func validatePolicy(p *Policy) error {
	if p.LoginSuffixAttempts <= 0 {
		return fmt.Errorf("login_suffix_attempts must be positive, got %d", p.LoginSuffixAttempts)
	}
	if p.PasswordLength < 8 {
		return fmt.Errorf("password_length must be at least 8, got %d", p.PasswordLength)
	}
	if p.MetaPrefix == "" {
		return fmt.Errorf("meta_prefix cannot be empty")
	}
	if p.LinkageCacheTTL.Duration < 0 {
		return fmt.Errorf("linkage_cache_ttl cannot be negative")
	}
	return nil
}

// validateNotify only checks cross-field consistency; each sink validates its
// own settings when constructed.
func validateNotify(cfg *Config) error {
	if cfg.Notify.MailTo != "" {
		if cfg.Smtp.Host == "" || cfg.Smtp.Port == 0 {
			return fmt.Errorf("mail_to is set but smtp host/port are not configured")
		}
		if cfg.Smtp.From == "" {
			return fmt.Errorf("mail_to is set but smtp from address is not configured")
		}
	}
	return nil
}

package election

import "fmt"

const (
	DefaultMaxTitleLen      = 64
	DefaultMaxAdmins        = 3
	DefaultMaxCiphertextLen = 512
)

// Config holds the bounds enforced by the StateMachine.
type Config struct {
	// MaxTitleLen is the maximum title length in bytes.
	MaxTitleLen int `yaml:"maxTitleLen"`
	// MaxAdmins is the maximum size of the admin set, owner included.
	MaxAdmins int `yaml:"maxAdmins"`
	// MaxCiphertextLen is the maximum size of an encrypted ballot in bytes.
	MaxCiphertextLen int `yaml:"maxCiphertextLen"`
	// RequireRootOnPrivateStart makes StartElection fail with ErrInvalidInput
	// when a private election is opened without commitment root.
	RequireRootOnPrivateStart bool `yaml:"requireRootOnPrivateStart"`
}

// DefaultConfig returns the default election bounds.
func DefaultConfig() *Config {
	return &Config{
		MaxTitleLen:      DefaultMaxTitleLen,
		MaxAdmins:        DefaultMaxAdmins,
		MaxCiphertextLen: DefaultMaxCiphertextLen,
	}
}

// Validate checks that every bound is usable.
func (c *Config) Validate() error {
	if c.MaxTitleLen <= 0 {
		return fmt.Errorf("max title length must be positive")
	}
	if c.MaxAdmins < 1 {
		return fmt.Errorf("max admins must be at least 1")
	}
	if c.MaxCiphertextLen <= 0 {
		return fmt.Errorf("max ciphertext length must be positive")
	}
	return nil
}

package video

import (
	"context"
	"fmt"
)

// CredentialProvider supplies the API key used for video generation. The host
// environment may require a one-time key-selection step before the first
// submission; EnsureSelected performs it when needed.
type CredentialProvider interface {
	EnsureSelected(ctx context.Context) error
	APIKey() string
}

// EnvCredential is a CredentialProvider backed by a key resolved at startup.
// Select is invoked once when no key is present, mirroring an interactive
// selection prompt; leave it nil to fail instead.
type EnvCredential struct {
	Key    string
	Select func(ctx context.Context) (string, error)
}

func (c *EnvCredential) EnsureSelected(ctx context.Context) error {
	if c.Key != "" {
		return nil
	}
	if c.Select == nil {
		return fmt.Errorf("no api key selected for video generation")
	}
	key, err := c.Select(ctx)
	if err != nil {
		return fmt.Errorf("api key selection: %w", err)
	}
	c.Key = key
	return nil
}

func (c *EnvCredential) APIKey() string {
	return c.Key
}

package app

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/astroline/identity/pkg/jwtx"
)

// loadTokenSecret resolves the HS256 signing secret. An inline secret wins;
// otherwise the secret file is read, or created with fresh random material on
// first start. A generated secret means every token dies on redeploy to a new
// volume, which is the safe default.
func loadTokenSecret(cfg Config) ([]byte, error) {
	if cfg.TokenSecret != "" {
		secret := []byte(cfg.TokenSecret)
		if len(secret) < jwtx.MinSecretLength {
			return nil, fmt.Errorf("IDENTITY_TOKEN_SECRET must be at least %d bytes", jwtx.MinSecretLength)
		}
		return secret, nil
	}

	file := filepath.Clean(cfg.TokenSecretFile)
	if err := os.MkdirAll(filepath.Dir(file), 0750); err != nil {
		return nil, err
	}

	if _, err := os.Stat(file); os.IsNotExist(err) {
		raw := make([]byte, jwtx.MinSecretLength)
		if _, err := rand.Read(raw); err != nil {
			return nil, err
		}
		secret := []byte(base64.RawURLEncoding.EncodeToString(raw))

		if err := os.WriteFile(file, secret, 0600); err != nil {
			return nil, err
		}
		return secret, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	secret := []byte(strings.TrimSpace(string(data)))
	if len(secret) < jwtx.MinSecretLength {
		return nil, fmt.Errorf("token secret in %s is shorter than %d bytes", file, jwtx.MinSecretLength)
	}
	return secret, nil
}

package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/astroline/identity/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestLoadTokenSecretInline(t *testing.T) {
	cfg := Config{TokenSecret: "0123456789abcdef0123456789abcdef"}

	secret, err := loadTokenSecret(cfg)
	require.NoError(t, err)
	require.Equal(t, []byte(cfg.TokenSecret), secret)
}

func TestLoadTokenSecretRejectsShortInline(t *testing.T) {
	cfg := Config{TokenSecret: "too-short"}

	_, err := loadTokenSecret(cfg)
	require.Error(t, err)
}

func TestLoadTokenSecretGeneratesAndReloads(t *testing.T) {
	file := filepath.Join(t.TempDir(), "token_secret")
	cfg := Config{TokenSecretFile: file}

	generated, err := loadTokenSecret(cfg)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(generated), jwtx.MinSecretLength)

	// A second start must read back the same material.
	reloaded, err := loadTokenSecret(cfg)
	require.NoError(t, err)
	require.Equal(t, generated, reloaded)

	onDisk, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Equal(t, generated, onDisk)
}

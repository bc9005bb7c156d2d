package dkim

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailbolt/mailbolt/internal/errs"
)

const sampleMessage = "From: sender@example.com\r\n" +
	"To: rcpt@example.com\r\n" +
	"Subject: hello\r\n" +
	"\r\n" +
	"body\r\n"

func writeRSAKeyPKCS1(t *testing.T) string {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "dkim.pem")
	material := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	require.NoError(t, os.WriteFile(path, material, 0o600))
	return path
}

func TestLoad_AbsentTripleIsNoSigning(t *testing.T) {
	t.Parallel()

	settings, err := Load("", "", "", AlgorithmRSA)
	require.NoError(t, err)
	assert.Nil(t, settings)
}

func TestLoad_PartialTripleFails(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name                    string
		selector, domain, key   string
	}{
		{"selector only", "s1", "", ""},
		{"domain only", "", "example.com", ""},
		{"key only", "", "", "dkim.pem"},
		{"missing key", "s1", "example.com", ""},
		{"missing domain", "s1", "", "dkim.pem"},
		{"missing selector", "", "example.com", "dkim.pem"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(tc.selector, tc.domain, tc.key, AlgorithmRSA)
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrConfig)
			assert.Contains(t, err.Error(),
				"--dkim-selector, --dkim-domain, and --dkim-key must be provided together")
		})
	}
}

func TestLoad_PartialTripleFailsBeforeKeyRead(t *testing.T) {
	t.Parallel()

	// The key path does not exist; the triple check must fire first.
	_, err := Load("s1", "", filepath.Join(t.TempDir(), "absent.pem"), AlgorithmRSA)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConfig)
	assert.NotErrorIs(t, err, errs.ErrIO)
}

func TestLoad_MissingKeyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "absent.pem")
	_, err := Load("s1", "example.com", path, AlgorithmRSA)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrIO)
	assert.Contains(t, err.Error(), path)
}

func TestLoad_MalformedKey(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "garbage.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a key"), 0o600))

	_, err := Load("s1", "example.com", path, AlgorithmRSA)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrCrypto)
	assert.Contains(t, err.Error(), path)
}

func TestLoad_UnknownAlgorithm(t *testing.T) {
	t.Parallel()

	path := writeRSAKeyPKCS1(t)
	_, err := Load("s1", "example.com", path, Algorithm("dsa"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrCrypto)
	assert.Contains(t, err.Error(), "dsa")
}

func TestSign_RSAPKCS1(t *testing.T) {
	t.Parallel()

	path := writeRSAKeyPKCS1(t)
	settings, err := Load("s1", "example.com", path, AlgorithmRSA)
	require.NoError(t, err)
	require.NotNil(t, settings)

	signed, err := settings.Sign([]byte(sampleMessage))
	require.NoError(t, err)
	assert.Contains(t, string(signed), "DKIM-Signature:")
	assert.Contains(t, string(signed), "d=example.com")
	assert.Contains(t, string(signed), "s=s1")
	assert.Contains(t, string(signed), "body")
}

func TestLoad_RSAPKCS8(t *testing.T) {
	t.Parallel()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "dkim-pkcs8.pem")
	material := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	require.NoError(t, os.WriteFile(path, material, 0o600))

	settings, err := Load("s1", "example.com", path, AlgorithmRSA)
	require.NoError(t, err)
	require.NotNil(t, settings)

	_, err = settings.Sign([]byte(sampleMessage))
	require.NoError(t, err)
}

func TestLoad_Ed25519Base64Seed(t *testing.T) {
	t.Parallel()

	_, private, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "dkim-ed25519.key")
	encoded := base64.StdEncoding.EncodeToString(private.Seed()) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(encoded), 0o600))

	settings, err := Load("s1", "example.com", path, AlgorithmEd25519)
	require.NoError(t, err)
	require.NotNil(t, settings)

	signed, err := settings.Sign([]byte(sampleMessage))
	require.NoError(t, err)
	assert.Contains(t, string(signed), "DKIM-Signature:")
}

func TestLoad_Ed25519PKCS8(t *testing.T) {
	t.Parallel()

	_, private, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(private)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "dkim-ed25519.pem")
	material := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	require.NoError(t, os.WriteFile(path, material, 0o600))

	settings, err := Load("s1", "example.com", path, AlgorithmEd25519)
	require.NoError(t, err)
	require.NotNil(t, settings)
}

func TestLoad_Ed25519BadLength(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "short.key")
	encoded := base64.StdEncoding.EncodeToString([]byte("too short"))
	require.NoError(t, os.WriteFile(path, []byte(encoded), 0o600))

	_, err := Load("s1", "example.com", path, AlgorithmEd25519)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrCrypto)
	assert.Contains(t, err.Error(), "key length")
}

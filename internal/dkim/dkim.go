/*
Package dkim validates the DKIM signing configuration and applies the
signature to the finished message bytes.

The selector, domain, and key path travel together: all three present
yields a signing configuration, all three absent yields none, and any
partial combination is a configuration error caught before the key
file is touched. Signing happens exactly once, over the final rendered
message, before the first delivery attempt.
*/
package dkim

import (
	"bytes"
	"crypto"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"
	"strings"

	msgauth "github.com/emersion/go-msgauth/dkim"

	"github.com/mailbolt/mailbolt/internal/errs"
)

// Algorithm names the signing key algorithm.
type Algorithm string

const (
	AlgorithmRSA     Algorithm = "rsa"
	AlgorithmEd25519 Algorithm = "ed25519"
)

// Settings is a complete, validated signing configuration.
type Settings struct {
	Selector string
	Domain   string
	signer   crypto.Signer
}

// Load enforces the all-or-nothing rule on the selector/domain/key
// triple. When the triple is complete it reads and parses the key for
// the chosen algorithm; when it is absent it returns nil with no error.
func Load(selector, domain, keyPath string, algorithm Algorithm) (*Settings, error) {
	switch {
	case selector == "" && domain == "" && keyPath == "":
		return nil, nil
	case selector != "" && domain != "" && keyPath != "":
		// fall through to key loading
	default:
		return nil, errs.Config("--dkim-selector, --dkim-domain, and --dkim-key must be provided together")
	}

	material, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, errs.IO("failed to read DKIM key %s: %w", keyPath, err)
	}

	signer, err := parseKey(material, algorithm)
	if err != nil {
		return nil, errs.Crypto("failed to parse DKIM signing key %s: %w", keyPath, err)
	}

	return &Settings{Selector: selector, Domain: domain, signer: signer}, nil
}

// Sign computes the DKIM signature over raw and returns the message
// with the DKIM-Signature header prepended.
func (s *Settings) Sign(raw []byte) ([]byte, error) {
	options := &msgauth.SignOptions{
		Domain:   s.Domain,
		Selector: s.Selector,
		Signer:   s.signer,
	}

	var signed bytes.Buffer
	if err := msgauth.Sign(&signed, bytes.NewReader(raw), options); err != nil {
		return nil, errs.Crypto("DKIM signing failed: %w", err)
	}
	return signed.Bytes(), nil
}

func parseKey(material []byte, algorithm Algorithm) (crypto.Signer, error) {
	switch algorithm {
	case AlgorithmRSA:
		return parseRSAKey(material)
	case AlgorithmEd25519:
		return parseEd25519Key(material)
	default:
		return nil, fmt.Errorf("unknown DKIM algorithm %q", algorithm)
	}
}

// parseRSAKey accepts PKCS#1 ("RSA PRIVATE KEY") or PKCS#8
// ("PRIVATE KEY") PEM blocks.
func parseRSAKey(material []byte) (crypto.Signer, error) {
	block, _ := pem.Decode(material)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in key material")
	}

	switch block.Type {
	case "RSA PRIVATE KEY":
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("PKCS#8 block does not contain an RSA key")
		}
		return rsaKey, nil
	default:
		return nil, fmt.Errorf("unexpected PEM block type %q", block.Type)
	}
}

// parseEd25519Key accepts a PKCS#8 PEM block or a bare base64-encoded
// seed / private key.
func parseEd25519Key(material []byte) (crypto.Signer, error) {
	if block, _ := pem.Decode(material); block != nil {
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		edKey, ok := key.(ed25519.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("PKCS#8 block does not contain an ed25519 key")
		}
		return edKey, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(material)))
	if err != nil {
		return nil, fmt.Errorf("key material is neither PEM nor base64: %w", err)
	}
	switch len(decoded) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(decoded), nil
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(decoded), nil
	default:
		return nil, fmt.Errorf("unexpected ed25519 key length %d", len(decoded))
	}
}

// Package snowauth derives short-lived signed tokens from key-pair
// credentials. Snowflake's key-pair authentication expects an RS256 JWT
// whose issuer carries the SHA-256 fingerprint of the public key.
package snowauth

import (
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/youmark/pkcs8"
)

// Token lifetime. Tokens are rederived on every connect, so a short window
// avoids stale-token failures without any refresh machinery.
const tokenLifetime = 5 * time.Minute

var ErrMalformedKey = errors.New("private key is not a valid PEM-encoded RSA key")

// ParsePrivateKey decodes a PEM private key block. Unencrypted PKCS#8 and
// PKCS#1 blocks are supported directly; encrypted PKCS#8 blocks require the
// passphrase. The error never includes key material.
func ParsePrivateKey(pemData, passphrase string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(strings.TrimSpace(pemData)))
	if block == nil {
		return nil, ErrMalformedKey
	}

	switch block.Type {
	case "PRIVATE KEY":
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
		}
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: not an RSA key", ErrMalformedKey)
		}
		return key, nil

	case "RSA PRIVATE KEY":
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
		}
		return key, nil

	case "ENCRYPTED PRIVATE KEY":
		if passphrase == "" {
			return nil, fmt.Errorf("%w: encrypted key requires a passphrase", ErrMalformedKey)
		}
		key, err := pkcs8.ParsePKCS8PrivateKeyRSA(block.Bytes, []byte(passphrase))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
		}
		return key, nil

	default:
		return nil, fmt.Errorf("%w: unexpected block type %q", ErrMalformedKey, block.Type)
	}
}

// Fingerprint computes the SHA-256 fingerprint of the public key in the
// form Snowflake embeds in the JWT issuer: "SHA256:<base64 digest>".
func Fingerprint(key *rsa.PrivateKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(key.Public())
	if err != nil {
		return "", fmt.Errorf("marshal public key: %w", err)
	}

	digest := sha256.Sum256(der)
	return "SHA256:" + base64.StdEncoding.EncodeToString(digest[:]), nil
}

// SignToken derives a fresh signed token for the given account and user.
// The issuer is "<ACCOUNT>.<USER>.<fingerprint>", the subject
// "<ACCOUNT>.<USER>". Account locators are used without the region suffix.
func SignToken(key *rsa.PrivateKey, account, user string, now time.Time) (string, error) {
	fingerprint, err := Fingerprint(key)
	if err != nil {
		return "", err
	}

	qualified := qualifiedUsername(account, user)

	claims := jwt.MapClaims{
		"iss": qualified + "." + fingerprint,
		"sub": qualified,
		"iat": now.Unix(),
		"exp": now.Add(tokenLifetime).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return token, nil
}

func qualifiedUsername(account, user string) string {
	// account identifiers like org-account.eu-west-1 keep only the locator
	if idx := strings.Index(account, "."); idx >= 0 {
		account = account[:idx]
	}
	return strings.ToUpper(account) + "." + strings.ToUpper(user)
}

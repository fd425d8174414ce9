package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultPBKDF2Iterations = 600000
	DefaultSaltLength       = 16

	pbkdf2Method   = "pbkdf2"
	defaultDigest  = "sha256"
	saltCharacters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

var (
	ErrEmptyPassword = errors.New("password is empty")
	ErrInvalidHash   = errors.New("invalid password hash")
)

var digests = map[string]func() hash.Hash{
	"sha256": sha256.New,
	"sha512": sha512.New,
}

// PasswordHasher produces and checks self-describing password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify returns (false, nil) on mismatch and an error only for malformed hashes.
	Verify(password, encoded string) (bool, error)
}

// PBKDF2Hasher writes hashes as "pbkdf2:sha256:<iterations>$<salt>$<hex>".
// Verify also accepts pbkdf2:sha512 and bcrypt ($2a$/$2b$/$2y$) hashes.
type PBKDF2Hasher struct {
	Iterations int
	SaltLength int
}

func NewPBKDF2Hasher(iterations, saltLength int) *PBKDF2Hasher {
	if iterations <= 0 {
		iterations = DefaultPBKDF2Iterations
	}
	if saltLength <= 0 {
		saltLength = DefaultSaltLength
	}
	return &PBKDF2Hasher{Iterations: iterations, SaltLength: saltLength}
}

// Hash derives a new hash with a fresh random salt.
func (h *PBKDF2Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	salt, err := genSalt(h.SaltLength)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	digest := derive(digests[defaultDigest], password, salt, h.Iterations)
	return fmt.Sprintf("%s:%s:%d$%s$%s", pbkdf2Method, defaultDigest, h.Iterations, salt, digest), nil
}

func (h *PBKDF2Hasher) Verify(password, encoded string) (bool, error) {
	if isBcrypt(encoded) {
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
		}
	}

	parts := strings.SplitN(encoded, "$", 3)
	if len(parts) != 3 {
		return false, fmt.Errorf("%w: expected method$salt$hash", ErrInvalidHash)
	}
	method, salt, want := parts[0], parts[1], parts[2]

	newHash, iterations, err := parseMethod(method)
	if err != nil {
		return false, err
	}
	got := derive(newHash, password, salt, iterations)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1, nil
}

// parseMethod reads "pbkdf2:<digest>[:<iterations>]".
func parseMethod(method string) (func() hash.Hash, int, error) {
	fields := strings.Split(method, ":")
	if len(fields) < 2 || len(fields) > 3 || fields[0] != pbkdf2Method {
		return nil, 0, fmt.Errorf("%w: unsupported method %q", ErrInvalidHash, method)
	}
	newHash, ok := digests[fields[1]]
	if !ok {
		return nil, 0, fmt.Errorf("%w: unsupported digest %q", ErrInvalidHash, fields[1])
	}
	iterations := DefaultPBKDF2Iterations
	if len(fields) == 3 {
		n, err := strconv.Atoi(fields[2])
		if err != nil || n <= 0 {
			return nil, 0, fmt.Errorf("%w: bad iteration count %q", ErrInvalidHash, fields[2])
		}
		iterations = n
	}
	return newHash, iterations, nil
}

func derive(newHash func() hash.Hash, password, salt string, iterations int) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, newHash().Size(), newHash)
	return hex.EncodeToString(key)
}

// genSalt returns n characters drawn uniformly from saltCharacters.
func genSalt(n int) (string, error) {
	const limit = 256 - 256%len(saltCharacters)
	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generate salt: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, saltCharacters[int(b)%len(saltCharacters)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}

func isBcrypt(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

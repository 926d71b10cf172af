package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32
	saltLen             = 16
)

var ErrMalformedHash = errors.New("malformed password hash")

// PasswordHash is the decoded form of a stored credential:
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
type PasswordHash struct {
	Memory  uint32
	Time    uint32
	Threads uint8
	Salt    []byte
	Key     []byte
}

func (p *PasswordHash) String() string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(p.Salt),
		base64.RawStdEncoding.EncodeToString(p.Key))
}

// HashPassword returns the encoded argon2id hash of password+pepper.
func HashPassword(password, pepper string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	input := append([]byte(password), []byte(pepper)...)
	key := argon2.IDKey(input, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	ph := &PasswordHash{Memory: argonMemory, Time: argonTime, Threads: argonThreads, Salt: salt, Key: key}
	return ph.String(), nil
}

func MustHashPassword(password, pepper string) string {
	p, err := HashPassword(password, pepper)
	if err != nil {
		panic(err)
	}
	return p
}

// VerifyPassword reports whether password+pepper matches encoded. Parameters
// are taken from the encoded value so older hashes keep verifying.
func VerifyPassword(password, pepper, encoded string) (bool, error) {
	ph, err := ParsePasswordHash(encoded)
	if err != nil {
		return false, err
	}
	input := append([]byte(password), []byte(pepper)...)
	key := argon2.IDKey(input, ph.Salt, ph.Time, ph.Memory, ph.Threads, uint32(len(ph.Key)))
	return subtle.ConstantTimeCompare(key, ph.Key) == 1, nil
}

func ParsePasswordHash(encoded string) (*PasswordHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return nil, ErrMalformedHash
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, ErrMalformedHash
	}
	ph := &PasswordHash{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &ph.Memory, &ph.Time, &ph.Threads); err != nil {
		return nil, ErrMalformedHash
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return nil, ErrMalformedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return nil, ErrMalformedHash
	}
	ph.Salt = salt
	ph.Key = key
	return ph, nil
}

// IsPasswordHash distinguishes an encoded hash from a clear-text candidate.
func IsPasswordHash(s string) bool {
	_, err := ParsePasswordHash(s)
	return err == nil
}

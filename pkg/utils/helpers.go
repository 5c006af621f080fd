package utils

import (
	crand "crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/argon2"
	"golang.org/x/exp/rand"
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

func init() {
	rand.Seed(uint64(time.Now().UnixNano()))
}

func HashPassword(password string) string {
	salt := make([]byte, argonSaltLen)
	if _, err := crand.Read(salt); err != nil {
		panic(err)
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	saltBase64 := base64.RawStdEncoding.EncodeToString(salt)
	hashBase64 := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("$argon2id$m=%d,t=%d,p=%d$%s$%s", argonMemory, argonTime, argonThreads, saltBase64, hashBase64)
}

func VerifyPassword(password, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[1] != "argon2id" {
		return false
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	derived := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(hash)))

	return subtle.ConstantTimeCompare(derived, hash) == 1
}

func GenerateRandomString(limit int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, limit)
	for i := range result {
		result[i] = chars[rand.Intn(len(chars))]
	}

	return string(result)
}

// NormalizeEmail lowercases and trims an email address so it can be used as
// a case-insensitive lookup key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeMobile strips everything except digits and a leading plus sign.
func NormalizeMobile(mobile string) string {
	var b strings.Builder
	for i, r := range mobile {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// DigitCount returns the number of decimal digits in a mobile number,
// ignoring the leading plus.
func DigitCount(mobile string) int {
	count := 0
	for _, r := range mobile {
		if r >= '0' && r <= '9' {
			count++
		}
	}

	return count
}

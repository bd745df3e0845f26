package service

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"html"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/crypto/bcrypt"

	"github.com/Olprog59/go-contenthub/internal/domain"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9.+_-]+@[a-zA-Z0-9._-]+\.[a-zA-Z]+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// reservedUsernames may only be taken by a superuser.
var reservedUsernames = []string{"admin", "null", "undefined"}

// bcryptMaxBytes is bcrypt's input limit.
const bcryptMaxBytes = 72

// isValidEmail checks the accepted email shape and length.
func isValidEmail(email string) bool {
	return utf8.RuneCountInString(email) <= domain.MaxEmailLength && emailPattern.MatchString(email)
}

// isValidUsername checks the accepted username shape and length.
func isValidUsername(username string) bool {
	return utf8.RuneCountInString(username) <= domain.MaxUsernameLength && usernamePattern.MatchString(username)
}

// isWeakCredential reports a password equal to the username or the email local part.
func isWeakCredential(password, username, email string) bool {
	return password == username || password == domain.EmailLocalPart(email)
}

// isReservedUsername matches the reserved names exactly, case included.
func isReservedUsername(username string) bool {
	return slices.Contains(reservedUsernames, username)
}

// bcryptInput pre-hashes passwords bcrypt would truncate.
// Pré-hache les mots de passe que bcrypt tronquerait.
func bcryptInput(password string) []byte {
	if len(password) <= bcryptMaxBytes {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// hashPassword hashes a password with bcrypt / Hache un mot de passe avec bcrypt
func hashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(bcryptInput(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// checkPassword compares a hash and a plain password / Compare un hash et un mot de passe
func checkPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), bcryptInput(password)) == nil
}

// stripTags reduces markup to plain text / Réduit le balisage en texte brut
func stripTags(policy *bluemonday.Policy, text string) string {
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(text)))
}

// lockEntry tracks a user-specific mutex and its last access time for cleanup.
// This is used to prevent race conditions during concurrent operations while
// avoiding memory leaks by tracking when locks were last used.
type lockEntry struct {
	mu       *sync.Mutex
	lastUsed time.Time
}

// formatLockoutDuration formats a duration into a human-readable string.
// Examples: "1 minute", "15 minutes", "45 seconds"
func formatLockoutDuration(d time.Duration) string {
	if d < time.Minute {
		seconds := int(d.Seconds())
		if seconds == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", seconds)
	}

	minutes := int(d.Round(time.Minute).Minutes())
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}

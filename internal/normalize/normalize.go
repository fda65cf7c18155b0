package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mcnijman/go-emailaddress"
)

// emailPattern is the syntax accepted at registration: local-part
// characters, a dotted domain and a TLD of at least two letters. It also
// rules out ',' which separates group members on disk.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email returns the form of an email address used for storage and
// comparisons. Only surrounding whitespace is removed; case is preserved, so
// addresses differing in case are distinct identities.
func Email(e string) string {
	return strings.TrimSpace(e)
}

// ValidateEmail reports whether e is an acceptable address.
func ValidateEmail(e string) error {
	if e == "" {
		return errors.New("email is required")
	}
	if _, err := emailaddress.Parse(e); err != nil {
		return fmt.Errorf("invalid email %q: %w", e, err)
	}
	if !emailPattern.MatchString(e) {
		return fmt.Errorf("invalid email %q", e)
	}
	return nil
}

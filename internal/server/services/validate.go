package services

import (
	"fmt"
	"regexp"
	"strings"

	"taskdesk/internal/common"
)

// emailPattern accepts a 1-64 char local part that does not start with a dot,
// and a domain ending in a 2+ letter TLD.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_%+-][a-zA-Z0-9._%+-]{0,63}@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const passwordSymbols = "@$!%*?&"

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: please provide a valid email", common.ErrorValidation)
	}
	return nil
}

// validatePassword enforces the account password rules: at least 8 characters,
// at least one uppercase letter, one lowercase letter, one digit, and one
// symbol from passwordSymbols, with no characters outside those classes.
func validatePassword(password string) error {
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		default:
			return fmt.Errorf("%w: password contains an unsupported character", common.ErrorValidation)
		}
	}
	if len(password) < 8 || !upper || !lower || !digit || !symbol {
		return fmt.Errorf("%w: password needs 8+ characters with an uppercase letter, a lowercase letter, a digit and a symbol", common.ErrorValidation)
	}
	return nil
}

func anyBlank(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return true
		}
	}
	return false
}

package validation

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

var loginRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{3,30}$`)

// ValidateLogin checks the public handle format.
func ValidateLogin(login string) error {
	if !loginRegex.MatchString(login) {
		return errors.New("login must be 3-30 characters of letters, digits, underscores or hyphens")
	}
	if strings.ContainsAny(login[:1]+login[len(login)-1:], "_-") {
		return errors.New("login cannot start or end with an underscore or hyphen")
	}
	return nil
}

// ValidatePassword enforces the minimum password policy.
func ValidatePassword(password string) error {
	n := len([]rune(password))
	if n < 8 || n > 128 {
		return errors.New("password must be between 8 and 128 characters")
	}
	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsSpace(r):
			return errors.New("password cannot contain whitespace")
		}
	}
	if !letter || !digit {
		return errors.New("password must contain a letter and a digit")
	}
	return nil
}

// ValidateEmail accepts a bare address of at most 254 characters.
func ValidateEmail(email string) error {
	if len(email) > 254 {
		return errors.New("email must be at most 254 characters")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("invalid email address")
	}
	if strings.HasSuffix(email, ".") {
		return errors.New("invalid email address")
	}
	return nil
}

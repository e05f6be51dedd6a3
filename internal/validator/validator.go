// Package validator holds the syntactic rules for usernames and passwords.
//
// The rules gate form submission on the client and are re-applied by the
// reference backend, which stays the source of truth. A failed rule is a
// Verdict carrying a human-readable reason; validation never returns an error
// and never panics.
package validator

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Messages shown next to the offending field.
const (
	MsgUsernameLength  = "Username must be between 3 and 32 characters!"
	MsgUsernameLetters = "Username must only contain letters!"
	MsgPasswordLength  = "Password must be between 5 and 32 characters!"
)

const (
	UsernameMinLen = 3
	UsernameMaxLen = 32
	PasswordMinLen = 5
	PasswordMaxLen = 32
)

var lettersOnly = regexp.MustCompile(`^[A-Za-z]+$`)

// Verdict is the result of validating one field: empty when valid,
// otherwise the reason the value was refused.
type Verdict string

// OK reports whether the field passed.
func (v Verdict) OK() bool { return v == "" }

func (v Verdict) String() string { return string(v) }

// Required runs first because Length and Match accept empty values.
var usernameRules = []validation.Rule{
	validation.Required.Error(MsgUsernameLength),
	validation.RuneLength(UsernameMinLen, UsernameMaxLen).Error(MsgUsernameLength),
	validation.Match(lettersOnly).Error(MsgUsernameLetters),
}

// Passwords have no character-class rule.
var passwordRules = []validation.Rule{
	validation.Required.Error(MsgPasswordLength),
	validation.RuneLength(PasswordMinLen, PasswordMaxLen).Error(MsgPasswordLength),
}

// ValidateUsername accepts 3 to 32 ASCII letters.
func ValidateUsername(text string) Verdict {
	return verdict(validation.Validate(text, usernameRules...))
}

// ValidatePassword accepts 5 to 32 characters of any kind.
func ValidatePassword(text string) Verdict {
	return verdict(validation.Validate(text, passwordRules...))
}

func verdict(err error) Verdict {
	if err == nil {
		return ""
	}
	return Verdict(err.Error())
}

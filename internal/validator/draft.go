package validator

// Errors holds the last verdict computed for each field of a Draft.
type Errors struct {
	UsernameError Verdict
	PasswordError Verdict
}

// Empty reports whether neither field currently carries a verdict.
func (e Errors) Empty() bool {
	return e.UsernameError.OK() && e.PasswordError.OK()
}

// Draft is the in-progress content of a login or register form. It belongs to
// the form that owns it; the session machine only ever receives a copy.
type Draft struct {
	Username string
	Password string
	Errors   Errors
}

// SetUsername replaces the username and revalidates it.
func (d *Draft) SetUsername(text string) Verdict {
	d.Username = text
	d.Errors.UsernameError = ValidateUsername(text)
	return d.Errors.UsernameError
}

// SetPassword replaces the password and revalidates it.
func (d *Draft) SetPassword(text string) Verdict {
	d.Password = text
	d.Errors.PasswordError = ValidatePassword(text)
	return d.Errors.PasswordError
}

// Validate recomputes both verdicts and reports whether the draft may be
// submitted.
func (d *Draft) Validate() bool {
	d.Errors.UsernameError = ValidateUsername(d.Username)
	d.Errors.PasswordError = ValidatePassword(d.Password)
	return d.Ready()
}

// Ready reports whether both fields are non-empty and pass their rules.
// It recomputes the verdicts, so a draft whose fields were assigned directly
// is judged on its current content.
func (d Draft) Ready() bool {
	if d.Username == "" || d.Password == "" {
		return false
	}
	return ValidateUsername(d.Username).OK() && ValidatePassword(d.Password).OK()
}

// Clear discards the draft after a successful submission.
func (d *Draft) Clear() {
	*d = Draft{}
}

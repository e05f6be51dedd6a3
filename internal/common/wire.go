package common

// UserBody is the identity returned by session check, login and register.
type UserBody struct {
	UserID   string `json:"userID"`
	Username string `json:"username"`
}

// UsersBody is the payload of the all-users listing.
type UsersBody struct {
	Users []UserBody `json:"users"`
}

// ErrorBody is the failure payload. Session checks answer with Message,
// everything else with Error.
type ErrorBody struct {
	Error   string `json:"Error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Text returns whichever of Error or Message is set.
func (b ErrorBody) Text() string {
	if b.Error != "" {
		return b.Error
	}
	return b.Message
}

package identity

// Result is the uniform outcome of every identity operation: either a
// freshly issued token pair, or an ordered list of user-facing error
// messages. Unexpected infrastructure faults are returned as a separate Go
// error, never inside Errors.
type Result struct {
	Success      bool
	AccessToken  string
	RefreshToken string
	Errors       []string
}

// User-facing failure messages.
const (
	msgEmailTaken           = "user with this email address already exists"
	msgUserNotFound         = "user does not exist"
	msgInvalidCredentials   = "email and password combination does not match"
	msgInvalidFacebookToken = "invalid facebook token"
	msgInvalidToken         = "invalid token"
	msgTokenNotExpired      = "this token hasn't expired yet"

	msgRefreshTokenNotFound    = "this refresh token does not exist"
	msgRefreshTokenExpired     = "this refresh token has expired"
	msgRefreshTokenInvalidated = "this refresh token has been invalidated"
	msgRefreshTokenUsed        = "this refresh token has been used"
	msgRefreshTokenMismatch    = "this refresh token does not match this token"
)

func failure(messages ...string) *Result {
	return &Result{Errors: messages}
}

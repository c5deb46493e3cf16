package domain

// AuthSession is the result of a successful signup, login, or refresh: the
// identity it was issued for plus the token pair. ExpiresIn is the configured
// access-token lifetime in seconds, fixed at issuance.
type AuthSession struct {
	UserID       string
	Email        string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

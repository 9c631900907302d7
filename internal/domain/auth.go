package domain

import "time"

// TokenPair bundles the tokens issued on login: a short-lived access token
// for authorizing requests and a longer-lived refresh token used solely to
// mint new access tokens.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

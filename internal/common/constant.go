package common

// AccessTokenCookieName and RefreshTokenCookieName are the cookie names used
// to carry session tokens between the API and its clients. Both cookies are
// always set and cleared together.
const (
	AccessTokenCookieName  = "accessToken"
	RefreshTokenCookieName = "refreshToken"
)

package models

// TokenResponse is the body returned by the Workday OAuth2 token endpoint
// when a refresh token is exchanged for an access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int    `json:"expires_in,omitempty"`
}

package model

// Credential holds the Canvas access token captured by the login flow. The
// token is opaque to the application; it is replaced wholesale on re-login.
type Credential struct {
	Token string
}

package auth

import "context"

// Service implements the authentication flows. Logout is handled entirely at
// the HTTP layer (cookie clearing) and has no service operation.
type Service interface {
	Signup(ctx context.Context, req *SignupRequest, ip string) (*SessionResult, error)
	Login(ctx context.Context, req *LoginRequest, ip string) (*SessionResult, error)

	// GithubLoginURL returns the provider authorize URL and the signed
	// state value the handler stores in a short-lived cookie.
	GithubLoginURL(ctx context.Context) (authURL string, signedState string, err error)

	GithubCallback(ctx context.Context, code, state, signedState, ip string) (*SessionResult, error)
}

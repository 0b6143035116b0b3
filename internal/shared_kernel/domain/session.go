package domain

import "context"

const (
	HeaderCSRFToken        = "X-CSRF-Token"
	HeaderAppSessionToken  = "X-App-Session-Token"
	HeaderUserSessionToken = "X-User-Session-Token"
)

// SessionTokens are the backend session credentials a UI request carries.
// They are forwarded untouched to the backend.
type SessionTokens struct {
	CSRFToken        string
	AppSessionToken  string
	UserSessionToken string
}

func (t SessionTokens) IsZero() bool {
	return t.CSRFToken == "" && t.AppSessionToken == "" && t.UserSessionToken == ""
}

type sessionTokensKey struct{}

func ContextWithSessionTokens(ctx context.Context, tokens SessionTokens) context.Context {
	return context.WithValue(ctx, sessionTokensKey{}, tokens)
}

func SessionTokensFromContext(ctx context.Context) (SessionTokens, bool) {
	tokens, ok := ctx.Value(sessionTokensKey{}).(SessionTokens)
	return tokens, ok
}

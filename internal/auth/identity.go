package auth

// Identity is the set of claims an OAuth provider asserts about a
// user after a successful authorization-code exchange. It contains
// facts only, no decisions; it is never persisted.
type Identity struct {
	Provider      string // e.g. "google"
	SubjectID     string // provider-scoped stable user identifier (sub)
	Email         string // address asserted by the provider
	EmailVerified bool   // whether the provider asserts email ownership
	Name          string // optional display name
	Picture       string // optional avatar URL
}

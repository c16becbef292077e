// Package directory defines the external account-profile collaborator.
// The core never issues sessions or authenticates anyone; it only looks
// up the canonical profile behind an already-authenticated account id.
package directory

import "context"

// Profile is the canonical account profile for a person id. Either field
// may be empty when the account has not filled it in yet.
type Profile struct {
	FullName    string `json:"full_name"`
	DisplayName string `json:"display_name"`
}

// Directory resolves account profiles. Implementations must treat lookup
// failures as transient; the reconciler simply retries on the next
// snapshot.
type Directory interface {
	Lookup(ctx context.Context, personID string) (Profile, error)
}

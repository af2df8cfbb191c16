package sessions

import (
	"slices"

	"github.com/jrsteele09/go-efact-client/token"
)

// User is the operator identity derived from the stored token's claims.
type User struct {
	Username    string
	Authorities []string
}

// HasAuthority reports whether the user was granted authority.
func (u *User) HasAuthority(authority string) bool {
	return u != nil && slices.Contains(u.Authorities, authority)
}

// State is the derived session view. It is never stored; Manager.State recomputes it
// from the token store and the clock.
type State struct {
	Authenticated bool
	User          *User
}

func userFromClaims(claims *token.Claims) *User {
	if claims == nil {
		return nil
	}
	authorities := []string(claims.Authorities)
	if authorities == nil {
		authorities = []string{}
	}
	return &User{
		Username:    claims.UserName,
		Authorities: authorities,
	}
}

func sameFlag(a, b bool) bool {
	return a == b
}

func sameUser(a, b *User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Username == b.Username && slices.Equal(a.Authorities, b.Authorities)
}

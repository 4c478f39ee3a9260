package shared

import "errors"

// ErrUnauthorized indicates the acting principal does not own the record it
// is trying to mutate.
var ErrUnauthorized = errors.New("caller is not the record owner")

// Principal is an opaque, host-verified identity. It is used both as the
// owner of a record and as the acting caller in authorization checks; the
// service never inspects its contents.
type Principal string

// IsZero reports whether the principal is empty.
func (p Principal) IsZero() bool {
	return p == ""
}

func (p Principal) String() string {
	return string(p)
}

// RequireOwner is the single owner-only mutation policy: it succeeds when
// the acting principal equals the record owner and returns ErrUnauthorized
// otherwise. Create operations pass the prospective owner as both arguments'
// reference point, since only the owner may originate records in their own
// name.
func RequireOwner(acting, owner Principal) error {
	if acting != owner {
		return ErrUnauthorized
	}
	return nil
}

// Package identity maps user and group names to numeric ids and back using
// the operating system's identity database. Lookups are stateless read-only
// queries; nothing is cached.
package identity

import (
	"errors"
	"fmt"
	"os/user"
	"strconv"
)

// ErrUnknown reports a name with no entry in the identity database.
var ErrUnknown = errors.New("unknown identity")

// Resolver performs name<->id lookups. The lookup functions default to
// os/user and are injectable for tests.
type Resolver struct {
	lookupUser    func(name string) (*user.User, error)
	lookupUserID  func(uid string) (*user.User, error)
	lookupGroup   func(name string) (*user.Group, error)
	lookupGroupID func(gid string) (*user.Group, error)
}

// NewResolver builds a resolver backed by the real identity database.
func NewResolver() *Resolver {
	return &Resolver{
		lookupUser:    user.Lookup,
		lookupUserID:  user.LookupId,
		lookupGroup:   user.LookupGroup,
		lookupGroupID: user.LookupGroupId,
	}
}

// NewResolverForTests creates a resolver with injectable lookups.
func NewResolverForTests(
	lookupUser func(string) (*user.User, error),
	lookupUserID func(string) (*user.User, error),
	lookupGroup func(string) (*user.Group, error),
	lookupGroupID func(string) (*user.Group, error),
) *Resolver {
	return &Resolver{
		lookupUser:    lookupUser,
		lookupUserID:  lookupUserID,
		lookupGroup:   lookupGroup,
		lookupGroupID: lookupGroupID,
	}
}

// UserID resolves a username to its numeric uid. A name with no database
// entry that is itself a decimal number is taken as a literal uid.
func (r *Resolver) UserID(name string) (int, error) {
	u, err := r.lookupUser(name)
	if err != nil {
		var unknown user.UnknownUserError
		if errors.As(err, &unknown) {
			if uid, numErr := strconv.Atoi(name); numErr == nil {
				return uid, nil
			}
			return 0, fmt.Errorf("%w: user %q", ErrUnknown, name)
		}
		return 0, err
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return 0, fmt.Errorf("non-numeric uid %q for user %q", u.Uid, name)
	}
	return uid, nil
}

// GroupID resolves a group name to its numeric gid, with the same literal
// numeric fallback as UserID.
func (r *Resolver) GroupID(name string) (int, error) {
	g, err := r.lookupGroup(name)
	if err != nil {
		var unknown user.UnknownGroupError
		if errors.As(err, &unknown) {
			if gid, numErr := strconv.Atoi(name); numErr == nil {
				return gid, nil
			}
			return 0, fmt.Errorf("%w: group %q", ErrUnknown, name)
		}
		return 0, err
	}
	gid, err := strconv.Atoi(g.Gid)
	if err != nil {
		return 0, fmt.Errorf("non-numeric gid %q for group %q", g.Gid, name)
	}
	return gid, nil
}

// UserName resolves a uid to its username, falling back to the numeric id
// as a string when the id has no mapping.
func (r *Resolver) UserName(uid int) string {
	id := strconv.Itoa(uid)
	u, err := r.lookupUserID(id)
	if err != nil {
		return id
	}
	return u.Username
}

// GroupName resolves a gid to its group name with the same numeric fallback.
func (r *Resolver) GroupName(gid int) string {
	id := strconv.Itoa(gid)
	g, err := r.lookupGroupID(id)
	if err != nil {
		return id
	}
	return g.Name
}

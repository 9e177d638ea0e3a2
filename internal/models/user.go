package models

import "github.com/dmitrijs2005/intelshare/internal/properties"

// UserPermissions is the permission code of a user.
type UserPermissions = properties.Bits[properties.UserFlag]

// User is an authenticated caller. The anonymous caller is a nil *User.
type User struct {
	ID          int64
	Username    string
	Email       string
	GroupID     int64 // 0 when the user belongs to no group
	Group       *Group
	Permissions UserPermissions
}

// HasGroup reports whether the user belongs to a loaded group.
func (u *User) HasGroup() bool {
	return u != nil && u.Group != nil
}

// Name is the actor name used in audit lines.
func (u *User) Name() string {
	if u == nil {
		return "anonymous"
	}
	return u.Username
}

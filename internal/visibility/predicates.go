package visibility

import (
	"github.com/dmitrijs2005/intelshare/internal/models"
	"github.com/dmitrijs2005/intelshare/internal/properties"
)

// IsUserPrivileged reports whether u carries the privileged flag.
func IsUserPrivileged(u *models.User) bool {
	return u != nil && u.Permissions.Has(properties.UserPrivileged)
}

// IsEventOwner reports whether u owns e. Privileged users own every event.
func IsEventOwner(e *models.Event, u *models.User) bool {
	if e == nil || u == nil {
		return false
	}
	if IsUserPrivileged(u) {
		return true
	}
	return u.GroupID != 0 && u.GroupID == e.OwnerGroupID
}

// IsEventViewableByGroup reports whether members of g may see e through
// ownership, TLP, or a grant held by g or one of its direct children.
func IsEventViewableByGroup(e *models.Event, g *models.Group) bool {
	if e == nil || g == nil {
		return false
	}
	if g.ID == e.OwnerGroupID {
		return true
	}
	if e.TLP >= MaxTLP(g) {
		return true
	}

	ids := append(g.ChildIDs(), g.ID)
	for _, grant := range e.Groups {
		for _, id := range ids {
			if grant.GroupID == id {
				return true
			}
		}
	}
	return false
}

// IsEventViewableByUser reports whether u may see e.
func IsEventViewableByUser(e *models.Event, u *models.User) bool {
	if IsEventOwner(e, u) {
		return true
	}
	if !u.HasGroup() {
		return false
	}
	return IsEventViewableByGroup(e, u.Group)
}

// IsItemViewable reports whether u may see an object or attribute. caps are
// the capabilities u's group holds on the enclosing event.
func IsItemViewable(item models.Item, caps models.Capabilities, u *models.User) bool {
	meta, ok := item.Meta()
	if !ok {
		// compositions have no TLP of their own
		return true
	}
	if meta.Validated() && meta.Shareable() {
		return true
	}
	if !meta.Validated() && caps.Has(properties.CanValidate) {
		return true
	}
	if !u.HasGroup() {
		return false
	}

	gid := u.Group.ID
	if gid == meta.OwnerGroupID || gid == meta.CreatorGroupID || gid == meta.OriginatingGroupID {
		return true
	}
	return meta.TLP >= MaxTLP(u.Group)
}

// CanDownload reports whether u may download content.
func CanDownload(u *models.User) bool {
	if u == nil {
		return false
	}
	if IsUserPrivileged(u) {
		return true
	}
	if !u.HasGroup() {
		return false
	}
	return u.Group.Permissions.Has(properties.GroupCanDownload)
}

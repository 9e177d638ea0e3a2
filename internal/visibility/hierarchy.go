// Package visibility holds the pure decision predicates: TLP propagation
// over the group hierarchy and the event, object and attribute visibility
// rules. Nothing in this package performs I/O; callers pass fully loaded
// entity snapshots.
package visibility

import (
	"github.com/dmitrijs2005/intelshare/internal/models"
	"github.com/dmitrijs2005/intelshare/internal/properties"
	"github.com/dmitrijs2005/intelshare/internal/tlp"
)

// MaxGroupDepth bounds the descendant walk below a propagating group.
const MaxGroupDepth = 32

type walkFrame struct {
	group *models.Group
	depth int
}

// MaxTLP returns the lowest TLP level a member of g may see content at.
//
// Without propagate_tlp this is the group's own level. With it, the level is
// the minimum over the group and its whole descendant subtree, so a
// permissive child widens what the parent sees. The descendants' own
// propagate_tlp flags are not consulted: a non-propagating child still passes
// its grandchildren's levels up, unlike a recursion through each child's
// effective level, which would stop at that child. A nil group gets
// tlp.Default. Cycles and over-deep trees end the walk instead of looping.
func MaxTLP(g *models.Group) tlp.Level {
	if g == nil {
		return tlp.Default
	}
	if !g.Permissions.Has(properties.GroupPropagateTLP) {
		return g.TLP
	}

	level := g.TLP
	seen := map[*models.Group]struct{}{g: {}}
	stack := []walkFrame{{group: g}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		level = tlp.Min(level, f.group.TLP)
		if f.depth >= MaxGroupDepth {
			continue
		}
		for _, child := range f.group.Children {
			if child == nil {
				continue
			}
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			stack = append(stack, walkFrame{group: child, depth: f.depth + 1})
		}
	}

	return level
}

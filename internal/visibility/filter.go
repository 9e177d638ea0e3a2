package visibility

import "github.com/dmitrijs2005/intelshare/internal/models"

// VisibleItems keeps the items u may see, in order.
func VisibleItems[T models.Item](items []T, caps models.Capabilities, u *models.User) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if IsItemViewable(it, caps, u) {
			out = append(out, it)
		}
	}
	return out
}

// VisibleObjects returns copies of the objects u may see. Attributes and
// child objects are filtered the same way; a hidden object hides its
// subtree. The input is left untouched.
func VisibleObjects(objects []*models.Object, caps models.Capabilities, u *models.User) []*models.Object {
	out := make([]*models.Object, 0, len(objects))
	for _, o := range VisibleItems(objects, caps, u) {
		cp := *o
		cp.Attributes = VisibleItems(o.Attributes, caps, u)
		cp.Children = VisibleObjects(o.Children, caps, u)
		out = append(out, &cp)
	}
	return out
}

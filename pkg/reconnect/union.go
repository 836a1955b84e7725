package reconnect

import "github.com/kstrandberg/uncouple/pkg/model"

// union delegates to the host's native merge primitive when the host offers
// one. Hosts without the capability, a false result, or an error all decline
// non-fatally — the chain falls through.
func (c *Chain) union(a, b *model.Segment) (bool, error) {
	u, ok := c.host.(model.Unioner)
	if !ok {
		return false, nil
	}
	merged, err := u.UnionSegments(a, b)
	if err != nil {
		return false, err
	}
	return merged, nil
}

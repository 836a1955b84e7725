package reconnect

import "github.com/kstrandberg/uncouple/pkg/model"

// connector links the first pair of free ports (one per segment) within the
// connector gate. Pure logical connectivity: geometry is untouched. A link
// the host rejects (incompatible ports) skips to the next candidate pair.
func (c *Chain) connector(a, b *model.Segment) (bool, error) {
	for _, pa := range c.host.Ports(a) {
		if !pa.Free() {
			continue
		}
		for _, pb := range c.host.Ports(b) {
			if !pb.Free() {
				continue
			}
			if pa.Origin().DistanceTo(pb.Origin()) > c.th.Connector {
				continue
			}
			if err := c.host.LinkPorts(pa, pb); err != nil {
				c.log.Debug("port pair incompatible, trying next", "err", err)
				continue
			}
			return true, nil
		}
	}
	return false, nil
}

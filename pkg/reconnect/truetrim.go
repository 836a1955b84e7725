package reconnect

import (
	"github.com/kstrandberg/uncouple/pkg/geom"
	"github.com/kstrandberg/uncouple/pkg/model"
)

// connectionRecord snapshots one external relationship of a donor port
// before the donor is deleted, so it can be re-established on the keeper.
// Created during a merge, consumed immediately after, discarded.
type connectionRecord struct {
	external *model.Port
	position geom.Point
}

// trueTrim merges two segments into one continuous segment. The longer
// segment (the keeper) is extended in place to absorb the shorter (the
// donor), which is deleted. Extending in place — never recreating — is what
// preserves the keeper's identity and metadata.
//
// If the host rejects the merged span, trueTrim degrades in-line to a
// single-sided extension of the keeper to the anchor point: the donor stays
// alive and connected, and the result is reported as degraded.
func (c *Chain) trueTrim(a, b *model.Segment) (applied, degraded bool, err error) {
	keeper, donor := a, b
	if donor.Length() > keeper.Length() {
		keeper, donor = donor, keeper
	}

	pair := nearestEndpoints(keeper.Span(), donor.Span())
	if pair.dist > c.th.TrueTrim {
		return false, false, nil
	}

	// The merged span runs from the keeper endpoint away from the donor to
	// the donor endpoint away from the keeper, absorbing the donor entirely.
	keeperFar := keeper.Span().Endpoints()[1-pair.ai]
	donorFar := donor.Span().Endpoints()[1-pair.bi]
	merged := preserveDirection(keeper.Span(), geom.NewSpan(keeperFar, donorFar))

	records := snapshotConnections(c.host, donor)

	if updateErr := c.host.UpdateSpan(keeper, merged); updateErr != nil {
		c.log.Debug("merge span rejected, extending single-sided",
			"keeper", keeper.ID(), "err", updateErr)
		ext := preserveDirection(keeper.Span(), respanTo(keeper.Span(), pair.ai, pair.b))
		if extErr := c.host.UpdateSpan(keeper, ext); extErr != nil {
			return false, false, extErr
		}
		// Donor is kept to preserve its connections; no merge happened.
		return true, true, nil
	}

	// Port positions moved with the new geometry: re-scan before re-linking.
	keeperPorts := c.host.Ports(keeper)
	for _, rec := range records {
		port := nearestFreePort(keeperPorts, rec.position)
		if port == nil || port.Origin().DistanceTo(rec.position) > c.th.Reattach {
			continue
		}
		if linkErr := c.host.LinkPorts(port, rec.external); linkErr != nil {
			c.log.Debug("re-link skipped", "keeper", keeper.ID(), "err", linkErr)
		}
	}

	// Sever the donor's remaining links so no dangling cross-references
	// survive its deletion.
	for _, p := range c.host.Ports(donor) {
		for _, ref := range p.Refs() {
			_ = c.host.UnlinkPorts(p, ref)
		}
	}
	if delErr := c.host.DeleteElement(donor.ID()); delErr != nil {
		// The merge already happened; a defunct donor is a cosmetic leak,
		// not a reason to fail the strategy.
		c.log.Warn("donor delete failed after merge", "donor", donor.ID(), "err", delErr)
	}

	return true, false, nil
}

// snapshotConnections captures every external relationship of seg's ports:
// references whose owner is a different element.
func snapshotConnections(host model.Host, seg *model.Segment) []connectionRecord {
	var records []connectionRecord
	for _, p := range host.Ports(seg) {
		if !p.Connected() {
			continue
		}
		for _, ref := range p.Refs() {
			if ref.Owner() != nil && ref.Owner().ID() == seg.ID() {
				continue
			}
			records = append(records, connectionRecord{external: ref, position: p.Origin()})
		}
	}
	return records
}

package playhead

import (
	"fmt"

	"github.com/roach88/layerdeck/internal/ir"
)

// ReferencePolicy decides which video's range bounds playback.
type ReferencePolicy string

const (
	// PolicyFirst uses the first video in store order that has a range.
	PolicyFirst ReferencePolicy = "first"
	// PolicyDesignated uses a video chosen by the user, falling back to
	// PolicyFirst while none is designated or the designated one is gone.
	PolicyDesignated ReferencePolicy = "designated"
)

// ParsePolicy validates a policy name. The empty string selects PolicyFirst.
func ParsePolicy(s string) (ReferencePolicy, error) {
	switch ReferencePolicy(s) {
	case "", PolicyFirst:
		return PolicyFirst, nil
	case PolicyDesignated:
		return PolicyDesignated, nil
	default:
		return "", fmt.Errorf("unknown reference policy %q (want %q or %q)", s, PolicyFirst, PolicyDesignated)
	}
}

// Reference returns the range that bounds playback, or nil when no video
// with a range exists. items must be in store order.
func Reference(items []ir.MediaItem, policy ReferencePolicy, designated ir.ItemID) *ir.TimeRange {
	if policy == PolicyDesignated && designated != "" {
		for _, item := range items {
			if item.ID == designated && item.IsVideo() && item.Range != nil {
				r := *item.Range
				return &r
			}
		}
	}
	for _, item := range items {
		if item.IsVideo() && item.Range != nil {
			r := *item.Range
			return &r
		}
	}
	return nil
}

// Package entity contains domain entities representing core browser-shell concepts.
// These entities are pure Go types with no infrastructure dependencies.
package entity

// WindowID identifies a top-level shell window.
type WindowID string

// TabID uniquely identifies a tab within the process.
type TabID string

// PaneID uniquely identifies a pane. Pane IDs are never reused.
type PaneID string

// SplitDirection says where a new pane goes relative to an existing one.
type SplitDirection int

const (
	// SplitNone appends the pane as a new top-level column.
	SplitNone SplitDirection = iota
	// SplitVertical places the pane in a new full-height column after the origin's column.
	SplitVertical
	// SplitHorizontal stacks the pane below the origin inside the origin's column.
	SplitHorizontal
)

// String returns a human-readable representation of the split direction.
func (d SplitDirection) String() string {
	switch d {
	case SplitVertical:
		return "vert"
	case SplitHorizontal:
		return "horz"
	default:
		return "none"
	}
}

// ParseSplitDirection maps the wire names used by UI commands.
func ParseSplitDirection(s string) SplitDirection {
	switch s {
	case "vert", "vertical":
		return SplitVertical
	case "horz", "horizontal":
		return SplitHorizontal
	default:
		return SplitNone
	}
}

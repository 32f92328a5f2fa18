// Package surface defines the design-surface port the renderer drives and an
// in-memory Scene that implements it.
//
// A surface owns every node it creates. Callers only hold NodeIDs, valid for
// the lifetime of the surface.
package surface

import (
	"context"
	"errors"
)

// Errors reported by surfaces.
var (
	// ErrNotAutoLayout is returned when fill sizing or grow is requested on a
	// node whose parent is not an auto-layout frame, or hug sizing on a frame
	// without auto-layout.
	ErrNotAutoLayout = errors.New("node is not inside an auto-layout frame")
	// ErrFontUnavailable is returned by LoadFont for fonts the surface does not have.
	ErrFontUnavailable = errors.New("font unavailable")
	// ErrFontNotLoaded is returned when text is set with a font that was never loaded.
	ErrFontNotLoaded = errors.New("font not loaded")
	// ErrUnknownNode is returned for IDs the surface did not create.
	ErrUnknownNode = errors.New("unknown node")
	// ErrWrongType is returned when an operation does not apply to the node type.
	ErrWrongType = errors.New("operation not supported for node type")
)

// Surface is the set of design-surface operations the renderer needs.
type Surface interface {
	CreateFrame(name string) (NodeID, error)
	CreateText(name string) (NodeID, error)

	// AppendChild moves child under parent, after existing children.
	AppendChild(parent, child NodeID) error
	// AppendToCanvas attaches a node to the current page.
	AppendToCanvas(id NodeID) error

	SetFills(id NodeID, fills []Paint) error
	SetStrokes(id NodeID, strokes []Paint, weights Edges) error
	SetEffects(id NodeID, effects []Effect) error
	SetCornerRadius(id NodeID, radius float64) error
	SetOpacity(id NodeID, opacity float64) error
	SetClip(id NodeID, clip bool) error
	SetRotation(id NodeID, radians float64) error

	SetLayout(id NodeID, layout AutoLayout) error
	// SetSizing sets both axes. Fill requires an auto-layout parent.
	SetSizing(id NodeID, horizontal, vertical Sizing) error
	SetGrow(id NodeID, grow float64) error
	SetSizeLimits(id NodeID, limits SizeLimits) error

	// Resize fixes both axes to the given size.
	Resize(id NodeID, width, height float64) error
	// Size returns the laid-out size of a node.
	Size(id NodeID) (width, height float64, err error)
	Move(id NodeID, x, y float64) error

	// LoadFont must succeed for a font before SetText uses it.
	LoadFont(ctx context.Context, font FontName) error
	SetText(id NodeID, props TextProps) error

	SetMeta(id NodeID, key, value string) error
	Meta(id NodeID, key string) (string, error)

	ViewportCenter() (x, y float64)
	Select(ids ...NodeID) error
}

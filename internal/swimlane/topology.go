package swimlane

import (
	"errors"
	"fmt"

	"cor_dashboard/internal/models"
)

// Configuration errors returned by NewTopology.
var (
	ErrMissingController   = errors.New("module configuration has no PX controller")
	ErrDuplicateController = errors.New("module configuration has more than one PX controller")
	ErrNoAnalyzer          = errors.New("module configuration has no analyzer module")
	ErrDuplicateSide       = errors.New("module configuration has two modules on the same side")
	ErrInvalidModule       = errors.New("invalid module in configuration")
)

// Shape names one of the eight valid configurations as Left-PX-Right.
type Shape string

const (
	ShapeEmptyPXMX Shape = "empty-PX-MX"
	ShapeMXPXEmpty Shape = "MX-PX-empty"
	ShapeEmptyPXGX Shape = "empty-PX-GX"
	ShapeGXPXEmpty Shape = "GX-PX-empty"
	ShapeMXPXMX    Shape = "MX-PX-MX"
	ShapeMXPXGX    Shape = "MX-PX-GX"
	ShapeGXPXMX    Shape = "GX-PX-MX"
	ShapeGXPXGX    Shape = "GX-PX-GX"
)

// Shapes lists all valid configurations.
var Shapes = []Shape{
	ShapeEmptyPXMX, ShapeMXPXEmpty, ShapeEmptyPXGX, ShapeGXPXEmpty,
	ShapeMXPXMX, ShapeMXPXGX, ShapeGXPXMX, ShapeGXPXGX,
}

// Topology is a validated module configuration. The zero value holds no
// modules; the only way to get a populated one is NewTopology.
type Topology struct {
	controller models.ModuleSlot
	left       *models.ModuleSlot
	right      *models.ModuleSlot
}

// NewTopology validates slots and returns the topology they describe.
// Slot order does not matter.
func NewTopology(slots []models.ModuleSlot) (Topology, error) {
	var (
		t             Topology
		hasController bool
	)
	for i := range slots {
		s := slots[i]
		switch {
		case s.ModuleName == models.ModulePX:
			if s.ModuleSide != models.SideNA {
				return Topology{}, fmt.Errorf("%w: PX on side %q", ErrInvalidModule, s.ModuleSide)
			}
			if hasController {
				return Topology{}, ErrDuplicateController
			}
			t.controller = s
			hasController = true
		case s.ModuleName.IsAnalyzer():
			switch s.ModuleSide {
			case models.SideLeft:
				if t.left != nil {
					return Topology{}, fmt.Errorf("%w: %s", ErrDuplicateSide, s.ModuleSide)
				}
				t.left = &s
			case models.SideRight:
				if t.right != nil {
					return Topology{}, fmt.Errorf("%w: %s", ErrDuplicateSide, s.ModuleSide)
				}
				t.right = &s
			default:
				return Topology{}, fmt.Errorf("%w: %s on side %q", ErrInvalidModule, s.ModuleName, s.ModuleSide)
			}
		default:
			return Topology{}, fmt.Errorf("%w: module name %q", ErrInvalidModule, s.ModuleName)
		}
	}
	if !hasController {
		return Topology{}, ErrMissingController
	}
	if t.left == nil && t.right == nil {
		return Topology{}, ErrNoAnalyzer
	}
	return t, nil
}

// Valid reports whether t came from a successful NewTopology call.
func (t Topology) Valid() bool {
	return t.controller.ModuleName == models.ModulePX
}

// Shape returns the configuration name, or "" for the zero Topology.
func (t Topology) Shape() Shape {
	if !t.Valid() {
		return ""
	}
	return Shape(sideName(t.left) + "-PX-" + sideName(t.right))
}

// Controller returns the PX slot.
func (t Topology) Controller() models.ModuleSlot { return t.controller }

// Left returns the left analyzer slot, if any.
func (t Topology) Left() (models.ModuleSlot, bool) { return deref(t.left) }

// Right returns the right analyzer slot, if any.
func (t Topology) Right() (models.ModuleSlot, bool) { return deref(t.right) }

func sideName(s *models.ModuleSlot) string {
	if s == nil {
		return "empty"
	}
	return string(s.ModuleName)
}

func deref(s *models.ModuleSlot) (models.ModuleSlot, bool) {
	if s == nil {
		return models.ModuleSlot{}, false
	}
	return *s, true
}

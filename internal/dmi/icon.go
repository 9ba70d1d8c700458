// Package dmi reads and writes DMI icon files: PNG spritesheets whose
// "Description" text chunk carries BYOND icon metadata.
package dmi

import (
	"image"
	"slices"
)

// Icon is a decoded DMI file: its cell dimensions and the ordered list of
// icon states laid out on the sheet.
type Icon struct {
	Version string
	Width   int
	Height  int
	States  []*State
}

// State is a single named icon state. Its frames occupy Dirs*Frames
// consecutive cells on the sheet, frame-major.
type State struct {
	Name     string
	Dirs     int
	Frames   int
	Delay    []float64
	Loop     int
	Rewind   bool
	Movement bool
	Hotspots []string
	// Extra holds metadata keys this package does not model, in file order.
	// They survive a round trip and participate in equality.
	Extra  [][2]string
	Images []image.Image
}

// FindState returns the first state with the given name, or nil.
func (ic *Icon) FindState(name string) *State {
	for _, st := range ic.States {
		if st.Name == name {
			return st
		}
	}
	return nil
}

// Equal reports whether two states have the same metadata and the same
// pixel data in every frame.
func (s *State) Equal(other *State) bool {
	if s.Name != other.Name ||
		s.Dirs != other.Dirs ||
		s.Frames != other.Frames ||
		s.Loop != other.Loop ||
		s.Rewind != other.Rewind ||
		s.Movement != other.Movement {
		return false
	}
	if !slices.Equal(s.Delay, other.Delay) ||
		!slices.Equal(s.Hotspots, other.Hotspots) ||
		!slices.Equal(s.Extra, other.Extra) {
		return false
	}
	if len(s.Images) != len(other.Images) {
		return false
	}
	for i := range s.Images {
		if !imagesEqual(s.Images[i], other.Images[i]) {
			return false
		}
	}
	return true
}

func imagesEqual(a, b image.Image) bool {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return false
	}
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			ar, ag, abl, aa := a.At(ab.Min.X+x, ab.Min.Y+y).RGBA()
			br, bg, bbl, ba := b.At(bb.Min.X+x, bb.Min.Y+y).RGBA()
			if ar != br || ag != bg || abl != bbl || aa != ba {
				return false
			}
		}
	}
	return true
}

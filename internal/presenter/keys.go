package presenter

import (
	"strings"

	"github.com/ziadkadry99/slidedeck/internal/render"
)

// HandleKey applies the keyboard contract and reports whether the key was
// consumed, in which case the surface should suppress its default action.
//
// Both layouts navigate with ArrowRight, Space and PageDown (next),
// ArrowLeft and PageUp (previous), Home and End (first and last). Escape
// leaves fullscreen. Ctrl+F or Meta+F enters fullscreen from the editor.
// While editing in the editor layout, navigation keys are left to the text
// being edited.
func (c *Controller) HandleKey(k Key) bool {
	layout, mode := c.Layout(), c.Mode()

	if layout == LayoutEditor && (k.Ctrl || k.Meta) && strings.EqualFold(k.Name, "f") {
		c.EnterFullscreen()
		return true
	}
	if k.Name == KeyEscape {
		if layout != LayoutFullscreen {
			return false
		}
		c.ExitFullscreen()
		return true
	}
	if layout == LayoutEditor && mode == render.ModeEdit {
		return false
	}

	switch k.Name {
	case KeyArrowRight, KeySpace, KeyPageDown:
		c.Next()
	case KeyArrowLeft, KeyPageUp:
		c.Prev()
	case KeyHome:
		c.First()
	case KeyEnd:
		c.Last()
	default:
		return false
	}
	return true
}

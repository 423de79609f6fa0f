package codegen

import "sort"

// eventProps maps DOM event names to the JSX prop that receives the handler.
var eventProps = map[string]string{
	"click":       "onClick",
	"dblclick":    "onDoubleClick",
	"input":       "onInput",
	"change":      "onChange",
	"submit":      "onSubmit",
	"reset":       "onReset",
	"select":      "onSelect",
	"keydown":     "onKeyDown",
	"keyup":       "onKeyUp",
	"keypress":    "onKeyPress",
	"focus":       "onFocus",
	"blur":        "onBlur",
	"mouseenter":  "onMouseEnter",
	"mouseleave":  "onMouseLeave",
	"mouseover":   "onMouseOver",
	"mouseout":    "onMouseOut",
	"mousedown":   "onMouseDown",
	"mouseup":     "onMouseUp",
	"mousemove":   "onMouseMove",
	"contextmenu": "onContextMenu",
	"scroll":      "onScroll",
	"wheel":       "onWheel",
	"touchstart":  "onTouchStart",
	"touchmove":   "onTouchMove",
	"touchend":    "onTouchEnd",
	"dragstart":   "onDragStart",
	"drag":        "onDrag",
	"dragend":     "onDragEnd",
	"dragenter":   "onDragEnter",
	"dragleave":   "onDragLeave",
	"dragover":    "onDragOver",
	"drop":        "onDrop",
	"load":        "onLoad",
	"error":       "onError",
	"copy":        "onCopy",
	"cut":         "onCut",
	"paste":       "onPaste",
}

// EventProp returns the JSX prop name for a DOM event.
func EventProp(event string) (string, bool) {
	prop, ok := eventProps[event]
	return prop, ok
}

// Events returns the supported event names, sorted.
func Events() []string {
	names := make([]string, 0, len(eventProps))
	for name := range eventProps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

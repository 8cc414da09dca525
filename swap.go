package deferblock

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// SwapMode defines HTMX swap strategies for how the rendered sub-view
// replaces the block's host element. The view swapper (§4.F) always uses
// SwapOuter for the transitions it drives itself — a defer block's whole
// wrapper element is replaced on every state change — but the constants
// are shared with action-style responses elsewhere in a host app.
//
// See https://htmx.org/attributes/hx-swap/ for visual examples.
type SwapMode string

const (
	// SwapOuter replaces the entire element including its tag (outerHTML).
	// This is the mode the view swapper uses for every state transition.
	SwapOuter SwapMode = "outerHTML"

	// SwapInner replaces only the element's contents, preserving the outer tag (innerHTML).
	SwapInner SwapMode = "innerHTML"

	// SwapBeforeEnd appends the response to the end of the target's contents (before closing tag).
	SwapBeforeEnd SwapMode = "beforeend"

	// SwapAfterEnd inserts the response after the target element (as next sibling).
	SwapAfterEnd SwapMode = "afterend"

	// SwapBeforeBegin inserts the response before the target element (as previous sibling).
	SwapBeforeBegin SwapMode = "beforebegin"

	// SwapAfterBegin prepends the response to the start of the target's contents (after opening tag).
	SwapAfterBegin SwapMode = "afterbegin"

	// SwapDelete removes the target element entirely. Response content is ignored.
	SwapDelete SwapMode = "delete"

	// SwapNone performs no swap - response is discarded.
	SwapNone SwapMode = "none"
)

// RenderState picks the sub-template factory matching inst's current main
// state and writes it to w (§4.F: "the sub-view for the new state is
// instantiated in the same host anchor"; at most one sub-view is rendered
// per instance at any time). projected, if non-nil, is passed straight
// through to whichever factory runs — content projection (§8.7) is just a
// templ.Component threaded from the call site into the active sub-view.
func RenderState(ctx context.Context, w io.Writer, inst *Instance, projected templ.Component) error {
	tmpl := inst.desc.tmpl

	var factory StateTemplate
	switch inst.main {
	case Placeholder:
		factory = tmpl.Placeholder
	case Loading:
		// §4.E: "If no @loading sub-template exists, the Loading state is
		// still entered internally but the placeholder sub-view remains
		// rendered."
		if tmpl.Loading != nil {
			factory = tmpl.Loading
		} else {
			factory = tmpl.Placeholder
		}
	case Complete:
		factory = tmpl.Main
	case Failed:
		factory = tmpl.Error
	}

	if factory == nil {
		// No sub-template declared for this state: empty region (§4.E).
		return nil
	}

	component := factory(ctx, inst.bundle, projected)
	if component == nil {
		return nil
	}
	return component.Render(ctx, w)
}

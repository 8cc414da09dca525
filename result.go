package deferblock

// FireResult is returned from a Descriptor's optional OnSettled hook to
// attach side effects to a main-channel settlement without writing
// directly to the ResponseWriter — the Registry applies it after Tick
// returns, the same way the teacher's generic Result[P] let an action
// handler describe intent and let the framework apply it.
//
// Unlike the teacher's Result[P], FireResult carries no props: a defer
// instance's payload is its Bundle, already rendered by the sub-template
// factory Tick selected, so there is nothing here to thread through beyond
// flashes, a cross-component event, and response metadata.
//
//	desc.OnSettled(func(ctx context.Context, bundle deferblock.Bundle, err error) deferblock.FireResult {
//	    if err != nil {
//	        return deferblock.Proceed().Flash(deferblock.FlashError, "Could not load widget")
//	    }
//	    return deferblock.Proceed().Trigger("widget:loaded")
//	})
type FireResult struct {
	flashes            []Flash
	trigger            string
	triggerData        map[string]any
	triggerAfterSettle string
	headers            map[string]string
	status             int
}

// Proceed returns a FireResult with no side effects — the default a
// Descriptor without an OnSettled hook behaves as.
func Proceed() FireResult {
	return FireResult{}
}

// Flash adds a flash message (toast notification), rendered as an
// out-of-band swap alongside the settled sub-view.
//
//	return deferblock.Proceed().Flash(deferblock.FlashSuccess, "Loaded!")
func (r FireResult) Flash(level, message string) FireResult {
	r.flashes = append(r.flashes, Flash{Level: level, Message: message})
	return r
}

// Trigger emits an event via HX-Trigger for other components on the page
// to react to, e.g. a sibling list refreshing once a deferred widget
// finishes loading.
func (r FireResult) Trigger(event string, data ...map[string]any) FireResult {
	r.trigger = event
	if len(data) > 0 {
		r.triggerData = data[0]
	}
	return r
}

// TriggerAfterSettle emits event via HX-Trigger-After-Settle, firing once
// the swap animation (if any) has settled rather than immediately.
func (r FireResult) TriggerAfterSettle(event string) FireResult {
	r.triggerAfterSettle = event
	return r
}

// Header sets a custom response header, applied alongside the rendered
// sub-view.
func (r FireResult) Header(key, value string) FireResult {
	if r.headers == nil {
		r.headers = make(map[string]string)
	}
	r.headers[key] = value
	return r
}

// Status overrides the HTTP status code of the fire response. The default
// is 200.
func (r FireResult) Status(code int) FireResult {
	r.status = code
	return r
}

// Flashes returns the flash messages attached to the result.
func (r FireResult) Flashes() []Flash { return r.flashes }

// Trigger event name, data, and after-settle variant, applied to the
// response's HX-Trigger / HX-Trigger-After-Settle headers.
func (r FireResult) TriggerEvent() (event string, data map[string]any) {
	return r.trigger, r.triggerData
}

// AfterSettleEvent returns the event fired via HX-Trigger-After-Settle, if
// any.
func (r FireResult) AfterSettleEvent() string { return r.triggerAfterSettle }

// Headers returns the custom response headers attached to the result.
func (r FireResult) Headers() map[string]string { return r.headers }

// StatusCode returns the HTTP status override, or 0 if unset (callers
// default to 200).
func (r FireResult) StatusCode() int { return r.status }

package deferblock

import (
	"encoding/json"
	"net/http"

	"github.com/a-h/templ"
)

// Render writes a templ component to the HTTP response.
//
// Sets Content-Type to text/html and renders the component using the
// request's context. Use this for non-defer-block pages or when manually
// rendering a component's output.
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    deferblock.Render(w, r, myTemplate())
//	}
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// IsHTMX returns true if the request originated from HTMX.
//
// HTMX sends HX-Request: true on all requests. A Registry uses this to
// reject a fire request that didn't actually come from the browser's
// trigger wiring.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// IsBoosted returns true if the request is a boosted navigation (hx-boost).
func IsBoosted(r *http.Request) bool {
	return r.Header.Get("HX-Boosted") == "true"
}

// CurrentURL returns the current URL from the HX-Current-URL header — the
// URL the browser is actually on, not the request URL of the fire
// endpoint itself.
func CurrentURL(r *http.Request) string {
	return r.Header.Get("HX-Current-URL")
}

// TriggerURL is an alias for CurrentURL, kept for call sites that read
// more naturally asking what triggered the fire request.
func TriggerURL(r *http.Request) string {
	return r.Header.Get("HX-Current-URL")
}

// TriggerName returns the name attribute of the element that triggered the
// request, if the trigger wiring included one.
func TriggerName(r *http.Request) string {
	return r.Header.Get("HX-Trigger-Name")
}

// TriggerID returns the id attribute of the element that triggered the
// request.
func TriggerID(r *http.Request) string {
	return r.Header.Get("HX-Trigger")
}

// TargetID returns the id attribute of the element that will receive the
// response (hx-target).
func TargetID(r *http.Request) string {
	return r.Header.Get("HX-Target")
}

// BuildTriggerHeader builds a properly formatted HX-Trigger header value
// from a FireResult's event/data, applied by Registry alongside the
// rendered sub-view.
//
//	"item-updated"                              -> "item-updated"
//	"filter:changed", {"status":"active"}       -> `{"filter:changed":{"status":"active"}}`
func BuildTriggerHeader(trigger string, triggerData map[string]any) string {
	if trigger == "" {
		return ""
	}
	if triggerData == nil {
		return trigger
	}
	data, _ := json.Marshal(map[string]any{trigger: triggerData})
	return string(data)
}

package deferblock

import (
	"context"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Flash levels for toast notifications.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// Flash represents a one-time notification message.
//
// Flash messages are rendered as out-of-band (OOB) swaps that append to
// the #toasts container. Each toast carries a data-auto-dismiss attribute
// (milliseconds); this module ships no script that reads it, so dismissal
// is left to the host page.
//
// Typical usage:
//
//	return deferblock.Proceed().Flash(deferblock.FlashSuccess, "Widget loaded!")
//
// Multiple flashes can be chained onto a single FireResult - each appears
// as a separate toast notification.
type Flash struct {
	Level   string // success, error, warning, info
	Message string
}

// RenderFlashesOOB renders flashes as OOB swap HTML.
//
// Generates HTML that appends to the #toasts container using the
// hx-swap-oob="beforeend" attribute. Called by Registry when dispatching a
// FireResult with flashes attached.
//
// The data-auto-dismiss attribute holds the delay (milliseconds) after
// which a host-page script may remove the toast.
func RenderFlashesOOB(flashes []Flash) string {
	if len(flashes) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<div id="toasts" hx-swap-oob="beforeend">`)

	for _, f := range flashes {
		sb.WriteString(`<div class="toast toast-`)
		sb.WriteString(html.EscapeString(f.Level))
		sb.WriteString(`" data-auto-dismiss="3000">`)
		sb.WriteString(html.EscapeString(f.Message))
		sb.WriteString(`</div>`)
	}

	sb.WriteString(`</div>`)
	return sb.String()
}

// ToastContainer returns a templ component for the toast container.
//
// Add this to your layout template (typically near the end of <body>):
//
//	@deferblock.ToastContainer()
//
// The container is targeted by OOB swaps from flash messages. It should
// be styled with CSS to position toasts (typically fixed top-right or
// bottom-right).
func ToastContainer() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div id="toasts" class="toast-container"></div>`)
		return err
	})
}

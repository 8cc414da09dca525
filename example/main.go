// Command dashboard is a runnable demo of every trigger kind side by
// side: an immediate-load stats tile, an idle-loaded weather tile, a
// viewport-triggered comment thread, a timer-loaded activity feed, a
// hover-preview profile card, and a click-to-load recommendations panel.
package main

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"

	"github.com/riftlab/deferblock"
	"github.com/riftlab/deferblock/example/data"
	"github.com/riftlab/deferblock/example/widgets"
)

func main() {
	store := data.NewStore()
	set := widgets.New(store)

	key := []byte("example-dev-key-not-for-prod!!!!")
	reg := deferblock.NewRegistry(key, nil)
	reg.Add(set.All()...)
	reg.SetOnDiagnostic(func(d deferblock.Diagnostic) {
		log.Printf("deferblock diagnostic: kind=%s descriptor=%s err=%v", d.Kind, d.DescriptorID, d.Err)
	})

	mux := http.NewServeMux()
	mux.Handle("/_defer/", reg.Handler())
	mux.HandleFunc("/", handleDashboard(reg, set))

	addr := ":8080"
	fmt.Printf("dashboard demo listening on http://localhost%s\n", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}

// tile mounts one defer block's placeholder into a wrapper div carrying
// whatever hx attributes its trigger needs, the server-side equivalent of
// what a template compiler's generated wiring would have produced for a
// defer block occurrence.
func tile(reg *deferblock.Registry, desc *deferblock.Descriptor, id string, w http.ResponseWriter, r *http.Request) {
	scope := deferblock.RootScope().NestedScope("#"+id, nil)

	var buf bytes.Buffer
	_, attrs, err := reg.Mount(r.Context(), &buf, desc, scope)
	if err != nil {
		fmt.Fprintf(w, `<div id="%s" class="tile" data-error="1">failed to mount widget</div>`, html.EscapeString(id))
		return
	}

	fmt.Fprintf(w, `<div id="%s" class="tile"`, html.EscapeString(id))
	for k, v := range attrs[deferblock.Main] {
		fmt.Fprintf(w, ` %s="%v"`, html.EscapeString(k), v)
	}
	io.WriteString(w, ">")
	w.Write(buf.Bytes())
	io.WriteString(w, "</div>\n")
}

func handleDashboard(reg *deferblock.Registry, set *widgets.Set) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>Dashboard</title>
  <script src="https://unpkg.com/htmx.org@1.9.12"></script>
</head>
<body>
  <h1>Dashboard</h1>
  <div id="toasts" class="toast-container"></div>
`)
		tile(reg, set.Stats, "stats", w, r)
		tile(reg, set.Weather, "weather", w, r)
		tile(reg, set.Comments, "comments", w, r)
		tile(reg, set.Activity, "activity", w, r)
		tile(reg, set.Profile, "profile", w, r)
		tile(reg, set.Recommendations, "recommendations", w, r)
		io.WriteString(w, `</body></html>`)
	}
}

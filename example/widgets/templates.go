package widgets

import (
	"context"
	"fmt"
	"html"
	"io"
	"time"

	"github.com/a-h/templ"
	"github.com/riftlab/deferblock"
	"github.com/riftlab/deferblock/example/data"
)

// htmlComponent builds a templ.Component from a plain HTML-writing
// function, for widgets simple enough not to warrant a compiled .templ
// file — the same shape deferblock.PlainTemplates uses for its test
// doubles, just with real markup instead of a label.
func htmlComponent(write func(io.Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		write(w)
		return nil
	})
}

func skeletonTemplate(label string) deferblock.StateTemplate {
	return func(ctx context.Context, bundle deferblock.Bundle, projected templ.Component) templ.Component {
		return htmlComponent(func(w io.Writer) {
			fmt.Fprintf(w, `<div class="widget widget-skeleton" aria-busy="true">%s…</div>`, html.EscapeString(label))
		})
	}
}

func loadingTemplate(label string) deferblock.StateTemplate {
	return func(ctx context.Context, bundle deferblock.Bundle, projected templ.Component) templ.Component {
		return htmlComponent(func(w io.Writer) {
			fmt.Fprintf(w, `<div class="widget widget-loading" aria-busy="true">Loading %s…</div>`, html.EscapeString(label))
		})
	}
}

func errorTemplate(label string) deferblock.StateTemplate {
	return func(ctx context.Context, bundle deferblock.Bundle, projected templ.Component) templ.Component {
		return htmlComponent(func(w io.Writer) {
			fmt.Fprintf(w, `<div class="widget widget-error">Could not load %s.</div>`, html.EscapeString(label))
		})
	}
}

func weatherMain() deferblock.StateTemplate {
	return func(ctx context.Context, bundle deferblock.Bundle, projected templ.Component) templ.Component {
		return htmlComponent(func(w io.Writer) {
			snap, ok := bundle[0].(data.WeatherSnapshot)
			if !ok {
				return
			}
			fmt.Fprintf(w, `<div class="widget widget-weather"><strong>%s</strong>: %d&deg;C, %s</div>`,
				html.EscapeString(snap.City), snap.TempC, html.EscapeString(snap.Forecast))
		})
	}
}

func statsMain() deferblock.StateTemplate {
	return func(ctx context.Context, bundle deferblock.Bundle, projected templ.Component) templ.Component {
		return htmlComponent(func(w io.Writer) {
			s, ok := bundle[0].(data.Stats)
			if !ok {
				return
			}
			fmt.Fprintf(w, `<div class="widget widget-stats"><span>%d active</span><span>%d reqs today</span><span>%.2f%% errors</span></div>`,
				s.ActiveUsers, s.RequestsToday, s.ErrorRate)
		})
	}
}

func commentsMain() deferblock.StateTemplate {
	return func(ctx context.Context, bundle deferblock.Bundle, projected templ.Component) templ.Component {
		return htmlComponent(func(w io.Writer) {
			comments, ok := bundle[0].([]data.Comment)
			if !ok {
				return
			}
			io.WriteString(w, `<div class="widget widget-comments"><ul>`)
			for _, c := range comments {
				fmt.Fprintf(w, `<li><strong>%s</strong>: %s <time>%s</time></li>`,
					html.EscapeString(c.Author), html.EscapeString(c.Body), c.Posted.Format(time.Kitchen))
			}
			io.WriteString(w, `</ul></div>`)
		})
	}
}

func activityMain() deferblock.StateTemplate {
	return func(ctx context.Context, bundle deferblock.Bundle, projected templ.Component) templ.Component {
		return htmlComponent(func(w io.Writer) {
			entries, ok := bundle[0].([]data.ActivityEntry)
			if !ok {
				return
			}
			io.WriteString(w, `<div class="widget widget-activity"><ul>`)
			for _, e := range entries {
				fmt.Fprintf(w, `<li>%s %s <time>%s</time></li>`,
					html.EscapeString(e.Actor), html.EscapeString(e.Action), e.At.Format(time.Kitchen))
			}
			io.WriteString(w, `</ul></div>`)
		})
	}
}

func profileMain() deferblock.StateTemplate {
	return func(ctx context.Context, bundle deferblock.Bundle, projected templ.Component) templ.Component {
		return htmlComponent(func(w io.Writer) {
			p, ok := bundle[0].(data.Profile)
			if !ok {
				return
			}
			fmt.Fprintf(w, `<div class="widget widget-profile"><strong>%s</strong><em>%s</em><p>%s</p></div>`,
				html.EscapeString(p.Name), html.EscapeString(p.Title), html.EscapeString(p.Bio))
		})
	}
}

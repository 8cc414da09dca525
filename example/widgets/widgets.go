// Package widgets declares the dashboard's defer-block descriptors: one
// per trigger kind, so the demo exercises viewport, idle, interaction,
// hover, timer, and immediate loading side by side.
package widgets

import (
	"context"
	"time"

	"github.com/riftlab/deferblock"
	"github.com/riftlab/deferblock/example/data"
)

// New builds every descriptor against store, in the order the dashboard
// template renders them.
func New(store *data.Store) *Set {
	return &Set{
		Stats:           newStatsDesc(store),
		Weather:         newWeatherDesc(store),
		Comments:        newCommentsDesc(store),
		Activity:        newActivityDesc(store),
		Profile:         newProfileDesc(store),
		Recommendations: newRecommendationsDesc(store),
	}
}

// Set groups the dashboard's descriptors for Registry.Add and for the
// handlers that mount each one onto the page.
type Set struct {
	Stats           *deferblock.Descriptor
	Weather         *deferblock.Descriptor
	Comments        *deferblock.Descriptor
	Activity        *deferblock.Descriptor
	Profile         *deferblock.Descriptor
	Recommendations *deferblock.Descriptor
}

// All returns every descriptor in the set, for bulk registration.
func (s *Set) All() []*deferblock.Descriptor {
	return []*deferblock.Descriptor{s.Stats, s.Weather, s.Comments, s.Activity, s.Profile, s.Recommendations}
}

// statsDesc loads immediately: the stats tile has no placeholder worth
// showing. The load is awaited during Mount, so the tile renders its main
// view directly and the loading template is not shown.
func newStatsDesc(store *data.Store) *deferblock.Descriptor {
	return deferblock.NewDescriptor("stats", deferblock.Templates{
		Main:    statsMain(),
		Loading: loadingTemplate("stats"),
		Error:   errorTemplate("stats"),
	}, func(ctx context.Context) (deferblock.Bundle, error) {
		s, err := store.Stats()
		if err != nil {
			return nil, err
		}
		return deferblock.Bundle{s}, nil
	}).OnImmediate(deferblock.Main)
}

// weatherDesc loads on an idle callback: a nice-to-have tile that
// shouldn't compete with anything the user is actively interacting with.
func newWeatherDesc(store *data.Store) *deferblock.Descriptor {
	return deferblock.NewDescriptor("weather", deferblock.Templates{
		Main:        weatherMain(),
		Placeholder: skeletonTemplate("weather"),
		Error:       errorTemplate("weather"),
	}, func(ctx context.Context) (deferblock.Bundle, error) {
		snap, err := store.Weather()
		if err != nil {
			return nil, err
		}
		return deferblock.Bundle{snap}, nil
	}).OnIdle(deferblock.Main)
}

// commentsDesc loads once scrolled into view — a long comment thread far
// down the page shouldn't cost anything until the reader gets there.
func newCommentsDesc(store *data.Store) *deferblock.Descriptor {
	return deferblock.NewDescriptor("comments", deferblock.Templates{
		Main:        commentsMain(),
		Placeholder: skeletonTemplate("comments"),
		Error:       errorTemplate("comments"),
	}, func(ctx context.Context) (deferblock.Bundle, error) {
		comments, err := store.Comments()
		if err != nil {
			return nil, err
		}
		return deferblock.Bundle{comments}, nil
	}).OnViewport(deferblock.Main, "")
}

// activityDesc loads once a 3s timer elapses. The loader is memoized per
// descriptor, so the tile settles on the feed as first loaded.
func newActivityDesc(store *data.Store) *deferblock.Descriptor {
	return deferblock.NewDescriptor("activity", deferblock.Templates{
		Main:        activityMain(),
		Placeholder: skeletonTemplate("activity"),
		Error:       errorTemplate("activity"),
	}, func(ctx context.Context) (deferblock.Bundle, error) {
		entries, err := store.Activity()
		if err != nil {
			return nil, err
		}
		return deferblock.Bundle{entries}, nil
	}).OnTimer(deferblock.Main, 3*time.Second)
}

// profileDesc loads on hover — a preview card that shouldn't cost a round
// trip until the user actually lingers over the author's name.
func newProfileDesc(store *data.Store) *deferblock.Descriptor {
	return deferblock.NewDescriptor("profile", deferblock.Templates{
		Main:        profileMain(),
		Placeholder: skeletonTemplate("profile"),
		Error:       errorTemplate("profile"),
	}, func(ctx context.Context) (deferblock.Bundle, error) {
		p, err := store.Profile("mina")
		if err != nil {
			return nil, err
		}
		return deferblock.Bundle{p}, nil
	}).OnHover(deferblock.Main, "")
}

// recommendationsDesc loads on click: an explicit "show recommendations"
// action the reader opts into, with a settlement hook that notifies
// sibling widgets via a cross-component event.
func newRecommendationsDesc(store *data.Store) *deferblock.Descriptor {
	return deferblock.NewDescriptor("recommendations", deferblock.Templates{
		Main:        commentsMain(), // reuses the list rendering shape
		Placeholder: skeletonTemplate("recommendations"),
		Loading:     loadingTemplate("recommendations"),
		Error:       errorTemplate("recommendations"),
	}, func(ctx context.Context) (deferblock.Bundle, error) {
		comments, err := store.Comments()
		if err != nil {
			return nil, err
		}
		return deferblock.Bundle{comments}, nil
	}).OnInteraction(deferblock.Main, "").
		OnSettled(func(ctx context.Context, bundle deferblock.Bundle, err error) deferblock.FireResult {
			if err != nil {
				return deferblock.Proceed().Flash(deferblock.FlashError, "Could not load recommendations")
			}
			return deferblock.Proceed().
				Flash(deferblock.FlashSuccess, "Recommendations ready").
				Trigger("recommendations:loaded")
		})
}

package pages

import (
	"context"

	"github.com/a-h/templ"

	"github.com/lilistrocel/ShroomLab/internal/app/domain/health"
)

var stateClasses = map[health.State]string{
	health.StateChecking:     "text-gray-500",
	health.StateConnected:    "text-green-700",
	health.StateDegraded:     "text-yellow-700",
	health.StateDisconnected: "text-red-700",
}

var stateIcons = map[health.State]string{
	health.StateConnected:    " ✅",
	health.StateDegraded:     " ⚠️",
	health.StateDisconnected: " ❌",
}

// StatusPlaceholder renders the initial "Checking…" text and asks HTMX to
// swap in the real result once the page has loaded.
func StatusPlaceholder(service string) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<span`)
		h.attr("id", "status-"+service)
		h.attr("class", classes("text-sm", stateClasses[health.StateChecking]))
		h.attr("data-state", string(health.StateChecking))
		h.attr("hx-get", "/status/"+service)
		h.raw(` hx-trigger="load" hx-swap="outerHTML">`)
		h.text(health.StateChecking.Label())
		h.raw(`</span>`)
	})
}

// StatusText is the resolved probe state for one service.
func StatusText(service string, state health.State) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<span`)
		h.attr("id", "status-"+service)
		h.attr("class", classes("text-sm", stateClasses[state]))
		h.attr("data-state", string(state))
		h.raw(`>`)
		h.text(state.Label() + stateIcons[state])
		h.raw(`</span>`)
	})
}

var cardTones = []string{"bg-green-50", "bg-blue-50", "bg-purple-50", "bg-yellow-50"}

// StatusGrid renders one card per target, each resolving on its own.
func StatusGrid(targets []health.Target) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<div id="system-status" class="grid grid-cols-1 md:grid-cols-4 gap-4">`)
		for i, t := range targets {
			h.raw(`<div`)
			h.attr("class", classes("text-center p-4 rounded-lg", cardTones[i%len(cardTones)]))
			h.raw(`><h3 class="font-medium text-gray-900">`)
			h.text(t.Label)
			h.raw(`</h3><p class="mt-1">`)
			h.child(ctx, StatusPlaceholder(t.Name))
			h.raw(`</p></div>`)
		}
		h.raw(`</div>`)
	})
}

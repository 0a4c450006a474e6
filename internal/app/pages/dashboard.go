package pages

import (
	"context"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lilistrocel/ShroomLab/internal/app/domain/health"
	"github.com/lilistrocel/ShroomLab/internal/app/models"
)

type DashboardProps struct {
	Profile      models.UserProfile
	ExpiresAt    *time.Time
	Services     []health.Target
	QuickActions []models.QuickAction
	Links        []models.ServiceLink
}

var roleClasses = map[models.Role]string{
	models.RoleAdmin:    "bg-red-100 text-red-800",
	models.RoleManager:  "bg-blue-100 text-blue-800",
	models.RoleOperator: "bg-green-100 text-green-800",
	models.RoleOther:    "bg-gray-100 text-gray-800",
}

// RoleBadge shows the raw role text, colored by the role it folds into.
func RoleBadge(p models.UserProfile) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<span id="role-badge"`)
		h.attr("class", classes("inline-flex px-2 py-1 text-xs font-semibold rounded-full", roleClasses[p.Role()]))
		h.attr("data-role", string(p.Role()))
		h.raw(`>`)
		h.text(cases.Upper(language.Und).String(p.RawRole))
		h.raw(`</span>`)
	})
}

func DashboardPage(props DashboardProps) templ.Component {
	return component(func(ctx context.Context, h *html) {
		p := props.Profile

		h.raw(`<section id="user-info" class="bg-white rounded-lg shadow p-6 mb-8">`)
		h.raw(`<h2 class="text-xl font-semibold text-gray-900 mb-4">User Information</h2>`)
		h.raw(`<dl class="grid grid-cols-1 md:grid-cols-2 gap-4">`)
		field(h, "username", "Username", p.Username)
		field(h, "email", "Email", p.Email)
		field(h, "full-name", "Full Name", p.FullName)
		h.raw(`<div><dt class="block text-sm font-medium text-gray-700">Role</dt><dd>`)
		h.child(ctx, RoleBadge(p))
		h.raw(`</dd></div>`)
		if props.ExpiresAt != nil {
			field(h, "session-expires", "Session expires", props.ExpiresAt.Local().Format("2006-01-02 15:04 MST"))
		}
		h.raw(`</dl></section>`)

		h.raw(`<section class="bg-white rounded-lg shadow p-6 mb-8"><h2 class="text-xl font-semibold text-gray-900 mb-4">System Status</h2>`)
		h.child(ctx, StatusGrid(props.Services))
		h.raw(`</section>`)

		h.raw(`<section class="bg-white rounded-lg shadow p-6 mb-8"><h2 class="text-xl font-semibold text-gray-900 mb-4">Quick Actions</h2>`)
		h.raw(`<div class="grid grid-cols-1 md:grid-cols-3 gap-4">`)
		for _, a := range props.QuickActions {
			h.raw(`<button type="button"`)
			h.attr("class", classes("p-4 border rounded-lg transition-colors text-left", "bg-"+a.Tone+"-50 border-"+a.Tone+"-200 hover:bg-"+a.Tone+"-100"))
			h.raw(`><div class="text-2xl mb-2">`)
			h.text(a.Icon)
			h.raw(`</div><h3 class="font-medium text-gray-900">`)
			h.text(a.Title)
			h.raw(`</h3><p class="text-sm text-gray-600 mt-1">`)
			h.text(a.Description)
			h.raw(`</p></button>`)
		}
		h.raw(`</div></section>`)

		h.raw(`<section class="bg-white rounded-lg shadow p-6"><h2 class="text-xl font-semibold text-gray-900 mb-4">API Documentation</h2>`)
		h.raw(`<div class="grid grid-cols-1 md:grid-cols-2 gap-4">`)
		for _, l := range props.Links {
			h.raw(`<a target="_blank" class="block p-4 border border-gray-200 rounded-lg hover:bg-gray-50"`)
			h.attr("href", l.URL)
			h.raw(`><h3 class="font-medium text-gray-900">`)
			h.text(l.Name)
			h.raw(`</h3><p class="text-sm text-gray-600 mt-1">`)
			h.text(l.Description)
			h.raw(`</p></a>`)
		}
		h.raw(`</div></section>`)
	})
}

func field(h *html, id, label, value string) {
	h.raw(`<div><dt class="block text-sm font-medium text-gray-700">`)
	h.text(label)
	h.raw(`</dt><dd class="text-gray-900"`)
	h.attr("id", id)
	h.raw(`>`)
	h.text(value)
	h.raw(`</dd></div>`)
}

// UnavailablePage is shown when the session is kept but the gateway could
// not confirm it.
func UnavailablePage(retryURL string) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<div id="unavailable" class="text-center py-16"><p class="text-red-600 mb-4">Failed to load user information. The server may be temporarily unavailable.</p>`)
		h.raw(`<a class="bg-green-600 text-white px-4 py-2 rounded-lg hover:bg-green-700"`)
		h.attr("href", retryURL)
		h.raw(`>Retry</a> <a href="/login" class="ml-4 text-green-700 underline">Go to Login</a></div>`)
	})
}

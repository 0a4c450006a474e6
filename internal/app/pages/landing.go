package pages

import (
	"context"

	"github.com/a-h/templ"

	"github.com/lilistrocel/ShroomLab/internal/app/models"
)

type LandingProps struct {
	GatewayService string
	Links          []models.ServiceLink
}

var features = []string{
	"Microservices Architecture",
	"Real-time IoT Monitoring",
	"Production Management",
	"Business Operations",
	"Analytics & Reporting",
}

func PublicLandingPage(props LandingProps) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<h1 class="text-3xl font-bold text-gray-900 mb-6">🍄 ShroomLab Management System</h1>`)

		h.raw(`<section class="bg-white rounded-lg shadow p-6 mb-6"><h2 class="text-xl font-semibold mb-2">System Status</h2>`)
		h.raw(`<p><strong>API Gateway:</strong> `)
		h.child(ctx, StatusPlaceholder(props.GatewayService))
		h.raw(`</p><p><strong>Frontend:</strong> Running ✅</p></section>`)

		h.raw(`<section class="bg-green-50 rounded-lg p-6 mb-6"><h2 class="text-xl font-semibold mb-2">🚀 Welcome to ShroomLab!</h2>`)
		h.raw(`<p>Your comprehensive mushroom farm management system is ready.</p><ul class="mt-2">`)
		for _, f := range features {
			h.raw(`<li>✅ `)
			h.text(f)
			h.raw(`</li>`)
		}
		h.raw(`</ul></section>`)

		h.raw(`<section class="bg-yellow-50 border border-yellow-200 rounded-lg p-6"><h3 class="font-semibold mb-2">🔗 Quick Links</h3><ul id="quick-links">`)
		for _, l := range props.Links {
			h.raw(`<li><a target="_blank" class="text-green-700 underline"`)
			h.attr("href", l.URL)
			h.raw(`>`)
			h.text(l.Name)
			h.raw(`</a></li>`)
		}
		h.raw(`<li><a href="/login" class="text-green-700 underline">Sign in</a></li>`)
		h.raw(`</ul></section>`)
	})
}

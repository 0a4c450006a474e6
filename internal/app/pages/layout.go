package pages

import (
	"context"

	"github.com/a-h/templ"

	"github.com/lilistrocel/ShroomLab/internal/app/models"
)

// LayoutPage wraps page content in the document shell and header.
func LayoutPage(data models.LayoutTempl) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(data.Title)
		h.raw(`</title>`)
		h.raw(`<script src="https://unpkg.com/htmx.org@2.0.4"></script>`)
		h.raw(`<script src="https://cdn.jsdelivr.net/npm/@tailwindcss/browser@4"></script>`)
		h.raw(`</head><body class="min-h-screen bg-gray-100">`)

		h.raw(`<header class="bg-white shadow-sm border-b"><div class="max-w-7xl mx-auto px-4 sm:px-6 lg:px-8">`)
		h.raw(`<div class="flex justify-between items-center py-4">`)
		h.raw(`<a href="/" class="flex items-center"><span class="text-2xl mr-2">🍄</span>`)
		h.raw(`<span class="text-xl font-semibold text-gray-900">ShroomLab</span></a>`)

		h.raw(`<nav class="flex items-center space-x-4">`)
		for _, item := range data.Nav.Items {
			cls := classes("text-sm text-gray-600 hover:text-gray-900")
			if item.Name == data.ActiveNav {
				cls = classes(cls, "text-green-700 font-medium")
			}
			h.raw(`<a`)
			h.attr("href", item.URL)
			h.attr("class", cls)
			h.raw(`>`)
			h.text(item.Name)
			h.raw(`</a>`)
		}
		if data.User != nil {
			h.raw(`<span id="welcome" class="text-sm text-gray-600">Welcome, `)
			h.text(data.User.DisplayName())
			h.raw(`</span>`)
			h.raw(`<form method="post" action="/logout" hx-post="/logout">`)
			h.raw(`<button type="submit" class="bg-red-600 text-white px-4 py-2 rounded-lg hover:bg-red-700 transition-colors">Logout</button>`)
			h.raw(`</form>`)
		}
		h.raw(`</nav></div></div></header>`)

		h.raw(`<main class="max-w-7xl mx-auto px-4 sm:px-6 lg:px-8 py-8">`)
		h.child(ctx, data.Content)
		h.raw(`</main>`)

		h.raw(`<footer class="text-center text-sm text-gray-500 py-6">ShroomLab v1.0.0 - Mushroom Farm Management System</footer>`)
		h.raw(`</body></html>`)
	})
}

package pages

import (
	"context"

	"github.com/a-h/templ"
)

type LoginProps struct {
	Username string
	Error    string
}

// LoginError is the inline message swapped into #login-response.
func LoginError(message string) templ.Component {
	return component(func(_ context.Context, h *html) {
		if message == "" {
			return
		}
		h.raw(`<div id="login-error" role="alert" class="mb-4 p-4 bg-red-50 border border-red-200 rounded-lg">`)
		h.raw(`<p class="text-red-600 text-sm">`)
		h.text(message)
		h.raw(`</p></div>`)
	})
}

func LoginPage(props LoginProps) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<div class="max-w-md w-full mx-auto space-y-8">`)
		h.raw(`<div class="text-center"><div class="mx-auto h-24 w-24 bg-green-600 rounded-full flex items-center justify-center mb-4"><span class="text-4xl">🍄</span></div>`)
		h.raw(`<h2 class="text-3xl font-bold text-gray-900 mb-2">Welcome to ShroomLab</h2>`)
		h.raw(`<p class="text-gray-600">Sign in to your mushroom farm management system</p></div>`)

		h.raw(`<div class="bg-white shadow-xl rounded-2xl p-8">`)
		h.raw(`<div id="login-response">`)
		h.child(ctx, LoginError(props.Error))
		h.raw(`</div>`)

		h.raw(`<form id="login-form" class="space-y-6" method="post" action="/login"`)
		h.raw(` hx-post="/login" hx-target="#login-response" hx-swap="innerHTML" hx-indicator="#login-loading">`)

		h.raw(`<div><label for="username" class="block text-sm font-medium text-gray-700 mb-2">Username</label>`)
		h.raw(`<input id="username" name="username" type="text" required autocomplete="username" placeholder="Enter your username"`)
		h.raw(` class="w-full px-4 py-3 border border-gray-300 rounded-lg"`)
		h.attr("value", props.Username)
		h.raw(`></div>`)

		h.raw(`<div><label for="password" class="block text-sm font-medium text-gray-700 mb-2">Password</label>`)
		h.raw(`<input id="password" name="password" type="password" required autocomplete="current-password" placeholder="Enter your password"`)
		h.raw(` class="w-full px-4 py-3 border border-gray-300 rounded-lg"></div>`)

		h.raw(`<button type="submit" class="w-full bg-green-600 hover:bg-green-700 text-white font-medium py-3 px-4 rounded-lg">`)
		h.raw(`<span id="login-loading" class="htmx-indicator">Signing in...</span> Sign In</button>`)
		h.raw(`</form>`)

		h.raw(`<div class="mt-6 p-4 bg-blue-50 border border-blue-200 rounded-lg">`)
		h.raw(`<h4 class="text-sm font-medium text-blue-900 mb-2">Default Credentials:</h4>`)
		h.raw(`<div class="text-xs text-blue-700 space-y-1"><div><strong>Admin:</strong> admin / admin123</div>`)
		h.raw(`<div><strong>Super Admin:</strong> superadmin / superadmin123</div></div></div>`)
		h.raw(`</div></div>`)
	})
}

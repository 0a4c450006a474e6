package models

import "github.com/a-h/templ"

type NavItem struct {
	Name string
	URL  string
	Icon string
}

type Navigation struct {
	Items []NavItem
}

type LayoutTempl struct {
	Title     string
	User      *UserProfile
	Nav       Navigation
	ActiveNav string
	Content   templ.Component
}

var MainNav = Navigation{
	Items: []NavItem{
		{Name: "Dashboard", URL: "/dashboard", Icon: "🍄"},
	},
}

var OfflineNav = Navigation{
	Items: []NavItem{
		{Name: "Home", URL: "/"},
		{Name: "Sign in", URL: "/login"},
	},
}

// ServiceLink is an external link rendered in the "API Documentation" card.
type ServiceLink struct {
	Name        string
	URL         string
	Description string
}

// QuickAction is a dashboard tile.
type QuickAction struct {
	Icon        string
	Title       string
	Description string
	Tone        string
}

var QuickActions = []QuickAction{
	{Icon: "🌱", Title: "Farm Management", Description: "Manage your mushroom farms", Tone: "green"},
	{Icon: "📊", Title: "IoT Monitoring", Description: "Real-time sensor data", Tone: "blue"},
	{Icon: "📈", Title: "Analytics", Description: "Production reports", Tone: "purple"},
}

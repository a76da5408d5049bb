package navigation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jakechorley/parking-admin/pkg/core/model"
)

// Page identifies one screen of the admin dashboard
type Page string

const (
	PageLogin          Page = "login"
	PageRegister       Page = "register"
	PageForgotPassword Page = "forgot-password"
	PageResetPassword  Page = "reset-password"
	PageDashboard      Page = "dashboard"
	PageBookings       Page = "bookings"
	PagePricing        Page = "pricing"
	PageAvailability   Page = "availability"
	PageLogs           Page = "logs"
	PageAlerts         Page = "alerts"
	PageSettings       Page = "settings"
	PageStaff          Page = "staff"
)

var (
	ErrUnknownPage = errors.New("unknown page")
	ErrForbidden   = errors.New("page requires admin role")
	ErrNotLoggedIn = errors.New("not logged in")
)

// MenuItem is one entry of the navigation menu
type MenuItem struct {
	Page      Page
	Label     string
	AdminOnly bool
}

var menu = []MenuItem{
	{Page: PageDashboard, Label: "Dashboard"},
	{Page: PageBookings, Label: "Bookings"},
	{Page: PagePricing, Label: "Pricing"},
	{Page: PageAvailability, Label: "Availability"},
	{Page: PageLogs, Label: "Logs"},
	{Page: PageAlerts, Label: "Alerts"},
	{Page: PageSettings, Label: "Settings"},
	{Page: PageStaff, Label: "Staff", AdminOnly: true},
}

var publicPages = map[Page]bool{
	PageLogin:          true,
	PageRegister:       true,
	PageForgotPassword: true,
	PageResetPassword:  true,
}

// ParsePage converts a page name into a Page
func ParsePage(name string) (Page, error) {
	p := Page(name)
	if publicPages[p] {
		return p, nil
	}
	for _, item := range menu {
		if item.Page == p {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownPage, name)
}

// RequiresAuth reports whether the page is only reachable with a session
func (p Page) RequiresAuth() bool {
	return !publicPages[p]
}

// MenuItems returns the menu entries visible to a role
func MenuItems(role model.Role) []MenuItem {
	items := make([]MenuItem, 0, len(menu))
	for _, item := range menu {
		if item.AdminOnly && role != model.RoleAdmin {
			continue
		}
		items = append(items, item)
	}
	return items
}

// Router tracks the current page. It is safe for concurrent use since a 401 can
// arrive from any goroutine of a bulk update.
type Router struct {
	mu      sync.Mutex
	current Page
	onLogin func()
}

// NewRouter creates a router starting on page. onLogin, if set, runs whenever the
// router is forced back to the login page from somewhere else.
func NewRouter(start Page, onLogin func()) *Router {
	return &Router{current: start, onLogin: onLogin}
}

// Current returns the page being shown
func (r *Router) Current() Page {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Navigate switches to page. loggedIn and role gate the authenticated and admin-only pages.
func (r *Router) Navigate(page Page, loggedIn bool, role model.Role) error {
	if _, err := ParsePage(string(page)); err != nil {
		return err
	}
	if page.RequiresAuth() && !loggedIn {
		return ErrNotLoggedIn
	}
	if page == PageStaff && role != model.RoleAdmin {
		return ErrForbidden
	}

	r.mu.Lock()
	r.current = page
	r.mu.Unlock()
	return nil
}

// ToLogin sends the operator back to the login page
func (r *Router) ToLogin() {
	r.mu.Lock()
	already := r.current == PageLogin
	r.current = PageLogin
	r.mu.Unlock()

	if !already && r.onLogin != nil {
		r.onLogin()
	}
}

// Package guard decides whether a navigation may proceed given the session state.
package guard

import (
	"strings"

	"catalog_portal/internal/client/session"
)

type Decision int

const (
	// Wait means the session is still loading; nothing should be shown yet.
	Wait Decision = iota
	Allow
	RedirectToLogin
)

func (d Decision) String() string {
	switch d {
	case Wait:
		return "wait"
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect_to_login"
	}
	return "unknown"
}

const LoginPath = "/login"

// Decide is the gate for protected routes.
func Decide(state session.State) Decision {
	switch {
	case state.Loading:
		return Wait
	case state.User != nil:
		return Allow
	default:
		return RedirectToLogin
	}
}

type RouteKind int

const (
	RouteUnknown RouteKind = iota
	RouteLogin
	RouteDashboard
	RouteProduct
	RouteProfile
)

// Route is a resolved portal path. Param holds the product id for RouteProduct.
type Route struct {
	Kind  RouteKind
	Param string
}

// Match maps a path onto the portal's route table.
func Match(path string) Route {
	path = strings.TrimSuffix(path, "/")
	switch {
	case path == LoginPath:
		return Route{Kind: RouteLogin}
	case path == "/dashboard":
		return Route{Kind: RouteDashboard}
	case path == "/usuario":
		return Route{Kind: RouteProfile}
	case strings.HasPrefix(path, "/producto/"):
		id := strings.TrimPrefix(path, "/producto/")
		if id != "" && !strings.Contains(id, "/") {
			return Route{Kind: RouteProduct, Param: id}
		}
	}
	return Route{Kind: RouteUnknown}
}

// Resolve applies the route table: the login page is public, known pages are
// gated by Decide, and anything else goes to the login page.
func Resolve(path string, state session.State) (Decision, Route) {
	route := Match(path)
	switch route.Kind {
	case RouteLogin:
		return Allow, route
	case RouteUnknown:
		return RedirectToLogin, route
	}
	return Decide(state), route
}

package guard

import (
	"testing"

	"catalog_portal/internal/client/session"
	"catalog_portal/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

var (
	loading   = session.State{Loading: true}
	anonymous = session.State{}
	signedIn  = session.State{User: &model.UserSnapshot{ID: "1", Username: "ana"}, Token: "t"}
)

func TestDecide(t *testing.T) {
	assert.Equal(t, Wait, Decide(loading))
	assert.Equal(t, RedirectToLogin, Decide(anonymous))
	assert.Equal(t, Allow, Decide(signedIn))
}

func TestDecide_LoadingNeverRedirects(t *testing.T) {
	// A stale user left over while loading still waits.
	st := signedIn
	st.Loading = true
	assert.Equal(t, Wait, Decide(st))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		path     string
		state    session.State
		decision Decision
		route    Route
	}{
		{"/login", anonymous, Allow, Route{Kind: RouteLogin}},
		{"/login", loading, Allow, Route{Kind: RouteLogin}},
		{"/dashboard", anonymous, RedirectToLogin, Route{Kind: RouteDashboard}},
		{"/dashboard", loading, Wait, Route{Kind: RouteDashboard}},
		{"/dashboard/", signedIn, Allow, Route{Kind: RouteDashboard}},
		{"/producto/123", signedIn, Allow, Route{Kind: RouteProduct, Param: "123"}},
		{"/producto/", signedIn, RedirectToLogin, Route{Kind: RouteUnknown}},
		{"/usuario", signedIn, Allow, Route{Kind: RouteProfile}},
		{"/anything", signedIn, RedirectToLogin, Route{Kind: RouteUnknown}},
	}
	for _, tt := range tests {
		d, r := Resolve(tt.path, tt.state)
		assert.Equal(t, tt.decision, d, tt.path)
		assert.Equal(t, tt.route, r, tt.path)
	}
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "redirect_to_login", RedirectToLogin.String())
}

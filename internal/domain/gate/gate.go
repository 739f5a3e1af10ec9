// Package gate implements the navigation gate state machine that decides
// which view a client presents: the disclaimer, a redirect into onboarding,
// or the main app. The decision is a pure function of the persisted gate
// flags, the current route, and the clock.
package gate

import "time"

// View is the single view a resolution selects. Exactly one view is
// presented per resolution.
type View string

const (
	ViewDisclaimer         View = "disclaimer"
	ViewOnboardingRedirect View = "onboarding_redirect"
	ViewMainApp            View = "main_app"
)

// Routes the gate itself navigates to.
const (
	OnboardingRoute = "/onboarding"
	DashboardRoute  = "/dashboard"
	RootRoute       = "/"
)

// BypassWindow is the grace period after onboarding completes during which
// the gate always resolves to the main app. Without it the gate re-evaluates
// against flags that may not have been persisted yet and flickers back to
// the disclaimer.
const BypassWindow = 10 * time.Second

// publicRoutes are marketing and auth pages the disclaimer and onboarding
// gates never apply to.
var publicRoutes = map[string]struct{}{
	"/pricing": {},
	"/login":   {},
	"/signup":  {},
	"/terms":   {},
	"/privacy": {},
	"/about":   {},
}

// State carries the persisted gate flags plus the transient onboarding
// completion timestamp. A zero OnboardingFinishedAt means no bypass.
type State struct {
	DisclaimerAccepted   bool      `json:"disclaimerAccepted"`
	OnboardingCompleted  bool      `json:"onboardingCompleted"`
	Authenticated        bool      `json:"isAuthenticated"`
	OnboardingFinishedAt time.Time `json:"onboardingFinishedAt,omitempty"`
}

// Decision is the outcome of a gate resolution. RedirectTo is non-empty when
// the client should navigate before rendering; ResetScroll asks the client
// to reset scroll position after the redirect.
type Decision struct {
	View        View   `json:"view"`
	RedirectTo  string `json:"redirectTo,omitempty"`
	ResetScroll bool   `json:"resetScroll,omitempty"`
}

// Resolve evaluates the transition policy for a route change. Policy order:
//
//  1. Active bypass window forces the main app, no further checks.
//  2. Public routes force the main app.
//  3. Disclaimer not accepted and onboarding not completed: disclaimer.
//  4. Disclaimer accepted but onboarding not completed: redirect into
//     onboarding unless already there.
//  5. Main app; at the root route an authenticated user is redirected to
//     the dashboard with a scroll reset.
func Resolve(s State, route string, now time.Time) Decision {
	if s.bypassActive(now) {
		return Decision{View: ViewMainApp}
	}

	if _, ok := publicRoutes[route]; ok {
		return Decision{View: ViewMainApp}
	}

	switch {
	case !s.DisclaimerAccepted && !s.OnboardingCompleted:
		return Decision{View: ViewDisclaimer}
	case s.DisclaimerAccepted && !s.OnboardingCompleted:
		d := Decision{View: ViewOnboardingRedirect}
		if route != OnboardingRoute {
			d.RedirectTo = OnboardingRoute
		}
		return d
	}

	d := Decision{View: ViewMainApp}
	if route == RootRoute && s.Authenticated {
		d.RedirectTo = DashboardRoute
		d.ResetScroll = true
	}
	return d
}

// IsPublicRoute reports whether the gate ignores the given route.
func IsPublicRoute(route string) bool {
	_, ok := publicRoutes[route]
	return ok
}

func (s State) bypassActive(now time.Time) bool {
	if s.OnboardingFinishedAt.IsZero() {
		return false
	}
	elapsed := now.Sub(s.OnboardingFinishedAt)
	return elapsed >= 0 && elapsed < BypassWindow
}

// AcceptDisclaimer persists the disclaimer flag; the next resolution moves
// into onboarding.
func (s State) AcceptDisclaimer() State {
	s.DisclaimerAccepted = true
	return s
}

// CompleteOnboarding marks onboarding done and arms the bypass window.
func (s State) CompleteOnboarding(now time.Time) State {
	s.OnboardingCompleted = true
	s.OnboardingFinishedAt = now
	return s
}

package gate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveTruthTable(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		state State
		route string
		want  Decision
	}{
		{
			name:  "fresh visitor sees disclaimer",
			state: State{},
			route: "/dashboard",
			want:  Decision{View: ViewDisclaimer},
		},
		{
			name:  "disclaimer accepted redirects into onboarding",
			state: State{DisclaimerAccepted: true},
			route: "/dashboard",
			want:  Decision{View: ViewOnboardingRedirect, RedirectTo: OnboardingRoute},
		},
		{
			name:  "already on onboarding gets no redirect target",
			state: State{DisclaimerAccepted: true},
			route: OnboardingRoute,
			want:  Decision{View: ViewOnboardingRedirect},
		},
		{
			name:  "onboarded user reaches the main app",
			state: State{DisclaimerAccepted: true, OnboardingCompleted: true},
			route: "/meal-plan",
			want:  Decision{View: ViewMainApp},
		},
		{
			name:  "authenticated user at root is sent to the dashboard",
			state: State{DisclaimerAccepted: true, OnboardingCompleted: true, Authenticated: true},
			route: RootRoute,
			want:  Decision{View: ViewMainApp, RedirectTo: DashboardRoute, ResetScroll: true},
		},
		{
			name:  "anonymous user at root stays at root",
			state: State{DisclaimerAccepted: true, OnboardingCompleted: true},
			route: RootRoute,
			want:  Decision{View: ViewMainApp},
		},
		{
			name:  "public route skips the disclaimer",
			state: State{},
			route: "/pricing",
			want:  Decision{View: ViewMainApp},
		},
		{
			name:  "public route skips the onboarding redirect",
			state: State{DisclaimerAccepted: true},
			route: "/login",
			want:  Decision{View: ViewMainApp},
		},
		{
			name:  "onboarding completed without disclaimer still enters",
			state: State{OnboardingCompleted: true},
			route: "/dashboard",
			want:  Decision{View: ViewMainApp},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.state, tt.route, now))
		})
	}
}

func TestBypassWindowForcesMainApp(t *testing.T) {
	now := time.Now()

	// Flags race persistence right after onboarding; the window hides that.
	state := State{OnboardingFinishedAt: now.Add(-2 * time.Second)}
	assert.Equal(t, Decision{View: ViewMainApp}, Resolve(state, "/dashboard", now))

	state = State{OnboardingFinishedAt: now.Add(-BypassWindow)}
	assert.Equal(t, ViewDisclaimer, Resolve(state, "/dashboard", now).View)

	state = State{OnboardingFinishedAt: now.Add(5 * time.Second)}
	assert.Equal(t, ViewDisclaimer, Resolve(state, "/dashboard", now).View)
}

func TestStateTransitions(t *testing.T) {
	now := time.Now()

	state := State{}.AcceptDisclaimer()
	assert.True(t, state.DisclaimerAccepted)
	assert.False(t, state.OnboardingCompleted)

	state = state.CompleteOnboarding(now)
	assert.True(t, state.OnboardingCompleted)
	assert.Equal(t, now, state.OnboardingFinishedAt)
	assert.Equal(t, ViewMainApp, Resolve(state, "/dashboard", now.Add(time.Second)).View)
}

func TestIsPublicRoute(t *testing.T) {
	assert.True(t, IsPublicRoute("/pricing"))
	assert.True(t, IsPublicRoute("/terms"))
	assert.False(t, IsPublicRoute("/dashboard"))
	assert.False(t, IsPublicRoute("/"))
}

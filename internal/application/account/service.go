// Package account implements signup, login, session lookup, navigation gate
// state, and the entitlement feature gate.
package account

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealpathway/v1/internal/domain/gate"
	"github.com/mealpathway/v1/internal/domain/user"
	"github.com/mealpathway/v1/internal/ports/inbound"
	"github.com/mealpathway/v1/internal/ports/outbound"
	"github.com/mealpathway/v1/pkg/errors"
)

// Service implements inbound.AccountService.
type Service struct {
	userRepo       outbound.UserRepository
	cache          outbound.CacheRepository
	tokens         outbound.TokenIssuer
	planLookupKeys map[string]string
	entitlementTTL time.Duration
	logger         *zap.Logger
}

// NewService creates an account service. planLookupKeys maps an entitlement
// name to the billing checkout lookup key offered when access is denied.
func NewService(
	userRepo outbound.UserRepository,
	cache outbound.CacheRepository,
	tokens outbound.TokenIssuer,
	planLookupKeys map[string]string,
	entitlementTTL time.Duration,
	logger *zap.Logger,
) *Service {
	if entitlementTTL <= 0 {
		entitlementTTL = 5 * time.Minute
	}
	return &Service{
		userRepo:       userRepo,
		cache:          cache,
		tokens:         tokens,
		planLookupKeys: planLookupKeys,
		entitlementTTL: entitlementTTL,
		logger:         logger.Named("account-service"),
	}
}

// Register creates a new user account and signs them in.
func (s *Service) Register(ctx context.Context, cmd inbound.RegisterCommand) (*inbound.AuthResult, error) {
	u, err := user.NewUser(cmd.Email, cmd.Name, cmd.Password)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	u.RecordLogin(cmd.DeviceID)

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", u.ID().String()))
	return s.authResult(u)
}

// Login verifies credentials and returns a fresh session.
func (s *Service) Login(ctx context.Context, cmd inbound.LoginCommand) (*inbound.AuthResult, error) {
	u, err := s.userRepo.FindByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, errors.NewInvalidCredentialsError()
	}
	if !u.CheckPassword(cmd.Password) {
		return nil, errors.NewInvalidCredentialsError()
	}

	u.RecordLogin(cmd.DeviceID)
	if err := s.userRepo.Update(ctx, u); err != nil {
		s.logger.Warn("login bookkeeping update failed",
			zap.String("user_id", u.ID().String()), zap.Error(err))
	}

	return s.authResult(u)
}

// GetSession returns the user behind an authenticated session.
func (s *Service) GetSession(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// UpdateGateFlags applies the submitted gate flags to the user and persists
// them. Completing onboarding arms the post-onboarding bypass window.
func (s *Service) UpdateGateFlags(ctx context.Context, userID uuid.UUID, cmd inbound.GateFlagsCommand) (gate.State, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return gate.State{}, err
	}

	state := u.GateState()
	if cmd.DisclaimerAccepted != nil && *cmd.DisclaimerAccepted {
		state = state.AcceptDisclaimer()
	}
	if cmd.OnboardingCompleted != nil && *cmd.OnboardingCompleted {
		state = state.CompleteOnboarding(time.Now())
	}

	u.SetGateState(state)
	if err := s.userRepo.Update(ctx, u); err != nil {
		return gate.State{}, err
	}

	state.Authenticated = true
	return state, nil
}

// GetGateFlags returns the persisted gate flags for a signed-in user.
func (s *Service) GetGateFlags(ctx context.Context, userID uuid.UUID) (gate.State, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return gate.State{}, err
	}
	state := u.GateState()
	state.Authenticated = true
	return state, nil
}

// ResolveGate evaluates the navigation gate for a route change. Anonymous
// clients resolve against a zero state.
func (s *Service) ResolveGate(ctx context.Context, cmd inbound.ResolveGateCommand) (gate.Decision, error) {
	var state gate.State
	if cmd.UserID != nil {
		u, err := s.userRepo.FindByID(ctx, *cmd.UserID)
		if err != nil {
			return gate.Decision{}, err
		}
		state = u.GateState()
		state.Authenticated = true
	}
	return gate.Resolve(state, cmd.Route, time.Now()), nil
}

// RequireFeature checks the user's entitlements, consulting the cache before
// the repository. A miss yields an upgrade_required error carrying the plan
// checkout lookup key for the missing feature.
func (s *Service) RequireFeature(ctx context.Context, userID uuid.UUID, feature user.Entitlement) error {
	entitlements, err := s.cachedEntitlements(ctx, userID)
	if err != nil {
		return err
	}

	for _, tag := range entitlements {
		if tag == feature {
			return nil
		}
	}
	return errors.NewUpgradeRequiredError(string(feature), s.planLookupKeys[string(feature)])
}

func (s *Service) cachedEntitlements(ctx context.Context, userID uuid.UUID) ([]user.Entitlement, error) {
	key := fmt.Sprintf("entitlements:%s", userID)

	if data, err := s.cache.Get(ctx, key); err == nil {
		var cached []user.Entitlement
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	entitlements := u.Entitlements()

	if data, err := json.Marshal(entitlements); err == nil {
		if err := s.cache.Set(ctx, key, data, s.entitlementTTL); err != nil {
			s.logger.Debug("entitlement cache write failed", zap.Error(err))
		}
	}
	return entitlements, nil
}

func (s *Service) authResult(u *user.User) (*inbound.AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(u.ID().String(), u.Email())
	if err != nil {
		return nil, errors.NewInternalError("failed to issue access token").WithCause(err)
	}
	return &inbound.AuthResult{
		User:        u,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"staykart/internal/auth"
	"staykart/internal/model"
	"staykart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// authService implements AuthService.
type authService struct {
	tx        repository.TxBeginner
	users     repository.UserRepository
	carts     repository.CartRepository
	orders    repository.OrderRepository
	tokens    TokenIssuer
	blacklist TokenRevoker
	logger    zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	tx repository.TxBeginner,
	users repository.UserRepository,
	carts repository.CartRepository,
	orders repository.OrderRepository,
	tokens TokenIssuer,
	blacklist TokenRevoker,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		tx:        tx,
		users:     users,
		carts:     carts,
		orders:    orders,
		tokens:    tokens,
		blacklist: blacklist,
		logger:    logger.With().Str("service", "auth").Logger(),
	}
}

func (s *authService) Register(ctx context.Context, req *model.RegisterRequest, sessionID string) (*model.AuthResponse, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:             uuid.New(),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:   hash,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Phone:          req.Phone,
		Role:           model.RoleCustomer,
		MembershipTier: model.TierStandard,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = inTx(ctx, s.tx, s.logger, func(tx pgx.Tx) error {
		if err := s.users.Create(ctx, tx, user); err != nil {
			return err
		}
		return s.adoptSession(ctx, tx, sessionID, user.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user registered")
	return s.respond(user)
}

func (s *authService) Login(ctx context.Context, req *model.LoginRequest, sessionID string) (*model.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		s.logger.Debug().Msg("login for unknown email")
		return nil, model.ErrInvalidCredentials
	}

	ok, err := auth.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("stored password hash is unusable")
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		s.logger.Debug().Str("user_id", user.ID.String()).Msg("wrong password")
		return nil, model.ErrInvalidCredentials
	}

	if sessionID != "" {
		err = inTx(ctx, s.tx, s.logger, func(tx pgx.Tx) error {
			return s.adoptSession(ctx, tx, sessionID, user.ID)
		})
		if err != nil {
			return nil, err
		}
	}

	return s.respond(user)
}

// adoptSession moves the guest cart and guest orders of sessionID to the user.
func (s *authService) adoptSession(ctx context.Context, tx pgx.Tx, sessionID string, userID uuid.UUID) error {
	if sessionID == "" {
		return nil
	}

	// Lock both carts so a concurrent add cannot slip between merge steps.
	if err := s.carts.LockOwner(ctx, tx, model.CartOwner{SessionID: sessionID}); err != nil {
		return err
	}
	if err := s.carts.LockOwner(ctx, tx, model.CartOwner{UserID: &userID}); err != nil {
		return err
	}

	rows, err := s.carts.MergeSession(ctx, tx, sessionID, userID)
	if err != nil {
		return err
	}
	orders, err := s.orders.AssignSessionOrders(ctx, tx, sessionID, userID)
	if err != nil {
		return err
	}

	if rows > 0 || orders > 0 {
		s.logger.Info().
			Str("user_id", userID.String()).
			Int("cart_rows", rows).
			Int64("orders", orders).
			Msg("guest session adopted")
	}
	return nil
}

func (s *authService) respond(user *model.User) (*model.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to issue token")
		return nil, err
	}
	return &model.AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if err := s.blacklist.AddToBlacklist(ctx, jti, time.Until(expiresAt)); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	s.logger.Debug().Str("jti", jti).Msg("token revoked")
	return nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, model.ErrNotFound
	}
	return user, nil
}

package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"budgettracker/internal/auth"
	"budgettracker/internal/domain"
	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/events"
	"budgettracker/internal/logger"
	"budgettracker/internal/models"
)

// errConcurrentRotation aborts a rotation whose token was revoked by a
// parallel request between the read and the conditional update.
var errConcurrentRotation = errors.New("refresh token was rotated concurrently")

// TokenOptions configures the token service.
type TokenOptions struct {
	RefreshTTL time.Duration
	// RevokeAllOnReuse revokes every active token of a user when a token that
	// was already rotated is presented again.
	RevokeAllOnReuse bool
	Clock            domain.Clock
	Publisher        events.Publisher
}

// AccessTokenSigner mints short-lived access tokens. *auth.JWTManager
// satisfies it.
type AccessTokenSigner interface {
	Generate(user *domain.User) (string, time.Time, error)
	TTL() time.Duration
}

// tokenService issues access tokens and maintains the refresh token chain.
type tokenService struct {
	db        *gorm.DB
	jwt       AccessTokenSigner
	opts      TokenOptions
	clock     domain.Clock
	publisher events.Publisher
}

// NewTokenService creates a new TokenServicer.
func NewTokenService(db *gorm.DB, jwt AccessTokenSigner, opts TokenOptions) TokenServicer {
	s := &tokenService{db: db, jwt: jwt, opts: opts, clock: opts.Clock, publisher: opts.Publisher}
	if s.clock == nil {
		s.clock = domain.SystemClock{}
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	if s.opts.RefreshTTL <= 0 {
		s.opts.RefreshTTL = 7 * 24 * time.Hour
	}
	return s
}

// IssuePair mints a fresh access token and starts a new refresh chain.
func (s *tokenService) IssuePair(ctx context.Context, user *models.User, ip string) (*TokenPair, error) {
	now := s.clock.Now()
	access, err := s.sign(user)
	if err != nil {
		return nil, err
	}
	raw, refresh, err := s.newRefreshToken(user.ID, now, ip)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(models.RefreshTokenFromDomain(refresh)).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.pair(access, raw, refresh), nil
}

// Refresh rotates a refresh token: the presented token is revoked with a
// pointer to its successor and a new pair is returned. Revoking the old
// token and storing the new one happen in one database transaction, and
// the access token is signed before it so that a signing failure leaves the
// presented token usable.
func (s *tokenService) Refresh(ctx context.Context, refreshToken, ip string) (*TokenPair, error) {
	db := s.db.WithContext(ctx)
	now := s.clock.Now()

	row, err := s.findByRaw(db, refreshToken)
	if err != nil {
		return nil, err
	}
	current := row.ToDomain()

	if err := current.ValidateForRefresh(now); err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			return nil, apperrors.ErrRefreshTokenExpired
		}
		if current.WasRotated() {
			s.handleReuse(ctx, current, ip, now)
		}
		return nil, apperrors.ErrRefreshTokenRevoked
	}

	var userRow models.User
	if err := db.First(&userRow, current.UserID()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRefreshTokenInvalid
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !userRow.IsActive {
		return nil, apperrors.ErrAccountDeactivated
	}

	access, err := s.sign(&userRow)
	if err != nil {
		return nil, err
	}
	raw, next, err := s.newRefreshToken(userRow.ID, now, ip)
	if err != nil {
		return nil, err
	}
	if err := current.Revoke(now, ip, raw); err != nil {
		return nil, err
	}
	revoked := current.State()

	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.RefreshToken{}).
			Where("id = ? AND revoked_at IS NULL", row.ID).
			Updates(map[string]interface{}{
				"revoked_at":             revoked.RevokedAt,
				"revoked_by_ip":          revoked.RevokedByIP,
				"replaced_by_token_hash": revoked.ReplacedByTokenHash,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errConcurrentRotation
		}
		return tx.Create(models.RefreshTokenFromDomain(next)).Error
	})
	if err != nil {
		if errors.Is(err, errConcurrentRotation) {
			return nil, apperrors.ErrRefreshTokenRevoked
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.pair(access, raw, next), nil
}

// Revoke ends a refresh chain without a successor, as on logout.
func (s *tokenService) Revoke(ctx context.Context, refreshToken, ip string) error {
	db := s.db.WithContext(ctx)
	now := s.clock.Now()

	row, err := s.findByRaw(db, refreshToken)
	if err != nil {
		return err
	}
	token := row.ToDomain()
	if err := token.Revoke(now, ip, ""); err != nil {
		return err
	}
	state := token.State()

	res := db.Model(&models.RefreshToken{}).
		Where("id = ? AND revoked_at IS NULL", row.ID).
		Updates(map[string]interface{}{
			"revoked_at":    state.RevokedAt,
			"revoked_by_ip": state.RevokedByIP,
		})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAlreadyRevoked
	}
	return nil
}

// RevokeAllForUser revokes every active refresh token of the user and
// returns how many were revoked.
func (s *tokenService) RevokeAllForUser(ctx context.Context, userID uint, ip string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Updates(map[string]interface{}{
			"revoked_at":    s.clock.Now(),
			"revoked_by_ip": ip,
		})
	if res.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	return res.RowsAffected, nil
}

func (s *tokenService) findByRaw(db *gorm.DB, raw string) (*models.RefreshToken, error) {
	if raw == "" {
		return nil, apperrors.ErrRefreshTokenInvalid
	}
	var row models.RefreshToken
	if err := db.Where("token_hash = ?", domain.HashToken(raw)).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRefreshTokenInvalid
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &row, nil
}

// handleReuse reacts to a rotated token being presented again, which means
// the chain has leaked.
func (s *tokenService) handleReuse(ctx context.Context, token *domain.RefreshToken, ip string, now time.Time) {
	logger.Get().Warnw("refresh token reuse detected",
		"user_id", token.UserID(),
		"token_id", token.ID(),
		"ip", ip,
	)

	var revoked int64
	if s.opts.RevokeAllOnReuse {
		n, err := s.RevokeAllForUser(ctx, token.UserID(), ip)
		if err != nil {
			logger.Get().Errorw("failed to revoke refresh tokens after reuse", "error", err, "user_id", token.UserID())
		}
		revoked = n
	}

	err := s.publisher.Publish(ctx, events.New(events.RefreshTokenReuse, now, map[string]any{
		"user_id":  token.UserID(),
		"token_id": token.ID(),
		"ip":       ip,
		"revoked":  revoked,
	}))
	if err != nil {
		logger.Get().Warnw("failed to publish reuse event", "error", err)
	}
}

func (s *tokenService) newRefreshToken(userID uint, now time.Time, ip string) (string, *domain.RefreshToken, error) {
	raw, err := auth.NewRefreshTokenValue()
	if err != nil {
		return "", nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	token, err := domain.NewRefreshToken(userID, raw, now.Add(s.opts.RefreshTTL), now, ip)
	if err != nil {
		return "", nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return raw, token, nil
}

// signedAccess is an access token together with its expiry.
type signedAccess struct {
	token     string
	expiresAt time.Time
}

func (s *tokenService) sign(user *models.User) (signedAccess, error) {
	token, expiresAt, err := s.jwt.Generate(user.ToDomain())
	if err != nil {
		return signedAccess{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return signedAccess{token: token, expiresAt: expiresAt}, nil
}

func (s *tokenService) pair(access signedAccess, raw string, refresh *domain.RefreshToken) *TokenPair {
	return &TokenPair{
		AccessToken:           access.token,
		RefreshToken:          raw,
		TokenType:             "Bearer",
		ExpiresIn:             int64(s.jwt.TTL().Seconds()),
		AccessTokenExpiresAt:  access.expiresAt,
		RefreshTokenExpiresAt: refresh.ExpiresAt(),
	}
}

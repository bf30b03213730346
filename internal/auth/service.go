package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ms-events/internal/apperror"
	"ms-events/internal/kafka"
	"ms-events/internal/logger"
	"ms-events/internal/metrics"
	"ms-events/internal/models"
	"ms-events/internal/validation"

	"github.com/google/uuid"
)

type UserDBLayer interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetActiveUserByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	UserExists(ctx context.Context, username, email string) (bool, error)
	ActivateUser(ctx context.Context, code string) (*models.User, error)
	SetRefreshToken(ctx context.Context, userID, token string) error
	UpdatePassword(ctx context.Context, userID, hash string) error
	UpdateProfile(ctx context.Context, userID, fullName, profilePicture string) (*models.User, error)
}

type Service struct {
	DB               UserDBLayer
	Tokens           *TokenManager
	Revoker          TokenRevoker
	Publisher        kafka.Publisher
	RegisteredTopic  string
	ActivationSecret string
	Logger           *logger.Logger
}

func NewService(db UserDBLayer, tokens *TokenManager, revoker TokenRevoker, publisher kafka.Publisher, topic, activationSecret string, log *logger.Logger) *Service {
	return &Service{
		DB:               db,
		Tokens:           tokens,
		Revoker:          revoker,
		Publisher:        publisher,
		RegisteredTopic:  topic,
		ActivationSecret: activationSecret,
		Logger:           log,
	}
}

func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	exists, err := s.DB.UserExists(ctx, req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewConflict("email or username already registered")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	id := uuid.NewString()
	user := &models.User{
		ID:             id,
		FullName:       req.FullName,
		Username:       req.Username,
		Email:          strings.ToLower(req.Email),
		Password:       hash,
		Role:           models.RoleMember,
		ProfilePicture: models.DefaultProfilePicture,
		ActivationCode: ActivationCode(id, s.ActivationSecret),
	}
	if err := s.DB.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.Logger.LogSecurity("REGISTER", fmt.Sprintf("user %s registered", user.ID))
	s.publishRegistered(ctx, user)
	return user, nil
}

func (s *Service) publishRegistered(ctx context.Context, user *models.User) {
	if s.Publisher == nil {
		return
	}
	event := models.UserRegisteredEvent{
		UserID:         user.ID,
		FullName:       user.FullName,
		Email:          user.Email,
		ActivationCode: user.ActivationCode,
		CreatedAt:      user.CreatedAt,
	}
	if err := kafka.PublishJSON(ctx, s.Publisher, s.RegisteredTopic, user.ID, event); err != nil {
		metrics.PublishFailure(s.RegisteredTopic)
		s.Logger.LogKafka("PUBLISH_FAILED", s.RegisteredTopic, err.Error())
	}
}

// Login issues a token pair and stores the refresh half as the user's only session.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.TokenPair, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.DB.GetActiveUserByIdentifier(ctx, req.Identifier)
	if err != nil {
		if apperror.Is(err, apperror.NotFound) {
			s.Logger.LogSecurity("LOGIN_FAILED", "unknown or inactive identifier")
			return nil, apperror.NewUnauthorized("user not found")
		}
		return nil, err
	}

	if !CheckPassword(user.Password, req.Password) {
		s.Logger.LogSecurity("LOGIN_FAILED", fmt.Sprintf("wrong password for user %s", user.ID))
		return nil, apperror.NewUnauthorized("user not found")
	}

	access, err := s.Tokens.IssueAccessToken(user)
	if err != nil {
		return nil, apperror.NewInternal("failed to sign token", err)
	}
	refresh, err := s.Tokens.IssueRefreshToken(user)
	if err != nil {
		return nil, apperror.NewInternal("failed to sign token", err)
	}
	if err := s.DB.SetRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, err
	}

	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh trades the cookie's refresh token for a new access token. The token
// must equal the one stored at last login.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	if refreshToken == "" {
		return nil, apperror.NewUnauthorized("refresh token is missing")
	}

	claims, err := s.Tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.DB.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if apperror.Is(err, apperror.NotFound) {
			return nil, apperror.NewUnauthorized("invalid refresh token")
		}
		return nil, err
	}
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		s.Logger.LogSecurity("REFRESH_REJECTED", fmt.Sprintf("stale refresh token for user %s", user.ID))
		return nil, apperror.NewUnauthorized("invalid refresh token")
	}

	access, err := s.Tokens.IssueAccessToken(user)
	if err != nil {
		return nil, apperror.NewInternal("failed to sign token", err)
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refreshToken}, nil
}

func (s *Service) Activation(ctx context.Context, req models.ActivationRequest) (*models.User, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.DB.ActivateUser(ctx, req.Code)
	if err != nil {
		if apperror.Is(err, apperror.NotFound) {
			return nil, apperror.NewValidation("Invalid activation code")
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.DB.GetUserByID(ctx, userID)
}

func (s *Service) UpdatePassword(ctx context.Context, userID string, req models.UpdatePasswordRequest) (*models.User, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.DB.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !CheckPassword(user.Password, req.OldPassword) {
		return nil, apperror.NewValidation("Old password not match",
			apperror.FieldError{Field: "oldPassword", Message: "Old password not match"})
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}
	if err := s.DB.UpdatePassword(ctx, userID, hash); err != nil {
		return nil, err
	}

	s.Logger.LogSecurity("PASSWORD_CHANGED", fmt.Sprintf("user %s", userID))
	user.Password = hash
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	picture := req.ProfilePicture
	if picture == "" {
		picture = models.DefaultProfilePicture
	}
	return s.DB.UpdateProfile(ctx, userID, req.FullName, picture)
}

// Logout drops the stored refresh token and revokes the presented access token.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if claims == nil {
		return apperror.NewUnauthorized("unauthorized")
	}
	if err := s.DB.SetRefreshToken(ctx, claims.UserID, ""); err != nil {
		return err
	}

	if s.Revoker != nil && claims.ExpiresAt != nil {
		if err := s.Revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			s.Logger.Warn("AUTH", "failed to revoke access token: "+err.Error())
		}
	}
	s.Logger.LogSecurity("LOGOUT", fmt.Sprintf("user %s", claims.UserID))
	return nil
}

// RefreshCookieMaxAge is how long browsers keep the refresh cookie.
func (s *Service) RefreshCookieMaxAge() time.Duration {
	return s.Tokens.RefreshTTL()
}

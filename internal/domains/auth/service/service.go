package service

import (
	"context"
	"errors"
	"fmt"
	"studio/config"
	"studio/infras/jwt"
	"studio/infras/kafka"
	"studio/infras/otel"
	"studio/internal/domains/auth/model/dto"
	"studio/internal/domains/notification/event"
	notificationModel "studio/internal/domains/notification/model"
	notificationRepo "studio/internal/domains/notification/repository"
	userModel "studio/internal/domains/user/model"
	userRepo "studio/internal/domains/user/repository"
	"studio/shared"
	"studio/shared/constant"
	gDto "studio/shared/dto"
	"studio/shared/failure"
	"studio/shared/password"
	"studio/shared/principal"
	gRepo "studio/shared/repository"
	"studio/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	msgInvalidCredentials = "The provided credentials are incorrect."
	msgEmailTaken         = "The email has already been taken."
	msgWrongPassword      = "The current password is incorrect."
)

type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.TokenResponse, error)
	Logout(ctx context.Context, accessToken string, req dto.LogoutRequest) error
	ChangePassword(ctx context.Context, actor principal.Principal, req dto.ChangePasswordRequest) error
}

type serviceImpl struct {
	userRepo         userRepo.User
	notificationRepo notificationRepo.Notification
	transactor       gRepo.Transactor
	publisher        kafka.Publisher
	jwtService       jwt.JWT
	denylist         jwt.Denylist
	cfg              *config.Config
	otel             otel.Otel
}

func New(
	userRepo userRepo.User,
	notificationRepo notificationRepo.Notification,
	transactor gRepo.Transactor,
	publisher kafka.Publisher,
	jwtService jwt.JWT,
	denylist jwt.Denylist,
	cfg *config.Config,
	otel otel.Otel,
) Auth {
	return &serviceImpl{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		transactor:       transactor,
		publisher:        publisher,
		jwtService:       jwtService,
		denylist:         denylist,
		cfg:              cfg,
		otel:             otel,
	}
}

func emailFilter(email string) gDto.FilterGroup {
	return shared.FilterBy(userModel.FieldEmail, email, userModel.TableName)
}

func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (res dto.AuthResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Register")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	exists, err := s.userRepo.Exist(ctx, emailFilter(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return res, fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return res, failure.Conflict(msgEmailTaken) // nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	user := req.ToUserModel(constant.ContextGuest, hashedPassword)

	notification, err := notificationModel.NewUserRegistered(notificationModel.NewUser{
		UserID:    user.ID,
		UserName:  user.Name,
		UserEmail: user.Email,
	}, user.ID, user.CreatedAt)
	if err != nil {
		return res, fmt.Errorf("failed to build registration notification: %w", err)
	}

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.userRepo.InsertTx(ctx, tx, user); err != nil {
			return err //nolint:wrapcheck
		}

		return s.notificationRepo.InsertTx(ctx, tx, notification) //nolint:wrapcheck
	})
	if err != nil {
		if gRepo.IsUniqueViolation(err, userModel.ConstraintEmailKey) {
			return res, failure.Conflict(msgEmailTaken) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to register user")

		return res, fmt.Errorf("failed to register user: %w", err)
	}

	go func() {
		event.Publish(context.WithoutCancel(ctx), s.publisher, s.cfg.Kafka.Topic, s.cfg.App.Name, notification)
	}()

	tokenPair, err := s.jwtService.GenerateTokenPair(ctx, user.ID, user.Email, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	res.FromModel(user, tokenPair)

	return res, nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.AuthResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, err := s.userRepo.Get(ctx, emailFilter(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		log.Warn().Str("email", req.Email).Msg("login attempt with non-existent email")

		return res, failure.Unprocessable(msgInvalidCredentials) // nolint:wrapcheck
	}

	if err := password.Verify(req.Password, user.Password); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, failure.Unprocessable(msgInvalidCredentials) // nolint:wrapcheck
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(ctx, user.ID, user.Email, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	now := timezone.Now()
	updatedFields := shared.TransformFields(dto.UpdateLastLoginRequest{LastLogin: now}, user.ID)

	if password.NeedsRehash(user.Password) {
		if rehashed, err := password.Hash(req.Password); err == nil {
			updatedFields[userModel.FieldPassword] = rehashed
		}
	}

	if err := s.userRepo.Update(ctx, updatedFields, shared.FilterByID(user.ID, userModel.FieldID, userModel.TableName)); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")
	} else {
		user.LastLogin = &now
	}

	res.FromModel(user, tokenPair)

	return res, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.TokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.RefreshToken")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	claims, err := s.jwtService.ValidateToken(ctx, req.RefreshToken, jwt.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to validate refresh token")

		return res, failure.Unauthorized("invalid refresh token") // nolint:wrapcheck
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return res, fmt.Errorf("failed to check refresh token: %w", err)
	}

	if revoked {
		return res, failure.Unauthorized("refresh token has been revoked") // nolint:wrapcheck
	}

	tokenPair, err := s.jwtService.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh tokens")

		return res, failure.Unauthorized("invalid refresh token") // nolint:wrapcheck
	}

	// rotation: the old refresh token is single use
	if err := s.denylist.Revoke(ctx, claims); err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("failed to revoke rotated refresh token")
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) Logout(ctx context.Context, accessToken string, req dto.LogoutRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Logout")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	claims, err := s.jwtService.ValidateToken(ctx, accessToken, jwt.AccessToken)
	if err != nil {
		return failure.Unauthorized("invalid access token") // nolint:wrapcheck
	}

	if err = s.denylist.Revoke(ctx, claims); err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("failed to revoke access token")

		return fmt.Errorf("failed to revoke access token: %w", err)
	}

	if req.RefreshToken == constant.Empty {
		return nil
	}

	refreshClaims, err := s.jwtService.ValidateToken(ctx, req.RefreshToken, jwt.RefreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil
		}

		return failure.BadRequestFromString("invalid refresh token") // nolint:wrapcheck
	}

	if refreshClaims.UserID != claims.UserID {
		return failure.BadRequestFromString("refresh token belongs to another user") // nolint:wrapcheck
	}

	if err = s.denylist.Revoke(ctx, refreshClaims); err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("failed to revoke refresh token")

		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, actor principal.Principal, req dto.ChangePasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.ChangePassword")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.Authenticated(); err != nil {
		return err
	}

	filter := shared.FilterByID(actor.UserID, userModel.FieldID, userModel.TableName)

	user, err := s.userRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return failure.NotFound("user not found") // nolint:wrapcheck
	}

	if err := password.Verify(req.CurrentPassword, user.Password); err != nil {
		return failure.Unprocessable(msgWrongPassword) // nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	updatedFields := shared.TransformFields(dto.UpdatePasswordRequest{Password: hashedPassword}, actor.Actor())

	if err = s.userRepo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

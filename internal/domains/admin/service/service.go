package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"crypto/subtle"
	"fmt"
	"villa/config"
	"villa/infras/jwt"
	"villa/infras/otel"
	"villa/internal/domains/admin/model/dto"
	"villa/shared/constant"
	"villa/shared/failure"
	"villa/shared/password"

	"github.com/rs/zerolog/log"
)

const errInvalidCredentials = "invalid username or password"

type Admin interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
}

type serviceImpl struct {
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
}

func New(cfg *config.Config, otel otel.Otel, jwt jwt.JWT) Admin {
	if cfg.Admin.PasswordHash != "" {
		if err := password.CheckHash(cfg.Admin.PasswordHash); err != nil {
			log.Warn().Err(err).Msg("ADMIN_PASSWORD_HASH is not a bcrypt hash, admin login will always fail")
		}
	}

	return &serviceImpl{
		cfg:        cfg,
		otel:       otel,
		jwtService: jwt,
	}
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".admin.Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	username := req.Normalized()
	expected := s.cfg.Admin.Username

	if expected == "" || s.cfg.Admin.PasswordHash == "" {
		log.Warn().Msg("admin login attempted but no admin credentials are configured")

		return res, failure.Unauthorized(errInvalidCredentials) // nolint:wrapcheck
	}

	if subtle.ConstantTimeCompare([]byte(username), []byte(expected)) != 1 {
		log.Warn().Str("username", username).Msg("admin login attempt with unknown username")

		return res, failure.Unauthorized(errInvalidCredentials) // nolint:wrapcheck
	}

	if err := password.Verify(req.Password, s.cfg.Admin.PasswordHash); err != nil {
		log.Warn().Str("username", username).Msg("admin login attempt with wrong password")

		return res, failure.Unauthorized(errInvalidCredentials) // nolint:wrapcheck
	}

	token, err := s.jwtService.GenerateAccessToken(username, constant.RoleAdmin)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate admin token")

		return res, fmt.Errorf("failed to generate admin token: %w", err)
	}

	res.FromToken(token)

	return res, nil
}

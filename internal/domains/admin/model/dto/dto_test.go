package dto_test

import (
	"testing"
	"villa/infras/jwt"
	"villa/internal/domains/admin/model/dto"

	"github.com/stretchr/testify/assert"
)

func TestLoginResponse_FromToken(t *testing.T) {
	var response dto.LoginResponse
	response.FromToken(&jwt.Token{AccessToken: "access", TokenType: "Bearer", ExpiresIn: 3600})

	assert.Equal(t, "access", response.AccessToken)
	assert.Equal(t, "Bearer", response.TokenType)
	assert.Equal(t, int64(3600), response.ExpiresIn)
}

func TestLoginRequest_Normalized(t *testing.T) {
	req := dto.LoginRequest{Username: "  owner "}

	assert.Equal(t, "owner", req.Normalized())
}

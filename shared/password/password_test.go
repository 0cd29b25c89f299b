package password_test

import (
	"strings"
	"testing"
	"villa/shared/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "valid", input: "correct-horse"},
		{name: "unicode", input: "kata-sandi-rahasia-éè"},
		{name: "max length", input: strings.Repeat("a", password.MaxLength)},
		{name: "empty", input: "", wantErr: password.ErrEmptyPassword},
		{name: "too long", input: strings.Repeat("a", password.MaxLength+1), wantErr: password.ErrTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := password.Hash(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hash)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, tt.input, hash)
			assert.NoError(t, password.CheckHash(hash))
			assert.NoError(t, password.Verify(tt.input, hash))
		})
	}
}

func TestHash_Salted(t *testing.T) {
	first, err := password.Hash("correct-horse")
	require.NoError(t, err)

	second, err := password.Hash("correct-horse")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerify(t *testing.T) {
	hash, err := password.Hash("correct-horse")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		wantErr  error
		anyErr   bool
	}{
		{name: "match", password: "correct-horse", hash: hash},
		{name: "mismatch", password: "battery-staple", hash: hash, wantErr: password.ErrInvalidPassword},
		{name: "case sensitive", password: "Correct-Horse", hash: hash, wantErr: password.ErrInvalidPassword},
		{name: "empty password", password: "", hash: hash, wantErr: password.ErrInvalidPassword},
		{name: "empty hash", password: "correct-horse", hash: "", wantErr: password.ErrInvalidPassword},
		{name: "malformed hash", password: "correct-horse", hash: "plain-text", anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := password.Verify(tt.password, tt.hash)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, password.ErrInvalidPassword)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckHash(t *testing.T) {
	assert.ErrorIs(t, password.CheckHash("plain-text"), password.ErrMalformedHash)
	assert.ErrorIs(t, password.CheckHash(""), password.ErrMalformedHash)
}

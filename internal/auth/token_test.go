package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"ms-events/internal/apperror"
	"ms-events/internal/config"
	"ms-events/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenManager() *TokenManager {
	return NewTokenManager(config.AuthConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
}

func TestAccessToken_RoundTrip(t *testing.T) {
	tm := testTokenManager()
	user := &models.User{ID: "user-1", Role: models.RoleAdmin}

	raw, err := tm.IssueAccessToken(user)
	require.NoError(t, err)

	claims, err := tm.ParseAccessToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestAccessToken_RejectsRefreshSecret(t *testing.T) {
	tm := testTokenManager()
	raw, err := tm.IssueRefreshToken(&models.User{ID: "user-1", Role: models.RoleMember})
	require.NoError(t, err)

	_, err = tm.ParseAccessToken(raw)
	assert.True(t, apperror.Is(err, apperror.Unauthorized))

	_, err = tm.ParseRefreshToken(raw)
	assert.NoError(t, err)
}

func TestTokenType_CheckedWithSharedSecret(t *testing.T) {
	tm := NewTokenManager(config.AuthConfig{
		AccessSecret:  "shared",
		RefreshSecret: "shared",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	user := &models.User{ID: "user-1", Role: models.RoleMember}

	refresh, err := tm.IssueRefreshToken(user)
	require.NoError(t, err)
	_, err = tm.ParseAccessToken(refresh)
	assert.True(t, apperror.Is(err, apperror.Unauthorized))

	access, err := tm.IssueAccessToken(user)
	require.NoError(t, err)
	_, err = tm.ParseRefreshToken(access)
	assert.True(t, apperror.Is(err, apperror.Unauthorized))

	claims, err := tm.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.Type)
}

func TestAccessToken_Expired(t *testing.T) {
	tm := testTokenManager()
	issued := time.Now().Add(-time.Hour)
	tm.now = func() time.Time { return issued }

	raw, err := tm.IssueAccessToken(&models.User{ID: "user-1", Role: models.RoleMember})
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.ParseAccessToken(raw)
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.Unauthorized, appErr.Kind)
	assert.Equal(t, "token expired", appErr.Message)
}

func TestParse_Garbage(t *testing.T) {
	_, err := testTokenManager().ParseAccessToken("not-a-jwt")
	assert.True(t, apperror.Is(err, apperror.Unauthorized))
}

func TestExtractTokenFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc", want: "abc"},
		{name: "missing", header: "", wantErr: true},
		{name: "wrong scheme", header: "Basic abc", wantErr: true},
		{name: "no token", header: "Bearer", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			got, err := ExtractTokenFromRequest(r)
			if tt.wantErr {
				assert.True(t, apperror.Is(err, apperror.Unauthorized))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret1", hash)
	assert.True(t, CheckPassword(hash, "Secret1"))
	assert.False(t, CheckPassword(hash, "secret1"))
}

func TestActivationCode_Deterministic(t *testing.T) {
	a := ActivationCode("user-1", "s3cret")
	assert.Equal(t, a, ActivationCode("user-1", "s3cret"))
	assert.NotEqual(t, a, ActivationCode("user-2", "s3cret"))
	assert.Len(t, a, 128)
}

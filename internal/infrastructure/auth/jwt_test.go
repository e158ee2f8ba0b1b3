package auth

import (
	"testing"
	"time"

	"github.com/erp/fulfillment/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars"

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:   testSecret,
		Issuer:   "test-issuer",
		TokenTTL: 15 * time.Minute,
	})
}

func newTestInput() IssueInput {
	return IssueInput{TenantID: uuid.New(), UserID: uuid.New(), Username: "picker-01"}
}

func TestNewJWTService_DefaultTTL(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: testSecret})
	assert.Equal(t, time.Hour, svc.TokenTTL())
}

func TestIssueAndValidate(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	issued, err := svc.Issue(input)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", issued.TokenType)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), issued.ExpiresAt, 5*time.Second)

	claims, err := svc.Validate(issued.Token)
	require.NoError(t, err)

	tenantID, err := claims.TenantUUID()
	require.NoError(t, err)
	userID, err := claims.UserUUID()
	require.NoError(t, err)
	assert.Equal(t, input.TenantID, tenantID)
	assert.Equal(t, input.UserID, userID)
	assert.Equal(t, "picker-01", claims.Username)
	assert.Equal(t, "test-issuer", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.Positive(t, claims.RemainingTTL())
	assert.False(t, claims.IssuedAtTime().IsZero())
}

func TestIssue_RequiresIdentity(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.Issue(IssueInput{UserID: uuid.New()})
	assert.ErrorIs(t, err, ErrMissingTenantID)

	_, err = svc.Issue(IssueInput{TenantID: uuid.New()})
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestValidate_Expired(t *testing.T) {
	svc := newTestJWTService()
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	issued, err := svc.Issue(newTestInput())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Validate(issued.Token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidate_NotYetValid(t *testing.T) {
	svc := newTestJWTService()
	svc.now = func() time.Time { return time.Now().Add(time.Hour) }

	issued, err := svc.Issue(newTestInput())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Validate(issued.Token)
	assert.ErrorIs(t, err, ErrTokenNotYetValid)
}

func TestValidate_Rejections(t *testing.T) {
	svc := newTestJWTService()
	now := time.Now()

	sign := func(claims *Claims, secret string, method jwt.SigningMethod) string {
		t.Helper()
		token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}
	base := func() *Claims {
		return &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "test-issuer",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			TenantID: uuid.NewString(),
			UserID:   uuid.NewString(),
		}
	}

	noTenant := base()
	noTenant.TenantID = ""
	noUser := base()
	noUser.UserID = ""
	badTenant := base()
	badTenant.TenantID = "warehouse-7"
	otherIssuer := base()
	otherIssuer.Issuer = "someone-else"

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"garbage", "not.a.token", ErrInvalidToken},
		{"wrong secret", sign(base(), "another-secret-key-at-least-32-c", jwt.SigningMethodHS256), ErrInvalidToken},
		{"wrong algorithm", sign(base(), testSecret, jwt.SigningMethodHS512), ErrInvalidToken},
		{"wrong issuer", sign(otherIssuer, testSecret, jwt.SigningMethodHS256), ErrInvalidToken},
		{"missing tenant", sign(noTenant, testSecret, jwt.SigningMethodHS256), ErrMissingTenantID},
		{"missing user", sign(noUser, testSecret, jwt.SigningMethodHS256), ErrMissingUserID},
		{"malformed tenant", sign(badTenant, testSecret, jwt.SigningMethodHS256), ErrInvalidClaims},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClaims_RemainingTTL(t *testing.T) {
	assert.Zero(t, (&Claims{}).RemainingTTL())

	expired := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}}
	assert.Zero(t, expired.RemainingTTL())
}

package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenIssuer_IssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	userID := uuid.New()

	token, err := issuer.Issue(userID)
	require.NoError(t, err)

	got, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestTokenIssuer_ClaimsShape(t *testing.T) {
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("test-secret")
	issuer.now = fixedClock(issued)
	userID := uuid.New()

	token, err := issuer.Issue(userID)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	assert.Equal(t, userID.String(), claims["id"])
	assert.EqualValues(t, issued.Add(60*time.Minute).Unix(), claims["exp"])
}

func TestTokenIssuer_Expiry(t *testing.T) {
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("test-secret")
	issuer.now = fixedClock(issued)
	userID := uuid.New()

	token, err := issuer.Issue(userID)
	require.NoError(t, err)

	issuer.now = fixedClock(issued.Add(59 * time.Minute))
	_, err = issuer.Parse(token)
	assert.NoError(t, err)

	issuer.now = fixedClock(issued.Add(61 * time.Minute))
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a").Issue(uuid.New())
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret-b").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_Malformed(t *testing.T) {
	_, err := NewTokenIssuer("s").Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenIssuer("s").Parse("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		UserID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("s"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("s").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_MissingOrBadID(t *testing.T) {
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("s"))
	require.NoError(t, err)
	_, err = NewTokenIssuer("s").Parse(noID)
	assert.ErrorIs(t, err, ErrInvalidToken)

	badID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "nope", "exp": exp.Unix()}).SignedString([]byte("s"))
	require.NoError(t, err)
	_, err = NewTokenIssuer("s").Parse(badID)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_MissingExpiry(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": uuid.NewString()}).SignedString([]byte("s"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("s").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

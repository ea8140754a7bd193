package utils

import (
	"fmt"
	"os"
	"regexp"
	"testing"
	"xbs/src/types"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvoiceNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^INV-\d{4}-[0-9A-F]{8}$`)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n := NewInvoiceNumber()
		assert.Regexp(t, pattern, n)
		assert.Falsef(t, seen[n], "duplicate invoice number %s", n)
		seen[n] = true
	}
}

func TestCreateNewEventRejectsBadDates(t *testing.T) {
	_, err := CreateNewEvent(&types.CreateEventRequestBody{
		Name:     "Expo",
		Venue:    "Hall 1",
		StartsAt: "not-a-date",
		EndsAt:   "2031-10-03 18:00:00 +00:00",
	}, 1)
	assert.Error(t, err)

	_, err = CreateNewEvent(&types.CreateEventRequestBody{
		Name:     "Expo",
		Venue:    "Hall 1",
		StartsAt: "2031-10-03 18:00:00 +00:00",
		EndsAt:   "2031-10-01 09:00:00 +00:00",
	}, 1)
	assert.EqualError(t, err, "ends_at must be after starts_at")
}

func TestGenerateJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("someone@example.com", 42, "admin")
	require.NoError(t, err)

	claims := &types.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tk *jwt.Token) (any, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "someone@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, fmt.Sprint(42), claims.Subject)
}

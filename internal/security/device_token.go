package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const deviceTokenIssuer = "lullaby"

var (
	ErrInvalidDeviceToken = errors.New("invalid device token")
	ErrDeviceNameRequired = errors.New("device name is required")
)

type DeviceClaims struct {
	Device string `json:"device"`
	jwt.RegisteredClaims
}

// IssueDeviceToken signs a bearer token for a paired device.
func IssueDeviceToken(secretKey []byte, device string, ttl time.Duration, now time.Time) (string, error) {
	device = strings.TrimSpace(device)
	if device == "" {
		return "", ErrDeviceNameRequired
	}
	tokenID, err := NewTokenID()
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}

	claims := DeviceClaims{
		Device: device,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Issuer:    deviceTokenIssuer,
			Subject:   device,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

func ParseDeviceToken(secretKey []byte, raw string, now time.Time) (DeviceClaims, error) {
	claims := DeviceClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return secretKey, nil
	},
		jwt.WithIssuer(deviceTokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !token.Valid {
		return DeviceClaims{}, ErrInvalidDeviceToken
	}
	return claims, nil
}

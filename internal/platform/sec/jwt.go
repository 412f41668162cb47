// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small provider interfaces.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// The subject claim is the username; the custom claims are abbreviated to
// keep the JWT payload small.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID string `json:"uid"`
	Role   string `json:"rol"`
}

// emailClaims is the payload of email-confirmation and password-reset tokens.
// The subject claim carries the email address the link was issued for.
type emailClaims struct {
	jwt.RegisteredClaims
}

// TokenService handles generation and verification of JWT tokens using HS256.
//
// A symmetric secret is enough here: tokens are only ever issued and verified
// by this same service, so there is no third party needing a public key.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a new TokenService signing with the given secret.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: jwt secret must not be empty")
	}
	return &TokenService{secret: []byte(secret), issuer: issuer}, nil
}

// GenerateAccessToken creates a new signed JWT access token for a user.
//
// The token is stateless and never persisted; revocation before natural
// expiry happens via the Redis blacklist, not the database.
func (service *TokenService) GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID: userID,
		Role:   role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyAccessToken checks the signature and validity of a JWT string.
//
// It returns the embedded claims, including the remaining-lifetime source
// (ExpiresAt) that the session cache uses for its TTLs.
func (service *TokenService) VerifyAccessToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, service.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	return claims, nil
}

// GenerateEmailToken creates a signed token embedding an email address.
//
// It backs the email-confirmation and password-reset links. Unlike refresh
// tokens it is stateless: possession of the link is the whole credential.
func (service *TokenService) GenerateEmailToken(email string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := emailClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign email token: %w", err)
	}

	return signedToken, nil
}

// ParseEmailToken verifies an email token and returns the embedded address.
func (service *TokenService) ParseEmailToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &emailClaims{}, service.keyFunc)
	if err != nil {
		return "", fmt.Errorf("sec: invalid email token: %w", err)
	}

	claims, ok := token.Claims.(*emailClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("sec: invalid email token claims")
	}

	return claims.Subject, nil
}

// keyFunc rejects any algorithm other than the HMAC family before handing
// out the shared secret.
func (service *TokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
	}
	return service.secret, nil
}

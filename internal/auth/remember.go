// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Remember-me cookie settings.
const (
	RememberCookieName = "daf_remember"
	RememberTTL        = 30 * 24 * time.Hour
	rememberIssuer     = "daf-alumni"
)

// ErrInvalidRememberToken is returned for tampered, expired or foreign tokens.
var ErrInvalidRememberToken = errors.New("invalid remember-me token")

// RememberClaims is the payload of the remember-me cookie. It only carries
// the email used to prefill the login form; it never signs anyone in.
type RememberClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Remember issues and reads the signed remember-me cookie.
type Remember struct {
	key    []byte
	secure bool
	now    func() time.Time
}

// NewRemember creates a Remember signing with key (the session secret).
func NewRemember(key string, secure bool) *Remember {
	return &Remember{key: []byte(key), secure: secure, now: time.Now}
}

// Sign returns a token for email.
func (r *Remember) Sign(email string) (string, error) {
	now := r.now()
	claims := RememberClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    rememberIssuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(RememberTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.key)
	if err != nil {
		return "", fmt.Errorf("signing remember token: %w", err)
	}
	return token, nil
}

// Parse validates token and returns the remembered email.
func (r *Remember) Parse(token string) (string, error) {
	claims := &RememberClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return r.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(rememberIssuer),
		jwt.WithTimeFunc(r.now),
	)
	if err != nil || !parsed.Valid || claims.Email == "" {
		return "", ErrInvalidRememberToken
	}
	return claims.Email, nil
}

// SetCookie writes the remember-me cookie for email.
func (r *Remember) SetCookie(w http.ResponseWriter, email string) error {
	token, err := r.Sign(email)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     RememberCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(RememberTTL / time.Second),
		HttpOnly: true,
		Secure:   r.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearCookie removes the remember-me cookie.
func (r *Remember) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RememberCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Email returns the remembered email from the request, or "".
func (r *Remember) Email(req *http.Request) string {
	c, err := req.Cookie(RememberCookieName)
	if err != nil || c.Value == "" {
		return ""
	}
	email, err := r.Parse(c.Value)
	if err != nil {
		return ""
	}
	return email
}

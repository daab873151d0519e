// Package session carries the browser session role in a signed cookie and
// implements the transient flash notices shown after redirects.
package session

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the access level of a browser session. Exactly one role is carried
// per session cookie, so admin and read-only can never both be active.
type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleAdmin     Role = "admin"
	RoleReadOnly  Role = "readonly"
)

const (
	sessionCookie = "session_token"
	flashCookie   = "flash"

	TokenDuration = 24 * time.Hour
)

type Manager struct {
	secret []byte
}

func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// SetRole replaces the session cookie with one carrying the given role.
// RoleAnonymous clears the cookie instead.
func (m *Manager) SetRole(w http.ResponseWriter, role Role) error {
	if role == RoleAnonymous {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    "",
			MaxAge:   -1,
			HttpOnly: true,
			Path:     "/",
		})
		return nil
	}

	claims := jwt.MapClaims{
		"role": string(role),
		"exp":  time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    signed,
		Expires:  time.Now().Add(TokenDuration),
		HttpOnly: true,
		Path:     "/",
	})
	return nil
}

// RoleFromRequest returns the role carried by the session cookie. Any missing,
// expired, or tampered cookie degrades to RoleAnonymous.
func (m *Manager) RoleFromRequest(r *http.Request) Role {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return RoleAnonymous
	}

	token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return RoleAnonymous
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return RoleAnonymous
	}

	roleClaim, _ := claims["role"].(string)
	switch Role(roleClaim) {
	case RoleAdmin:
		return RoleAdmin
	case RoleReadOnly:
		return RoleReadOnly
	default:
		return RoleAnonymous
	}
}

// Notice is a one-shot user-facing message rendered on the next page load.
type Notice struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Flash stores a notice for the next request. Category is "success" or
// "error".
func Flash(w http.ResponseWriter, category, message string) {
	payload, _ := json.Marshal(Notice{Category: category, Message: message})
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.URLEncoding.EncodeToString(payload),
		HttpOnly: true,
		Path:     "/",
	})
}

// PopFlash returns the pending notice, if any, and clears it.
func PopFlash(w http.ResponseWriter, r *http.Request) *Notice {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
	})

	payload, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var notice Notice
	if err := json.Unmarshal(payload, &notice); err != nil {
		return nil
	}
	return &notice
}

package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/media2net-app/mihaelafitness/internal/store"
)

const sessionCookie = "session"

// dummyHash is a pre-computed bcrypt hash used when a login username isn't found.
// Running bcrypt against it (instead of returning early) keeps response time
// constant, preventing timing-based username enumeration.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

// login verifies username/password, issues a session JWT and sets it as an
// httpOnly cookie. The token is also returned for bearer-style clients.
// POST /api/login (public).
func (h *Handler) login(c *gin.Context) {
	var body loginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, lookupErr := h.users.UserByUsername(c.Request.Context(), body.Username)

	hashToCheck := string(dummyHash)
	if lookupErr == nil {
		hashToCheck = u.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(body.Password))

	if lookupErr != nil || compareErr != nil {
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.issueToken(u.ID, time.Now())
	if err != nil {
		requestLogger(c).Errorf("[login] sign token: %v", err)
		apiError(c, http.StatusInternalServerError, "failed to create session")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, int(h.sessionTTL.Seconds()), "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, loginResponse{Token: token, UserID: u.ID})
}

// logout clears the session cookie. POST /api/logout (public).
func (h *Handler) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.Status(http.StatusNoContent)
}

// issueToken signs an HS256 token whose subject is the user id.
func (h *Handler) issueToken(userID int, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.Itoa(userID),
		"iat": now.Unix(),
		"exp": now.Add(h.sessionTTL).Unix(),
	})
	return token.SignedString(h.jwtSecret)
}

// parseToken validates signature and expiry and returns the user id.
func (h *Handler) parseToken(raw string) (int, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return h.jwtSecret, nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, errors.New("invalid token")
	}
	sub, err := token.Claims.GetSubject()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(sub)
}

// authMiddleware accepts the session cookie or an Authorization: Bearer
// header and sets user_id on the context.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, _ := c.Cookie(sessionCookie)
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			raw = strings.TrimPrefix(header, "Bearer ")
		}
		if raw == "" {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}

		userID, err := h.parseToken(raw)
		if err == nil {
			// Deleted users lose access before their token expires.
			_, err = h.users.UserByID(c.Request.Context(), userID)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				storeError(c, "authMiddleware", err, "session")
				c.Abort()
				return
			}
		}
		if err != nil {
			requestLogger(c).Debugf("[authMiddleware] %v", err)
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// me returns the logged-in user. GET /api/me
func (h *Handler) me(c *gin.Context) {
	u, err := h.users.UserByID(c.Request.Context(), c.GetInt("user_id"))
	if err != nil {
		storeError(c, "me", err, "user")
		return
	}
	c.JSON(http.StatusOK, u)
}

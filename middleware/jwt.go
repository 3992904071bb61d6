package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"fintrack/config"
	"fintrack/database"
	"fintrack/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// ErrTokenExpired is returned by ParseToken for a structurally valid but
// expired token, so callers can distinguish it from a bad signature.
var ErrTokenExpired = errors.New("token expired")

// Claims are the JWT claims carried by every issued token
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// InitJWT loads the signing secret from configuration
func InitJWT(cfg *config.Config) {
	jwtSecret = []byte(cfg.JWT.Secret)
}

// GenerateToken issues a signed token carrying the user's identity
func GenerateToken(userID uint, username, email string, expire time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseToken verifies a token's signature and expiry and returns its claims
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// JWTAuth gates protected routes. A missing or malformed Authorization
// header is 401; an invalid or expired token is 403; a token whose subject
// no longer exists is 401. On success the resolved user is attached to the
// request context.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, ErrTokenExpired) {
				msg = "Token expired"
			}
			c.JSON(http.StatusForbidden, gin.H{"error": msg})
			c.Abort()
			return
		}

		// The token may outlive its user
		var user models.User
		if err := database.DB.First(&user, claims.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		c.Set("userID", user.ID)
		c.Set("currentUser", &user)
		c.Next()
	}
}

// GetCurrentUserID returns the authenticated user's id, or 0 outside the gate
func GetCurrentUserID(c *gin.Context) uint {
	if id, exists := c.Get("userID"); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return 0
}

// GetCurrentUser returns the user resolved by JWTAuth, or nil outside the gate
func GetCurrentUser(c *gin.Context) *models.User {
	if v, exists := c.Get("currentUser"); exists {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is the iss claim of every access token / Émetteur de chaque token d'accès
const Issuer = "go-contenthub"

// ErrInvalidToken reports a missing or malformed access token / Token d'accès absent ou invalide
var ErrInvalidToken = errors.New("invalid token")

// CustomClaims extends JWT claims with role and username / Étend les claims JWT avec rôle et nom
type CustomClaims struct {
	jwt.RegisteredClaims
	Role     string `json:"role"`
	Username string `json:"username"`
}

// Subject identifies the token owner / Identifie le titulaire du token
type Subject struct {
	UserID   int64
	Role     string
	Username string
}

// TokenPair represents access and refresh tokens / Représente les tokens d'accès et de rafraîchissement
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// UserID parses the subject claim / Analyse le claim subject
func (c *CustomClaims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// GenerateTokenPair creates access and refresh tokens / Crée les tokens d'accès et de rafraîchissement
func GenerateTokenPair(sub Subject, jwtKey string, accessTokenDuration, refreshTokenDuration time.Duration) (*TokenPair, error) {
	if len(jwtKey) < 32 {
		return nil, errors.New("JWT key too weak")
	}

	now := time.Now()
	expiresAt := now.Add(accessTokenDuration)
	accessClaims := &CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(sub.UserID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
		},
		Role:     sub.Role,
		Username: sub.Username,
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessTokenString, err := accessToken.SignedString([]byte(jwtKey))
	if err != nil {
		return nil, err
	}

	refreshToken, err := generateSecureToken()
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// generateSecureToken generates secure random token / Génère un token aléatoire sécurisé
func generateSecureToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// ValidateJWT validates JWT token / Valide le token JWT
func ValidateJWT(tokenStr, jwtKey string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing algorithm: %v", token.Header["alg"])
		}
		return []byte(jwtKey), nil
	}, jwt.WithIssuer(Issuer))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*CustomClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}

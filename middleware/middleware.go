package middleware

import (
	"fmt"
	"strings"

	"forecastapp/config"
	"forecastapp/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// Authenticate is a middleware that verifies a JWT token and extracts user information.
func Authenticate(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Missing authorization header"})
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader { // No "Bearer " prefix
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Invalid token format"})
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.JwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Invalid or expired token"})
	}

	claims, ok := token.Claims.(*models.JwtClaims)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to parse token claims"})
	}

	c.Locals("userID", claims.UserID)
	c.Locals("userRole", claims.Role)

	return c.Next()
}

// AnalystRequired is a middleware function that checks if the user has an 'analyst' role.
func AnalystRequired(c *fiber.Ctx) error {
	role, ok := c.Locals("userRole").(string)
	if !ok || role != "analyst" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "Analyst access required"})
	}
	return c.Next()
}

// ExtractClaims rebuilds the authenticated user's claims from the request
// locals set by Authenticate.
func ExtractClaims(c *fiber.Ctx) (*models.JwtClaims, error) {
	userID, ok := c.Locals("userID").(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("no authenticated user on request")
	}
	role, _ := c.Locals("userRole").(string)
	return &models.JwtClaims{UserID: userID, Role: role}, nil
}

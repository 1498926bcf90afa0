package serverutils

import (
	"os"

	"learnhub-be/internal/entity"
	"learnhub-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	RoleUser    = entity.RoleUser
	RoleCreator = entity.RoleCreator
	RoleAdmin   = entity.RoleAdmin
)

// Claims are the parts of an access token the API relies on.
type Claims struct {
	UserID string
	Role   string
}

// ParseToken verifies an HMAC signed access token against JWT_SECRET.
func ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.Unauthorized("Invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperror.Unauthorized("Invalid claims")
	}

	userID, _ := mapClaims["user_id"].(string)
	role, _ := mapClaims["role"].(string)
	if role == "" {
		role = RoleUser
	}
	return &Claims{UserID: userID, Role: role}, nil
}

func JwtMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Missing token"))
	}

	claims, err := ParseToken(authHeader[7:])
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Invalid token"))
	}

	ctx.Locals("user_id", claims.UserID)
	ctx.Locals("role", claims.Role)
	return ctx.Next()
}

// RequireRole must run after JwtMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		role, _ := ctx.Locals("role").(string)
		for _, r := range roles {
			if r == role {
				return ctx.Next()
			}
		}
		return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(403, "Access denied"))
	}
}

func CurrentUserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := ctx.Locals("user_id").(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.Unauthorized("Invalid user session")
	}
	return id, nil
}

func CurrentRole(ctx *fiber.Ctx) string {
	role, _ := ctx.Locals("role").(string)
	return role
}

// ParamUUID reads a UUID path parameter.
func ParamUUID(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperror.Validation("Invalid " + name)
	}
	return id, nil
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/OnteruYallaiah21/Getiva-app/internal/auth"
	"github.com/OnteruYallaiah21/Getiva-app/internal/service"
)

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type loginResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

// Login verifies a username/password pair and returns a signed session token.
func Login(userSvc service.UserService, signer *auth.TokenSigner) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse credentials")
		}
		if req.Username == "" || req.Password == "" {
			return writeError(c, fiber.StatusBadRequest, "CREDENTIALS_REQUIRED", "username and password are required")
		}

		u, err := userSvc.Verify(c.UserContext(), req.Username, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}

		return c.JSON(loginResponse{
			Username: u.Username,
			Role:     u.Role,
			Token:    signer.Issue(u.Username, u.Role),
		})
	}
}

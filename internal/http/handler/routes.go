package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/OnteruYallaiah21/Getiva-app/internal/auth"
	"github.com/OnteruYallaiah21/Getiva-app/internal/http/middleware"
	"github.com/OnteruYallaiah21/Getiva-app/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers stay
// minimal; business logic lives in the service layer.
func RegisterRoutes(app *fiber.App, store StorePinger, signer *auth.TokenSigner, appSvc service.ApplicationService, userSvc service.UserService) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(store))
	app.Get("/healthz", LivenessProbe())

	app.Post("/login", Login(userSvc, signer))

	apps := app.Group("/applications", middleware.RequireUser(signer))
	apps.Get("/", ListApplications(appSvc))
	apps.Post("/", CreateApplication(appSvc))
	apps.Put("/:id", UpdateApplication(appSvc))
	apps.Delete("/:id", DeleteApplication(appSvc))

	admin := app.Group("/admin", middleware.RequireUser(signer), middleware.RequireAdmin())
	admin.Get("/users", ListUsers(userSvc))
	admin.Post("/users", CreateUser(userSvc))
	admin.Put("/users/:username", UpdateUser(userSvc))
	admin.Delete("/users/:username", DeleteUser(userSvc))
	admin.Get("/applications/:username", AdminListApplications(appSvc))
}

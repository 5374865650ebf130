package handler

import (
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/OnteruYallaiah21/Getiva-app/internal/http/middleware"
	"github.com/OnteruYallaiah21/Getiva-app/internal/service"
)

// sessionUsername returns the username stored by middleware.RequireUser.
func sessionUsername(c *fiber.Ctx) string {
	s, _ := c.Locals(middleware.UsernameLocalKey).(string)
	return s
}

// ListApplications returns the session user's applications, newest first, with
// limit/offset pagination. limit=0 (the default) returns everything.
func ListApplications(svc service.ApplicationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username := sessionUsername(c)

		limit, err := strconv.Atoi(c.Query("limit", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), username, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"applications": res.Items,
			"total":        res.Total,
			"limit":        limit,
			"offset":       offset,
			"username":     username,
		})
	}
}

// CreateApplication stores a new application from a multipart form. The file
// part is optional.
func CreateApplication(svc service.ApplicationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in := service.CreateApplicationInput{
			Company:        c.FormValue("company"),
			JobDescription: c.FormValue("jobdescription"),
			Status:         c.FormValue("status"),
		}

		fh, err := c.FormFile("file")
		if err == nil && fh != nil {
			f, openErr := fh.Open()
			if openErr != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()
			in.File = &service.UploadInput{
				Reader:   f,
				Filename: fh.Filename,
				Category: c.FormValue("category"),
			}
		}

		app, err := svc.Create(c.UserContext(), sessionUsername(c), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(app)
	}
}

// UpdateApplication applies a partial update from a multipart form. Only the
// fields present in the form are touched; an attached file replaces the
// stored links.
func UpdateApplication(svc service.ApplicationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "multipart form required")
		}

		in := service.UpdateApplicationInput{
			Company:        formField(form, "company"),
			JobDescription: formField(form, "jobdescription"),
			Status:         formField(form, "status"),
		}

		if files := form.File["file"]; len(files) > 0 {
			f, openErr := files[0].Open()
			if openErr != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()
			in.File = &service.UploadInput{
				Reader:   f,
				Filename: files[0].Filename,
				Category: c.FormValue("category"),
			}
		}

		app, err := svc.Update(c.UserContext(), sessionUsername(c), id, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(app)
	}
}

// DeleteApplication removes one application by id.
func DeleteApplication(svc service.ApplicationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), sessionUsername(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// AdminListApplications returns any user's collection. Reachable only behind
// the admin guard.
func AdminListApplications(svc service.ApplicationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username := c.Params("username")

		limit, err := strconv.Atoi(c.Query("limit", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), username, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"applications": res.Items,
			"total":        res.Total,
			"limit":        limit,
			"offset":       offset,
			"username":     username,
		})
	}
}

// formField returns a pointer to the first value of name when the field was
// present in the form, nil when it was absent. Present-but-empty values are
// kept so a client can clear a field.
func formField(form *multipart.Form, name string) *string {
	values, ok := form.Value[name]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

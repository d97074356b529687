package rest

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/softala/kartoteka"
)

type ProfileController struct {
	Service *kartoteka.ProfileService
}

func (c *ProfileController) InstallTo(app *fiber.App) {
	app.Get("/profiles/:email", c.serveProfile)
	app.Put("/profiles/:email", c.updateProfile)
}

// ProfileUpdateRequest mirrors kartoteka.ProfileUpdate on the wire. Absent
// fields and explicit nulls both decode to nil and mean "no change".
type ProfileUpdateRequest struct {
	FirstName  *string         `json:"firstName"`
	LastName   *string         `json:"lastName"`
	MiddleName *string         `json:"middleName"`
	Email      *string         `json:"email"`
	Phone      *string         `json:"phone"`
	BirthDate  *kartoteka.Date `json:"birthDate"`
}

func (r ProfileUpdateRequest) toDomain() kartoteka.ProfileUpdate {
	update := kartoteka.ProfileUpdate{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		MiddleName: r.MiddleName,
		Email:      r.Email,
		Phone:      r.Phone,
	}
	if r.BirthDate != nil {
		update.BirthDate = &r.BirthDate.Time
	}
	return update
}

func emailParam(ctx *fiber.Ctx) (string, error) {
	raw := ctx.Params("email")
	if raw == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "no email")
	}
	email, err := url.PathUnescape(raw)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid email")
	}
	return email, nil
}

func (c *ProfileController) serveProfile(ctx *fiber.Ctx) error {
	email, err := emailParam(ctx)
	if err != nil {
		return err
	}

	profile, err := c.Service.ByEmail(ctx.Context(), email)
	if err != nil {
		var notFound kartoteka.ProfileNotFoundError
		if errors.As(err, &notFound) {
			return fiber.NewError(fiber.StatusNotFound, notFound.Error())
		}
		return fmt.Errorf("get profile by email: %w", err)
	}
	return ctx.JSON(kartoteka.NewProfileView(profile))
}

func (c *ProfileController) updateProfile(ctx *fiber.Ctx) error {
	email, err := emailParam(ctx)
	if err != nil {
		return err
	}

	var request ProfileUpdateRequest
	if err := ctx.BodyParser(&request); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	profile, err := c.Service.Update(ctx.Context(), email, request.toDomain())
	if err != nil {
		var notFound kartoteka.ProfileNotFoundError
		if errors.As(err, &notFound) {
			return fiber.NewError(fiber.StatusNotFound, notFound.Error())
		}
		var taken kartoteka.EmailTakenError
		if errors.As(err, &taken) {
			return fiber.NewError(fiber.StatusConflict, taken.Error())
		}
		return fmt.Errorf("update profile: %w", err)
	}
	return ctx.JSON(kartoteka.NewProfileView(profile))
}

package server

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"

	"github.com/mercato-app/mercato/internal/auth"
)

// AuthController exposes signup, login, and the authenticated profile
// endpoints.
type AuthController struct {
	Debug  bool
	Logger Logger
	Auther auth.Authenticator
}

func NewAuthController(auther auth.Authenticator, logger Logger) *AuthController {
	return &AuthController{
		Logger: logger,
		Auther: auther,
	}
}

// RegisterRoutes mounts the auth endpoints under r. protected guards the
// profile routes.
func (a *AuthController) RegisterRoutes(r fiber.Router, protected fiber.Handler) {
	r.Post("/signup", a.Signup)
	r.Post("/login", a.Login)
	r.Get("/me", protected, a.Me)
	r.Put("/me", protected, a.UpdateMe)
}

// SignupRequest payload
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r SignupRequest) Validate() *goerrors.Error {
	return goerrors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(
				&r.Name,
				validation.Required,
			),
			validation.Field(
				&r.Email,
				validation.Required,
				is.Email,
			),
			validation.Field(
				&r.Password,
				validation.Required,
			),
		)
	}, "Invalid signup request payload")
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() *goerrors.Error {
	return goerrors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(
				&r.Email,
				validation.Required,
				is.Email,
			),
			validation.Field(
				&r.Password,
				validation.Required,
			),
		)
	}, "Invalid login request payload")
}

// UpdateMeRequest payload. Pointer fields distinguish an absent field from
// an explicit value, so omitting name never clears it.
type UpdateMeRequest struct {
	Name            *string `json:"name"`
	CurrentPassword string  `json:"current_password"`
	NewPassword     *string `json:"new_password"`
}

// Validate will run validation rules
func (r UpdateMeRequest) Validate() *goerrors.Error {
	return goerrors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(
				&r.CurrentPassword,
				validation.Required,
			),
		)
	}, "Invalid profile update payload")
}

func (a *AuthController) Signup(c *fiber.Ctx) error {
	payload := new(SignupRequest)

	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "Invalid request body").
			WithCode(goerrors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	if a.Debug {
		fmt.Println("======= AUTH SIGNUP ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("==========================")
	}

	user, err := a.Auther.Register(c.UserContext(), auth.RegisterInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(user.Public())
}

func (a *AuthController) Login(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "Invalid request body").
			WithCode(goerrors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	token, err := a.Auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (a *AuthController) Me(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	return c.JSON(user.Public())
}

func (a *AuthController) UpdateMe(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	payload := new(UpdateMeRequest)
	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "Invalid request body").
			WithCode(goerrors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	input := auth.UpdateSelfInput{
		CurrentPassword: payload.CurrentPassword,
	}

	if payload.Name != nil {
		input.Name = auth.Set(*payload.Name)
	}

	if payload.NewPassword != nil {
		input.Password = auth.Set(*payload.NewPassword)
	}

	updated, err := a.Auther.UpdateSelf(c.UserContext(), user, input)
	if err != nil {
		return err
	}

	return c.JSON(updated.Public())
}

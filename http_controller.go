package credentials

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
)

const redacted = "[REDACTED]"

type AuthControllerRoutes struct {
	Health        string
	Register      string
	Login         string
	Logout        string
	Me            string
	UpdateDetails string
	ListUsers     string
	DeleteUser    string
}

type AuthController struct {
	Debug   bool
	Logger  Logger
	Manager *IdentityManager
	Routes  *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

// WithControllerLogger sets the logger
func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(a *AuthController) *AuthController {
		if logger != nil {
			a.Logger = logger
		}
		return a
	}
}

// WithControllerDebug prints request payloads, with secrets removed
func WithControllerDebug(debug bool) AuthControllerOption {
	return func(a *AuthController) *AuthController {
		a.Debug = debug
		return a
	}
}

// WithControllerRoutes overrides the default route paths
func WithControllerRoutes(routes *AuthControllerRoutes) AuthControllerOption {
	return func(a *AuthController) *AuthController {
		if routes != nil {
			a.Routes = routes
		}
		return a
	}
}

func NewAuthController(manager *IdentityManager, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:  defLogger{},
		Manager: manager,
		Routes: &AuthControllerRoutes{
			Health:        "/test-route",
			Register:      "/user/auth/registerUser",
			Login:         "/user/auth/login",
			Logout:        "/user/auth/logout",
			Me:            "/user/auth/me",
			UpdateDetails: "/user/auth/updateDetails",
			ListUsers:     "/admin/auth/getAllUsers",
			DeleteUser:    "/admin/auth/deleteUser/:userId",
		},
	}

	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	if c.Manager == nil {
		panic("Missing IdentityManager in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the credential routes. The authentication gate
// is expected to run before these handlers.
func RegisterAuthRoutes(app fiber.Router, manager *IdentityManager, opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(manager, opts...)
	routes := controller.Routes

	app.Get(routes.Health, controller.Health)

	app.Post(routes.Register, controller.Register)
	app.Post(routes.Login, controller.Login)
	app.Post(routes.Logout, controller.Logout)
	app.Get(routes.Me, RequireAuthenticated(), controller.Me)
	app.Patch(routes.UpdateDetails, RequireAuthenticated(), controller.UpdateDetails)

	app.Get(routes.ListUsers, RequireAuthenticated(), RequireRole(RoleAdmin), controller.ListUsers)
	app.Delete(routes.DeleteUser, RequireAuthenticated(), RequireRole(RoleAdmin), controller.DeleteUser)

	return controller
}

func (a *AuthController) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "Success",
		"message": "Server is up and running",
	})
}

func (a *AuthController) Register(c *fiber.Ctx) error {
	payload := RegisterInput{}
	if err := parseBody(c, &payload); err != nil {
		return err
	}

	debugPayload := payload
	debugPayload.Password = redacted
	a.debug("REGISTER", debugPayload)

	id, err := a.Manager.Register(c.UserContext(), payload)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "Success",
		"userId":  id.String(),
		"message": fmt.Sprintf("User with, User Id: %s created successfully.", id),
	})
}

func (a *AuthController) Login(c *fiber.Ctx) error {
	payload := LoginInput{}
	if err := parseBody(c, &payload); err != nil {
		return err
	}

	debugPayload := payload
	debugPayload.Password = redacted
	a.debug("LOGIN", debugPayload)

	res, err := a.Manager.Login(c.UserContext(), payload)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status": "Access Granted",
		"userId": res.UserID,
		"token":  res.Token,
	})
}

func (a *AuthController) Logout(c *fiber.Ctx) error {
	return c.JSON(a.Manager.Logout())
}

func (a *AuthController) Me(c *fiber.Ctx) error {
	claims, _ := GetFiberClaims(c)
	identity, err := a.Manager.GetProfile(claims)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"user": identity,
	})
}

func (a *AuthController) UpdateDetails(c *fiber.Ctx) error {
	payload := UpdateProfileInput{}
	if err := parseBody(c, &payload); err != nil {
		return err
	}

	debugPayload := payload
	if debugPayload.Password != nil {
		mask := redacted
		debugPayload.Password = &mask
	}
	a.debug("UPDATE DETAILS", debugPayload)

	claims, _ := GetFiberClaims(c)
	if err := a.Manager.UpdateProfile(c.UserContext(), claims, payload); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status":  "Success",
		"message": "User details updated successfully.",
	})
}

func (a *AuthController) ListUsers(c *fiber.Ctx) error {
	users, err := a.Manager.ListAllUsers(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"users": users,
	})
}

func (a *AuthController) DeleteUser(c *fiber.Ctx) error {
	id, err := a.Manager.DeleteUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status":  "Success",
		"userId":  id,
		"message": fmt.Sprintf("User with, User Id: %s deleted successfully.", id),
	})
}

func (a *AuthController) debug(label string, payload any) {
	if !a.Debug {
		return
	}
	fmt.Println("======= " + label + " =======")
	fmt.Println(print.MaybePrettyJSON(payload))
	fmt.Println("=========================")
}

// parseBody decodes the request body into out. An empty body decodes to the zero value.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		validationErr := NewValidationError(map[string]string{
			"payload": "invalid request body",
		})
		validationErr.Source = err
		return validationErr
	}
	return nil
}

package credentials

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// ServerConfig configures NewServer
type ServerConfig struct {
	AppName           string
	Logger            Logger
	Debug             bool
	Listeners         []ValidationListener
	ControllerOptions []AuthControllerOption
}

// NewServer returns a fiber app with the authentication gate mounted on
// every route and the credential routes registered.
func NewServer(manager *IdentityManager, tokens TokenService, cfg ServerConfig) *fiber.App {
	logger := cfg.Logger
	if logger == nil {
		logger = defLogger{}
	}

	appName := cfg.AppName
	if appName == "" {
		appName = "credentiald"
	}

	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ErrorHandler:          NewErrorHandler(logger),
	})

	app.Use(Authenticate(tokens, logger, cfg.Listeners...))

	opts := append([]AuthControllerOption{
		WithControllerLogger(logger),
		WithControllerDebug(cfg.Debug),
	}, cfg.ControllerOptions...)

	RegisterAuthRoutes(app, manager, opts...)

	return app
}

// NewErrorHandler renders errors as JSON. Rich errors keep their status and
// text code, even when they wrap a fiber error. Server side failures are
// logged and reported generically.
func NewErrorHandler(logger Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = defLogger{}
	}

	return func(c *fiber.Ctx, err error) error {
		var richErr *goerrors.Error
		if !goerrors.As(err, &richErr) {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return c.Status(fiberErr.Code).JSON(fiber.Map{
					"error": fiberErr.Message,
				})
			}
			richErr = wrapError(ErrInternal, err)
		}

		code := richErr.Code
		if code == 0 {
			code = fiber.StatusInternalServerError
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"text_code", richErr.TextCode,
				"error", err,
			)
			return c.Status(code).JSON(fiber.Map{
				"error":     ErrInternal.Message,
				"text_code": ErrInternal.TextCode,
			})
		}

		body := fiber.Map{
			"error":     richErr.Message,
			"text_code": richErr.TextCode,
		}
		if fields := FieldErrors(richErr); len(fields) > 0 {
			body["fields"] = fields
		}

		return c.Status(code).JSON(body)
	}
}

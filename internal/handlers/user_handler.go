package handlers

import (
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"dessertlab/internal/middleware"
	"dessertlab/internal/models"
	"dessertlab/internal/repositories"
	"dessertlab/internal/session"
)

// UserHandler handles login, registration, profiles, and the admin user
// list, all through the configured user directory.
type UserHandler struct {
	directory repositories.UserDirectory
	sessions  *session.Store
	validate  *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(directory repositories.UserDirectory, sessions *session.Store) *UserHandler {
	return &UserHandler{
		directory: directory,
		sessions:  sessions,
		validate:  validator.New(),
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	users := router.Group("/users")
	users.Post("/login", h.HandleLogin)
	users.Post("/register", h.HandleRegister)
	users.Post("/logout", h.HandleLogout)
	users.Get("/:id/profile", middleware.LoginRequired(), h.HandleProfile)
	users.Post("/:id/profile", middleware.LoginRequired(), h.HandleSaveProfile)

	admin := users.Group("", middleware.AdminRequired())
	admin.Get("/", h.HandleList)
	admin.Delete("/:id", h.HandleDelete)
}

// LoginRequest is the login form.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin authenticates and binds the user to the session.
func (h *UserHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	user, err := h.directory.Login(req.Email, req.Password)
	if err != nil {
		log.Printf("Login failed for %s: %v", req.Email, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid email or password",
		})
	}

	sess := middleware.SessionFrom(c)
	sess.Do(func(ss *session.Session) {
		ss.User = user
	})
	return c.JSON(user)
}

// HandleRegister creates a new account.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	// Registration requires a password even though the model allows
	// password-less records coming back from the backend.
	if user.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  map[string]string{"Password": "Password is required"},
		})
	}
	if err := h.validate.Struct(user); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	if err := h.directory.Register(&user); err != nil {
		log.Printf("Registration failed for %s: %v", user.Email, err)
		if strings.Contains(err.Error(), "already registered") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Email already registered",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not register user",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
	})
}

// HandleLogout drops the session's user and empties its cart.
func (h *UserHandler) HandleLogout(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	h.sessions.Reset(sess.ID)
	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}

// HandleProfile fetches a user's profile. Non-admins may only read their
// own.
func (h *UserHandler) HandleProfile(c *fiber.Ctx) error {
	id := c.Params("id")
	if !h.ownProfileOrAdmin(c, id) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You can only view your own profile",
		})
	}

	user, err := h.directory.Profile(id)
	if err != nil {
		log.Printf("Error fetching profile %s: %v", id, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Something went wrong",
		})
	}
	return c.JSON(user)
}

// HandleSaveProfile applies profile changes and returns the updated
// profile.
func (h *UserHandler) HandleSaveProfile(c *fiber.Ctx) error {
	id := c.Params("id")
	if !h.ownProfileOrAdmin(c, id) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You can only update your own profile",
		})
	}

	var update models.User
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	user, err := h.directory.SaveProfile(id, &update)
	if err != nil {
		log.Printf("Error saving profile %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong",
		})
	}
	return c.JSON(user)
}

// HandleList serves one admin page of users, searched by first name.
func (h *UserHandler) HandleList(c *fiber.Ctx) error {
	page, err := h.directory.List(
		c.QueryInt("page", 1),
		c.QueryInt("limit", 10),
		c.Query("search"),
	)
	if err != nil {
		log.Printf("Error listing users: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Something went wrong while fetching users",
		})
	}
	return c.JSON(page)
}

// HandleDelete removes a user account (admin).
func (h *UserHandler) HandleDelete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.directory.Delete(id); err != nil {
		log.Printf("Error deleting user %s: %v", id, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete user",
		})
	}
	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
	})
}

func (h *UserHandler) ownProfileOrAdmin(c *fiber.Ctx, id string) bool {
	sess := middleware.SessionFrom(c)
	if sess.IsAdmin() {
		return true
	}
	own := false
	sess.Do(func(ss *session.Session) {
		own = ss.User != nil && ss.User.ID == id
	})
	return own
}

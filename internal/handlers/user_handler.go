package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/models"
	"storefront/internal/repository"
)

// Costo de bcrypt para las contraseñas nuevas.
var passwordCost = 12

type UserHandler struct {
	responder
	store repository.Store[models.User]
	now   func() time.Time
}

func NewUserHandler(store repository.Store[models.User], production bool) *UserHandler {
	return &UserHandler{responder: responder{production: production}, store: store, now: time.Now}
}

// POST /api/auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var in models.RegisterInput
	if !bind(c, &in) {
		return
	}
	ctx := c.Request.Context()

	taken, err := h.exists(c, "email", in.Email)
	if err != nil || taken {
		if taken {
			abort(c, http.StatusBadRequest, "User already exists")
		}
		return
	}
	if in.Username != "" {
		taken, err = h.exists(c, "username", in.Username)
		if err != nil || taken {
			if taken {
				abort(c, http.StatusBadRequest, "Username already taken")
			}
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), passwordCost)
	if err != nil {
		h.fail(c, err, "User", "Failed to register user")
		return
	}

	user := models.User{
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: string(hash),
		Phone:        in.Phone,
		Role:         models.RoleCustomer,
		Addresses:    []models.Address{},
		Wishlist:     []string{},
		IsActive:     true,
	}
	user.ID = models.NewID("USER")

	if err := h.store.Create(ctx, &user); err != nil {
		h.fail(c, err, "User", "Failed to register user")
		return
	}
	respond(c, http.StatusCreated, gin.H{"message": "User registered successfully", "user": user.Public()})
}

// exists responde el 500 por su cuenta cuando la consulta falla.
func (h *UserHandler) exists(c *gin.Context, field, value string) (bool, error) {
	_, err := h.store.FindOne(c.Request.Context(), field, value)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	}
	h.fail(c, err, "User", "Failed to register user")
	return false, err
}

// POST /api/auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var in models.LoginInput
	if !bind(c, &in) {
		return
	}
	ctx := c.Request.Context()

	field, value := "email", in.Email
	if value == "" {
		field, value = "username", in.Username
	}
	user, err := h.store.FindOne(ctx, field, value)
	if errors.Is(err, repository.ErrNotFound) {
		abort(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.fail(c, err, "User", "Failed to login")
		return
	}
	if !user.IsActive {
		abort(c, http.StatusForbidden, "Account is deactivated")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		abort(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	updated, err := h.store.Update(ctx, user.ID, map[string]any{"lastLogin": h.now()})
	if err != nil {
		h.fail(c, err, "User", "Failed to login")
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Login successful", "user": updated.Public()})
}

// GET /api/users?role=&search=
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, limit := pageParams(c)
	q := repository.Query{
		Sort:  []repository.SortField{{Field: "createdAt", Desc: true}},
		Page:  page,
		Limit: limit,
	}
	if role := c.Query("role"); role != "" && role != "all" {
		q = q.Where("role", role)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q.Search = search
		q.SearchFields = []string{"firstName", "lastName", "email", "username"}
	}

	users, total, err := h.store.List(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err, "User", "Failed to fetch users")
		return
	}
	public := make([]models.User, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}
	respond(c, http.StatusOK, gin.H{
		"users":      public,
		"count":      len(public),
		"pagination": newPagination(page, limit, total),
	})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "User", "Failed to fetch user")
		return
	}
	respond(c, http.StatusOK, gin.H{"user": user.Public()})
}

// PUT /api/users/:id; una contraseña nueva se guarda cifrada.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var update models.UserUpdate
	if !bind(c, &update) {
		return
	}
	fields := update.Fields()
	if update.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*update.Password), passwordCost)
		if err != nil {
			h.fail(c, err, "User", "Failed to update user")
			return
		}
		fields["passwordHash"] = string(hash)
	}
	if len(fields) == 0 {
		abort(c, http.StatusBadRequest, "No valid fields to update")
		return
	}

	user, err := h.store.Update(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		h.fail(c, err, "User", "Failed to update user")
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "User updated successfully", "user": user.Public()})
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "User", "Failed to delete user")
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "User deleted successfully"})
}

package petopiaserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userhttpmapper "github.com/petopia/petopia-server/internal/domains/users/adapters/http/mapper"
	userports "github.com/petopia/petopia-server/internal/domains/users/ports"
)

// UserAPI implements registration, login and profile lookup.
type UserAPI struct {
	service userports.Service
}

// NewUserAPI wires dependencies.
func NewUserAPI(service userports.Service) UserAPI {
	return UserAPI{service: service}
}

// Post /api/users/register
// Create user
func (api *UserAPI) Register(c *gin.Context) {
	var payload userhttpmapper.RegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := api.service.Register(c.Request.Context(), userhttpmapper.ToRegisterInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userhttpmapper.FromDomainUser(user))
}

// Post /api/users/login
// Logs user into the system and returns a bearer token
func (api *UserAPI) Login(c *gin.Context) {
	var payload userhttpmapper.LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	session, err := api.service.Login(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Authorization", "Bearer "+session.Token)
	c.JSON(http.StatusOK, userhttpmapper.FromSession(session))
}

// Get /api/users/:userId
// Get user by id
func (api *UserAPI) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	user, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUser(user))
}

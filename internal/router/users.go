package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/patric-chuzhbe/hotelratings/internal/models"
)

type userService interface {
	SaveUser(ctx context.Context, usr models.User) (models.User, error)
	GetAllUser(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, userID string) (models.UserView, error)
	Ping(ctx context.Context) error
}

// UserRouter holds the handlers of the user service.
type UserRouter struct {
	users userService
}

// NewUserRouter mounts the user endpoints. The singular /user paths are kept
// as aliases of /users.
func NewUserRouter(users userService) *chi.Mux {
	myRouter := UserRouter{users: users}

	router := newMux()
	router.Get(`/ping`, myRouter.GetPing)
	for _, prefix := range []string{`/users`, `/user`} {
		router.Post(prefix, myRouter.PostUsers)
		router.Get(prefix, myRouter.GetUsers)
		router.Get(prefix+`/{userId}`, myRouter.GetUser)
	}

	return router
}

// PostUsers creates a user and answers 201 with the stored record.
func (router *UserRouter) PostUsers(response http.ResponseWriter, request *http.Request) {
	var req models.CreateUserRequest
	if err := decodeJSON(request, &req); err != nil {
		http.Error(response, "malformed user JSON", http.StatusBadRequest)
		return
	}

	usr, err := router.users.SaveUser(request.Context(), models.User{
		Name:  req.Name,
		Email: req.Email,
		About: req.About,
	})
	if err != nil {
		writeError(response, request, err)
		return
	}

	writeJSON(response, http.StatusCreated, usr)
}

// GetUser answers with the user and the ratings enriched by hotels.
func (router *UserRouter) GetUser(response http.ResponseWriter, request *http.Request) {
	view, err := router.users.GetUser(request.Context(), chi.URLParam(request, "userId"))
	if err != nil {
		writeError(response, request, err)
		return
	}

	writeJSON(response, http.StatusOK, view)
}

func (router *UserRouter) GetUsers(response http.ResponseWriter, request *http.Request) {
	users, err := router.users.GetAllUser(request.Context())
	if err != nil {
		writeError(response, request, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	writeJSON(response, http.StatusOK, users)
}

func (router *UserRouter) GetPing(response http.ResponseWriter, request *http.Request) {
	if err := router.users.Ping(request.Context()); err != nil {
		writeError(response, request, err)
		return
	}

	response.WriteHeader(http.StatusOK)
}

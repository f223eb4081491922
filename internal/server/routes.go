package server

import (
	"net/http"

	"anoa.com/scidiscoveries/internal/middleware"
	"github.com/gin-gonic/gin"
)

type access int

const (
	public access = iota
	// optional attaches the caller's identity when a token is present.
	optional
	authenticated
)

type route struct {
	method  string
	path    string
	access  access
	handler gin.HandlerFunc
}

func routes(h Handlers) []route {
	return []route{
		{http.MethodPost, "/register", public, h.User.Register},
		{http.MethodPost, "/auth/login", public, h.User.Login},

		{http.MethodGet, "/institutions", public, h.Institution.GetInstitutions},
		{http.MethodPost, "/institutions", authenticated, h.Institution.CreateInstitution},

		{http.MethodGet, "/contents/fields", public, h.Field.GetFields},
		{http.MethodGet, "/contents/fields/:slug", public, h.Field.GetFieldBySlug},
		{http.MethodGet, "/contents/my", authenticated, h.Content.GetMyContents},
		{http.MethodGet, "/contents", optional, h.Content.GetContents},
		{http.MethodPost, "/contents", authenticated, h.Content.CreateContent},
		{http.MethodGet, "/contents/:slug", optional, h.Content.GetContentBySlug},
		{http.MethodPatch, "/contents/:slug", authenticated, h.Content.UpdateContent},
		{http.MethodDelete, "/contents/:slug", authenticated, h.Content.DeleteContent},
		{http.MethodPost, "/contents/:slug/like", authenticated, h.Like.ToggleLike},
		{http.MethodGet, "/contents/:slug/comments", optional, h.Comment.GetComments},
		{http.MethodPost, "/contents/:slug/comments", authenticated, h.Comment.CreateComment},

		{http.MethodDelete, "/comments/:id", authenticated, h.Comment.DeleteComment},

		{http.MethodGet, "/users", public, h.User.GetUsers},
		{http.MethodGet, "/users/me", authenticated, h.User.GetMe},
		{http.MethodPatch, "/users/me", authenticated, h.User.UpdateMe},
		{http.MethodGet, "/users/:id", public, h.User.GetUser},
		{http.MethodPatch, "/users/:id", authenticated, h.User.UpdateUser},
		{http.MethodPost, "/users/:id/follow", authenticated, h.Follow.ToggleFollow},
		{http.MethodGet, "/users/:id/followers", public, h.Follow.GetFollowers},
		{http.MethodGet, "/users/:id/following", public, h.Follow.GetFollowing},
		{http.MethodGet, "/users/:id/ideas", public, h.Content.GetUserIdeas},
		{http.MethodGet, "/users/:id/contents", public, h.Content.GetUserContents},
	}
}

func registerRoutes(group *gin.RouterGroup, auth *middleware.AuthMiddleware, table []route) {
	for _, r := range table {
		handlers := []gin.HandlerFunc{}
		switch r.access {
		case optional:
			handlers = append(handlers, auth.OptionalAuth())
		case authenticated:
			handlers = append(handlers, auth.RequireAuth())
		}
		handlers = append(handlers, r.handler)
		group.Handle(r.method, r.path, handlers...)
	}
}

package controller

import (
	"github.com/quillpress/blog-api/caching"
	"github.com/quillpress/blog-api/web/middleware"
	"github.com/quillpress/blog-api/web/service"

	"github.com/gin-gonic/gin"
)

// APIController mounts the versioned JSON API.
type APIController struct {
	authController    *AuthController
	userController    *UserController
	blogController    *BlogController
	commentController *CommentController
	adminController   *AdminController
}

// NewAPIController creates the resource controllers and registers their
// routes under /api/v1.
func NewAPIController(g *gin.RouterGroup, cache *caching.Cache, authService *service.AuthService, serverService *service.ServerService) *APIController {
	a := &APIController{}
	a.initRouter(g, cache, authService, serverService)
	return a
}

func (a *APIController) initRouter(g *gin.RouterGroup, cache *caching.Cache, authService *service.AuthService, serverService *service.ServerService) {
	api := g.Group("/api/v1")
	api.Use(middleware.Authenticate(authService))

	a.authController = NewAuthController(api.Group("/auth"), authService, cache)
	a.userController = NewUserController(api.Group("/users"), cache)
	a.blogController = NewBlogController(api.Group("/blogs"), cache)
	a.commentController = NewCommentController(api.Group("/comments"), cache)
	a.adminController = NewAdminController(api, serverService)
}

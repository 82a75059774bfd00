package controller

import (
	"net/http"

	"github.com/quillpress/blog-api/caching"
	"github.com/quillpress/blog-api/database/model"
	"github.com/quillpress/blog-api/web/entity"
	"github.com/quillpress/blog-api/web/middleware"
	"github.com/quillpress/blog-api/web/service"
	"github.com/quillpress/blog-api/web/validation"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	BaseController
	authService *service.AuthService
}

type loginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func NewAuthController(g *gin.RouterGroup, authService *service.AuthService, cache *caching.Cache) *AuthController {
	a := &AuthController{authService: authService}
	a.initRouter(g, cache)
	return a
}

func (a *AuthController) initRouter(g *gin.RouterGroup, cache *caching.Cache) {
	g.POST("/login",
		middleware.LoginRateLimit(cache, middleware.DefaultLoginLimitConfig()),
		validation.Body[entity.LoginRequest](),
		a.login)
}

func (a *AuthController) login(c *gin.Context) {
	req := validation.BodyFrom[entity.LoginRequest](c)
	token, user, err := a.authService.Login(req.Email, req.Password)
	if err != nil {
		a.fail(c, err, "user", req.Email, "loggingIn")
		return
	}
	jsonData(c, http.StatusOK, "api.loginSuccess", loginResult{Token: token, User: user})
}

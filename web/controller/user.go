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

type UserController struct {
	BaseController
	userService service.UserService
	blogService service.BlogService
}

func NewUserController(g *gin.RouterGroup, cache *caching.Cache) *UserController {
	a := &UserController{
		userService: service.NewUserService(cache),
		blogService: service.NewBlogService(cache),
	}
	a.initRouter(g)
	return a
}

func (a *UserController) initRouter(g *gin.RouterGroup) {
	isAdmin := middleware.RequireCapabilities(model.IsAdmin)
	loggedIn := middleware.RequireCapabilities()
	id := validation.ParamID("id")

	g.GET("", isAdmin, a.getUsers)
	g.GET("/me", loggedIn, a.getCurrentUser)
	g.GET("/:id", isAdmin, id, a.getUser)
	g.GET("/:id/blogs", id, a.getUserBlogs)

	g.POST("", validation.Body[entity.CreateUserRequest](), a.addUser)
	g.PUT("/:id", loggedIn, id, validation.Body[entity.UpdateUserRequest](), a.updateUser)
	g.DELETE("/:id", isAdmin, id, a.delUser)
}

func (a *UserController) getUsers(c *gin.Context) {
	page := parsePage(c)
	users, total, err := a.userService.List(page)
	if err != nil {
		a.fail(c, err, "user", nil, "fetchingUsers")
		return
	}
	jsonPage(c, "api.usersRetrieved", users, page.Meta(total))
}

func (a *UserController) getCurrentUser(c *gin.Context) {
	jsonData(c, http.StatusOK, "api.currentUser", middleware.CurrentUser(c))
}

func (a *UserController) getUser(c *gin.Context) {
	id := validation.GetID(c, "id")
	user, err := a.userService.Get(id)
	if err != nil {
		a.fail(c, err, "user", id, "fetchingUser")
		return
	}
	jsonData(c, http.StatusOK, "api.userRetrieved", user)
}

// getUserBlogs lists the blogs of a user. Private ones are included for the
// user themself and administrators.
func (a *UserController) getUserBlogs(c *gin.Context) {
	id := validation.GetID(c, "id")
	if _, err := a.userService.Get(id); err != nil {
		a.fail(c, err, "user", id, "fetchingUserBlogs")
		return
	}

	actor := middleware.CurrentUser(c)
	filter := service.BlogFilter{
		UserId:         id,
		IncludePrivate: actor != nil && (actor.Id == id || actor.IsAdmin()),
	}
	page := parsePage(c)
	blogs, total, err := a.blogService.List(filter, page)
	if err != nil {
		a.fail(c, err, "user", id, "fetchingUserBlogs")
		return
	}
	jsonPage(c, "api.userBlogsRetrieved", blogs, page.Meta(total))
}

func (a *UserController) addUser(c *gin.Context) {
	req := validation.BodyFrom[entity.CreateUserRequest](c)
	user, err := a.userService.Create(middleware.CurrentUser(c), req)
	if err != nil {
		a.fail(c, err, "user", nil, "creatingUser")
		return
	}
	jsonData(c, http.StatusCreated, "api.userCreated", user)
}

func (a *UserController) updateUser(c *gin.Context) {
	id := validation.GetID(c, "id")
	req := validation.BodyFrom[entity.UpdateUserRequest](c)
	user, err := a.userService.Update(middleware.CurrentUser(c), id, req)
	if err != nil {
		a.fail(c, err, "user", id, "updatingUser")
		return
	}
	jsonData(c, http.StatusOK, "api.userUpdated", user)
}

func (a *UserController) delUser(c *gin.Context) {
	id := validation.GetID(c, "id")
	if err := a.userService.Delete(id); err != nil {
		a.fail(c, err, "user", id, "deletingUser")
		return
	}
	jsonData(c, http.StatusOK, "api.userDeleted", deleted{Id: id})
}

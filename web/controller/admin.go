package controller

import (
	"net/http"
	"strconv"

	"github.com/quillpress/blog-api/database/model"
	"github.com/quillpress/blog-api/logger"
	"github.com/quillpress/blog-api/web/middleware"
	"github.com/quillpress/blog-api/web/service"

	"github.com/gin-gonic/gin"
)

const defaultLogCount = 100

// AdminController serves the role catalogue, health checks and the
// administrator diagnostics.
type AdminController struct {
	BaseController
	roleService   service.RoleService
	serverService *service.ServerService
}

func NewAdminController(g *gin.RouterGroup, serverService *service.ServerService) *AdminController {
	a := &AdminController{serverService: serverService}
	a.initRouter(g)
	return a
}

func (a *AdminController) initRouter(g *gin.RouterGroup) {
	g.GET("/roles", a.getRoles)
	g.GET("/healthz", a.health)

	admin := g.Group("/admin")
	admin.Use(middleware.RequireCapabilities(model.IsAdmin))
	admin.GET("/logs", a.getLogs)
	admin.GET("/status", a.status)
}

func (a *AdminController) getRoles(c *gin.Context) {
	roles, err := a.roleService.List()
	if err != nil {
		a.fail(c, err, "role", nil, "fetchingRoles")
		return
	}
	jsonData(c, http.StatusOK, "api.rolesRetrieved", roles)
}

func (a *AdminController) health(c *gin.Context) {
	h := a.serverService.GetHealth()
	status := http.StatusOK
	if h.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, h)
}

// getLogs returns the newest buffered log lines at or above level.
func (a *AdminController) getLogs(c *gin.Context) {
	count, err := strconv.Atoi(c.Query("count"))
	if err != nil || count <= 0 {
		count = defaultLogCount
	}
	level := c.DefaultQuery("level", "info")
	jsonData(c, http.StatusOK, "api.logsRetrieved", logger.GetLogs(count, level))
}

func (a *AdminController) status(c *gin.Context) {
	c.JSON(http.StatusOK, a.serverService.GetStatus())
}

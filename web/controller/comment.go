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

type CommentController struct {
	BaseController
	commentService service.CommentService
}

func NewCommentController(g *gin.RouterGroup, cache *caching.Cache) *CommentController {
	a := &CommentController{commentService: service.NewCommentService(cache)}
	a.initRouter(g)
	return a
}

func (a *CommentController) initRouter(g *gin.RouterGroup) {
	canComment := middleware.RequireCapabilities(model.CanComment)
	canModerate := middleware.RequireCapabilities(model.CanModerate)
	id := validation.ParamID("id")

	g.GET("", canModerate, a.getComments)
	g.GET("/:id", id, a.getComment)

	g.POST("", canComment, validation.Body[entity.CreateCommentRequest](), a.addComment)
	g.PUT("/:id", canComment, id, validation.Body[entity.UpdateCommentRequest](), a.updateComment)
	g.DELETE("/:id", canModerate, id, a.delComment)
}

func (a *CommentController) getComments(c *gin.Context) {
	page := parsePage(c)
	comments, total, err := a.commentService.List(page)
	if err != nil {
		a.fail(c, err, "comment", nil, "fetchingComments")
		return
	}
	jsonPage(c, "api.commentsRetrieved", comments, page.Meta(total))
}

func (a *CommentController) getComment(c *gin.Context) {
	id := validation.GetID(c, "id")
	detail, err := a.commentService.Get(id)
	if err == nil {
		blog := &model.Blog{IsPublic: detail.Blog.IsPublic, UserId: detail.Blog.UserId}
		if !service.CanView(middleware.CurrentUser(c), blog) {
			err = service.ErrNotFound
		}
	}
	if err != nil {
		a.fail(c, err, "comment", id, "fetchingComment")
		return
	}
	jsonData(c, http.StatusOK, "api.commentRetrieved", detail)
}

func (a *CommentController) addComment(c *gin.Context) {
	req := validation.BodyFrom[entity.CreateCommentRequest](c)
	comment, err := a.commentService.Create(middleware.CurrentUser(c), req)
	if err != nil {
		a.fail(c, err, "comment", nil, "creatingComment")
		return
	}
	jsonData(c, http.StatusCreated, "api.commentCreated", comment)
}

func (a *CommentController) updateComment(c *gin.Context) {
	id := validation.GetID(c, "id")
	req := validation.BodyFrom[entity.UpdateCommentRequest](c)
	comment, err := a.commentService.Update(middleware.CurrentUser(c), id, req)
	if err != nil {
		a.fail(c, err, "comment", id, "updatingComment")
		return
	}
	jsonData(c, http.StatusOK, "api.commentUpdated", comment)
}

func (a *CommentController) delComment(c *gin.Context) {
	id := validation.GetID(c, "id")
	if err := a.commentService.Delete(id); err != nil {
		a.fail(c, err, "comment", id, "deletingComment")
		return
	}
	jsonData(c, http.StatusOK, "api.commentDeleted", deleted{Id: id})
}

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

// blogDetail always reports the comment threads, empty or not.
type blogDetail struct {
	*model.Blog
	Comments []model.Comment `json:"comments"`
}

type BlogController struct {
	BaseController
	blogService    service.BlogService
	commentService service.CommentService
}

func NewBlogController(g *gin.RouterGroup, cache *caching.Cache) *BlogController {
	a := &BlogController{
		blogService:    service.NewBlogService(cache),
		commentService: service.NewCommentService(cache),
	}
	a.initRouter(g)
	return a
}

func (a *BlogController) initRouter(g *gin.RouterGroup) {
	canCreate := middleware.RequireCapabilities(model.CanCreateBlog)
	id := validation.ParamID("id")

	g.GET("", a.getBlogs)
	g.GET("/:id", a.getBlog)
	g.GET("/:id/comments", a.getBlogComments)

	g.POST("", canCreate, validation.Body[entity.CreateBlogRequest](), a.addBlog)
	g.PUT("/:id", canCreate, id, validation.Body[entity.UpdateBlogRequest](), a.updateBlog)
	g.DELETE("/:id", canCreate, id, a.delBlog)
}

func (a *BlogController) getBlogs(c *gin.Context) {
	page := parsePage(c)
	blogs, total, err := a.blogService.List(service.BlogFilter{}, page)
	if err != nil {
		a.fail(c, err, "blog", nil, "fetchingBlogs")
		return
	}
	jsonPage(c, "api.blogsRetrieved", blogs, page.Meta(total))
}

// visibleBlog loads the blog named by the :id parameter, which may be a
// numeric id or a slug. Blogs the requester may not see are reported as
// missing.
func (a *BlogController) visibleBlog(c *gin.Context, operation string) (*model.Blog, bool) {
	ref := c.Param("id")
	blog, err := a.blogService.Get(ref)
	if err == nil && !service.CanView(middleware.CurrentUser(c), blog) {
		err = service.ErrNotFound
	}
	if err != nil {
		a.fail(c, err, "blog", ref, operation)
		return nil, false
	}
	return blog, true
}

func (a *BlogController) getBlog(c *gin.Context) {
	blog, ok := a.visibleBlog(c, "fetchingBlog")
	if !ok {
		return
	}
	detail := blogDetail{Blog: blog, Comments: blog.Comments}
	if detail.Comments == nil {
		detail.Comments = []model.Comment{}
	}
	jsonData(c, http.StatusOK, "api.blogRetrieved", detail)
}

func (a *BlogController) getBlogComments(c *gin.Context) {
	blog, ok := a.visibleBlog(c, "fetchingBlogComments")
	if !ok {
		return
	}
	comments, err := a.commentService.ListByBlog(blog.Id)
	if err != nil {
		a.fail(c, err, "blog", blog.Id, "fetchingBlogComments")
		return
	}
	jsonData(c, http.StatusOK, "api.blogCommentsRetrieved", comments)
}

func (a *BlogController) addBlog(c *gin.Context) {
	req := validation.BodyFrom[entity.CreateBlogRequest](c)
	blog, err := a.blogService.Create(middleware.CurrentUser(c), req)
	if err != nil {
		a.fail(c, err, "blog", nil, "creatingBlog")
		return
	}
	jsonData(c, http.StatusCreated, "api.blogCreated", blog)
}

func (a *BlogController) updateBlog(c *gin.Context) {
	id := validation.GetID(c, "id")
	req := validation.BodyFrom[entity.UpdateBlogRequest](c)
	blog, err := a.blogService.Update(middleware.CurrentUser(c), id, req)
	if err != nil {
		a.fail(c, err, "blog", id, "updatingBlog")
		return
	}
	jsonData(c, http.StatusOK, "api.blogUpdated", blog)
}

func (a *BlogController) delBlog(c *gin.Context) {
	id := validation.GetID(c, "id")
	if err := a.blogService.Delete(middleware.CurrentUser(c), id); err != nil {
		a.fail(c, err, "blog", id, "deletingBlog")
		return
	}
	jsonData(c, http.StatusOK, "api.blogDeleted", deleted{Id: id})
}

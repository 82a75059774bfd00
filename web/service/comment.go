package service

import (
	"errors"
	"time"

	"github.com/quillpress/blog-api/caching"
	"github.com/quillpress/blog-api/database"
	"github.com/quillpress/blog-api/database/model"
	"github.com/quillpress/blog-api/web/entity"

	"gorm.io/gorm"
)

type BlogSummary struct {
	Id       int    `json:"id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	IsPublic bool   `json:"isPublic"`
	UserId   *int   `json:"userId"`
}

type CommentSummary struct {
	Id      int    `json:"id"`
	Content string `json:"content"`
	Deleted bool   `json:"deleted"`
	UserId  *int   `json:"userId"`
}

// CommentDetail is a single comment together with the blog it belongs to,
// its parent and its direct replies.
type CommentDetail struct {
	Id        int             `json:"id"`
	Content   string          `json:"content"`
	Deleted   bool            `json:"deleted"`
	UserId    *int            `json:"userId"`
	User      *model.User     `json:"user"`
	BlogId    int             `json:"blogId"`
	Blog      *BlogSummary    `json:"blog"`
	ParentId  *int            `json:"parentId"`
	Parent    *CommentSummary `json:"parent"`
	Replies   []model.Comment `json:"replies"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type CommentService struct {
	userService UserService
	cache       *caching.Cache
}

func NewCommentService(cache *caching.Cache) CommentService {
	return CommentService{userService: NewUserService(cache), cache: cache}
}

// List returns every comment, roots and replies alike, with its author.
func (s *CommentService) List(page entity.Page) ([]model.Comment, int64, error) {
	db := database.GetDB()

	var total int64
	if err := db.Model(&model.Comment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	comments := make([]model.Comment, 0, page.Limit)
	err := db.Preload("User").
		Order(page.OrderBy("created_at")).
		Order(page.OrderBy("id")).
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&comments).Error
	return comments, total, err
}

// ListByBlog returns the root comments of blogId, oldest first, each with its
// direct replies.
func (s *CommentService) ListByBlog(blogId int) ([]model.Comment, error) {
	db := database.GetDB()
	blog := &model.Blog{}
	if err := withThreads(db, "Comments").First(blog, blogId).Error; err != nil {
		return nil, notFound(err)
	}
	if blog.Comments == nil {
		return []model.Comment{}, nil
	}
	return blog.Comments, nil
}

func (s *CommentService) Get(id int) (*CommentDetail, error) {
	db := database.GetDB()
	c := &model.Comment{}
	err := db.Preload("User").
		Preload("Replies", func(q *gorm.DB) *gorm.DB {
			return q.Order("created_at ASC").Order("id ASC")
		}).
		Preload("Replies.User").
		First(c, id).Error
	if err != nil {
		return nil, notFound(err)
	}

	blog := &model.Blog{}
	if err := db.Select("id", "title", "slug", "is_public", "user_id").First(blog, c.BlogId).Error; err != nil {
		return nil, err
	}
	detail := &CommentDetail{
		Id:      c.Id,
		Content: c.DisplayContent(),
		Deleted: c.Deleted,
		UserId:  c.UserId,
		User:    c.User,
		BlogId:  c.BlogId,
		Blog: &BlogSummary{
			Id:       blog.Id,
			Title:    blog.Title,
			Slug:     blog.Slug,
			IsPublic: blog.IsPublic,
			UserId:   blog.UserId,
		},
		ParentId:  c.ParentId,
		Replies:   c.Replies,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if detail.Replies == nil {
		detail.Replies = []model.Comment{}
	}
	if !c.IsRoot() {
		parent := &model.Comment{}
		if err := db.First(parent, *c.ParentId).Error; err != nil {
			return nil, err
		}
		detail.Parent = &CommentSummary{
			Id:      parent.Id,
			Content: parent.DisplayContent(),
			Deleted: parent.Deleted,
			UserId:  parent.UserId,
		}
	}
	return detail, nil
}

// Create stores a comment or a reply. The blog must exist and a parent must
// be a comment on that same blog.
func (s *CommentService) Create(actor *model.User, req *entity.CreateCommentRequest) (*model.Comment, error) {
	authorId, err := s.resolveAuthor(actor, req.UserId)
	if err != nil {
		return nil, err
	}

	db := database.GetDB()
	blog := &model.Blog{}
	if err := db.Select("id", "user_id", "is_public").First(blog, req.BlogId).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, inputError("blogId", "validation.comment.blogId", ErrNotFound)
		}
		return nil, err
	}
	if !CanView(actor, blog) {
		return nil, inputError("blogId", "validation.comment.blogId", ErrNotFound)
	}
	if req.ParentId != nil {
		parent := &model.Comment{}
		err := db.Select("id", "blog_id").First(parent, *req.ParentId).Error
		if database.IsNotFound(err) || (err == nil && parent.BlogId != req.BlogId) {
			return nil, inputError("parentId", "validation.comment.parentBlog", ErrInvalidParent)
		} else if err != nil {
			return nil, err
		}
	}

	comment := &model.Comment{
		Content:  req.Content,
		UserId:   &authorId,
		BlogId:   req.BlogId,
		ParentId: req.ParentId,
	}
	if err := db.Create(comment).Error; err != nil {
		return nil, err
	}
	s.invalidate()
	return s.load(comment.Id)
}

func (s *CommentService) resolveAuthor(actor *model.User, userId *int) (int, error) {
	if userId == nil || *userId == actor.Id {
		return actor.Id, nil
	}
	if !actor.IsAdmin() {
		return 0, ErrForbidden
	}
	if _, err := s.userService.Get(*userId); errors.Is(err, ErrNotFound) {
		return 0, inputError("userId", "validation.comment.userId", err)
	} else if err != nil {
		return 0, err
	}
	return *userId, nil
}

// Update replaces the content of a live comment. Only its author or an
// administrator may edit it.
func (s *CommentService) Update(actor *model.User, id int, req *entity.UpdateCommentRequest) (*model.Comment, error) {
	db := database.GetDB()
	c := &model.Comment{}
	if err := db.First(c, id).Error; err != nil {
		return nil, notFound(err)
	}
	if !actor.IsAdmin() && (c.UserId == nil || *c.UserId != actor.Id) {
		return nil, ErrForbidden
	}
	if c.Deleted {
		return nil, ErrCommentDeleted
	}

	err := db.Model(&model.Comment{}).Where("id = ?", id).
		Updates(map[string]any{"content": req.Content, "updated_at": time.Now()}).Error
	if err != nil {
		return nil, err
	}
	s.invalidate()
	return s.load(id)
}

// Delete tombstones a comment: the row, its parent link and its replies stay,
// the stored text is cleared. Deleting a tombstone again is a no-op.
func (s *CommentService) Delete(id int) error {
	db := database.GetDB()
	c := &model.Comment{}
	if err := db.Select("id", "deleted").First(c, id).Error; err != nil {
		return notFound(err)
	}
	if c.Deleted {
		return nil
	}
	err := db.Model(&model.Comment{}).Where("id = ?", id).
		Updates(map[string]any{"deleted": true, "content": "", "updated_at": time.Now()}).Error
	if err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *CommentService) load(id int) (*model.Comment, error) {
	db := database.GetDB()
	c := &model.Comment{}
	if err := db.Preload("User").First(c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (s *CommentService) invalidate() {
	if s.cache != nil {
		s.cache.DeletePrefix(blogCachePrefix)
	}
}

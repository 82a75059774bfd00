package service

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/quillpress/blog-api/caching"
	"github.com/quillpress/blog-api/database"
	"github.com/quillpress/blog-api/database/model"
	"github.com/quillpress/blog-api/logger"
	"github.com/quillpress/blog-api/util/slug"
	"github.com/quillpress/blog-api/web/entity"

	"gorm.io/gorm"
)

const (
	blogCachePrefix = "blog:"
	blogCacheTTL    = 2 * time.Minute
)

// BlogFilter narrows blog listings. Private blogs are included only when
// IncludePrivate is set.
type BlogFilter struct {
	UserId         int
	IncludePrivate bool
}

type BlogService struct {
	userService UserService
	cache       *caching.Cache
}

func NewBlogService(cache *caching.Cache) BlogService {
	return BlogService{userService: NewUserService(cache), cache: cache}
}

func (s *BlogService) List(filter BlogFilter, page entity.Page) ([]model.Blog, int64, error) {
	db := database.GetDB()

	scope := func(q *gorm.DB) *gorm.DB {
		if filter.UserId > 0 {
			q = q.Where("user_id = ?", filter.UserId)
		}
		if !filter.IncludePrivate {
			q = q.Where("is_public = ?", true)
		}
		return q
	}

	var total int64
	if err := db.Model(&model.Blog{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	blogs := make([]model.Blog, 0, page.Limit)
	err := db.Scopes(scope).
		Preload("Author").
		Order(page.OrderBy("created_at")).
		Order(page.OrderBy("id")).
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&blogs).Error
	return blogs, total, err
}

// Get resolves ref as a numeric id, or as a slug otherwise, and returns the
// blog with its author and comment threads.
func (s *BlogService) Get(ref string) (*model.Blog, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		return s.GetById(id)
	}
	return s.getCached("slug:"+ref, "slug = ?", ref)
}

func (s *BlogService) GetById(id int) (*model.Blog, error) {
	return s.getCached("id:"+strconv.Itoa(id), "id = ?", id)
}

func (s *BlogService) getCached(key string, query string, arg any) (*model.Blog, error) {
	key = blogCachePrefix + key
	blog := &model.Blog{}
	var gen uint64
	if s.cache != nil {
		if s.cache.GetJSON(key, blog) {
			return blog, nil
		}
		gen = s.cache.Generation(blogCachePrefix)
	}

	db := database.GetDB()
	err := withThreads(db.Preload("Author"), "Comments").
		Where(query, arg).
		First(blog).Error
	if err != nil {
		return nil, notFound(err)
	}
	if s.cache != nil {
		if _, err := s.cache.SetJSONIfCurrent(blogCachePrefix, gen, key, blog, blogCacheTTL); err != nil {
			logger.Warning("cache blog failed:", err)
		}
	}
	return blog, nil
}

// Create stores a new blog for actor, or for req.UserId when an
// administrator writes on someone else's behalf.
func (s *BlogService) Create(actor *model.User, req *entity.CreateBlogRequest) (*model.Blog, error) {
	authorId, err := s.resolveAuthor(actor, req.UserId)
	if err != nil {
		return nil, err
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	db := database.GetDB()
	blog := &model.Blog{
		Title:    req.Title,
		Content:  req.Content,
		IsPublic: isPublic,
		UserId:   &authorId,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if blog.Slug, err = uniqueSlug(tx, req.Title, 0); err != nil {
			return err
		}
		return tx.Create(blog).Error
	})
	if err != nil {
		return nil, err
	}
	s.invalidate()
	return s.GetById(blog.Id)
}

func (s *BlogService) resolveAuthor(actor *model.User, userId *int) (int, error) {
	if userId == nil || *userId == actor.Id {
		return actor.Id, nil
	}
	if !actor.IsAdmin() {
		return 0, ErrForbidden
	}
	if _, err := s.userService.Get(*userId); errors.Is(err, ErrNotFound) {
		return 0, inputError("userId", "validation.blog.userId", err)
	} else if err != nil {
		return 0, err
	}
	return *userId, nil
}

// Update merges the provided fields. Only the author, moderators and
// administrators may edit a blog. A new title recomputes the slug.
func (s *BlogService) Update(actor *model.User, id int, req *entity.UpdateBlogRequest) (*model.Blog, error) {
	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		blog := &model.Blog{}
		if err := tx.First(blog, id).Error; err != nil {
			return notFound(err)
		}
		if !canManageBlog(actor, blog) {
			return ErrForbidden
		}

		updates := map[string]any{"updated_at": time.Now()}
		if req.Title != nil {
			updates["title"] = *req.Title
			newSlug, err := uniqueSlug(tx, *req.Title, id)
			if err != nil {
				return err
			}
			updates["slug"] = newSlug
		}
		if req.Content != nil {
			updates["content"] = *req.Content
		}
		if req.IsPublic != nil {
			updates["is_public"] = *req.IsPublic
		}
		if req.Views != nil {
			updates["views"] = *req.Views
		}
		return tx.Model(&model.Blog{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	s.invalidate()
	return s.GetById(id)
}

// Delete removes the blog and every comment on it.
func (s *BlogService) Delete(actor *model.User, id int) error {
	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		blog := &model.Blog{}
		if err := tx.First(blog, id).Error; err != nil {
			return notFound(err)
		}
		if !canManageBlog(actor, blog) {
			return ErrForbidden
		}
		if err := tx.Where("blog_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Blog{}, id).Error
	})
	if err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// CanView reports whether actor may read blog. Private blogs are visible to
// their author and administrators only; orphaned private blogs to
// administrators only.
func CanView(actor *model.User, blog *model.Blog) bool {
	if blog.IsPublic {
		return true
	}
	return blog.WrittenBy(actor) || actor.IsAdmin()
}

func canManageBlog(actor *model.User, blog *model.Blog) bool {
	return blog.WrittenBy(actor) || actor.Can(model.CanModerate)
}

func (s *BlogService) invalidate() {
	if s.cache != nil {
		s.cache.DeletePrefix(blogCachePrefix)
	}
}

// uniqueSlug derives a slug from title, adding a numeric suffix while it
// collides with another blog.
func uniqueSlug(tx *gorm.DB, title string, excludeId int) (string, error) {
	base := slug.Make(title)
	if base == "" || isDigits(base) {
		base = strings.TrimSuffix("blog-"+base, "-")
	}
	for n := 1; ; n++ {
		candidate := slug.WithSuffix(base, n)
		q := tx.Model(&model.Blog{}).Where("slug = ?", candidate)
		if excludeId > 0 {
			q = q.Where("id <> ?", excludeId)
		}
		var count int64
		if err := q.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// withThreads preloads root comments under field, oldest first, with their
// authors and direct replies.
func withThreads(db *gorm.DB, field string) *gorm.DB {
	oldestFirst := func(q *gorm.DB) *gorm.DB {
		return q.Order("created_at ASC").Order("id ASC")
	}
	return db.
		Preload(field, "parent_id IS NULL", oldestFirst).
		Preload(field+".User").
		Preload(field+".Replies", oldestFirst).
		Preload(field + ".Replies.User")
}

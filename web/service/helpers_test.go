package service

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/quillpress/blog-api/caching"
	"github.com/quillpress/blog-api/database"
	"github.com/quillpress/blog-api/database/model"
	"github.com/quillpress/blog-api/util/crypto"
	"github.com/quillpress/blog-api/web/entity"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "secret123"

func setup(t *testing.T) *caching.Cache {
	t.Helper()
	crypto.Cost = bcrypt.MinCost
	require.NoError(t, database.InitSQLite(filepath.Join(t.TempDir(), "test.db")))
	t.Cleanup(func() { _ = database.CloseDB() })

	cache := caching.NewCache()
	t.Cleanup(cache.Flush)
	return cache
}

func createUser(t *testing.T, roleTitle, name string) *model.User {
	t.Helper()
	roleService := RoleService{}
	role, err := roleService.GetByTitle(roleTitle)
	require.NoError(t, err)
	hash, err := crypto.HashPasswordAsBcrypt(testPassword)
	require.NoError(t, err)

	u := &model.User{
		Email:    name + "@example.com",
		Name:     name,
		Username: name,
		Password: hash,
		RoleId:   role.Id,
	}
	require.NoError(t, database.GetDB().Create(u).Error)
	u.Role = role
	return u
}

func createBlog(t *testing.T, s *BlogService, author *model.User, title string, public bool) *model.Blog {
	t.Helper()
	blog, err := s.Create(author, &entity.CreateBlogRequest{
		Title:    title,
		Content:  strings.Repeat("lorem ipsum ", 10),
		IsPublic: &public,
	})
	require.NoError(t, err)
	return blog
}

func createComment(t *testing.T, s *CommentService, author *model.User, blogId int, parentId *int, content string) *model.Comment {
	t.Helper()
	c, err := s.Create(author, &entity.CreateCommentRequest{
		Content:  content,
		BlogId:   blogId,
		ParentId: parentId,
	})
	require.NoError(t, err)
	return c
}

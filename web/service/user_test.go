package service

import (
	"testing"

	"github.com/quillpress/blog-api/database"
	"github.com/quillpress/blog-api/database/model"
	"github.com/quillpress/blog-api/util/crypto"
	"github.com/quillpress/blog-api/web/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestCreateUserRoleAssignment(t *testing.T) {
	cache := setup(t)
	users := NewUserService(cache)
	roles := RoleService{}
	admin := createUser(t, "admin", "root")
	adminRole, err := roles.GetByTitle("admin")
	require.NoError(t, err)

	req := func(name string, roleId *int) *entity.CreateUserRequest {
		return &entity.CreateUserRequest{
			Email:    name + "@example.com",
			Name:     name,
			Username: name,
			Password: testPassword,
			RoleId:   roleId,
		}
	}

	// anonymous sign-up cannot pick a role
	u, err := users.Create(nil, req("eve", intPtr(adminRole.Id)))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultRoleTitle, u.Role.Title)
	assert.True(t, crypto.IsBcryptHash(u.Password))
	assert.True(t, crypto.CheckPasswordHash(u.Password, testPassword))

	u, err = users.Create(admin, req("mod", intPtr(adminRole.Id)))
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())

	_, err = users.Create(admin, req("ghost", intPtr(999)))
	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "roleId", inputErr.Field)

	_, err = users.Create(nil, req("eve", nil))
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "email", inputErr.Field)
}

func TestUpdateUser(t *testing.T) {
	cache := setup(t)
	users := NewUserService(cache)
	reader := createUser(t, "reader", "rita")
	other := createUser(t, "reader", "otto")
	admin := createUser(t, "admin", "root")

	before, err := users.Get(reader.Id)
	require.NoError(t, err)

	u, err := users.Update(reader, reader.Id, &entity.UpdateUserRequest{
		Name:     strPtr("Rita R"),
		Password: strPtr("newpass99"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Rita R", u.Name)
	assert.Equal(t, "rita", u.Username)
	assert.True(t, crypto.CheckPasswordHash(u.Password, "newpass99"))
	assert.False(t, u.UpdatedAt.Before(before.UpdatedAt))

	_, err = users.Update(reader, other.Id, &entity.UpdateUserRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = users.Update(reader, reader.Id, &entity.UpdateUserRequest{RoleId: intPtr(admin.RoleId)})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = users.Update(reader, reader.Id, &entity.UpdateUserRequest{Username: strPtr("otto")})
	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "username", inputErr.Field)

	u, err = users.Update(admin, reader.Id, &entity.UpdateUserRequest{RoleId: intPtr(admin.RoleId)})
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())

	_, err = users.Update(admin, 999, &entity.UpdateUserRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUserKeepsComments(t *testing.T) {
	cache := setup(t)
	users := NewUserService(cache)
	blogs := NewBlogService(cache)
	comments := NewCommentService(cache)

	alice := createUser(t, "author", "alice")
	bob := createUser(t, "author", "bob")

	aliceBlog := createBlog(t, &blogs, alice, "Alice writes", true)
	bobBlog := createBlog(t, &blogs, bob, "Bob writes", true)

	onBob := createComment(t, &comments, alice, bobBlog.Id, nil, "alice on bob")
	onOwn := createComment(t, &comments, alice, aliceBlog.Id, nil, "alice on alice")
	bobOnAlice := createComment(t, &comments, bob, aliceBlog.Id, &onOwn.Id, "bob on alice")
	createComment(t, &comments, bob, bobBlog.Id, &onBob.Id, "bob replies")

	// warm the cache so the delete has to invalidate it
	_, err := blogs.GetById(aliceBlog.Id)
	require.NoError(t, err)

	require.NoError(t, users.Delete(alice.Id))

	_, err = users.Get(alice.Id)
	assert.ErrorIs(t, err, ErrNotFound)

	for _, tc := range []struct {
		id      int
		content string
		author  *int
	}{
		{onBob.Id, "alice on bob", nil},
		{onOwn.Id, "alice on alice", nil},
		{bobOnAlice.Id, "bob on alice", &bob.Id},
	} {
		kept := &model.Comment{}
		require.NoError(t, database.GetDB().First(kept, tc.id).Error)
		assert.Equal(t, tc.author, kept.UserId)
		assert.Equal(t, tc.content, kept.Content)
		assert.False(t, kept.Deleted)
	}

	thread, err := comments.ListByBlog(bobBlog.Id)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Len(t, thread[0].Replies, 1)

	orphan, err := blogs.GetById(aliceBlog.Id)
	require.NoError(t, err)
	assert.Nil(t, orphan.UserId)
	assert.Nil(t, orphan.Author)
	require.Len(t, orphan.Comments, 1)
	assert.Equal(t, "alice on alice", orphan.Comments[0].Content)
	assert.Len(t, orphan.Comments[0].Replies, 1)

	assert.ErrorIs(t, users.Delete(alice.Id), ErrNotFound)
}

func TestOrphanedBlogAccess(t *testing.T) {
	cache := setup(t)
	users := NewUserService(cache)
	blogs := NewBlogService(cache)

	ann := createUser(t, "author", "ann")
	mod := createUser(t, "moderator", "mo")
	admin := createUser(t, "admin", "root")
	private := createBlog(t, &blogs, ann, "Left behind", false)
	require.NoError(t, users.Delete(ann.Id))

	orphan, err := blogs.GetById(private.Id)
	require.NoError(t, err)
	assert.False(t, CanView(nil, orphan))
	assert.False(t, CanView(mod, orphan))
	assert.True(t, CanView(admin, orphan))

	updated, err := blogs.Update(mod, private.Id, &entity.UpdateBlogRequest{IsPublic: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsPublic)
	assert.Nil(t, updated.UserId)
}

func TestPromoteAndResetPassword(t *testing.T) {
	cache := setup(t)
	users := NewUserService(cache)
	createUser(t, "reader", "pat")

	require.NoError(t, users.Promote("pat@example.com", "moderator"))
	u, err := users.GetByEmail("pat@example.com")
	require.NoError(t, err)
	assert.Equal(t, "moderator", u.Role.Title)

	assert.ErrorIs(t, users.Promote("pat@example.com", "emperor"), ErrNotFound)
	assert.ErrorIs(t, users.Promote("nobody@example.com", "admin"), ErrNotFound)

	require.NoError(t, users.ResetPassword("pat@example.com", "fresh1234"))
	u, err = users.GetByEmail("pat@example.com")
	require.NoError(t, err)
	assert.True(t, crypto.CheckPasswordHash(u.Password, "fresh1234"))
	assert.Error(t, users.ResetPassword("pat@example.com", ""))
	assert.EqualError(t, users.ResetPassword("pat@example.com", "short1"), "password must be at least 8 characters long")
}

func TestListUsersPaginates(t *testing.T) {
	cache := setup(t)
	users := NewUserService(cache)
	for _, name := range []string{"u1", "u2", "u3"} {
		createUser(t, "reader", name)
	}

	page, total, err := users.List(entity.Page{Page: 2, Limit: 2, Desc: false})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "u3", page[0].Username)
	assert.NotNil(t, page[0].Role)
}

package entity

import "strings"

// Requests decoded by the validation middleware. Update requests use
// pointers so absent fields can be told apart from empty ones.

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
}

func (r *LoginRequest) Messages() map[string]string {
	return map[string]string{
		"email.required":    "validation.login.emailRequired",
		"email.email":       "validation.login.email",
		"password.required": "validation.login.passwordRequired",
	}
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Username string `json:"username" validate:"required,min=3,max=30,username"`
	Password string `json:"password" validate:"required,min=8,password"`
	RoleId   *int   `json:"roleId" validate:"omitempty,min=1"`
}

func (r *CreateUserRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	r.Username = strings.TrimSpace(r.Username)
}

func (r *CreateUserRequest) Messages() map[string]string {
	return userMessages
}

type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Name     *string `json:"name" validate:"omitempty,min=2,max=50"`
	Username *string `json:"username" validate:"omitempty,min=3,max=30,username"`
	Password *string `json:"password" validate:"omitempty,min=8,password"`
	RoleId   *int    `json:"roleId" validate:"omitempty,min=1"`
}

func (r *UpdateUserRequest) Normalize() {
	if r.Email != nil {
		*r.Email = normalizeEmail(*r.Email)
	}
	trimPtr(r.Name)
	trimPtr(r.Username)
}

func (r *UpdateUserRequest) Messages() map[string]string {
	return userMessages
}

var userMessages = map[string]string{
	"email.required":    "validation.user.email",
	"email.email":       "validation.user.email",
	"name.required":     "validation.user.name",
	"name.min":          "validation.user.name",
	"name.max":          "validation.user.name",
	"username.required": "validation.user.usernameLength",
	"username.min":      "validation.user.usernameLength",
	"username.max":      "validation.user.usernameLength",
	"username.username": "validation.user.usernameChars",
	"password.required": "validation.user.passwordLength",
	"password.min":      "validation.user.passwordLength",
	"password.password": "validation.user.passwordChars",
	"roleId.min":        "validation.user.roleId",
	"roleId.type":       "validation.user.roleId",
}

type CreateBlogRequest struct {
	Title    string `json:"title" validate:"required,min=3,max=100"`
	Content  string `json:"content" validate:"required,min=100"`
	UserId   *int   `json:"userId" validate:"omitempty,min=1"`
	IsPublic *bool  `json:"isPublic"`
}

func (r *CreateBlogRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
}

func (r *CreateBlogRequest) Messages() map[string]string {
	return blogMessages
}

type UpdateBlogRequest struct {
	Title    *string `json:"title" validate:"omitempty,min=3,max=100"`
	Content  *string `json:"content" validate:"omitempty,min=100"`
	IsPublic *bool   `json:"isPublic"`
	Views    *int    `json:"views" validate:"omitempty,min=0"`
}

func (r *UpdateBlogRequest) Normalize() {
	trimPtr(r.Title)
	trimPtr(r.Content)
}

func (r *UpdateBlogRequest) Messages() map[string]string {
	return blogMessages
}

var blogMessages = map[string]string{
	"title.required":   "validation.blog.title",
	"title.min":        "validation.blog.title",
	"title.max":        "validation.blog.title",
	"content.required": "validation.blog.content",
	"content.min":      "validation.blog.content",
	"userId.min":       "validation.blog.userId",
	"userId.type":      "validation.blog.userId",
	"isPublic.type":    "validation.blog.isPublic",
	"views.min":        "validation.blog.views",
	"views.type":       "validation.blog.views",
}

type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,max=1000"`
	BlogId   int    `json:"blogId" validate:"required,min=1"`
	UserId   *int   `json:"userId" validate:"omitempty,min=1"`
	ParentId *int   `json:"parentId" validate:"omitempty,min=1"`
}

func (r *CreateCommentRequest) Normalize() {
	r.Content = strings.TrimSpace(r.Content)
}

func (r *CreateCommentRequest) Messages() map[string]string {
	return commentMessages
}

type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

func (r *UpdateCommentRequest) Normalize() {
	r.Content = strings.TrimSpace(r.Content)
}

func (r *UpdateCommentRequest) Messages() map[string]string {
	return commentMessages
}

var commentMessages = map[string]string{
	"content.required": "validation.comment.content",
	"content.max":      "validation.comment.content",
	"blogId.required":  "validation.comment.blogId",
	"blogId.min":       "validation.comment.blogId",
	"blogId.type":      "validation.comment.blogId",
	"userId.min":       "validation.comment.userId",
	"userId.type":      "validation.comment.userId",
	"parentId.min":     "validation.comment.parentId",
	"parentId.type":    "validation.comment.parentId",
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// Package model defines the GORM models persisted by the quillpress API.
package model

import (
	"time"

	"github.com/quillpress/blog-api/util/json_util"
)

// DeletedContent is what a soft-deleted comment reports as its content.
const DeletedContent = "[deleted]"

// Role is a named bundle of capability flags. Rows are seeded at startup and
// referenced by users, never owned by them.
type Role struct {
	Id            int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Title         string `json:"title" gorm:"uniqueIndex;not null"`
	CanComment    bool   `json:"canComment" gorm:"not null"`
	CanCreateBlog bool   `json:"canCreateBlog" gorm:"not null"`
	CanModerate   bool   `json:"canModerate" gorm:"not null"`
	IsAdmin       bool   `json:"isAdmin" gorm:"not null"`
}

type User struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"not null"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"` // bcrypt hash
	RoleId    int       `json:"roleId" gorm:"not null;index"`
	Role      *Role     `json:"role,omitempty" gorm:"foreignKey:RoleId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Can reports whether the user's role grants capability c. Admins can do anything.
func (u *User) Can(c Capability) bool {
	if u == nil || u.Role == nil {
		return false
	}
	return u.Role.IsAdmin || u.Role.Has(c)
}

// IsAdmin reports whether the user's role is an administrator role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role != nil && u.Role.IsAdmin
}

// Blog keeps its row when its author's account is removed; UserId becomes nil.
type Blog struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	IsPublic  bool      `json:"isPublic" gorm:"not null"`
	Views     int       `json:"views" gorm:"not null;default:0"`
	UserId    *int      `json:"userId" gorm:"index"`
	Author    *User     `json:"author,omitempty" gorm:"foreignKey:UserId"`
	Comments  []Comment `json:"comments,omitempty" gorm:"foreignKey:BlogId"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WrittenBy reports whether u is the blog's author.
func (b *Blog) WrittenBy(u *User) bool {
	return u != nil && b.UserId != nil && *b.UserId == u.Id
}

// Comment is a root comment when ParentId is nil and a reply otherwise.
// UserId becomes nil when the author's account is removed.
type Comment struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Content   string    `json:"-" gorm:"type:text;not null"`
	Deleted   bool      `json:"deleted" gorm:"not null;default:false"`
	UserId    *int      `json:"userId" gorm:"index"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserId"`
	BlogId    int       `json:"blogId" gorm:"not null;index"`
	ParentId  *int      `json:"parentId" gorm:"index"`
	Replies   []Comment `json:"replies,omitempty" gorm:"foreignKey:ParentId"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DisplayContent is the content clients see: the tombstone marker for
// deleted comments, the stored text otherwise.
func (c *Comment) DisplayContent() string {
	if c.Deleted {
		return DeletedContent
	}
	return c.Content
}

// IsRoot reports whether the comment starts a thread.
func (c *Comment) IsRoot() bool {
	return c.ParentId == nil
}

func (c Comment) MarshalJSON() ([]byte, error) {
	type alias Comment
	return json_util.Marshal(struct {
		alias
		Content string `json:"content"`
	}{
		alias:   alias(c),
		Content: c.DisplayContent(),
	})
}

func (c *Comment) UnmarshalJSON(data []byte) error {
	type alias Comment
	aux := struct {
		*alias
		Content string `json:"content"`
	}{alias: (*alias)(c)}
	if err := json_util.Unmarshal(data, &aux); err != nil {
		return err
	}
	if !c.Deleted {
		c.Content = aux.Content
	}
	return nil
}

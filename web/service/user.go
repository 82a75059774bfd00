package service

import (
	"errors"
	"time"

	"github.com/quillpress/blog-api/caching"
	"github.com/quillpress/blog-api/database"
	"github.com/quillpress/blog-api/database/model"
	"github.com/quillpress/blog-api/logger"
	"github.com/quillpress/blog-api/util/common"
	"github.com/quillpress/blog-api/util/crypto"
	"github.com/quillpress/blog-api/web/entity"

	"gorm.io/gorm"
)

type UserService struct {
	roleService RoleService
	cache       *caching.Cache
}

func NewUserService(cache *caching.Cache) UserService {
	return UserService{cache: cache}
}

func (s *UserService) List(page entity.Page) ([]model.User, int64, error) {
	db := database.GetDB()

	var total int64
	if err := db.Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	users := make([]model.User, 0, page.Limit)
	err := db.Preload("Role").
		Order(page.OrderBy("created_at")).
		Order(page.OrderBy("id")).
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&users).Error
	return users, total, err
}

func (s *UserService) Get(id int) (*model.User, error) {
	db := database.GetDB()
	user := &model.User{}
	if err := db.Preload("Role").First(user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

func (s *UserService) GetByEmail(email string) (*model.User, error) {
	db := database.GetDB()
	user := &model.User{}
	if err := db.Preload("Role").Where("email = ?", email).First(user).Error; err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

// Create registers a user. A role id is honoured only when actor is an
// administrator; everybody else gets the default role.
func (s *UserService) Create(actor *model.User, req *entity.CreateUserRequest) (*model.User, error) {
	var role *model.Role
	var err error
	if req.RoleId != nil && actor.IsAdmin() {
		role, err = s.roleService.Get(*req.RoleId)
		if errors.Is(err, ErrNotFound) {
			return nil, inputError("roleId", "validation.user.roleId", err)
		}
	} else {
		role, err = s.roleService.GetByTitle(model.DefaultRoleTitle)
	}
	if err != nil {
		return nil, err
	}

	db := database.GetDB()
	if err := checkUnique(db, req.Email, req.Username, 0); err != nil {
		return nil, err
	}
	hash, err := crypto.HashPasswordAsBcrypt(req.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Email:    req.Email,
		Name:     req.Name,
		Username: req.Username,
		Password: hash,
		RoleId:   role.Id,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

// Update merges the provided fields into user id. Non-administrators may only
// update themselves and may not change their role.
func (s *UserService) Update(actor *model.User, id int, req *entity.UpdateUserRequest) (*model.User, error) {
	if !actor.IsAdmin() && actor.Id != id {
		return nil, ErrForbidden
	}
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"updated_at": time.Now()}
	if req.RoleId != nil && *req.RoleId != user.RoleId {
		if !actor.IsAdmin() {
			return nil, ErrForbidden
		}
		if _, err := s.roleService.Get(*req.RoleId); errors.Is(err, ErrNotFound) {
			return nil, inputError("roleId", "validation.user.roleId", err)
		} else if err != nil {
			return nil, err
		}
		updates["role_id"] = *req.RoleId
	}

	db := database.GetDB()
	var email, username string
	if req.Email != nil && *req.Email != user.Email {
		email = *req.Email
		updates["email"] = email
	}
	if req.Username != nil && *req.Username != user.Username {
		username = *req.Username
		updates["username"] = username
	}
	if err := checkUnique(db, email, username, id); err != nil {
		return nil, err
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Password != nil {
		hash, err := crypto.HashPasswordAsBcrypt(*req.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hash
	}

	if err := db.Model(&model.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	s.invalidateBlogs()
	return s.Get(id)
}

// Delete removes a user in one transaction. Comments and blogs the user
// wrote stay with their content and lose their author.
func (s *UserService) Delete(id int) error {
	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&model.User{}, id).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Model(&model.Comment{}).Where("user_id = ?", id).
			Update("user_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Blog{}).Where("user_id = ?", id).
			Update("user_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, id).Error
	})
	if err != nil {
		return err
	}
	s.invalidateBlogs()
	logger.Infof("Deleted user %d", id)
	return nil
}

const minPasswordLength = 8

// Promote assigns the role named title to the user with email.
func (s *UserService) Promote(email, title string) error {
	user, err := s.GetByEmail(email)
	if err != nil {
		return err
	}
	role, err := s.roleService.GetByTitle(title)
	if err != nil {
		return err
	}
	db := database.GetDB()
	return db.Model(&model.User{}).Where("id = ?", user.Id).
		Updates(map[string]any{"role_id": role.Id, "updated_at": time.Now()}).Error
}

// ResetPassword sets a new password for the user with email, applying the
// registration length rule.
func (s *UserService) ResetPassword(email, password string) error {
	if len(password) < minPasswordLength {
		return common.NewErrorf("password must be at least %d characters long", minPasswordLength)
	}
	user, err := s.GetByEmail(email)
	if err != nil {
		return err
	}
	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return err
	}
	db := database.GetDB()
	return db.Model(&model.User{}).Where("id = ?", user.Id).
		Updates(map[string]any{"password": hash, "updated_at": time.Now()}).Error
}

// checkUnique rejects an email or username already used by another user.
// Empty values are not checked.
func checkUnique(db *gorm.DB, email, username string, excludeId int) error {
	taken := func(column, value string) (bool, error) {
		if value == "" {
			return false, nil
		}
		var count int64
		q := db.Model(&model.User{}).Where(column+" = ?", value)
		if excludeId > 0 {
			q = q.Where("id <> ?", excludeId)
		}
		err := q.Count(&count).Error
		return count > 0, err
	}

	if ok, err := taken("email", email); err != nil {
		return err
	} else if ok {
		return inputError("email", "validation.user.emailTaken", nil)
	}
	if ok, err := taken("username", username); err != nil {
		return err
	} else if ok {
		return inputError("username", "validation.user.usernameTaken", nil)
	}
	return nil
}

// invalidateBlogs drops cached blog detail, which embeds author and
// commenter records.
func (s *UserService) invalidateBlogs() {
	if s.cache != nil {
		s.cache.DeletePrefix(blogCachePrefix)
	}
}

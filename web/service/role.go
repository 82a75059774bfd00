package service

import (
	"github.com/quillpress/blog-api/database"
	"github.com/quillpress/blog-api/database/model"
)

type RoleService struct{}

func (s *RoleService) List() ([]model.Role, error) {
	db := database.GetDB()
	roles := make([]model.Role, 0, 4)
	err := db.Order("id ASC").Find(&roles).Error
	return roles, err
}

func (s *RoleService) Get(id int) (*model.Role, error) {
	db := database.GetDB()
	role := &model.Role{}
	if err := db.First(role, id).Error; err != nil {
		return nil, notFound(err)
	}
	return role, nil
}

func (s *RoleService) GetByTitle(title string) (*model.Role, error) {
	db := database.GetDB()
	role := &model.Role{}
	if err := db.Where("title = ?", title).First(role).Error; err != nil {
		return nil, notFound(err)
	}
	return role, nil
}

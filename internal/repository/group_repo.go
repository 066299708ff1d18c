package repository

import (
	"errors"

	"stockroom/internal/model"

	"gorm.io/gorm"
)

type GroupRepository interface {
	FindAll() ([]model.Group, error)
	FindByID(id uint) (*model.Group, error)
	FindByIDs(ids []uint) ([]model.Group, error)
	FindByName(name string) (*model.Group, error)
	Create(group *model.Group) error
	Update(group *model.Group) error
	Delete(id uint) error
	ReplacePermissions(groupID uint, permissions []model.Permission) error
	SeedDefaults() error
}

type groupRepo struct {
	db *gorm.DB
}

func NewGroupRepo(db *gorm.DB) GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) FindAll() ([]model.Group, error) {
	var groups []model.Group
	err := r.db.Preload("Permissions").Find(&groups).Error
	return groups, err
}

func (r *groupRepo) FindByID(id uint) (*model.Group, error) {
	var group model.Group
	err := r.db.Preload("Permissions").First(&group, id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepo) FindByIDs(ids []uint) ([]model.Group, error) {
	var groups []model.Group
	err := r.db.Preload("Permissions").Where("id IN ?", ids).Find(&groups).Error
	return groups, err
}

func (r *groupRepo) FindByName(name string) (*model.Group, error) {
	var group model.Group
	err := r.db.Preload("Permissions").Where("name = ?", name).First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepo) Create(group *model.Group) error {
	return r.db.Create(group).Error
}

func (r *groupRepo) Update(group *model.Group) error {
	return r.db.Save(group).Error
}

func (r *groupRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var group model.Group
		if err := tx.First(&group, id).Error; err != nil {
			return err
		}
		// Detach memberships and permission links before removing the row
		if err := tx.Model(&group).Association("Permissions").Clear(); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_groups WHERE group_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&group).Error
	})
}

func (r *groupRepo) ReplacePermissions(groupID uint, permissions []model.Permission) error {
	var group model.Group
	if err := r.db.First(&group, groupID).Error; err != nil {
		return err
	}
	return r.db.Model(&group).Association("Permissions").Replace(permissions)
}

// SeedDefaults creates the well-known groups and wires their permissions
// if they don't exist yet.
func (r *groupRepo) SeedDefaults() error {
	for name, codes := range model.DefaultGroupPermissions {
		var existing model.Group
		err := r.db.Where("name = ?", name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var permissions []model.Permission
		if err := r.db.Where("code IN ?", codes).Find(&permissions).Error; err != nil {
			return err
		}
		group := model.Group{Name: name, Permissions: permissions}
		if err := r.db.Create(&group).Error; err != nil {
			return err
		}
	}
	return nil
}

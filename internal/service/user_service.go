package service

import (
	"errors"

	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/pkg/apperr"
	"stockroom/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService interface {
	CreateUser(req *CreateUserRequest, creatorID string) (*model.User, error)
	UpdateUser(userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.User, error)
	DeleteUser(userID uuid.UUID) error
	AssignGroups(userID uuid.UUID, groupIDs []uint, updaterID string) (*model.User, error)
	GetAllUsers() ([]model.UserResponse, error)
	GetUserByID(id uuid.UUID) (*model.UserResponse, error)

	CreateGroup(req *GroupRequest) (*model.Group, error)
	UpdateGroup(groupID uint, req *GroupRequest) (*model.Group, error)
	DeleteGroup(groupID uint) error
	GetAllGroups() ([]model.Group, error)
	GetAllPermissions() ([]model.Permission, error)
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	IsAdmin  bool   `json:"is_admin"`
	GroupIDs []uint `json:"group_ids"`
}

type UpdateUserRequest struct {
	Username string  `json:"username" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"` // Optional
	IsAdmin  *bool   `json:"is_admin"`
	GroupIDs *[]uint `json:"group_ids"` // nil leaves the group set alone
}

// GroupRequest creates or updates a group; PermissionIDs replaces the
// permission set wholesale when present.
type GroupRequest struct {
	Name          string  `json:"name" validate:"required"`
	PermissionIDs *[]uint `json:"permission_ids"`
}

type userService struct {
	userRepo       repository.UserRepository
	groupRepo      repository.GroupRepository
	permissionRepo repository.PermissionRepository
}

func NewUserService(userRepo repository.UserRepository, groupRepo repository.GroupRepository, permissionRepo repository.PermissionRepository) UserService {
	return &userService{
		userRepo:       userRepo,
		groupRepo:      groupRepo,
		permissionRepo: permissionRepo,
	}
}

func (s *userService) resolveGroups(groupIDs []uint) ([]model.Group, error) {
	if len(groupIDs) == 0 {
		return []model.Group{}, nil
	}
	groups, err := s.groupRepo.FindByIDs(groupIDs)
	if err != nil {
		return nil, err
	}
	if len(groups) != len(groupIDs) {
		return nil, apperr.Validation("one or more group ids are unknown")
	}
	return groups, nil
}

func (s *userService) CreateUser(req *CreateUserRequest, creatorID string) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.ValidationFields(validator.FieldErrors(errs))
	}

	if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
		return nil, apperr.Validation("email already exists")
	}
	if existing, _ := s.userRepo.FindByUsername(req.Username); existing != nil {
		return nil, apperr.Validation("username already exists")
	}

	groups, err := s.resolveGroups(req.GroupIDs)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		IsAdmin:  req.IsAdmin,
		Groups:   groups,
	}
	user.CreatedBy = creatorID
	user.UpdatedBy = creatorID

	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(user.ID)
}

func (s *userService) UpdateUser(userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.ValidationFields(validator.FieldErrors(errs))
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperr.NotFound("user")
	}

	if req.Email != user.Email {
		if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
			return nil, apperr.Validation("email already exists")
		}
	}
	if req.Username != user.Username {
		if existing, _ := s.userRepo.FindByUsername(req.Username); existing != nil {
			return nil, apperr.Validation("username already exists")
		}
	}

	user.Username = req.Username
	user.Email = req.Email
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	user.UpdatedBy = updaterID

	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	if req.GroupIDs != nil {
		groups, err := s.resolveGroups(*req.GroupIDs)
		if err != nil {
			return nil, err
		}
		if err := s.userRepo.ReplaceGroups(userID, groups); err != nil {
			return nil, err
		}
	}

	return s.userRepo.FindByID(userID)
}

func (s *userService) DeleteUser(userID uuid.UUID) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return apperr.NotFound("user")
	}
	return s.userRepo.Delete(userID)
}

// AssignGroups replaces the user's group set wholesale, not additively.
func (s *userService) AssignGroups(userID uuid.UUID, groupIDs []uint, updaterID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperr.NotFound("user")
	}

	groups, err := s.resolveGroups(groupIDs)
	if err != nil {
		return nil, err
	}

	// Audit update first: Save upserts the stale preloaded association,
	// so it must not run after the replacement
	user.UpdatedBy = updaterID
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	if err := s.userRepo.ReplaceGroups(userID, groups); err != nil {
		return nil, err
	}

	return s.userRepo.FindByID(userID)
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("user")
	}
	response := user.ToResponse()
	return &response, nil
}

func (s *userService) CreateGroup(req *GroupRequest) (*model.Group, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.ValidationFields(validator.FieldErrors(errs))
	}
	if existing, _ := s.groupRepo.FindByName(req.Name); existing != nil {
		return nil, apperr.Validation("group name already exists")
	}

	group := &model.Group{Name: req.Name}
	if req.PermissionIDs != nil {
		permissions, err := s.permissionRepo.FindByIDs(*req.PermissionIDs)
		if err != nil {
			return nil, err
		}
		group.Permissions = permissions
	}

	if err := s.groupRepo.Create(group); err != nil {
		return nil, err
	}
	return s.groupRepo.FindByID(group.ID)
}

func (s *userService) UpdateGroup(groupID uint, req *GroupRequest) (*model.Group, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.ValidationFields(validator.FieldErrors(errs))
	}

	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		return nil, apperr.NotFound("group")
	}

	if req.Name != group.Name {
		if existing, _ := s.groupRepo.FindByName(req.Name); existing != nil {
			return nil, apperr.Validation("group name already exists")
		}
	}

	group.Name = req.Name
	if err := s.groupRepo.Update(group); err != nil {
		return nil, err
	}

	if req.PermissionIDs != nil {
		permissions, err := s.permissionRepo.FindByIDs(*req.PermissionIDs)
		if err != nil {
			return nil, err
		}
		if err := s.groupRepo.ReplacePermissions(groupID, permissions); err != nil {
			return nil, err
		}
	}

	return s.groupRepo.FindByID(groupID)
}

func (s *userService) DeleteGroup(groupID uint) error {
	if _, err := s.groupRepo.FindByID(groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("group")
		}
		return err
	}
	return s.groupRepo.Delete(groupID)
}

func (s *userService) GetAllGroups() ([]model.Group, error) {
	return s.groupRepo.FindAll()
}

func (s *userService) GetAllPermissions() ([]model.Permission, error) {
	return s.permissionRepo.FindAll()
}

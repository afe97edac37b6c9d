package service

import (
	"errors"

	"go-order-ws/internal/apperr"
	"go-order-ws/internal/model"
	"go-order-ws/internal/repository"
	"go-order-ws/pkg/jwt"
	"go-order-ws/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrUserLocked         = errors.New("user account is locked")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"max=20"`
	Role     string `json:"role"`
}

type AuthService interface {
	Login(username, password string) (*LoginResponse, error)
	Register(req *RegisterRequest, actor string) (*model.User, error)
	ChangePassword(username, oldPassword, newPassword string) error
	ValidateToken(tokenString string) (*model.UserResponse, error)
	CurrentUser(userID uuid.UUID) (*model.UserResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Login(username, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	switch user.Status {
	case model.UserLocked:
		return nil, ErrUserLocked
	case model.UserInactive:
		return nil, ErrUserInactive
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		return nil, apperr.Internal(err)
	}

	token, err := jwt.GenerateToken(user.ID, user.Username, user.Email, user.FullName, string(user.Role))
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

func (s *authService) Register(req *RegisterRequest, actor string) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	exists, err := s.userRepo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if exists {
		return nil, apperr.Duplicate("username", req.Username)
	}
	exists, err = s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if exists {
		return nil, apperr.Duplicate("email", req.Email)
	}

	role := model.UserRole(req.Role)
	if req.Role == "" {
		role = model.RoleUser
	}
	if !role.Valid() {
		return nil, apperr.Validation("unknown role: " + req.Role)
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
		Status:   model.UserActive,
		Role:     role,
	}
	user.CreatedBy = actor
	user.UpdatedBy = actor
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperr.Internal(err)
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, apperr.Internal(err)
	}
	return user, nil
}

func (s *authService) ChangePassword(username, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return notFoundOr(err, "user")
	}

	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}

	if err := user.SetPassword(newPassword); err != nil {
		return apperr.Internal(err)
	}

	return s.userRepo.UpdatePassword(user.ID, user.Password)
}

func (s *authService) ValidateToken(tokenString string) (*model.UserResponse, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	if user.Status != model.UserActive {
		return nil, ErrUserInactive
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *authService) CurrentUser(userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	resp := user.ToResponse()
	return &resp, nil
}

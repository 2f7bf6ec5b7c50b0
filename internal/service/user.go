package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"jansan-commerce/internal/apperr"
	"jansan-commerce/internal/client"
	"jansan-commerce/internal/config"
	"jansan-commerce/internal/dto"
	"jansan-commerce/internal/model"
	"jansan-commerce/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserView, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	GoogleLogin(ctx context.Context, req *dto.GoogleLoginRequest) (*dto.LoginResponse, error)
	GetProfile(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	DeleteUser(ctx context.Context, adminID, userID string) (*dto.UserView, error)
}

type userServiceImpl struct {
	userRepo       repository.UserRepository
	googleVerifier client.GoogleVerifier
	jwtCfg         config.JWT
}

func NewUserService(userRepo repository.UserRepository, googleVerifier client.GoogleVerifier, jwtCfg config.JWT) UserService {
	return &userServiceImpl{
		userRepo:       userRepo,
		googleVerifier: googleVerifier,
		jwtCfg:         jwtCfg,
	}
}

func (s *userServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserView, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, apperr.Validationf("name, email and password are required")
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Validationf("email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role := model.Role(req.Role)
	if role == "" {
		role = model.RoleCustomer
	}
	if role == model.RoleCustomer && req.Location == "" {
		return nil, apperr.Validationf("location is required for customers")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), 10)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: string(hashed),
		Role:     role,
		Location: req.Location,
		Country:  "India",
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return userView(user), nil
}

func (s *userServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("user not found")
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, apperr.Forbiddenf("invalid credentials")
	}

	signed, err := s.signToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: signed,
		User:  *userView(user),
	}, nil
}

// GoogleLogin verifies the Google-issued credential and signs in the
// matching account, linking by email or creating a fresh customer when
// the google id is unknown.
func (s *userServiceImpl) GoogleLogin(ctx context.Context, req *dto.GoogleLoginRequest) (*dto.LoginResponse, error) {
	if req.Credential == "" {
		return nil, apperr.Validationf("google credential is required")
	}

	claims, err := s.googleVerifier.VerifyIDToken(ctx, req.Credential)
	if err != nil {
		log.Println("google credential verification failed:", err)
		return nil, apperr.Forbiddenf("invalid google credential")
	}

	user, err := s.userRepo.FindByGoogleID(ctx, claims.Sub)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = s.linkOrCreateGoogleUser(ctx, claims)
	}
	if err != nil {
		return nil, err
	}

	signed, err := s.signToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: signed,
		User:  *userView(user),
	}, nil
}

func (s *userServiceImpl) linkOrCreateGoogleUser(ctx context.Context, claims *client.GoogleClaims) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, claims.Email)
	if err == nil {
		// a regular registration with the same email gets the google
		// account linked instead of a duplicate row
		return s.userRepo.Updates(ctx, existing.ID, map[string]interface{}{"google_id": claims.Sub})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &model.User{
		ID:       uuid.NewString(),
		Name:     claims.Name,
		Email:    claims.Email,
		GoogleID: claims.Sub,
		Role:     model.RoleCustomer,
		Country:  "India",
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userServiceImpl) signToken(user *model.User) (string, error) {
	expiresIn, err := time.ParseDuration(s.jwtCfg.ExpiresIn)
	if err != nil {
		expiresIn = 168 * time.Hour
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   user.ID,
		"role": string(user.Role),
		"exp":  time.Now().Add(expiresIn).Unix(),
	})
	signed, err := token.SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("user not found")
	}
	if err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*model.User, error) {
	fields := map[string]interface{}{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Phone != "" {
		fields["phone"] = req.Phone
	}
	if req.Location != "" {
		fields["location"] = req.Location
	}
	if req.City != "" {
		fields["city"] = req.City
	}
	if req.PostalCode != "" {
		fields["postal_code"] = req.PostalCode
	}
	if req.Country != "" {
		fields["country"] = req.Country
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), 10)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		fields["password"] = string(hashed)
	}

	if len(fields) == 0 {
		return s.GetProfile(ctx, userID)
	}

	user, err := s.userRepo.Updates(ctx, userID, fields)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("user not found")
	}
	if err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

func (s *userServiceImpl) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.Password = ""
	}
	return users, nil
}

func (s *userServiceImpl) DeleteUser(ctx context.Context, adminID, userID string) (*dto.UserView, error) {
	if adminID == userID {
		return nil, apperr.Validationf("cannot delete your own account")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("user not found")
	}
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return nil, err
	}

	return userView(user), nil
}

func userView(user *model.User) *dto.UserView {
	return &dto.UserView{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	}
}

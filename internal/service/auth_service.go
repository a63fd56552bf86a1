package service

import (
	"context"
	"time"

	"phoneshop/internal/apierror"
	"phoneshop/internal/dto"
	"phoneshop/internal/model"
	"phoneshop/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// Claims is the JWT payload for both access and refresh tokens.
type Claims struct {
	UserID   string `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Refresh  bool   `json:"refresh,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	ParseToken(tokenStr string) (*Claims, error)

	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, includeInactive bool) ([]dto.UserResponse, error)
	DeactivateUser(ctx context.Context, id uuid.UUID) error
	ReactivateUser(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo       repository.UserRepository
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(repo repository.UserRepository, jwtSecret string, accessHours, refreshHours int) AuthService {
	return &authService{
		repo:       repo,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  time.Duration(accessHours) * time.Hour,
		refreshTTL: time.Duration(refreshHours) * time.Hour,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, apierror.Validation("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.Validation("invalid credentials")
	}
	return s.issueTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims, err := s.ParseToken(refreshToken)
	if err != nil || !claims.Refresh {
		return nil, apierror.Validation("invalid refresh token")
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apierror.Validation("invalid refresh token")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil || !user.Active {
		return nil, apierror.Validation("account is no longer active")
	}
	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *model.User) (*dto.LoginResponse, error) {
	access, err := s.sign(user, s.accessTTL, false)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user, s.refreshTTL, true)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.accessTTL.Seconds()),
		User:         *userToResponse(user),
	}, nil
}

func (s *authService) sign(user *model.User, ttl time.Duration, refresh bool) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Role:     user.Role,
		Refresh:  refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *authService) ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, apierror.Validation("invalid token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, apierror.Validation("invalid token")
	}
	return claims, nil
}

// ─── User management (admin only) ────────────────────────────────────────────

func (s *authService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if _, err := s.repo.FindByUsername(ctx, req.Username); err == nil {
		return nil, apierror.Conflict("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Username:     req.Username,
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		return nil, err
	}
	return userToResponse(&user), nil
}

func (s *authService) UpdateUser(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("user not found")
	}

	// Demoting the last active admin would lock everyone out of user
	// management.
	if req.Role != "" && req.Role != model.RoleAdmin && user.Role == model.RoleAdmin && user.Active {
		n, err := s.repo.CountActiveAdmins(ctx)
		if err != nil {
			return nil, err
		}
		if n <= 1 {
			return nil, apierror.Conflict("cannot demote the last active admin")
		}
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return userToResponse(user), nil
}

func (s *authService) ListUsers(ctx context.Context, includeInactive bool) ([]dto.UserResponse, error) {
	var (
		users []model.User
		err   error
	)
	if includeInactive {
		users, err = s.repo.ListAll(ctx)
	} else {
		users, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *userToResponse(&u))
	}
	return out, nil
}

// DeactivateUser soft-deletes an account. The last active admin can never be
// deactivated.
func (s *authService) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("user not found")
	}
	if user.Role == model.RoleAdmin && user.Active {
		n, err := s.repo.CountActiveAdmins(ctx)
		if err != nil {
			return err
		}
		if n <= 1 {
			return apierror.Conflict("cannot deactivate the last active admin")
		}
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *authService) ReactivateUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.NotFound("user not found")
	}
	return s.repo.Reactivate(ctx, id)
}

func userToResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     u.Role,
		Active:   u.Active,
	}
}

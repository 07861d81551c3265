package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
	"github.com/saulo-duarte/learnhub-lambda/internal/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	claimTokenTTL   = 15 * time.Minute
	defaultPageSize = 20
	maxPageSize     = 100
)

var (
	ErrEmployeeNotFound   = errors.New("employee record not found")
	ErrNIKAlreadyClaimed  = errors.New("nik already claimed")
	ErrNIKTaken           = errors.New("nik already exists")
	ErrInvalidClaimToken  = errors.New("invalid or expired claim token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotRegistered      = errors.New("account not registered")
	ErrInvalidRole        = errors.New("invalid role")
	ErrSelfModification   = errors.New("admins cannot change or delete their own account")
	ErrInvalidID          = errors.New("invalid id format")
)

type UserService interface {
	VerifyNIK(ctx context.Context, dto VerifyNIKDTO) (*VerifyNIKResponse, error)
	Register(ctx context.Context, dto RegisterDTO) (*UserResponse, error)
	Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error)
	IssueSession(ctx context.Context, u *User) (*LoginResponse, error)
	GetMe(ctx context.Context, actor auth.Actor) (*UserResponse, error)
	CreateEmployee(ctx context.Context, dto CreateEmployeeDTO) (*UserResponse, error)
	ListUsers(ctx context.Context, filter ListFilter) (*UserListResponse, error)
	ChangeRole(ctx context.Context, actor auth.Actor, id string, dto ChangeRoleDTO) (*UserResponse, error)
	DeleteUser(ctx context.Context, actor auth.Actor, id string) error
}

// RankingInvalidator is told when a change affects who appears on the leaderboard.
type RankingInvalidator interface {
	Invalidate(ctx context.Context)
}

type userService struct {
	repo       UserRepository
	ranking    RankingInvalidator
	sessionTTL time.Duration
	hashCost   int
}

// NewService accepts a nil ranking when nothing caches the leaderboard.
func NewService(repo UserRepository, ranking RankingInvalidator) UserService {
	return &userService{
		repo:       repo,
		ranking:    ranking,
		sessionTTL: config.EnvDuration("JWT_TTL", 24*time.Hour),
		hashCost:   config.EnvInt("BCRYPT_COST", bcrypt.DefaultCost),
	}
}

func (s *userService) rankingChanged(ctx context.Context) {
	if s.ranking != nil {
		s.ranking.Invalidate(ctx)
	}
}

func parseUUID(log logrus.FieldLogger, id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		log.WithError(err).Warn("Invalid user ID")
		return uuid.Nil, ErrInvalidID
	}
	return parsed, nil
}

func (s *userService) VerifyNIK(ctx context.Context, dto VerifyNIKDTO) (*VerifyNIKResponse, error) {
	log := config.WithContext(ctx)
	nik := strings.TrimSpace(dto.NIK)

	u, err := s.repo.GetByNIK(ctx, nik)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.WithField("nik", nik).Warn("NIK verification for unknown employee")
			return nil, ErrEmployeeNotFound
		}
		log.WithError(err).Error("Failed to look up employee by NIK")
		return nil, err
	}
	if u.Registered {
		return nil, ErrNIKAlreadyClaimed
	}

	token, err := auth.GenerateClaimToken(u.ID.String(), claimTokenTTL)
	if err != nil {
		log.WithError(err).Error("Failed to sign claim token")
		return nil, err
	}

	return &VerifyNIKResponse{
		Name:       u.Name,
		Department: u.Department,
		ClaimToken: token,
		ExpiresIn:  int(claimTokenTTL.Seconds()),
	}, nil
}

func (s *userService) Register(ctx context.Context, dto RegisterDTO) (*UserResponse, error) {
	log := config.WithContext(ctx)

	claims, err := auth.ValidateClaimToken(dto.ClaimToken)
	if err != nil {
		log.WithError(err).Warn("Rejected registration claim token")
		return nil, ErrInvalidClaimToken
	}
	userID, err := parseUUID(log, claims.UserID)
	if err != nil {
		return nil, ErrInvalidClaimToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.hashCost)
	if err != nil {
		log.WithError(err).Error("Failed to hash password")
		return nil, err
	}

	claimed, err := s.repo.ClaimRegistration(ctx, userID, string(hash), dto.Email)
	if err != nil {
		log.WithError(err).Error("Failed to claim employee record")
		return nil, err
	}
	if !claimed {
		return nil, ErrNIKAlreadyClaimed
	}

	s.rankingChanged(ctx)

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	log.WithField("user_id", u.ID).Info("Employee registered")
	return ToResponse(u), nil
}

func (s *userService) Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error) {
	log := config.WithContext(ctx)

	u, err := s.repo.GetByLogin(ctx, strings.TrimSpace(dto.Login))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.WithError(err).Error("Failed to look up user for login")
		return nil, err
	}
	if !u.Registered {
		return nil, ErrNotRegistered
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		log.WithField("user_id", u.ID).Warn("Wrong password")
		return nil, ErrInvalidCredentials
	}

	return s.IssueSession(ctx, u)
}

func (s *userService) IssueSession(ctx context.Context, u *User) (*LoginResponse, error) {
	token, err := auth.GenerateJWT(u.ID.String(), string(u.Role), s.sessionTTL)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to sign session token")
		return nil, err
	}
	return &LoginResponse{
		Token:     token,
		ExpiresIn: int(s.sessionTTL.Seconds()),
		User:      ToResponse(u),
	}, nil
}

func (s *userService) GetMe(ctx context.Context, actor auth.Actor) (*UserResponse, error) {
	log := config.WithContext(ctx)
	id, err := parseUUID(log, actor.UserID)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToResponse(u), nil
}

func (s *userService) CreateEmployee(ctx context.Context, dto CreateEmployeeDTO) (*UserResponse, error) {
	log := config.WithContext(ctx)

	nik := strings.TrimSpace(dto.NIK)
	if _, err := s.repo.GetByNIK(ctx, nik); err == nil {
		return nil, ErrNIKTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	role := dto.Role
	if role == "" {
		role = RoleUser
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	u := &User{
		NIK:        nik,
		Name:       strings.TrimSpace(dto.Name),
		Email:      dto.Email,
		Department: dto.Department,
		Role:       role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		log.WithError(err).Error("Failed to create employee record")
		return nil, err
	}

	log.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("Employee record created")
	return ToResponse(u), nil
}

func (s *userService) ListUsers(ctx context.Context, filter ListFilter) (*UserListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Role != "" && !filter.Role.IsValid() {
		return nil, ErrInvalidRole
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list users")
		return nil, err
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *ToResponse(&users[i]))
	}
	return &UserListResponse{
		Users:  responses,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

func (s *userService) ChangeRole(ctx context.Context, actor auth.Actor, id string, dto ChangeRoleDTO) (*UserResponse, error) {
	log := config.WithContext(ctx)

	userID, err := parseUUID(log, id)
	if err != nil {
		return nil, err
	}
	if !dto.Role.IsValid() {
		return nil, ErrInvalidRole
	}
	if userID.String() == actor.UserID {
		return nil, ErrSelfModification
	}

	if err := s.repo.UpdateRole(ctx, userID, dto.Role); err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			log.WithError(err).Error("Failed to update role")
		}
		return nil, err
	}
	s.rankingChanged(ctx)

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"target_id": userID, "role": dto.Role}).Info("Role changed")
	return ToResponse(u), nil
}

func (s *userService) DeleteUser(ctx context.Context, actor auth.Actor, id string) error {
	log := config.WithContext(ctx)

	userID, err := parseUUID(log, id)
	if err != nil {
		return err
	}
	if userID.String() == actor.UserID {
		return ErrSelfModification
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			log.WithError(err).Error("Failed to delete user")
		}
		return err
	}
	s.rankingChanged(ctx)
	log.WithField("target_id", userID).Info("User deleted")
	return nil
}

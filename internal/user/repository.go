package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByNIK(ctx context.Context, nik string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByLogin(ctx context.Context, login string) (*User, error)
	ClaimRegistration(ctx context.Context, id uuid.UUID, passwordHash string, email *string) (bool, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role Role) error
	UpdateGoogleTokens(ctx context.Context, id uuid.UUID, accessToken, refreshToken string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter) ([]User, int64, error)
	AddXP(ctx context.Context, id uuid.UUID, delta int) error
	ListLearnerXP(ctx context.Context) ([]XPEntry, error)
	CountByRole(ctx context.Context) (map[Role]int64, error)
	CountRegistered(ctx context.Context) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) first(ctx context.Context, query string, args ...interface{}) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) GetByNIK(ctx context.Context, nik string) (*User, error) {
	return r.first(ctx, "nik = ?", nik)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*User, error) {
	return r.first(ctx, "nik = ? OR email = ?", login, login)
}

// ClaimRegistration sets the password only while the record is still unclaimed, so two
// racing registrations for one NIK cannot both succeed.
func (r *userRepository) ClaimRegistration(ctx context.Context, id uuid.UUID, passwordHash string, email *string) (bool, error) {
	updates := map[string]interface{}{
		"password_hash": passwordHash,
		"registered":    true,
		"registered_at": time.Now(),
	}
	if email != nil {
		updates["email"] = *email
	}

	res := r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ? AND registered = ?", id, false).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id uuid.UUID, role Role) error {
	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdateGoogleTokens(ctx context.Context, id uuid.UUID, accessToken, refreshToken string) error {
	updates := map[string]interface{}{"encrypted_google_access_token": accessToken}
	if refreshToken != "" {
		updates["encrypted_google_refresh_token"] = refreshToken
	}
	return r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(updates).Error
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, filter ListFilter) ([]User, int64, error) {
	q := r.db.WithContext(ctx).Model(&User{})
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name LIKE ? OR nik LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []User
	if err := q.Order("name ASC").Limit(filter.Limit).Offset(filter.Offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) AddXP(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Update("xp", gorm.Expr("xp + ?", delta)).Error
}

// ListLearnerXP returns registered learners ordered by id, the leaderboard's tie-break key.
func (r *userRepository) ListLearnerXP(ctx context.Context) ([]XPEntry, error) {
	var entries []XPEntry
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Select("id AS user_id, name, xp").
		Where("role = ? AND registered = ?", RoleUser, true).
		Order("id ASC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *userRepository) CountByRole(ctx context.Context) (map[Role]int64, error) {
	var rows []struct {
		Role  Role
		Total int64
	}
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Select("role, COUNT(*) AS total").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[Role]int64, len(AllRoles))
	for _, row := range rows {
		counts[row.Role] = row.Total
	}
	return counts, nil
}

func (r *userRepository) CountRegistered(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&User{}).Where("registered = ?", true).Count(&total).Error
	return total, err
}

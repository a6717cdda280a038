package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Fullname     string    `gorm:"size:200"`
	Email        string    `gorm:"uniqueIndex;size:254;not null"`
	PasswordHash string    `gorm:"column:password;not null"`
	Role         string    `gorm:"index;size:16;not null;default:USER"`
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID when the caller did not
func (u *DBUser) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository. Uniqueness of email is enforced
// by the index; a violation surfaces as domain.ErrEmailTaken.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	dbUser.Email = domain.NormalizeEmail(dbUser.Email)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		if isDuplicateKey(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	*user = *r.dbToDomain(dbUser)
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", domain.NormalizeEmail(email))
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where(query, arg).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return r.dbToDomain(&dbUser), nil
}

// UpdatePassword implements domain.UserRepository
func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.updateColumn(ctx, id, "password", passwordHash)
}

// UpdateRole implements domain.UserRepository
func (r *UserRepositoryImpl) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	return r.updateColumn(ctx, id, "role", role.String())
}

func (r *UserRepositoryImpl) updateColumn(ctx context.Context, id, column string, value interface{}) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return fmt.Errorf("update user %s: %w", column, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete implements domain.UserRepository
func (r *UserRepositoryImpl) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&DBUser{})
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// CountByRole implements domain.UserRepository
func (r *UserRepositoryImpl) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&DBUser{}).Where("role = ?", role.String()).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return n, nil
}

// isDuplicateKey recognises unique violations. TranslateError covers the
// dialects that implement it; the message check covers the rest.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key") || strings.Contains(msg, "duplicate entry")
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	role := user.Role
	if role == "" {
		role = domain.RoleUser
	}
	return &DBUser{
		ID:           user.ID,
		Fullname:     user.Fullname,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         role.String(),
	}
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:           dbUser.ID,
		Fullname:     dbUser.Fullname,
		Email:        dbUser.Email,
		PasswordHash: dbUser.PasswordHash,
		Role:         domain.Role(dbUser.Role),
		CreatedAt:    dbUser.CreatedAt,
		UpdatedAt:    dbUser.UpdatedAt,
	}
}

package repositories

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dessertlab/internal/models"
)

// GORMUserRepository is the user store for local mode.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{db: db}
}

// Create inserts a new user, generating an ID when none is set.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by email.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with email %s not found", email)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by ID.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// Save writes all fields of an existing user.
func (r *GORMUserRepository) Save(user *models.User) error {
	res := r.db.Save(user)
	if res.Error != nil {
		return fmt.Errorf("failed to save user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s not found for update", user.ID)
	}
	return nil
}

// List returns one page of users whose first name contains the search term.
func (r *GORMUserRepository) List(page, limit int, search string) (*UserPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	q := r.db.Model(&models.User{})
	if search != "" {
		q = q.Where("first_name LIKE ?", "%"+search+"%")
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	totalPages := int(math.Ceil(float64(count) / float64(limit)))
	if totalPages < 1 {
		totalPages = 1
	}
	return &UserPage{Users: users, Page: page, TotalPages: totalPages}, nil
}

// Delete removes a user by ID.
func (r *GORMUserRepository) Delete(id string) error {
	res := r.db.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s not found for deletion", id)
	}
	return nil
}

package repositories

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"dessertlab/internal/models"
)

// MockUserRepository is an in-memory UserRepository, used in tests and in
// the seeded demo mode.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return fmt.Errorf("user with email %s already exists", user.Email)
		}
	}
	r.users[user.ID] = *user
	return nil
}

// GetByEmail returns a user by email.
func (r *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with email %s not found", email)
}

// GetByID returns a user by ID.
func (r *MockUserRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s not found", id)
	}
	return &user, nil
}

// Save replaces an existing user.
func (r *MockUserRepository) Save(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("user with ID %s not found for update", user.ID)
	}
	r.users[user.ID] = *user
	return nil
}

// List returns one page of users whose first name contains the search term.
func (r *MockUserRepository) List(page, limit int, search string) (*UserPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	term := strings.ToLower(search)
	var filtered []models.User
	for _, user := range r.users {
		if term == "" || strings.Contains(strings.ToLower(user.FirstName), term) {
			filtered = append(filtered, user)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Email < filtered[j].Email })

	totalPages := int(math.Ceil(float64(len(filtered)) / float64(limit)))
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * limit
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}

	return &UserPage{Users: filtered[start:end], Page: page, TotalPages: totalPages}, nil
}

// Delete removes a user.
func (r *MockUserRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("user with ID %s not found for deletion", id)
	}
	delete(r.users, id)
	return nil
}

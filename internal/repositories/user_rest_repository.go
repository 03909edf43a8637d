package repositories

import (
	"fmt"
	"net/url"

	"dessertlab/internal/models"
)

// RESTUserDirectory serves user operations through the upstream REST
// backend. Credential checking stays entirely server-side; the storefront
// only relays the login call and keeps the returned user+token in the
// session.
type RESTUserDirectory struct {
	client *RestClient
}

// NewRESTUserDirectory creates a user directory over the backend.
func NewRESTUserDirectory(client *RestClient) *RESTUserDirectory {
	return &RESTUserDirectory{client: client}
}

// Login authenticates against the backend and returns the user with its
// session token.
func (r *RESTUserDirectory) Login(email, password string) (*models.User, error) {
	body := map[string]string{"email": email, "password": password}
	var user models.User
	if err := r.client.Post("/api/users/login", body, &user); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return &user, nil
}

// Register creates a new account through the backend.
func (r *RESTUserDirectory) Register(user *models.User) error {
	if err := r.client.Post("/api/users/register", user, user); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	return nil
}

// Profile fetches a user's profile.
func (r *RESTUserDirectory) Profile(id string) (*models.User, error) {
	var user models.User
	if err := r.client.Get("/api/users/"+url.PathEscape(id)+"/profile", &user); err != nil {
		if err == ErrBackendNotFound {
			return nil, fmt.Errorf("user with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to fetch profile for user %s: %w", id, err)
	}
	return &user, nil
}

// SaveProfile posts profile changes and returns the updated profile.
func (r *RESTUserDirectory) SaveProfile(id string, update *models.User) (*models.User, error) {
	if err := r.client.Post("/api/users/"+url.PathEscape(id)+"/profile", update, nil); err != nil {
		return nil, fmt.Errorf("failed to save profile for user %s: %w", id, err)
	}
	return r.Profile(id)
}

// List fetches one admin page of users, searched by first name.
func (r *RESTUserDirectory) List(page, limit int, search string) (*UserPage, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("limit", fmt.Sprint(limit))
	if search != "" {
		q.Set("search", search)
	}
	var resp UserPage
	if err := r.client.Get("/api/users/?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	resp.Page = page
	return &resp, nil
}

// Delete removes a user through the backend (admin).
func (r *RESTUserDirectory) Delete(id string) error {
	if err := r.client.Delete("/api/users/" + url.PathEscape(id)); err != nil {
		if err == ErrBackendNotFound {
			return fmt.Errorf("user with ID %s not found for deletion", id)
		}
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}

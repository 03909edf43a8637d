package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dessertlab/internal/models"
	"dessertlab/internal/repositories"
	"dessertlab/internal/services"
)

func registeredUser(t *testing.T, svc *services.AuthService) *models.User {
	t.Helper()

	user := &models.User{
		FirstName: "Asha",
		LastName:  "Rao",
		Email:     "asha@example.com",
		Phone:     "9876543210",
		Password:  "hunter22",
	}
	assert.NoError(t, svc.Register(user))
	return user
}

func TestRegisterAndLogin(t *testing.T) {
	svc := services.NewAuthService(repositories.NewMockUserRepository(), "test-secret")
	user := registeredUser(t, svc)

	assert.NotEmpty(t, user.ID)
	assert.Empty(t, user.Password, "the hash never leaves the service")
	assert.Equal(t, models.RoleCustomer, user.Role)

	logged, err := svc.Login("asha@example.com", "hunter22")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotEmpty(t, logged.Token)
	assert.Empty(t, logged.Password)

	claims, err := svc.ValidateToken(logged.Token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, "asha@example.com", claims["email"])
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := services.NewAuthService(repositories.NewMockUserRepository(), "test-secret")
	registeredUser(t, svc)

	// Wrong password and unknown email fail identically.
	_, err := svc.Login("asha@example.com", "wrong")
	assert.EqualError(t, err, "invalid credentials")

	_, err = svc.Login("nobody@example.com", "hunter22")
	assert.EqualError(t, err, "invalid credentials")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := services.NewAuthService(repositories.NewMockUserRepository(), "test-secret")
	registeredUser(t, svc)

	err := svc.Register(&models.User{Email: "asha@example.com", Password: "pw"})
	assert.EqualError(t, err, "email 'asha@example.com' already registered")
}

func TestSaveProfile_MergesNonEmptyFields(t *testing.T) {
	svc := services.NewAuthService(repositories.NewMockUserRepository(), "test-secret")
	user := registeredUser(t, svc)

	updated, err := svc.SaveProfile(user.ID, &models.User{Phone: "9000000000", Password: "newpass99"})
	assert.NoError(t, err)
	assert.Equal(t, "9000000000", updated.Phone)
	assert.Equal(t, "Asha", updated.FirstName, "unset fields keep their stored value")

	// The old password no longer works, the new one does.
	_, err = svc.Login("asha@example.com", "hunter22")
	assert.EqualError(t, err, "invalid credentials")
	_, err = svc.Login("asha@example.com", "newpass99")
	assert.NoError(t, err)
}

func TestValidateToken_RejectsForeignSignature(t *testing.T) {
	issuer := services.NewAuthService(repositories.NewMockUserRepository(), "issuer-secret")
	user := registeredUser(t, issuer)

	logged, err := issuer.Login(user.Email, "hunter22")
	assert.NoError(t, err)

	other := services.NewAuthService(repositories.NewMockUserRepository(), "other-secret")
	_, err = other.ValidateToken(logged.Token)
	assert.ErrorContains(t, err, "invalid token")
}

func TestList_StripsPasswordHashes(t *testing.T) {
	svc := services.NewAuthService(repositories.NewMockUserRepository(), "test-secret")
	registeredUser(t, svc)

	page, err := svc.List(1, 10, "")
	assert.NoError(t, err)
	assert.Len(t, page.Users, 1)
	assert.Empty(t, page.Users[0].Password)
}

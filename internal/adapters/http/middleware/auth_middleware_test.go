package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"arthi-backend/internal/adapters/persistence/models"
	"arthi-backend/internal/config"
	"arthi-backend/internal/core/domain"
	"arthi-backend/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type mockUserRepo struct {
	users map[string]*models.User
}

func (m *mockUserRepo) Create(_ context.Context, _ *models.User) error { return nil }

func (m *mockUserRepo) GetByID(_ context.Context, _ uint) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := m.users[email]
	return ok, nil
}

func (m *mockUserRepo) Update(_ context.Context, _ *models.User) error              { return nil }
func (m *mockUserRepo) UpdateProfile(_ context.Context, _, _, _ string) error       { return nil }
func (m *mockUserRepo) TouchLastLogin(_ context.Context, _ uint) error              { return nil }
func (m *mockUserRepo) List(_ context.Context, _, _ int) ([]*models.User, int64, error) {
	return nil, 0, nil
}

func testApp(t *testing.T, userRepo *mockUserRepo, allowed ...domain.Role) *fiber.App {
	t.Helper()

	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}

	app := fiber.New()
	handlers := []fiber.Handler{Protect(cfg)}
	if len(allowed) > 0 {
		handlers = append(handlers, RequireRoles(userRepo, allowed...))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		actor := ActorFromCtx(c)
		return c.JSON(fiber.Map{"email": actor.Email, "role": string(actor.Role)})
	})
	app.Get("/protected", handlers...)
	return app
}

func bearerToken(t *testing.T, userID uint, email string) string {
	t.Helper()
	token, err := jwt.GenerateAccessToken(userID, email, testSecret, 15)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return "Bearer " + token
}

func TestProtectMissingToken(t *testing.T) {
	app := testApp(t, &mockUserRepo{})

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestProtectInvalidToken(t *testing.T) {
	app := testApp(t, &mockUserRepo{})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestProtectWrongSecret(t *testing.T) {
	app := testApp(t, &mockUserRepo{})

	forged, err := jwt.GenerateAccessToken(1, "x@example.com", "other-secret", 15)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestRequireRolesAllows(t *testing.T) {
	userRepo := &mockUserRepo{users: map[string]*models.User{
		"admin@example.com": {ID: 4, Email: "admin@example.com", Role: "admin", Status: "approved"},
	}}
	app := testApp(t, userRepo, domain.RoleAdmin)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", bearerToken(t, 4, "admin@example.com"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"role":"admin"`) {
		t.Errorf("actor role not attached to request: %s", body)
	}
}

func TestRequireRolesRejectsWithDisclosure(t *testing.T) {
	userRepo := &mockUserRepo{users: map[string]*models.User{
		"rahim@example.com": {ID: 1, Email: "rahim@example.com", Role: "borrower", Status: "approved"},
	}}
	app := testApp(t, userRepo, domain.RoleManager, domain.RoleAdmin)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", bearerToken(t, 1, "rahim@example.com"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}

	// The rejection names the permitted roles and the caller's actual role
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "manager or admin") || !strings.Contains(string(body), "borrower") {
		t.Errorf("rejection should name allowed and actual roles: %s", body)
	}
}

func TestRequireRolesSuspendedAccount(t *testing.T) {
	userRepo := &mockUserRepo{users: map[string]*models.User{
		"rahim@example.com": {ID: 1, Email: "rahim@example.com", Role: "borrower", Status: "suspended"},
	}}
	app := testApp(t, userRepo, domain.RoleBorrower)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", bearerToken(t, 1, "rahim@example.com"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("status = %d, want 403 for suspended account", resp.StatusCode)
	}
}

func TestRequireRolesUnknownAccount(t *testing.T) {
	app := testApp(t, &mockUserRepo{users: map[string]*models.User{}}, domain.RoleBorrower)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", bearerToken(t, 9, "ghost@example.com"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("status = %d, want 403 for unknown account", resp.StatusCode)
	}
}

func TestProtectCookieFallback(t *testing.T) {
	userRepo := &mockUserRepo{users: map[string]*models.User{
		"rahim@example.com": {ID: 1, Email: "rahim@example.com", Role: "borrower", Status: "approved"},
	}}
	app := testApp(t, userRepo, domain.RoleBorrower)

	token, err := jwt.GenerateAccessToken(1, "rahim@example.com", testSecret, 15)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200 with cookie credential", resp.StatusCode)
	}
}

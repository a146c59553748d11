package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	coreauth "github.com/SangramSaha/capsule/internal/core/auth"
	"github.com/SangramSaha/capsule/internal/domain"
)

type fakeUsers struct {
	byEmail map[string]*domain.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byEmail: map[string]*domain.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *domain.User) error {
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return f.byEmail[email], nil
}

func testSvc() (*Service, *fakeUsers, *coreauth.JWTer) {
	users := newFakeUsers()
	j := &coreauth.JWTer{Secret: []byte("test-secret"), Issuer: "capsule-api", TTL: time.Hour}
	return NewService(users, j), users, j
}

func TestLogin_AutoRegister(t *testing.T) {
	svc, users, j := testSvc()

	out, err := svc.Login(context.Background(), "ana@example.com", "hunter22", "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !out.IsNew {
		t.Error("first login should register")
	}
	if out.User.Name != "ana" {
		t.Errorf("name derived from email, got %q", out.User.Name)
	}
	if users.byEmail["ana@example.com"] == nil {
		t.Fatal("user not persisted")
	}

	// token 主体就是注册出来的用户 id
	claims, err := j.Parse(out.Token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UID != out.User.ID {
		t.Errorf("token uid = %q, want %q", claims.UID, out.User.ID)
	}
}

func TestLogin_ExistingUser(t *testing.T) {
	svc, _, _ := testSvc()
	ctx := context.Background()

	first, err := svc.Login(ctx, "bo@example.com", "pw-123456", "Bo")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	again, err := svc.Login(ctx, "bo@example.com", "pw-123456", "")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if again.IsNew {
		t.Error("second login must not be a registration")
	}
	if again.User.ID != first.User.ID {
		t.Error("same email should map to the same user")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := testSvc()
	ctx := context.Background()

	if _, err := svc.Login(ctx, "cy@example.com", "right-pw", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Login(ctx, "cy@example.com", "wrong-pw", "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

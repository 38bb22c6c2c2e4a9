package user

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type fakeStore struct {
	users map[string]*User
	seq   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]*User{}}
}

func (s *fakeStore) CreateUser(_ context.Context, u *User) error {
	s.seq++
	u.ID = fmt.Sprintf("user-%03d", s.seq)
	copied := *u
	s.users[u.ID] = &copied
	return nil
}

func (s *fakeStore) FindUserByID(_ context.Context, id string) (*User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *fakeStore) FindUserByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fakeStore) UpdateUser(_ context.Context, u *User) error {
	if _, ok := s.users[u.ID]; !ok {
		return ErrNotFound
	}
	copied := *u
	s.users[u.ID] = &copied
	return nil
}

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	return NewService(store, zap.NewNop()), store
}

func register(t *testing.T, svc *Service) *User {
	t.Helper()

	u, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return u
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService()
	u := register(t, svc)

	if u.ID == "" {
		t.Error("Register() did not assign an id")
	}
	if u.PasswordHash == "hunter22" {
		t.Error("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hunter22")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Impostor",
		Email:    "ada@example.com",
		Password: "hunter23",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate Register() error = %v, want %v", err, ErrEmailTaken)
	}
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"missing name", RegisterInput{Email: "a@b.com", Password: "hunter22"}},
		{"bad email", RegisterInput{Name: "Ada", Email: "not-an-email", Password: "hunter22"}},
		{"short password", RegisterInput{Name: "Ada", Email: "a@b.com", Password: "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService()
			if _, err := svc.Register(context.Background(), tt.in); err == nil {
				t.Fatal("Register() accepted invalid input")
			}
			if len(store.users) != 0 {
				t.Error("validation failure must not touch the store")
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService()
	u := register(t, svc)

	got, err := svc.Authenticate(context.Background(), "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("Authenticate() id = %q, want %q", got.ID, u.ID)
	}

	if _, err := svc.Authenticate(context.Background(), "ada@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want %v", err, ErrInvalidCredentials)
	}
	if _, err := svc.Authenticate(context.Background(), "nobody@example.com", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want %v", err, ErrInvalidCredentials)
	}
}

func TestUpdate_PasswordChange(t *testing.T) {
	svc, _ := newTestService()
	u := register(t, svc)

	newPassword := "correct-horse"
	wrongOld := "not-my-password"

	if _, err := svc.Update(context.Background(), u.ID, UpdateInput{Password: &newPassword}); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("Update() without old password error = %v, want %v", err, ErrPasswordMismatch)
	}
	if _, err := svc.Update(context.Background(), u.ID, UpdateInput{OldPassword: &wrongOld, Password: &newPassword}); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("Update() with wrong old password error = %v, want %v", err, ErrPasswordMismatch)
	}

	oldPassword := "hunter22"
	if _, err := svc.Update(context.Background(), u.ID, UpdateInput{OldPassword: &oldPassword, Password: &newPassword}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), "ada@example.com", newPassword); err != nil {
		t.Errorf("Authenticate() with new password error = %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "ada@example.com", oldPassword); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Authenticate() with old password error = %v, want %v", err, ErrInvalidCredentials)
	}
}

func TestUpdate_EmailTaken(t *testing.T) {
	svc, _ := newTestService()
	u := register(t, svc)

	other, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Grace",
		Email:    "grace@example.com",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	taken := u.Email
	if _, err := svc.Update(context.Background(), other.ID, UpdateInput{Email: &taken}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Update() error = %v, want %v", err, ErrEmailTaken)
	}
}

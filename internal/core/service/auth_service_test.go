package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/staffboard/todo-system/internal/core/domain"
	"github.com/staffboard/todo-system/internal/core/ports"
	"github.com/staffboard/todo-system/internal/pkg/token"
)

var authKey = []byte("issuer-and-validator-key")

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	// findErr, when set, is returned by FindByUsername for every call.
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrDuplicateUsername
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	copy := cloneUser(user)
	copy.ID = "id-" + user.Username
	r.users[copy.Username] = copy
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func newAuthService(repo ports.UserRepository) *AuthService {
	return NewAuthService(repo, token.NewSigner(authKey, 0), zerolog.Nop())
}

func TestAuthService_Register_DefaultsToEmployee(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Email: "a@x.com", Password: "p1"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	stored := repo.users["alice"]
	if stored == nil {
		t.Fatalf("user not stored")
	}
	if stored.Role != domain.RoleEmployee {
		t.Fatalf("expected Employee role, got %q", stored.Role)
	}
	if stored.PasswordHash == "p1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("p1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_DuplicateUsernameRegardlessOfEmail(t *testing.T) {
	svc := newAuthService(newStubUserRepo())
	ctx := context.Background()

	if err := svc.Register(ctx, ports.RegisterInput{Username: "alice", Email: "a@x.com", Password: "p1"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	err := svc.Register(ctx, ports.RegisterInput{Username: "alice", Email: "other@x.com", Password: "p2"})
	if !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc := newAuthService(newStubUserRepo())
	ctx := context.Background()

	_ = svc.Register(ctx, ports.RegisterInput{Username: "alice", Email: "a@x.com", Password: "p1"})
	err := svc.Register(ctx, ports.RegisterInput{Username: "bob", Email: "a@x.com", Password: "p2"})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthService_Register_ConcurrentSameUsername(t *testing.T) {
	svc := newAuthService(newStubUserRepo())

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.Register(context.Background(), ports.RegisterInput{
				Username: "carol",
				Email:    "carol" + string(rune('a'+i)) + "@x.com",
				Password: "pw",
			})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrDuplicateUsername):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("expected exactly one successful registration, got %d", ok)
	}
}

func TestAuthService_Register_InvalidRole(t *testing.T) {
	svc := newAuthService(newStubUserRepo())

	err := svc.Register(context.Background(), ports.RegisterInput{Username: "dave", Email: "d@x.com", Password: "pw", Role: "Owner"})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	svc := newAuthService(newStubUserRepo())

	err := svc.Register(context.Background(), ports.RegisterInput{Username: "erin"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := newAuthService(newStubUserRepo())
	ctx := context.Background()
	_ = svc.Register(ctx, ports.RegisterInput{Username: "boss", Email: "b@x.com", Password: "s3cret", Role: "Admin"})

	start := time.Now()
	res, err := svc.Login(ctx, "boss", "s3cret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token")
	}
	if res.Role != domain.RoleAdmin || res.Username != "boss" {
		t.Fatalf("unexpected result: %+v", res)
	}

	claims, err := token.Validate(res.Token, authKey)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.Role != domain.RoleAdmin || claims.Subject != "boss" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.ExpiresAt.Equal(res.Expiration) {
		t.Fatalf("expiration mismatch: %s vs %s", claims.ExpiresAt, res.Expiration)
	}
	ttl := res.Expiration.Sub(start)
	if ttl < 8*time.Hour-2*time.Second || ttl > 8*time.Hour+time.Second {
		t.Fatalf("expected ~8h lifetime, got %s", ttl)
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	svc := newAuthService(newStubUserRepo())
	ctx := context.Background()
	_ = svc.Register(ctx, ports.RegisterInput{Username: "alice", Email: "a@x.com", Password: "p1"})

	_, wrongPass := svc.Login(ctx, "alice", "wrong")
	_, unknown := svc.Login(ctx, "nobody", "p1")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Fatalf("messages differ: %q vs %q", wrongPass.Error(), unknown.Error())
	}
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("connection reset")
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), "alice", "p1")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected a store error, got %v", err)
	}
}

func TestAuthService_Login_StoredRoleOutsideClosedSet(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = fmt.Errorf("user %q: %w", "alice", domain.ErrInvalidRole)
	svc := newAuthService(repo)

	res, err := svc.Login(context.Background(), "alice", "p1")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if res != nil {
		t.Fatal("no token may be issued")
	}
}

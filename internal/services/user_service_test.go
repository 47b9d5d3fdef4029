package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lakbaycavite/server/internal/mailer"
	"github.com/lakbaycavite/server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	for _, existing := range f.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return nil, models.NewConflictError("email or username is already taken")
		}
	}
	_ = user.BeforeCreate()
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUserRepo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUserRepo) ListUsers(ctx context.Context, search string, page, limit int) (*models.UserList, error) {
	list := &models.UserList{Page: page}
	for _, user := range f.users {
		list.Users = append(list.Users, user)
		list.Total++
		if user.IsActive {
			list.TotalActiveUsers++
		} else {
			list.TotalInactiveUsers++
		}
	}
	return list, nil
}

func (f *fakeUserRepo) UpdateUser(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if isActive, ok := set["isActive"].(bool); ok {
		user.IsActive = isActive
	}
	if image, ok := set["image"].(string); ok {
		user.Image = image
	}
	if gender, ok := set["gender"].(string); ok {
		user.Gender = gender
	}
	return user, nil
}

func (f *fakeUserRepo) ToggleUserStatus(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	user.IsActive = !user.IsActive
	return user, nil
}

func (f *fakeUserRepo) SetLastLogin(ctx context.Context, id primitive.ObjectID, t time.Time) error {
	user, ok := f.users[id]
	if !ok {
		return models.ErrNotFound
	}
	user.LastLogin = t
	return nil
}

func (f *fakeUserRepo) SetUserPassword(ctx context.Context, email, passwordHash string) error {
	for _, user := range f.users {
		if user.Email == email {
			user.Password = passwordHash
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeUserRepo) UserEngagement(ctx context.Context, id primitive.ObjectID) (int64, int64, error) {
	return 2, 5, nil
}

type fakeVerificationRepo struct {
	verifications map[string]*models.Verification
	resets        map[string]*models.PasswordReset
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{
		verifications: map[string]*models.Verification{},
		resets:        map[string]*models.PasswordReset{},
	}
}

func (f *fakeVerificationRepo) UpsertVerification(ctx context.Context, email, code string, data models.PendingUser) error {
	f.verifications[email] = &models.Verification{Email: email, Code: code, UserData: data, CreatedAt: time.Now()}
	return nil
}

func (f *fakeVerificationRepo) FindVerification(ctx context.Context, email, code string) (*models.Verification, error) {
	v, ok := f.verifications[email]
	if !ok || v.Code != code {
		return nil, models.ErrNotFound
	}
	return v, nil
}

func (f *fakeVerificationRepo) DeleteVerification(ctx context.Context, email string) error {
	delete(f.verifications, email)
	return nil
}

func (f *fakeVerificationRepo) UpsertPasswordReset(ctx context.Context, email, code string) error {
	f.resets[email] = &models.PasswordReset{Email: email, Code: code, CreatedAt: time.Now()}
	return nil
}

func (f *fakeVerificationRepo) FindPasswordReset(ctx context.Context, email, code string) (*models.PasswordReset, error) {
	pr, ok := f.resets[email]
	if !ok || pr.Code != code {
		return nil, models.ErrNotFound
	}
	return pr, nil
}

func (f *fakeVerificationRepo) DeletePasswordReset(ctx context.Context, email string) error {
	delete(f.resets, email)
	return nil
}

func newTestUserService(users *fakeUserRepo, verifications *fakeVerificationRepo) *UserService {
	return NewUserService(users, verifications, mailer.NewLogMailer(discardLogger()), discardLogger(), "test-secret")
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, username, password string, active bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	user := &models.User{
		Email:    email,
		Username: username,
		Password: string(hash),
		IsActive: active,
	}
	if _, err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatal(err)
	}
	return user
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo, newFakeVerificationRepo())
	user := seedUser(t, repo, "juan@example.com", "juandc", "s3cret-pass", true)

	t.Run("by email", func(t *testing.T) {
		result, err := svc.Login(context.Background(), "juan@example.com", "s3cret-pass")
		if err != nil {
			t.Fatal(err)
		}
		if result.Token == "" {
			t.Error("expected a token")
		}
		if result.User.ID != user.ID {
			t.Error("wrong user returned")
		}
		if user.LastLogin.IsZero() {
			t.Error("lastLogin was not recorded")
		}
	})

	t.Run("by @username", func(t *testing.T) {
		if _, err := svc.Login(context.Background(), "@juandc", "s3cret-pass"); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "juan@example.com", "wrong")
		if !models.IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("unknown identifier", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
		if !models.IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("deactivated account", func(t *testing.T) {
		seedUser(t, repo, "maria@example.com", "mariac", "s3cret-pass", false)
		_, err := svc.Login(context.Background(), "maria@example.com", "s3cret-pass")
		if !errors.Is(err, models.ErrAccountDisabled) {
			t.Fatalf("expected ErrAccountDisabled, got %v", err)
		}
	})
}

func TestRegistrationFlow(t *testing.T) {
	repo := newFakeUserRepo()
	verifications := newFakeVerificationRepo()
	svc := newTestUserService(repo, verifications)

	input := RegisterInput{
		Email:    "ana@example.com",
		Username: "ana_travels",
		Password: "long-enough-pass",
		Gender:   "FEMALE",
		Age:      24,
	}

	if err := svc.InitiateRegistration(context.Background(), input); err != nil {
		t.Fatal(err)
	}

	// No account exists yet, only the parked verification.
	if _, err := repo.FindUserByEmail(context.Background(), "ana@example.com"); !errors.Is(err, models.ErrNotFound) {
		t.Fatal("account must not exist before verification")
	}
	parked, ok := verifications.verifications["ana@example.com"]
	if !ok {
		t.Fatal("no verification was parked")
	}
	if parked.UserData.Password == input.Password {
		t.Error("parked password must be hashed, not plaintext")
	}
	if parked.UserData.Gender != "Female" {
		t.Errorf("gender not normalized: %q", parked.UserData.Gender)
	}

	t.Run("wrong code", func(t *testing.T) {
		_, err := svc.VerifyAndCreate(context.Background(), "ana@example.com", "000000")
		if !models.IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	user, err := svc.VerifyAndCreate(context.Background(), "ana@example.com", parked.Code)
	if err != nil {
		t.Fatal(err)
	}
	if !user.IsActive || !user.IsVerified {
		t.Error("verified account should be active and verified")
	}
	if user.Role != models.RoleUser {
		t.Errorf("role = %q, want %q", user.Role, models.RoleUser)
	}
	if _, ok := verifications.verifications["ana@example.com"]; ok {
		t.Error("verification should be cleaned up after account creation")
	}

	// Login with the original password must work against the stored hash.
	if _, err := svc.Login(context.Background(), "ana@example.com", input.Password); err != nil {
		t.Fatalf("login after registration failed: %v", err)
	}

	t.Run("taken email", func(t *testing.T) {
		err := svc.InitiateRegistration(context.Background(), input)
		if !models.IsConflict(err) {
			t.Fatalf("expected ConflictError, got %v", err)
		}
	})

	t.Run("taken username", func(t *testing.T) {
		dup := input
		dup.Email = "other@example.com"
		err := svc.InitiateRegistration(context.Background(), dup)
		if !models.IsConflict(err) {
			t.Fatalf("expected ConflictError, got %v", err)
		}
	})
}

func TestPasswordResetFlow(t *testing.T) {
	repo := newFakeUserRepo()
	verifications := newFakeVerificationRepo()
	svc := newTestUserService(repo, verifications)
	seedUser(t, repo, "pedro@example.com", "pedroh", "old-password-1", true)

	if err := svc.RequestPasswordReset(context.Background(), "pedro@example.com"); err != nil {
		t.Fatal(err)
	}
	reset, ok := verifications.resets["pedro@example.com"]
	if !ok {
		t.Fatal("no reset code was stored")
	}

	t.Run("unknown email is silently accepted", func(t *testing.T) {
		if err := svc.RequestPasswordReset(context.Background(), "ghost@example.com"); err != nil {
			t.Fatalf("unknown email must not error: %v", err)
		}
		if _, ok := verifications.resets["ghost@example.com"]; ok {
			t.Error("no code should be stored for unknown emails")
		}
	})

	t.Run("short new password", func(t *testing.T) {
		err := svc.ResetPassword(context.Background(), "pedro@example.com", reset.Code, "short")
		if !models.IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	if err := svc.ResetPassword(context.Background(), "pedro@example.com", reset.Code, "new-password-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Login(context.Background(), "pedro@example.com", "new-password-1"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), "pedro@example.com", "old-password-1"); err == nil {
		t.Fatal("old password must no longer work")
	}
	if _, ok := verifications.resets["pedro@example.com"]; ok {
		t.Error("reset code should be cleaned up after use")
	}
}

func TestGetUserIncludesEngagement(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo, newFakeVerificationRepo())
	user := seedUser(t, repo, "liza@example.com", "lizam", "some-password", true)

	detail, err := svc.GetUser(context.Background(), user.ID.Hex())
	if err != nil {
		t.Fatal(err)
	}
	if detail.PostsCount != 2 || detail.CommentCount != 5 {
		t.Errorf("engagement = (%d, %d), want (2, 5)", detail.PostsCount, detail.CommentCount)
	}
}

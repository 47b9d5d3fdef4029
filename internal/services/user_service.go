package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/lakbaycavite/server/internal/helpers"
	"github.com/lakbaycavite/server/internal/mailer"
	"github.com/lakbaycavite/server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is the self-registration payload. Nothing is written to
// the users collection until the emailed code is confirmed.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required,min=3"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Age       int    `json:"age"`
	Gender    string `json:"gender"`
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type UserService struct {
	userRepo         models.UserRepo
	verificationRepo models.VerificationRepo
	mailer           mailer.Mailer
	logger           *slog.Logger
	jwtSecret        string
	now              func() time.Time
}

func NewUserService(userRepo models.UserRepo, verificationRepo models.VerificationRepo, m mailer.Mailer, logger *slog.Logger, jwtSecret string) *UserService {
	return &UserService{
		userRepo:         userRepo,
		verificationRepo: verificationRepo,
		mailer:           m,
		logger:           logger,
		jwtSecret:        jwtSecret,
		now:              time.Now,
	}
}

func (us *UserService) ListUsers(ctx context.Context, search string, page, limit int) (*models.UserList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return us.userRepo.ListUsers(ctx, search, page, limit)
}

// GetUser returns the profile along with the engagement counts the
// admin detail view shows.
func (us *UserService) GetUser(ctx context.Context, idHex string) (*models.UserDetail, error) {
	id, err := parseObjectID(idHex)
	if err != nil {
		return nil, err
	}
	user, err := us.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	posts, comments, err := us.userRepo.UserEngagement(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.UserDetail{User: user, PostsCount: posts, CommentCount: comments}, nil
}

func (us *UserService) UpdateUser(ctx context.Context, idHex string, update models.UserUpdate) (*models.User, error) {
	id, err := parseObjectID(idHex)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if update.Email != nil {
		if err := models.Validate.Var(*update.Email, "required,email"); err != nil {
			return nil, models.NewValidationError("invalid email address")
		}
		set["email"] = strings.TrimSpace(*update.Email)
	}
	if update.Username != nil {
		if strings.TrimSpace(*update.Username) == "" {
			return nil, models.NewValidationError("username cannot be empty")
		}
		set["username"] = strings.TrimSpace(*update.Username)
	}
	if update.FirstName != nil {
		set["firstName"] = *update.FirstName
	}
	if update.LastName != nil {
		set["lastName"] = *update.LastName
	}
	if update.Age != nil {
		if *update.Age < 0 {
			return nil, models.NewValidationError("age cannot be negative")
		}
		set["age"] = *update.Age
	}
	if update.Gender != nil {
		set["gender"] = models.NormalizeGender(*update.Gender)
	}
	if update.Image != nil {
		set["image"] = *update.Image
	}
	if len(set) == 0 {
		return us.userRepo.GetUserByID(ctx, id)
	}
	return us.userRepo.UpdateUser(ctx, id, set)
}

func (us *UserService) ToggleUserStatus(ctx context.Context, idHex string) (*models.User, error) {
	id, err := parseObjectID(idHex)
	if err != nil {
		return nil, err
	}
	return us.userRepo.ToggleUserStatus(ctx, id)
}

func (us *UserService) SetUserImage(ctx context.Context, idHex string, imageURL string) (*models.User, error) {
	id, err := parseObjectID(idHex)
	if err != nil {
		return nil, err
	}
	return us.userRepo.UpdateUser(ctx, id, bson.M{"image": imageURL})
}

// Login authenticates by email or username. An identifier starting with
// "@" is treated as a username lookup.
func (us *UserService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, models.NewValidationError("identifier and password are required")
	}

	var user *models.User
	var err error
	if strings.HasPrefix(identifier, "@") {
		user, err = us.userRepo.FindUserByUsername(ctx, strings.TrimPrefix(identifier, "@"))
	} else {
		user, err = us.userRepo.FindUserByEmail(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewValidationError("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewValidationError("invalid credentials")
	}
	if !user.IsActive {
		return nil, models.ErrAccountDisabled
	}

	token, err := helpers.IssueToken(us.jwtSecret, user.ID.Hex(), user.Role)
	if err != nil {
		return nil, err
	}

	if err := us.userRepo.SetLastLogin(ctx, user.ID, us.now()); err != nil {
		us.logger.Warn("failed to record last login", "user_id", user.ID.Hex(), "error", err)
	}
	return &LoginResult{Token: token, User: user}, nil
}

// InitiateRegistration parks the hashed registration payload and emails
// a 6-digit verification code. The account is only created once
// VerifyAndCreate confirms the code.
func (us *UserService) InitiateRegistration(ctx context.Context, input RegisterInput) error {
	if err := models.Validate.Struct(input); err != nil {
		return models.NewValidationError("invalid registration details: %v", err)
	}

	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.Username = strings.TrimSpace(input.Username)

	if _, err := us.userRepo.FindUserByEmail(ctx, input.Email); err == nil {
		return models.NewConflictError("email is already registered")
	} else if !errors.Is(err, models.ErrNotFound) {
		return err
	}
	if _, err := us.userRepo.FindUserByUsername(ctx, input.Username); err == nil {
		return models.NewConflictError("username is already taken")
	} else if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	code, err := helpers.GenerateVerificationCode()
	if err != nil {
		return err
	}

	pending := models.PendingUser{
		Username:  input.Username,
		Password:  string(hash),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Age:       input.Age,
		Gender:    models.NormalizeGender(input.Gender),
	}
	if err := us.verificationRepo.UpsertVerification(ctx, input.Email, code, pending); err != nil {
		return err
	}

	// Unlike event notifications, a lost verification email leaves the
	// user stuck, so delivery failure surfaces to the caller.
	if err := us.mailer.SendVerificationCode(ctx, input.Email, code); err != nil {
		return models.NewDependencyError("email", err)
	}
	return nil
}

// VerifyAndCreate confirms the emailed code and materializes the parked
// registration into a real account.
func (us *UserService) VerifyAndCreate(ctx context.Context, email, code string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, models.NewValidationError("email and code are required")
	}

	verification, err := us.verificationRepo.FindVerification(ctx, email, code)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewValidationError("invalid or expired verification code")
		}
		return nil, err
	}

	user := &models.User{
		Email:      verification.Email,
		Username:   verification.UserData.Username,
		Password:   verification.UserData.Password,
		FirstName:  verification.UserData.FirstName,
		LastName:   verification.UserData.LastName,
		Age:        verification.UserData.Age,
		Gender:     verification.UserData.Gender,
		Image:      verification.UserData.Image,
		Role:       verification.UserData.Role,
		IsActive:   true,
		IsVerified: true,
	}
	created, err := us.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := us.verificationRepo.DeleteVerification(ctx, email); err != nil {
		us.logger.Warn("failed to clean up verification", "email", email, "error", err)
	}
	return created, nil
}

// RequestPasswordReset emails a reset code. An unknown email returns
// success anyway so the endpoint cannot be used to probe for accounts.
func (us *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return models.NewValidationError("email is required")
	}

	if _, err := us.userRepo.FindUserByEmail(ctx, email); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			us.logger.Info("password reset requested for unknown email", "email", email)
			return nil
		}
		return err
	}

	code, err := helpers.GenerateVerificationCode()
	if err != nil {
		return err
	}
	if err := us.verificationRepo.UpsertPasswordReset(ctx, email, code); err != nil {
		return err
	}
	if err := us.mailer.SendPasswordResetCode(ctx, email, code); err != nil {
		return models.NewDependencyError("email", err)
	}
	return nil
}

// ResetPassword confirms the emailed code and replaces the password.
func (us *UserService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || strings.TrimSpace(code) == "" {
		return models.NewValidationError("email and code are required")
	}
	if len(newPassword) < 8 {
		return models.NewValidationError("password must be at least 8 characters")
	}

	if _, err := us.verificationRepo.FindPasswordReset(ctx, email, strings.TrimSpace(code)); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.NewValidationError("invalid or expired reset code")
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := us.userRepo.SetUserPassword(ctx, email, string(hash)); err != nil {
		return err
	}

	if err := us.verificationRepo.DeletePasswordReset(ctx, email); err != nil {
		us.logger.Warn("failed to clean up password reset", "email", email, "error", err)
	}
	return nil
}

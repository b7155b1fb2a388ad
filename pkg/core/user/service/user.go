package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	apperrors "workbuddy-store/pkg/common/errors"
	"workbuddy-store/pkg/core/user/model"
	"workbuddy-store/pkg/core/user/repository/dao"
	"workbuddy-store/pkg/core/verification"
)

const birthdayLayout = "2006-01-02"

// RegisterInput is the account data collected by the registration wizard.
type RegisterInput struct {
	Name        string `validate:"required"`
	Email       string `validate:"required,email"`
	PhoneNumber string `validate:"required,len=9"`
	Password    string `validate:"required,min=8"`
	Address     string `validate:"required"`
	Birthday    string `validate:"required,datetime=2006-01-02"`
}

type changePasswordInput struct {
	OldPassword string `validate:"required"`
	NewPassword string `validate:"required,min=8,nefield=OldPassword"`
}

// UserService is the identity backend of the store: accounts, e-mail
// verification and credentials.
type UserService struct {
	repo      dao.UserRepository
	codes     verification.CodeStore
	notifier  verification.Notifier
	validate  *validator.Validate
	codeTTL   time.Duration
	bcryptCst int
	now       func() time.Time
}

// Option configures a UserService.
type Option func(*UserService)

// WithCodeTTL sets how long issued codes stay valid.
func WithCodeTTL(ttl time.Duration) Option {
	return func(s *UserService) { s.codeTTL = ttl }
}

// WithBcryptCost overrides bcrypt.DefaultCost.
func WithBcryptCost(cost int) Option {
	return func(s *UserService) { s.bcryptCst = cost }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *UserService) { s.now = now }
}

func NewUserService(repo dao.UserRepository, codes verification.CodeStore, notifier verification.Notifier, opts ...Option) *UserService {
	s := &UserService{
		repo:      repo,
		codes:     codes,
		notifier:  notifier,
		validate:  validator.New(),
		codeTTL:   15 * time.Minute,
		bcryptCst: bcrypt.DefaultCost,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an unverified account and sends its verification code.
// It never authenticates the caller.
func (s *UserService) Register(ctx context.Context, in RegisterInput) error {
	if err := s.check(in); err != nil {
		return err
	}

	exists, err := s.repo.IsEmailExists(ctx, in.Email)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.ErrEmailTaken
	}

	user, err := s.newUser(in)
	if err != nil {
		return err
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.ErrEmailTaken
		}
		return err
	}
	hlog.CtxInfof(ctx, "user registered id=%d email=%s", user.ID, user.Email)

	// The account exists; a failed delivery is recoverable through ResendCode.
	if err := s.issueCode(ctx, user.Email, user.Name); err != nil {
		hlog.CtxErrorf(ctx, "verification code not delivered email=%s err=%v", user.Email, err)
	}
	return nil
}

// UpdateRegistration rewrites the unverified account of currentEmail with in
// and sends a fresh code to the (possibly new) address.
func (s *UserService) UpdateRegistration(ctx context.Context, currentEmail string, in RegisterInput) error {
	if err := s.check(in); err != nil {
		return err
	}

	current, err := s.repo.QueryByEmail(ctx, currentEmail)
	if err != nil {
		return err
	}
	if current.IsVerified {
		return apperrors.ErrEmailTaken
	}

	emailChanged := !strings.EqualFold(strings.TrimSpace(in.Email), current.Email)
	if emailChanged {
		exists, err := s.repo.IsEmailExists(ctx, in.Email)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.ErrEmailTaken
		}
	}

	user, err := s.newUser(in)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateUnverified(ctx, current.Email, user); err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.ErrEmailTaken
		}
		return err
	}
	hlog.CtxInfof(ctx, "registration updated id=%d email=%s", current.ID, user.Email)

	if emailChanged {
		if err := s.codes.Delete(ctx, current.Email); err != nil {
			hlog.CtxWarnf(ctx, "verification code cleanup failed email=%s err=%v", current.Email, err)
		}
	}
	if err := s.issueCode(ctx, user.Email, user.Name); err != nil {
		hlog.CtxErrorf(ctx, "verification code not delivered email=%s err=%v", user.Email, err)
	}
	return nil
}

// VerifyEmail confirms the account of email with code.
func (s *UserService) VerifyEmail(ctx context.Context, email, code string) error {
	if err := s.codes.Check(ctx, email, code); err != nil {
		return err
	}
	if err := s.repo.MarkVerified(ctx, email); err != nil {
		return err
	}
	if err := s.codes.Delete(ctx, email); err != nil {
		hlog.CtxWarnf(ctx, "verification code cleanup failed email=%s err=%v", email, err)
	}
	hlog.CtxInfof(ctx, "user verified email=%s", email)
	return nil
}

// ResendCode issues a fresh code to an unverified account.
// Verified accounts are left alone.
func (s *UserService) ResendCode(ctx context.Context, email string) error {
	user, err := s.repo.QueryByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return nil
	}
	return s.issueCode(ctx, user.Email, user.Name)
}

// Authenticate checks credentials. Unverified accounts cannot log in.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	hash, id, err := s.repo.GetPasswordHash(ctx, email)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return model.User{}, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return model.User{}, apperrors.ErrInvalidCredentials
	}

	user, err := s.repo.QueryByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if !user.IsVerified {
		return model.User{}, apperrors.ErrAccountNotVerified
	}
	return user, nil
}

// ChangePassword replaces the password of userID after checking the old one.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if err := s.check(changePasswordInput{OldPassword: oldPassword, NewPassword: newPassword}); err != nil {
		return err
	}

	user, err := s.repo.QueryByID(ctx, userID)
	if err != nil {
		return err
	}
	hash, _, err := s.repo.GetPasswordHash(ctx, user.Email)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(oldPassword)); err != nil {
		return apperrors.ErrInvalidCredentials
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCst)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, userID, string(newHash))
}

// Ping reports whether the account store is reachable.
func (s *UserService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// newUser builds an unverified account from in with a hashed password.
func (s *UserService) newUser(in RegisterInput) (*model.User, error) {
	birthday, err := time.Parse(birthdayLayout, in.Birthday)
	if err != nil {
		return nil, apperrors.NewInvalidInput("Birthday")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCst)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &model.User{
		Name:         in.Name,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PhoneNumber:  in.PhoneNumber,
		Address:      in.Address,
		Birthday:     birthday,
		PasswordHash: string(hashed),
		IsVerified:   false,
		IsActive:     true,
	}, nil
}

func (s *UserService) issueCode(ctx context.Context, email, name string) error {
	code, err := verification.Generate()
	if err != nil {
		return err
	}
	if err := s.codes.Save(ctx, email, code, s.codeTTL); err != nil {
		return err
	}
	return s.notifier.SendVerificationCode(ctx, verification.Message{
		Email:     email,
		Name:      name,
		Code:      code,
		ExpiresAt: s.now().Add(s.codeTTL),
	})
}

func (s *UserService) check(in interface{}) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate input: %w", err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return apperrors.NewInvalidInput(fields...)
}

package dao

import (
	"context"

	"workbuddy-store/pkg/core/user/model"
)

type UserRepository interface {
	QueryByID(ctx context.Context, id int64) (model.User, error)
	QueryByEmail(ctx context.Context, email string) (model.User, error)
	IsEmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *model.User) error
	// UpdateUnverified rewrites the profile and credentials of the
	// unverified account of email.
	UpdateUnverified(ctx context.Context, email string, user *model.User) error
	MarkVerified(ctx context.Context, email string) error
	GetPasswordHash(ctx context.Context, email string) (string, int64, error) // hash and user id
	UpdatePassword(ctx context.Context, userID int64, newPwdHash string) error
	Ping(ctx context.Context) error
}

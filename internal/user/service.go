// Package user はユーザー登録のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/smartdeals/internal/model"
	"github.com/hitoshi/smartdeals/internal/repository"
)

// RegisterInput はユーザー登録の入力を表す。
type RegisterInput struct {
	Email    string
	Name     string
	PhotoURL string
}

// validate は必須フィールドを検証する。
func (in RegisterInput) validate() error {
	if in.Email == "" {
		return model.NewMissingFieldError("email")
	}
	return nil
}

// RegisterResult はユーザー登録の結果を表す。
// 同一emailのユーザーが既に存在する場合、AlreadyExistsがtrueとなり
// Userには既存レコードが入る。
type RegisterResult struct {
	User          *model.User
	AlreadyExists bool
}

// Service はユーザー管理のサービス層。
type Service struct {
	userRepo repository.UserRepository
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

// Register はユーザーを登録する。
// emailによる事前存在チェックを行い、未登録の場合のみ挿入する。
// 存在チェックと挿入は別々のストア呼び出しであり、競合時の重複は
// users.emailの一意インデックスで最終的に防がれる。
func (s *Service) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return &RegisterResult{User: existing, AlreadyExists: true}, nil
	}

	newUser := &model.User{
		Email:     input.Email,
		Name:      input.Name,
		PhotoURL:  input.PhotoURL,
		CreatedAt: time.Now(),
	}

	id, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	newUser.ID = id

	slog.Info("new user registered",
		slog.String("user_id", id.Hex()),
		slog.String("email", input.Email),
	)

	return &RegisterResult{User: newUser, AlreadyExists: false}, nil
}

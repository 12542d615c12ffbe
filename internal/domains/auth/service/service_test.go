package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"registro/config"
	"registro/infras/jwt"
	jwtMocks "registro/infras/jwt/mocks"
	"registro/infras/otel/mocks"
	"registro/internal/domains/auth/model/dto"
	"registro/internal/domains/auth/service"
	userMocks "registro/internal/domains/user/mocks"
	userModel "registro/internal/domains/user/model"
	"registro/shared/failure"
	"registro/shared/password"
)

func newService(t *testing.T) (service.Auth, *userMocks.MockUser, *jwtMocks.MockJWT) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	return service.New(mockUserRepo, cfg, mockOtel, mockJWT), mockUserRepo, mockJWT
}

func TestAuthService_Register(t *testing.T) {
	t.Run("creates the user with a hashed password", func(t *testing.T) {
		svc, mockUserRepo, _ := newService(t)

		mockUserRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)
		mockUserRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user userModel.User) error {
				assert.Equal(t, "ana@example.com", user.Email)
				assert.NotEqual(t, "secreto123", user.Password)
				assert.NoError(t, password.Verify("secreto123", user.Password))
				return nil
			})

		err := svc.Register(context.Background(), dto.RegisterRequest{
			Email:    "ana@example.com",
			Password: "secreto123",
			FullName: "Ana Gomez",
		})

		assert.NoError(t, err)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		svc, mockUserRepo, _ := newService(t)

		mockUserRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		err := svc.Register(context.Background(), dto.RegisterRequest{
			Email:    "ana@example.com",
			Password: "secreto123",
		})

		assert.Error(t, err)
	})
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := password.Hash("secreto123")
	assert.NoError(t, err)

	activeUser := userModel.User{
		ID:       "user-1",
		Email:    "ana@example.com",
		Password: hashed,
		Role:     "user",
		Active:   true,
	}

	t.Run("returns a token pair and records the login", func(t *testing.T) {
		svc, mockUserRepo, mockJWT := newService(t)

		mockUserRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeUser, nil)
		mockJWT.EXPECT().
			GenerateTokenPair("user-1", "ana@example.com", "user").
			Return(&jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil)
		mockUserRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Contains(t, fields, userModel.FieldLastLogin)
				return nil
			})

		res, err := svc.Login(context.Background(), dto.LoginRequest{
			Email:    "ana@example.com",
			Password: "secreto123",
		})

		assert.NoError(t, err)
		assert.Equal(t, "access", res.AccessToken)
		assert.Equal(t, "refresh", res.RefreshToken)
	})

	t.Run("unknown email and wrong password share one message", func(t *testing.T) {
		svc, mockUserRepo, _ := newService(t)

		mockUserRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(userModel.User{}, nil)

		_, errUnknown := svc.Login(context.Background(), dto.LoginRequest{
			Email:    "nadie@example.com",
			Password: "secreto123",
		})

		mockUserRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeUser, nil)

		_, errWrong := svc.Login(context.Background(), dto.LoginRequest{
			Email:    "ana@example.com",
			Password: "otra-clave",
		})

		assert.Error(t, errUnknown)
		assert.Error(t, errWrong)
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})

	t.Run("deactivated account cannot log in", func(t *testing.T) {
		svc, mockUserRepo, _ := newService(t)

		inactive := activeUser
		inactive.Active = false

		mockUserRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(inactive, nil)

		_, err := svc.Login(context.Background(), dto.LoginRequest{
			Email:    "ana@example.com",
			Password: "secreto123",
		})

		assert.Error(t, err)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("valid refresh token yields a new pair", func(t *testing.T) {
		svc, _, mockJWT := newService(t)

		mockJWT.EXPECT().
			RefreshTokens("refresh-token").
			Return(&jwt.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil)

		res, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh-token"})

		assert.NoError(t, err)
		assert.Equal(t, "new-access", res.AccessToken)
	})

	t.Run("invalid refresh token is unauthorized", func(t *testing.T) {
		svc, _, mockJWT := newService(t)

		mockJWT.EXPECT().
			RefreshTokens("bad-token").
			Return(nil, errors.New("token is expired"))

		_, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "bad-token"})

		assert.Error(t, err)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	hashed, err := password.Hash("secreto123")
	assert.NoError(t, err)

	user := userModel.User{
		ID:       "user-1",
		Email:    "ana@example.com",
		Password: hashed,
	}

	t.Run("updates to the new hash", func(t *testing.T) {
		svc, mockUserRepo, _ := newService(t)

		mockUserRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(user, nil)
		mockUserRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				newHash, _ := fields[userModel.FieldPassword].(string)
				assert.NoError(t, password.Verify("clave-nueva", newHash))
				return nil
			})

		err := svc.ChangePassword(context.Background(), dto.ChangePasswordRequest{
			CurrentPassword: "secreto123",
			NewPassword:     "clave-nueva",
		}, "user-1")

		assert.NoError(t, err)
	})

	t.Run("wrong current password is rejected", func(t *testing.T) {
		svc, mockUserRepo, _ := newService(t)

		mockUserRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(user, nil)

		err := svc.ChangePassword(context.Background(), dto.ChangePasswordRequest{
			CurrentPassword: "equivocada",
			NewPassword:     "clave-nueva",
		}, "user-1")

		assert.Error(t, err)
	})

	t.Run("unknown user yields not found", func(t *testing.T) {
		svc, mockUserRepo, _ := newService(t)

		mockUserRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(userModel.User{}, nil)

		err := svc.ChangePassword(context.Background(), dto.ChangePasswordRequest{
			CurrentPassword: "secreto123",
			NewPassword:     "clave-nueva",
		}, "missing")

		assert.Error(t, err)
		assert.True(t, failure.IsNotFound(err))
	})
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/mocks"
)

func TestPasswordService_ChangePassword(t *testing.T) {
	tests := []struct {
		name            string
		userID          int64
		currentPassword string
		newPassword     string
		wantErr         error
		wantField       string
	}{
		{
			name:            "Successful change",
			userID:          1,
			currentPassword: "OldPassword1",
			newPassword:     "NewPassword2",
		},
		{
			name:            "Unknown user",
			userID:          99,
			currentPassword: "OldPassword1",
			newPassword:     "NewPassword2",
			wantErr:         ErrUserNotFound,
		},
		{
			name:            "Wrong current password",
			userID:          1,
			currentPassword: "WrongPassword",
			newPassword:     "NewPassword2",
			wantErr:         ErrInvalidFormat,
			wantField:       "current_password",
		},
		{
			name:            "Empty new password",
			userID:          1,
			currentPassword: "OldPassword1",
			newPassword:     "",
			wantErr:         ErrMissingField,
			wantField:       "new_password",
		},
		{
			name:            "New password equals username",
			userID:          1,
			currentPassword: "OldPassword1",
			newPassword:     "pat",
			wantErr:         ErrWeakCredential,
			wantField:       "new_password",
		},
		{
			name:            "New password equals email local part",
			userID:          1,
			currentPassword: "OldPassword1",
			newPassword:     "pat.smith",
			wantErr:         ErrWeakCredential,
			wantField:       "new_password",
		},
		{
			name:            "Password reuse",
			userID:          1,
			currentPassword: "OldPassword1",
			newPassword:     "OldPassword1",
			wantErr:         ErrWeakCredential,
			wantField:       "new_password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := testConfig()
			hashed, err := hashPassword("OldPassword1", conf.Security.BcryptCost)
			require.NoError(t, err)

			mockRepo := mocks.NewMockUserRepository()
			mockRepo.Users[1] = &domain.User{ID: 1, Username: "pat", Email: "pat.smith@example.com", Password: hashed, IsActive: true}
			mockStore := mocks.NewMockRefreshTokenStore()
			mockStore.Tokens["t1"] = &domain.RefreshToken{Token: "t1", UserID: 1}

			svc := NewPasswordService(mockRepo, mockStore, conf)
			err = svc.ChangePassword(context.Background(), tt.userID, tt.currentPassword, tt.newPassword)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantField != "" {
					var verr *ValidationError
					require.ErrorAs(t, err, &verr)
					assert.Equal(t, tt.wantField, verr.Field)
				}
				assert.Equal(t, 0, mockRepo.UpdatePasswordCalls)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, 1, mockRepo.UpdatePasswordCalls)
			assert.True(t, checkPassword(mockRepo.Users[1].Password, tt.newPassword))
			assert.True(t, mockStore.Tokens["t1"].IsRevoked, "tokens are revoked after a change")
		})
	}
}

func TestHashPassword_LongInput(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'a'
	}
	password := string(long)

	hashed, err := hashPassword(password, testConfig().Security.BcryptCost)
	require.NoError(t, err)
	assert.True(t, checkPassword(hashed, password))
	assert.False(t, checkPassword(hashed, password[:100]), "bytes past 72 still count")
}

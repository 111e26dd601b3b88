package auth

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/auth/dto"
)

type UseCase interface {
	Login(ctx context.Context, email, password string) (*dto.LoginResult, error)
	// ForgotPassword mails a one-time code. Unknown emails succeed silently.
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input *dto.ResetPasswordInput) error
}

// OTPStore keeps one pending reset code per email.
type OTPStore interface {
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	// Consume deletes the code and reports whether it matched.
	Consume(ctx context.Context, email, code string) (bool, error)
}

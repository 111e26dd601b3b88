package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	"github.com/fekuna/omnipos-warehouse-service/internal/audit"
	"github.com/fekuna/omnipos-warehouse-service/internal/auth"
	"github.com/fekuna/omnipos-warehouse-service/internal/auth/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/i18n"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/mailer"
	"github.com/fekuna/omnipos-warehouse-service/internal/user"
	userUseCase "github.com/fekuna/omnipos-warehouse-service/internal/user/usecase"
	"go.uber.org/zap"
)

var errBadCredentials = apperror.Unauthorized("invalid email or password")
var errBadCode = apperror.Unauthorized("invalid or expired reset code")

type Translator interface {
	T(lang, messageID string, data map[string]interface{}) string
}

type Config struct {
	OTPTTL   time.Duration
	Language string
}

type authUseCase struct {
	users      user.Repository
	tokens     *auth.TokenManager
	otps       auth.OTPStore
	mailer     mailer.Mailer
	translator Translator
	audit      audit.Recorder
	cfg        Config
	logger     logger.ZapLogger
}

func NewAuthUseCase(
	users user.Repository,
	tokens *auth.TokenManager,
	otps auth.OTPStore,
	m mailer.Mailer,
	translator Translator,
	auditor audit.Recorder,
	cfg Config,
	log logger.ZapLogger,
) auth.UseCase {
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 5 * time.Minute
	}
	return &authUseCase{
		users:      users,
		tokens:     tokens,
		otps:       otps,
		mailer:     m,
		translator: translator,
		audit:      auditor,
		cfg:        cfg,
		logger:     log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (uc *authUseCase) Login(ctx context.Context, email, password string) (*dto.LoginResult, error) {
	u, err := uc.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive || !auth.CheckPassword(u.PasswordHash, password) {
		return nil, errBadCredentials
	}

	token, expiresAt, err := uc.tokens.Generate(u)
	if err != nil {
		return nil, err
	}

	ctx = auth.WithUser(ctx, &auth.UserContext{UserID: u.ID, Role: u.Role, WarehouseID: u.WarehouseID})
	uc.audit.Record(ctx, model.AuditLogin, audit.EntityUser, u.ID, nil)

	return &dto.LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
	}, nil
}

func (uc *authUseCase) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	u, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil || !u.IsActive {
		uc.logger.Debug("password reset requested for unknown account")
		return nil
	}

	code, err := newOTP()
	if err != nil {
		return err
	}
	if err := uc.otps.Save(ctx, email, code, uc.cfg.OTPTTL); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	data := map[string]interface{}{
		"Name":    u.FullName,
		"Code":    code,
		"Minutes": int(uc.cfg.OTPTTL.Minutes()),
	}
	subject := uc.translator.T(uc.cfg.Language, i18n.MsgPasswordResetTitle, data)
	body := uc.translator.T(uc.cfg.Language, i18n.MsgPasswordResetBody, data)
	if err := uc.mailer.Send(ctx, u.Email, subject, body); err != nil {
		return fmt.Errorf("failed to send reset code: %w", err)
	}

	uc.logger.Info("password reset code sent", zap.String("user_id", u.ID))
	return nil
}

func (uc *authUseCase) ResetPassword(ctx context.Context, input *dto.ResetPasswordInput) error {
	if err := userUseCase.ValidatePassword(input.NewPassword); err != nil {
		return err
	}

	email := normalizeEmail(input.Email)
	ok, err := uc.otps.Consume(ctx, email, strings.TrimSpace(input.OTPCode))
	if err != nil {
		return err
	}
	if !ok {
		return errBadCode
	}

	u, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return errBadCode
	}

	hash, err := auth.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	if err := uc.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}

	ctx = auth.WithUser(ctx, &auth.UserContext{UserID: u.ID, Role: u.Role, WarehouseID: u.WarehouseID})
	uc.audit.Record(ctx, model.AuditPasswordReset, audit.EntityUser, u.ID, nil)
	return nil
}

func newOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

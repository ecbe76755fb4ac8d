package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/sofs91/InspectWise3.0/internal/domains"
	"github.com/sofs91/InspectWise3.0/internal/storage"
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
	resetTTL   = 30 * time.Minute

	minPasswordLength = 6

	tokenAccess  = "access"
	tokenRefresh = "refresh"
	tokenReset   = "reset"
)

type AuthService struct {
	provider AuthProvider
	secret   string
	resets   ResetSender
	now      func() time.Time
}

type AuthProvider interface {
	SaveUser(ctx context.Context, passHash string, user domains.Registration) (domains.UserProfile, error)
	GetUserByEmail(ctx context.Context, email string) (domains.Account, error)
	GetUserByID(ctx context.Context, id string) (domains.Account, error)
	UpdatePassword(ctx context.Context, id string, passHash string) error
}

// ResetSender delivers password reset tokens to users.
type ResetSender interface {
	SendReset(ctx context.Context, email, token string) error
}

// LogResetSender writes reset tokens to the log.
type LogResetSender struct{}

func (LogResetSender) SendReset(_ context.Context, email, token string) error {
	slog.Info("password reset requested", "email", email, "token", token)
	return nil
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func NewAuthService(provider AuthProvider, secret string, resets ResetSender) *AuthService {
	if resets == nil {
		resets = LogResetSender{}
	}
	return &AuthService{
		provider: provider,
		secret:   secret,
		resets:   resets,
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, user domains.Registration) (domains.UserProfile, error) {
	user.Email = strings.TrimSpace(user.Email)
	user.FullName = strings.TrimSpace(user.FullName)
	if _, err := mail.ParseAddress(user.Email); err != nil {
		return domains.UserProfile{}, invalid("email is invalid")
	}
	if len(user.Password) < minPasswordLength {
		return domains.UserProfile{}, invalid("password must be at least %d characters", minPasswordLength)
	}
	if user.FullName == "" {
		return domains.UserProfile{}, invalid("full name is required")
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("create password hash failed", "err", err)
		return domains.UserProfile{}, err
	}

	profile, err := s.provider.SaveUser(ctx, string(passHash), user)
	if err != nil {
		slog.Error("save user failed", "email", user.Email, "err", err)
		return domains.UserProfile{}, err
	}
	return profile, nil
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (Tokens, error) {
	account, err := s.provider.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, storage.ErrNotFound) {
		return Tokens{}, storage.ErrUserNotFound
	}
	if err != nil {
		slog.Error("fetch user failed", "err", err)
		return Tokens{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PassHash), []byte(password)); err != nil {
		return Tokens{}, ErrPasswordIncorrect
	}
	return s.GenerateTokens(account.UserProfile)
}

func (s *AuthService) GenerateTokens(user domains.UserProfile) (Tokens, error) {
	now := s.now()
	access, err := s.sign(jwt.MapClaims{
		"sub":  user.ID,
		"exp":  now.Add(accessTTL).Unix(),
		"type": tokenAccess,
	})
	if err != nil {
		return Tokens{}, err
	}
	refresh, err := s.sign(jwt.MapClaims{
		"sub":  user.ID,
		"exp":  now.Add(refreshTTL).Unix(),
		"type": tokenRefresh,
	})
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	sub, _, err := s.parse(refreshToken, tokenRefresh)
	if err != nil {
		return Tokens{}, err
	}
	account, err := s.provider.GetUserByID(ctx, sub)
	if errors.Is(err, storage.ErrNotFound) {
		return Tokens{}, storage.ErrUserNotFound
	}
	if err != nil {
		return Tokens{}, err
	}
	return s.GenerateTokens(account.UserProfile)
}

// Authenticate returns the user id carried by a valid access token.
func (s *AuthService) Authenticate(accessToken string) (string, error) {
	sub, _, err := s.parse(accessToken, tokenAccess)
	return sub, err
}

func (s *AuthService) Me(ctx context.Context, userID string) (domains.UserProfile, error) {
	account, err := s.provider.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return domains.UserProfile{}, storage.ErrUserNotFound
	}
	if err != nil {
		return domains.UserProfile{}, err
	}
	return account.UserProfile, nil
}

// RequestPasswordReset sends a reset token when the email is known. Unknown
// emails succeed silently.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	account, err := s.provider.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, storage.ErrNotFound) {
		slog.Info("password reset for unknown email", "email", email)
		return nil
	}
	if err != nil {
		return err
	}
	token, err := s.sign(jwt.MapClaims{
		"sub":  account.ID,
		"exp":  s.now().Add(resetTTL).Unix(),
		"type": tokenReset,
		"fp":   fingerprint(account.PassHash),
	})
	if err != nil {
		return err
	}
	return s.resets.SendReset(ctx, account.Email, token)
}

// ResetPassword sets a new password. A token stops working once the password it was issued for changes.
func (s *AuthService) ResetPassword(ctx context.Context, token string, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return invalid("password must be at least %d characters", minPasswordLength)
	}
	sub, claims, err := s.parse(token, tokenReset)
	if err != nil {
		return err
	}
	account, err := s.provider.GetUserByID(ctx, sub)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrTokenIncorrect
	}
	if err != nil {
		return err
	}
	if fp, _ := claims["fp"].(string); fp != fingerprint(account.PassHash) {
		return ErrTokenIncorrect
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.provider.UpdatePassword(ctx, account.ID, string(passHash)); err != nil {
		return err
	}
	slog.Info("password reset", "user_id", account.ID)
	return nil
}

func (s *AuthService) sign(claims jwt.MapClaims) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func (s *AuthService) parse(raw string, wantType string) (string, jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return "", nil, ErrTokenIncorrect
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["type"] != wantType {
		return "", nil, ErrTokenIncorrect
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", nil, ErrTokenIncorrect
	}
	return sub, claims, nil
}

func fingerprint(passHash string) string {
	sum := sha256.Sum256([]byte(passHash))
	return hex.EncodeToString(sum[:8])
}

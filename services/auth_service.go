package services

import (
	"context"
	"crypto/rand"
	"io"
	"math/big"
	"strings"
	"sync"
	"time"

	"salescheck/constants"
	apperrors "salescheck/errors"
	"salescheck/models"
	"salescheck/services/logger"
	"salescheck/store"
	"salescheck/validator"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
)

// IdentityProvider xác thực người dùng và cung cấp Session cho mỗi request
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password, displayName string) (*AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)
	SignInWithGoogle(ctx context.Context, idToken string) (*AuthResult, error)
	SignOut(ctx context.Context, token string) error
	SendPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	UpdateProfile(ctx context.Context, session models.Session, displayName string, avatar io.Reader) (*models.User, error)
	CurrentUser(ctx context.Context, session models.Session) (*models.User, error)
	// Authenticate trả về session ẩn danh kèm lỗi khi token không hợp lệ
	Authenticate(ctx context.Context, token string) (models.Session, error)
	Subscribe(listener func(models.SessionEvent)) (unsubscribe func())
}

type AuthResult struct {
	User        *models.User
	AccessToken string
	Session     models.Session
}

// GoogleVerifier kiểm tra Google ID token, mặc định là idtoken.Validate
type GoogleVerifier func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

type AuthOptions struct {
	Users          store.UserStore
	Tokens         *TokenManager
	Redis          *redis.Client
	Mailer         Mailer
	Avatars        AvatarUploader
	GoogleClientID string
	GoogleVerifier GoogleVerifier
	AdminEmails    []string
	Logger         logger.Logger
}

// LocalIdentityProvider lưu tài khoản trong UserStore và cấp JWT
type LocalIdentityProvider struct {
	users          store.UserStore
	tokens         *TokenManager
	rdb            *redis.Client
	mailer         Mailer
	avatars        AvatarUploader
	googleClientID string
	verifyGoogle   GoogleVerifier
	adminEmails    map[string]bool
	logger         logger.Logger

	mu        sync.RWMutex
	listeners map[int]func(models.SessionEvent)
	nextID    int
	revoked   map[string]time.Time
}

func NewLocalIdentityProvider(opts AuthOptions) *LocalIdentityProvider {
	p := &LocalIdentityProvider{
		users:          opts.Users,
		tokens:         opts.Tokens,
		rdb:            opts.Redis,
		mailer:         opts.Mailer,
		avatars:        opts.Avatars,
		googleClientID: opts.GoogleClientID,
		verifyGoogle:   opts.GoogleVerifier,
		adminEmails:    make(map[string]bool),
		logger:         opts.Logger,
		listeners:      make(map[int]func(models.SessionEvent)),
		revoked:        make(map[string]time.Time),
	}
	for _, e := range opts.AdminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			p.adminEmails[e] = true
		}
	}
	if p.verifyGoogle == nil {
		p.verifyGoogle = idtoken.Validate
	}
	if p.logger == nil {
		p.logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	if p.mailer == nil {
		p.mailer = LogMailer{Logger: p.logger}
	}
	return p
}

func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

func generateVerificationCode() (string, error) {
	code := ""

	for i := 0; i < 6; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		code += n.String()
	}

	return code, nil
}

func (p *LocalIdentityProvider) isAdmin(u *models.User) bool {
	return u.IsAdmin || p.adminEmails[strings.ToLower(u.Email)]
}

func (p *LocalIdentityProvider) sessionFor(u *models.User, admin bool) models.Session {
	return models.NewSession(models.Identity{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.Name,
	}, admin)
}

func (p *LocalIdentityProvider) issue(u *models.User) (*AuthResult, error) {
	admin := p.isAdmin(u)
	token, _, err := p.tokens.GenerateToken(UserInfo{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Admin:  admin,
	})
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to issue token", err)
	}
	p.emit(models.SessionEvent{UserID: u.ID, Kind: models.SessionSignedIn})
	return &AuthResult{User: u, AccessToken: token, Session: p.sessionFor(u, admin)}, nil
}

func (p *LocalIdentityProvider) SignUp(ctx context.Context, email, password, displayName string) (*AuthResult, error) {
	if err := validator.ValidateSignUp(email, password, displayName); err != nil {
		return nil, err
	}
	hashed, err := HashPassword(password)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to hash password", err)
	}

	user := &models.User{
		Email:    email,
		Password: hashed,
		Name:     strings.TrimSpace(displayName),
	}
	if err := p.users.CreateUser(ctx, user); err != nil {
		if apperrors.Is(err, apperrors.ErrUserAlreadyExists) {
			return nil, apperrors.NewAppError(apperrors.ErrCodeUserExists, "Email already registered", err)
		}
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to create user", err)
	}
	p.logger.Info("user %s signed up", user.ID)
	return p.issue(user)
}

func (p *LocalIdentityProvider) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	invalid := apperrors.NewAppError(apperrors.ErrCodeInvalidCredentials, "Invalid email or password", apperrors.ErrInvalidPassword)

	user, err := p.users.GetUserByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, invalid
		}
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to load user", err)
	}
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, invalid
	}
	return p.issue(user)
}

func (p *LocalIdentityProvider) SignInWithGoogle(ctx context.Context, idToken string) (*AuthResult, error) {
	payload, err := p.verifyGoogle(ctx, idToken, p.googleClientID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Invalid Google token", err)
	}
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	if email == "" {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Google token has no email", nil)
	}

	user, err := p.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if user.GoogleID == "" {
			user.GoogleID = payload.Subject
			if user.Avatar == "" {
				user.Avatar = picture
			}
			if err := p.users.UpdateUser(ctx, user); err != nil {
				return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to link Google account", err)
			}
		}
	case apperrors.Is(err, apperrors.ErrUserNotFound):
		if name == "" {
			name = strings.Split(email, "@")[0]
		}
		user = &models.User{Email: email, Name: name, GoogleID: payload.Subject, Avatar: picture}
		if err := p.users.CreateUser(ctx, user); err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to create user", err)
		}
	default:
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to load user", err)
	}
	return p.issue(user)
}

func (p *LocalIdentityProvider) SignOut(ctx context.Context, token string) error {
	claims, err := p.tokens.ParseToken(token)
	if err != nil {
		return err
	}
	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	if ttl <= 0 {
		return nil
	}

	if p.rdb != nil {
		if err := p.rdb.Set(ctx, constants.RevokedTokenKeyPrefix+claims.Id, "1", ttl).Err(); err != nil {
			return apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to sign out", err)
		}
	} else {
		p.mu.Lock()
		p.revoked[claims.Id] = time.Now().Add(ttl)
		p.mu.Unlock()
	}

	p.emit(models.SessionEvent{UserID: claims.UserInfo.UserID, Kind: models.SessionSignedOut})
	return nil
}

func (p *LocalIdentityProvider) isRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	if p.rdb != nil {
		n, err := p.rdb.Exists(ctx, constants.RevokedTokenKeyPrefix+jti).Result()
		return n > 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	exp, ok := p.revoked[jti]
	if ok && time.Now().After(exp) {
		delete(p.revoked, jti)
		return false, nil
	}
	return ok, nil
}

func (p *LocalIdentityProvider) Authenticate(ctx context.Context, token string) (models.Session, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return models.AnonymousSession(), apperrors.NewAppError(apperrors.ErrCodeUnauthorized, "Missing token", apperrors.ErrUnauthorized)
	}
	claims, err := p.tokens.ParseToken(token)
	if err != nil {
		return models.AnonymousSession(), err
	}
	revoked, err := p.isRevoked(ctx, claims.Id)
	if err != nil {
		p.logger.Error("check revoked token: %v", err)
		return models.AnonymousSession(), apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to check token", err)
	}
	if revoked {
		return models.AnonymousSession(), apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Token revoked", nil)
	}

	info := claims.UserInfo
	return models.NewSession(models.Identity{
		ID:          info.UserID,
		Email:       info.Email,
		DisplayName: info.Name,
	}, info.Admin), nil
}

func (p *LocalIdentityProvider) SendPasswordReset(ctx context.Context, email string) error {
	user, err := p.users.GetUserByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			// không tiết lộ email có tồn tại hay không
			p.logger.Info("password reset requested for unknown email")
			return nil
		}
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to load user", err)
	}

	code, err := generateVerificationCode()
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to generate code", err)
	}
	user.Code = code
	user.CodeCreatedAt = time.Now()
	if err := p.users.UpdateUser(ctx, user); err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to save code", err)
	}

	if err := p.mailer.SendPasswordReset(ctx, user.Email, code); err != nil {
		p.logger.Error("send reset email to %s: %v", user.Email, err)
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to send email", err)
	}
	return nil
}

func (p *LocalIdentityProvider) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := validator.ValidatePassword(newPassword); err != nil {
		return err
	}
	user, err := p.users.GetUserByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.NewAppError(apperrors.ErrCodeInvalidCode, "Invalid code", err)
		}
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to load user", err)
	}
	if user.Code == "" || user.Code != code {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidCode, "Invalid code", nil)
	}
	if time.Since(user.CodeCreatedAt) > constants.PasswordResetCodeTTL {
		return apperrors.NewAppError(apperrors.ErrCodeExpiredCode, "Code expired", nil)
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to hash password", err)
	}
	user.Password = hashed
	user.Code = ""
	user.CodeCreatedAt = time.Time{}
	if err := p.users.UpdateUser(ctx, user); err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to update password", err)
	}
	return nil
}

func (p *LocalIdentityProvider) CurrentUser(ctx context.Context, session models.Session) (*models.User, error) {
	if !session.SignedIn() {
		return nil, unauthorized()
	}
	user, err := p.users.GetUserByID(ctx, session.User.ID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrCodeUserNotFound, "User not found", err)
		}
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to load user", err)
	}
	return user, nil
}

func (p *LocalIdentityProvider) UpdateProfile(ctx context.Context, session models.Session, displayName string, avatar io.Reader) (*models.User, error) {
	user, err := p.CurrentUser(ctx, session)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(displayName); name != "" {
		user.Name = name
	}
	if avatar != nil {
		if p.avatars == nil {
			return nil, apperrors.NewAppError(apperrors.ErrCodeValidation, "Avatar upload is not available", nil)
		}
		url, err := p.avatars.UploadAvatar(ctx, user.ID, avatar)
		if err != nil {
			p.logger.Error("upload avatar for %s: %v", user.ID, err)
			return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to upload avatar", err)
		}
		user.Avatar = url
	}

	if err := p.users.UpdateUser(ctx, user); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Failed to update profile", err)
	}
	p.emit(models.SessionEvent{UserID: user.ID, Kind: models.SessionProfileUpdated})
	return user, nil
}

func (p *LocalIdentityProvider) Subscribe(listener func(models.SessionEvent)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = listener
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *LocalIdentityProvider) emit(event models.SessionEvent) {
	p.mu.RLock()
	listeners := make([]func(models.SessionEvent), 0, len(p.listeners))
	for _, l := range p.listeners {
		listeners = append(listeners, l)
	}
	p.mu.RUnlock()

	for _, l := range listeners {
		l(event)
	}
}

var _ IdentityProvider = (*LocalIdentityProvider)(nil)

package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/training-crm-api/internal/models"
	appErrors "github.com/noah-isme/training-crm-api/pkg/errors"
)

type sessionRepository interface {
	Get(ctx context.Context) *models.Session
	Save(ctx context.Context, session models.Session) error
	Clear(ctx context.Context) error
}

// DirectorCredential is the fixed privileged login. It never appears in the staff collection.
type DirectorCredential struct {
	Email string
	Code  string
	Name  string
}

func (d DirectorCredential) account() models.AccountInfo {
	name := d.Name
	if name == "" {
		name = string(models.RoleDirector)
	}
	return models.AccountInfo{ID: models.DirectorAccountID, Name: name, Email: d.Email, Role: models.RoleDirector}
}

// AuthConfig defines configuration for access tokens.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
}

// AuthService implements the two-state sign-in flow. The persisted session is
// authoritative: a token is honoured only while the session names its account.
type AuthService struct {
	staff     *EntityStore[models.StaffAccount]
	sessions  sessionRepository
	director  DirectorCredential
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time

	compareCode     func(hash, code []byte) error
	placeholderOnce sync.Once
	placeholder     []byte
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(staff *EntityStore[models.StaffAccount], sessions sessionRepository, director DirectorCredential, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 12 * time.Hour
	}
	return &AuthService{
		staff:     staff,
		sessions:  sessions,
		director:  director,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       func() time.Time { return time.Now().UTC() },

		compareCode: bcrypt.CompareHashAndPassword,
	}
}

// Login authenticates as the Director or a staff account and persists the session.
// Unknown emails and wrong codes fail identically.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	account, ok := s.matchCredential(ctx, req)
	if !ok {
		s.logger.Info("login rejected")
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	issuedAt := s.now()
	if err := s.sessions.Save(ctx, models.Session{Account: account, SignedInAt: issuedAt}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}

	token, err := s.generateAccessToken(account, issuedAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	s.logger.Info("login succeeded", zap.String("account_id", account.ID), zap.String("role", string(account.Role)))
	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:    issuedAt,
		Account:     account,
	}, nil
}

func (s *AuthService) matchCredential(ctx context.Context, req models.LoginRequest) (models.AccountInfo, bool) {
	if s.director.Email != "" && req.Email == s.director.Email && req.Code == s.director.Code {
		return s.director.account(), true
	}

	email := normaliseEmail(req.Email)
	account, found := s.staff.Find(ctx, func(a models.StaffAccount) bool {
		return normaliseEmail(a.Email) == email
	})
	if !found {
		// Unknown emails cost one bcrypt comparison, the same as a wrong code.
		_ = s.compareCode(s.placeholderHash(), []byte(req.Code))
		return models.AccountInfo{}, false
	}
	if err := s.compareCode([]byte(account.CodeHash), []byte(req.Code)); err != nil {
		return models.AccountInfo{}, false
	}
	return account.Info(), true
}

// placeholderHash is a hash of no real code at the cost staff codes are stored with.
func (s *AuthService) placeholderHash() []byte {
	s.placeholderOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("placeholder-access-code"), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Warn("failed to build placeholder hash", zap.Error(err))
			return
		}
		s.placeholder = hash
	})
	return s.placeholder
}

// Session restores the persisted session.
func (s *AuthService) Session(ctx context.Context) (*models.Session, error) {
	session := s.sessions.Get(ctx)
	if session == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "not signed in")
	}
	return session, nil
}

// Logout clears the persisted session, which also invalidates every issued token.
func (s *AuthService) Logout(ctx context.Context, accountID string) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear session")
	}
	s.logger.Info("logout", zap.String("account_id", accountID))
	return nil
}

// Authenticate validates a bearer token against the signing key and the persisted session.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.AccountInfo, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	session := s.sessions.Get(ctx)
	if session == nil || session.Account.ID != claims.AccountID {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session has ended")
	}
	if session.Account.Role != models.RoleDirector {
		if _, err := s.staff.Get(ctx, session.Account.ID); err != nil {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "account no longer exists")
		}
	}
	account := session.Account
	return &account, nil
}

// UpdateProfile edits the signed-in account's name or email. Staff changes are
// written back to the staff collection. The Director login credential itself
// stays as configured.
func (s *AuthService) UpdateProfile(ctx context.Context, accountID string, req models.UpdateProfileRequest) (*models.AccountInfo, error) {
	req.Name = trimmedPtr(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	session := s.sessions.Get(ctx)
	if session == nil || session.Account.ID != accountID {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session has ended")
	}

	account := session.Account
	if req.Name != nil {
		account.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		account.Email = strings.TrimSpace(*req.Email)
	}

	if account.Role != models.RoleDirector {
		account.Email = normaliseEmail(account.Email)
		if account.Email == normaliseEmail(s.director.Email) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email is already registered")
		}
		if _, err := s.staff.Update(ctx, accountID, func(a *models.StaffAccount, items []models.StaffAccount) error {
			for _, other := range items {
				if other.ID != accountID && normaliseEmail(other.Email) == account.Email {
					return appErrors.Clone(appErrors.ErrConflict, "email is already registered")
				}
			}
			a.Name = account.Name
			a.Email = account.Email
			return nil
		}); err != nil {
			return nil, notFoundAs(err, "staff account not found")
		}
	}

	session.Account = account
	if err := s.sessions.Save(ctx, *session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}
	return &account, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) generateAccessToken(account models.AccountInfo, issuedAt time.Time) (string, error) {
	claims := &models.JWTClaims{
		AccountID: account.ID,
		Role:      account.Role,
		Email:     account.Email,
		Name:      account.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   account.ID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.AccessTokenSecret))
}

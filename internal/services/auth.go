package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/learnpath-backend/internal/data/repos"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/pkg/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/apierr"
	"github.com/yungbote/learnpath-backend/internal/platform/ctxutil"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

// ErrTokenExpired is returned by SetContextFromToken for a well-formed but expired access token.
var ErrTokenExpired = errors.New("token expired")

type SignupInput struct {
	FirstName string `json:"firstName" validate:"required,min=3"`
	LastName  string `json:"lastName" validate:"required,min=3"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

type TokenPair struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    int64       `json:"expiresIn"`
	User         *types.User `json:"user"`
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*types.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	BootstrapAdmin(ctx context.Context, email, password string) error
	AccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	bcryptCost    int
	now           func() time.Time
}

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func NewAuthService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           baseLog.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  []byte(jwtSecretKey),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		bcryptCost:    bcrypt.DefaultCost,
		now:           time.Now,
	}
}

func (as *authService) AccessTTL() time.Duration { return as.accessTTL }

func (as *authService) Signup(ctx context.Context, in SignupInput) (*types.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := Validator().Struct(in); err != nil {
		return nil, validationError(err)
	}

	exists, err := as.userRepo.EmailExists(dbctx.Of(ctx), in.Email)
	if err != nil {
		return nil, apierr.Internal("signup_failed", fmt.Errorf("check email: %w", err))
	}
	if exists {
		return nil, &apierr.Error{Status: http.StatusConflict, Code: "email_taken", Message: "Email is already taken"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), as.bcryptCost)
	if err != nil {
		return nil, apierr.Internal("signup_failed", fmt.Errorf("hash password: %w", err))
	}
	u := &types.User{
		Email:     in.Email,
		Password:  string(hash),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      types.RoleUser,
	}
	if _, err := as.userRepo.Create(dbctx.Of(ctx), []*types.User{u}); err != nil {
		return nil, apierr.Internal("signup_failed", fmt.Errorf("create user: %w", err))
	}
	as.log.Info("User signed up", "user_id", u.ID)
	return u, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, &apierr.Error{Status: http.StatusBadRequest, Code: "invalid_request", Message: "Email and password are required"}
	}
	users, err := as.userRepo.GetByEmails(dbctx.Of(ctx), []string{email})
	if err != nil {
		return nil, apierr.Internal("login_failed", fmt.Errorf("load user: %w", err))
	}
	invalid := apierr.Forbidden("invalid_credentials", "Invalid email or password")
	if len(users) == 0 {
		return nil, invalid
	}
	u := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, invalid
	}

	var pair *TokenPair
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := as.issue(dbctx.Context{Ctx: ctx, Tx: tx}, u)
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		return nil, apierr.Internal("login_failed", err)
	}
	return pair, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, &apierr.Error{Status: http.StatusBadRequest, Code: "invalid_request", Message: "Refresh token is required"}
	}
	invalid := &apierr.Error{Status: http.StatusUnauthorized, Code: "invalid_refresh_token", Message: "Invalid or expired refresh token"}

	var pair *TokenPair
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		found, err := as.userTokenRepo.GetByRefreshTokens(dbc, []string{refreshToken})
		if err != nil {
			return fmt.Errorf("load refresh token: %w", err)
		}
		if len(found) == 0 {
			return invalid
		}
		existing := found[0]
		if err := as.userTokenRepo.FullDeleteByTokens(dbc, []*types.UserToken{existing}); err != nil {
			return fmt.Errorf("delete old token: %w", err)
		}
		if existing.Expired(as.now()) {
			return invalid
		}
		users, err := as.userRepo.GetByIDs(dbc, []uuid.UUID{existing.UserID})
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if len(users) == 0 {
			return invalid
		}
		p, err := as.issue(dbc, users[0])
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			return nil, ae
		}
		return nil, apierr.Internal("refresh_failed", err)
	}
	return pair, nil
}

func (as *authService) Logout(ctx context.Context, accessToken string) error {
	found, err := as.userTokenRepo.GetByAccessTokens(dbctx.Of(ctx), []string{accessToken})
	if err != nil {
		return apierr.Internal("logout_failed", err)
	}
	if len(found) == 0 {
		return nil
	}
	if err := as.userTokenRepo.FullDeleteByTokens(dbctx.Of(ctx), found); err != nil {
		return apierr.Internal("logout_failed", err)
	}
	return nil
}

// SetContextFromToken verifies the access token and that its session row still exists.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return as.jwtSecretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ctx, ErrTokenExpired
		}
		return ctx, fmt.Errorf("parse token: %w", err)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid subject: %w", err)
	}
	found, err := as.userTokenRepo.GetByAccessTokens(dbctx.Of(ctx), []string{tokenString})
	if err != nil {
		return ctx, fmt.Errorf("load session: %w", err)
	}
	if len(found) == 0 || found[0].UserID != userID {
		return ctx, errors.New("token revoked")
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID:      userID,
		Role:        claims.Role,
		TokenString: tokenString,
	}), nil
}

func (as *authService) BootstrapAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}
	exists, err := as.userRepo.EmailExists(dbctx.Of(ctx), email)
	if err != nil {
		return fmt.Errorf("check admin email: %w", err)
	}
	if exists {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), as.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := &types.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Admin",
		LastName:  "Admin",
		Role:      types.RoleAdmin,
	}
	if _, err := as.userRepo.Create(dbctx.Of(ctx), []*types.User{admin}); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	as.log.Info("Bootstrapped admin user", "user_id", admin.ID)
	return nil
}

func (as *authService) issue(dbc dbctx.Context, u *types.User) (*TokenPair, error) {
	now := as.now()
	claims := accessClaims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			ID:        uuid.NewString(),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.jwtSecretKey)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	tok := &types.UserToken{
		UserID:       u.ID,
		AccessToken:  access,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    now.Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(dbc, []*types.UserToken{tok}); err != nil {
		return nil, fmt.Errorf("create user token: %w", err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    int64(as.accessTTL / time.Second),
		User:         u,
	}, nil
}

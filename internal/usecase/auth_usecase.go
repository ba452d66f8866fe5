package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"belezure-api/internal/converter"
	"belezure-api/internal/delivery/dto"
	"belezure-api/internal/domain/entity"
	"belezure-api/internal/domain/repository"
	"belezure-api/internal/service"
	"belezure-api/pkg/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const DefaultAvatarURL = "/images/default-avatar.png"

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUserNotFound       = errors.New("user not found")
	ErrTransient          = errors.New("temporarily unavailable, try again")
)

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshToken string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	identity            IdentityGateway
	userRepo            repository.UserRepository
	addressRepo         repository.AddressRepository
	providerProfileRepo repository.ProviderProfileRepository
	auditService        service.AuditService
	imageService        service.ImageService
	jwtService          *jwt.JWTService
	redisClient         *redis.Client
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	identity IdentityGateway,
	userRepo repository.UserRepository,
	addressRepo repository.AddressRepository,
	providerProfileRepo repository.ProviderProfileRepository,
	auditService service.AuditService,
	imageService service.ImageService,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
) AuthUsecase {
	return &authUsecase{
		db:                  db,
		log:                 log,
		identity:            identity,
		userRepo:            userRepo,
		addressRepo:         addressRepo,
		providerProfileRepo: providerProfileRepo,
		auditService:        auditService,
		imageService:        imageService,
		jwtService:          jwtService,
		redisClient:         redisClient,
	}
}

func accessTokenKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("access_token:%s:%s", userID.String(), tokenID)
}

func refreshTokenKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("refresh_token:%s:%s", userID.String(), tokenID)
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	userID, err := u.identity.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, asTransient(err)
	}
	if user == nil {
		// Identity without a profile: registration never completed
		u.log.Warnf("Login rejected for identity %s: no user profile", userID)
		return nil, ErrInvalidCredentials
	}

	tokens, err := u.issueTokens(ctx, user.ID, user.Email, string(user.UserType))
	if err != nil {
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, u.db, &user.ID, entity.AuditActionUserLogin, "user", user.ID.String(), nil); err != nil {
		u.log.Warnf("Failed to audit login for %s: %+v", user.ID, err)
	}

	return tokens, nil
}

func (u *authUsecase) issueTokens(ctx context.Context, userID uuid.UUID, email, userType string) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(userID, email, userType)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(userID, email, userType)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	pipe := u.redisClient.TxPipeline()
	pipe.Set(ctx, accessTokenKey(userID, accessTokenID), "valid", u.jwtService.GetAccessExpiry())
	pipe.Set(ctx, refreshTokenKey(userID, refreshTokenID), "valid", u.jwtService.GetRefreshExpiry())
	if _, err := pipe.Exec(ctx); err != nil {
		u.log.Warnf("Failed to store tokens in Redis: %+v", err)
		return nil, asTransient(err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
		UserID:       userID,
		UserType:     userType,
	}, nil
}

// Logout revokes the current access token and, when given, the caller's refresh token.
func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshToken string) error {
	keys := []string{accessTokenKey(userID, accessTokenID)}

	if refreshToken != "" {
		claims, err := u.jwtService.ValidateToken(refreshToken)
		if err != nil || claims.TokenType != jwt.RefreshToken || claims.UserID != userID {
			return ErrInvalidToken
		}
		keys = append(keys, refreshTokenKey(userID, claims.TokenID))
	}

	if err := u.redisClient.Del(ctx, keys...).Err(); err != nil {
		u.log.Warnf("Failed to delete tokens for %s: %+v", userID, err)
		return asTransient(err)
	}

	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	// Del doubles as the existence check so a refresh token is single use
	deleted, err := u.redisClient.Del(ctx, refreshTokenKey(claims.UserID, claims.TokenID)).Result()
	if err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, asTransient(err)
	}
	if deleted == 0 {
		return nil, ErrTokenRevoked
	}

	return u.issueTokens(ctx, claims.UserID, claims.Email, claims.UserType)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, asTransient(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	var address *entity.Address
	if user.AddressID != nil {
		address, err = u.addressRepo.FindByID(ctx, u.db, *user.AddressID)
		if err != nil {
			u.log.Warnf("Failed to find address %s: %+v", *user.AddressID, err)
			return nil, asTransient(err)
		}
	}

	var profile *entity.ProviderProfile
	if user.IsProvider() {
		profile, err = u.providerProfileRepo.FindByUserID(ctx, u.db, user.ID)
		if err != nil {
			u.log.Warnf("Failed to find provider profile %s: %+v", user.ID, err)
			return nil, asTransient(err)
		}
	}

	photoURL := u.imageService.GetImageURL(ctx, user.ProfilePhotoRef, DefaultAvatarURL)
	return converter.UserToResponse(user, address, profile, photoURL), nil
}

// IsTokenValid reports whether an access token id is still on the allow-list
func IsTokenValid(ctx context.Context, redisClient *redis.Client, userID uuid.UUID, tokenID string) (bool, error) {
	exists, err := redisClient.Exists(ctx, accessTokenKey(userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// isDuplicateKeyError checks if the error is a unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		return pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName))
	}
	// SQLite translates errors and drops the constraint name
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// asTransient turns a collaborator timeout into ErrTransient
func asTransient(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTransient
	}
	return err
}

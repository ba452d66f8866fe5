package usecase

import (
	"context"
	"errors"
	"strings"

	"belezure-api/internal/domain/entity"
	"belezure-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// IdentityGateway owns credentials. Accounts are committed on their own,
// outside any profile transaction.
type IdentityGateway interface {
	CreateAccount(ctx context.Context, email, password string) (uuid.UUID, error)
	SignIn(ctx context.Context, email, password string) (uuid.UUID, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

type identityGateway struct {
	db           *gorm.DB
	log          *logrus.Logger
	identityRepo repository.IdentityRepository
	cost         int
}

func NewIdentityGateway(db *gorm.DB, log *logrus.Logger, identityRepo repository.IdentityRepository) IdentityGateway {
	return &identityGateway{
		db:           db,
		log:          log,
		identityRepo: identityRepo,
		cost:         bcrypt.DefaultCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (g *identityGateway) CreateAccount(ctx context.Context, email, password string) (uuid.UUID, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), g.cost)
	if err != nil {
		g.log.Warnf("Failed to hash password: %+v", err)
		return uuid.Nil, err
	}

	identity := &entity.Identity{
		Email:        normalizeEmail(email),
		PasswordHash: string(hashedPassword),
	}

	if err := g.identityRepo.Create(ctx, g.db, identity); err != nil {
		if isDuplicateKeyError(err, "email") {
			return uuid.Nil, ErrEmailAlreadyExists
		}
		g.log.Warnf("Failed to create identity: %+v", err)
		return uuid.Nil, asTransient(err)
	}

	return identity.ID, nil
}

func (g *identityGateway) SignIn(ctx context.Context, email, password string) (uuid.UUID, error) {
	identity, err := g.identityRepo.FindByEmail(ctx, g.db, normalizeEmail(email))
	if err != nil {
		g.log.Warnf("Failed to find identity by email: %+v", err)
		return uuid.Nil, asTransient(err)
	}
	if identity == nil {
		return uuid.Nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			g.log.Warnf("Failed to compare password hash for %s: %+v", identity.ID, err)
		}
		return uuid.Nil, ErrInvalidCredentials
	}

	return identity.ID, nil
}

func (g *identityGateway) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if err := g.identityRepo.Delete(ctx, g.db, id); err != nil {
		g.log.Warnf("Failed to delete identity %s: %+v", id, err)
		return err
	}
	return nil
}

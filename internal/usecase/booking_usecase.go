package usecase

import (
	"context"
	"errors"
	"time"

	"belezure-api/internal/converter"
	"belezure-api/internal/delivery/dto"
	"belezure-api/internal/domain/entity"
	"belezure-api/internal/domain/repository"
	"belezure-api/internal/service"
	"belezure-api/pkg/session"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDateInPast      = errors.New("date must be today or later")
	ErrClientOnly      = errors.New("only clients can do this")
	ErrBookingNotOwned = errors.New("booking does not belong to you")
)

type BookingUsecase interface {
	GetBookingOptions(ctx context.Context, providerID uuid.UUID, date string) (*dto.BookingOptionsResponse, error)
	CreateBooking(ctx context.Context, sess session.Session, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	ListMyBookings(ctx context.Context, sess session.Session) (*dto.BookingListResponse, error)
	CancelBooking(ctx context.Context, sess session.Session, bookingID uuid.UUID) (*dto.BookingResponse, error)
}

type bookingUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	loc                 *time.Location
	availability        AvailabilityUsecase
	cache               SlotCache
	serviceRepo         repository.ServiceRepository
	userRepo            repository.UserRepository
	bookingRepo         repository.BookingRepository
	notificationService service.NotificationService
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	loc *time.Location,
	availability AvailabilityUsecase,
	cache SlotCache,
	serviceRepo repository.ServiceRepository,
	userRepo repository.UserRepository,
	bookingRepo repository.BookingRepository,
	notificationService service.NotificationService,
) BookingUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &bookingUsecase{
		db:                  db,
		log:                 log,
		loc:                 loc,
		availability:        availability,
		cache:               cache,
		serviceRepo:         serviceRepo,
		userRepo:            userRepo,
		bookingRepo:         bookingRepo,
		notificationService: notificationService,
	}
}

// checkDate accepts today or later in the business timezone
func (u *bookingUsecase) checkDate(date string) error {
	if !validDate(date) {
		return ErrInvalidDate
	}
	today := time.Now().In(u.loc).Format(entity.DateLayout)
	// YYYY-MM-DD compares lexically in calendar order
	if date < today {
		return ErrDateInPast
	}
	return nil
}

// GetBookingOptions lists the times a client can still pick. Booked times are not open.
func (u *bookingUsecase) GetBookingOptions(ctx context.Context, providerID uuid.UUID, date string) (*dto.BookingOptionsResponse, error) {
	if err := u.checkDate(date); err != nil {
		return nil, err
	}

	availability, err := u.availability.GetAvailability(ctx, providerID, date)
	if err != nil {
		return nil, err
	}

	return &dto.BookingOptionsResponse{
		ProviderID: providerID,
		Date:       date,
		Slots:      availability.Slots,
	}, nil
}

// CreateBooking claims the slot in Redis first, then books it in the database.
//
// Flow:
// 1. Validate date, service and client
// 2. Redis ClaimSlot (atomic); a taken answer is confirmed against the ledger
// 3. Ledger BookSlot (authoritative transaction)
// 4. If 3 fails -> compensate: restore the claim, or resync when the cache was stale
// 5. Send confirmation email
func (u *bookingUsecase) CreateBooking(ctx context.Context, sess session.Session, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	if !sess.IsClient() {
		return nil, ErrClientOnly
	}

	// Step 1: validation
	if err := u.checkDate(req.Date); err != nil {
		return nil, err
	}
	label, err := NormalizeSlot(req.Time)
	if err != nil {
		return nil, err
	}

	svc, err := u.serviceRepo.FindByID(ctx, u.db, req.ServiceID)
	if err != nil {
		u.log.Warnf("Failed to find service %s: %+v", req.ServiceID, err)
		return nil, asTransient(err)
	}
	if svc == nil || svc.ProviderID != req.ProviderID || !svc.Bookable() {
		return nil, ErrServiceNotFound
	}

	client, err := u.userRepo.FindByID(ctx, u.db, sess.UserID)
	if err != nil {
		u.log.Warnf("Failed to find client %s: %+v", sess.UserID, err)
		return nil, asTransient(err)
	}
	if client == nil {
		return nil, ErrUserNotFound
	}

	// Step 2: Redis claim
	claimed := false
	if u.cache != nil {
		result, err := u.cache.ClaimSlot(ctx, req.ProviderID, req.Date, label)
		switch {
		case err != nil:
			// Cache unavailable: the database still decides
			u.log.Warnf("Slot claim skipped for %s %s %s: %+v", req.ProviderID, req.Date, label, err)
		case result == service.ClaimTaken:
			// The set may be stale; only the ledger can refuse the slot
			open, err := u.availability.IsSlotOpen(ctx, req.ProviderID, req.Date, label)
			if err != nil {
				return nil, err
			}
			if !open {
				return nil, ErrSlotAlreadyTaken
			}
			u.log.Warnf("Slot cache refused open slot %s %s %s, resyncing", req.ProviderID, req.Date, label)
			if err := u.cache.SyncLedger(ctx, req.ProviderID, req.Date); err != nil {
				u.log.Warnf("Failed to resync slot cache for %s %s: %+v", req.ProviderID, req.Date, err)
			}
		case result == service.ClaimClaimed:
			claimed = true
		}
	}

	// Step 3: database
	booking, err := u.availability.BookSlot(ctx, BookSlotParams{
		ProviderID:  req.ProviderID,
		ClientID:    client.ID,
		ServiceID:   svc.ID,
		Date:        req.Date,
		Time:        label,
		ClientName:  client.Name,
		ServiceName: svc.Description,
	})
	if err != nil {
		if claimed {
			u.compensateClaim(req.ProviderID, req.Date, label, err)
		}
		return nil, err
	}

	// Step 5: notification
	u.notificationService.BookingConfirmed(ctx, booking, client.Email)

	return converter.BookingToResponse(booking), nil
}

// compensateClaim undoes a Redis claim after the database refused the booking.
func (u *bookingUsecase) compensateClaim(providerID uuid.UUID, date, label string, cause error) {
	syncCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if errors.Is(cause, ErrSlotAlreadyTaken) {
		// Database says taken, so the cached set was stale
		if err := u.cache.SyncLedger(syncCtx, providerID, date); err != nil {
			u.log.Warnf("Failed to resync slot cache for %s %s: %+v", providerID, date, err)
		}
		return
	}

	u.log.Errorf("Failed to book slot, compensating Redis: %+v", cause)
	if err := u.cache.RestoreSlot(syncCtx, providerID, date, label); err != nil {
		u.log.Errorf("CRITICAL: Failed to restore slot %s on %s %s after DB failure: %+v", label, providerID, date, err)
	}
}

func (u *bookingUsecase) ListMyBookings(ctx context.Context, sess session.Session) (*dto.BookingListResponse, error) {
	bookings, err := u.bookingRepo.FindByClientID(ctx, u.db, sess.UserID)
	if err != nil {
		u.log.Warnf("Failed to find bookings for client %s: %+v", sess.UserID, err)
		return nil, asTransient(err)
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}, nil
}

// CancelBooking lets a client cancel their own booking; the time becomes open again.
func (u *bookingUsecase) CancelBooking(ctx context.Context, sess session.Session, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	booking, err := u.bookingRepo.FindByID(ctx, u.db, bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, asTransient(err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if booking.ClientID != sess.UserID {
		return nil, ErrBookingNotOwned
	}

	cancelled, err := u.availability.CancelBooking(ctx, bookingID, sess.UserID)
	if err != nil {
		return nil, err
	}

	u.notificationService.BookingCancelled(ctx, cancelled, sess.Email)
	return converter.BookingToResponse(cancelled), nil
}

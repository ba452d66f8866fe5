package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"belezure-api/internal/converter"
	"belezure-api/internal/delivery/dto"
	"belezure-api/internal/domain/entity"
	"belezure-api/internal/domain/repository"
	"belezure-api/internal/service"
	"belezure-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const slotLayout = validator.TimeOfDayLayout

var (
	ErrInvalidDate             = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidSlot             = errors.New("invalid slot, use HH:MM")
	ErrDuplicateSlot           = errors.New("slot labels must be distinct")
	ErrSlotIndexOutOfRange     = errors.New("slot index out of range")
	ErrSlotBooked              = errors.New("slot has an active booking")
	ErrSlotAlreadyTaken        = errors.New("slot already taken")
	ErrVersionConflict         = errors.New("availability was changed by someone else, reload and try again")
	ErrBookingNotFound         = errors.New("booking not found")
	ErrBookingAlreadyCancelled = errors.New("booking is already cancelled")
)

// SlotCache is the Redis mirror of open slots. The ledger only needs to
// refresh it after a commit; the booking flow also claims through it.
type SlotCache interface {
	ClaimSlot(ctx context.Context, providerID uuid.UUID, date, label string) (service.ClaimResult, error)
	RestoreSlot(ctx context.Context, providerID uuid.UUID, date, label string) error
	SyncLedger(ctx context.Context, providerID uuid.UUID, date string) error
}

// BookSlotParams identifies the slot and carries the display names copied onto the booking.
type BookSlotParams struct {
	ProviderID  uuid.UUID
	ClientID    uuid.UUID
	ServiceID   uuid.UUID
	Date        string
	Time        string
	ClientName  string
	ServiceName string
}

type AvailabilityUsecase interface {
	GetAvailability(ctx context.Context, providerID uuid.UUID, date string) (*dto.AvailabilityResponse, error)
	// IsSlotOpen reads the ledger without locking it
	IsSlotOpen(ctx context.Context, providerID uuid.UUID, date, label string) (bool, error)
	SetSlots(ctx context.Context, providerID uuid.UUID, date string, req *dto.SetSlotsRequest) (*dto.AvailabilityResponse, error)
	RenameSlot(ctx context.Context, providerID uuid.UUID, date string, index int, req *dto.RenameSlotRequest) (*dto.AvailabilityResponse, error)
	BookSlot(ctx context.Context, params BookSlotParams) (*entity.Booking, error)
	CancelBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*entity.Booking, error)
}

type availabilityUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	ledgerRepo   repository.AvailabilityLedgerRepository
	bookingRepo  repository.BookingRepository
	auditService service.AuditService
	cache        SlotCache
}

// NewAvailabilityUsecase accepts a nil cache; the database alone is authoritative.
func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	ledgerRepo repository.AvailabilityLedgerRepository,
	bookingRepo repository.BookingRepository,
	auditService service.AuditService,
	cache SlotCache,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:           db,
		log:          log,
		ledgerRepo:   ledgerRepo,
		bookingRepo:  bookingRepo,
		auditService: auditService,
		cache:        cache,
	}
}

// GetAvailability returns the day's open slots and active bookings.
// A day never edited is empty at version 0.
func (u *availabilityUsecase) GetAvailability(ctx context.Context, providerID uuid.UUID, date string) (*dto.AvailabilityResponse, error) {
	if !validDate(date) {
		return nil, ErrInvalidDate
	}

	ledger, err := u.ledgerRepo.FindByProviderAndDate(ctx, u.db, providerID, date)
	if err != nil {
		u.log.Warnf("Failed to find ledger %s %s: %+v", providerID, date, err)
		return nil, asTransient(err)
	}
	if ledger == nil {
		return converter.LedgerToResponse(providerID, date, nil, nil), nil
	}

	bookings, err := u.bookingRepo.FindActiveByLedgerID(ctx, u.db, ledger.ID)
	if err != nil {
		u.log.Warnf("Failed to find bookings for ledger %s: %+v", ledger.ID, err)
		return nil, asTransient(err)
	}

	return converter.LedgerToResponse(providerID, date, ledger, bookings), nil
}

func (u *availabilityUsecase) IsSlotOpen(ctx context.Context, providerID uuid.UUID, date, label string) (bool, error) {
	ledger, err := u.ledgerRepo.FindByProviderAndDate(ctx, u.db, providerID, date)
	if err != nil {
		u.log.Warnf("Failed to find ledger %s %s: %+v", providerID, date, err)
		return false, asTransient(err)
	}
	return ledger != nil && ledger.HasSlot(label), nil
}

// SetSlots replaces the day's slot list. Bookings are left untouched.
func (u *availabilityUsecase) SetSlots(ctx context.Context, providerID uuid.UUID, date string, req *dto.SetSlotsRequest) (*dto.AvailabilityResponse, error) {
	return u.writeSlots(ctx, providerID, date, req.ExpectedVersion, func(current []string) ([]string, error) {
		return req.Slots, nil
	})
}

// RenameSlot edits one label in place, then the whole list is written under SetSlots rules.
func (u *availabilityUsecase) RenameSlot(ctx context.Context, providerID uuid.UUID, date string, index int, req *dto.RenameSlotRequest) (*dto.AvailabilityResponse, error) {
	return u.writeSlots(ctx, providerID, date, req.ExpectedVersion, func(current []string) ([]string, error) {
		if index < 0 || index >= len(current) {
			return nil, ErrSlotIndexOutOfRange
		}
		edited := slices.Clone(current)
		edited[index] = req.Label
		return edited, nil
	})
}

// writeSlots runs edit against the locked ledger row and persists the normalized result.
// An unchanged list is not written, so repeating a call leaves version alone.
func (u *availabilityUsecase) writeSlots(ctx context.Context, providerID uuid.UUID, date string, expectedVersion *int, edit func(current []string) ([]string, error)) (*dto.AvailabilityResponse, error) {
	if !validDate(date) {
		return nil, ErrInvalidDate
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	ledger, err := u.ledgerRepo.FindByProviderAndDateForUpdate(ctx, tx, providerID, date)
	if err != nil {
		u.log.Warnf("Failed to lock ledger %s %s: %+v", providerID, date, err)
		return nil, asTransient(err)
	}

	currentVersion := 0
	var current []string
	if ledger != nil {
		currentVersion = ledger.Version
		current = ledger.Slots
	}
	if expectedVersion != nil && *expectedVersion != currentVersion {
		return nil, ErrVersionConflict
	}

	edited, err := edit(current)
	if err != nil {
		return nil, err
	}
	slots, err := NormalizeSlots(edited)
	if err != nil {
		return nil, err
	}

	var bookings []entity.Booking
	if ledger != nil {
		bookings, err = u.bookingRepo.FindActiveByLedgerID(ctx, tx, ledger.ID)
		if err != nil {
			u.log.Warnf("Failed to find bookings for ledger %s: %+v", ledger.ID, err)
			return nil, asTransient(err)
		}
	}
	for _, b := range bookings {
		if slices.Contains(slots, b.Time) {
			return nil, fmt.Errorf("%w: %s", ErrSlotBooked, b.Time)
		}
	}

	if slices.Equal(slots, current) {
		return converter.LedgerToResponse(providerID, date, ledger, bookings), nil
	}

	if ledger == nil {
		ledger = &entity.AvailabilityLedger{
			ProviderID: providerID,
			Date:       date,
			Slots:      datatypes.JSONSlice[string](slots),
			Version:    1,
		}
		if err := u.ledgerRepo.Create(ctx, tx, ledger); err != nil {
			if isDuplicateKeyError(err, "idx_ledger_provider_date") {
				// Another session created the day first
				return nil, ErrVersionConflict
			}
			u.log.Warnf("Failed to create ledger %s %s: %+v", providerID, date, err)
			return nil, asTransient(err)
		}
	} else {
		rows, err := u.ledgerRepo.UpdateSlots(ctx, tx, ledger.ID, slots, ledger.Version)
		if err != nil {
			u.log.Warnf("Failed to update ledger %s: %+v", ledger.ID, err)
			return nil, asTransient(err)
		}
		if rows == 0 {
			return nil, ErrVersionConflict
		}
		ledger.Slots = datatypes.JSONSlice[string](slots)
		ledger.Version++
	}

	if err := u.auditService.LogUpdate(ctx, tx, &providerID, entity.AuditActionSlotsUpdate, "availability_ledger", ledger.ID.String(), current, slots); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, asTransient(err)
	}

	u.syncCache(providerID, date)
	return converter.LedgerToResponse(providerID, date, ledger, bookings), nil
}

// BookSlot moves a slot from open to booked in one transaction:
// lock the ledger row, check the slot is open, remove it with a versioned
// update and insert the booking.
func (u *availabilityUsecase) BookSlot(ctx context.Context, params BookSlotParams) (*entity.Booking, error) {
	if !validDate(params.Date) {
		return nil, ErrInvalidDate
	}
	label, err := NormalizeSlot(params.Time)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	ledger, err := u.ledgerRepo.FindByProviderAndDateForUpdate(ctx, tx, params.ProviderID, params.Date)
	if err != nil {
		u.log.Warnf("Failed to lock ledger %s %s: %+v", params.ProviderID, params.Date, err)
		return nil, asTransient(err)
	}
	if ledger == nil || !ledger.HasSlot(label) {
		return nil, ErrSlotAlreadyTaken
	}

	rows, err := u.ledgerRepo.UpdateSlots(ctx, tx, ledger.ID, ledger.RemoveSlot(label), ledger.Version)
	if err != nil {
		u.log.Warnf("Failed to update ledger %s: %+v", ledger.ID, err)
		return nil, asTransient(err)
	}
	if rows == 0 {
		return nil, ErrSlotAlreadyTaken
	}

	code, err := generateBookingCode(params.Date, rand.Reader)
	if err != nil {
		u.log.Warnf("Failed to generate booking code: %+v", err)
		return nil, err
	}

	booking := &entity.Booking{
		LedgerID:    ledger.ID,
		ProviderID:  params.ProviderID,
		ClientID:    params.ClientID,
		ServiceID:   params.ServiceID,
		Date:        params.Date,
		Time:        label,
		ClientName:  params.ClientName,
		ServiceName: params.ServiceName,
		Code:        code,
		Status:      entity.BookingStatusConfirmed,
	}
	if err := u.bookingRepo.Create(ctx, tx, booking); err != nil {
		if isDuplicateKeyError(err, "idx_bookings_active_slot") {
			return nil, ErrSlotAlreadyTaken
		}
		u.log.Warnf("Failed to insert booking: %+v", err)
		return nil, asTransient(err)
	}

	if err := u.auditService.LogCreate(ctx, tx, &params.ClientID, entity.AuditActionBookingCreate, "booking", booking.ID.String(), map[string]interface{}{
		"provider_id": params.ProviderID.String(),
		"date":        params.Date,
		"time":        label,
		"code":        booking.Code,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, asTransient(err)
	}

	u.syncCache(params.ProviderID, params.Date)
	u.log.Infof("Slot booked: booking=%s, provider=%s, date=%s, time=%s", booking.ID, params.ProviderID, params.Date, label)
	return booking, nil
}

// CancelBooking marks the booking cancelled and returns its time to the open list.
// The ledger row is locked before the booking row, same order as BookSlot.
func (u *availabilityUsecase) CancelBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*entity.Booking, error) {
	booking, err := u.bookingRepo.FindByID(ctx, u.db, bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, asTransient(err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if booking.IsCancelled() {
		return nil, ErrBookingAlreadyCancelled
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	ledger, err := u.ledgerRepo.FindByProviderAndDateForUpdate(ctx, tx, booking.ProviderID, booking.Date)
	if err != nil {
		u.log.Warnf("Failed to lock ledger %s %s: %+v", booking.ProviderID, booking.Date, err)
		return nil, asTransient(err)
	}

	rows, err := u.bookingRepo.CancelBooking(ctx, tx, booking.ID)
	if err != nil {
		u.log.Warnf("Failed to cancel booking %s: %+v", booking.ID, err)
		return nil, asTransient(err)
	}
	if rows == 0 {
		return nil, ErrBookingAlreadyCancelled
	}

	if ledger != nil && !ledger.HasSlot(booking.Time) {
		slots := append(slices.Clone([]string(ledger.Slots)), booking.Time)
		slices.Sort(slots)
		rows, err := u.ledgerRepo.UpdateSlots(ctx, tx, ledger.ID, slots, ledger.Version)
		if err != nil {
			u.log.Warnf("Failed to update ledger %s: %+v", ledger.ID, err)
			return nil, asTransient(err)
		}
		if rows == 0 {
			return nil, ErrVersionConflict
		}
	}

	if err := u.auditService.LogUpdate(ctx, tx, &actorID, entity.AuditActionBookingCancel, "booking", booking.ID.String(), string(entity.BookingStatusConfirmed), string(entity.BookingStatusCancelled)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, asTransient(err)
	}

	u.syncCache(booking.ProviderID, booking.Date)
	booking.Cancel()
	u.log.Infof("Booking cancelled: id=%s, provider=%s, date=%s, time=%s", booking.ID, booking.ProviderID, booking.Date, booking.Time)
	return booking, nil
}

// syncCache refreshes the Redis mirror after a commit. Failures only cost a cache miss.
func (u *availabilityUsecase) syncCache(providerID uuid.UUID, date string) {
	if u.cache == nil {
		return
	}
	syncCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := u.cache.SyncLedger(syncCtx, providerID, date); err != nil {
		u.log.Warnf("Failed to sync slot cache for %s %s (non-fatal): %+v", providerID, date, err)
	}
}

// NormalizeSlot parses a HH:MM label and renders it with a two digit hour.
func NormalizeSlot(label string) (string, error) {
	t, err := time.Parse(slotLayout, label)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlot, label)
	}
	return t.Format(slotLayout), nil
}

// NormalizeSlots validates every label, rejects duplicates and sorts ascending.
func NormalizeSlots(labels []string) ([]string, error) {
	slots := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		slot, err := NormalizeSlot(label)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[slot]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSlot, slot)
		}
		seen[slot] = struct{}{}
		slots = append(slots, slot)
	}
	// Zero-padded HH:MM sorts lexically in time order
	slices.Sort(slots)
	return slots, nil
}

func validDate(date string) bool {
	_, err := time.Parse(entity.DateLayout, date)
	return err == nil
}

// generateBookingCode generates a unique booking code: BK-YYYYMMDD-XXXXXX
func generateBookingCode(date string, random io.Reader) (string, error) {
	day, err := time.Parse(entity.DateLayout, date)
	dateStr := day.Format("20060102")
	if err != nil {
		dateStr = "00000000"
	}
	randomBytes := make([]byte, 3)
	if _, err := io.ReadFull(random, randomBytes); err != nil {
		return "", fmt.Errorf("read booking code suffix: %w", err)
	}
	return fmt.Sprintf("BK-%s-%06X", dateStr, randomBytes), nil
}

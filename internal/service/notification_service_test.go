package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"belezure-api/internal/domain/entity"
	"belezure-api/internal/repository"
	"belezure-api/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to      string
	subject string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject})
	return nil
}

func TestNotificationService_SendDayReminders(t *testing.T) {
	db := testutil.NewTestDB(t)
	mailer := &recordingMailer{}
	bookingRepo := repository.NewBookingRepository()
	svc := NewNotificationService(db, testutil.NewTestLogger(), mailer, bookingRepo, repository.NewUserRepository())
	ctx := context.Background()

	client := testutil.SeedUser(t, db, "Bia", entity.UserTypeClient)
	date := testutil.FutureDate(time.UTC, 1)

	active := &entity.Booking{LedgerID: uuid.New(), ProviderID: uuid.New(), ClientID: client.ID, ServiceID: uuid.New(),
		Date: date, Time: "10:00", ClientName: "Bia", ServiceName: "Manicure", Code: "BK-1", Status: entity.BookingStatusConfirmed}
	cancelled := &entity.Booking{LedgerID: uuid.New(), ProviderID: uuid.New(), ClientID: client.ID, ServiceID: uuid.New(),
		Date: date, Time: "11:00", ClientName: "Bia", ServiceName: "Pedicure", Code: "BK-2", Status: entity.BookingStatusCancelled}
	orphan := &entity.Booking{LedgerID: uuid.New(), ProviderID: uuid.New(), ClientID: uuid.New(), ServiceID: uuid.New(),
		Date: date, Time: "12:00", ClientName: "Ghost", ServiceName: "Corte", Code: "BK-3", Status: entity.BookingStatusConfirmed}
	for _, b := range []*entity.Booking{active, cancelled, orphan} {
		require.NoError(t, bookingRepo.Create(ctx, db, b))
	}

	sent, err := svc.SendDayReminders(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, client.Email, mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].subject, "Manicure")
}

func TestNotificationService_FailuresAreSwallowed(t *testing.T) {
	db := testutil.NewTestDB(t)
	mailer := &recordingMailer{fail: true}
	svc := NewNotificationService(db, testutil.NewTestLogger(), mailer, repository.NewBookingRepository(), repository.NewUserRepository())

	assert.NotPanics(t, func() {
		svc.BookingConfirmed(context.Background(), &entity.Booking{ID: uuid.New(), Code: "BK-1"}, "bia@example.com")
	})
}

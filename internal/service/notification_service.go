package service

import (
	"context"
	"fmt"

	"belezure-api/internal/domain/entity"
	"belezure-api/internal/domain/repository"
	"belezure-api/internal/infrastructure/mail"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NotificationService sends booking emails. Delivery failures are logged, never returned
// to the booking flow.
type NotificationService interface {
	BookingConfirmed(ctx context.Context, booking *entity.Booking, clientEmail string)
	BookingCancelled(ctx context.Context, booking *entity.Booking, clientEmail string)
	SendDayReminders(ctx context.Context, date string) (int, error)
}

type notificationService struct {
	db          *gorm.DB
	log         *logrus.Logger
	mailer      mail.Mailer
	bookingRepo repository.BookingRepository
	userRepo    repository.UserRepository
}

func NewNotificationService(db *gorm.DB, log *logrus.Logger, mailer mail.Mailer, bookingRepo repository.BookingRepository, userRepo repository.UserRepository) NotificationService {
	return &notificationService{
		db:          db,
		log:         log,
		mailer:      mailer,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
	}
}

func (s *notificationService) BookingConfirmed(ctx context.Context, booking *entity.Booking, clientEmail string) {
	subject := fmt.Sprintf("Agendamento confirmado - %s", booking.Code)
	body := fmt.Sprintf(`
		<p>Olá %s,</p>
		<p>Seu agendamento foi confirmado.</p>
		<ul>
			<li><strong>Serviço:</strong> %s</li>
			<li><strong>Data:</strong> %s</li>
			<li><strong>Horário:</strong> %s</li>
			<li><strong>Código:</strong> %s</li>
		</ul>
		<p>Equipe Belezure</p>
	`, booking.ClientName, booking.ServiceName, booking.Date, booking.Time, booking.Code)

	if err := s.mailer.Send(ctx, clientEmail, subject, body); err != nil {
		s.log.Warnf("Failed to send confirmation for booking %s: %+v", booking.ID, err)
	}
}

func (s *notificationService) BookingCancelled(ctx context.Context, booking *entity.Booking, clientEmail string) {
	subject := fmt.Sprintf("Agendamento cancelado - %s", booking.Code)
	body := fmt.Sprintf(`
		<p>Olá %s,</p>
		<p>Seu agendamento de %s em %s às %s foi cancelado.</p>
		<p>Equipe Belezure</p>
	`, booking.ClientName, booking.ServiceName, booking.Date, booking.Time)

	if err := s.mailer.Send(ctx, clientEmail, subject, body); err != nil {
		s.log.Warnf("Failed to send cancellation for booking %s: %+v", booking.ID, err)
	}
}

// SendDayReminders emails every client with an active booking on date.
// Returns the number of reminders sent.
func (s *notificationService) SendDayReminders(ctx context.Context, date string) (int, error) {
	bookings, err := s.bookingRepo.FindActiveByDate(ctx, s.db, date)
	if err != nil {
		s.log.Warnf("Failed to find bookings for reminders on %s: %+v", date, err)
		return 0, err
	}
	if len(bookings) == 0 {
		return 0, nil
	}

	clientIDs := make([]uuid.UUID, 0, len(bookings))
	seen := make(map[uuid.UUID]struct{}, len(bookings))
	for _, b := range bookings {
		if _, ok := seen[b.ClientID]; !ok {
			seen[b.ClientID] = struct{}{}
			clientIDs = append(clientIDs, b.ClientID)
		}
	}

	users, err := s.userRepo.FindByIDs(ctx, s.db, clientIDs)
	if err != nil {
		s.log.Warnf("Failed to load clients for reminders on %s: %+v", date, err)
		return 0, err
	}
	emails := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		emails[u.ID] = u.Email
	}

	sent := 0
	for _, b := range bookings {
		email, ok := emails[b.ClientID]
		if !ok {
			s.log.Warnf("Skipping reminder for booking %s: client %s not found", b.ID, b.ClientID)
			continue
		}

		subject := fmt.Sprintf("Lembrete: %s amanhã às %s", b.ServiceName, b.Time)
		body := fmt.Sprintf(`
			<p>Olá %s,</p>
			<p>Lembrete do seu agendamento de <strong>%s</strong> em %s às %s.</p>
			<p>Código: %s</p>
			<p>Equipe Belezure</p>
		`, b.ClientName, b.ServiceName, b.Date, b.Time, b.Code)

		if err := s.mailer.Send(ctx, email, subject, body); err != nil {
			s.log.Warnf("Failed to send reminder for booking %s: %+v", b.ID, err)
			continue
		}
		sent++
	}

	s.log.Infof("Sent %d reminders for %s", sent, date)
	return sent, nil
}

package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"
	"villa/config"
	"villa/infras/kafka"
	"villa/infras/mailer"
	"villa/infras/otel"
	bookingModel "villa/internal/domains/booking/model"
	"villa/internal/domains/notification/model"
	"villa/internal/domains/notification/templates"
	"villa/shared/constant"
	"villa/shared/money"
	"villa/shared/timezone"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	dispatchTimeout = time.Minute
	emailDateFormat = "January 2, 2006"
)

// Notifier sends guest and owner emails and publishes a booking event for each.
type Notifier interface {
	// Send delivers synchronously. Every recipient is attempted even if one fails.
	Send(ctx context.Context, kind model.Kind, booking bookingModel.Booking, daysLeft int) error
	// Dispatch sends in the background. Failures are logged and never reach the caller.
	Dispatch(ctx context.Context, kind model.Kind, booking bookingModel.Booking, daysLeft int)
	// Wait blocks until every dispatched send has finished.
	Wait()
}

type serviceImpl struct {
	mailer    mailer.Mailer
	publisher kafka.Publisher
	cfg       *config.Config
	otel      otel.Otel
	templates *template.Template
	printer   *message.Printer
	wg        sync.WaitGroup
}

func New(mailer mailer.Mailer, publisher kafka.Publisher, cfg *config.Config, otel otel.Otel) (Notifier, error) {
	tmpl, err := template.New("email").Funcs(template.FuncMap{
		"pair": func(label, value string) []string { return []string{label, value} },
		"yesno": func(ok bool, yes, no string) string {
			if ok {
				return yes
			}

			return no
		},
	}).ParseFS(templates.FS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &serviceImpl{
		mailer:    mailer,
		publisher: publisher,
		cfg:       cfg,
		otel:      otel,
		templates: tmpl,
		printer:   message.NewPrinter(language.English),
	}, nil
}

func (s *serviceImpl) Dispatch(ctx context.Context, kind model.Kind, booking bookingModel.Booking, daysLeft int) {
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		c, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatchTimeout)
		defer cancel()

		if err := s.Send(c, kind, booking, daysLeft); err != nil {
			log.Error().Err(err).Str("booking_id", booking.ID).Str("kind", string(kind)).Msg("failed to deliver notification")
		}
	}()
}

func (s *serviceImpl) Wait() {
	s.wg.Wait()
}

func (s *serviceImpl) Send(ctx context.Context, kind model.Kind, booking bookingModel.Booking, daysLeft int) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.Send")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("notification.kind", string(kind))

	data := s.emailData(booking, daysLeft)
	property := s.cfg.App.Property.Name

	var errs []error

	if sendErr := s.send(ctx, []string{booking.Email}, model.Subject(kind, property, daysLeft), model.Template(kind), data); sendErr != nil {
		errs = append(errs, fmt.Errorf("guest: %w", sendErr))
	}

	if kind == model.KindBookingConfirmed {
		if owner := s.cfg.App.Property.OwnerEmail; owner != "" {
			subject := fmt.Sprintf(model.SubjectOwnerNotification, property)
			if sendErr := s.send(ctx, []string{owner}, subject, model.TemplateOwnerNotification, data); sendErr != nil {
				errs = append(errs, fmt.Errorf("owner: %w", sendErr))
			}
		} else {
			log.Warn().Str("booking_id", booking.ID).Msg("owner email not configured, skipping owner notification")
		}
	}

	event := kafka.Message{Key: booking.ID, Value: model.NewEvent(kind, booking, daysLeft, timezone.Now())}
	if pubErr := s.publisher.Publish(ctx, event); pubErr != nil {
		log.Warn().Err(pubErr).Str("booking_id", booking.ID).Msg("failed to publish booking event")
	}

	return errors.Join(errs...)
}

func (s *serviceImpl) send(ctx context.Context, to []string, subject, name string, data model.EmailData) error {
	var body bytes.Buffer

	if err := s.templates.ExecuteTemplate(&body, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	msg := mailer.Message{
		To:      to,
		Subject: subject,
		HTML:    body.String(),
		Text:    plainText(subject, data),
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send %s: %w", name, err)
	}

	return nil
}

func (s *serviceImpl) emailData(booking bookingModel.Booking, daysLeft int) model.EmailData {
	nights := booking.Nights()

	dailyRate := booking.Total
	if nights > 0 {
		dailyRate = money.Amount(booking.Total.Int64() / int64(nights))
	}

	return model.EmailData{
		PropertyName:    s.cfg.App.Property.Name,
		Location:        s.cfg.App.Property.Location,
		ContactEmail:    s.cfg.App.Property.OwnerEmail,
		Reference:       booking.Reference(),
		GuestName:       booking.GuestName,
		Email:           booking.Email,
		CheckIn:         booking.CheckInDate.Time().Format(emailDateFormat),
		CheckOut:        booking.CheckOutDate.Time().Format(emailDateFormat),
		BalanceDue:      booking.BalanceDueDate(s.cfg.App.Property.BalanceDueLeadDays).Time().Format(emailDateFormat),
		Nights:          nights,
		Adults:          booking.Adults,
		Kids:            booking.Kids,
		Currency:        string(booking.Currency),
		Total:           s.formatAmount(booking.Total),
		DailyRate:       s.formatAmount(dailyRate),
		AmountPaid:      s.formatAmount(booking.AmountPaid),
		Remaining:       s.formatAmount(booking.RemainingAmount),
		HasBalance:      booking.RemainingAmount > 0,
		DiscountCode:    booking.DiscountCode,
		AirportTransfer: booking.AirportTransfer,
		ArrivalTime:     booking.ArrivalTime,
		SpecialRequests: booking.SpecialRequests,
		DaysLeft:        daysLeft,
	}
}

func (s *serviceImpl) formatAmount(amount money.Amount) string {
	return s.printer.Sprintf("%.2f", amount.Major())
}

func plainText(subject string, data model.EmailData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", subject)
	fmt.Fprintf(&b, "Booking reference: %s\n", data.Reference)
	fmt.Fprintf(&b, "Guest: %s\n", data.GuestName)
	fmt.Fprintf(&b, "Check-in: %s\n", data.CheckIn)
	fmt.Fprintf(&b, "Check-out: %s\n", data.CheckOut)
	fmt.Fprintf(&b, "Total: %s %s\n", data.Currency, data.Total)

	if data.HasBalance {
		fmt.Fprintf(&b, "Outstanding balance: %s %s due %s\n", data.Currency, data.Remaining, data.BalanceDue)
	}

	return b.String()
}

package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks -mock_names=Booking=MockBookingRepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"villa/infras/otel"
	"villa/infras/postgres"
	availabilityModel "villa/internal/domains/availability/model"
	"villa/internal/domains/booking/model"
	"villa/shared/constant"
	gDto "villa/shared/dto"
	"villa/shared/failure"
	"villa/shared/logger"
	gRepo "villa/shared/repository"
	"villa/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// stayLockKey serializes every check-then-insert on the single property.
const stayLockKey int64 = 0x56505542

const (
	queryLockStays = `SELECT pg_advisory_xact_lock($1)`

	queryFirstOverlap = `SELECT check_in_date FROM bookings
		WHERE payment_status = 'succeeded' AND check_in_date < $1 AND check_out_date > $2
		ORDER BY check_in_date LIMIT 1`

	queryMarkSucceeded = `UPDATE bookings SET payment_status = 'succeeded', updated_at = $3
		WHERE id = $1 AND payment_intent_id = $2 AND payment_status = 'pending'`

	queryMarkBalancePaid = `UPDATE bookings SET amount_paid = total, remaining_amount = 0, updated_at = $3
		WHERE id = $1 AND payment_intent_id = $2 AND payment_status = 'succeeded' AND remaining_amount > 0`

	queryMarkClosed = `UPDATE bookings SET payment_status = $3, updated_at = $4
		WHERE id = $1 AND payment_intent_id = $2 AND payment_status = 'pending'`

	queryReplaceIntent = `UPDATE bookings SET payment_intent_id = $2, updated_at = $3
		WHERE id = $1 AND payment_status = 'succeeded' AND remaining_amount > 0`
)

// ErrStayTaken is returned when a booking cannot become succeeded because
// another succeeded booking already holds an overlapping stay.
var ErrStayTaken = errors.New("stay overlaps a confirmed booking")

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	// InsertIfAvailable inserts the booking unless a succeeded booking overlaps its stay.
	InsertIfAvailable(ctx context.Context, booking model.Booking) error
	SucceededStays(ctx context.Context, from timezone.Date) ([]availabilityModel.BlockedRange, error)
	// The Mark* and ReplaceIntent methods are conditional on the current state
	// and report whether a row changed. A false result means another path got there first.
	MarkSucceeded(ctx context.Context, id, intentID string) (bool, error)
	MarkBalancePaid(ctx context.Context, id, intentID string) (bool, error)
	MarkClosed(ctx context.Context, id, intentID string, status model.PaymentStatus) (bool, error)
	ReplaceIntent(ctx context.Context, id, intentID string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) InsertIfAvailable(ctx context.Context, booking model.Booking) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.InsertIfAvailable")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	tx, err := r.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin booking transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.ErrorWithStack(rbErr)
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, queryLockStays, stayLockKey); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to lock stays: %w", err)
	}

	conflict, found, err := firstOverlap(ctx, tx, booking.CheckInDate, booking.CheckOutDate)
	if err != nil {
		return err
	}

	if found {
		if conflict.Before(booking.CheckInDate) {
			conflict = booking.CheckInDate
		}

		return failure.DateConflict(conflict.String()) // nolint:wrapcheck
	}

	if err = r.InsertTx(ctx, tx, booking); err != nil {
		if isExclusionViolation(err) {
			return failure.DateConflict(booking.CheckInDate.String()) // nolint:wrapcheck
		}

		return err // nolint:wrapcheck
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit booking: %w", err)
	}

	return nil
}

func firstOverlap(ctx context.Context, tx *sqlx.Tx, checkIn, checkOut timezone.Date) (timezone.Date, bool, error) {
	var day timezone.Date

	err := tx.GetContext(ctx, &day, queryFirstOverlap, checkOut, checkIn)
	if errors.Is(err, sql.ErrNoRows) {
		return day, false, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return day, false, fmt.Errorf("failed to check overlapping stays: %w", err)
	}

	return day, true, nil
}

func (r *repositoryImpl) SucceededStays(ctx context.Context, from timezone.Date) (res []availabilityModel.BlockedRange, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.SucceededStays")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldPaymentStatus, Value: model.StatusSucceeded, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldCheckOutDate, Value: from, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName},
		},
	}

	params := gDto.QueryParams{SortBy: model.FieldCheckInDate, SortDir: gDto.SortDirAsc}

	bookings, err := r.GetAll(ctx, params, filter, model.FieldCheckInDate, model.FieldCheckOutDate)
	if err != nil {
		return nil, err // nolint:wrapcheck
	}

	res = make([]availabilityModel.BlockedRange, 0, len(bookings))
	for _, b := range bookings {
		res = append(res, b.Stay())
	}

	return res, nil
}

func (r *repositoryImpl) MarkSucceeded(ctx context.Context, id, intentID string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.MarkSucceeded")
	defer scope.End()

	changed, err := r.execConditional(ctx, queryMarkSucceeded, id, intentID, timezone.Now())
	if isExclusionViolation(err) {
		return false, fmt.Errorf("failed to mark booking %s succeeded: %w", id, ErrStayTaken)
	}

	return changed, err
}

func (r *repositoryImpl) MarkBalancePaid(ctx context.Context, id, intentID string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.MarkBalancePaid")
	defer scope.End()

	return r.execConditional(ctx, queryMarkBalancePaid, id, intentID, timezone.Now())
}

func (r *repositoryImpl) MarkClosed(ctx context.Context, id, intentID string, status model.PaymentStatus) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.MarkClosed")
	defer scope.End()

	if status != model.StatusFailed && status != model.StatusCanceled {
		return false, fmt.Errorf("status %q does not close a booking", status)
	}

	return r.execConditional(ctx, queryMarkClosed, id, intentID, status, timezone.Now())
}

func (r *repositoryImpl) ReplaceIntent(ctx context.Context, id, intentID string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ReplaceIntent")
	defer scope.End()

	return r.execConditional(ctx, queryReplaceIntent, id, intentID, timezone.Now())
}

func (r *repositoryImpl) execConditional(ctx context.Context, query string, args ...any) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.execConditional")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := r.db.Write.ExecContext(ctx, query, args...)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to update data (%s): %w", model.EntityName, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows (%s): %w", model.EntityName, err)
	}

	return affected > 0, nil
}

func isExclusionViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeExclusionViolation
}

package services

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"payment-dashboard/internal/models"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

const paymentColumns = `id, amount::float8 AS amount, currency, payment_method, status,
	receiver_name, receiver_email, description, transaction_id, created_at, updated_at`

type PaymentService struct {
	db     *sqlx.DB
	logger zerolog.Logger
}

func NewPaymentService(db *sqlx.DB, logger zerolog.Logger) *PaymentService {
	return &PaymentService{
		db:     db,
		logger: logger,
	}
}

const txnAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// transactionID builds a practically unique identifier from the current
// timestamp and a random base36 suffix. The payments table enforces
// uniqueness with a constraint.
func transactionID() string {
	var suffix [9]byte
	for i := range suffix {
		suffix[i] = txnAlphabet[rand.Intn(len(txnAlphabet))]
	}
	return fmt.Sprintf("TXN%d%s", time.Now().UnixMilli(), suffix[:])
}

func validateNewPayment(req *models.CreatePaymentRequest) error {
	if req.Amount <= 0 {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidInput)
	}
	if req.ReceiverName == "" {
		return fmt.Errorf("%w: receiver_name is required", ErrInvalidInput)
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return fmt.Errorf("%w: unknown payment_method", ErrInvalidInput)
	}
	if req.Status != "" && !models.ValidPaymentStatus(req.Status) {
		return fmt.Errorf("%w: unknown status", ErrInvalidInput)
	}
	return nil
}

// Create persists a payment with a generated transaction identifier.
// Currency defaults to USD and status to pending.
func (s *PaymentService) Create(ctx context.Context, req *models.CreatePaymentRequest) (*models.Payment, error) {
	if err := validateNewPayment(req); err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	status := req.Status
	if status == "" {
		status = string(models.PaymentStatusPending)
	}

	var payment models.Payment
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO payments (amount, currency, payment_method, status, receiver_name, receiver_email, description, transaction_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+paymentColumns,
		req.Amount, currency, req.PaymentMethod, status,
		req.ReceiverName, req.ReceiverEmail, req.Description, transactionID(),
	).StructScan(&payment)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating payment")
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	s.logger.Info().
		Int("payment_id", payment.ID).
		Str("transaction_id", payment.TransactionID).
		Float64("amount", payment.Amount).
		Msg("Payment created")

	return &payment, nil
}

// buildListFilter renders the WHERE clause for the listing filters. Filters
// are conjunctive; the date range only applies when both bounds are set.
func buildListFilter(f models.PaymentFilter) (string, []any) {
	var clauses []string
	var args []any

	if f.Status != "" {
		args = append(args, f.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.PaymentMethod != "" {
		args = append(args, f.PaymentMethod)
		clauses = append(clauses, fmt.Sprintf("payment_method = $%d", len(args)))
	}
	if f.DateFrom != nil && f.DateTo != nil {
		args = append(args, *f.DateFrom, *f.DateTo)
		clauses = append(clauses, fmt.Sprintf("created_at BETWEEN $%d AND $%d", len(args)-1, len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

// List returns a page of payments ordered by creation time descending, plus
// the total count of rows matching the filters before pagination.
func (s *PaymentService) List(ctx context.Context, filter models.PaymentFilter) (*models.PaymentList, error) {
	where, args := buildListFilter(filter)
	page, limit := normalizePaging(filter.Page, filter.Limit)

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM payments"+where, args...).Scan(&total); err != nil {
		s.logger.Error().Err(err).Msg("Error counting payments")
		return nil, fmt.Errorf("database error: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM payments%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		paymentColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, (page-1)*limit)

	payments := []models.Payment{}
	if err := s.db.SelectContext(ctx, &payments, query, args...); err != nil {
		s.logger.Error().Err(err).Msg("Error listing payments")
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &models.PaymentList{Payments: payments, Total: total}, nil
}

// GetByID returns the payment or nil when no row matches; a miss is not an error.
func (s *PaymentService) GetByID(ctx context.Context, id int) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.QueryRowxContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE id = $1", id,
	).StructScan(&payment)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		s.logger.Error().Err(err).Int("payment_id", id).Msg("Error fetching payment")
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &payment, nil
}

// startOfDay returns local midnight for the given instant.
func startOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// Stats computes the dashboard summary in a single aggregate query so that
// the today and trailing-week windows share one upper bound.
func (s *PaymentService) Stats(ctx context.Context) (*models.PaymentStats, error) {
	now := time.Now()
	today := startOfDay(now)
	weekAgo := now.AddDate(0, 0, -7)

	const query = `
		SELECT
			COUNT(*) FILTER (WHERE created_at >= $1) AS transactions_today,
			COUNT(*) AS transactions_week,
			COALESCE(SUM(amount) FILTER (WHERE status = 'success' AND created_at >= $1), 0)::float8 AS revenue_today,
			COALESCE(SUM(amount) FILTER (WHERE status = 'success'), 0)::float8 AS revenue_week,
			COUNT(*) FILTER (WHERE status = 'failed' AND created_at >= $1) AS failed_today,
			COUNT(*) FILTER (WHERE status = 'failed') AS failed_week
		FROM payments
		WHERE created_at BETWEEN $2 AND $3`

	var stats models.PaymentStats
	err := s.db.QueryRowContext(ctx, query, today, weekAgo, now).Scan(
		&stats.Transactions.Today,
		&stats.Transactions.ThisWeek,
		&stats.Revenue.Today,
		&stats.Revenue.ThisWeek,
		&stats.FailedTransactions.Today,
		&stats.FailedTransactions.ThisWeek,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error computing payment stats")
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &stats, nil
}

// DailyRevenue groups successful payments from the trailing window by
// calendar date, ascending. Days with no rows are omitted.
func (s *PaymentService) DailyRevenue(ctx context.Context, days int) ([]models.DailyRevenue, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().Add(-time.Duration(days) * 24 * time.Hour)

	const query = `
		SELECT created_at::date AS day, SUM(amount)::float8 AS revenue, COUNT(*) AS count
		FROM payments
		WHERE status = 'success' AND created_at >= $1
		GROUP BY created_at::date
		ORDER BY day ASC`

	rows, err := s.db.QueryContext(ctx, query, since)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error computing daily revenue")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	series := []models.DailyRevenue{}
	for rows.Next() {
		var day time.Time
		var point models.DailyRevenue
		if err := rows.Scan(&day, &point.Revenue, &point.Count); err != nil {
			return nil, fmt.Errorf("error scanning revenue row: %w", err)
		}
		point.Date = day.Format("2006-01-02")
		series = append(series, point)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return series, nil
}

// SeedSampleData inserts a fixed set of demo payments. Each row carries a
// sentinel transaction id so repeated startups do not duplicate them.
func (s *PaymentService) SeedSampleData(ctx context.Context) error {
	samples := []struct {
		txnID         string
		amount        float64
		method        models.PaymentMethod
		status        models.PaymentStatus
		receiverName  string
		receiverEmail string
		description   string
	}{
		{"TXNSEED0000000001", 100.00, models.PaymentMethodCreditCard, models.PaymentStatusSuccess, "John Doe", "john@example.com", "Product purchase"},
		{"TXNSEED0000000002", 250.50, models.PaymentMethodPaypal, models.PaymentStatusFailed, "Jane Smith", "jane@example.com", "Service payment"},
		{"TXNSEED0000000003", 75.25, models.PaymentMethodBankTransfer, models.PaymentStatusPending, "Bob Johnson", "bob@example.com", "Subscription"},
	}

	for _, sample := range samples {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO payments (amount, currency, payment_method, status, receiver_name, receiver_email, description, transaction_id)
			 VALUES ($1, 'USD', $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (transaction_id) DO NOTHING`,
			sample.amount, sample.method, sample.status,
			sample.receiverName, sample.receiverEmail, sample.description, sample.txnID,
		)
		if err != nil {
			return fmt.Errorf("failed to seed payment %s: %w", sample.txnID, err)
		}
	}

	s.logger.Info().Msg("Sample payment data seeded")
	return nil
}

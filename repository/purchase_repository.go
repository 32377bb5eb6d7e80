package repository

import (
	"context"
	"errors"
	"fmt"

	"xpslots/database"
	"xpslots/domain/entities"
	"xpslots/domain/interfaces"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	purchasesTable = "purchases"
	colPaymentID   = "payment_id"
	colIdentity    = "identity"
	colPackageID   = "package_id"
	colXPAmount    = "xp_amount"
	colPrice       = "price"
	colCurrency    = "currency"
	colStatus      = "status"
	colCreatedAt   = "created_at"
	colCompletedAt = "completed_at"
)

var purchaseColumns = []string{
	colPaymentID,
	colIdentity,
	colPackageID,
	colXPAmount,
	colPrice,
	colCurrency,
	colStatus,
	colCreatedAt,
	colCompletedAt,
}

type purchaseRepository struct {
	q Queryable
}

// NewPurchaseRepository creates a new purchase repository
func NewPurchaseRepository(db *database.DB) interfaces.PurchaseRepository {
	return &purchaseRepository{q: db.Pool}
}

// NewPurchaseRepositoryWithTx creates a purchase repository that runs inside an open transaction
func NewPurchaseRepositoryWithTx(tx Queryable) interfaces.PurchaseRepository {
	return &purchaseRepository{q: tx}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *entities.Purchase) error {
	query, args, err := psql.Insert(purchasesTable).
		Columns(purchaseColumns...).
		Values(
			purchase.PaymentID,
			purchase.Identity,
			purchase.PackageID,
			purchase.XPAmount,
			purchase.Price,
			purchase.Currency,
			purchase.Status,
			purchase.CreatedAt,
			purchase.CompletedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build purchase insert: %w", err)
	}

	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return fmt.Errorf("%w: %s", entities.ErrPurchaseAlreadyExists, purchase.PaymentID)
		}
		return fmt.Errorf("failed to create purchase: %w", err)
	}
	return nil
}

func (r *purchaseRepository) GetByPaymentID(ctx context.Context, paymentID string) (*entities.Purchase, error) {
	query, args, err := psql.Select(purchaseColumns...).
		From(purchasesTable).
		Where(sq.Eq{colPaymentID: paymentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build purchase query: %w", err)
	}

	purchase, err := scanPurchase(r.q.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", entities.ErrPurchaseNotFound, paymentID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}
	return purchase, nil
}

// Transition moves a purchase from one status to another. It reports false when
// the purchase was not in the from status, so only one caller wins a transition.
func (r *purchaseRepository) Transition(ctx context.Context, paymentID string, from, to entities.PaymentStatus) (bool, error) {
	update := psql.Update(purchasesTable).
		Set(colStatus, to).
		Where(sq.Eq{colPaymentID: paymentID, colStatus: from})

	if to == entities.PaymentStatusCompleted {
		update = update.Set(colCompletedAt, sq.Expr("NOW()"))
	} else {
		update = update.Set(colCompletedAt, nil)
	}

	query, args, err := update.ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build purchase update: %w", err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to transition purchase: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *purchaseRepository) ListByIdentity(ctx context.Context, identity string, limit int) ([]*entities.Purchase, error) {
	query, args, err := psql.Select(purchaseColumns...).
		From(purchasesTable).
		Where(sq.Eq{colIdentity: identity}).
		OrderBy(colCreatedAt + " DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build purchase history query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *purchaseRepository) ListPending(ctx context.Context) ([]*entities.Purchase, error) {
	query, args, err := psql.Select(purchaseColumns...).
		From(purchasesTable).
		Where(sq.Eq{colStatus: entities.PaymentStatusPending}).
		OrderBy(colCreatedAt + " ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build pending purchases query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *purchaseRepository) list(ctx context.Context, query string, args []any) ([]*entities.Purchase, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	purchases := make([]*entities.Purchase, 0)
	for rows.Next() {
		purchase, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, purchase)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchases: %w", err)
	}
	return purchases, nil
}

func scanPurchase(row pgx.Row) (*entities.Purchase, error) {
	var purchase entities.Purchase
	err := row.Scan(
		&purchase.PaymentID,
		&purchase.Identity,
		&purchase.PackageID,
		&purchase.XPAmount,
		&purchase.Price,
		&purchase.Currency,
		&purchase.Status,
		&purchase.CreatedAt,
		&purchase.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

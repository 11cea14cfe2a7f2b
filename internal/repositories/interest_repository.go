package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
)

var (
	ErrInterestNotFound   = errors.New("interest not found")
	ErrInterestExists     = errors.New("interest already sent")
	ErrInterestNotPending = errors.New("interest is no longer pending")
)

const interestColumns = `id, from_user_id, to_user_id, status, created_at, updated_at`

// InterestRepository abstracts interest persistence.
type InterestRepository interface {
	Create(ctx context.Context, fromUserID int, toUserID int) (models.Interest, error)
	Get(ctx context.Context, interestID int) (models.Interest, error)
	Transition(ctx context.Context, interestID int, from models.InterestStatus, to models.InterestStatus) (models.Interest, error)
	ListReceived(ctx context.Context, userID int) ([]models.Interest, error)
	ListSent(ctx context.Context, userID int) ([]models.Interest, error)
}

// InterestRepo is a sqlx implementation of InterestRepository.
type InterestRepo struct {
	db *sqlx.DB
}

// NewInterestRepo constructs an InterestRepo.
func NewInterestRepo(db *sqlx.DB) *InterestRepo {
	return &InterestRepo{db: db}
}

// Create inserts a pending interest. A second interest for the same ordered pair
// fails with ErrInterestExists.
func (r *InterestRepo) Create(ctx context.Context, fromUserID int, toUserID int) (models.Interest, error) {
	var interest models.Interest
	err := r.db.QueryRowxContext(ctx, `INSERT INTO interests (from_user_id, to_user_id, status) VALUES ($1, $2, $3) RETURNING `+interestColumns,
		fromUserID, toUserID, models.InterestPending).StructScan(&interest)
	if isUniqueViolation(err) {
		return models.Interest{}, ErrInterestExists
	}
	return interest, err
}

// Get fetches an interest by id.
func (r *InterestRepo) Get(ctx context.Context, interestID int) (models.Interest, error) {
	var interest models.Interest
	err := r.db.GetContext(ctx, &interest, `SELECT `+interestColumns+` FROM interests WHERE id=$1`, interestID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Interest{}, ErrInterestNotFound
	}
	return interest, err
}

// Transition moves an interest from one status to another. It fails with
// ErrInterestNotPending when the stored status is no longer from.
func (r *InterestRepo) Transition(ctx context.Context, interestID int, from models.InterestStatus, to models.InterestStatus) (models.Interest, error) {
	var interest models.Interest
	err := r.db.QueryRowxContext(ctx, `UPDATE interests SET status=$3, updated_at=NOW() WHERE id=$1 AND status=$2 RETURNING `+interestColumns,
		interestID, from, to).StructScan(&interest)
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.Get(ctx, interestID); getErr != nil {
			return models.Interest{}, getErr
		}
		return models.Interest{}, ErrInterestNotPending
	}
	return interest, err
}

// ListReceived returns interests addressed to the user, newest first.
func (r *InterestRepo) ListReceived(ctx context.Context, userID int) ([]models.Interest, error) {
	var interests []models.Interest
	err := r.db.SelectContext(ctx, &interests, `SELECT `+interestColumns+` FROM interests WHERE to_user_id=$1 ORDER BY created_at DESC`, userID)
	return interests, err
}

// ListSent returns interests sent by the user, newest first.
func (r *InterestRepo) ListSent(ctx context.Context, userID int) ([]models.Interest, error) {
	var interests []models.Interest
	err := r.db.SelectContext(ctx, &interests, `SELECT `+interestColumns+` FROM interests WHERE from_user_id=$1 ORDER BY created_at DESC`, userID)
	return interests, err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

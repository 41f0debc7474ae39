package suppliers

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	List(ctx context.Context, ownerID string, filters ListFilters) ([]Supplier, error)
	Get(ctx context.Context, ownerID, id string) (Supplier, error)
	Create(ctx context.Context, supplier Supplier) (Supplier, error)
	Update(ctx context.Context, supplier Supplier) (bool, error)
	Delete(ctx context.Context, ownerID, id string) (bool, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const supplierColumns = `id, user_id, name, COALESCE(contact_person, ''), COALESCE(email, ''), COALESCE(phone, ''), COALESCE(address, ''), COALESCE(rating, 0), COALESCE(notes, ''), created_at`

func (r *repository) List(ctx context.Context, ownerID string, filters ListFilters) ([]Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE user_id = $1`
	args := []any{ownerID}

	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		query += ` AND (name ILIKE $` + n + ` OR contact_person ILIKE $` + n + `)`
	}
	query += ` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Name, &s.ContactPerson, &s.Email, &s.Phone, &s.Address, &s.Rating, &s.Notes, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, ownerID, id string) (Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1 AND user_id = $2`
	var s Supplier
	err := r.db.QueryRow(ctx, query, id, ownerID).Scan(&s.ID, &s.OwnerID, &s.Name, &s.ContactPerson, &s.Email, &s.Phone, &s.Address, &s.Rating, &s.Notes, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return Supplier{}, ErrNotFound
		}
		return Supplier{}, err
	}
	return s, nil
}

func (r *repository) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	query := `INSERT INTO suppliers (user_id, name, contact_person, email, phone, address, rating, notes, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, NULLIF($8, ''), $9)
		RETURNING id`
	now := time.Now().UTC()
	err := r.db.QueryRow(ctx, query,
		supplier.OwnerID, supplier.Name, supplier.ContactPerson, supplier.Email,
		supplier.Phone, supplier.Address, supplier.Rating, supplier.Notes, now,
	).Scan(&supplier.ID)
	if err != nil {
		return Supplier{}, err
	}
	supplier.CreatedAt = now
	return supplier, nil
}

func (r *repository) Update(ctx context.Context, supplier Supplier) (bool, error) {
	query := `UPDATE suppliers SET name = $3, contact_person = NULLIF($4, ''), email = NULLIF($5, ''), phone = NULLIF($6, ''), address = NULLIF($7, ''), rating = $8, notes = NULLIF($9, '')
		WHERE id = $1 AND user_id = $2`
	tag, err := r.db.Exec(ctx, query,
		supplier.ID, supplier.OwnerID, supplier.Name, supplier.ContactPerson,
		supplier.Email, supplier.Phone, supplier.Address, supplier.Rating, supplier.Notes)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repository) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM suppliers WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == "desc" {
		dir = "DESC"
	}
	switch sortBy {
	case "rating":
		return "rating " + dir
	case "created_at":
		return "created_at " + dir
	default:
		return "name " + dir
	}
}

package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CustomerService manages customers and their delivery areas. Deleting an
// area detaches its customers; deleting a customer cascades to their orders.
type CustomerService interface {
	CreateCustomer(ctx context.Context, name string, phone *string, areaID *int) (*Customer, error)
	UpdateCustomer(ctx context.Context, id int, name string, phone *string, areaID *int) (*Customer, error)
	DeleteCustomer(ctx context.Context, id int) error
	GetCustomer(ctx context.Context, id int) (*Customer, error)
	GetCustomers(ctx context.Context, filter CustomerFilter, page Page) ([]Customer, int, error)

	CreateArea(ctx context.Context, name string) (*Area, error)
	DeleteArea(ctx context.Context, id int) error
	GetAreas(ctx context.Context, page Page) ([]Area, int, error)
}

type customerService struct {
	pool *pgxpool.Pool
}

func NewCustomerService(pool *pgxpool.Pool) CustomerService {
	return &customerService{pool: pool}
}

func (s *customerService) CreateCustomer(ctx context.Context, name string, phone *string, areaID *int) (*Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrMissingName
	}
	var id int
	err := s.pool.QueryRow(ctx, `
		INSERT INTO customers (name, phone, area_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, name, phone, areaID).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, &NotFoundError{Entity: "area", ID: deref(areaID)}
		}
		return nil, fmt.Errorf("failed to insert customer: %w", err)
	}
	return s.GetCustomer(ctx, id)
}

func (s *customerService) UpdateCustomer(ctx context.Context, id int, name string, phone *string, areaID *int) (*Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrMissingName
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE customers SET name = $1, phone = $2, area_id = $3 WHERE id = $4
	`, name, phone, areaID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, &NotFoundError{Entity: "area", ID: deref(areaID)}
		}
		return nil, fmt.Errorf("failed to update customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, &NotFoundError{Entity: "customer", ID: id}
	}
	return s.GetCustomer(ctx, id)
}

func (s *customerService) DeleteCustomer(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "customer", ID: id}
	}
	return nil
}

func (s *customerService) GetCustomer(ctx context.Context, id int) (*Customer, error) {
	c, err := scanCustomer(s.pool.QueryRow(ctx, customerSelect+" WHERE c.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "customer", ID: id}
		}
		return nil, fmt.Errorf("failed to fetch customer %d: %w", id, err)
	}
	return c, nil
}

func (s *customerService) GetCustomers(ctx context.Context, filter CustomerFilter, page Page) ([]Customer, int, error) {
	where := " WHERE 1=1"
	var args []any
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+q+"%")
		where += fmt.Sprintf(" AND c.name ILIKE $%d", len(args))
	}

	var count int
	if err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM customers c"+where, args...,
	).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	q := customerSelect + where + " ORDER BY c.created_at DESC, c.id DESC"
	q, args = applyPage(q, args, page)

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, *c)
	}
	return customers, count, rows.Err()
}

func (s *customerService) CreateArea(ctx context.Context, name string) (*Area, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrMissingName
	}
	var a Area
	err := s.pool.QueryRow(ctx, `
		INSERT INTO areas (name) VALUES ($1)
		RETURNING id, name, created_at
	`, name).Scan(&a.ID, &a.Name, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert area: %w", err)
	}
	return &a, nil
}

func (s *customerService) DeleteArea(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM areas WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete area %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "area", ID: id}
	}
	return nil
}

func (s *customerService) GetAreas(ctx context.Context, page Page) ([]Area, int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM areas").Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count areas: %w", err)
	}

	q := "SELECT id, name, created_at FROM areas ORDER BY created_at DESC, id DESC"
	q, args := applyPage(q, nil, page)
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query areas: %w", err)
	}
	defer rows.Close()

	var areas []Area
	for rows.Next() {
		var a Area
		if err := rows.Scan(&a.ID, &a.Name, &a.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan area: %w", err)
		}
		areas = append(areas, a)
	}
	return areas, count, rows.Err()
}

const customerSelect = `
	SELECT c.id, c.name, c.phone, c.area_id, c.created_at, a.name, a.created_at
	FROM customers c
	LEFT JOIN areas a ON a.id = c.area_id`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	var areaName *string
	var areaCreated *time.Time
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.AreaID, &c.CreatedAt,
		&areaName, &areaCreated); err != nil {
		return nil, err
	}
	if c.AreaID != nil && areaName != nil {
		c.Area = &Area{ID: *c.AreaID, Name: *areaName, CreatedAt: *areaCreated}
	}
	return &c, nil
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/aviaapp/internal/domain"
	"github.com/jackc/pgx/v5"
)

type CabinClassRepository interface {
	GetByID(ctx context.Context, id int) (*domain.CabinClass, error)
	List(ctx context.Context) ([]domain.CabinClass, error)
}

type PGCabinClassRepository struct {
	db DB
}

func NewCabinClassRepository(db DB) CabinClassRepository {
	return &PGCabinClassRepository{db: db}
}

func (r *PGCabinClassRepository) GetByID(ctx context.Context, id int) (*domain.CabinClass, error) {
	var c domain.CabinClass
	err := r.db.QueryRow(ctx, `SELECT id, name, price_percent FROM cabin_classes WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.PricePercent)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError("cabin class %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PGCabinClassRepository) List(ctx context.Context) ([]domain.CabinClass, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, price_percent FROM cabin_classes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := make([]domain.CabinClass, 0)
	for rows.Next() {
		var c domain.CabinClass
		if err := rows.Scan(&c.ID, &c.Name, &c.PricePercent); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

var _ CabinClassRepository = (*PGCabinClassRepository)(nil)

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PostgresSource reads the catalog from the products table.
type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Name() string { return "postgres:products" }

func (s *PostgresSource) Load(ctx context.Context) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, category, price,
		       discount_percentage, rating, thumbnail, images
		FROM products
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0, 64)
	for rows.Next() {
		var (
			p      Product
			images []byte
		)
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.Category, &p.Price,
			&p.DiscountPercentage, &p.Rating, &p.Thumbnail, &images,
		); err != nil {
			return nil, err
		}
		if len(images) > 0 {
			if err := json.Unmarshal(images, &p.Images); err != nil {
				return nil, fmt.Errorf("%w: images of id %d: %v", errMalformed, p.ID, err)
			}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/reviewly/backend/internal/database"
	"github.com/reviewly/backend/internal/models"
)

type ProductRepository struct {
	db *database.DB
}

func NewProductRepository(db *database.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create creates a new product
func (r *ProductRepository) Create(product *models.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.CreatedAt,
	).Scan(&product.ID, &product.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// GetByID retrieves a product with its visible-review aggregates
func (r *ProductRepository) GetByID(id uuid.UUID) (*models.Product, error) {
	query := `
		SELECT p.id, p.name, p.description, p.price, p.created_at,
		       AVG(rv.rating) FILTER (WHERE rv.visible),
		       COUNT(rv.id) FILTER (WHERE rv.visible)
		FROM products p
		LEFT JOIN reviews rv ON rv.product_id = p.id
		WHERE p.id = $1
		GROUP BY p.id
	`

	product := &models.Product{}
	var avg sql.NullFloat64
	err := r.db.QueryRow(query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.CreatedAt,
		&avg,
		&product.ReviewsCount,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if avg.Valid {
		product.AverageRating = &avg.Float64
	}

	return product, nil
}

// List retrieves products with aggregates, optional name search and sorting
func (r *ProductRepository) List(search, sort string) ([]models.Product, error) {
	query := `
		SELECT p.id, p.name, p.description, p.price, p.created_at,
		       AVG(rv.rating) FILTER (WHERE rv.visible),
		       COUNT(rv.id) FILTER (WHERE rv.visible)
		FROM products p
		LEFT JOIN reviews rv ON rv.product_id = p.id
		WHERE ($1 = '' OR p.name ILIKE '%' || $1 || '%')
		GROUP BY p.id
	`

	switch sort {
	case "price_asc":
		query += " ORDER BY p.price ASC"
	case "price_desc":
		query += " ORDER BY p.price DESC"
	case "rating":
		query += " ORDER BY AVG(rv.rating) FILTER (WHERE rv.visible) DESC NULLS LAST"
	case "reviews":
		query += " ORDER BY COUNT(rv.id) FILTER (WHERE rv.visible) DESC"
	default:
		query += " ORDER BY p.created_at DESC"
	}

	rows, err := r.db.Query(query, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		var avg sql.NullFloat64
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CreatedAt, &avg, &p.ReviewsCount); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		if avg.Valid {
			p.AverageRating = &avg.Float64
		}
		products = append(products, p)
	}

	return products, nil
}

// Update applies partial changes to a product
func (r *ProductRepository) Update(id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {
	query := `
		UPDATE products
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    price = COALESCE($4, price)
		WHERE id = $1
		RETURNING id, name, description, price, created_at
	`

	product := &models.Product{}
	err := r.db.QueryRow(query, id, req.Name, req.Description, req.Price).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// Delete removes a product and cascades to its reviews
func (r *ProductRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}

	return nil
}

// Stats returns per-product approved/pending review counts for the admin dashboard
func (r *ProductRepository) Stats() ([]models.ProductStats, error) {
	query := `
		SELECT p.id, p.name,
		       AVG(rv.rating) FILTER (WHERE rv.visible),
		       COUNT(rv.id) FILTER (WHERE rv.visible),
		       COUNT(rv.id) FILTER (WHERE NOT rv.visible)
		FROM products p
		LEFT JOIN reviews rv ON rv.product_id = p.id
		GROUP BY p.id
		ORDER BY p.name
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query product stats: %w", err)
	}
	defer rows.Close()

	stats := []models.ProductStats{}
	for rows.Next() {
		var s models.ProductStats
		var avg sql.NullFloat64
		if err := rows.Scan(&s.ProductID, &s.ProductName, &avg, &s.ApprovedCount, &s.PendingCount); err != nil {
			return nil, fmt.Errorf("failed to scan product stats: %w", err)
		}
		if avg.Valid {
			s.AverageRating = &avg.Float64
		}
		stats = append(stats, s)
	}

	return stats, nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql"

	"thongtinduan/pricescraper/internal/scraper"
	"thongtinduan/pricescraper/logger"
	scrapeerrors "thongtinduan/pricescraper/pkg/errors"
)

// MySQLStore implements Store against the MySQL catalog database
type MySQLStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	log     *logger.Logger
}

var _ Store = (*MySQLStore)(nil)

// Open connects to MySQL and verifies the connection with bounded retry.
// Connection failure after the final attempt is fatal to the run. A nil
// sleep uses real time.
func Open(ctx context.Context, dsn string, maxRetries int, retryDelay time.Duration, sleep func(time.Duration)) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, scrapeerrors.NewStore("mysql", "open", err)
	}
	return NewMySQLStore(ctx, db, maxRetries, retryDelay, sleep)
}

// NewMySQLStore wraps an existing connection pool, pinging it with bounded
// retry before first use.
func NewMySQLStore(ctx context.Context, db *sql.DB, maxRetries int, retryDelay time.Duration, sleep func(time.Duration)) (*MySQLStore, error) {
	if sleep == nil {
		sleep = time.Sleep
	}
	log := logger.ForStore()

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.Info().Int("attempt", attempt).Int("max_retries", maxRetries).Msg("Connecting to database")

		if lastErr = db.PingContext(ctx); lastErr == nil {
			log.Info().Msg("Database connection established")
			return &MySQLStore{
				db:      db,
				builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
				log:     log,
			}, nil
		}

		if attempt < maxRetries {
			log.Warn().Err(lastErr).Dur("retry_delay", retryDelay).Msg("Database connection failed, waiting before retry")
			sleep(retryDelay)
		}
	}

	return nil, scrapeerrors.NewStore("mysql", fmt.Sprintf("connection failed after %d attempts", maxRetries), lastErr)
}

// ListProducts returns the full trackable catalog in the store's native order
func (m *MySQLStore) ListProducts(ctx context.Context) ([]scraper.Product, error) {
	query, args, err := m.builder.
		Select("product_id", "name", "url", "source").
		From("product").
		ToSql()
	if err != nil {
		return nil, scrapeerrors.NewStore("mysql", "build product query", err)
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, scrapeerrors.NewStore("mysql", "query products", err)
	}
	defer rows.Close()

	var products []scraper.Product
	for rows.Next() {
		var p scraper.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.URL, &p.Source); err != nil {
			return nil, scrapeerrors.NewStore("mysql", "scan product row", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, scrapeerrors.NewStore("mysql", "iterate product rows", err)
	}

	return products, nil
}

// RecordPrice appends one price observation row
func (m *MySQLStore) RecordPrice(ctx context.Context, productID int64, data scraper.PriceData, recordedAt time.Time) error {
	query, args, err := m.builder.
		Insert("price_history").
		Columns("product_id", "price", "original_price", "currency", "deal_type", "recorded_at").
		Values(productID, data.Price, data.OriginalPrice, data.Currency, string(data.DealType), recordedAt).
		ToSql()
	if err != nil {
		return scrapeerrors.NewPersistence("mysql", "build price insert", err)
	}

	if _, err := m.db.ExecContext(ctx, query, args...); err != nil {
		return scrapeerrors.NewPersistence("mysql", "insert price history", err)
	}
	return nil
}

// RecordSession appends one session log row
func (m *MySQLStore) RecordSession(ctx context.Context, entry SessionEntry) error {
	query, args, err := m.builder.
		Insert("scrape_log").
		Columns("scrape_date", "source", "total_products", "status", "notes").
		Values(entry.ScrapeDate, entry.Source, entry.TotalProducts, string(entry.Status), entry.Notes).
		ToSql()
	if err != nil {
		return scrapeerrors.NewPersistence("mysql", "build session insert", err)
	}

	if _, err := m.db.ExecContext(ctx, query, args...); err != nil {
		return scrapeerrors.NewPersistence("mysql", "insert scrape log", err)
	}
	return nil
}

// Close closes the connection pool
func (m *MySQLStore) Close() error {
	return m.db.Close()
}

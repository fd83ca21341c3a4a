package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrNotFound возвращается FindByID, когда записи нет
var ErrNotFound = errors.New("record not found")

// Store выдает репозитории, привязанные либо к корневому *gorm.DB,
// либо к открытой транзакции.
type Store interface {
	Regions() RegionRepository
	Provinces() ProvinceRepository
	Supermarkets() SupermarketRepository
	Locations() LocationRepository
	Categories() CategoryRepository
	Users() UserRepository

	// WithContext привязывает все запросы к контексту запроса
	WithContext(ctx context.Context) Store
	// Transaction выполняет fn в одной транзакции; ошибка из fn откатывает ее
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore создает Store поверх подключения gorm
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Regions() RegionRepository           { return &regionRepository{db: s.db} }
func (s *gormStore) Provinces() ProvinceRepository       { return &provinceRepository{db: s.db} }
func (s *gormStore) Supermarkets() SupermarketRepository { return &supermarketRepository{db: s.db} }
func (s *gormStore) Locations() LocationRepository       { return &locationRepository{db: s.db} }
func (s *gormStore) Categories() CategoryRepository      { return &categoryRepository{db: s.db} }
func (s *gormStore) Users() UserRepository               { return &userRepository{db: s.db} }

func (s *gormStore) WithContext(ctx context.Context) Store {
	return &gormStore{db: s.db.WithContext(ctx)}
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// notFound переводит gorm.ErrRecordNotFound в ErrNotFound
func notFound(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s с ID %d не найден: %w", entity, id, ErrNotFound)
	}
	return fmt.Errorf("ошибка получения %s %d: %w", entity, id, err)
}

// exists выполняет COUNT с условием и сообщает, нашлась ли хотя бы одна строка
func exists(q *gorm.DB) (bool, error) {
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsUniqueViolation распознает нарушение уникального индекса (postgres 23505, sqlite UNIQUE)
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsForeignKeyViolation распознает нарушение внешнего ключа (postgres 23503, sqlite FOREIGN KEY)
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// internal/repositories/trip_repository.go
package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbm "wanderai/internal/models/db_models"
)

// ErrTripExists is returned when a trip id is written twice.
var ErrTripExists = errors.New("trip already exists")

type TripRepository interface {
	// CreateTrip stores a new trip. Trips are write-once.
	CreateTrip(ctx context.Context, trip *dbm.Trip) error
	// GetTripByID returns nil, nil when the trip does not exist.
	GetTripByID(ctx context.Context, tripID uuid.UUID) (*dbm.Trip, error)
	ListTripsByOwner(ctx context.Context, ownerID string, page int, pageSize int) ([]dbm.Trip, error)
	// ListTripsVisiting returns the owner's trips whose itinerary includes place.
	ListTripsVisiting(ctx context.Context, ownerID string, place string, limit int) ([]dbm.Trip, error)
	Ping(ctx context.Context) error
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) CreateTrip(ctx context.Context, trip *dbm.Trip) error {
	err := r.db.WithContext(ctx).Create(trip).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrTripExists
	}
	return err
}

func (r *tripRepository) GetTripByID(ctx context.Context, tripID uuid.UUID) (*dbm.Trip, error) {
	var trip dbm.Trip
	if err := r.db.WithContext(ctx).
		Where("id = ?", tripID).
		First(&trip).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) ListTripsByOwner(ctx context.Context, ownerID string, page int, pageSize int) ([]dbm.Trip, error) {
	var trips []dbm.Trip
	offset := (page - 1) * pageSize
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&trips).Error; err != nil {
		return nil, err
	}
	return trips, nil
}

func (r *tripRepository) ListTripsVisiting(ctx context.Context, ownerID string, place string, limit int) ([]dbm.Trip, error) {
	var trips []dbm.Trip
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND ? = ANY(places)", ownerID, place).
		Order("created_at DESC").
		Limit(limit).
		Find(&trips).Error; err != nil {
		return nil, err
	}
	return trips, nil
}

func (r *tripRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

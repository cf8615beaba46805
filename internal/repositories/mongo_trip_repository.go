package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/datatypes"

	dbm "wanderai/internal/models/db_models"
)

const TripsCollection = "trips"

type tripDocument struct {
	ID              string   `bson:"_id"`
	OwnerID         string   `bson:"ownerId"`
	OwnerEmail      string   `bson:"ownerEmail,omitempty"`
	Destination     string   `bson:"destination"`
	Days            int      `bson:"days"`
	TravelerType    string   `bson:"travelerType"`
	Budget          string   `bson:"budget"`
	Status          string   `bson:"status"`
	Success         bool     `bson:"success"`
	PlaceholderDays int      `bson:"placeholderDays"`
	Backend         string   `bson:"backend,omitempty"`
	Places          []string `bson:"places"`
	Plan            bson.D   `bson:"plan"`
	CreatedAt       int64    `bson:"createdAt"`
	UpdatedAt       int64    `bson:"updatedAt"`
}

type mongoTripRepository struct {
	coll *mongo.Collection
}

// NewMongoTripRepository stores trips as documents with the plan embedded.
func NewMongoTripRepository(db *mongo.Database) TripRepository {
	return &mongoTripRepository{coll: db.Collection(TripsCollection)}
}

// EnsureTripIndexes creates the owner and place lookup indexes.
func EnsureTripIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(TripsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "places", Value: 1}}},
	})
	return err
}

func (r *mongoTripRepository) CreateTrip(ctx context.Context, trip *dbm.Trip) error {
	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}
	trip.Stamp(time.Now())

	doc, err := toTripDocument(trip)
	if err != nil {
		return err
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrTripExists
		}
		return err
	}
	return nil
}

func (r *mongoTripRepository) GetTripByID(ctx context.Context, tripID uuid.UUID) (*dbm.Trip, error) {
	var doc tripDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": tripID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return fromTripDocument(&doc)
}

func (r *mongoTripRepository) ListTripsByOwner(ctx context.Context, ownerID string, page int, pageSize int) ([]dbm.Trip, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))
	return r.find(ctx, bson.M{"ownerId": ownerID}, opts)
}

func (r *mongoTripRepository) ListTripsVisiting(ctx context.Context, ownerID string, place string, limit int) ([]dbm.Trip, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{"ownerId": ownerID, "places": place}, opts)
}

func (r *mongoTripRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}

func (r *mongoTripRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]dbm.Trip, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []tripDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	trips := make([]dbm.Trip, 0, len(docs))
	for i := range docs {
		trip, err := fromTripDocument(&docs[i])
		if err != nil {
			return nil, err
		}
		trips = append(trips, *trip)
	}
	return trips, nil
}

func toTripDocument(trip *dbm.Trip) (*tripDocument, error) {
	var plan bson.D
	if len(trip.Plan) > 0 {
		if err := bson.UnmarshalExtJSON(trip.Plan, false, &plan); err != nil {
			return nil, fmt.Errorf("encode trip plan: %w", err)
		}
	}
	return &tripDocument{
		ID:              trip.ID.String(),
		OwnerID:         trip.OwnerID,
		OwnerEmail:      trip.OwnerEmail,
		Destination:     trip.Destination,
		Days:            trip.Days,
		TravelerType:    trip.TravelerType,
		Budget:          trip.Budget,
		Status:          trip.Status,
		Success:         trip.Success,
		PlaceholderDays: trip.PlaceholderDays,
		Backend:         trip.Backend,
		Places:          append([]string{}, trip.Places...),
		Plan:            plan,
		CreatedAt:       trip.CreatedAt,
		UpdatedAt:       trip.UpdatedAt,
	}, nil
}

func fromTripDocument(doc *tripDocument) (*dbm.Trip, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("decode trip id %q: %w", doc.ID, err)
	}
	plan, err := bson.MarshalExtJSON(doc.Plan, false, false)
	if err != nil {
		return nil, fmt.Errorf("decode trip plan: %w", err)
	}

	trip := &dbm.Trip{
		OwnerID:         doc.OwnerID,
		OwnerEmail:      doc.OwnerEmail,
		Destination:     doc.Destination,
		Days:            doc.Days,
		TravelerType:    doc.TravelerType,
		Budget:          doc.Budget,
		Status:          doc.Status,
		Success:         doc.Success,
		PlaceholderDays: doc.PlaceholderDays,
		Backend:         doc.Backend,
		Places:          doc.Places,
		Plan:            datatypes.JSON(plan),
	}
	trip.ID = id
	trip.CreatedAt = doc.CreatedAt
	trip.UpdatedAt = doc.UpdatedAt
	return trip, nil
}

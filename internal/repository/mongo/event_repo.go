package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eventregistration/internal/domain"
)

const eventsCollection = "events"

// eventDocument is the stored shape of domain.Event. Field names match the JSON API.
type eventDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	ImgURL      string             `bson:"imgUrl"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	EventDate   time.Time          `bson:"eventDate"`
	Organizer   string             `bson:"organizer"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *eventDocument) toDomain() *domain.Event {
	return &domain.Event{
		ID:          d.ID.Hex(),
		ImgURL:      d.ImgURL,
		Title:       d.Title,
		Description: d.Description,
		EventDate:   d.EventDate.UTC(),
		Organizer:   d.Organizer,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

type eventRepository struct {
	coll *mongo.Collection
}

func NewEventRepository(db *mongo.Database) domain.EventRepository {
	return &eventRepository{
		coll: db.Collection(eventsCollection),
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	doc := eventDocument{
		ID:          primitive.NewObjectID(),
		ImgURL:      e.ImgURL,
		Title:       e.Title,
		Description: e.Description,
		EventDate:   e.EventDate,
		Organizer:   e.Organizer,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	e.ID = doc.ID.Hex()
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc eventDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *eventRepository) List(ctx context.Context, params domain.EventListParams) ([]*domain.Event, int, error) {
	total, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, 0, err
	}

	field := params.SortField
	if !domain.IsEventSortField(field) {
		field = domain.DefaultEventSortField
	}
	direction := 1
	if params.Descending() {
		direction = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: field, Value: direction}, {Key: "_id", Value: 1}}).
		SetSkip(int64(params.Offset())).
		SetLimit(int64(params.PageSize))
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	events := make([]*domain.Event, 0)
	for cur.Next(ctx) {
		var doc eventDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, err
		}
		events = append(events, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}
	return events, int(total), nil
}

func (r *eventRepository) Update(ctx context.Context, id string, patch domain.EventPatch, updatedAt time.Time) (*domain.Event, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	set := bson.D{{Key: "updatedAt", Value: updatedAt}}
	if patch.ImgURL != nil {
		set = append(set, bson.E{Key: "imgUrl", Value: *patch.ImgURL})
	}
	if patch.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *patch.Title})
	}
	if patch.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *patch.Description})
	}
	if patch.EventDate != nil {
		set = append(set, bson.E{Key: "eventDate", Value: *patch.EventDate})
	}
	if patch.Organizer != nil {
		set = append(set, bson.E{Key: "organizer", Value: *patch.Organizer})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc eventDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc eventDocument
	if err := r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// objectID converts a hex id, reporting malformed input as domain.ErrInvalidID.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.InvalidID(id)
	}
	return oid, nil
}

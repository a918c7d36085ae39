package mongo

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eventregistration/internal/domain"
)

const participantsCollection = "participants"

type participantDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	FullName  string             `bson:"fullName"`
	Email     string             `bson:"email"`
	DOB       time.Time          `bson:"dob"`
	Referral  string             `bson:"referral"`
	EventID   primitive.ObjectID `bson:"eventId"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *participantDocument) toDomain() *domain.Participant {
	return &domain.Participant{
		ID:        d.ID.Hex(),
		FullName:  d.FullName,
		Email:     d.Email,
		DOB:       d.DOB.UTC(),
		Referral:  d.Referral,
		EventID:   d.EventID.Hex(),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

type participantRepository struct {
	coll *mongo.Collection
}

func NewParticipantRepository(db *mongo.Database) domain.ParticipantRepository {
	return &participantRepository{
		coll: db.Collection(participantsCollection),
	}
}

func (r *participantRepository) Create(ctx context.Context, p *domain.Participant) error {
	eventOID, err := objectID(p.EventID)
	if err != nil {
		return err
	}
	doc := participantDocument{
		ID:        primitive.NewObjectID(),
		FullName:  p.FullName,
		Email:     p.Email,
		DOB:       p.DOB,
		Referral:  p.Referral,
		EventID:   eventOID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	p.ID = doc.ID.Hex()
	return nil
}

func (r *participantRepository) ListByEventID(ctx context.Context, eventID, search string) ([]*domain.Participant, error) {
	eventOID, err := objectID(eventID)
	if err != nil {
		return nil, err
	}
	filter := bson.D{{Key: "eventId", Value: eventOID}}
	if search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "fullName", Value: pattern}},
			bson.D{{Key: "email", Value: pattern}},
		}})
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	participants := []*domain.Participant{}
	for cur.Next(ctx) {
		var doc participantDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		participants = append(participants, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return participants, nil
}

// ensureIndexes creates the index used by participant listing.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(participantsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "eventId", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	return err
}

package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"eventregistration/internal/domain"
)

var (
	eventDate = time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	createdAt = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
)

func eventDoc(id primitive.ObjectID, title string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "imgUrl", Value: "https://img.example/1.png"},
		{Key: "title", Value: title},
		{Key: "description", Value: "Talks and snacks"},
		{Key: "eventDate", Value: eventDate},
		{Key: "organizer", Value: "Go Kyiv"},
		{Key: "createdAt", Value: createdAt},
		{Key: "updatedAt", Value: createdAt},
	}
}

func TestEventRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewEventRepository(mt.DB)

		e := &domain.Event{Title: "Meetup", EventDate: eventDate, CreatedAt: createdAt, UpdatedAt: createdAt}
		err := repo.Create(context.Background(), e)
		require.NoError(mt, err)
		assert.True(mt, primitive.IsValidObjectID(e.ID))
	})

	mt.Run("write error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))
		repo := NewEventRepository(mt.DB)

		err := repo.Create(context.Background(), &domain.Event{Title: "Meetup"})
		require.Error(mt, err)
	})
}

func TestEventRepository_GetByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	id := primitive.NewObjectID()

	mt.Run("found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.events", mtest.FirstBatch, eventDoc(id, "Meetup")))
		repo := NewEventRepository(mt.DB)

		e, err := repo.GetByID(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), e.ID)
		assert.Equal(mt, "Meetup", e.Title)
		assert.True(mt, eventDate.Equal(e.EventDate))
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.events", mtest.FirstBatch))
		repo := NewEventRepository(mt.DB)

		_, err := repo.GetByID(context.Background(), id.Hex())
		require.ErrorIs(mt, err, domain.ErrNotFound)
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewEventRepository(mt.DB)

		_, err := repo.GetByID(context.Background(), "123")
		require.ErrorIs(mt, err, domain.ErrInvalidID)
	})
}

func TestEventRepository_List(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns page and total", func(mt *mtest.T) {
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "db.events", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(12)}}),
			mtest.CreateCursorResponse(0, "db.events", mtest.FirstBatch, eventDoc(first, "A"), eventDoc(second, "B")),
		)
		repo := NewEventRepository(mt.DB)

		params := domain.EventListParams{PaginationParams: domain.PaginationParams{Page: 2, PageSize: 10}}.Normalize()
		events, total, err := repo.List(context.Background(), params)
		require.NoError(mt, err)
		assert.Equal(mt, 12, total)
		require.Len(mt, events, 2)
		assert.Equal(mt, first.Hex(), events[0].ID)
		assert.Equal(mt, "B", events[1].Title)
	})

	mt.Run("empty collection", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "db.events", mtest.FirstBatch),
			mtest.CreateCursorResponse(0, "db.events", mtest.FirstBatch),
		)
		repo := NewEventRepository(mt.DB)

		events, total, err := repo.List(context.Background(), domain.EventListParams{}.Normalize())
		require.NoError(mt, err)
		assert.Equal(mt, 0, total)
		assert.NotNil(mt, events)
		assert.Empty(mt, events)
	})
}

func TestEventRepository_Update(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	id := primitive.NewObjectID()

	mt.Run("returns updated document", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: eventDoc(id, "Renamed")}})
		repo := NewEventRepository(mt.DB)

		title := "Renamed"
		e, err := repo.Update(context.Background(), id.Hex(), domain.EventPatch{Title: &title}, time.Now().UTC())
		require.NoError(mt, err)
		assert.Equal(mt, "Renamed", e.Title)
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})
		repo := NewEventRepository(mt.DB)

		title := "Renamed"
		_, err := repo.Update(context.Background(), id.Hex(), domain.EventPatch{Title: &title}, time.Now().UTC())
		require.ErrorIs(mt, err, domain.ErrNotFound)
	})

	mt.Run("empty patch reads current", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.events", mtest.FirstBatch, eventDoc(id, "Meetup")))
		repo := NewEventRepository(mt.DB)

		e, err := repo.Update(context.Background(), id.Hex(), domain.EventPatch{}, time.Now().UTC())
		require.NoError(mt, err)
		assert.Equal(mt, "Meetup", e.Title)
	})
}

func TestEventRepository_Delete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	id := primitive.NewObjectID()

	mt.Run("returns removed document", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: eventDoc(id, "Meetup")}})
		repo := NewEventRepository(mt.DB)

		e, err := repo.Delete(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), e.ID)
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewEventRepository(mt.DB)

		_, err := repo.Delete(context.Background(), "not-an-id")
		require.ErrorIs(mt, err, domain.ErrInvalidID)
	})
}

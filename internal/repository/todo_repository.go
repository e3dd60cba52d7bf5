package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todo-backend/internal/domain"
	"todo-backend/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultCollection is the collection name used when none is configured.
const DefaultCollection = "todos"

// defaultOpTimeout bounds every store round-trip so a stalled store call
// cannot outlive the request indefinitely.
const defaultOpTimeout = 5 * time.Second

// TodoRepository defines the interface for todo data operations. It is the
// only component that talks to the document store; it holds no todo state
// of its own.
type TodoRepository interface {
	// Insert stores a validated todo and populates its ID.
	Insert(ctx context.Context, todo *domain.Todo) error

	// FindByID returns the todo, domain.ErrNotFound when no record exists,
	// or domain.ErrInvalidID when the id is malformed.
	FindByID(ctx context.Context, id string) (*domain.Todo, error)

	// Find executes a query spec and returns the matching page of todos
	// plus the total count of matches before pagination.
	Find(ctx context.Context, spec query.Spec) ([]domain.Todo, int64, error)

	// Update applies only the fields present in the patch and stamps
	// updated_at with now. An empty patch reads the current record back.
	Update(ctx context.Context, id string, patch domain.TodoPatch, now time.Time) (*domain.Todo, error)

	// Delete removes the record, reporting whether one existed.
	Delete(ctx context.Context, id string) (bool, error)

	FindByStatus(ctx context.Context, status domain.Status) ([]domain.Todo, error)
	FindOverdue(ctx context.Context, now time.Time) ([]domain.Todo, error)
}

// mongoTodoRepository implements TodoRepository on a MongoDB collection.
type mongoTodoRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoTodoRepository creates a new MongoDB-backed todo repository.
func NewMongoTodoRepository(coll *mongo.Collection) TodoRepository {
	return &mongoTodoRepository{coll: coll, timeout: defaultOpTimeout}
}

func (r *mongoTodoRepository) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStore, op, err)
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return oid, nil
}

// Insert adds a new todo to the collection and fills in the assigned id.
func (r *mongoTodoRepository) Insert(ctx context.Context, todo *domain.Todo) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, todo)
	if err != nil {
		return storeErr("insert todo", err)
	}
	todo.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID retrieves a todo by its hex object id.
func (r *mongoTodoRepository) FindByID(ctx context.Context, id string) (*domain.Todo, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var todo domain.Todo
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&todo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, storeErr("find todo", err)
	}
	return &todo, nil
}

// specFilter builds the match-any-unless-set filter from a query spec.
func specFilter(spec query.Spec) bson.M {
	filter := bson.M{}
	if spec.Status != nil {
		filter["status"] = *spec.Status
	}
	if spec.Priority != nil {
		filter["priority"] = *spec.Priority
	}
	return filter
}

// Find applies filter, sort, skip and limit in that order, and counts the
// matches before pagination so the caller can compute page totals. Ties
// within the sort key are broken by ascending _id, which keeps pagination
// stable across requests.
func (r *mongoTodoRepository) Find(ctx context.Context, spec query.Spec) ([]domain.Todo, int64, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	filter := specFilter(spec)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, storeErr("count todos", err)
	}

	dir := 1
	if spec.Descending {
		dir = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: spec.SortBy, Value: dir}, {Key: "_id", Value: 1}}).
		SetSkip(spec.Skip).
		SetLimit(spec.Limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, storeErr("find todos", err)
	}

	todos := make([]domain.Todo, 0, spec.Limit)
	if err := cursor.All(ctx, &todos); err != nil {
		return nil, 0, storeErr("decode todos", err)
	}
	return todos, total, nil
}

// Update applies the patch fields atomically in a single store operation
// and returns the post-update document.
func (r *mongoTodoRepository) Update(ctx context.Context, id string, patch domain.TodoPatch, now time.Time) (*domain.Todo, error) {
	if patch.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": now}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Priority != nil {
		set["priority"] = *patch.Priority
	}
	if patch.DueDate != nil {
		set["due_date"] = *patch.DueDate
	}

	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var todo domain.Todo
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&todo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, storeErr("update todo", err)
	}
	return &todo, nil
}

// Delete removes a todo by its id, reporting whether a record existed.
func (r *mongoTodoRepository) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}

	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, storeErr("delete todo", err)
	}
	return res.DeletedCount > 0, nil
}

// FindByStatus retrieves all todos with the given status, newest first.
func (r *mongoTodoRepository) FindByStatus(ctx context.Context, status domain.Status) ([]domain.Todo, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, storeErr("find todos by status", err)
	}

	var todos []domain.Todo
	if err := cursor.All(ctx, &todos); err != nil {
		return nil, storeErr("decode todos", err)
	}
	return todos, nil
}

// FindOverdue retrieves todos whose due date is before now and that are not
// completed, soonest due first.
func (r *mongoTodoRepository) FindOverdue(ctx context.Context, now time.Time) ([]domain.Todo, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	filter := bson.M{
		"due_date": bson.M{"$lt": now},
		"status":   bson.M{"$ne": domain.StatusCompleted},
	}
	opts := options.Find().SetSort(bson.D{{Key: "due_date", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeErr("find overdue todos", err)
	}

	var todos []domain.Todo
	if err := cursor.All(ctx, &todos); err != nil {
		return nil, storeErr("decode todos", err)
	}
	return todos, nil
}

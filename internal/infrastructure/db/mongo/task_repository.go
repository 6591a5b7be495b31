package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/task-manager/internal/core/domain"
	"github.com/99minutos/task-manager/internal/core/ports"
)

const collectionTasks = "tasks"

type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection(collectionTasks)}
}

// Create inserts a new task document.
func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.Task
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &t, nil
}

// Update overwrites the mutable fields of t.
func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": t.ID}, bson.M{"$set": bson.M{
		"title":       t.Title,
		"description": t.Description,
		"status":      t.Status,
		"updated_at":  t.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// List returns one window of tasks, newest first, and the count of tasks
// matching the owner and status filters.
func (r *TaskRepository) List(ctx context.Context, f ports.ListTasksFilter) ([]*domain.Task, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	countFilter, windowFilter := buildTaskFilters(f)

	total, err := r.col.CountDocuments(ctx, countFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	cur, err := r.col.Find(ctx, windowFilter, buildTaskFindOptions(f))
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer cur.Close(ctx)

	tasks := make([]*domain.Task, 0, f.Limit)
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, 0, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, total, nil
}

// buildTaskFilters returns the filter used for the total and the one used to
// select the window. They differ only by the cursor condition.
func buildTaskFilters(f ports.ListTasksFilter) (count bson.M, window bson.M) {
	count = bson.M{}
	if f.OwnerID != "" {
		count["user_id"] = f.OwnerID
	}
	if f.Status != "" {
		count["status"] = string(f.Status)
	}

	window = bson.M{}
	for k, v := range count {
		window[k] = v
	}
	if f.Cursor != "" {
		window["_id"] = bson.M{"$lt": f.Cursor}
	}
	return count, window
}

func buildTaskFindOptions(f ports.ListTasksFilter) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	if f.Cursor == "" && f.Skip > 0 {
		opts.SetSkip(int64(f.Skip))
	}
	return opts
}

// EnsureIndexes creates the owner and status indexes used by listings.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "_id", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

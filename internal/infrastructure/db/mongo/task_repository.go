package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskhive/task-tracker/internal/core/domain"
	"github.com/taskhive/task-tracker/internal/core/ports"
)

const collectionTasks = "tasks"

// sortFields maps API sort names to bson field names. Anything not in
// this map falls back to created_at.
var sortFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"title":     "title",
	"priority":  "priority",
	"status":    "status",
	"category":  "category",
}

// TaskRepository implements ports.TaskRepository on MongoDB. Every query
// filters on the owning user's ObjectID, so documents belonging to other
// users are unreachable through this type.
type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection(collectionTasks)}
}

type mongoTask struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Category    string             `bson:"category"`
	Priority    string             `bson:"priority"`
	Status      string             `bson:"status"`
	DueDate     *time.Time         `bson:"due_date,omitempty"`
	UserID      primitive.ObjectID `bson:"user"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (mt mongoTask) toDomain() *domain.Task {
	t := &domain.Task{
		ID:          mt.ID.Hex(),
		Title:       mt.Title,
		Description: mt.Description,
		Category:    mt.Category,
		Priority:    domain.TaskPriority(mt.Priority),
		Status:      domain.TaskStatus(mt.Status),
		UserID:      mt.UserID.Hex(),
		CreatedAt:   mt.CreatedAt.UTC(),
		UpdatedAt:   mt.UpdatedAt.UTC(),
	}
	if mt.DueDate != nil {
		due := mt.DueDate.UTC()
		t.DueDate = &due
	}
	return t
}

// Create inserts a new task document.
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	uid, err := primitive.ObjectIDFromHex(task.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	doc := mongoTask{
		Title:       task.Title,
		Description: task.Description,
		Category:    task.Category,
		Priority:    string(task.Priority),
		Status:      string(task.Status),
		DueDate:     task.DueDate,
		UserID:      uid,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// FindByID retrieves a task by ID and owner. A task owned by someone else
// yields the same ErrTaskNotFound as a missing one.
func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := ownerFilter(userID, taskID)
	if err != nil {
		return nil, err
	}

	var mt mongoTask
	if err := r.col.FindOne(ctx, filter).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return mt.toDomain(), nil
}

// List returns the user's tasks matching the filter, sorted as requested.
func (r *TaskRepository) List(ctx context.Context, filter ports.ListTasksFilter) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	uid, err := primitive.ObjectIDFromHex(filter.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	query := bson.M{"user": uid}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}

	sortField, ok := sortFields[filter.SortBy]
	if !ok {
		sortField = "created_at"
	}
	direction := -1
	if filter.Ascending {
		direction = 1
	}

	cursor, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: sortField, Value: direction}}))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoTask
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	tasks := make([]*domain.Task, len(docs))
	for i, mt := range docs {
		tasks[i] = mt.toDomain()
	}
	return tasks, nil
}

// Update applies a partial $set (and optional $unset for a cleared due
// date), refreshing updated_at, and returns the post-update document.
func (r *TaskRepository) Update(ctx context.Context, userID, taskID string, update ports.TaskUpdate) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := ownerFilter(userID, taskID)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.Priority != nil {
		set["priority"] = string(*update.Priority)
	}
	if update.Status != nil {
		set["status"] = string(*update.Status)
	}

	change := bson.M{"$set": set}
	if update.DueDateSet {
		if update.DueDate != nil {
			set["due_date"] = *update.DueDate
		} else {
			change["$unset"] = bson.M{"due_date": ""}
		}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mt mongoTask
	if err := r.col.FindOneAndUpdate(ctx, filter, change, opts).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return mt.toDomain(), nil
}

// Delete removes the task and returns its state before deletion.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := ownerFilter(userID, taskID)
	if err != nil {
		return nil, err
	}

	var mt mongoTask
	if err := r.col.FindOneAndDelete(ctx, filter).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("delete task: %w", err)
	}
	return mt.toDomain(), nil
}

// Stats runs the three group-and-count aggregations over the user's
// tasks. The pipelines are independent single passes; counts for enum
// values with no tasks are absent here and zero-filled by the service.
func (r *TaskRepository) Stats(ctx context.Context, userID string) (*ports.TaskStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	match := bson.D{{Key: "$match", Value: bson.M{"user": uid}}}

	total, err := r.col.CountDocuments(ctx, bson.M{"user": uid})
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	statusCounts, err := r.groupCounts(ctx, mongo.Pipeline{
		match,
		bson.D{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("group by status: %w", err)
	}

	priorityCounts, err := r.groupCounts(ctx, mongo.Pipeline{
		match,
		bson.D{{Key: "$group", Value: bson.M{"_id": "$priority", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("group by priority: %w", err)
	}

	// Ties on count come back in whatever order the server produces;
	// the contract leaves tie-break order undefined.
	cursor, err := r.col.Aggregate(ctx, mongo.Pipeline{
		match,
		bson.D{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
		bson.D{{Key: "$sort", Value: bson.M{"count": -1}}},
		bson.D{{Key: "$limit", Value: 5}},
	})
	if err != nil {
		return nil, fmt.Errorf("group by category: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []groupCount
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode category counts: %w", err)
	}

	top := make([]ports.CategoryCount, len(rows))
	for i, row := range rows {
		top[i] = ports.CategoryCount{Category: row.ID, Count: row.Count}
	}

	return &ports.TaskStats{
		Total:          total,
		StatusCounts:   statusCounts,
		PriorityCounts: priorityCounts,
		TopCategories:  top,
	}, nil
}

// EnsureIndexes creates the compound read-optimization indexes.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "priority", Value: 1}}},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "due_date", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

type groupCount struct {
	ID    string `bson:"_id"`
	Count int64  `bson:"count"`
}

func (r *TaskRepository) groupCounts(ctx context.Context, pipeline mongo.Pipeline) (map[string]int64, error) {
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []groupCount
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts, nil
}

// ownerFilter builds the {_id, user} pair every single-task query uses.
// A malformed ID cannot match any document, so it maps to not-found.
func ownerFilter(userID, taskID string) (bson.M, error) {
	tid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}
	return bson.M{"_id": tid, "user": uid}, nil
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kynetiq/social-engine/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrPostNotFound is returned when no post matches the given ID.
var ErrPostNotFound = errors.New("post not found")

// ErrInvalidPostID is returned when a post ID is not a valid ObjectID hex
// string. Handlers map it to a 400, not a 500.
var ErrInvalidPostID = errors.New("invalid post ID format")

func parsePostID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %v", ErrInvalidPostID, err)
	}
	return objID, nil
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	PostExists(ctx context.Context, id string) (bool, error)
	GetAuthorID(ctx context.Context, id string) (uint, error)
	// SetLikesCount writes the recomputed denormalized counter. The like
	// fact table remains the source of truth.
	SetLikesCount(ctx context.Context, postID string, count int64) error
	GetPostsByAuthor(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, error)
	// GetPostsByIDs resolves a batch of post IDs. IDs that do not resolve
	// (deleted or malformed) are skipped.
	GetPostsByIDs(ctx context.Context, ids []string) ([]models.Post, error)
	// ListByAuthorIDs returns posts whose author is in authorIDs, newest
	// first, plus the unpaginated total.
	ListByAuthorIDs(ctx context.Context, authorIDs []uint, skip, limit int64) ([]models.Post, int64, error)
	DeletePost(ctx context.Context, id string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := parsePostID(id)
	if err != nil {
		return nil, err
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// PostExists checks whether a post with the given ID exists
func (r *MongoPostRepository) PostExists(ctx context.Context, id string) (bool, error) {
	objID, err := parsePostID(id)
	if err != nil {
		return false, err
	}
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetAuthorID returns the author of a post without loading its content
func (r *MongoPostRepository) GetAuthorID(ctx context.Context, id string) (uint, error) {
	objID, err := parsePostID(id)
	if err != nil {
		return 0, err
	}

	var doc struct {
		AuthorID uint `bson:"author_id"`
	}
	opts := options.FindOne().SetProjection(bson.M{"author_id": 1})
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, ErrPostNotFound
		}
		return 0, err
	}
	return doc.AuthorID, nil
}

// SetLikesCount overwrites the denormalized likes counter of a post
func (r *MongoPostRepository) SetLikesCount(ctx context.Context, postID string, count int64) error {
	objID, err := parsePostID(postID)
	if err != nil {
		return err
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"likes_count": count}})
	return err
}

// GetPostsByAuthor retrieves posts by a specific author from MongoDB
func (r *MongoPostRepository) GetPostsByAuthor(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, error) {
	var posts []models.Post
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"author_id": authorID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPostsByIDs retrieves a batch of posts by ID from MongoDB
func (r *MongoPostRepository) GetPostsByIDs(ctx context.Context, ids []string) ([]models.Post, error) {
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objIDs = append(objIDs, objID)
	}
	if len(objIDs) == 0 {
		return []models.Post{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByAuthorIDs retrieves one feed page for a set of authors from MongoDB
func (r *MongoPostRepository) ListByAuthorIDs(ctx context.Context, authorIDs []uint, skip, limit int64) ([]models.Post, int64, error) {
	if len(authorIDs) == 0 {
		return []models.Post{}, 0, nil
	}

	filter := bson.M{"author_id": bson.M{"$in": authorIDs}}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// DeletePost removes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := parsePostID(id)
	if err != nil {
		return err
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

package repositories

import (
	"context"
	"time"

	"github.com/tanvir-ahmd/chirpline/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	GetAll(ctx context.Context) ([]models.Post, error)
	GetByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Post, error)
	GetByAuthors(ctx context.Context, authorIDs []primitive.ObjectID) ([]models.Post, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error)
	AddLike(ctx context.Context, postID, userID primitive.ObjectID) error
	RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) error
	AddComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// Create inserts a new post with empty like and comment sets
func (r *MongoPostRepository) Create(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetByID retrieves a post by ObjectID
func (r *MongoPostRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.NewNotFoundError("Post")
		}
		return nil, err
	}
	return &post, nil
}

// GetAll retrieves all posts, newest first
func (r *MongoPostRepository) GetAll(ctx context.Context) ([]models.Post, error) {
	return r.find(ctx, bson.M{}, newestFirst())
}

// GetByAuthor retrieves one author's posts, newest first
func (r *MongoPostRepository) GetByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Post, error) {
	return r.find(ctx, bson.M{"user": authorID}, newestFirst())
}

// GetByAuthors retrieves posts authored by any of the given users, newest first
func (r *MongoPostRepository) GetByAuthors(ctx context.Context, authorIDs []primitive.ObjectID) ([]models.Post, error) {
	return r.find(ctx, bson.M{"user": bson.M{"$in": authorIDs}}, newestFirst())
}

// GetByIDs retrieves posts by id in storage order. No sort: the liked feed
// has no ordering contract.
func (r *MongoPostRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Post, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.collection.Find(ctx, filter, opts)
	} else {
		cursor, err = r.collection.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// AddLike adds userID to the post's like set
func (r *MongoPostRepository) AddLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	return r.updateOne(ctx, postID, bson.M{"$push": bson.M{"likes": userID}})
}

// RemoveLike removes userID from the post's like set
func (r *MongoPostRepository) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	return r.updateOne(ctx, postID, bson.M{"$pull": bson.M{"likes": userID}})
}

// AddComment appends a comment to the post's ordered comment sequence
func (r *MongoPostRepository) AddComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) error {
	return r.updateOne(ctx, postID, bson.M{"$push": bson.M{"comments": comment}})
}

func (r *MongoPostRepository) updateOne(ctx context.Context, postID primitive.ObjectID, update bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": postID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.NewNotFoundError("Post")
	}
	return nil
}

// Delete removes a post record
func (r *MongoPostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.NewNotFoundError("Post")
	}
	return nil
}

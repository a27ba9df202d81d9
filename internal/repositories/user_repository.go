package repositories

import (
	"context"
	"time"

	"github.com/tanvir-ahmd/chirpline/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository defines the interface for user data operations. The
// follower/following and likedPosts mutators each touch a single record; the
// services sequence them in pairs to keep the mirrored lists consistent.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	AddFollower(ctx context.Context, userID, followerID primitive.ObjectID) error
	RemoveFollower(ctx context.Context, userID, followerID primitive.ObjectID) error
	AddFollowing(ctx context.Context, userID, followingID primitive.ObjectID) error
	RemoveFollowing(ctx context.Context, userID, followingID primitive.ObjectID) error
	AddLikedPost(ctx context.Context, userID, postID primitive.ObjectID) error
	RemoveLikedPost(ctx context.Context, userID, postID primitive.ObjectID) error
	Sample(ctx context.Context, exclude primitive.ObjectID, size int) ([]models.User, error)
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// Create inserts a new user with empty follow and like sets
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	if user.Following == nil {
		user.Following = []primitive.ObjectID{}
	}
	if user.LikedPosts == nil {
		user.LikedPosts = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// GetByID retrieves a user by ObjectID
func (r *MongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByUsername retrieves a user by username
func (r *MongoUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// GetByEmail retrieves a user by email
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.NewNotFoundError("User")
		}
		return nil, err
	}
	return &user, nil
}

// Update persists the user's mutable profile fields
func (r *MongoUserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"username":   user.Username,
			"fullName":   user.FullName,
			"email":      user.Email,
			"password":   user.Password,
			"profileImg": user.ProfileImg,
			"coverImg":   user.CoverImg,
			"bio":        user.Bio,
			"link":       user.Link,
			"updated_at": user.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.NewNotFoundError("User")
	}
	return nil
}

// AddFollower adds followerID to the user's followers list
func (r *MongoUserRepository) AddFollower(ctx context.Context, userID, followerID primitive.ObjectID) error {
	return r.updateSet(ctx, userID, "$push", "followers", followerID)
}

// RemoveFollower removes followerID from the user's followers list
func (r *MongoUserRepository) RemoveFollower(ctx context.Context, userID, followerID primitive.ObjectID) error {
	return r.updateSet(ctx, userID, "$pull", "followers", followerID)
}

// AddFollowing adds followingID to the user's following list
func (r *MongoUserRepository) AddFollowing(ctx context.Context, userID, followingID primitive.ObjectID) error {
	return r.updateSet(ctx, userID, "$push", "following", followingID)
}

// RemoveFollowing removes followingID from the user's following list
func (r *MongoUserRepository) RemoveFollowing(ctx context.Context, userID, followingID primitive.ObjectID) error {
	return r.updateSet(ctx, userID, "$pull", "following", followingID)
}

// AddLikedPost adds postID to the user's likedPosts list
func (r *MongoUserRepository) AddLikedPost(ctx context.Context, userID, postID primitive.ObjectID) error {
	return r.updateSet(ctx, userID, "$push", "likedPosts", postID)
}

// RemoveLikedPost removes postID from the user's likedPosts list
func (r *MongoUserRepository) RemoveLikedPost(ctx context.Context, userID, postID primitive.ObjectID) error {
	return r.updateSet(ctx, userID, "$pull", "likedPosts", postID)
}

func (r *MongoUserRepository) updateSet(ctx context.Context, userID primitive.ObjectID, op, field string, value primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{op: bson.M{field: value}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.NewNotFoundError("User")
	}
	return nil
}

// Sample draws up to size random users excluding the given id, using a
// uniform $sample over the collection. Randomness lives here; callers filter
// and truncate.
func (r *MongoUserRepository) Sample(ctx context.Context, exclude primitive.ObjectID, size int) ([]models.User, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": bson.M{"$ne": exclude}}}},
		{{Key: "$sample", Value: bson.M{"size": size}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Package testutil provides in-memory repository and storage doubles used by
// the service and handler tests.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tanvir-ahmd/chirpline/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store bundles the in-memory doubles behind the repository interfaces.
type Store struct {
	Users         *UserRepo
	Posts         *PostRepo
	Notifications *NotificationRepo
	Storage       *StorageStub
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		Users:         &UserRepo{byID: map[primitive.ObjectID]*models.User{}},
		Posts:         &PostRepo{byID: map[primitive.ObjectID]*models.Post{}},
		Notifications: &NotificationRepo{},
		Storage:       &StorageStub{},
	}
}

// AddUser creates and stores a user with empty follow and like sets.
func (s *Store) AddUser(username string) *models.User {
	user := &models.User{
		ID:         primitive.NewObjectID(),
		Username:   username,
		FullName:   username,
		Email:      username + "@example.com",
		Password:   "hashed-" + username,
		Followers:  []primitive.ObjectID{},
		Following:  []primitive.ObjectID{},
		LikedPosts: []primitive.ObjectID{},
		CreatedAt:  time.Now(),
	}
	s.Users.byID[user.ID] = user
	s.Users.order = append(s.Users.order, user.ID)
	return user
}

// AddPost creates and stores a post for the author at the given time.
func (s *Store) AddPost(authorID primitive.ObjectID, text string, createdAt time.Time) *models.Post {
	post := &models.Post{
		ID:        primitive.NewObjectID(),
		UserID:    authorID,
		Text:      text,
		Likes:     []primitive.ObjectID{},
		Comments:  []models.Comment{},
		CreatedAt: createdAt,
	}
	s.Posts.byID[post.ID] = post
	s.Posts.order = append(s.Posts.order, post.ID)
	return post
}

// UserRepo is an in-memory repositories.UserRepository. The error fields
// inject failures into individual writes to exercise partial multi-write
// sequences.
type UserRepo struct {
	byID  map[primitive.ObjectID]*models.User
	order []primitive.ObjectID

	AddFollowingErr error
	AddLikedPostErr error
}

// Get returns the stored record itself, for assertions on state.
func (r *UserRepo) Get(id primitive.ObjectID) *models.User {
	return r.byID[id]
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	if user.Following == nil {
		user.Following = []primitive.ObjectID{}
	}
	if user.LikedPosts == nil {
		user.LikedPosts = []primitive.ObjectID{}
	}
	clone := *user
	r.byID[user.ID] = &clone
	r.order = append(r.order, user.ID)
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, models.NewNotFoundError("User")
	}
	return copyUser(user), nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, id := range r.order {
		if r.byID[id].Username == username {
			return copyUser(r.byID[id]), nil
		}
	}
	return nil, models.NewNotFoundError("User")
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, id := range r.order {
		if r.byID[id].Email == email {
			return copyUser(r.byID[id]), nil
		}
	}
	return nil, models.NewNotFoundError("User")
}

func (r *UserRepo) Update(ctx context.Context, user *models.User) error {
	stored, ok := r.byID[user.ID]
	if !ok {
		return models.NewNotFoundError("User")
	}
	stored.Username = user.Username
	stored.FullName = user.FullName
	stored.Email = user.Email
	stored.Password = user.Password
	stored.ProfileImg = user.ProfileImg
	stored.CoverImg = user.CoverImg
	stored.Bio = user.Bio
	stored.Link = user.Link
	return nil
}

func (r *UserRepo) AddFollower(ctx context.Context, userID, followerID primitive.ObjectID) error {
	return r.push(userID, followerID, func(u *models.User) *[]primitive.ObjectID { return &u.Followers }, nil)
}

func (r *UserRepo) RemoveFollower(ctx context.Context, userID, followerID primitive.ObjectID) error {
	return r.pull(userID, followerID, func(u *models.User) *[]primitive.ObjectID { return &u.Followers })
}

func (r *UserRepo) AddFollowing(ctx context.Context, userID, followingID primitive.ObjectID) error {
	return r.push(userID, followingID, func(u *models.User) *[]primitive.ObjectID { return &u.Following }, r.AddFollowingErr)
}

func (r *UserRepo) RemoveFollowing(ctx context.Context, userID, followingID primitive.ObjectID) error {
	return r.pull(userID, followingID, func(u *models.User) *[]primitive.ObjectID { return &u.Following })
}

func (r *UserRepo) AddLikedPost(ctx context.Context, userID, postID primitive.ObjectID) error {
	return r.push(userID, postID, func(u *models.User) *[]primitive.ObjectID { return &u.LikedPosts }, r.AddLikedPostErr)
}

func (r *UserRepo) RemoveLikedPost(ctx context.Context, userID, postID primitive.ObjectID) error {
	return r.pull(userID, postID, func(u *models.User) *[]primitive.ObjectID { return &u.LikedPosts })
}

func (r *UserRepo) push(userID, value primitive.ObjectID, field func(*models.User) *[]primitive.ObjectID, injected error) error {
	if injected != nil {
		return injected
	}
	user, ok := r.byID[userID]
	if !ok {
		return models.NewNotFoundError("User")
	}
	list := field(user)
	*list = append(*list, value)
	return nil
}

func (r *UserRepo) pull(userID, value primitive.ObjectID, field func(*models.User) *[]primitive.ObjectID) error {
	user, ok := r.byID[userID]
	if !ok {
		return models.NewNotFoundError("User")
	}
	list := field(user)
	kept := (*list)[:0]
	for _, id := range *list {
		if id != value {
			kept = append(kept, id)
		}
	}
	*list = kept
	return nil
}

// Sample returns up to size users excluding the given id, in insertion
// order. Deterministic by design so tests can pin suggestion behavior.
func (r *UserRepo) Sample(ctx context.Context, exclude primitive.ObjectID, size int) ([]models.User, error) {
	users := []models.User{}
	for _, id := range r.order {
		if id == exclude {
			continue
		}
		users = append(users, *copyUser(r.byID[id]))
		if len(users) == size {
			break
		}
	}
	return users, nil
}

func copyUser(u *models.User) *models.User {
	clone := *u
	clone.Followers = append([]primitive.ObjectID{}, u.Followers...)
	clone.Following = append([]primitive.ObjectID{}, u.Following...)
	clone.LikedPosts = append([]primitive.ObjectID{}, u.LikedPosts...)
	return &clone
}

// PostRepo is an in-memory repositories.PostRepository.
type PostRepo struct {
	byID  map[primitive.ObjectID]*models.Post
	order []primitive.ObjectID
}

// Get returns the stored record itself, for assertions on state.
func (r *PostRepo) Get(id primitive.ObjectID) *models.Post {
	return r.byID[id]
}

func (r *PostRepo) Create(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	clone := *post
	r.byID[post.ID] = &clone
	r.order = append(r.order, post.ID)
	return nil
}

func (r *PostRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	post, ok := r.byID[id]
	if !ok {
		return nil, models.NewNotFoundError("Post")
	}
	return copyPost(post), nil
}

func (r *PostRepo) GetAll(ctx context.Context) ([]models.Post, error) {
	return r.filter(func(*models.Post) bool { return true }, true), nil
}

func (r *PostRepo) GetByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Post, error) {
	return r.filter(func(p *models.Post) bool { return p.UserID == authorID }, true), nil
}

func (r *PostRepo) GetByAuthors(ctx context.Context, authorIDs []primitive.ObjectID) ([]models.Post, error) {
	set := map[primitive.ObjectID]bool{}
	for _, id := range authorIDs {
		set[id] = true
	}
	return r.filter(func(p *models.Post) bool { return set[p.UserID] }, true), nil
}

func (r *PostRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	set := map[primitive.ObjectID]bool{}
	for _, id := range ids {
		set[id] = true
	}
	return r.filter(func(p *models.Post) bool { return set[p.ID] }, false), nil
}

func (r *PostRepo) filter(keep func(*models.Post) bool, newestFirst bool) []models.Post {
	posts := []models.Post{}
	for _, id := range r.order {
		if keep(r.byID[id]) {
			posts = append(posts, *copyPost(r.byID[id]))
		}
	}
	if newestFirst {
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		})
	}
	return posts
}

func (r *PostRepo) AddLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	post, ok := r.byID[postID]
	if !ok {
		return models.NewNotFoundError("Post")
	}
	post.Likes = append(post.Likes, userID)
	return nil
}

func (r *PostRepo) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	post, ok := r.byID[postID]
	if !ok {
		return models.NewNotFoundError("Post")
	}
	kept := post.Likes[:0]
	for _, id := range post.Likes {
		if id != userID {
			kept = append(kept, id)
		}
	}
	post.Likes = kept
	return nil
}

func (r *PostRepo) AddComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) error {
	post, ok := r.byID[postID]
	if !ok {
		return models.NewNotFoundError("Post")
	}
	post.Comments = append(post.Comments, comment)
	return nil
}

func (r *PostRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.byID[id]; !ok {
		return models.NewNotFoundError("Post")
	}
	delete(r.byID, id)
	kept := r.order[:0]
	for _, pid := range r.order {
		if pid != id {
			kept = append(kept, pid)
		}
	}
	r.order = kept
	return nil
}

func copyPost(p *models.Post) *models.Post {
	clone := *p
	clone.Likes = append([]primitive.ObjectID{}, p.Likes...)
	clone.Comments = append([]models.Comment{}, p.Comments...)
	return &clone
}

// NotificationRepo is an in-memory repositories.NotificationRepository.
type NotificationRepo struct {
	Items  []models.Notification
	nextID uint

	CreateErr error
}

func (r *NotificationRepo) Create(notification *models.Notification) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.nextID++
	notification.ID = r.nextID
	notification.CreatedAt = time.Now()
	r.Items = append(r.Items, *notification)
	return nil
}

func (r *NotificationRepo) GetByRecipient(toID string) ([]models.Notification, error) {
	out := []models.Notification{}
	for _, n := range r.Items {
		if n.ToID == toID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *NotificationRepo) GetByID(id uint) (*models.Notification, error) {
	for _, n := range r.Items {
		if n.ID == id {
			clone := n
			return &clone, nil
		}
	}
	return nil, models.NewNotFoundError("Notification")
}

func (r *NotificationRepo) MarkAllRead(toID string) error {
	for i := range r.Items {
		if r.Items[i].ToID == toID {
			r.Items[i].IsRead = true
		}
	}
	return nil
}

func (r *NotificationRepo) Delete(id uint) error {
	kept := r.Items[:0]
	for _, n := range r.Items {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	r.Items = kept
	return nil
}

func (r *NotificationRepo) DeleteByRecipient(toID string) error {
	kept := r.Items[:0]
	for _, n := range r.Items {
		if n.ToID != toID {
			kept = append(kept, n)
		}
	}
	r.Items = kept
	return nil
}

// StorageStub is an in-memory services.ObjectStorage.
type StorageStub struct {
	Uploaded  []string // payloads handed to Upload
	Destroyed []string // URLs handed to Destroy
	UploadErr error
	counter   int
}

func (s *StorageStub) Upload(ctx context.Context, payload string) (string, error) {
	if s.UploadErr != nil {
		return "", s.UploadErr
	}
	s.counter++
	s.Uploaded = append(s.Uploaded, payload)
	return fmt.Sprintf("https://storage.googleapis.com/test-bucket/obj-%d.jpg", s.counter), nil
}

func (s *StorageStub) Destroy(ctx context.Context, url string) error {
	s.Destroyed = append(s.Destroyed, url)
	return nil
}

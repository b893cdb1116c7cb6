package services

import (
	"context"
	"time"

	"github.com/kapilnath546/study-buddies/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// fakeUserRepo serves a fixed profile set and counts batch lookups
type fakeUserRepo struct {
	users      []models.User
	err        error
	batchCalls int
}

func (f *fakeUserRepo) CreateUser(user *models.User) error { return f.err }

func (f *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			return &f.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	for i := range f.users {
		if f.users[i].FirebaseUID == firebaseUID {
			return &f.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for i := range f.users {
		if f.users[i].Email == email {
			return &f.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetUsersByFirebaseUIDs(firebaseUIDs []string) ([]models.User, error) {
	f.batchCalls++
	if f.err != nil {
		return nil, f.err
	}
	wanted := make(map[string]struct{}, len(firebaseUIDs))
	for _, uid := range firebaseUIDs {
		wanted[uid] = struct{}{}
	}
	var out []models.User
	for _, u := range f.users {
		if _, ok := wanted[u.FirebaseUID]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetUsersByIDs(ids []uint) ([]models.User, error) {
	wanted := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	var out []models.User
	for _, u := range f.users {
		if _, ok := wanted[u.ID]; ok {
			out = append(out, u)
		}
	}
	return out, f.err
}

func (f *fakeUserRepo) GetUsers() ([]models.User, error)       { return f.users, f.err }
func (f *fakeUserRepo) UpdateUser(user *models.User) error     { return f.err }
func (f *fakeUserRepo) DeleteUser(id uint) error               { return f.err }
func (f *fakeUserRepo) SearchUsers(q string) ([]models.User, error) {
	return f.users, f.err
}

// fakePostRepo serves fixed posts and records trending query parameters
type fakePostRepo struct {
	posts         []models.Post
	err           error
	incErr        error
	incCalls      int
	trendingSince time.Time
	trendingLimit int64
}

func (f *fakePostRepo) CreatePost(ctx context.Context, post *models.Post) error { return f.err }

func (f *fakePostRepo) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	for i := range f.posts {
		if f.posts[i].ID.Hex() == id {
			return &f.posts[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePostRepo) GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	return f.posts, f.err
}

func (f *fakePostRepo) GetPostsByUserIDs(ctx context.Context, userIDs []string, skip, limit int64) ([]models.Post, error) {
	wanted := make(map[string]struct{}, len(userIDs))
	for _, uid := range userIDs {
		wanted[uid] = struct{}{}
	}
	var out []models.Post
	for _, p := range f.posts {
		if _, ok := wanted[p.UserID]; ok {
			out = append(out, p)
		}
	}
	return out, f.err
}

func (f *fakePostRepo) GetTrendingPosts(ctx context.Context, since time.Time, limit int64) ([]models.Post, error) {
	f.trendingSince = since
	f.trendingLimit = limit
	return f.posts, f.err
}

func (f *fakePostRepo) CountPosts(ctx context.Context) (int64, error) {
	return int64(len(f.posts)), f.err
}

func (f *fakePostRepo) CountPostsByUserIDs(ctx context.Context, userIDs []string) (int64, error) {
	posts, err := f.GetPostsByUserIDs(ctx, userIDs, 0, int64(len(f.posts)))
	return int64(len(posts)), err
}

func (f *fakePostRepo) DeletePost(ctx context.Context, id string) error { return f.err }

func (f *fakePostRepo) IncrementLikesCount(ctx context.Context, postID string, delta int) error {
	f.incCalls++
	return f.incErr
}

func (f *fakePostRepo) IncrementCommentsCount(ctx context.Context, postID string, delta int) error {
	return f.incErr
}

// fakeLikeRepo tracks like rows in memory
type fakeLikeRepo struct {
	likes     map[string]uint // post ID -> user ID
	createErr error
	deleted   []string
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[string]uint)}
}

func (f *fakeLikeRepo) CreateLike(like *models.Like) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.likes[like.PostID] = like.UserID
	return nil
}

func (f *fakeLikeRepo) DeleteLike(postID string, userID uint) error {
	f.deleted = append(f.deleted, postID)
	delete(f.likes, postID)
	return nil
}

func (f *fakeLikeRepo) HasUserLikedPost(postID string, userID uint) (bool, error) {
	_, ok := f.likes[postID]
	return ok, nil
}

func (f *fakeLikeRepo) GetLikedPostIDs(userID uint, postIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, id := range postIDs {
		if _, ok := f.likes[id]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (f *fakeLikeRepo) GetLikesCountByPostID(postID string) (int64, error) {
	if _, ok := f.likes[postID]; ok {
		return 1, nil
	}
	return 0, nil
}

// fakePollRepo records cast votes and can fail on demand
type fakePollRepo struct {
	castErr   error
	castCalls int
}

func (f *fakePollRepo) CreatePoll(ctx context.Context, poll *models.Poll) error { return nil }

func (f *fakePollRepo) GetPollByID(ctx context.Context, id string) (*models.Poll, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePollRepo) GetAllPolls(ctx context.Context, skip, limit int64) ([]models.Poll, error) {
	return nil, nil
}

func (f *fakePollRepo) CastVote(ctx context.Context, pollID, option string) error {
	f.castCalls++
	return f.castErr
}

func (f *fakePollRepo) DeletePoll(ctx context.Context, id string) error { return nil }

// fakeMatchRepo stores match edges in memory and can fail on demand
type fakeMatchRepo struct {
	matches   []models.Match
	createErr error
	nextID    uint
}

func (f *fakeMatchRepo) CreateMatch(match *models.Match) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, m := range f.matches {
		if m.LikerID == match.LikerID && m.TargetID == match.TargetID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	match.ID = f.nextID
	f.matches = append(f.matches, *match)
	return nil
}

func (f *fakeMatchRepo) GetMatchByID(id uint) (*models.Match, error) {
	for i := range f.matches {
		if f.matches[i].ID == id {
			return &f.matches[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMatchRepo) GetMatchesByUserID(userID uint) ([]models.Match, error) {
	var out []models.Match
	for _, m := range f.matches {
		if m.Involves(userID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) GetMatchedUserIDs(userID uint) ([]uint, error) {
	matches, _ := f.GetMatchesByUserID(userID)
	ids := make([]uint, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.OtherUser(userID))
	}
	return ids, nil
}

// fakeStreakRepo stores streak records in memory
type fakeStreakRepo struct {
	streaks   map[uint]models.LoginStreak
	upsertErr error
}

func newFakeStreakRepo() *fakeStreakRepo {
	return &fakeStreakRepo{streaks: make(map[uint]models.LoginStreak)}
}

func (f *fakeStreakRepo) GetStreakByUserID(userID uint) (*models.LoginStreak, error) {
	s, ok := f.streaks[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (f *fakeStreakRepo) UpsertStreak(streak *models.LoginStreak) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.streaks[streak.UserID] = *streak
	return nil
}

func newPost(author string, likes int, age time.Duration) models.Post {
	return models.Post{
		ID:         primitive.NewObjectID(),
		UserID:     author,
		Content:    "post by " + author,
		LikesCount: likes,
		CreatedAt:  time.Now().Add(-age),
	}
}

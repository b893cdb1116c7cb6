package services

import (
	"context"
	"sort"
	"time"

	"github.com/kapilnath546/study-buddies/internal/models"
	"github.com/kapilnath546/study-buddies/internal/repositories"
	"github.com/rs/zerolog/log"
)

const (
	// TrendingWindow is the rolling window a post must fall into to trend
	TrendingWindow = 24 * time.Hour
	// TrendingLimit caps the trending result size
	TrendingLimit = 3
)

// EnrichedPost is a post joined with its author profile and the viewer's
// like state.
type EnrichedPost struct {
	models.Post
	Author  models.UserCompact `json:"author"`
	IsLiked bool               `json:"is_liked"`
}

// FeedService joins the loosely coupled collections (posts, profiles,
// likes) into feed view models. The referenced profiles are always fetched
// in a single batched lookup, never one query per post.
type FeedService struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	likeRepository repositories.LikeRepository
}

// NewFeedService creates a new FeedService
func NewFeedService(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	likeRepo repositories.LikeRepository,
) *FeedService {
	return &FeedService{
		postRepository: postRepo,
		userRepository: userRepo,
		likeRepository: likeRepo,
	}
}

// BuildFeed returns one page of the feed enriched with author profiles and
// the viewer's like flags.
func (s *FeedService) BuildFeed(ctx context.Context, viewerID uint, skip, limit int64) ([]EnrichedPost, error) {
	posts, err := s.postRepository.GetAllPosts(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, viewerID, posts)
}

// Trending returns at most TrendingLimit posts from the last 24 hours,
// ordered by like count descending, enriched like the main feed.
func (s *FeedService) Trending(ctx context.Context, viewerID uint) ([]EnrichedPost, error) {
	since := time.Now().Add(-TrendingWindow)
	posts, err := s.postRepository.GetTrendingPosts(ctx, since, TrendingLimit)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, viewerID, posts)
}

// FilteredFeed applies the profile predicates first, then fetches only the
// posts authored by the matching profiles and joins them as usual.
func (s *FeedService) FilteredFeed(ctx context.Context, viewerID uint, filter models.ProfileFilter, skip, limit int64) ([]EnrichedPost, error) {
	if filter == (models.ProfileFilter{}) {
		return s.BuildFeed(ctx, viewerID, skip, limit)
	}

	uids, err := s.matchingAuthorUIDs(filter)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepository.GetPostsByUserIDs(ctx, uids, skip, limit)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, viewerID, posts)
}

// CountFeed returns the total number of posts the filter admits, for
// pagination metadata. An empty filter counts the whole feed.
func (s *FeedService) CountFeed(ctx context.Context, filter models.ProfileFilter) (int64, error) {
	if filter == (models.ProfileFilter{}) {
		return s.postRepository.CountPosts(ctx)
	}
	uids, err := s.matchingAuthorUIDs(filter)
	if err != nil {
		return 0, err
	}
	return s.postRepository.CountPostsByUserIDs(ctx, uids)
}

// matchingAuthorUIDs resolves the profile predicates to the Firebase UIDs
// of the matching authors.
func (s *FeedService) matchingAuthorUIDs(filter models.ProfileFilter) ([]string, error) {
	users, err := s.userRepository.GetUsers()
	if err != nil {
		return nil, err
	}
	matching := FilterProfiles(users, filter)
	uids := make([]string, 0, len(matching))
	for _, u := range matching {
		if u.FirebaseUID != "" {
			uids = append(uids, u.FirebaseUID)
		}
	}
	return uids, nil
}

// enrich joins posts to author profiles with one batched lookup and stamps
// the viewer's like flags. A post whose author cannot be resolved gets the
// Unknown User placeholder instead of failing the whole aggregation.
func (s *FeedService) enrich(ctx context.Context, viewerID uint, posts []models.Post) ([]EnrichedPost, error) {
	enriched := make([]EnrichedPost, 0, len(posts))
	if len(posts) == 0 {
		return enriched, nil
	}

	// Collect distinct author UIDs and post IDs
	seen := make(map[string]struct{})
	uids := make([]string, 0, len(posts))
	postIDs := make([]string, len(posts))
	for i, p := range posts {
		if _, ok := seen[p.UserID]; !ok {
			seen[p.UserID] = struct{}{}
			uids = append(uids, p.UserID)
		}
		postIDs[i] = p.ID.Hex()
	}

	users, err := s.userRepository.GetUsersByFirebaseUIDs(uids)
	if err != nil {
		return nil, err
	}
	userMap := make(map[string]models.UserCompact, len(users))
	for _, u := range users {
		userMap[u.FirebaseUID] = u.ToCompact()
	}

	likedMap := make(map[string]bool)
	if viewerID > 0 {
		likedMap, err = s.likeRepository.GetLikedPostIDs(viewerID, postIDs)
		if err != nil {
			// Like flags are cosmetic; log and degrade to unliked
			log.Warn().Err(err).Uint("viewer_id", viewerID).Msg("Failed to resolve like flags")
			likedMap = map[string]bool{}
		}
	}

	for _, p := range posts {
		author, ok := userMap[p.UserID]
		if !ok {
			author = models.UnknownUser
		}
		enriched = append(enriched, EnrichedPost{
			Post:    p,
			Author:  author,
			IsLiked: likedMap[p.ID.Hex()],
		})
	}
	return enriched, nil
}

// FilterProfiles applies the directory predicates to a profile set. All set
// predicates must match (logical AND); tag matches are case-sensitive and
// exact.
func FilterProfiles(users []models.User, filter models.ProfileFilter) []models.User {
	matched := make([]models.User, 0, len(users))
	for _, u := range users {
		if filter.Course != "" && u.Course != filter.Course {
			continue
		}
		if filter.Skill != "" && !containsTag(u.Skills, filter.Skill) {
			continue
		}
		if filter.Interest != "" && !containsTag(u.Interests, filter.Interest) {
			continue
		}
		matched = append(matched, u)
	}
	return matched
}

// CollectFilterOptions gathers the distinct skills, interests and courses
// observed across all profiles, sorted for stable picker rendering.
func (s *FeedService) CollectFilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	users, err := s.userRepository.GetUsers()
	if err != nil {
		return nil, err
	}

	skills := make(map[string]struct{})
	interests := make(map[string]struct{})
	courses := make(map[string]struct{})
	for _, u := range users {
		for _, t := range u.Skills {
			skills[t] = struct{}{}
		}
		for _, t := range u.Interests {
			interests[t] = struct{}{}
		}
		if u.Course != "" {
			courses[u.Course] = struct{}{}
		}
	}

	return &models.FilterOptions{
		Skills:    sortedKeys(skills),
		Interests: sortedKeys(interests),
		Courses:   sortedKeys(courses),
	}, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

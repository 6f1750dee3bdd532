// internal/database/memory.go
package database

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/algrissette/uvavine/internal/models"
	"github.com/algrissette/uvavine/internal/utils"
	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store backend. It mirrors the MongoDB
// adapter's semantics (case-insensitive substring matching stands in for
// the regex queries) and backs tests and local development.
type MemoryStore struct {
	mu            sync.RWMutex
	users         map[uuid.UUID]*models.User
	blogs         map[uuid.UUID]*models.Blog
	comments      map[uuid.UUID]*models.Comment
	notifications map[uuid.UUID]*models.Notification
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[uuid.UUID]*models.User),
		blogs:         make(map[uuid.UUID]*models.Blog),
		comments:      make(map[uuid.UUID]*models.Comment),
		notifications: make(map[uuid.UUID]*models.Notification),
	}
}

func (s *MemoryStore) Ping(ctx context.Context) error  { return nil }
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

func cloneUser(u *models.User) *models.User {
	cp := *u
	cp.Blogs = append([]uuid.UUID(nil), u.Blogs...)
	if u.SocialLinks != nil {
		cp.SocialLinks = make(map[string]string, len(u.SocialLinks))
		for k, v := range u.SocialLinks {
			cp.SocialLinks[k] = v
		}
	}
	return &cp
}

func cloneBlog(b *models.Blog) *models.Blog {
	cp := *b
	cp.Tags = append([]string(nil), b.Tags...)
	cp.Comments = append([]uuid.UUID(nil), b.Comments...)
	cp.Author = nil
	return &cp
}

func cloneComment(c *models.Comment) *models.Comment {
	cp := *c
	cp.Children = append([]uuid.UUID(nil), c.Children...)
	cp.Commenter = nil
	if c.ParentID != nil {
		parent := *c.ParentID
		cp.ParentID = &parent
	}
	return &cp
}

func cloneNotification(n *models.Notification) *models.Notification {
	cp := *n
	copyRef := func(id *uuid.UUID) *uuid.UUID {
		if id == nil {
			return nil
		}
		v := *id
		return &v
	}
	cp.CommentID = copyRef(n.CommentID)
	cp.RepliedOnComment = copyRef(n.RepliedOnComment)
	cp.Reply = copyRef(n.Reply)
	cp.User, cp.Blog, cp.Comment, cp.RepliedOnExcerpt, cp.ReplyExcerpt = nil, nil, nil, nil, nil
	return &cp
}

func paginate[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return nil
	}
	items = items[skip:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// User methods

func (s *MemoryStore) SaveUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "User not found", nil)
	}
	return cloneUser(user), nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, utils.NewAppError(utils.ErrNotFound, "User not found", nil)
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			return cloneUser(user), nil
		}
	}
	return nil, utils.NewAppError(utils.ErrNotFound, "User not found", nil)
}

func (s *MemoryStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) SearchUsers(ctx context.Context, query string, limit int) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	query = strings.ToLower(query)
	var users []*models.User
	for _, user := range s.users {
		if strings.Contains(strings.ToLower(user.Username), query) {
			users = append(users, cloneUser(user))
			if limit > 0 && len(users) == limit {
				break
			}
		}
	}
	return users, nil
}

func (s *MemoryStore) UpdateUserPassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return utils.NewAppError(utils.ErrNotFound, "User not found", nil)
	}
	user.HashedPassword = hashedPassword
	return nil
}

func (s *MemoryStore) UpdateUserProfile(ctx context.Context, id uuid.UUID, username, bio string, socialLinks map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return utils.NewAppError(utils.ErrNotFound, "User not found", nil)
	}
	user.Username = username
	user.Bio = bio
	user.SocialLinks = socialLinks
	return nil
}

func (s *MemoryStore) UpdateUserProfileImg(ctx context.Context, id uuid.UUID, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return utils.NewAppError(utils.ErrNotFound, "User not found", nil)
	}
	user.ProfileImg = url
	return nil
}

func (s *MemoryStore) AddBlogToUser(ctx context.Context, userID, blogID uuid.UUID, postDelta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return utils.NewAppError(utils.ErrNotFound, "User not found", nil)
	}
	user.Blogs = append(user.Blogs, blogID)
	user.TotalPosts += postDelta
	return nil
}

func (s *MemoryStore) RemoveBlogFromUser(ctx context.Context, userID, blogID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return utils.NewAppError(utils.ErrNotFound, "User not found", nil)
	}
	blogs := user.Blogs[:0]
	for _, id := range user.Blogs {
		if id != blogID {
			blogs = append(blogs, id)
		}
	}
	user.Blogs = blogs
	user.TotalPosts--
	return nil
}

func (s *MemoryStore) IncrementUserReads(ctx context.Context, userID uuid.UUID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return utils.NewAppError(utils.ErrNotFound, "User not found", nil)
	}
	user.TotalReads += delta
	return nil
}

// Blog methods

func (s *MemoryStore) SaveBlog(ctx context.Context, blog *models.Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blogs[blog.ID] = cloneBlog(blog)
	return nil
}

func (s *MemoryStore) GetBlog(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blog, ok := s.blogs[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Blog not found", nil)
	}
	return cloneBlog(blog), nil
}

func (s *MemoryStore) GetBlogBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, blog := range s.blogs {
		if blog.Slug == slug {
			return cloneBlog(blog), nil
		}
	}
	return nil, utils.NewAppError(utils.ErrNotFound, "Blog not found", nil)
}

func (s *MemoryStore) IncrementBlogReads(ctx context.Context, slug string, delta int) (*models.Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, blog := range s.blogs {
		if blog.Slug == slug {
			blog.Activity.TotalReads += delta
			return cloneBlog(blog), nil
		}
	}
	return nil, utils.NewAppError(utils.ErrNotFound, "Blog not found", nil)
}

func (s *MemoryStore) IncrementBlogLikes(ctx context.Context, blogID uuid.UUID, delta int) (*models.Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blog, ok := s.blogs[blogID]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Blog not found", nil)
	}
	blog.Activity.TotalLikes += delta
	return cloneBlog(blog), nil
}

func (s *MemoryStore) matchBlogs(filter BlogFilter) []*models.Blog {
	var blogs []*models.Blog
	for _, blog := range s.blogs {
		if filter.Draft != nil && blog.Draft != *filter.Draft {
			continue
		}
		if filter.Tag != "" {
			found := false
			for _, tag := range blog.Tags {
				if tag == filter.Tag {
					found = true
					break
				}
			}
			if !found || blog.Slug == filter.ExcludeSlug {
				continue
			}
		} else if filter.TitleQuery != "" &&
			!strings.Contains(strings.ToLower(blog.Title), strings.ToLower(filter.TitleQuery)) {
			continue
		}
		if filter.AuthorID != uuid.Nil && blog.AuthorID != filter.AuthorID {
			continue
		}
		blogs = append(blogs, cloneBlog(blog))
	}
	sort.Slice(blogs, func(i, j int) bool {
		return blogs[i].PublishedAt.After(blogs[j].PublishedAt)
	})
	return blogs
}

func (s *MemoryStore) ListLatestBlogs(ctx context.Context, skip, limit int) ([]*models.Blog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	published := false
	blogs := s.matchBlogs(BlogFilter{Draft: &published})
	return paginate(blogs, skip, limit), nil
}

func (s *MemoryStore) ListTrendingBlogs(ctx context.Context, limit int) ([]*models.Blog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	published := false
	blogs := s.matchBlogs(BlogFilter{Draft: &published})
	sort.Slice(blogs, func(i, j int) bool {
		a, b := blogs[i], blogs[j]
		if a.Activity.TotalReads != b.Activity.TotalReads {
			return a.Activity.TotalReads > b.Activity.TotalReads
		}
		if a.Activity.TotalLikes != b.Activity.TotalLikes {
			return a.Activity.TotalLikes > b.Activity.TotalLikes
		}
		return a.PublishedAt.After(b.PublishedAt)
	})
	return paginate(blogs, 0, limit), nil
}

func (s *MemoryStore) SearchBlogs(ctx context.Context, filter BlogFilter, skip, limit int) ([]*models.Blog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return paginate(s.matchBlogs(filter), skip, limit), nil
}

func (s *MemoryStore) CountBlogs(ctx context.Context, filter BlogFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.matchBlogs(filter))), nil
}

func (s *MemoryStore) AddCommentToBlog(ctx context.Context, blogID, commentID uuid.UUID, parentDelta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	blog, ok := s.blogs[blogID]
	if !ok {
		return utils.NewAppError(utils.ErrNotFound, "Blog not found", nil)
	}
	blog.Comments = append(blog.Comments, commentID)
	blog.Activity.TotalComments++
	blog.Activity.TotalParentComments += parentDelta
	return nil
}

func (s *MemoryStore) RemoveCommentFromBlog(ctx context.Context, blogID, commentID uuid.UUID, parentDelta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	blog, ok := s.blogs[blogID]
	if !ok {
		return utils.NewAppError(utils.ErrNotFound, "Blog not found", nil)
	}
	comments := blog.Comments[:0]
	for _, id := range blog.Comments {
		if id != commentID {
			comments = append(comments, id)
		}
	}
	blog.Comments = comments
	blog.Activity.TotalComments--
	blog.Activity.TotalParentComments -= parentDelta
	return nil
}

func (s *MemoryStore) DeleteBlog(ctx context.Context, blogID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blogs[blogID]; !ok {
		return utils.NewAppError(utils.ErrNotFound, "Blog not found", nil)
	}
	delete(s.blogs, blogID)
	return nil
}

// Comment methods

func (s *MemoryStore) SaveComment(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[comment.ID] = cloneComment(comment)
	return nil
}

func (s *MemoryStore) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	comment, ok := s.comments[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Comment not found", nil)
	}
	return cloneComment(comment), nil
}

func (s *MemoryStore) AddChildComment(ctx context.Context, parentID, childID uuid.UUID) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	parent, ok := s.comments[parentID]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Parent comment not found", nil)
	}
	parent.Children = append(parent.Children, childID)
	return cloneComment(parent), nil
}

func (s *MemoryStore) RemoveChildComment(ctx context.Context, parentID, childID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	parent, ok := s.comments[parentID]
	if !ok {
		return nil
	}
	children := parent.Children[:0]
	for _, id := range parent.Children {
		if id != childID {
			children = append(children, id)
		}
	}
	parent.Children = children
	return nil
}

func (s *MemoryStore) GetBlogComments(ctx context.Context, blogID uuid.UUID, skip, limit int) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var comments []*models.Comment
	for _, comment := range s.comments {
		if comment.BlogID == blogID && !comment.IsReply {
			comments = append(comments, cloneComment(comment))
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CommentedAt.After(comments[j].CommentedAt)
	})
	return paginate(comments, skip, limit), nil
}

func (s *MemoryStore) GetCommentReplies(ctx context.Context, commentID uuid.UUID, skip, limit int) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var replies []*models.Comment
	for _, comment := range s.comments {
		if comment.ParentID != nil && *comment.ParentID == commentID {
			replies = append(replies, cloneComment(comment))
		}
	}
	sort.Slice(replies, func(i, j int) bool {
		return replies[i].CommentedAt.After(replies[j].CommentedAt)
	})
	return paginate(replies, skip, limit), nil
}

func (s *MemoryStore) DeleteComment(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return utils.NewAppError(utils.ErrNotFound, "Comment not found", nil)
	}
	delete(s.comments, id)
	return nil
}

func (s *MemoryStore) DeleteBlogComments(ctx context.Context, blogID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for id, comment := range s.comments {
		if comment.BlogID == blogID {
			delete(s.comments, id)
			deleted++
		}
	}
	return deleted, nil
}

// Notification methods

func (s *MemoryStore) SaveNotification(ctx context.Context, notification *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[notification.ID] = cloneNotification(notification)
	return nil
}

func (s *MemoryStore) DeleteLikeNotification(ctx context.Context, userID, blogID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, n := range s.notifications {
		if n.UserID == userID && n.BlogID == blogID && n.Type == models.NotificationLike {
			delete(s.notifications, id)
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) LikeNotificationExists(ctx context.Context, userID, blogID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.notifications {
		if n.UserID == userID && n.BlogID == blogID && n.Type == models.NotificationLike {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) HasUnseenNotifications(ctx context.Context, userID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.notifications {
		if n.NotificationFor == userID && n.UserID != userID && !n.Seen {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) matchNotifications(userID uuid.UUID, typeFilter string) []*models.Notification {
	var notifications []*models.Notification
	for _, n := range s.notifications {
		if n.NotificationFor != userID || n.UserID == userID {
			continue
		}
		if typeFilter != "" && typeFilter != "all" && n.Type != typeFilter {
			continue
		}
		notifications = append(notifications, cloneNotification(n))
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications
}

func (s *MemoryStore) ListNotifications(ctx context.Context, userID uuid.UUID, typeFilter string, skip, limit int) ([]*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return paginate(s.matchNotifications(userID, typeFilter), skip, limit), nil
}

func (s *MemoryStore) MarkNotificationsSeen(ctx context.Context, userID uuid.UUID, typeFilter string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications {
		if n.NotificationFor != userID || n.UserID == userID {
			continue
		}
		if typeFilter != "" && typeFilter != "all" && n.Type != typeFilter {
			continue
		}
		n.Seen = true
	}
	return nil
}

func (s *MemoryStore) CountNotifications(ctx context.Context, userID uuid.UUID, typeFilter string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.matchNotifications(userID, typeFilter))), nil
}

func (s *MemoryStore) AttachReplyToNotification(ctx context.Context, notificationID, commentID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[notificationID]
	if !ok {
		return utils.NewAppError(utils.ErrNotFound, "Notification not found", nil)
	}
	reply := commentID
	n.Reply = &reply
	return nil
}

func (s *MemoryStore) DeleteCommentNotifications(ctx context.Context, commentID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, n := range s.notifications {
		if n.CommentID != nil && *n.CommentID == commentID {
			delete(s.notifications, id)
		}
	}
	return nil
}

func (s *MemoryStore) DetachReplyNotifications(ctx context.Context, commentID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications {
		if n.Reply != nil && *n.Reply == commentID {
			n.Reply = nil
		}
	}
	return nil
}

func (s *MemoryStore) DeleteBlogNotifications(ctx context.Context, blogID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for id, n := range s.notifications {
		if n.BlogID == blogID {
			delete(s.notifications, id)
			deleted++
		}
	}
	return deleted, nil
}

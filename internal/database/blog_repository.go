// internal/database/blog_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/algrissette/uvavine/internal/models"
	"github.com/algrissette/uvavine/internal/utils"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActivityDocument mirrors the embedded activity counters
type ActivityDocument struct {
	TotalLikes          int `bson:"total_likes"`
	TotalComments       int `bson:"total_comments"`
	TotalReads          int `bson:"total_reads"`
	TotalParentComments int `bson:"total_parent_comments"`
}

// BlogDocument represents blog data in MongoDB
type BlogDocument struct {
	ID          string                 `bson:"_id"`
	Slug        string                 `bson:"blog_id"`
	Title       string                 `bson:"title"`
	Des         string                 `bson:"des"`
	Banner      string                 `bson:"banner"`
	Content     map[string]interface{} `bson:"content"`
	Tags        []string               `bson:"tags"`
	AuthorID    string                 `bson:"author"`
	Activity    ActivityDocument       `bson:"activity"`
	Comments    []string               `bson:"comments"`
	Draft       bool                   `bson:"draft"`
	PublishedAt time.Time              `bson:"publishedAt"`
}

func blogModelToDocument(blog *models.Blog) *BlogDocument {
	doc := &BlogDocument{
		ID:       blog.ID.String(),
		Slug:     blog.Slug,
		Title:    blog.Title,
		Des:      blog.Des,
		Banner:   blog.Banner,
		Content:  blog.Content,
		Tags:     blog.Tags,
		AuthorID: blog.AuthorID.String(),
		Activity: ActivityDocument{
			TotalLikes:          blog.Activity.TotalLikes,
			TotalComments:       blog.Activity.TotalComments,
			TotalReads:          blog.Activity.TotalReads,
			TotalParentComments: blog.Activity.TotalParentComments,
		},
		Comments:    make([]string, len(blog.Comments)),
		Draft:       blog.Draft,
		PublishedAt: blog.PublishedAt,
	}
	for i, commentID := range blog.Comments {
		doc.Comments[i] = commentID.String()
	}
	return doc
}

func blogDocumentToModel(doc *BlogDocument) (*models.Blog, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid blog ID: %v", err)
	}

	authorID, err := uuid.Parse(doc.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author ID: %v", err)
	}

	comments := make([]uuid.UUID, len(doc.Comments))
	for i, idStr := range doc.Comments {
		commentID, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid comment ID: %v", err)
		}
		comments[i] = commentID
	}

	return &models.Blog{
		ID:       id,
		Slug:     doc.Slug,
		Title:    doc.Title,
		Des:      doc.Des,
		Banner:   doc.Banner,
		Content:  doc.Content,
		Tags:     doc.Tags,
		AuthorID: authorID,
		Activity: models.Activity{
			TotalLikes:          doc.Activity.TotalLikes,
			TotalComments:       doc.Activity.TotalComments,
			TotalReads:          doc.Activity.TotalReads,
			TotalParentComments: doc.Activity.TotalParentComments,
		},
		Comments:    comments,
		Draft:       doc.Draft,
		PublishedAt: doc.PublishedAt,
	}, nil
}

func blogFilterToQuery(filter BlogFilter) bson.M {
	query := bson.M{}
	if filter.Draft != nil {
		query["draft"] = *filter.Draft
	}
	if filter.Tag != "" {
		query["tags"] = filter.Tag
		if filter.ExcludeSlug != "" {
			query["blog_id"] = bson.M{"$ne": filter.ExcludeSlug}
		}
	} else if filter.TitleQuery != "" {
		query["title"] = primitive.Regex{Pattern: filter.TitleQuery, Options: "i"}
	}
	if filter.AuthorID != uuid.Nil {
		query["author"] = filter.AuthorID.String()
	}
	return query
}

// SaveBlog creates or updates a blog
func (m *MongoDB) SaveBlog(ctx context.Context, blog *models.Blog) error {
	doc := blogModelToDocument(blog)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}

	_, err := m.Blogs.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save blog: %v", err)
	}
	return nil
}

// GetBlog retrieves a blog by document ID
func (m *MongoDB) GetBlog(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	var doc BlogDocument
	err := m.Blogs.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Blog not found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blog: %v", err)
	}
	return blogDocumentToModel(&doc)
}

// GetBlogBySlug retrieves a blog by its human-readable blog_id
func (m *MongoDB) GetBlogBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	var doc BlogDocument
	err := m.Blogs.FindOne(ctx, bson.M{"blog_id": slug}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Blog not found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blog: %v", err)
	}
	return blogDocumentToModel(&doc)
}

// IncrementBlogReads atomically bumps total_reads and returns the updated
// blog
func (m *MongoDB) IncrementBlogReads(ctx context.Context, slug string, delta int) (*models.Blog, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc BlogDocument
	err := m.Blogs.FindOneAndUpdate(ctx,
		bson.M{"blog_id": slug},
		bson.M{"$inc": bson.M{"activity.total_reads": delta}},
		opts,
	).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Blog not found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update blog reads: %v", err)
	}
	return blogDocumentToModel(&doc)
}

// IncrementBlogLikes atomically applies a like/unlike delta and returns
// the updated blog
func (m *MongoDB) IncrementBlogLikes(ctx context.Context, blogID uuid.UUID, delta int) (*models.Blog, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc BlogDocument
	err := m.Blogs.FindOneAndUpdate(ctx,
		bson.M{"_id": blogID.String()},
		bson.M{"$inc": bson.M{"activity.total_likes": delta}},
		opts,
	).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Blog not found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update blog likes: %v", err)
	}
	return blogDocumentToModel(&doc)
}

// ListLatestBlogs returns published blogs, newest first
func (m *MongoDB) ListLatestBlogs(ctx context.Context, skip, limit int) ([]*models.Blog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "publishedAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	return m.findBlogs(ctx, bson.M{"draft": false}, opts)
}

// ListTrendingBlogs returns published blogs ordered by read and like
// activity
func (m *MongoDB) ListTrendingBlogs(ctx context.Context, limit int) ([]*models.Blog, error) {
	opts := options.Find().
		SetSort(bson.D{
			{Key: "activity.total_reads", Value: -1},
			{Key: "activity.total_likes", Value: -1},
			{Key: "publishedAt", Value: -1},
		}).
		SetLimit(int64(limit))

	return m.findBlogs(ctx, bson.M{"draft": false}, opts)
}

// SearchBlogs pages through blogs matching the filter, newest first
func (m *MongoDB) SearchBlogs(ctx context.Context, filter BlogFilter, skip, limit int) ([]*models.Blog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "publishedAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	return m.findBlogs(ctx, blogFilterToQuery(filter), opts)
}

// CountBlogs counts blogs matching the filter
func (m *MongoDB) CountBlogs(ctx context.Context, filter BlogFilter) (int64, error) {
	count, err := m.Blogs.CountDocuments(ctx, blogFilterToQuery(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count blogs: %v", err)
	}
	return count, nil
}

func (m *MongoDB) findBlogs(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*models.Blog, error) {
	cursor, err := m.Blogs.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find blogs: %v", err)
	}
	defer cursor.Close(ctx)

	var blogs []*models.Blog
	for cursor.Next(ctx) {
		var doc BlogDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode blog: %v", err)
		}
		blog, err := blogDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, blog)
	}

	return blogs, nil
}

// AddCommentToBlog pushes a comment reference and bumps the comment
// counters. parentDelta is 1 for top-level comments and 0 for replies.
func (m *MongoDB) AddCommentToBlog(ctx context.Context, blogID, commentID uuid.UUID, parentDelta int) error {
	_, err := m.Blogs.UpdateOne(ctx,
		bson.M{"_id": blogID.String()},
		bson.M{
			"$push": bson.M{"comments": commentID.String()},
			"$inc": bson.M{
				"activity.total_comments":        1,
				"activity.total_parent_comments": parentDelta,
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add comment to blog: %v", err)
	}
	return nil
}

// RemoveCommentFromBlog pulls a comment reference and decrements the
// comment counters
func (m *MongoDB) RemoveCommentFromBlog(ctx context.Context, blogID, commentID uuid.UUID, parentDelta int) error {
	_, err := m.Blogs.UpdateOne(ctx,
		bson.M{"_id": blogID.String()},
		bson.M{
			"$pull": bson.M{"comments": commentID.String()},
			"$inc": bson.M{
				"activity.total_comments":        -1,
				"activity.total_parent_comments": -parentDelta,
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to remove comment from blog: %v", err)
	}
	return nil
}

// DeleteBlog removes the blog document itself
func (m *MongoDB) DeleteBlog(ctx context.Context, blogID uuid.UUID) error {
	result, err := m.Blogs.DeleteOne(ctx, bson.M{"_id": blogID.String()})
	if err != nil {
		return fmt.Errorf("failed to delete blog: %v", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewAppError(utils.ErrNotFound, "Blog not found", nil)
	}
	return nil
}

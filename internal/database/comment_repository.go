// internal/database/comment_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/algrissette/uvavine/internal/models"
	"github.com/algrissette/uvavine/internal/utils"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentDocument represents comment data in MongoDB
type CommentDocument struct {
	ID           string    `bson:"_id"`
	BlogID       string    `bson:"blog_id"`
	BlogAuthorID string    `bson:"blog_author"`
	Content      string    `bson:"comment"`
	CommentedBy  string    `bson:"commented_by"`
	IsReply      bool      `bson:"isReply"`
	ParentID     *string   `bson:"parent,omitempty"`
	Children     []string  `bson:"children"`
	CommentedAt  time.Time `bson:"commentedAt"`
}

func commentModelToDocument(comment *models.Comment) *CommentDocument {
	doc := &CommentDocument{
		ID:           comment.ID.String(),
		BlogID:       comment.BlogID.String(),
		BlogAuthorID: comment.BlogAuthorID.String(),
		Content:      comment.Content,
		CommentedBy:  comment.CommentedBy.String(),
		IsReply:      comment.IsReply,
		Children:     make([]string, len(comment.Children)),
		CommentedAt:  comment.CommentedAt,
	}
	for i, childID := range comment.Children {
		doc.Children[i] = childID.String()
	}
	if comment.ParentID != nil {
		parentIDStr := comment.ParentID.String()
		doc.ParentID = &parentIDStr
	}
	return doc
}

func commentDocumentToModel(doc *CommentDocument) (*models.Comment, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid comment ID: %v", err)
	}

	blogID, err := uuid.Parse(doc.BlogID)
	if err != nil {
		return nil, fmt.Errorf("invalid blog ID: %v", err)
	}

	blogAuthorID, err := uuid.Parse(doc.BlogAuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid blog author ID: %v", err)
	}

	commentedBy, err := uuid.Parse(doc.CommentedBy)
	if err != nil {
		return nil, fmt.Errorf("invalid commenter ID: %v", err)
	}

	var parentID *uuid.UUID
	if doc.ParentID != nil {
		parsed, err := uuid.Parse(*doc.ParentID)
		if err != nil {
			return nil, fmt.Errorf("invalid parent ID: %v", err)
		}
		parentID = &parsed
	}

	children := make([]uuid.UUID, len(doc.Children))
	for i, childIDStr := range doc.Children {
		childID, err := uuid.Parse(childIDStr)
		if err != nil {
			return nil, fmt.Errorf("invalid child ID: %v", err)
		}
		children[i] = childID
	}

	return &models.Comment{
		ID:           id,
		BlogID:       blogID,
		BlogAuthorID: blogAuthorID,
		Content:      doc.Content,
		CommentedBy:  commentedBy,
		IsReply:      doc.IsReply,
		ParentID:     parentID,
		Children:     children,
		CommentedAt:  doc.CommentedAt,
	}, nil
}

// SaveComment creates or updates a comment
func (m *MongoDB) SaveComment(ctx context.Context, comment *models.Comment) error {
	doc := commentModelToDocument(comment)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}

	_, err := m.Comments.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save comment: %v", err)
	}
	return nil
}

// GetComment retrieves a comment by ID
func (m *MongoDB) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var doc CommentDocument
	err := m.Comments.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Comment not found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %v", err)
	}
	return commentDocumentToModel(&doc)
}

// AddChildComment appends childID to the parent's children list and
// returns the updated parent
func (m *MongoDB) AddChildComment(ctx context.Context, parentID, childID uuid.UUID) (*models.Comment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc CommentDocument
	err := m.Comments.FindOneAndUpdate(ctx,
		bson.M{"_id": parentID.String()},
		bson.M{"$push": bson.M{"children": childID.String()}},
		opts,
	).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Parent comment not found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update parent comment: %v", err)
	}
	return commentDocumentToModel(&doc)
}

// RemoveChildComment pulls childID from the parent's children list
func (m *MongoDB) RemoveChildComment(ctx context.Context, parentID, childID uuid.UUID) error {
	_, err := m.Comments.UpdateOne(ctx,
		bson.M{"_id": parentID.String()},
		bson.M{"$pull": bson.M{"children": childID.String()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update parent comment: %v", err)
	}
	return nil
}

// GetBlogComments pages through a blog's top-level comments, newest first
func (m *MongoDB) GetBlogComments(ctx context.Context, blogID uuid.UUID, skip, limit int) ([]*models.Comment, error) {
	filter := bson.M{"blog_id": blogID.String(), "isReply": false}
	opts := options.Find().
		SetSort(bson.D{{Key: "commentedAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	return m.findComments(ctx, filter, opts)
}

// GetCommentReplies pages through a comment's direct replies, newest first
func (m *MongoDB) GetCommentReplies(ctx context.Context, commentID uuid.UUID, skip, limit int) ([]*models.Comment, error) {
	parent := commentID.String()
	filter := bson.M{"parent": parent}
	opts := options.Find().
		SetSort(bson.D{{Key: "commentedAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	return m.findComments(ctx, filter, opts)
}

func (m *MongoDB) findComments(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Comment, error) {
	cursor, err := m.Comments.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find comments: %v", err)
	}
	defer cursor.Close(ctx)

	var comments []*models.Comment
	for cursor.Next(ctx) {
		var doc CommentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode comment: %v", err)
		}
		comment, err := commentDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	return comments, nil
}

// DeleteComment removes a single comment document
func (m *MongoDB) DeleteComment(ctx context.Context, id uuid.UUID) error {
	result, err := m.Comments.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete comment: %v", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewAppError(utils.ErrNotFound, "Comment not found", nil)
	}
	return nil
}

// DeleteBlogComments removes every comment on a blog
func (m *MongoDB) DeleteBlogComments(ctx context.Context, blogID uuid.UUID) (int64, error) {
	result, err := m.Comments.DeleteMany(ctx, bson.M{"blog_id": blogID.String()})
	if err != nil {
		return 0, fmt.Errorf("failed to delete blog comments: %v", err)
	}
	return result.DeletedCount, nil
}

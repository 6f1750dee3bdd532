// internal/database/user_repository.go
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

// UserDocument represents the MongoDB schema for a user
type UserDocument struct {
	ID             string            `bson:"_id"`
	Fullname       string            `bson:"fullname"`
	Email          string            `bson:"email"`
	Username       string            `bson:"username"`
	Bio            string            `bson:"bio"`
	ProfileImg     string            `bson:"profile_img"`
	HashedPassword string            `bson:"hashedPassword,omitempty"`
	GoogleAuth     bool              `bson:"google_auth"`
	SocialLinks    map[string]string `bson:"social_links"`
	TotalPosts     int               `bson:"total_posts"`
	TotalReads     int               `bson:"total_reads"`
	Blogs          []string          `bson:"blogs"`
	JoinedAt       time.Time         `bson:"joinedAt"`
}

func userModelToDocument(user *models.User) *UserDocument {
	doc := &UserDocument{
		ID:             user.ID.String(),
		Fullname:       user.Fullname,
		Email:          user.Email,
		Username:       user.Username,
		Bio:            user.Bio,
		ProfileImg:     user.ProfileImg,
		HashedPassword: user.HashedPassword,
		GoogleAuth:     user.GoogleAuth,
		SocialLinks:    user.SocialLinks,
		TotalPosts:     user.TotalPosts,
		TotalReads:     user.TotalReads,
		Blogs:          make([]string, len(user.Blogs)),
		JoinedAt:       user.JoinedAt,
	}
	for i, blogID := range user.Blogs {
		doc.Blogs[i] = blogID.String()
	}
	return doc
}

func userDocumentToModel(doc *UserDocument) (*models.User, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in database: %v", err)
	}

	blogs := make([]uuid.UUID, len(doc.Blogs))
	for i, idStr := range doc.Blogs {
		blogID, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid blog ID in database: %v", err)
		}
		blogs[i] = blogID
	}

	return &models.User{
		ID:             id,
		Fullname:       doc.Fullname,
		Email:          doc.Email,
		Username:       doc.Username,
		Bio:            doc.Bio,
		ProfileImg:     doc.ProfileImg,
		HashedPassword: doc.HashedPassword,
		GoogleAuth:     doc.GoogleAuth,
		SocialLinks:    doc.SocialLinks,
		TotalPosts:     doc.TotalPosts,
		TotalReads:     doc.TotalReads,
		Blogs:          blogs,
		JoinedAt:       doc.JoinedAt,
	}, nil
}

// SaveUser creates or updates a user
func (m *MongoDB) SaveUser(ctx context.Context, user *models.User) error {
	doc := userModelToDocument(user)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}

	_, err := m.Users.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save user: %v", err)
	}
	return nil
}

// GetUser retrieves a user by ID
func (m *MongoDB) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var doc UserDocument
	err := m.Users.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "User not found", err)
	}
	if err != nil {
		return nil, err
	}
	return userDocumentToModel(&doc)
}

// GetUserByEmail retrieves a user by email address
func (m *MongoDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var doc UserDocument
	err := m.Users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "User not found", err)
	}
	if err != nil {
		return nil, err
	}
	return userDocumentToModel(&doc)
}

// GetUserByUsername retrieves a user by username
func (m *MongoDB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var doc UserDocument
	err := m.Users.FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "User not found", err)
	}
	if err != nil {
		return nil, err
	}
	return userDocumentToModel(&doc)
}

// UsernameExists reports whether a username is already taken
func (m *MongoDB) UsernameExists(ctx context.Context, username string) (bool, error) {
	count, err := m.Users.CountDocuments(ctx, bson.M{"username": username}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SearchUsers finds users whose username matches the query,
// case-insensitively
func (m *MongoDB) SearchUsers(ctx context.Context, query string, limit int) ([]*models.User, error) {
	filter := bson.M{"username": primitive.Regex{Pattern: query, Options: "i"}}
	opts := options.Find().SetLimit(int64(limit))

	cursor, err := m.Users.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %v", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	for cursor.Next(ctx) {
		var doc UserDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode user: %v", err)
		}
		user, err := userDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}

// UpdateUserPassword replaces a user's password hash
func (m *MongoDB) UpdateUserPassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	result, err := m.Users.UpdateOne(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{"hashedPassword": hashedPassword}},
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %v", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrNotFound, "User not found", nil)
	}
	return nil
}

// UpdateUserProfile updates the editable profile fields
func (m *MongoDB) UpdateUserProfile(ctx context.Context, id uuid.UUID, username, bio string, socialLinks map[string]string) error {
	result, err := m.Users.UpdateOne(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{
			"username":     username,
			"bio":          bio,
			"social_links": socialLinks,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %v", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrNotFound, "User not found", nil)
	}
	return nil
}

// UpdateUserProfileImg sets the profile image URL
func (m *MongoDB) UpdateUserProfileImg(ctx context.Context, id uuid.UUID, url string) error {
	result, err := m.Users.UpdateOne(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{"profile_img": url}},
	)
	if err != nil {
		return fmt.Errorf("failed to update profile image: %v", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrNotFound, "User not found", nil)
	}
	return nil
}

// AddBlogToUser pushes a blog reference and bumps total_posts by
// postDelta (0 for drafts)
func (m *MongoDB) AddBlogToUser(ctx context.Context, userID, blogID uuid.UUID, postDelta int) error {
	_, err := m.Users.UpdateOne(ctx,
		bson.M{"_id": userID.String()},
		bson.M{
			"$push": bson.M{"blogs": blogID.String()},
			"$inc":  bson.M{"total_posts": postDelta},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add blog to user: %v", err)
	}
	return nil
}

// RemoveBlogFromUser pulls a blog reference and decrements total_posts
func (m *MongoDB) RemoveBlogFromUser(ctx context.Context, userID, blogID uuid.UUID) error {
	_, err := m.Users.UpdateOne(ctx,
		bson.M{"_id": userID.String()},
		bson.M{
			"$pull": bson.M{"blogs": blogID.String()},
			"$inc":  bson.M{"total_posts": -1},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to remove blog from user: %v", err)
	}
	return nil
}

// IncrementUserReads bumps the author's aggregate read counter
func (m *MongoDB) IncrementUserReads(ctx context.Context, userID uuid.UUID, delta int) error {
	_, err := m.Users.UpdateOne(ctx,
		bson.M{"_id": userID.String()},
		bson.M{"$inc": bson.M{"total_reads": delta}},
	)
	if err != nil {
		return fmt.Errorf("failed to update user read count: %v", err)
	}
	return nil
}

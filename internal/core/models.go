package core

import (
	"time"
)

// Collection names in the backing document store.
const (
	CollectionUsers    = "users"
	CollectionPosts    = "posts"
	CollectionComments = "comments"
	CollectionSaves    = "saves"
	CollectionFollows  = "follows"
)

// Document is the generic unit of the document store. System fields
// (id, timestamps) live on the struct, user payload in Data.
type Document struct {
	ID           string
	CollectionID string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Data map[string]any
}

type DocumentList struct {
	Total     int64
	Documents []Document
}

type User struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	ImageURL  string    `json:"imageUrl"`
	ImageID   string    `json:"imageId"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"createdAt"`
}

func UserFromDocument(doc Document) User {
	return User{
		ID:        doc.ID,
		AccountID: docString(doc, "accountId"),
		Name:      docString(doc, "name"),
		Username:  docString(doc, "username"),
		Email:     docString(doc, "email"),
		ImageURL:  docString(doc, "imageUrl"),
		ImageID:   docString(doc, "imageId"),
		Bio:       docString(doc, "bio"),
		CreatedAt: doc.CreatedAt,
	}
}

// UserSummary is the denormalized display snapshot attached to
// followers/following lists and comment authors. Computed per request,
// never persisted.
type UserSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	ImageURL string `json:"imageUrl"`
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		ImageURL: u.ImageURL,
	}
}

type Post struct {
	ID        string    `json:"id"`
	Creator   string    `json:"creator"`
	Caption   string    `json:"caption"`
	ImageURL  string    `json:"imageUrl"`
	ImageID   string    `json:"imageId"`
	Location  string    `json:"location"`
	Tags      []string  `json:"tags"`
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// CreatedAtDisplay is the relative timestamp shown in feeds,
	// attached on the read path.
	CreatedAtDisplay string `json:"createdAtDisplay,omitempty"`
}

func PostFromDocument(doc Document) Post {
	return Post{
		ID:        doc.ID,
		Creator:   docString(doc, "creator"),
		Caption:   docString(doc, "caption"),
		ImageURL:  docString(doc, "imageUrl"),
		ImageID:   docString(doc, "imageId"),
		Location:  docString(doc, "location"),
		Tags:      docStrings(doc, "tags"),
		Likes:     docStrings(doc, "likes"),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`

	CreatedAtDisplay string `json:"createdAtDisplay,omitempty"`

	// Author is attached at read time; nil when the user lookup failed.
	Author *UserSummary `json:"author"`
}

func CommentFromDocument(doc Document) Comment {
	return Comment{
		ID:        doc.ID,
		PostID:    docString(doc, "post"),
		UserID:    docString(doc, "userId"),
		Content:   docString(doc, "content"),
		CreatedAt: doc.CreatedAt,
	}
}

// FollowEdge is a directed follow relationship. At most one edge exists
// per (FollowerID, FollowingID) pair; the invariant is enforced by a
// check before insert, see graph.Store.
type FollowEdge struct {
	ID          string    `json:"id"`
	FollowerID  string    `json:"followerId"`
	FollowingID string    `json:"followingId"`
	FollowedAt  time.Time `json:"followedAt"`
}

func FollowEdgeFromDocument(doc Document) FollowEdge {
	edge := FollowEdge{
		ID:          doc.ID,
		FollowerID:  docString(doc, "followerId"),
		FollowingID: docString(doc, "followingId"),
	}
	if at, err := time.Parse(time.RFC3339, docString(doc, "followedAt")); err == nil {
		edge.FollowedAt = at
	}
	return edge
}

type SavedPost struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	PostID string `json:"postId"`
}

func SavedPostFromDocument(doc Document) SavedPost {
	return SavedPost{
		ID:     doc.ID,
		UserID: docString(doc, "user"),
		PostID: docString(doc, "post"),
	}
}

// ActivityEvent is published to the activity stream on mutations.
type ActivityEvent struct {
	Type      string    `json:"type"`
	ActorID   string    `json:"actorId"`
	SubjectID string    `json:"subjectId"`
	At        time.Time `json:"at"`
}

const (
	ActivityUserFollowed   = "user.followed"
	ActivityUserUnfollowed = "user.unfollowed"
	ActivityPostCreated    = "post.created"
	ActivityPostUpdated    = "post.updated"
	ActivityPostDeleted    = "post.deleted"
	ActivityCommentCreated = "comment.created"
)

func docString(doc Document, key string) string {
	s, _ := doc.Data[key].(string)
	return s
}

func docStrings(doc Document, key string) []string {
	switch v := doc.Data[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Package comments reads and writes post comments, enriching the read
// path with a client-side join against user profiles.
package comments

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"snapgram/internal/core"
	"snapgram/pkg/async"
	"snapgram/pkg/timefmt"
)

const resolveConcurrency = 8

type NewComment struct {
	PostID  string
	UserID  string
	Content string
}

type Service struct {
	Logger   *slog.Logger
	Docs     core.DocumentStore
	Activity core.ActivityPublisher
}

func (s *Service) Init(_ context.Context) error {
	s.Logger = s.Logger.With("component", "comments.Service")
	return nil
}

// ListByPost returns the post's comments newest first, each carrying a
// resolved author snapshot or nil when that user lookup failed. The
// distinct author ids are resolved concurrently into a map before
// attachment; one bad author never fails the batch, but a failed list
// does propagate.
func (s *Service) ListByPost(ctx context.Context, postID string) ([]core.Comment, error) {
	if postID == "" {
		return nil, core.ErrEmptyPostID
	}

	list, err := s.Docs.ListDocuments(ctx, core.CollectionComments,
		core.Equal("post", postID),
		core.OrderDesc("$createdAt"),
	)
	if err != nil {
		return nil, err
	}

	comments := lo.Map(list.Documents, func(doc core.Document, _ int) core.Comment {
		return core.CommentFromDocument(doc)
	})

	authors := s.resolveAuthors(ctx, comments)

	return lo.Map(comments, func(comment core.Comment, _ int) core.Comment {
		if author, ok := authors[comment.UserID]; ok {
			comment.Author = &author
		}
		comment.CreatedAtDisplay = timefmt.MultiFormatDateString(comment.CreatedAt)
		return comment
	}), nil
}

func (s *Service) resolveAuthors(ctx context.Context, comments []core.Comment) map[string]core.UserSummary {
	ids := lo.Uniq(lo.FilterMap(comments, func(comment core.Comment, _ int) (string, bool) {
		return comment.UserID, comment.UserID != ""
	}))

	results := async.ParallelMap(ctx, resolveConcurrency, ids, func(ctx context.Context, id string) (core.UserSummary, error) {
		doc, err := s.Docs.GetDocument(ctx, core.CollectionUsers, id)
		if err != nil {
			s.Logger.Warn("resolving comment author", "userId", id, "error", err)
			return core.UserSummary{}, err
		}
		return core.UserFromDocument(*doc).Summary(), nil
	})

	return lo.Associate(async.Values(results), func(summary core.UserSummary) (string, core.UserSummary) {
		return summary.ID, summary
	})
}

// Create persists a comment. Errors propagate so the caller can revert
// optimistic UI state.
func (s *Service) Create(ctx context.Context, comment NewComment) (*core.Comment, error) {
	if comment.PostID == "" {
		return nil, core.ErrEmptyPostID
	}
	if comment.UserID == "" {
		return nil, core.ErrEmptyUserID
	}

	doc, err := s.Docs.CreateDocument(ctx, core.CollectionComments, core.NewID(), map[string]any{
		"post":    comment.PostID,
		"userId":  comment.UserID,
		"content": comment.Content,
	})
	if err != nil {
		return nil, err
	}

	if s.Activity != nil {
		err := s.Activity.Publish(ctx, core.ActivityEvent{
			Type:      core.ActivityCommentCreated,
			ActorID:   comment.UserID,
			SubjectID: comment.PostID,
			At:        time.Now(),
		})
		if err != nil {
			s.Logger.Warn("publishing activity event", "type", core.ActivityCommentCreated, "error", err)
		}
	}

	created := core.CommentFromDocument(*doc)
	return &created, nil
}

// Delete removes a comment. Errors propagate.
func (s *Service) Delete(ctx context.Context, commentID string) error {
	return s.Docs.DeleteDocument(ctx, core.CollectionComments, commentID)
}

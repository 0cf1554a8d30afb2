// Package graph manages directed follow edges between users.
//
// The backing store has no relational uniqueness or join support, so
// dedup-before-insert and the edge-to-profile join are orchestrated
// here, step by step. Two concurrent Follow calls can both pass the
// existence check and both insert; the window is accepted and
// documented rather than half-fixed with client-side locking (the
// postgres backend additionally carries a unique index on the pair).
package graph

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"snapgram/internal/core"
	"snapgram/pkg/async"
)

const resolveConcurrency = 8

type Store struct {
	Logger   *slog.Logger
	Docs     core.DocumentStore
	Activity core.ActivityPublisher
}

func (s *Store) Init(_ context.Context) error {
	s.Logger = s.Logger.With("component", "graph.Store")
	return nil
}

// FollowStatus returns the edge from follower to following, or nil when
// there is none. It guards a UI affordance, so it fails soft: query
// errors are logged and reported as "not following".
func (s *Store) FollowStatus(ctx context.Context, followerID, followingID string) *core.FollowEdge {
	if followerID == "" || followingID == "" {
		return nil
	}

	list, err := s.Docs.ListDocuments(ctx, core.CollectionFollows,
		core.Equal("followerId", followerID),
		core.Equal("followingId", followingID),
	)
	if err != nil {
		s.Logger.Error("checking follow status", "error", err)
		return nil
	}
	if len(list.Documents) == 0 {
		return nil
	}

	edge := core.FollowEdgeFromDocument(list.Documents[0])
	return &edge
}

// Follow creates the edge from follower to following. Calling it again
// for an existing pair returns the existing edge unchanged.
func (s *Store) Follow(ctx context.Context, followerID, followingID string) (*core.FollowEdge, error) {
	if followerID == "" || followingID == "" {
		return nil, core.ErrEmptyFollowID
	}

	if existing := s.FollowStatus(ctx, followerID, followingID); existing != nil {
		return existing, nil
	}

	now := time.Now()
	doc, err := s.Docs.CreateDocument(ctx, core.CollectionFollows, core.NewID(), map[string]any{
		"followerId":  followerID,
		"followingId": followingID,
		"followedAt":  now.Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, core.ActivityUserFollowed, followerID, followingID)

	edge := core.FollowEdgeFromDocument(*doc)
	return &edge, nil
}

// Unfollow removes the edge from follower to following. A missing edge
// is already the desired state and succeeds.
func (s *Store) Unfollow(ctx context.Context, followerID, followingID string) error {
	if followerID == "" || followingID == "" {
		return core.ErrEmptyFollowID
	}

	edge := s.FollowStatus(ctx, followerID, followingID)
	if edge == nil {
		return nil
	}

	if err := s.Docs.DeleteDocument(ctx, core.CollectionFollows, edge.ID); err != nil {
		return err
	}

	s.publish(ctx, core.ActivityUserUnfollowed, followerID, followingID)
	return nil
}

// FollowerCount counts edges pointing at the user. 0 on error.
func (s *Store) FollowerCount(ctx context.Context, userID string) int64 {
	return s.count(ctx, "followingId", userID)
}

// FollowingCount counts edges leaving the user. 0 on error.
func (s *Store) FollowingCount(ctx context.Context, userID string) int64 {
	return s.count(ctx, "followerId", userID)
}

func (s *Store) count(ctx context.Context, field, userID string) int64 {
	if userID == "" {
		return 0
	}

	list, err := s.Docs.ListDocuments(ctx, core.CollectionFollows, core.Equal(field, userID))
	if err != nil {
		s.Logger.Error("counting follow edges", "field", field, "error", err)
		return 0
	}
	return list.Total
}

// Followers resolves the users following userID to display summaries.
// Individual lookups that fail are dropped from the result.
func (s *Store) Followers(ctx context.Context, userID string) []core.UserSummary {
	return s.resolveEdges(ctx, userID, "followingId", "followerId")
}

// Following resolves the users userID follows to display summaries.
func (s *Store) Following(ctx context.Context, userID string) []core.UserSummary {
	return s.resolveEdges(ctx, userID, "followerId", "followingId")
}

func (s *Store) resolveEdges(ctx context.Context, userID, matchField, extractField string) []core.UserSummary {
	if userID == "" {
		return []core.UserSummary{}
	}

	list, err := s.Docs.ListDocuments(ctx, core.CollectionFollows, core.Equal(matchField, userID))
	if err != nil {
		s.Logger.Error("listing follow edges", "field", matchField, "error", err)
		return []core.UserSummary{}
	}

	ids := lo.Map(list.Documents, func(doc core.Document, _ int) string {
		edge := core.FollowEdgeFromDocument(doc)
		if extractField == "followerId" {
			return edge.FollowerID
		}
		return edge.FollowingID
	})

	results := async.ParallelMap(ctx, resolveConcurrency, ids, func(ctx context.Context, id string) (core.UserSummary, error) {
		doc, err := s.Docs.GetDocument(ctx, core.CollectionUsers, id)
		if err != nil {
			s.Logger.Warn("resolving follow edge user", "userId", id, "error", err)
			return core.UserSummary{}, err
		}
		return core.UserFromDocument(*doc).Summary(), nil
	})

	return async.Values(results)
}

func (s *Store) publish(ctx context.Context, eventType, actorID, subjectID string) {
	if s.Activity == nil {
		return
	}
	err := s.Activity.Publish(ctx, core.ActivityEvent{
		Type:      eventType,
		ActorID:   actorID,
		SubjectID: subjectID,
		At:        time.Now(),
	})
	if err != nil {
		s.Logger.Warn("publishing activity event", "type", eventType, "error", err)
	}
}

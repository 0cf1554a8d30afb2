// Package feed assembles post listings: the home feed, the cursor-paged
// explore feed and caption search.
package feed

import (
	"context"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"snapgram/internal/core"
	"snapgram/pkg/timefmt"
)

const (
	recentPageSize   = 20
	infinitePageSize = 3
)

type Assembler struct {
	Logger *slog.Logger
	Docs   core.DocumentStore
}

func (a *Assembler) Init(_ context.Context) error {
	a.Logger = a.Logger.With("component", "feed.Assembler")
	return nil
}

// Page is one page of the explore feed. NextCursor is empty when the
// store ran out of posts; the caller keeps it between stateless calls.
type Page struct {
	Items      []core.Post `json:"items"`
	NextCursor string      `json:"nextCursor,omitempty"`
}

// RecentPosts returns the newest posts, by creation time descending.
func (a *Assembler) RecentPosts(ctx context.Context) ([]core.Post, error) {
	list, err := a.Docs.ListDocuments(ctx, core.CollectionPosts,
		core.OrderDesc("$createdAt"),
		core.Limit(recentPageSize),
	)
	if err != nil {
		return nil, err
	}
	return posts(list), nil
}

// InfinitePosts returns one page ordered by last update descending,
// starting strictly after the cursor when one is given.
func (a *Assembler) InfinitePosts(ctx context.Context, cursor string) (*Page, error) {
	queries := []core.Query{
		core.OrderDesc("$updatedAt"),
		core.Limit(infinitePageSize),
	}
	if cursor != "" {
		queries = append(queries, core.CursorAfter(cursor))
	}

	list, err := a.Docs.ListDocuments(ctx, core.CollectionPosts, queries...)
	if err != nil {
		return nil, err
	}

	page := &Page{Items: posts(list)}
	if len(page.Items) == infinitePageSize {
		page.NextCursor = page.Items[len(page.Items)-1].ID
	}
	return page, nil
}

// SearchPosts matches the term against captions.
func (a *Assembler) SearchPosts(ctx context.Context, term string) ([]core.Post, error) {
	list, err := a.Docs.ListDocuments(ctx, core.CollectionPosts,
		core.Search("caption", term),
	)
	if err != nil {
		return nil, err
	}
	return posts(list), nil
}

// GetPostByID fetches a single post with its media URL normalized.
func (a *Assembler) GetPostByID(ctx context.Context, postID string) (*core.Post, error) {
	if postID == "" {
		return nil, core.ErrEmptyPostID
	}

	doc, err := a.Docs.GetDocument(ctx, core.CollectionPosts, postID)
	if err != nil {
		return nil, err
	}

	post := enrich(core.PostFromDocument(*doc))
	return &post, nil
}

func posts(list *core.DocumentList) []core.Post {
	return lo.Map(list.Documents, func(doc core.Document, _ int) core.Post {
		return enrich(core.PostFromDocument(doc))
	})
}

func enrich(post core.Post) core.Post {
	post.ImageURL = NormalizeMediaURL(post.ImageURL)
	post.CreatedAtDisplay = timefmt.MultiFormatDateString(post.CreatedAt)
	return post
}

// NormalizeMediaURL rewrites a storage preview link to the view link
// suitable for direct rendering.
func NormalizeMediaURL(url string) string {
	return strings.Replace(url, "/preview", "/view", 1)
}

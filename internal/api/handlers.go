package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"snapgram/internal/comments"
	"snapgram/internal/core"
	"snapgram/internal/identity"
	"snapgram/internal/metrics"
	"snapgram/internal/posts"
	"snapgram/internal/profiles"
)

func (s *Server) routes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/sign-up", s.handleSignUp)
		r.Post("/sign-in", s.handleSignIn)
		r.Post("/sign-out", s.handleSignOut)
		r.Get("/me", s.handleMe)
		r.Put("/verification", s.handleConfirmVerification)
		r.Post("/recovery", s.handleCreateRecovery)
		r.Put("/recovery", s.handleConfirmRecovery)
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", s.handleInfinitePosts)
		r.Get("/recent", s.handleRecentPosts)
		r.Get("/search", s.handleSearchPosts)
		r.Post("/", s.handleCreatePost)
		r.Get("/{postID}", s.handleGetPost)
		r.Patch("/{postID}", s.handleUpdatePost)
		r.Delete("/{postID}", s.handleDeletePost)
		r.Post("/{postID}/like", s.handleLikePost)
		r.Post("/{postID}/save", s.handleSavePost)
		r.Get("/{postID}/comments", s.handleListComments)
		r.Post("/{postID}/comments", s.handleCreateComment)
	})

	r.Delete("/comments/{commentID}", s.handleDeleteComment)
	r.Delete("/saves/{saveID}", s.handleDeleteSaved)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", s.handleListUsers)
		r.Get("/{userID}", s.handleGetUser)
		r.Patch("/{userID}", s.handleUpdateUser)
		r.Get("/{userID}/followers", s.handleFollowers)
		r.Get("/{userID}/following", s.handleFollowing)
		r.Get("/{userID}/follow-status", s.handleFollowStatus)
		r.Post("/{userID}/follow", s.handleFollow)
		r.Delete("/{userID}/follow", s.handleUnfollow)
		r.Get("/{userID}/saves", s.handleSavedPosts)
	})

	r.Get("/files/{fileID}/view", s.handleFileView)
	r.Get("/ws/activity", s.Activity.Handle)
}

// ---- auth ----

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req identity.NewUser
	if !decode(w, r, &req) {
		return
	}

	user, err := s.Resolver.SignUp(r.Context(), req)
	s.respondMutation(w, r, "user", "sign-up", user, err)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}

	session, err := s.Resolver.SignIn(r.Context(), req.Email, req.Password)
	s.respondMutation(w, r, "session", "sign-in", session, err)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	err := s.Resolver.SignOut(r.Context())
	s.respondMutation(w, r, "session", "sign-out", map[string]string{"status": "ok"}, err)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if !s.Resolver.CheckAuthUser(r.Context()) {
		writeError(w, http.StatusUnauthorized, errors.New("not authenticated"))
		return
	}

	user, _ := s.Resolver.CurrentUser()
	writeJSON(w, http.StatusOK, map[string]any{
		"user":          user,
		"emailVerified": s.Resolver.EmailVerified(),
	})
}

func (s *Server) handleConfirmVerification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
		Secret string `json:"secret"`
	}
	if !decode(w, r, &req) {
		return
	}

	err := s.Resolver.ConfirmVerification(r.Context(), req.UserID, req.Secret)
	s.respondMutation(w, r, "verification", "confirm", map[string]string{"status": "ok"}, err)
}

func (s *Server) handleCreateRecovery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &req) {
		return
	}

	err := s.Resolver.CreatePasswordRecovery(r.Context(), req.Email)
	s.respondMutation(w, r, "recovery", "create", map[string]string{"status": "ok"}, err)
}

func (s *Server) handleConfirmRecovery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string `json:"userId"`
		Secret   string `json:"secret"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}

	err := s.Resolver.ConfirmPasswordRecovery(r.Context(), req.UserID, req.Secret, req.Password)
	s.respondMutation(w, r, "recovery", "confirm", map[string]string{"status": "ok"}, err)
}

// ---- posts ----

func (s *Server) handleRecentPosts(w http.ResponseWriter, r *http.Request) {
	result, err := s.Feed.RecentPosts(r.Context())
	s.respond(w, result, err)
}

func (s *Server) handleInfinitePosts(w http.ResponseWriter, r *http.Request) {
	page, err := s.Feed.InfinitePosts(r.Context(), r.URL.Query().Get("cursor"))
	s.respond(w, page, err)
}

func (s *Server) handleSearchPosts(w http.ResponseWriter, r *http.Request) {
	result, err := s.Feed.SearchPosts(r.Context(), r.URL.Query().Get("q"))
	s.respond(w, result, err)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.Feed.GetPostByID(r.Context(), chi.URLParam(r, "postID"))
	s.respond(w, post, err)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireVerified(w, r)
	if !ok {
		return
	}

	file, name := formFile(r)
	post, err := s.Posts.Create(r.Context(), posts.NewPost{
		UserID:   user.ID,
		Caption:  r.FormValue("caption"),
		Location: r.FormValue("location"),
		Tags:     r.FormValue("tags"),
		FileName: name,
		File:     file,
	})
	s.respondMutation(w, r, "post", "create", post, err)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireVerified(w, r)
	if !ok {
		return
	}

	postID := chi.URLParam(r, "postID")
	if !s.requireOwnership(w, r, user.ID, postID) {
		return
	}

	file, name := formFile(r)
	post, err := s.Posts.Update(r.Context(), posts.UpdatePost{
		PostID:   postID,
		Caption:  r.FormValue("caption"),
		Location: r.FormValue("location"),
		Tags:     r.FormValue("tags"),
		ImageURL: r.FormValue("imageUrl"),
		ImageID:  r.FormValue("imageId"),
		FileName: name,
		File:     file,
	})
	s.respondMutation(w, r, "post", "update", post, err)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireVerified(w, r)
	if !ok {
		return
	}

	postID := chi.URLParam(r, "postID")
	if !s.requireOwnership(w, r, user.ID, postID) {
		return
	}

	err := s.Posts.Delete(r.Context(), postID, r.URL.Query().Get("imageId"))
	s.respondMutation(w, r, "post", "delete", map[string]string{"status": "ok"}, err)
}

func (s *Server) handleLikePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Likes []string `json:"likes"`
	}
	if !decode(w, r, &req) {
		return
	}

	post, err := s.Posts.Like(r.Context(), chi.URLParam(r, "postID"), req.Likes)
	s.respondMutation(w, r, "post", "like", post, err)
}

func (s *Server) handleSavePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
	}
	if !decode(w, r, &req) {
		return
	}

	saved, err := s.Posts.Save(r.Context(), req.UserID, chi.URLParam(r, "postID"))
	s.respondMutation(w, r, "save", "create", saved, err)
}

func (s *Server) handleDeleteSaved(w http.ResponseWriter, r *http.Request) {
	err := s.Posts.DeleteSaved(r.Context(), chi.URLParam(r, "saveID"))
	s.respondMutation(w, r, "save", "delete", map[string]string{"status": "ok"}, err)
}

func (s *Server) handleSavedPosts(w http.ResponseWriter, r *http.Request) {
	saved, err := s.Posts.SavedByUser(r.Context(), chi.URLParam(r, "userID"))
	s.respond(w, saved, err)
}

// ---- comments ----

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	result, err := s.Comments.ListByPost(r.Context(), chi.URLParam(r, "postID"))
	s.respond(w, result, err)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireVerified(w, r)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if !decode(w, r, &req) {
		return
	}

	comment, err := s.Comments.Create(r.Context(), comments.NewComment{
		PostID:  chi.URLParam(r, "postID"),
		UserID:  user.ID,
		Content: req.Content,
	})
	s.respondMutation(w, r, "comment", "create", comment, err)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireVerified(w, r); !ok {
		return
	}

	err := s.Comments.Delete(r.Context(), chi.URLParam(r, "commentID"))
	s.respondMutation(w, r, "comment", "delete", map[string]string{"status": "ok"}, err)
}

// ---- users ----

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	users, err := s.Profiles.List(r.Context(), limit)
	s.respond(w, users, err)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.Profiles.GetByID(r.Context(), chi.URLParam(r, "userID"))
	s.respond(w, user, err)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	current, ok := s.requireVerified(w, r)
	if !ok {
		return
	}

	userID := chi.URLParam(r, "userID")
	if current.ID != userID {
		writeError(w, http.StatusForbidden, errors.New("not the profile owner"))
		return
	}

	file, name := formFile(r)
	user, err := s.Profiles.Update(r.Context(), profiles.UpdateUser{
		UserID:   userID,
		Name:     r.FormValue("name"),
		Bio:      r.FormValue("bio"),
		ImageURL: r.FormValue("imageUrl"),
		ImageID:  r.FormValue("imageId"),
		FileName: name,
		File:     file,
	})
	s.respondMutation(w, r, "user", "update", user, err)
}

// ---- follows ----

func (s *Server) handleFollowers(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	writeJSON(w, http.StatusOK, map[string]any{
		"users": s.Graph.Followers(r.Context(), userID),
		"count": s.Graph.FollowerCount(r.Context(), userID),
	})
}

func (s *Server) handleFollowing(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	writeJSON(w, http.StatusOK, map[string]any{
		"users": s.Graph.Following(r.Context(), userID),
		"count": s.Graph.FollowingCount(r.Context(), userID),
	})
}

func (s *Server) handleFollowStatus(w http.ResponseWriter, r *http.Request) {
	edge := s.Graph.FollowStatus(r.Context(), r.URL.Query().Get("followerId"), chi.URLParam(r, "userID"))
	writeJSON(w, http.StatusOK, map[string]any{"following": edge != nil, "edge": edge})
}

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireAuthenticated(w, r)
	if !ok {
		return
	}

	edge, err := s.Graph.Follow(r.Context(), user.ID, chi.URLParam(r, "userID"))
	s.respondMutation(w, r, "follow", "create", edge, err)
}

func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireAuthenticated(w, r)
	if !ok {
		return
	}

	err := s.Graph.Unfollow(r.Context(), user.ID, chi.URLParam(r, "userID"))
	s.respondMutation(w, r, "follow", "delete", map[string]string{"status": "ok"}, err)
}

// ---- files ----

// fileOpener is implemented by the local storage backend. Other
// backends serve files from their own origin, so the route 404s.
type fileOpener interface {
	Open(fileID string) (io.ReadCloser, error)
}

func (s *Server) handleFileView(w http.ResponseWriter, r *http.Request) {
	opener, ok := s.Posts.Storage.(fileOpener)
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("files are not served by this backend"))
		return
	}

	f, err := opener.Open(chi.URLParam(r, "fileID"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	defer f.Close()

	w.Header().Del("Content-Type")
	io.Copy(w, f) //nolint:errcheck
}

// ---- helpers ----

func (s *Server) requireAuthenticated(w http.ResponseWriter, r *http.Request) (core.User, bool) {
	user, ok := s.Resolver.CurrentUser()
	if !ok && s.Resolver.CheckAuthUser(r.Context()) {
		user, ok = s.Resolver.CurrentUser()
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, errors.New("not authenticated"))
		return core.User{}, false
	}
	return user, true
}

func (s *Server) requireVerified(w http.ResponseWriter, r *http.Request) (core.User, bool) {
	user, ok := s.requireAuthenticated(w, r)
	if !ok {
		return core.User{}, false
	}
	if !s.Resolver.EmailVerified() {
		writeError(w, http.StatusForbidden, errors.New("email verification required"))
		return core.User{}, false
	}
	return user, true
}

func (s *Server) requireOwnership(w http.ResponseWriter, r *http.Request, userID, postID string) bool {
	post, err := s.Feed.GetPostByID(r.Context(), postID)
	if err != nil {
		writeError(w, errorStatus(err), err)
		return false
	}
	if post.Creator != userID {
		writeError(w, http.StatusForbidden, errors.New("not the post owner"))
		return false
	}
	return true
}

func (s *Server) respond(w http.ResponseWriter, result any, err error) {
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) respondMutation(w http.ResponseWriter, r *http.Request, entity, operation string, result any, err error) {
	if err != nil {
		metrics.Mutations.WithLabelValues(entity, operation, "error").Inc()
		writeError(w, errorStatus(err), err)
		return
	}
	metrics.Mutations.WithLabelValues(entity, operation, "ok").Inc()
	writeJSON(w, http.StatusOK, result)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrEmptyUserID),
		errors.Is(err, core.ErrEmptyPostID),
		errors.Is(err, core.ErrEmptyFollowID),
		errors.Is(err, core.ErrNoMediaFile):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func formFile(r *http.Request) (io.Reader, string) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, ""
	}
	return file, header.Filename
}

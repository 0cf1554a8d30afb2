package core

import "errors"

var (
	ErrNotFound    = errors.New("document not found")
	ErrDuplicateID = errors.New("document id already exists")

	ErrEmptyUserID   = errors.New("user id is required")
	ErrEmptyPostID   = errors.New("post id is required")
	ErrEmptyFollowID = errors.New("follower and following ids are required")
	ErrNoMediaFile   = errors.New("no media file supplied")

	ErrNoDatabaseURL      = errors.New("no DATABASE_URL env provided")
	ErrActivityBufferFull = errors.New("activity event buffer full")
)

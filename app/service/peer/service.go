package peer

import (
	"context"
	"errors"
	"innervoice/app/client/docstore"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/samber/do"
	"github.com/samber/oops"
)

const (
	anonymousAuthor = "Anonymous"
	maxPostLength   = 2000
)

var (
	ErrEmptyPost   = errors.New("post content is empty")
	ErrPostTooLong = errors.New("post content is too long")
)

var seedPosts = []string{
	"I feel overwhelmed with exams. Anyone else struggling?",
	"Sometimes I feel like I can't talk to my family about my feelings.",
}

type Post struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type Documents interface {
	Put(ctx context.Context, collection, owner string, v any) (string, error)
	List(ctx context.Context, collection, owner string) ([]docstore.Document, error)
}

type Service struct {
	docs Documents

	seedMu sync.Mutex
	seeded bool
}

func New(di *do.Injector) (*Service, error) {
	return NewService(do.MustInvoke[*docstore.Store](di)), nil
}

func NewService(docs Documents) *Service {
	return &Service{docs: docs}
}

// seed fills an empty board once. A failed attempt is retried on the next call.
func (s *Service) seed(ctx context.Context) error {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()

	if s.seeded {
		return nil
	}

	docs, err := s.docs.List(ctx, docstore.Posts, "")
	if err != nil {
		return oops.In("peer").Wrapf(err, "list posts")
	}

	if len(docs) == 0 {
		for _, content := range seedPosts {
			if _, err = s.put(ctx, content); err != nil {
				return err
			}
		}

		slog.Info("Seeded peer support board", "posts", len(seedPosts))
	}

	s.seeded = true

	return nil
}

func (s *Service) put(ctx context.Context, content string) (Post, error) {
	post := Post{
		Author:    anonymousAuthor,
		Content:   content,
		Timestamp: time.Now(),
	}

	id, err := s.docs.Put(ctx, docstore.Posts, "", post)
	if err != nil {
		return post, oops.In("peer").Wrapf(err, "store post")
	}
	post.ID = id

	return post, nil
}

func (s *Service) Post(ctx context.Context, content string) (Post, error) {
	if strings.TrimSpace(content) == "" {
		return Post{}, ErrEmptyPost
	}
	if len(content) > maxPostLength {
		return Post{}, ErrPostTooLong
	}

	if err := s.seed(ctx); err != nil {
		return Post{}, err
	}

	return s.put(ctx, content)
}

// List returns posts newest first.
func (s *Service) List(ctx context.Context) ([]Post, error) {
	if err := s.seed(ctx); err != nil {
		return nil, err
	}

	docs, err := s.docs.List(ctx, docstore.Posts, "")
	if err != nil {
		return nil, oops.In("peer").Wrapf(err, "list posts")
	}

	posts := make([]Post, 0, len(docs))
	for _, doc := range docs {
		var post Post
		if err = doc.Decode(&post); err != nil {
			return nil, err
		}
		post.ID = doc.ID
		posts = append(posts, post)
	}

	slices.Reverse(posts)

	return posts, nil
}

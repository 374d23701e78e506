package guestbook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/mkeller/folio/internal/apperr"
	"github.com/mkeller/folio/internal/cache"
)

const listTTL = 30 * time.Second

// CreateRequest is the validated input for a new message.
type CreateRequest struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Website string `json:"website"`
}

// Validate checks field constraints.
func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 80)),
		validation.Field(&r.Message, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Website, validation.By(validWebsite)),
	)
}

// validWebsite accepts an empty value or an absolute http(s) URL.
func validWebsite(v interface{}) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be a valid http(s) URL")
	}
	return nil
}

// ListResult is a page of messages.
type ListResult struct {
	Messages []Message `json:"messages"`
	Total    int       `json:"total"`
}

// Service wraps the store with validation and short-TTL list caching.
type Service struct {
	store  *Store
	cache  *cache.Store
	logger *slog.Logger
}

// NewService creates a guestbook service. listCache may be nil to disable
// caching (tests).
func NewService(store *Store, listCache *cache.Store, logger *slog.Logger) *Service {
	return &Service{store: store, cache: listCache, logger: logger}
}

// Create validates and persists a new message.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Message, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Message = strings.TrimSpace(req.Message)
	req.Website = strings.TrimSpace(req.Website)

	if err := req.Validate(); err != nil {
		return Message{}, fmt.Errorf("%v: %w", err, apperr.ErrInvalid)
	}

	m := Message{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Message:   req.Message,
		Website:   req.Website,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, m); err != nil {
		return Message{}, err
	}
	s.invalidate()
	s.logger.Info("guestbook: message created", slog.String("id", m.ID))
	return m, nil
}

// List returns a page of messages, newest first, cached for a short window.
func (s *Service) List(ctx context.Context, limit, offset int) (ListResult, error) {
	key := fmt.Sprintf("guestbook:%d:%d", limit, offset)
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			return v.(ListResult), nil
		}
	}

	messages, total, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return ListResult{}, err
	}
	res := ListResult{Messages: messages, Total: total}
	if s.cache != nil {
		s.cache.SetWithTTL(key, res, listTTL)
	}
	return res, nil
}

// Delete removes a message (admin only at the API layer).
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	s.logger.Info("guestbook: message deleted", slog.String("id", id))
	return nil
}

// Ping exposes the store health for readiness checks.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) invalidate() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

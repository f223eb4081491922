package testutil

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"anoa.com/scidiscoveries/pkg/apperror"
	"github.com/google/uuid"
)

// Limiter is a ratelimiter.Limiter that allows one acquire per (user, scope)
// until released.
type Limiter struct {
	mu       sync.Mutex
	held     map[string]bool
	Released int
}

func (l *Limiter) Acquire(ctx context.Context, userID uuid.UUID, scope string, cooldown time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held == nil {
		l.held = make(map[string]bool)
	}
	key := userID.String() + ":" + scope
	if l.held[key] {
		return nil, &apperror.RateLimitError{Message: "you are doing that too fast", RetryAfter: cooldown}
	}
	l.held[key] = true

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
		l.Released++
	}, nil
}

// ImageStorage records uploads and deletions instead of calling a provider.
type ImageStorage struct {
	Uploaded []string
	Deleted  []string
}

func (s *ImageStorage) UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	url := fmt.Sprintf("https://images.example.com/%s/%d-%s", folder, len(s.Uploaded)+1, fileName)
	s.Uploaded = append(s.Uploaded, url)
	return url, nil
}

func (s *ImageStorage) DeleteImage(ctx context.Context, fileURL string) error {
	s.Deleted = append(s.Deleted, fileURL)
	return nil
}

package report

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// archiveTimeout bounds a background upload.
const archiveTimeout = time.Minute

// Service renders reports, saves them locally and archives them.
type Service struct {
	renderer Renderer
	dir      string
	archiver Archiver
	wg       sync.WaitGroup
}

// NewService creates a report service. dir and archiver are optional.
func NewService(renderer Renderer, dir string, archiver Archiver) *Service {
	return &Service{renderer: renderer, dir: dir, archiver: archiver}
}

// Generate renders b. When a directory is configured the PDF is written
// there and its path returned. Archiving runs in the background and its
// failures are only logged.
func (s *Service) Generate(ctx context.Context, b Bundle) (*Document, string, error) {
	if err := b.Validate(); err != nil {
		return nil, "", err
	}
	doc, err := s.renderer.Render(ctx, b)
	if err != nil {
		return nil, "", fmt.Errorf("render report: %w", err)
	}

	var saved string
	if s.dir != "" {
		saved, err = s.save(b, doc)
		if err != nil {
			return doc, "", err
		}
	}

	if s.archiver != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			actx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
			defer cancel()
			key, err := s.archiver.Archive(actx, b.SessionID, doc)
			if err != nil {
				log.Printf("[report] archive: %v", err)
				return
			}
			log.Printf("[report] archived %s", key)
		}()
	}
	return doc, saved, nil
}

// Wait blocks until background archive uploads finish.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) save(b Bundle, doc *Document) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	at := b.GeneratedAt
	if at.IsZero() {
		at = time.Now()
	}
	name := filepath.Base(ObjectKey(b.SessionID, at, doc.Filename))
	p := filepath.Join(s.dir, name)
	if err := os.WriteFile(p, doc.Data, 0o644); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}
	return p, nil
}

package content

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mkeller/folio/internal/apperr"
	"github.com/mkeller/folio/internal/checksum"
)

// Directory layout under the content root. The resume is a single document.
const (
	dirProjects       = "projects"
	dirCertifications = "certifications"
	dirPlaces         = "places"
	dirPresentations  = "presentations"
	dirTalks          = "talks"
	dirArticles       = "articles"
	resumeFile        = "resume.md"
)

// Snapshot is one immutable view of all loaded content. Readers always see a
// complete snapshot; Reload swaps the pointer atomically.
type Snapshot struct {
	Projects       []Project
	Certifications []Certification
	Places         []Place
	Resume         *Resume
	Presentations  []Presentation
	Talks          []Talk
	Articles       []Article

	// ETag is a digest over every document checksum, used for
	// If-None-Match handling on content responses.
	ETag     string
	LoadedAt time.Time
}

// Service serves content snapshots loaded from an FSStore.
type Service struct {
	store  *FSStore
	logger *slog.Logger
	snap   atomic.Pointer[Snapshot]
}

// NewService creates a Service and performs the initial load.
func NewService(store *FSStore, logger *slog.Logger) (*Service, error) {
	s := &Service{store: store, logger: logger}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads every document and swaps in a fresh snapshot. Documents
// that fail to parse are skipped with a warning so one bad file cannot take
// down the whole content surface.
func (s *Service) Reload() error {
	snap := &Snapshot{LoadedAt: time.Now()}
	var sums []string

	collect := func(dir string, load func(fi FileInfo, data []byte) error) error {
		files, err := s.store.List(dir)
		if err != nil {
			return err
		}
		for _, fi := range files {
			data, err := s.store.Read(fi.Path)
			if err != nil {
				return err
			}
			if err := load(fi, data); err != nil {
				s.logger.Warn("content: skipping document",
					slog.String("path", fi.Path),
					slog.String("error", err.Error()))
				continue
			}
			sums = append(sums, fi.Checksum)
		}
		return nil
	}

	if err := collect(dirProjects, func(fi FileInfo, data []byte) error {
		p := Project{Slug: slugOf(fi.Path), UpdatedAt: fi.UpdatedAt}
		res := Parse(data)
		if err := res.DecodeMeta(&p); err != nil {
			return err
		}
		if p.Title == "" {
			return fmt.Errorf("missing title")
		}
		p.Body = res.Body
		snap.Projects = append(snap.Projects, p)
		return nil
	}); err != nil {
		return err
	}

	if err := collect(dirCertifications, func(fi FileInfo, data []byte) error {
		c := Certification{Slug: slugOf(fi.Path)}
		if err := Parse(data).DecodeMeta(&c); err != nil {
			return err
		}
		if c.Title == "" {
			return fmt.Errorf("missing title")
		}
		snap.Certifications = append(snap.Certifications, c)
		return nil
	}); err != nil {
		return err
	}

	if err := collect(dirPlaces, func(fi FileInfo, data []byte) error {
		p := Place{Slug: slugOf(fi.Path)}
		res := Parse(data)
		if err := res.DecodeMeta(&p); err != nil {
			return err
		}
		if p.Name == "" {
			return fmt.Errorf("missing name")
		}
		p.Notes = res.Body
		snap.Places = append(snap.Places, p)
		return nil
	}); err != nil {
		return err
	}

	if err := collect(dirPresentations, func(fi FileInfo, data []byte) error {
		p := Presentation{Slug: slugOf(fi.Path)}
		if err := Parse(data).DecodeMeta(&p); err != nil {
			return err
		}
		if p.Title == "" {
			return fmt.Errorf("missing title")
		}
		snap.Presentations = append(snap.Presentations, p)
		return nil
	}); err != nil {
		return err
	}

	if err := collect(dirTalks, func(fi FileInfo, data []byte) error {
		t := Talk{Slug: slugOf(fi.Path)}
		res := Parse(data)
		if err := res.DecodeMeta(&t); err != nil {
			return err
		}
		if t.Title == "" {
			return fmt.Errorf("missing title")
		}
		t.Description = res.Body
		snap.Talks = append(snap.Talks, t)
		return nil
	}); err != nil {
		return err
	}

	if err := collect(dirArticles, func(fi FileInfo, data []byte) error {
		a := Article{Slug: slugOf(fi.Path), UpdatedAt: fi.UpdatedAt}
		res := Parse(data)
		if err := res.DecodeMeta(&a); err != nil {
			return err
		}
		if a.Title == "" {
			return fmt.Errorf("missing title")
		}
		a.Body = res.Body
		a.ReadingTime = readingMinutes(res.Body)
		snap.Articles = append(snap.Articles, a)
		return nil
	}); err != nil {
		return err
	}

	if data, err := s.store.Read(resumeFile); err == nil {
		r := &Resume{}
		res := Parse(data)
		if err := res.DecodeMeta(r); err != nil {
			s.logger.Warn("content: resume skipped", slog.String("error", err.Error()))
		} else {
			r.Summary = res.Body
			snap.Resume = r
			sums = append(sums, checksum.Sum(data))
		}
	}

	sortSnapshot(snap)

	snap.ETag = checksum.Combine(sums)

	s.snap.Store(snap)
	s.logger.Info("content: snapshot loaded",
		slog.Int("projects", len(snap.Projects)),
		slog.Int("certifications", len(snap.Certifications)),
		slog.Int("places", len(snap.Places)),
		slog.Int("presentations", len(snap.Presentations)),
		slog.Int("talks", len(snap.Talks)),
		slog.Int("articles", len(snap.Articles)),
		slog.String("etag", snap.ETag[:12]))
	return nil
}

func sortSnapshot(snap *Snapshot) {
	sort.SliceStable(snap.Projects, func(i, j int) bool {
		if snap.Projects[i].Featured != snap.Projects[j].Featured {
			return snap.Projects[i].Featured
		}
		return snap.Projects[i].Year > snap.Projects[j].Year
	})
	sort.Slice(snap.Certifications, func(i, j int) bool {
		return snap.Certifications[i].IssuedAt.After(snap.Certifications[j].IssuedAt)
	})
	sort.Slice(snap.Places, func(i, j int) bool {
		return snap.Places[i].VisitedAt.After(snap.Places[j].VisitedAt)
	})
	sort.Slice(snap.Presentations, func(i, j int) bool {
		return snap.Presentations[i].Date.After(snap.Presentations[j].Date)
	})
	sort.Slice(snap.Talks, func(i, j int) bool {
		return snap.Talks[i].Date.After(snap.Talks[j].Date)
	})
	sort.Slice(snap.Articles, func(i, j int) bool {
		return snap.Articles[i].PublishedAt.After(snap.Articles[j].PublishedAt)
	})
}

// Current returns the active snapshot.
func (s *Service) Current() *Snapshot {
	return s.snap.Load()
}

// ETag returns the active snapshot digest.
func (s *Service) ETag() string {
	return s.snap.Load().ETag
}

// Projects returns all projects, featured first.
func (s *Service) Projects() []Project {
	return s.snap.Load().Projects
}

// Project returns one project by slug.
func (s *Service) Project(slug string) (Project, error) {
	for _, p := range s.snap.Load().Projects {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Project{}, fmt.Errorf("project %q: %w", slug, apperr.ErrNotFound)
}

// Certifications returns all certifications, newest first.
func (s *Service) Certifications() []Certification {
	return s.snap.Load().Certifications
}

// Places returns all places, most recently visited first.
func (s *Service) Places() []Place {
	return s.snap.Load().Places
}

// Resume returns the resume document.
func (s *Service) Resume() (*Resume, error) {
	r := s.snap.Load().Resume
	if r == nil {
		return nil, fmt.Errorf("resume: %w", apperr.ErrNotFound)
	}
	return r, nil
}

// Presentations returns all presentations, newest first.
func (s *Service) Presentations() []Presentation {
	return s.snap.Load().Presentations
}

// Talks returns all talks, newest first.
func (s *Service) Talks() []Talk {
	return s.snap.Load().Talks
}

// Articles returns published article summaries, newest first.
func (s *Service) Articles() []ArticleSummary {
	var out []ArticleSummary
	for _, a := range s.snap.Load().Articles {
		if a.Draft {
			continue
		}
		out = append(out, ArticleSummary{
			Slug:        a.Slug,
			Title:       a.Title,
			Summary:     a.Summary,
			Tags:        a.Tags,
			PublishedAt: a.PublishedAt,
			ReadingTime: a.ReadingTime,
		})
	}
	return out
}

// Article returns one published article by slug, body included.
func (s *Service) Article(slug string) (Article, error) {
	for _, a := range s.snap.Load().Articles {
		if a.Slug == slug && !a.Draft {
			return a, nil
		}
	}
	return Article{}, fmt.Errorf("article %q: %w", slug, apperr.ErrNotFound)
}

// slugOf derives the document slug from its file name.
func slugOf(relPath string) string {
	base := filepath.Base(relPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

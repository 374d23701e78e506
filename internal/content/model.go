// Package content loads and serves the editorial documents backing the site:
// projects, certifications, places, resume, presentations, talks, and
// articles. Documents are Markdown files with YAML frontmatter under the
// content root, loaded into an immutable in-memory snapshot.
package content

import "time"

// Kind identifies a content document type.
type Kind string

// Document kinds and the directories they live in.
const (
	KindProject       Kind = "project"
	KindCertification Kind = "certification"
	KindPlace         Kind = "place"
	KindResume        Kind = "resume"
	KindPresentation  Kind = "presentation"
	KindTalk          Kind = "talk"
	KindArticle       Kind = "article"
)

// Project is a portfolio project entry.
type Project struct {
	Slug        string    `json:"slug" yaml:"-"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Tech        []string  `json:"tech" yaml:"tech"`
	RepoURL     string    `json:"repo_url,omitempty" yaml:"repo_url"`
	LiveURL     string    `json:"live_url,omitempty" yaml:"live_url"`
	Image       string    `json:"image,omitempty" yaml:"image"`
	Year        int       `json:"year" yaml:"year"`
	Featured    bool      `json:"featured" yaml:"featured"`
	Body        string    `json:"body,omitempty" yaml:"-"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"-"`
}

// Certification is an earned credential.
type Certification struct {
	Slug          string     `json:"slug" yaml:"-"`
	Title         string     `json:"title" yaml:"title"`
	Issuer        string     `json:"issuer" yaml:"issuer"`
	IssuedAt      time.Time  `json:"issued_at" yaml:"issued_at"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty" yaml:"expires_at"`
	CredentialID  string     `json:"credential_id,omitempty" yaml:"credential_id"`
	CredentialURL string     `json:"credential_url,omitempty" yaml:"credential_url"`
	Tags          []string   `json:"tags,omitempty" yaml:"tags"`
}

// Place is a visited location shown on the places page.
type Place struct {
	Slug      string    `json:"slug" yaml:"-"`
	Name      string    `json:"name" yaml:"name"`
	Country   string    `json:"country" yaml:"country"`
	Latitude  float64   `json:"latitude" yaml:"latitude"`
	Longitude float64   `json:"longitude" yaml:"longitude"`
	VisitedAt time.Time `json:"visited_at" yaml:"visited_at"`
	Notes     string    `json:"notes,omitempty" yaml:"-"`
}

// Link is a labelled URL on the resume.
type Link struct {
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// Experience is one job entry on the resume.
type Experience struct {
	Company    string   `json:"company" yaml:"company"`
	Title      string   `json:"title" yaml:"title"`
	Start      string   `json:"start" yaml:"start"`
	End        string   `json:"end,omitempty" yaml:"end"`
	Highlights []string `json:"highlights,omitempty" yaml:"highlights"`
}

// Education is one study entry on the resume.
type Education struct {
	School string `json:"school" yaml:"school"`
	Degree string `json:"degree" yaml:"degree"`
	Start  string `json:"start" yaml:"start"`
	End    string `json:"end,omitempty" yaml:"end"`
}

// SkillGroup is a named group of skills.
type SkillGroup struct {
	Category string   `json:"category" yaml:"category"`
	Items    []string `json:"items" yaml:"items"`
}

// Resume is the single resume document.
type Resume struct {
	Name       string       `json:"name" yaml:"name"`
	Headline   string       `json:"headline" yaml:"headline"`
	Location   string       `json:"location,omitempty" yaml:"location"`
	Email      string       `json:"email,omitempty" yaml:"email"`
	Links      []Link       `json:"links,omitempty" yaml:"links"`
	Experience []Experience `json:"experience" yaml:"experience"`
	Education  []Education  `json:"education" yaml:"education"`
	Skills     []SkillGroup `json:"skills,omitempty" yaml:"skills"`
	Summary    string       `json:"summary,omitempty" yaml:"-"`
	UpdatedAt  time.Time    `json:"updated_at" yaml:"-"`
}

// Presentation is a slide deck entry.
type Presentation struct {
	Slug      string    `json:"slug" yaml:"-"`
	Title     string    `json:"title" yaml:"title"`
	Event     string    `json:"event" yaml:"event"`
	Date      time.Time `json:"date" yaml:"date"`
	SlidesURL string    `json:"slides_url,omitempty" yaml:"slides_url"`
	VideoURL  string    `json:"video_url,omitempty" yaml:"video_url"`
}

// Talk is a conference or meetup talk.
type Talk struct {
	Slug         string    `json:"slug" yaml:"-"`
	Title        string    `json:"title" yaml:"title"`
	Venue        string    `json:"venue" yaml:"venue"`
	Date         time.Time `json:"date" yaml:"date"`
	RecordingURL string    `json:"recording_url,omitempty" yaml:"recording_url"`
	Description  string    `json:"description,omitempty" yaml:"-"`
}

// Article is a blog post.
type Article struct {
	Slug        string    `json:"slug" yaml:"-"`
	Title       string    `json:"title" yaml:"title"`
	Summary     string    `json:"summary,omitempty" yaml:"summary"`
	Tags        []string  `json:"tags,omitempty" yaml:"tags"`
	PublishedAt time.Time `json:"published_at" yaml:"published_at"`
	Draft       bool      `json:"-" yaml:"draft"`
	Body        string    `json:"body,omitempty" yaml:"-"`
	ReadingTime int       `json:"reading_time" yaml:"-"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"-"`
}

// ArticleSummary is the list form of an Article (no body).
type ArticleSummary struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	ReadingTime int       `json:"reading_time"`
}

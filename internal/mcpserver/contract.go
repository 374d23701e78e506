package mcpserver

// ContentFormatContract describes the canonical Markdown document format
// used under the content directory. Shipped to LLM consumers so they can
// interpret the tool output.
const ContentFormatContract = `# Folio Content Format Contract

Every portfolio document is a Markdown file with YAML frontmatter, stored
under a directory named after its kind.

## Layout

` + "```" + `text
content/
  projects/<slug>.md
  certifications/<slug>.md
  places/<slug>.md
  presentations/<slug>.md
  talks/<slug>.md
  articles/<slug>.md
  resume.md
` + "```" + `

The slug is the filename stem and doubles as the API identifier.

## Structure

` + "```" + `markdown
---
title: Human-readable title        # REQUIRED for every kind
summary: One-line teaser            # projects, articles
year: 2024                          # projects, certifications
featured: true                      # projects; featured items sort first
draft: true                         # articles; drafts are never published
tags:                               # OPTIONAL - YAML list
  - go
  - backend
---

Body text in standard Markdown.
` + "```" + `

## Rules

1. **YAML frontmatter is mandatory.** The ` + "```" + `---` + "```" + ` fences open the file;
   leading blank lines are tolerated but discouraged.
2. **` + "`" + `title` + "`" + ` is required.** Documents without one are skipped at load time.
3. **Slugs** are lowercase, kebab-case, and stable; they appear in URLs.
4. **Dates** are ISO-8601 (` + "`" + `2024-03-01` + "`" + ` or full RFC 3339).
5. **Articles** with ` + "`" + `draft: true` + "`" + ` are invisible to every read surface.
6. **Encoding** is UTF-8 with a trailing newline.

Changes to files on disk are picked up automatically; there is no publish
step beyond saving the file.
`

// Package feed renders the recent daily quotes as an Atom feed.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/feeds"

	"github.com/phrazzld/sophia-api/internal/domain"
	"github.com/phrazzld/sophia-api/internal/platform/logger"
	"github.com/phrazzld/sophia-api/internal/service"
)

// entryLimit caps how many daily quotes a feed carries.
const entryLimit = 20

// DailyLister provides the recent daily quotes the feed is built from.
// service.DailyService satisfies it.
type DailyLister interface {
	ListRecent(ctx context.Context, limit int) ([]service.DailyEntry, error)
}

// Generator builds the Atom rendition of the daily quote history.
type Generator struct {
	lister  DailyLister
	baseURL string
	logger  *slog.Logger
}

// NewGenerator creates a feed Generator. baseURL is the externally visible
// origin links are built against, without a trailing slash.
func NewGenerator(lister DailyLister, baseURL string, log *slog.Logger) (*Generator, error) {
	if lister == nil {
		return nil, errors.New("daily lister cannot be nil")
	}
	if baseURL == "" {
		return nil, errors.New("base URL cannot be empty")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Generator{
		lister:  lister,
		baseURL: baseURL,
		logger:  log.With(slog.String("component", "feed_generator")),
	}, nil
}

// Generate renders the Atom feed of recent daily quotes, most recent first.
func (g *Generator) Generate(ctx context.Context) ([]byte, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	entries, err := g.lister.ListRecent(ctx, entryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily quotes for feed: %w", err)
	}

	feed := feeds.Feed{
		Title:       "Sophia Daily Quote",
		Description: "A philosophical quote for every day",
		Link:        &feeds.Link{Href: g.baseURL + "/api/daily"},
		Updated:     time.Now().UTC(),
	}

	for _, entry := range entries {
		feed.Add(g.item(entry))
	}

	feed.Sort(func(a, b *feeds.Item) bool {
		return a.Updated.After(b.Updated)
	})
	if len(feed.Items) > 0 {
		feed.Updated = feed.Items[0].Updated
	}

	atom, err := feed.ToAtom()
	if err != nil {
		return nil, fmt.Errorf("failed to render atom feed: %w", err)
	}

	log.Debug("generated daily quote feed", slog.Int("entries", len(feed.Items)))
	return []byte(atom), nil
}

// item converts one pinned daily quote into a feed entry. The entry is
// stamped with the pinned date at midnight UTC rather than the quote's
// creation time, since the date is what the feed is about.
func (g *Generator) item(entry service.DailyEntry) *feeds.Item {
	updated, err := time.ParseInLocation(domain.DailyDateFormat, entry.Date, time.UTC)
	if err != nil {
		updated = entry.Quote.CreatedAt
	}

	return &feeds.Item{
		Id:          g.baseURL + "/api/quotes/" + entry.Quote.ID.String(),
		Title:       fmt.Sprintf("%s on %s", entry.Quote.Author, entry.Date),
		Link:        &feeds.Link{Href: g.baseURL + "/api/quotes/" + entry.Quote.ID.String()},
		Description: entry.Quote.Text,
		Author:      &feeds.Author{Name: entry.Quote.Author},
		Created:     updated,
		Updated:     updated,
	}
}

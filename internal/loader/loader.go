// Package loader fetches a record collection and paints it into a page table.
package loader

import (
	"context"
	"log/slog"

	"github.com/aanand-mishra/theater-records/internal/types"
	"github.com/aanand-mishra/theater-records/internal/view"
)

// Fetcher reads a JSON array of records from a backend endpoint.
// *backend.Client satisfies it.
type Fetcher interface {
	FetchRecords(ctx context.Context, endpoint string) ([]types.Record, error)
}

// Loader ties a Fetcher to the table renderer.
type Loader struct {
	fetcher Fetcher
	log     *slog.Logger
}

// New returns a Loader. A nil logger uses slog.Default().
func New(f Fetcher, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{fetcher: f, log: log}
}

// Fetch reads endpoint without touching any page.
func (l *Loader) Fetch(ctx context.Context, endpoint string) ([]types.Record, error) {
	return l.fetcher.FetchRecords(ctx, endpoint)
}

// Load fetches endpoint and, only once the whole response has been decoded,
// replaces the rows of tableID. On failure the table keeps its previous
// rows, onErr is invoked when given, and the error is returned.
func (l *Loader) Load(ctx context.Context, p *view.Page, endpoint, tableID string, build view.RowBuilder, onErr func(error)) error {
	records, err := l.fetcher.FetchRecords(ctx, endpoint)
	if err != nil {
		l.log.Error("error fetching data",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		if onErr != nil {
			onErr(err)
		}
		return err
	}

	view.Populate(p, tableID, records, build)
	return nil
}

package privacy

import (
	"context"
	"innervoice/app/client/docstore"
	"innervoice/app/service/session"
	"log/slog"
	"sync"

	"github.com/samber/do"
	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"
)

// wipedCollections are removed by the danger zone action. Posts are
// anonymous and stay.
var wipedCollections = []string{docstore.Moods, docstore.Conversations}

type Collections interface {
	DeleteCollection(ctx context.Context, collection string) (int, error)
}

type Sessions interface {
	ClearAll() int
}

type Report struct {
	Deleted  map[string]int `json:"deleted"`
	Sessions int            `json:"sessions"`
}

type Service struct {
	docs     Collections
	sessions Sessions
}

func New(di *do.Injector) (*Service, error) {
	return NewService(
		do.MustInvoke[*docstore.Store](di),
		do.MustInvoke[*session.Manager](di),
	), nil
}

func NewService(docs Collections, sessions Sessions) *Service {
	return &Service{
		docs:     docs,
		sessions: sessions,
	}
}

func (s *Service) DeleteAllData(ctx context.Context) (*Report, error) {
	report := &Report{Deleted: make(map[string]int, len(wipedCollections))}

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)

	for _, collection := range wipedCollections {
		group.Go(func() error {
			n, err := s.docs.DeleteCollection(groupCtx, collection)
			if err != nil {
				return oops.In("privacy").With("collection", collection).Wrapf(err, "delete collection")
			}

			mu.Lock()
			report.Deleted[collection] = n
			mu.Unlock()

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return report, err
	}

	report.Sessions = s.sessions.ClearAll()

	slog.Info("All user data deleted",
		slog.Any("deleted", report.Deleted),
		slog.Int("sessions", report.Sessions),
	)

	return report, nil
}

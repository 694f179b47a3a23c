package refresh

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/iliyamo/festival-schedule/internal/model"
	"github.com/iliyamo/festival-schedule/internal/schedule"
)

// Load fetches activities and films concurrently, waits for both and builds
// the schedule of date.  Either fetch failing fails the whole load.
func Load(ctx context.Context, store DataStore, b *schedule.Builder, date string) ([]model.ScheduleItem, error) {
	var (
		activities []model.Activity
		films      []model.FilmRecord
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		out, err := store.ListActivities(ctx, date)
		if err != nil {
			return fmt.Errorf("list activities: %w", err)
		}
		activities = out
		return nil
	})
	p.Go(func(ctx context.Context) error {
		out, err := store.ListFilms(ctx)
		if err != nil {
			return fmt.Errorf("list films: %w", err)
		}
		films = out
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return b.Build(activities, films, date), nil
}

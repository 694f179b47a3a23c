package refresh

import (
	"fmt"

	"github.com/robfig/cron/v3"

	appLog "github.com/iliyamo/festival-schedule/internal/log"
)

// StartPeriodic forces a full rebuild of c on the cron schedule spec, as a
// safety net for missed change notifications.  The returned stop function
// waits for a running tick to finish.
func StartPeriodic(c *Coordinator, spec string) (stop func(), err error) {
	cr := cron.New()
	if _, err := cr.AddFunc(spec, func() {
		if err := c.ForceRefresh(); err != nil {
			appLog.Debug("periodic schedule refresh skipped", "reason", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("refresh schedule %q: %w", spec, err)
	}
	cr.Start()
	return func() { <-cr.Stop().Done() }, nil
}

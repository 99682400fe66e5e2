// Package fixture builds sessions over the demo learner for screen tests.
package fixture

import (
	"time"

	"github.com/abhisek/levelcast/internal/demo"
	"github.com/abhisek/levelcast/internal/ladder"
	"github.com/abhisek/levelcast/internal/session"
	"github.com/abhisek/levelcast/internal/source"
)

// Now is the fixed instant every fixture is collected at.
var Now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// Session returns a session attached to a demo report.
func Session() *session.Session {
	opts := session.DefaultOptions()
	opts.Windows = ladder.MustWindowSchedule(ladder.DefaultWindows, time.UTC)
	svc := session.NewService(nil, source.FixedClock{T: Now}, opts, nil)

	r, err := svc.FromSnapshot(demo.New(7, Now).Snap)
	if err != nil {
		panic(err)
	}
	s := session.New(Now)
	s.Attach(r)
	return s
}

// Empty returns a session whose learner has no completed levels.
func Empty() *session.Session {
	svc := session.NewService(nil, source.FixedClock{T: Now}, session.DefaultOptions(), nil)
	r, err := svc.FromSnapshot(&source.Snapshot{CollectedAt: Now, CurrentLevel: 1})
	if err != nil {
		panic(err)
	}
	s := session.New(Now)
	s.Attach(r)
	return s
}

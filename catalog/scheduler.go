package catalog

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// requestCheckInterval is how often the scheduler looks for a raised
	// import request.
	requestCheckInterval = 10 * time.Second

	// expiryCheckInterval is how often the scheduler re-evaluates whether the
	// catalog data has expired.
	expiryCheckInterval = time.Hour
)

// importRunner is the slice of Importer the scheduler drives.
type importRunner interface {
	Run() error
	Expired() (bool, error)
}

// Scheduler coordinates catalog imports. All interest in importing funnels
// into one requested flag: manual triggers and the expiry checker both only
// raise it, and the single request-checker loop is the only code path that
// executes an import. The flag pair behind the mutex makes "at most one
// import in flight" hold without any lock being held across the import's
// I/O.
type Scheduler struct {
	mu               sync.Mutex
	importRequested  bool
	importInProgress bool

	importer importRunner
	log      *zap.SugaredLogger

	requestInterval time.Duration
	expiryInterval  time.Duration
}

// NewScheduler returns a scheduler driving the given importer.
func NewScheduler(importer *Importer, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		importer:        importer,
		log:             log,
		requestInterval: requestCheckInterval,
		expiryInterval:  expiryCheckInterval,
	}
}

// RequestImport raises the import-requested flag. Raising it while an import
// is already requested or running is a harmless no-op.
func (s *Scheduler) RequestImport() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.importRequested = true
}

// Status reports the current flag pair.
func (s *Scheduler) Status() (requested, inProgress bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.importRequested, s.importInProgress
}

// Start launches the two checker loops. Both stop when stop is closed.
func (s *Scheduler) Start(stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(s.requestInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.runIfRequested()
			case <-stop:
				s.log.Info("Import request checker stopped")
				return
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(s.expiryInterval)
		defer ticker.Stop()

		// One immediate pass so a stale catalog is refreshed shortly after
		// boot instead of an hour later.
		s.checkExpiry()

		for {
			select {
			case <-ticker.C:
				s.checkExpiry()
			case <-stop:
				s.log.Info("Import expiry checker stopped")
				return
			}
		}
	}()
}

// runIfRequested claims the in-progress flag and executes the import outside
// the lock. A tick arriving mid-import observes importInProgress and does
// nothing.
func (s *Scheduler) runIfRequested() {
	if !s.tryClaim() {
		return
	}

	s.log.Info("Starting catalog import")
	if err := s.importer.Run(); err != nil {
		// Failed imports are retried on the next raised request, never
		// immediately.
		s.log.Errorw("Catalog import failed", zap.Error(err))
	} else {
		s.log.Info("Catalog import finished")
	}

	s.release()
}

// checkExpiry raises the request flag when the catalog data has expired. It
// never runs the import itself, and it holds the lock only for the flag
// reads, not across the staleness query.
func (s *Scheduler) checkExpiry() {
	s.mu.Lock()
	busy := s.importRequested || s.importInProgress
	s.mu.Unlock()
	if busy {
		return
	}

	due, err := s.importer.Expired()
	if err != nil {
		s.log.Errorw("Failed to evaluate catalog expiry", zap.Error(err))
		return
	}
	if due {
		s.log.Info("Catalog data expired, requesting import")
		s.RequestImport()
	}
}

func (s *Scheduler) tryClaim() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.importRequested || s.importInProgress {
		return false
	}
	s.importInProgress = true
	return true
}

func (s *Scheduler) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.importInProgress = false
	s.importRequested = false
}

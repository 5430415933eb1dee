// internal/domain/cart/mirror.go
package cart

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Mirror writes user cart working copies to their persisted rows. Writes are
// debounced: each Schedule call replaces any pending flush for that user and
// restarts the quiet period, so a burst of cart edits produces one write.
//
// Every schedule is tagged with a per-user sequence number. A flush only
// lands if no newer schedule happened in the meantime, both in memory and in
// the row itself (the row keeps the seq of the last accepted write), so a
// late flush can never clobber a newer cart state.
type Mirror struct {
	db       *gorm.DB
	debounce time.Duration
	logger   *logrus.Logger

	mu      sync.Mutex
	seqs    map[uint]int64
	timers  map[uint]*time.Timer
	pending map[uint]ItemList
	stopped bool
}

// NewMirror creates a new cart mirror writer
func NewMirror(db *gorm.DB, debounce time.Duration, logger *logrus.Logger) *Mirror {
	return &Mirror{
		db:       db,
		debounce: debounce,
		logger:   logger,
		seqs:     make(map[uint]int64),
		timers:   make(map[uint]*time.Timer),
		pending:  make(map[uint]ItemList),
	}
}

// Schedule records the latest cart state for the user and (re)starts the
// debounce timer. It returns the sequence assigned to this state.
func (m *Mirror) Schedule(userID uint, items ItemList) int64 {
	m.seedSeq(userID)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return m.seqs[userID]
	}

	m.seqs[userID]++
	seq := m.seqs[userID]
	m.pending[userID] = items.Clone()

	if t, ok := m.timers[userID]; ok {
		t.Stop()
	}
	m.timers[userID] = time.AfterFunc(m.debounce, func() {
		m.fire(userID, seq)
	})

	return seq
}

// FlushNow immediately persists the pending cart state for the user,
// bypassing the debounce. A no-op when nothing is pending.
func (m *Mirror) FlushNow(userID uint) error {
	m.mu.Lock()
	items, ok := m.pending[userID]
	seq := m.seqs[userID]
	if t, tok := m.timers[userID]; tok {
		t.Stop()
		delete(m.timers, userID)
	}
	if ok {
		delete(m.pending, userID)
	}
	m.mu.Unlock()

	if !ok {
		return nil
	}
	return m.write(userID, seq, items)
}

// Stop cancels all timers and synchronously flushes everything still
// pending. Used during server shutdown.
func (m *Mirror) Stop() {
	m.mu.Lock()
	m.stopped = true
	for id, t := range m.timers {
		t.Stop()
		delete(m.timers, id)
	}
	type job struct {
		userID uint
		seq    int64
		items  ItemList
	}
	jobs := make([]job, 0, len(m.pending))
	for id, items := range m.pending {
		jobs = append(jobs, job{userID: id, seq: m.seqs[id], items: items})
		delete(m.pending, id)
	}
	m.mu.Unlock()

	for _, j := range jobs {
		if err := m.write(j.userID, j.seq, j.items); err != nil {
			m.logger.WithError(err).WithField("user_id", j.userID).
				Error("Failed to flush cart during shutdown")
		}
	}
}

// seedSeq initializes the in-memory counter from the persisted row the first
// time a user is seen, so a restarted process continues the row's sequence
// instead of restarting from zero.
func (m *Mirror) seedSeq(userID uint) {
	m.mu.Lock()
	_, known := m.seqs[userID]
	m.mu.Unlock()
	if known {
		return
	}

	var row UserCart
	var base int64
	if err := m.db.Select("seq").Where("user_id = ?", userID).First(&row).Error; err == nil {
		base = row.Seq
	}

	m.mu.Lock()
	if _, known := m.seqs[userID]; !known {
		m.seqs[userID] = base
	}
	m.mu.Unlock()
}

// fire runs when a debounce timer expires
func (m *Mirror) fire(userID uint, seq int64) {
	m.mu.Lock()
	if m.seqs[userID] != seq {
		// A newer schedule superseded this one; its own timer will flush.
		m.mu.Unlock()
		return
	}
	items := m.pending[userID]
	delete(m.pending, userID)
	delete(m.timers, userID)
	m.mu.Unlock()

	if err := m.write(userID, seq, items); err != nil {
		m.logger.WithError(err).WithField("user_id", userID).
			Error("Failed to persist cart")
	}
}

// write overwrites the user's cart row wholesale. The row-level seq check
// makes a stale write (one carrying a lower seq than the row) a no-op.
func (m *Mirror) write(userID uint, seq int64, items ItemList) error {
	if items == nil {
		items = ItemList{}
	}

	row := &UserCart{UserID: userID, Items: items, Seq: seq}
	err := m.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"items": items, "seq": seq, "updated_at": time.Now().UTC()}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Lt{Column: clause.Column{Table: "user_carts", Name: "seq"}, Value: seq},
		}},
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to write cart mirror: %w", err)
	}
	return nil
}

package inmemory

import (
	"context"
	"sort"

	"student_intervention_service/internal/domain/dailylog"

	"github.com/google/uuid"
)

type DailyLogRepository struct {
	store *Store
}

func NewDailyLogRepository(store *Store) *DailyLogRepository {
	return &DailyLogRepository{store: store}
}

func (r *DailyLogRepository) Create(_ context.Context, l *dailylog.DailyLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = r.store.clock.Now().UTC()
	}

	clone := *l
	r.store.dailyLogs[l.ID] = &clone
	return nil
}

func (r *DailyLogRepository) ListRecentByStudent(_ context.Context, studentID string, limit int) ([]*dailylog.DailyLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	logs := make([]*dailylog.DailyLog, 0)
	for _, l := range r.store.dailyLogs {
		if l.StudentID == studentID {
			clone := *l
			logs = append(logs, &clone)
		}
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].CreatedAt.After(logs[j].CreatedAt) })
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

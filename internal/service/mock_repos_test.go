package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"chrono-union/backend/internal/model"
	"chrono-union/backend/internal/repository"
	pkgerrors "chrono-union/backend/pkg/errors"
)

// ── Mock EventRepository ──

type mockEventRepo struct {
	events map[int64]*model.CalendarEvent
	nextID int64
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[int64]*model.CalendarEvent), nextID: 1}
}

func (m *mockEventRepo) Create(_ context.Context, event *model.CalendarEvent) error {
	if event.ID == 0 {
		event.ID = m.nextID
		m.nextID++
	}
	if event.Version == 0 {
		event.Version = 1
	}
	m.events[event.ID] = event
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id int64) (*model.CalendarEvent, error) {
	event, ok := m.events[id]
	if !ok || event.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}
	// 与真实查询一致，返回独立副本
	row := *event
	return &row, nil
}

func (m *mockEventRepo) ListRecurring(_ context.Context) ([]model.CalendarEvent, error) {
	var result []model.CalendarEvent
	for _, event := range m.events {
		if event.IsRecurring && event.Status != model.EventStatusCancelled && !event.DeletedAt.Valid {
			result = append(result, *event)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockEventRepo) ListInRange(_ context.Context, start, end time.Time) ([]model.CalendarEvent, error) {
	var result []model.CalendarEvent
	for _, event := range m.events {
		if event.DeletedAt.Valid {
			continue
		}
		if !event.StartDate.After(end) && !event.EndDate.Before(start) {
			result = append(result, *event)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockEventRepo) Update(_ context.Context, event *model.CalendarEvent) error {
	existing, ok := m.events[event.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if existing.Version != event.Version {
		return pkgerrors.ErrOptimisticLock
	}
	event.Version++
	m.events[event.ID] = event
	return nil
}

func (m *mockEventRepo) SoftDelete(_ context.Context, id int64) error {
	if event, ok := m.events[id]; ok {
		event.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}
	return nil
}

// ── Mock RecurrenceRuleRepository ──

type mockRuleRepo struct {
	rules  map[int64]*model.RecurrenceRule // event_id → rule
	nextID int64
}

func newMockRuleRepo() *mockRuleRepo {
	return &mockRuleRepo{rules: make(map[int64]*model.RecurrenceRule), nextID: 1}
}

func (m *mockRuleRepo) Create(_ context.Context, rule *model.RecurrenceRule) error {
	if rule.ID == 0 {
		rule.ID = m.nextID
		m.nextID++
	}
	m.rules[rule.EventID] = rule
	return nil
}

func (m *mockRuleRepo) GetByEventID(_ context.Context, eventID int64) (*model.RecurrenceRule, error) {
	if rule, ok := m.rules[eventID]; ok {
		return rule, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRuleRepo) Update(_ context.Context, rule *model.RecurrenceRule) error {
	m.rules[rule.EventID] = rule
	return nil
}

func (m *mockRuleRepo) DeleteByEventID(_ context.Context, eventID int64) error {
	delete(m.rules, eventID)
	return nil
}

// ── Mock RecurrenceInstanceRepository ──

type mockInstanceRepo struct {
	instances map[int64]*model.RecurrenceInstance
	nextID    int64
	// 按事件注入 ReplaceWindow 失败，用于失败隔离测试
	replaceErr map[int64]error
}

func newMockInstanceRepo() *mockInstanceRepo {
	return &mockInstanceRepo{
		instances:  make(map[int64]*model.RecurrenceInstance),
		nextID:     1,
		replaceErr: make(map[int64]error),
	}
}

func (m *mockInstanceRepo) ReplaceWindow(_ context.Context, eventID int64, start, end time.Time, instances []model.RecurrenceInstance) error {
	if err := m.replaceErr[eventID]; err != nil {
		return err
	}
	for id, inst := range m.instances {
		if inst.ParentEventID == eventID &&
			!inst.InstanceDate.Before(start) && !inst.InstanceDate.After(end) {
			delete(m.instances, id)
		}
	}
	for i := range instances {
		instances[i].ID = m.nextID
		m.nextID++
		stored := instances[i]
		m.instances[stored.ID] = &stored
	}
	return nil
}

func (m *mockInstanceRepo) GetByID(_ context.Context, id int64) (*model.RecurrenceInstance, error) {
	if inst, ok := m.instances[id]; ok {
		return inst, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInstanceRepo) GetByEventAndDate(_ context.Context, eventID int64, date time.Time) (*model.RecurrenceInstance, error) {
	for _, inst := range m.instances {
		if inst.ParentEventID == eventID && inst.InstanceDate.Equal(date) {
			return inst, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInstanceRepo) ListByEventRange(_ context.Context, eventID int64, start, end time.Time) ([]model.RecurrenceInstance, error) {
	var result []model.RecurrenceInstance
	for _, inst := range m.instances {
		if inst.ParentEventID == eventID &&
			!inst.InstanceDate.Before(start) && !inst.InstanceDate.After(end) {
			result = append(result, *inst)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].InstanceDate.Before(result[j].InstanceDate) })
	return result, nil
}

func (m *mockInstanceRepo) ListInRange(_ context.Context, start, end time.Time) ([]model.RecurrenceInstance, error) {
	var result []model.RecurrenceInstance
	for _, inst := range m.instances {
		if !inst.InstanceDate.Before(start) && !inst.InstanceDate.After(end) {
			result = append(result, *inst)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].InstanceDate.Equal(result[j].InstanceDate) {
			return result[i].InstanceDate.Before(result[j].InstanceDate)
		}
		return result[i].ParentEventID < result[j].ParentEventID
	})
	return result, nil
}

func (m *mockInstanceRepo) Update(_ context.Context, instance *model.RecurrenceInstance) error {
	if _, ok := m.instances[instance.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.instances[instance.ID] = instance
	return nil
}

func (m *mockInstanceRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	for id, inst := range m.instances {
		if !inst.InstanceDate.After(cutoff) {
			delete(m.instances, id)
			deleted++
		}
	}
	return deleted, nil
}

// ── Mock ReminderRepository ──

type mockReminderRepo struct {
	reminders map[int64]*model.Reminder
	nextID    int64
	listErr   error
}

func newMockReminderRepo() *mockReminderRepo {
	return &mockReminderRepo{reminders: make(map[int64]*model.Reminder), nextID: 1}
}

func (m *mockReminderRepo) Create(_ context.Context, reminder *model.Reminder) error {
	if reminder.ID == 0 {
		reminder.ID = m.nextID
		m.nextID++
	}
	if reminder.Status == "" {
		reminder.Status = model.ReminderStatusPending
	}
	m.reminders[reminder.ID] = reminder
	return nil
}

func (m *mockReminderRepo) ListDue(_ context.Context, now time.Time, limit int) ([]model.Reminder, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []model.Reminder
	for _, r := range m.reminders {
		if r.Status == model.ReminderStatusPending && !r.ReminderTime.After(now) {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ReminderTime.Equal(result[j].ReminderTime) {
			return result[i].ReminderTime.Before(result[j].ReminderTime)
		}
		return result[i].ID < result[j].ID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockReminderRepo) MarkSent(_ context.Context, id int64, sentAt time.Time) error {
	if r, ok := m.reminders[id]; ok {
		r.Status = model.ReminderStatusSent
		r.SentAt = &sentAt
		r.FailureReason = nil
	}
	return nil
}

func (m *mockReminderRepo) MarkFailed(_ context.Context, id int64, reason string) error {
	if r, ok := m.reminders[id]; ok {
		r.Status = model.ReminderStatusFailed
		r.FailureReason = &reason
	}
	return nil
}

func (m *mockReminderRepo) DeleteSentBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	for id, r := range m.reminders {
		if r.Status == model.ReminderStatusSent && r.SentAt != nil && r.SentAt.Before(cutoff) {
			delete(m.reminders, id)
			deleted++
		}
	}
	return deleted, nil
}

// ── Mock IntegrityRepository ──

// 子表行的最小表示，仅保留孤儿判定所需字段
type childRow struct {
	id      int64
	eventID int64
}

type mockIntegrityRepo struct {
	events   *mockEventRepo
	children map[string][]childRow // table → rows
	history  []model.EventHistory
}

func newMockIntegrityRepo(events *mockEventRepo) *mockIntegrityRepo {
	return &mockIntegrityRepo{
		events:   events,
		children: make(map[string][]childRow),
	}
}

func (m *mockIntegrityRepo) addChild(table string, id, eventID int64) {
	m.children[table] = append(m.children[table], childRow{id: id, eventID: eventID})
}

// 父事件存在且未软删除才算活跃
func (m *mockIntegrityRepo) parentLive(eventID int64) bool {
	event, ok := m.events.events[eventID]
	return ok && !event.DeletedAt.Valid
}

func (m *mockIntegrityRepo) CountOrphans(_ context.Context, target repository.OrphanTarget) (int64, error) {
	var count int64
	for _, row := range m.children[target.Table] {
		if !m.parentLive(row.eventID) {
			count++
		}
	}
	return count, nil
}

func (m *mockIntegrityRepo) DeleteOrphans(_ context.Context, target repository.OrphanTarget) (int64, error) {
	var kept []childRow
	var deleted int64
	for _, row := range m.children[target.Table] {
		if m.parentLive(row.eventID) {
			kept = append(kept, row)
		} else {
			deleted++
		}
	}
	m.children[target.Table] = kept
	return deleted, nil
}

func (m *mockIntegrityRepo) DeleteSoftDeletedEventsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	for id, event := range m.events.events {
		if event.DeletedAt.Valid && event.DeletedAt.Time.Before(cutoff) {
			delete(m.events.events, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *mockIntegrityRepo) DeleteHistoryBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var kept []model.EventHistory
	var deleted int64
	for _, h := range m.history {
		if h.ChangedAt.Before(cutoff) {
			deleted++
		} else {
			kept = append(kept, h)
		}
	}
	m.history = kept
	return deleted, nil
}

func (m *mockIntegrityRepo) CountTable(_ context.Context, table string) (int64, error) {
	if table == "calendar_events" {
		var n int64
		for _, e := range m.events.events {
			if !e.DeletedAt.Valid {
				n++
			}
		}
		return n, nil
	}
	return int64(len(m.children[table])), nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications []model.Notification
	nextID        int64
	createErr     error
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{nextID: 1}
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	notification.ID = m.nextID
	m.nextID++
	m.notifications = append(m.notifications, *notification)
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID int64, offset, limit int) ([]model.Notification, int64, error) {
	var result []model.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	result = result[offset:]
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, total, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id int64) error {
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications[i].IsRead = true
		}
	}
	return nil
}

// ── Mock EventHistoryRepository ──

type mockHistoryRepo struct {
	entries   []model.EventHistory
	nextID    int64
	createErr error
}

func newMockHistoryRepo() *mockHistoryRepo {
	return &mockHistoryRepo{nextID: 1}
}

func (m *mockHistoryRepo) Create(_ context.Context, entry *model.EventHistory) error {
	if m.createErr != nil {
		return m.createErr
	}
	entry.ID = m.nextID
	m.nextID++
	if entry.ChangedAt.IsZero() {
		entry.ChangedAt = time.Now()
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockHistoryRepo) ListByEvent(_ context.Context, eventID int64) ([]model.EventHistory, error) {
	var result []model.EventHistory
	for _, e := range m.entries {
		if e.EventID == eventID {
			result = append(result, e)
		}
	}
	return result, nil
}

// ── Mock notify.Sender ──

type sentRecord struct {
	userID   int64
	title    string
	message  string
	metadata map[string]interface{}
}

type mockSender struct {
	sent    []sentRecord
	sendErr error
}

func (m *mockSender) Send(_ context.Context, userID int64, title, message string, metadata map[string]interface{}) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentRecord{userID: userID, title: title, message: message, metadata: metadata})
	return nil
}

// ── 通用测试构造 ──

type testRepos struct {
	events    *mockEventRepo
	rules     *mockRuleRepo
	instances *mockInstanceRepo
	reminders *mockReminderRepo
	history   *mockHistoryRepo
	integrity *mockIntegrityRepo
	notices   *mockNotificationRepo
}

func newTestRepos() (*repository.Repository, *testRepos) {
	events := newMockEventRepo()
	mocks := &testRepos{
		events:    events,
		rules:     newMockRuleRepo(),
		instances: newMockInstanceRepo(),
		reminders: newMockReminderRepo(),
		history:   newMockHistoryRepo(),
		integrity: newMockIntegrityRepo(events),
		notices:   newMockNotificationRepo(),
	}
	repo := &repository.Repository{
		Event:              mocks.events,
		RecurrenceRule:     mocks.rules,
		RecurrenceInstance: mocks.instances,
		Reminder:           mocks.reminders,
		History:            mocks.history,
		Integrity:          mocks.integrity,
		Notification:       mocks.notices,
	}
	return repo, mocks
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func dateAt(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

package db_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"

	dbadapter "taskbot/internal/adapter/db"
	"taskbot/internal/core/domain"
)

var jst = time.FixedZone("JST", 9*60*60)

// 2026-02-13 10:20 JST
var now = time.Date(2026, 2, 13, 10, 20, 0, 0, jst)

// RepositorySuite runs against whatever connection the embedding suite
// opens in SetupSuite.
type RepositorySuite struct {
	suite.Suite

	DB       *sqlx.DB
	tasks    *dbadapter.TaskRepository
	handoffs *dbadapter.HandoffRepository
}

func (s *RepositorySuite) SetupTest() {
	s.ResetDatabase()
	s.tasks = dbadapter.NewTaskRepository(s.DB)
	s.handoffs = dbadapter.NewHandoffRepository(s.DB)
}

func (s *RepositorySuite) ResetDatabase() {
	for _, table := range []string{"handoffs", "tasks"} {
		_, err := s.DB.Exec("DROP TABLE IF EXISTS " + table)
		s.Require().NoError(err)
	}
	s.Require().NoError(dbadapter.Migrate(context.Background(), s.DB))
}

func (s *RepositorySuite) TestMigrateIsRepeatable() {
	s.Require().NoError(dbadapter.Migrate(context.Background(), s.DB))
	s.saveTask(domain.CreateTaskInput{Title: "API統合", AssigneeID: "U1", CreatorID: "U1"})

	s.Require().NoError(dbadapter.Migrate(context.Background(), s.DB))

	tasks, err := s.tasks.ListByUser(context.Background(), "U1", nil)
	s.Require().NoError(err)
	s.Len(tasks, 1)
}

func (s *RepositorySuite) saveTask(input domain.CreateTaskInput) *domain.Task {
	task, err := domain.NewTask(input, now)
	s.Require().NoError(err)
	s.Require().NoError(s.tasks.Save(context.Background(), task))
	return task
}

func (s *RepositorySuite) saveHandoff(to string, at time.Time) *domain.Handoff {
	handoff, err := domain.NewHandoff(domain.CreateHandoffInput{
		FromUserID:   "U1",
		ToUserID:     to,
		ProgressNote: "認証まで完成",
		NextSteps:    "テストを書く",
		HandoffAt:    at,
	}, now.Add(-time.Hour))
	s.Require().NoError(err)
	s.Require().NoError(s.handoffs.Save(context.Background(), handoff))
	return handoff
}

func (s *RepositorySuite) TestTaskSaveAndGetByID() {
	ctx := context.Background()
	due := time.Date(2026, 2, 14, 23, 59, 59, 0, jst)
	description := "外部APIとの接続"
	hours := 2.5
	task := s.saveTask(domain.CreateTaskInput{
		Title:          "API統合",
		Description:    &description,
		AssigneeID:     "U1",
		CreatorID:      "U2",
		DueAt:          &due,
		EstimatedHours: &hours,
	})
	s.Equal(1, task.Version)

	got, err := s.tasks.GetByID(ctx, task.ID)
	s.Require().NoError(err)
	s.Equal(task.ID, got.ID)
	s.Equal("API統合", got.Title)
	s.Equal(domain.TaskStatusPending, got.Status)
	s.Equal("U1", got.AssigneeID)
	s.Equal("U2", got.CreatorID)
	s.Equal(domain.DefaultPriority, got.Priority)
	s.Require().NotNil(got.Description)
	s.Equal(description, *got.Description)
	s.Require().NotNil(got.DueAt)
	s.True(due.Equal(*got.DueAt))
	s.Require().NotNil(got.EstimatedHours)
	s.InDelta(hours, *got.EstimatedHours, 0.001)
	s.Nil(got.CompletedAt)
	s.True(now.Equal(got.CreatedAt))
	s.Equal(1, got.Version)
}

func (s *RepositorySuite) TestTaskGetByIDNotFound() {
	_, err := s.tasks.GetByID(context.Background(), uuid.New())
	s.ErrorIs(err, domain.ErrTaskNotFound)
}

func (s *RepositorySuite) TestTaskSaveDetectsStaleVersion() {
	ctx := context.Background()
	task := s.saveTask(domain.CreateTaskInput{Title: "レビュー", AssigneeID: "U1", CreatorID: "U1"})

	first, err := s.tasks.GetByID(ctx, task.ID)
	s.Require().NoError(err)
	second, err := s.tasks.GetByID(ctx, task.ID)
	s.Require().NoError(err)

	s.Require().NoError(first.Complete(now.Add(time.Minute)))
	s.Require().NoError(s.tasks.Save(ctx, first))
	s.Equal(2, first.Version)

	s.Require().NoError(second.Cancel(now.Add(2 * time.Minute)))
	s.ErrorIs(s.tasks.Save(ctx, second), domain.ErrVersionConflict)

	stored, err := s.tasks.GetByID(ctx, task.ID)
	s.Require().NoError(err)
	s.Equal(domain.TaskStatusCompleted, stored.Status)
	s.Require().NotNil(stored.CompletedAt)
	s.Equal(2, stored.Version)
}

func (s *RepositorySuite) TestTaskListByUser() {
	ctx := context.Background()
	a := s.saveTask(domain.CreateTaskInput{Title: "A", AssigneeID: "U1", CreatorID: "U1"})
	b := s.saveTask(domain.CreateTaskInput{Title: "B", AssigneeID: "U1", CreatorID: "U1"})
	s.saveTask(domain.CreateTaskInput{Title: "other", AssigneeID: "U2", CreatorID: "U1"})

	s.Require().NoError(b.Start(now.Add(time.Minute)))
	s.Require().NoError(s.tasks.Save(ctx, b))

	all, err := s.tasks.ListByUser(ctx, "U1", nil)
	s.Require().NoError(err)
	s.Len(all, 2)

	status := domain.TaskStatusInProgress
	inProgress, err := s.tasks.ListByUser(ctx, "U1", &status)
	s.Require().NoError(err)
	s.Require().Len(inProgress, 1)
	s.Equal(b.ID, inProgress[0].ID)

	status = domain.TaskStatusPending
	pending, err := s.tasks.ListByUser(ctx, "U1", &status)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(a.ID, pending[0].ID)

	none, err := s.tasks.ListByUser(ctx, "U404", nil)
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *RepositorySuite) TestTaskListDueTodayAndOverdue() {
	ctx := context.Background()
	at := func(day, hour, minute int) *time.Time {
		t := time.Date(2026, 2, day, hour, minute, 0, 0, jst)
		return &t
	}
	overdue := s.saveTask(domain.CreateTaskInput{Title: "overdue", AssigneeID: "U1", CreatorID: "U1", DueAt: at(13, 9, 0)})
	laterToday := s.saveTask(domain.CreateTaskInput{Title: "later", AssigneeID: "U1", CreatorID: "U1", DueAt: at(13, 23, 59)})
	s.saveTask(domain.CreateTaskInput{Title: "tomorrow", AssigneeID: "U1", CreatorID: "U1", DueAt: at(14, 0, 0)})
	s.saveTask(domain.CreateTaskInput{Title: "yesterday", AssigneeID: "U1", CreatorID: "U1", DueAt: at(12, 12, 0)})
	s.saveTask(domain.CreateTaskInput{Title: "no due", AssigneeID: "U1", CreatorID: "U1"})
	done := s.saveTask(domain.CreateTaskInput{Title: "done", AssigneeID: "U1", CreatorID: "U1", DueAt: at(13, 8, 0)})
	s.Require().NoError(done.Complete(now))
	s.Require().NoError(s.tasks.Save(ctx, done))

	today, err := s.tasks.ListDueToday(ctx, "U1", now)
	s.Require().NoError(err)
	s.Require().Len(today, 2)
	s.Equal(overdue.ID, today[0].ID)
	s.Equal(laterToday.ID, today[1].ID)

	late, err := s.tasks.ListOverdue(ctx, "U1", now)
	s.Require().NoError(err)
	s.Require().Len(late, 2)
	s.Equal("yesterday", late[0].Title)
	s.Equal(overdue.ID, late[1].ID)
}

func (s *RepositorySuite) TestHandoffSaveAndFindByID() {
	ctx := context.Background()
	taskID := uuid.New()
	at := time.Date(2026, 2, 14, 9, 0, 0, 0, jst)
	handoff, err := domain.NewHandoff(domain.CreateHandoffInput{
		TaskID:       &taskID,
		FromUserID:   "U1",
		ToUserID:     "U2",
		ProgressNote: "認証まで完成",
		NextSteps:    "テストを書く",
		HandoffAt:    at,
	}, now)
	s.Require().NoError(err)
	s.Require().NoError(s.handoffs.Save(ctx, handoff))
	s.Equal(1, handoff.Version)

	got, err := s.handoffs.FindByID(ctx, handoff.ID)
	s.Require().NoError(err)
	s.Equal(handoff.ID, got.ID)
	s.Require().NotNil(got.TaskID)
	s.Equal(taskID, *got.TaskID)
	s.Equal("U1", got.FromUserID)
	s.Equal("U2", got.ToUserID)
	s.Equal(domain.HandoffContent{ProgressNote: "認証まで完成", NextSteps: "テストを書く"}, got.Content)
	s.True(at.Equal(got.HandoffAt))
	s.Equal(domain.HandoffStatusPending, got.Status)
	s.Nil(got.RemindedAt)
	s.Nil(got.CompletedAt)

	_, err = s.handoffs.FindByID(ctx, uuid.New())
	s.ErrorIs(err, domain.ErrHandoffNotFound)
}

func (s *RepositorySuite) TestHandoffSaveDetectsStaleVersion() {
	ctx := context.Background()
	handoff := s.saveHandoff("U2", now.Add(time.Hour))

	first, err := s.handoffs.FindByID(ctx, handoff.ID)
	s.Require().NoError(err)
	second, err := s.handoffs.FindByID(ctx, handoff.ID)
	s.Require().NoError(err)

	s.Require().NoError(first.Accept())
	s.Require().NoError(s.handoffs.Save(ctx, first))

	s.Require().NoError(second.Complete(now))
	s.ErrorIs(s.handoffs.Save(ctx, second), domain.ErrVersionConflict)
}

func (s *RepositorySuite) TestFindPendingByRecipient() {
	ctx := context.Background()
	pending := s.saveHandoff("U2", now.Add(2*time.Hour))
	accepted := s.saveHandoff("U2", now.Add(time.Hour))
	s.Require().NoError(accepted.Accept())
	s.Require().NoError(s.handoffs.Save(ctx, accepted))
	s.saveHandoff("U3", now.Add(time.Hour))

	got, err := s.handoffs.FindPendingByRecipient(ctx, "U2")
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(pending.ID, got[0].ID)
}

func (s *RepositorySuite) TestReminderQueries() {
	ctx := context.Background()
	soon := s.saveHandoff("U2", now.Add(5*time.Minute))
	edge := s.saveHandoff("U2", now.Add(domain.ReminderWindow))
	s.saveHandoff("U2", now.Add(time.Hour))
	late := s.saveHandoff("U2", now.Add(-time.Minute))

	reminded := s.saveHandoff("U2", now.Add(3*time.Minute))
	s.Require().NoError(reminded.MarkReminded(now))
	s.Require().NoError(s.handoffs.Save(ctx, reminded))

	completed := s.saveHandoff("U2", now.Add(-2*time.Minute))
	s.Require().NoError(completed.Complete(now))
	s.Require().NoError(s.handoffs.Save(ctx, completed))

	candidates, err := s.handoffs.FindReminderCandidates(ctx, now.Add(domain.ReminderWindow))
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{late.ID, soon.ID, edge.ID}, handoffIDs(candidates))

	overdue, err := s.handoffs.FindOverdueWithoutReminder(ctx, now)
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{late.ID}, handoffIDs(overdue))

	s.Require().NoError(late.MarkReminded(now))
	s.Require().NoError(s.handoffs.Save(ctx, late))

	overdue, err = s.handoffs.FindOverdueWithoutReminder(ctx, now)
	s.Require().NoError(err)
	s.Empty(overdue)
}

func handoffIDs(handoffs []domain.Handoff) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(handoffs))
	for _, handoff := range handoffs {
		ids = append(ids, handoff.ID)
	}
	return ids
}

package tests

import (
	"context"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/mock"

	"taskbot/internal/core/domain"
)

type taskServiceMock struct {
	mock.Mock
}

func (m *taskServiceMock) RegisterTask(ctx context.Context, input domain.CreateTaskInput) (*domain.Task, error) {
	args := m.Called(ctx, input)
	return taskArg(args.Get(0)), args.Error(1)
}

func (m *taskServiceMock) ListTasks(ctx context.Context, userID string, filter domain.TaskFilter) ([]domain.Task, error) {
	args := m.Called(ctx, userID, filter)

	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskServiceMock) CompleteTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	return taskArg(args.Get(0)), args.Error(1)
}

func (m *taskServiceMock) CancelTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	return taskArg(args.Get(0)), args.Error(1)
}

func (m *taskServiceMock) StartTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	return taskArg(args.Get(0)), args.Error(1)
}

func (m *taskServiceMock) UpdateTask(ctx context.Context, id uuid.UUID, input domain.UpdateTaskInput) (*domain.Task, error) {
	args := m.Called(ctx, id, input)
	return taskArg(args.Get(0)), args.Error(1)
}

func taskArg(value any) *domain.Task {
	if value == nil {
		return nil
	}
	return value.(*domain.Task)
}

type handoffServiceMock struct {
	mock.Mock
}

func (m *handoffServiceMock) RegisterHandoff(ctx context.Context, input domain.CreateHandoffInput) (*domain.Handoff, error) {
	args := m.Called(ctx, input)
	return handoffArg(args.Get(0)), args.Error(1)
}

func (m *handoffServiceMock) ListPendingHandoffs(ctx context.Context, userID string) ([]domain.Handoff, error) {
	args := m.Called(ctx, userID)

	var handoffs []domain.Handoff
	if value := args.Get(0); value != nil {
		handoffs = value.([]domain.Handoff)
	}
	return handoffs, args.Error(1)
}

func (m *handoffServiceMock) AcceptHandoff(ctx context.Context, id uuid.UUID) (*domain.Handoff, error) {
	args := m.Called(ctx, id)
	return handoffArg(args.Get(0)), args.Error(1)
}

func (m *handoffServiceMock) CompleteHandoff(ctx context.Context, id uuid.UUID) (*domain.Handoff, error) {
	args := m.Called(ctx, id)
	return handoffArg(args.Get(0)), args.Error(1)
}

func handoffArg(value any) *domain.Handoff {
	if value == nil {
		return nil
	}
	return value.(*domain.Handoff)
}

type chatServiceMock struct {
	mock.Mock
}

func (m *chatServiceMock) ParseAndDispatch(ctx context.Context, text, userID string) (string, bool) {
	args := m.Called(ctx, text, userID)
	return args.String(0), args.Bool(1)
}

// fakePoster records what would have been sent to chat.postMessage.
type fakePoster struct {
	mu    sync.Mutex
	posts []url.Values
	err   error
}

func (p *fakePoster) PostMessageContext(_ context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	_, values, err := slack.UnsafeApplyMsgOptions("", channelID, "", options...)
	if err != nil {
		return "", "", err
	}
	p.mu.Lock()
	p.posts = append(p.posts, values)
	p.mu.Unlock()
	if p.err != nil {
		return "", "", p.err
	}
	return channelID, "1771000000.000200", nil
}

package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/meomeocoj/user-intent-classisifer/internal/domain/entity"
	"github.com/meomeocoj/user-intent-classisifer/internal/domain/service"
)

// MockScorer is a mock implementation of service.Scorer
type MockScorer struct {
	mock.Mock
}

func (m *MockScorer) Score(ctx context.Context, text string, labels []string) ([]float64, error) {
	args := m.Called(ctx, text, labels)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

// MockCompleter is a mock implementation of service.Completer
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, messages []service.Message) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

// MockSafetyClassifier is a mock implementation of service.SafetyClassifier
type MockSafetyClassifier struct {
	mock.Mock
}

func (m *MockSafetyClassifier) ClassifyText(ctx context.Context, text string) (float64, float64, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(float64), args.Get(1).(float64), args.Error(2)
}

// recordingRepo captures persisted decision records on a channel so tests
// can wait for the asynchronous audit write.
type recordingRepo struct {
	created chan *entity.DecisionRecord
}

func newRecordingRepo() *recordingRepo {
	return &recordingRepo{created: make(chan *entity.DecisionRecord, 8)}
}

func (r *recordingRepo) Create(_ context.Context, record *entity.DecisionRecord) error {
	r.created <- record
	return nil
}

func (r *recordingRepo) ListRecent(_ context.Context, _, _ int) ([]*entity.DecisionRecord, int64, error) {
	return nil, 0, nil
}

func (r *recordingRepo) CountByRoute(_ context.Context, _ entity.Route) (int64, error) {
	return 0, nil
}

package worker_test

import (
	"context"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"giveaway-rooms/internal/domain"
	"giveaway-rooms/internal/repository/mocks"
	"giveaway-rooms/internal/tasks"
	"giveaway-rooms/internal/worker"
)

func newReconcileTask(t *testing.T, giveawayID uint) *asynq.Task {
	t.Helper()
	payload, err := tasks.NewReferralReconcileTask(giveawayID)
	require.NoError(t, err)
	return asynq.NewTask(tasks.TypeReferralReconcile, payload)
}

func TestReferralReconcileHandler_RepairsDrift(t *testing.T) {
	// Arrange: 两个抽奖，一个计数器与实际记录数不符
	mockGiveawayRepo := new(mocks.GiveawayRepository)
	mockReferralRepo := new(mocks.ReferralRepository)
	handler := worker.NewReferralReconcileHandler(mockGiveawayRepo, mockReferralRepo)

	giveaways := []domain.Giveaway{
		{ID: 1, ReferralCount: 10},
		{ID: 2, ReferralCount: 7},
	}
	mockGiveawayRepo.On("ListAll", mock.Anything).Return(giveaways, nil).Once()
	mockReferralRepo.On("CountByGiveaway", mock.Anything, uint(1)).Return(uint64(10), nil).Once()
	mockReferralRepo.On("CountByGiveaway", mock.Anything, uint(2)).Return(uint64(9), nil).Once()
	mockGiveawayRepo.On("SetReferralCount", mock.Anything, uint(2), uint64(9)).Return(nil).Once()

	// Act
	err := handler.ProcessTask(context.Background(), newReconcileTask(t, 0))

	// Assert: 只修正有漂移的那一个
	assert.NoError(t, err)
	mockGiveawayRepo.AssertExpectations(t)
	mockReferralRepo.AssertExpectations(t)
	mockGiveawayRepo.AssertNotCalled(t, "SetReferralCount", mock.Anything, uint(1), mock.Anything)
}

func TestReferralReconcileHandler_SingleGiveaway(t *testing.T) {
	// Arrange: payload 指定单个抽奖时只核对它
	mockGiveawayRepo := new(mocks.GiveawayRepository)
	mockReferralRepo := new(mocks.ReferralRepository)
	handler := worker.NewReferralReconcileHandler(mockGiveawayRepo, mockReferralRepo)

	giveaway := &domain.Giveaway{ID: 5, ReferralCount: 3}
	mockGiveawayRepo.On("FindByID", mock.Anything, uint(5)).Return(giveaway, nil).Once()
	mockReferralRepo.On("CountByGiveaway", mock.Anything, uint(5)).Return(uint64(3), nil).Once()

	// Act
	err := handler.ProcessTask(context.Background(), newReconcileTask(t, 5))

	// Assert
	assert.NoError(t, err)
	mockGiveawayRepo.AssertNotCalled(t, "ListAll", mock.Anything)
	mockGiveawayRepo.AssertNotCalled(t, "SetReferralCount", mock.Anything, mock.Anything, mock.Anything)
}

func TestReferralReconcileHandler_MalformedPayloadSkipsRetry(t *testing.T) {
	// Arrange: 损坏的 payload 无法通过重试修复，应跳过重试
	mockGiveawayRepo := new(mocks.GiveawayRepository)
	mockReferralRepo := new(mocks.ReferralRepository)
	handler := worker.NewReferralReconcileHandler(mockGiveawayRepo, mockReferralRepo)

	task := asynq.NewTask(tasks.TypeReferralReconcile, []byte("{not json"))

	// Act
	err := handler.ProcessTask(context.Background(), task)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

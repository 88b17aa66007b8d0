package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"giveaway-rooms/internal/domain"
	"giveaway-rooms/internal/repository"
	"giveaway-rooms/internal/repository/mocks"
	"giveaway-rooms/internal/service"
)

func TestJoinService_Join_UnknownCode(t *testing.T) {
	// Arrange
	mockGiveawayRepo := new(mocks.GiveawayRepository)
	mockReferralRepo := new(mocks.ReferralRepository)
	joinService := service.NewJoinService(mockGiveawayRepo, mockReferralRepo, nil)

	mockGiveawayRepo.On("FindByCode", mock.Anything, "NOPE1234").Return(nil, repository.ErrGiveawayNotFound).Once()

	// Act
	result, err := joinService.Join(context.Background(), "NOPE1234", "alice")

	// Assert: 未知推荐码是终态，不应有任何落账
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrGiveawayNotFound))
	assert.Nil(t, result)

	mockReferralRepo.AssertNotCalled(t, "RecordJoin", mock.Anything, mock.Anything, mock.Anything)
}

func TestJoinService_Join_BlankReferrerName(t *testing.T) {
	// Arrange
	mockGiveawayRepo := new(mocks.GiveawayRepository)
	mockReferralRepo := new(mocks.ReferralRepository)
	joinService := service.NewJoinService(mockGiveawayRepo, mockReferralRepo, nil)

	// Act
	result, err := joinService.Join(context.Background(), "AAAA1111", "   ")

	// Assert: 空白推荐人名直接拒绝，连推荐码都不去解析
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrValidation))
	assert.Nil(t, result)

	mockGiveawayRepo.AssertNotCalled(t, "FindByCode", mock.Anything, mock.Anything)
	mockReferralRepo.AssertNotCalled(t, "RecordJoin", mock.Anything, mock.Anything, mock.Anything)
}

func TestJoinService_Join_Success(t *testing.T) {
	// Arrange
	mockGiveawayRepo := new(mocks.GiveawayRepository)
	mockReferralRepo := new(mocks.ReferralRepository)
	joinService := service.NewJoinService(mockGiveawayRepo, mockReferralRepo, nil)
	giveaway := &domain.Giveaway{ID: 8, OwnerID: 1, RoomName: "Drop", ChannelLink: "https://t.me/drop", Code: "DROP2024"}
	referral := &domain.Referral{ID: 21, GiveawayID: 8, ReferrerName: "alice", CreatedAt: time.Now()}

	mockGiveawayRepo.On("FindByCode", mock.Anything, "DROP2024").Return(giveaway, nil).Once()
	mockReferralRepo.On("RecordJoin", mock.Anything, uint(8), "alice").Return(referral, uint64(4), nil).Once()

	// Act
	result, err := joinService.Join(context.Background(), "DROP2024", "alice")

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, uint64(4), result.ReferralCount)
	assert.Equal(t, "https://t.me/drop", result.ChannelLink, "跳转目标应是抽奖的频道链接")
	assert.Equal(t, "alice", result.Referral.ReferrerName)

	mockGiveawayRepo.AssertExpectations(t)
	mockReferralRepo.AssertExpectations(t)
}

func TestJoinService_Join_TrimsReferrerName(t *testing.T) {
	mockGiveawayRepo := new(mocks.GiveawayRepository)
	mockReferralRepo := new(mocks.ReferralRepository)
	joinService := service.NewJoinService(mockGiveawayRepo, mockReferralRepo, nil)
	giveaway := &domain.Giveaway{ID: 8, ChannelLink: "https://t.me/drop", Code: "DROP2024"}
	referral := &domain.Referral{ID: 1, GiveawayID: 8, ReferrerName: "bob"}

	mockGiveawayRepo.On("FindByCode", mock.Anything, "DROP2024").Return(giveaway, nil).Once()
	mockReferralRepo.On("RecordJoin", mock.Anything, uint(8), "bob").Return(referral, uint64(1), nil).Once()

	_, err := joinService.Join(context.Background(), "DROP2024", "  bob  ")

	assert.NoError(t, err)
	mockReferralRepo.AssertExpectations(t)
}

func TestJoinService_Join_RetriesOnTransientFailure(t *testing.T) {
	// Arrange: 第一次落账遇到暂时性故障 (死锁/连接中断)，重试后成功
	mockGiveawayRepo := new(mocks.GiveawayRepository)
	mockReferralRepo := new(mocks.ReferralRepository)
	joinService := service.NewJoinService(mockGiveawayRepo, mockReferralRepo, nil)
	giveaway := &domain.Giveaway{ID: 8, ChannelLink: "https://t.me/drop", Code: "DROP2024"}
	referral := &domain.Referral{ID: 1, GiveawayID: 8, ReferrerName: "carol"}

	mockGiveawayRepo.On("FindByCode", mock.Anything, "DROP2024").Return(giveaway, nil).Once()
	mockReferralRepo.On("RecordJoin", mock.Anything, uint(8), "carol").
		Return(nil, uint64(0), repository.ErrUnavailable).Once()
	mockReferralRepo.On("RecordJoin", mock.Anything, uint(8), "carol").
		Return(referral, uint64(2), nil).Once()

	// Act
	result, err := joinService.Join(context.Background(), "DROP2024", "carol")

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, uint64(2), result.ReferralCount)

	mockReferralRepo.AssertExpectations(t)
}

func TestJoinService_Join_GivesUpAfterRepeatedFailures(t *testing.T) {
	// Arrange: 暂时性故障持续不退，重试耗尽后放弃
	mockGiveawayRepo := new(mocks.GiveawayRepository)
	mockReferralRepo := new(mocks.ReferralRepository)
	joinService := service.NewJoinService(mockGiveawayRepo, mockReferralRepo, nil)
	giveaway := &domain.Giveaway{ID: 8, ChannelLink: "https://t.me/drop", Code: "DROP2024"}

	mockGiveawayRepo.On("FindByCode", mock.Anything, "DROP2024").Return(giveaway, nil).Once()
	mockReferralRepo.On("RecordJoin", mock.Anything, uint(8), "dave").
		Return(nil, uint64(0), repository.ErrUnavailable).Times(3)

	// Act
	_, err := joinService.Join(context.Background(), "DROP2024", "dave")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInternalServer))

	mockReferralRepo.AssertExpectations(t)
}

// --- 并发加入 ---

// fakeReferralRepo 是线程安全的内存实现，模拟事务性落账的语义
type fakeReferralRepo struct {
	mu        sync.Mutex
	nextID    uint
	count     uint64
	referrals []domain.Referral
}

func (f *fakeReferralRepo) RecordJoin(ctx context.Context, giveawayID uint, referrerName string) (*domain.Referral, uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.count++
	referral := domain.Referral{
		ID:           f.nextID,
		GiveawayID:   giveawayID,
		ReferrerName: referrerName,
		CreatedAt:    time.Now(),
	}
	f.referrals = append(f.referrals, referral)
	return &referral, f.count, nil
}

func (f *fakeReferralRepo) ListByGiveaway(ctx context.Context, giveawayID uint) ([]domain.Referral, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Referral, len(f.referrals))
	copy(out, f.referrals)
	return out, nil
}

func (f *fakeReferralRepo) CountByGiveaway(ctx context.Context, giveawayID uint) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint64(len(f.referrals)), nil
}

func TestJoinService_Join_ConcurrentSubmissions(t *testing.T) {
	// Arrange: 50 个访客同时提交同一个推荐码，
	// 计数器最终必须等于落账的记录数，不允许丢失更新。
	const joiners = 50

	mockGiveawayRepo := new(mocks.GiveawayRepository)
	fakeRepo := &fakeReferralRepo{}
	joinService := service.NewJoinService(mockGiveawayRepo, fakeRepo, nil)
	giveaway := &domain.Giveaway{ID: 8, ChannelLink: "https://t.me/drop", Code: "DROP2024"}

	mockGiveawayRepo.On("FindByCode", mock.Anything, "DROP2024").Return(giveaway, nil).Times(joiners)

	// Act
	var wg sync.WaitGroup
	errCh := make(chan error, joiners)
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := joinService.Join(context.Background(), "DROP2024", "visitor")
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	// Assert
	for err := range errCh {
		assert.NoError(t, err)
	}
	assert.Equal(t, uint64(joiners), fakeRepo.count, "计数器应等于成功加入的次数")
	assert.Len(t, fakeRepo.referrals, joiners, "每次加入应恰好落一条账")
}

package supply

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/galerie-com/move/internal/domain"
)

// MockCoinReader is a mock implementation of domain.CoinReader for testing
type MockCoinReader struct {
	mock.Mock
}

func (m *MockCoinReader) TotalIssued(ctx context.Context, coinType string) (uint64, error) {
	args := m.Called(ctx, coinType)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockCoinReader) CoinMetadata(ctx context.Context, coinType string) (*domain.CoinMetadata, error) {
	args := m.Called(ctx, coinType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CoinMetadata), args.Error(1)
}

// MockEventReader is a mock implementation of domain.EventReader for testing
type MockEventReader struct {
	mock.Mock
}

func (m *MockEventReader) QueryEvents(ctx context.Context, eventType string, limit int) ([]domain.Event, error) {
	args := m.Called(ctx, eventType, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

const purchasedEvent = "0xtmpl::template::UnitsPurchased"

func newTestCalculator(coins *MockCoinReader, events *MockEventReader) *Calculator {
	return NewCalculator(coins, events, purchasedEvent)
}

func TestCirculating_DirectBalanceUsesEmbeddedCap(t *testing.T) {
	ctx := context.Background()
	mockCoins := new(MockCoinReader)
	mockEvents := new(MockEventReader)

	calc := newTestCalculator(mockCoins, mockEvents)

	sale := &domain.Sale{
		ID:             "0xsale1",
		Generation:     domain.GenDirectBalance,
		TotalUnits:     1000,
		EmbeddedSupply: 300,
	}

	fig := calc.Circulating(ctx, sale)

	assert.Equal(t, uint64(300), fig.Circulating)
	assert.Equal(t, uint64(700), fig.Remaining)
	assert.Equal(t, SourceEmbeddedCap, fig.Source)

	// The embedded cap costs zero round trips.
	mockCoins.AssertNotCalled(t, "TotalIssued")
	mockEvents.AssertNotCalled(t, "QueryEvents")
}

func TestCirculating_VaultUsesCoinRegistry(t *testing.T) {
	ctx := context.Background()
	mockCoins := new(MockCoinReader)
	mockEvents := new(MockEventReader)

	calc := newTestCalculator(mockCoins, mockEvents)

	sale := &domain.Sale{
		ID:         "0xvault1",
		Generation: domain.GenVault,
		TotalUnits: 500,
		CoinType:   "0xabc::galerie::MONA",
	}

	// 200 whole units issued, expressed in 6-decimal sub-units.
	mockCoins.On("TotalIssued", ctx, "0xabc::galerie::MONA").Return(uint64(200_000_000), nil)
	mockCoins.On("CoinMetadata", ctx, "0xabc::galerie::MONA").Return(&domain.CoinMetadata{Decimals: 6}, nil)

	fig := calc.Circulating(ctx, sale)

	assert.Equal(t, uint64(200), fig.Circulating)
	assert.Equal(t, uint64(300), fig.Remaining)
	assert.Equal(t, SourceCoinRegistry, fig.Source)
	mockEvents.AssertNotCalled(t, "QueryEvents")
	mockCoins.AssertExpectations(t)
}

func TestCirculating_VaultDecimalsUnavailableDefaultsToZero(t *testing.T) {
	ctx := context.Background()
	mockCoins := new(MockCoinReader)
	mockEvents := new(MockEventReader)

	calc := newTestCalculator(mockCoins, mockEvents)

	sale := &domain.Sale{
		ID:         "0xvault1",
		Generation: domain.GenVault,
		TotalUnits: 500,
		CoinType:   "0xabc::galerie::MONA",
	}

	mockCoins.On("TotalIssued", ctx, "0xabc::galerie::MONA").Return(uint64(120), nil)
	mockCoins.On("CoinMetadata", ctx, "0xabc::galerie::MONA").Return(nil, domain.ErrNotFound)

	fig := calc.Circulating(ctx, sale)

	// With no registered decimals the counter is taken at face value.
	assert.Equal(t, uint64(120), fig.Circulating)
	assert.Equal(t, uint64(380), fig.Remaining)
}

func TestCirculating_RegistryFailureFallsBackToEvents(t *testing.T) {
	ctx := context.Background()
	mockCoins := new(MockCoinReader)
	mockEvents := new(MockEventReader)

	calc := newTestCalculator(mockCoins, mockEvents)

	sale := &domain.Sale{
		ID:         "0xvault1",
		Generation: domain.GenVault,
		TotalUnits: 500,
		CoinType:   "0xabc::galerie::MONA",
	}

	mockCoins.On("TotalIssued", ctx, "0xabc::galerie::MONA").Return(uint64(0), errors.New("rpc unavailable"))
	mockCoins.On("CoinMetadata", ctx, "0xabc::galerie::MONA").Return(&domain.CoinMetadata{Decimals: 6}, nil)

	// Two purchases of this sale plus one of an unrelated sale; the
	// unrelated event and the malformed one must not contribute.
	mockEvents.On("QueryEvents", ctx, purchasedEvent, DefaultEventScanLimit).Return([]domain.Event{
		{Type: purchasedEvent, ParsedJSON: map[string]any{"sale_id": "0xvault1", "amount": "30000000"}},
		{Type: purchasedEvent, ParsedJSON: map[string]any{"sale_id": "0xother", "amount": "99000000"}},
		{Type: purchasedEvent, ParsedJSON: map[string]any{"sale_id": "0xvault1", "amount": "12000000"}},
		{Type: purchasedEvent, ParsedJSON: map[string]any{"sale_id": "0xvault1"}},
	}, nil)

	fig := calc.Circulating(ctx, sale)

	// 42_000_000 sub-units at 6 decimals = 42 whole units.
	assert.Equal(t, uint64(42), fig.Circulating)
	assert.Equal(t, uint64(458), fig.Remaining)
	assert.Equal(t, SourceEventAggregation, fig.Source)
	mockEvents.AssertExpectations(t)
}

func TestCirculating_EverySourceDeadDegradesToZero(t *testing.T) {
	ctx := context.Background()
	mockCoins := new(MockCoinReader)
	mockEvents := new(MockEventReader)

	calc := newTestCalculator(mockCoins, mockEvents)

	sale := &domain.Sale{
		ID:         "0xvault1",
		Generation: domain.GenVault,
		TotalUnits: 500,
		CoinType:   "0xabc::galerie::MONA",
	}

	mockCoins.On("TotalIssued", ctx, "0xabc::galerie::MONA").Return(uint64(0), errors.New("rpc unavailable"))
	mockCoins.On("CoinMetadata", ctx, "0xabc::galerie::MONA").Return(nil, errors.New("rpc unavailable"))
	mockEvents.On("QueryEvents", ctx, purchasedEvent, DefaultEventScanLimit).Return(nil, errors.New("rpc unavailable"))

	fig := calc.Circulating(ctx, sale)

	assert.Equal(t, uint64(0), fig.Circulating)
	assert.Equal(t, uint64(500), fig.Remaining)
	assert.Equal(t, SourceEventAggregation, fig.Source)
}

func TestCirculating_OverIssuedClampsRemaining(t *testing.T) {
	ctx := context.Background()
	mockCoins := new(MockCoinReader)
	mockEvents := new(MockEventReader)

	calc := newTestCalculator(mockCoins, mockEvents)

	sale := &domain.Sale{
		ID:             "0xsale1",
		Generation:     domain.GenDirectBalance,
		TotalUnits:     100,
		EmbeddedSupply: 150,
	}

	fig := calc.Circulating(ctx, sale)

	assert.Equal(t, uint64(150), fig.Circulating)
	assert.Equal(t, uint64(0), fig.Remaining)
}

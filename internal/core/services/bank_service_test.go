package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/custodix/bankcore/internal/adapters/memory"
	"github.com/custodix/bankcore/internal/adapters/pricefeed"
	"github.com/custodix/bankcore/internal/apperrors"
	"github.com/custodix/bankcore/internal/core/domain"
	"github.com/custodix/bankcore/internal/core/ports"
	"github.com/custodix/bankcore/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock TransferMechanism ---
type MockTransferMechanism struct {
	mock.Mock
}

func (m *MockTransferMechanism) PullFrom(ctx context.Context, ownerID string, assetID domain.AssetID, rawAmount decimal.Decimal) error {
	args := m.Called(ctx, ownerID, assetID, rawAmount)
	return args.Error(0)
}

func (m *MockTransferMechanism) PushTo(ctx context.Context, ownerID string, assetID domain.AssetID, rawAmount decimal.Decimal) error {
	args := m.Called(ctx, ownerID, assetID, rawAmount)
	return args.Error(0)
}

// --- Mock Notifier ---
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) DepositCompleted(ctx context.Context, event domain.DepositCompleted) {
	m.Called(ctx, event)
}

func (m *MockNotifier) WithdrawalCompleted(ctx context.Context, event domain.WithdrawalCompleted) {
	m.Called(ctx, event)
}

func (m *MockNotifier) PriceFeedSourceChanged(ctx context.Context, event domain.PriceFeedSourceChanged) {
	m.Called(ctx, event)
}

// --- Test Suite ---
//
// The ledger and asset registry are the real in-memory implementations so the
// atomicity and ordering guarantees under test are the production ones; only
// the outward-facing collaborators are mocked.
type BankServiceTestSuite struct {
	suite.Suite
	ledger       *memory.LedgerRepository
	feed         *pricefeed.StaticFeed
	mockTransfer *MockTransferMechanism
	mockNotifier *MockNotifier
	assetService *services.AssetService
	service      *services.BankService
}

const ownerID = "owner-1"

func (suite *BankServiceTestSuite) SetupTest() {
	// Cap of 1000 USD in internal units; native price 2000 USD at 8 decimals.
	suite.ledger = memory.NewLedgerRepository(decimal.NewFromInt(1_000_000_000))
	suite.feed = pricefeed.NewStaticFeed(decimal.RequireFromString("200000000000"))
	suite.mockTransfer = new(MockTransferMechanism)
	suite.mockNotifier = new(MockNotifier)

	oracle := services.NewOracleService(suite.feed, time.Hour)
	valuation := services.NewValuationService(oracle)
	suite.assetService = services.NewAssetService(memory.NewAssetRepository())

	feedFactory := func(feedURL string) ports.PriceFeed {
		return pricefeed.NewHTTPFeed(feedURL, nil)
	}

	suite.service = services.NewBankService(
		suite.ledger,
		suite.assetService,
		valuation,
		oracle,
		suite.mockTransfer,
		suite.mockNotifier,
		feedFactory,
		nil,
	)
}

func (suite *BankServiceTestSuite) TestDeposit_NativeAccepted() {
	ctx := context.Background()
	// 0.0005 native units: worth exactly 1 USD at the configured price.
	rawAmount := decimal.RequireFromString("500000000000000")

	suite.mockNotifier.On("DepositCompleted", ctx, mock.MatchedBy(func(e domain.DepositCompleted) bool {
		return e.OwnerID == ownerID && e.AssetID == domain.NativeAssetID && e.USDValue.Equal(decimal.NewFromInt(1_000_000))
	})).Once()

	receipt, err := suite.service.Deposit(ctx, ownerID, domain.NativeAssetID, rawAmount)

	suite.Require().NoError(err)
	suite.Require().NotNil(receipt)
	suite.True(decimal.NewFromInt(500).Equal(receipt.NormalizedAmount))
	suite.True(decimal.NewFromInt(1_000_000).Equal(receipt.USDValue))

	balance, err := suite.service.BalanceOf(ctx, ownerID, domain.NativeAssetID)
	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(500).Equal(balance))

	summary, err := suite.service.Summary(ctx)
	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(1_000_000).Equal(summary.TotalValue))
	suite.Equal(int64(1), summary.DepositCount)

	// Native deposits never invoke the custodian pull.
	suite.mockTransfer.AssertNotCalled(suite.T(), "PullFrom")
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *BankServiceTestSuite) TestDeposit_NativeRejectedByCap() {
	ctx := context.Background()
	// 1 whole native unit is worth 2000 USD, double the 1000 USD cap.
	rawAmount := decimal.RequireFromString("1000000000000000000")

	receipt, err := suite.service.Deposit(ctx, ownerID, domain.NativeAssetID, rawAmount)

	suite.Require().Error(err)
	suite.Nil(receipt)

	var capErr *apperrors.CapExceededError
	suite.Require().ErrorAs(err, &capErr)
	suite.True(decimal.NewFromInt(1_000_000_000).Equal(capErr.Cap))
	suite.True(decimal.Zero.Equal(capErr.CurrentTotal))
	suite.True(decimal.NewFromInt(2_000_000_000).Equal(capErr.AttemptedValue))

	balance, err := suite.service.BalanceOf(ctx, ownerID, domain.NativeAssetID)
	suite.Require().NoError(err)
	suite.True(balance.IsZero())

	summary, err := suite.service.Summary(ctx)
	suite.Require().NoError(err)
	suite.True(summary.TotalValue.IsZero())
	suite.Equal(int64(0), summary.DepositCount)

	suite.mockNotifier.AssertNotCalled(suite.T(), "DepositCompleted")
}

func (suite *BankServiceTestSuite) TestDeposit_CapRejectionLeavesCustodySurplus() {
	ctx := context.Background()
	rawAmount := decimal.RequireFromString("1000000000000000000")

	_, err := suite.service.Deposit(ctx, ownerID, domain.NativeAssetID, rawAmount)
	suite.Require().Error(err)

	// Custody intake precedes the cap check; rejected value stays reclaimable.
	custody, err := suite.service.CustodyOf(ctx, domain.NativeAssetID)
	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(1_000_000).Equal(custody))
}

func (suite *BankServiceTestSuite) TestDeposit_TokenPullsBeforeCredit() {
	ctx := context.Background()
	suite.registerToken("tok-usd", 6)
	rawAmount := decimal.NewFromInt(250)

	suite.mockTransfer.On("PullFrom", ctx, ownerID, domain.AssetID("tok-usd"), rawAmount).Return(nil).Once()
	suite.mockNotifier.On("DepositCompleted", ctx, mock.AnythingOfType("domain.DepositCompleted")).Once()

	receipt, err := suite.service.Deposit(ctx, ownerID, domain.AssetID("tok-usd"), rawAmount)

	suite.Require().NoError(err)
	// Identity valuation: pegged 1:1 to the accounting unit.
	suite.True(decimal.NewFromInt(250).Equal(receipt.USDValue))

	balance, err := suite.service.BalanceOf(ctx, ownerID, domain.AssetID("tok-usd"))
	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(250).Equal(balance))

	suite.mockTransfer.AssertExpectations(suite.T())
}

func (suite *BankServiceTestSuite) TestDeposit_TokenPullFailureLeavesLedgerUntouched() {
	ctx := context.Background()
	suite.registerToken("tok-usd", 6)
	rawAmount := decimal.NewFromInt(250)

	suite.mockTransfer.On("PullFrom", ctx, ownerID, domain.AssetID("tok-usd"), rawAmount).Return(assert.AnError).Once()

	receipt, err := suite.service.Deposit(ctx, ownerID, domain.AssetID("tok-usd"), rawAmount)

	suite.Require().Error(err)
	suite.Nil(receipt)

	var transferErr *apperrors.TransferFailedError
	suite.Require().ErrorAs(err, &transferErr)
	suite.Equal("pull", transferErr.Op)

	balance, err := suite.service.BalanceOf(ctx, ownerID, domain.AssetID("tok-usd"))
	suite.Require().NoError(err)
	suite.True(balance.IsZero())

	custody, err := suite.service.CustodyOf(ctx, domain.AssetID("tok-usd"))
	suite.Require().NoError(err)
	suite.True(custody.IsZero())

	suite.mockNotifier.AssertNotCalled(suite.T(), "DepositCompleted")
}

func (suite *BankServiceTestSuite) TestDeposit_UnknownTokenRejected() {
	ctx := context.Background()

	_, err := suite.service.Deposit(ctx, ownerID, domain.AssetID("tok-ghost"), decimal.NewFromInt(10))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *BankServiceTestSuite) TestDeposit_NonPositiveAmountRejected() {
	ctx := context.Background()

	_, err := suite.service.Deposit(ctx, ownerID, domain.NativeAssetID, decimal.Zero)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.Deposit(ctx, ownerID, domain.NativeAssetID, decimal.NewFromInt(-5))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BankServiceTestSuite) TestDeposit_DustAmountRejected() {
	ctx := context.Background()

	// Below 10^12 raw units everything truncates away at internal precision.
	_, err := suite.service.Deposit(ctx, ownerID, domain.NativeAssetID, decimal.NewFromInt(999))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BankServiceTestSuite) TestDeposit_StaleOracleFailsClosed() {
	ctx := context.Background()
	suite.feed.SetSnapshot(domain.PriceSnapshot{
		Price:     decimal.NewFromInt(1),
		UpdatedAt: time.Now().Add(-2 * time.Hour),
	})

	_, err := suite.service.Deposit(ctx, ownerID, domain.NativeAssetID, decimal.RequireFromString("500000000000000"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrOracleStalePrice)

	custody, cerr := suite.service.CustodyOf(ctx, domain.NativeAssetID)
	suite.Require().NoError(cerr)
	suite.True(custody.IsZero())
}

func (suite *BankServiceTestSuite) TestWithdraw_RoundTripKeepsTotal() {
	ctx := context.Background()
	rawAmount := decimal.RequireFromString("500000000000000")

	suite.mockNotifier.On("DepositCompleted", ctx, mock.AnythingOfType("domain.DepositCompleted")).Once()
	suite.mockNotifier.On("WithdrawalCompleted", ctx, mock.MatchedBy(func(e domain.WithdrawalCompleted) bool {
		return e.OwnerID == ownerID && e.RawAmount.Equal(rawAmount)
	})).Once()
	suite.mockTransfer.On("PushTo", ctx, ownerID, domain.NativeAssetID, rawAmount).Return(nil).Once()

	_, err := suite.service.Deposit(ctx, ownerID, domain.NativeAssetID, rawAmount)
	suite.Require().NoError(err)

	receipt, err := suite.service.Withdraw(ctx, ownerID, domain.NativeAssetID, rawAmount)
	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(500).Equal(receipt.NormalizedAmount))

	balance, err := suite.service.BalanceOf(ctx, ownerID, domain.NativeAssetID)
	suite.Require().NoError(err)
	suite.True(balance.IsZero())

	// The cap counter tracks lifetime inflow and is never decremented.
	summary, err := suite.service.Summary(ctx)
	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(1_000_000).Equal(summary.TotalValue))

	suite.mockTransfer.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *BankServiceTestSuite) TestWithdraw_InsufficientFunds() {
	ctx := context.Background()

	_, err := suite.service.Withdraw(ctx, ownerID, domain.NativeAssetID, decimal.RequireFromString("500000000000000"))

	suite.Require().Error(err)
	var fundsErr *apperrors.InsufficientFundsError
	suite.Require().ErrorAs(err, &fundsErr)
	suite.True(fundsErr.Balance.IsZero())

	suite.mockTransfer.AssertNotCalled(suite.T(), "PushTo")
}

func (suite *BankServiceTestSuite) TestWithdraw_PushFailureLeavesDecrementStanding() {
	ctx := context.Background()
	rawAmount := decimal.RequireFromString("500000000000000")

	suite.mockNotifier.On("DepositCompleted", ctx, mock.AnythingOfType("domain.DepositCompleted")).Once()
	suite.mockTransfer.On("PushTo", ctx, ownerID, domain.NativeAssetID, rawAmount).Return(assert.AnError).Once()

	_, err := suite.service.Deposit(ctx, ownerID, domain.NativeAssetID, rawAmount)
	suite.Require().NoError(err)

	receipt, err := suite.service.Withdraw(ctx, ownerID, domain.NativeAssetID, rawAmount)

	suite.Require().Error(err)
	suite.Nil(receipt)

	var transferErr *apperrors.TransferFailedError
	suite.Require().ErrorAs(err, &transferErr)
	suite.Equal("push", transferErr.Op)

	// The balance decrement is not compensated.
	balance, berr := suite.service.BalanceOf(ctx, ownerID, domain.NativeAssetID)
	suite.Require().NoError(berr)
	suite.True(balance.IsZero())

	suite.mockNotifier.AssertNotCalled(suite.T(), "WithdrawalCompleted")
}

func (suite *BankServiceTestSuite) TestSweepTreasury() {
	ctx := context.Background()
	// Leave a custody surplus behind via a cap-rejected deposit.
	_, err := suite.service.Deposit(ctx, ownerID, domain.NativeAssetID, decimal.RequireFromString("1000000000000000000"))
	suite.Require().Error(err)

	// The expanded raw amount carries exponent 12, so compare by value.
	suite.mockTransfer.On("PushTo", ctx, "treasury-1", domain.NativeAssetID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.RequireFromString("1000000000000000000"))
	})).Return(nil).Once()

	err = suite.service.SweepTreasury(ctx, domain.NativeAssetID, "treasury-1", decimal.NewFromInt(1_000_000))
	suite.Require().NoError(err)

	custody, err := suite.service.CustodyOf(ctx, domain.NativeAssetID)
	suite.Require().NoError(err)
	suite.True(custody.IsZero())

	suite.mockTransfer.AssertExpectations(suite.T())
}

func (suite *BankServiceTestSuite) TestSweepTreasury_ExceedsCustody() {
	ctx := context.Background()

	err := suite.service.SweepTreasury(ctx, domain.NativeAssetID, "treasury-1", decimal.NewFromInt(1))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTransfer.AssertNotCalled(suite.T(), "PushTo")
}

func (suite *BankServiceTestSuite) TestReplacePriceFeed() {
	ctx := context.Background()
	const newURL = "https://oracle.example.com/quote"

	suite.mockNotifier.On("PriceFeedSourceChanged", ctx, domain.PriceFeedSourceChanged{
		PreviousSource: "static",
		NewSource:      newURL,
	}).Once()

	err := suite.service.ReplacePriceFeed(ctx, newURL)

	suite.Require().NoError(err)
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *BankServiceTestSuite) TestReplacePriceFeed_EmptyURL() {
	ctx := context.Background()

	err := suite.service.ReplacePriceFeed(ctx, "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockNotifier.AssertNotCalled(suite.T(), "PriceFeedSourceChanged")
}

func (suite *BankServiceTestSuite) registerToken(assetID domain.AssetID, decimals int32) {
	_, err := suite.assetService.RegisterAsset(context.Background(), assetID, "TOK", decimals, "admin-1")
	suite.Require().NoError(err)
}

func TestBankServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BankServiceTestSuite))
}

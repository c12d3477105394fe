package services_test

import (
	"context"
	"testing"

	"github.com/custodix/bankcore/internal/apperrors"
	"github.com/custodix/bankcore/internal/core/domain"
	"github.com/custodix/bankcore/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AssetRepository ---
type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) SaveAsset(ctx context.Context, asset domain.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) FindAssetByID(ctx context.Context, assetID domain.AssetID) (*domain.Asset, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Asset), args.Error(1)
}

// --- Test Suite ---
type AssetServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAssetRepository
	service  *services.AssetService
}

func (suite *AssetServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAssetRepository)
	suite.service = services.NewAssetService(suite.mockRepo)
}

func (suite *AssetServiceTestSuite) TestRegisterAsset_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()

	suite.mockRepo.On("SaveAsset", ctx, mock.MatchedBy(func(a domain.Asset) bool {
		return a.AssetID == "tok-usd" && a.Symbol == "TUSD" && a.Decimals == 6 && a.IsEnabled && a.CreatedBy == creatorUserID
	})).Return(nil).Once()

	asset, err := suite.service.RegisterAsset(ctx, "tok-usd", "TUSD", 6, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(asset)
	suite.Equal(domain.AssetID("tok-usd"), asset.AssetID)
	suite.Equal(creatorUserID, asset.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AssetServiceTestSuite) TestRegisterAsset_ReservedNativeID() {
	ctx := context.Background()

	asset, err := suite.service.RegisterAsset(ctx, domain.NativeAssetID, "NAT", 18, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(asset)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAsset")
}

func (suite *AssetServiceTestSuite) TestRegisterAsset_DecimalsOutOfRange() {
	ctx := context.Background()

	_, err := suite.service.RegisterAsset(ctx, "tok-big", "BIG", 39, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AssetServiceTestSuite) TestRegisterAsset_Duplicate() {
	ctx := context.Background()

	suite.mockRepo.On("SaveAsset", ctx, mock.AnythingOfType("domain.Asset")).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.RegisterAsset(ctx, "tok-dup", "DUP", 6, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AssetServiceTestSuite) TestNativeDecimalsOf_NativeSentinel() {
	ctx := context.Background()

	decimals, err := suite.service.NativeDecimalsOf(ctx, domain.NativeAssetID)

	suite.Require().NoError(err)
	suite.Equal(domain.NativeAssetDecimals, decimals)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindAssetByID")
}

func (suite *AssetServiceTestSuite) TestNativeDecimalsOf_RegisteredToken() {
	ctx := context.Background()
	asset := &domain.Asset{AssetID: "tok-usd", Decimals: 6, IsEnabled: true}

	suite.mockRepo.On("FindAssetByID", ctx, domain.AssetID("tok-usd")).Return(asset, nil).Once()

	decimals, err := suite.service.NativeDecimalsOf(ctx, "tok-usd")

	suite.Require().NoError(err)
	suite.Equal(int32(6), decimals)
}

func (suite *AssetServiceTestSuite) TestNativeDecimalsOf_DisabledToken() {
	ctx := context.Background()
	asset := &domain.Asset{AssetID: "tok-off", Decimals: 6, IsEnabled: false}

	suite.mockRepo.On("FindAssetByID", ctx, domain.AssetID("tok-off")).Return(asset, nil).Once()

	_, err := suite.service.NativeDecimalsOf(ctx, "tok-off")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AssetServiceTestSuite) TestNativeDecimalsOf_UnknownToken() {
	ctx := context.Background()

	suite.mockRepo.On("FindAssetByID", ctx, domain.AssetID("tok-missing")).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.NativeDecimalsOf(ctx, "tok-missing")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestAssetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AssetServiceTestSuite))
}

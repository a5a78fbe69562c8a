package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/openmerch/pricing-service/internal/core/domain"
	"github.com/openmerch/pricing-service/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PriceListServiceTestSuite struct {
	suite.Suite
	mockRepo *MockPriceListRepository
	service  *services.PriceListService
}

func (suite *PriceListServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockPriceListRepository)
	suite.service = services.NewPriceListService(suite.mockRepo)
}

func strPtr(s string) *string {
	return &s
}

func (suite *PriceListServiceTestSuite) TestFindApplicable_PriorityIsPrimary() {
	ctx := context.Background()
	asOf := time.Now()

	// A general list with higher priority outranks a group-specific list with lower
	// priority.
	general := domain.PriceList{PriceListID: "general", CurrencyCode: "USD", Active: true, Priority: 10}
	vip := domain.PriceList{PriceListID: "vip", CurrencyCode: "USD", CustomerGroupID: strPtr("g1"), Active: true, Priority: 5}

	suite.mockRepo.On("FindActivePriceLists", ctx, "USD", []string{"g1"}, asOf).
		Return([]domain.PriceList{vip, general}, nil).Once()

	lists, err := suite.service.FindApplicable(ctx, "USD", []string{"g1"}, asOf)

	suite.Require().NoError(err)
	suite.Require().Len(lists, 2)
	suite.Equal("general", lists[0].PriceListID)
	suite.Equal("vip", lists[1].PriceListID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PriceListServiceTestSuite) TestFindApplicable_GroupSpecificWinsTies() {
	ctx := context.Background()
	asOf := time.Now()

	general := domain.PriceList{PriceListID: "general", CurrencyCode: "USD", Active: true, Priority: 5}
	vip := domain.PriceList{PriceListID: "vip", CurrencyCode: "USD", CustomerGroupID: strPtr("g1"), Active: true, Priority: 5}

	suite.mockRepo.On("FindActivePriceLists", ctx, "USD", []string{"g1"}, asOf).
		Return([]domain.PriceList{general, vip}, nil).Once()

	lists, err := suite.service.FindApplicable(ctx, "USD", []string{"g1"}, asOf)

	suite.Require().NoError(err)
	suite.Require().Len(lists, 2)
	suite.Equal("vip", lists[0].PriceListID)
	suite.Equal("general", lists[1].PriceListID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PriceListServiceTestSuite) TestFindApplicable_FiltersNonMembersAndWindows() {
	ctx := context.Background()
	asOf := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	past := asOf.AddDate(0, -1, 0)

	keep := domain.PriceList{PriceListID: "keep", CurrencyCode: "USD", Active: true, Priority: 1}
	otherGroup := domain.PriceList{PriceListID: "other-group", CurrencyCode: "USD", CustomerGroupID: strPtr("g2"), Active: true, Priority: 9}
	wrongCurrency := domain.PriceList{PriceListID: "wrong-currency", CurrencyCode: "EUR", Active: true, Priority: 9}
	expired := domain.PriceList{PriceListID: "expired", CurrencyCode: "USD", Active: true, Priority: 9, EndDate: &past}
	inactive := domain.PriceList{PriceListID: "inactive", CurrencyCode: "USD", Active: false, Priority: 9}

	suite.mockRepo.On("FindActivePriceLists", ctx, "USD", []string{"g1"}, asOf).
		Return([]domain.PriceList{keep, otherGroup, wrongCurrency, expired, inactive}, nil).Once()

	lists, err := suite.service.FindApplicable(ctx, "USD", []string{"g1"}, asOf)

	suite.Require().NoError(err)
	suite.Require().Len(lists, 1)
	suite.Equal("keep", lists[0].PriceListID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PriceListServiceTestSuite) TestFindApplicable_InclusiveWindowBoundaries() {
	ctx := context.Background()
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	windowed := domain.PriceList{PriceListID: "windowed", CurrencyCode: "USD", Active: true, StartDate: &start, EndDate: &end}

	for _, asOf := range []time.Time{start, end} {
		suite.mockRepo.On("FindActivePriceLists", ctx, "USD", []string(nil), asOf).
			Return([]domain.PriceList{windowed}, nil).Once()

		lists, err := suite.service.FindApplicable(ctx, "USD", nil, asOf)

		suite.Require().NoError(err)
		suite.Len(lists, 1, "list should be applicable at %s", asOf)
	}
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PriceListServiceTestSuite) TestFindApplicable_Deduplicates() {
	ctx := context.Background()
	asOf := time.Now()

	list := domain.PriceList{PriceListID: "dup", CurrencyCode: "USD", Active: true, Priority: 1}

	suite.mockRepo.On("FindActivePriceLists", ctx, "USD", []string(nil), asOf).
		Return([]domain.PriceList{list, list}, nil).Once()

	lists, err := suite.service.FindApplicable(ctx, "USD", nil, asOf)

	suite.Require().NoError(err)
	suite.Len(lists, 1)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PriceListServiceTestSuite) TestFindApplicable_RepoError() {
	ctx := context.Background()
	asOf := time.Now()
	expectedErr := assert.AnError

	suite.mockRepo.On("FindActivePriceLists", ctx, "USD", mock.Anything, asOf).
		Return(nil, expectedErr).Once()

	lists, err := suite.service.FindApplicable(ctx, "USD", nil, asOf)

	suite.Require().Error(err)
	suite.Nil(lists)
	suite.ErrorIs(err, expectedErr)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestPriceListServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PriceListServiceTestSuite))
}

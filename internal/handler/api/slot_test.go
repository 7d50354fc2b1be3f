//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"parkspot/internal/handler/api"
	resdto "parkspot/internal/handler/dto/response"
	"parkspot/internal/infra"
	"parkspot/internal/usecase/commands"
	"parkspot/internal/usecase/queries"
	"parkspot/tests/common/builder"
	"parkspot/tests/common/httptest"
	commandsmock "parkspot/tests/mock/commands"
	queriesmock "parkspot/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type SlotHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockSlotCommands
	mockQueries  *queriesmock.MockSlotQueries
	handler      *api.SlotHandler
}

func (s *SlotHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockSlotCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockSlotQueries(s.mockCtrl)
	s.handler = api.NewSlotHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/slots", s.handler.CreateSlot)
	s.router.GET("/slots/available", s.handler.ListAvailable)
	s.router.GET("/slots/:id", s.handler.GetSlot)
	s.router.GET("/slots/:id/availability", s.handler.CheckAvailability)
	s.router.PATCH("/slots/:id/availability", s.handler.SetAvailability)
	s.router.GET("/slots/:id/pricing-rules", s.handler.ListPricingRules)
}

func (s *SlotHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestSlotHandlerSuite(t *testing.T) {
	suite.Run(t, new(SlotHandlerTestSuite))
}

// ================================================================================
// TestCreateSlot
// ================================================================================

func (s *SlotHandlerTestSuite) TestCreateSlot() {
	url := "/slots"

	b := builder.NewSlotBuilder()
	reqBody := b.BuildCreateRequestDTO()
	returnView := b.BuildViewQuery()

	s.Run("success: returns 201 Created", func() {
		s.mockCommands.EXPECT().CreateSlot(gomock.Any(), gomock.Any()).
			Return(returnView, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, nil)

		var body resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(returnView.ID, body.ID)
		s.Equal(returnView.FloorNo, body.FloorNo)
	})

	s.Run("error: 409 when the slot number is taken on the floor", func() {
		s.mockCommands.EXPECT().CreateSlot(gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrSlotNumberTaken).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Slot number already taken")
	})
}

// ================================================================================
// TestSetAvailability
// ================================================================================

func (s *SlotHandlerTestSuite) TestSetAvailability() {
	returnView := builder.NewSlotBuilder().
		With(func(b *builder.SlotBuilder) { b.PhysicallyAvailable = false }).
		BuildViewQuery()
	url := "/slots/" + returnView.ID.String() + "/availability"

	s.Run("success: returns 200 OK with the updated slot", func() {
		s.mockCommands.EXPECT().SetPhysicallyAvailable(gomock.Any(), returnView.ID, false).
			Return(returnView, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url,
			map[string]any{"physically_available": false}, nil)

		var body resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.False(body.PhysicallyAvailable)
	})

	s.Run("error: 400 when the flag is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{}, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "physically_available is required")
	})

	s.Run("error: 404 when the slot does not exist", func() {
		s.mockCommands.EXPECT().SetPhysicallyAvailable(gomock.Any(), returnView.ID, true).
			Return(nil, commands.ErrSlotNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url,
			map[string]any{"physically_available": true}, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Slot not found")
	})
}

// ================================================================================
// TestListAvailable
// ================================================================================

func (s *SlotHandlerTestSuite) TestListAvailable() {
	s.Run("success: returns the free slots", func() {
		views := []*queries.SlotView{builder.NewSlotBuilder().BuildViewQuery()}
		s.mockQueries.EXPECT().ListAvailableNow(gomock.Any(), nil).Return(views, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/slots/available", nil, nil)

		var body []resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body, 1)
		s.Equal(views[0].ID, body[0].ID)
	})

	s.Run("success: passes the charger filter through", func() {
		s.mockQueries.EXPECT().ListAvailableNow(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, hasCharger *bool) ([]*queries.SlotView, error) {
				s.Require().NotNil(hasCharger)
				s.True(*hasCharger)
				return nil, nil
			}).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/slots/available?has_charger=true", nil, nil)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 400 on a non-boolean charger filter", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/slots/available?has_charger=maybe", nil, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "has_charger must be a boolean")
	})
}

// ================================================================================
// TestCheckAvailability
// ================================================================================

func (s *SlotHandlerTestSuite) TestCheckAvailability() {
	slotID := uuid.New()
	url := "/slots/" + slotID.String() + "/availability"

	s.Run("success: checks the given instant", func() {
		at := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
		s.mockQueries.EXPECT().IsAvailableAt(gomock.Any(), slotID, at).Return(true, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			url+"?at=2025-06-02T10:00:00.000Z", nil, nil)

		var body resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(slotID, body.SlotID)
		s.True(body.Available)
		s.Require().NotNil(body.At)
		s.Equal(at, body.At.Time)
	})

	s.Run("success: defaults to now when at is omitted", func() {
		s.mockQueries.EXPECT().IsAvailableNow(gomock.Any(), slotID).Return(false, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, nil)

		var body resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.False(body.Available)
		s.Nil(body.At)
	})

	s.Run("error: 400 on a loosely formatted at parameter", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			url+"?at=2025-06-02T10:00:00Z", nil, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "ISO-8601 with milliseconds")
	})

	s.Run("error: 404 when the slot does not exist", func() {
		s.mockQueries.EXPECT().IsAvailableNow(gomock.Any(), slotID).
			Return(false, infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Slot not found")
	})
}

// ================================================================================
// TestListPricingRules
// ================================================================================

func (s *SlotHandlerTestSuite) TestListPricingRules() {
	slotID := uuid.New()
	url := "/slots/" + slotID.String() + "/pricing-rules"

	s.Run("success: returns the slot's rules", func() {
		views := []*queries.PricingRuleView{
			builder.NewPricingRuleBuilder().With(func(p *builder.PricingRuleBuilder) {
				p.SlotID = slotID
			}).BuildViewQuery(),
		}
		s.mockQueries.EXPECT().ListRules(gomock.Any(), slotID).Return(views, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, nil)

		var body []resdto.PricingRuleResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body, 1)
		s.Equal(slotID, body[0].SlotID)
	})

	s.Run("error: 400 on malformed slot ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/slots/not-a-uuid/pricing-rules", nil, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid slot ID format")
	})
}

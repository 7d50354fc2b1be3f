//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"parkspot/internal/handler/api"
	resdto "parkspot/internal/handler/dto/response"
	"parkspot/internal/infra"
	"parkspot/internal/usecase/commands"
	"parkspot/internal/usecase/queries"
	"parkspot/tests/common/builder"
	"parkspot/tests/common/httptest"
	"parkspot/tests/common/testutil"
	commandsmock "parkspot/tests/mock/commands"
	queriesmock "parkspot/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/bookings", s.handler.CreateBooking)
	s.router.GET("/bookings", s.handler.ListBookings)
	s.router.GET("/bookings/:id", s.handler.GetBooking)
	s.router.PATCH("/bookings/:id", s.handler.ModifyBooking)
	s.router.DELETE("/bookings/:id", s.handler.CancelBooking)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

// ================================================================================
// TestCreateBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreateBooking() {
	url := "/bookings"

	b := builder.NewBookingBuilder()
	reqBody := b.BuildCreateRequestDTO()
	returnView := b.BuildViewQuery()
	idemKey := httptest.WithIdempotencyKey(uuid.NewString())

	s.Run("success: returns 201 Created for a fresh request", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&commands.CreateBookingResult{Booking: returnView}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, idemKey)

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(returnView.ID, body.ID)
		s.Equal(returnView.SlotID, body.SlotID)
		s.True(returnView.Price.Equal(body.Price))
	})

	s.Run("success: returns 200 OK when the key replays a prior result", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&commands.CreateBookingResult{Booking: returnView, IsReplayed: true}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, idemKey)

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(returnView.ID, body.ID)
	})

	s.Run("error: 400 when Idempotency-Key header is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Idempotency-Key header is required")
	})

	s.Run("error: 400 when Idempotency-Key is not a UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody,
			httptest.WithIdempotencyKey("not-a-uuid"))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "invalid idempotency key format")
	})

	s.Run("error: 400 on second-precision timestamp", func() {
		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("start_time", "2025-06-02T10:00:00Z"))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, idemKey)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "ISO-8601 with milliseconds")
	})

	s.Run("error: 400 on numeric-offset timestamp", func() {
		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("end_time", "2025-06-02T12:00:00.000+00:00"))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, idemKey)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "ISO-8601 with milliseconds")
	})

	s.Run("error: 400 when start_time is missing", func() {
		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("start_time", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, idemKey)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "start_time and end_time are required")
	})

	s.Run("error: 400 when the interval overlaps an existing booking", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrBookingConflict).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, idemKey)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "overlaps an existing booking")
	})

	s.Run("error: 404 when the slot does not exist", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrSlotNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, idemKey)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Slot not found")
	})

	s.Run("error: 409 when the key is reused with a different payload", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrDuplicateRequest).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, idemKey)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Duplicate booking request")
	})

	s.Run("error: 409 while the original request is still processing", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrRequestInProgress).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, idemKey)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "currently being processed")
	})
}

// ================================================================================
// TestModifyBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestModifyBooking() {
	b := builder.NewBookingBuilder()
	returnView := b.BuildViewQuery()
	url := "/bookings/" + returnView.ID.String()
	reqBody := map[string]any{
		"start_time": "2025-06-03T10:00:00.000Z",
		"end_time":   "2025-06-03T12:00:00.000Z",
	}

	s.Run("success: returns 200 OK with the updated booking", func() {
		s.mockCommands.EXPECT().ModifyBooking(gomock.Any(), returnView.ID, gomock.Any()).
			Return(returnView, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, nil)

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(returnView.ID, body.ID)
	})

	s.Run("error: 400 on malformed booking ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/bookings/not-a-uuid", reqBody, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid booking ID format")
	})

	s.Run("error: 400 when the new interval overlaps", func() {
		s.mockCommands.EXPECT().ModifyBooking(gomock.Any(), returnView.ID, gomock.Any()).
			Return(nil, commands.ErrBookingConflict).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "overlaps an existing booking")
	})

	s.Run("error: 404 when the booking does not exist", func() {
		s.mockCommands.EXPECT().ModifyBooking(gomock.Any(), returnView.ID, gomock.Any()).
			Return(nil, commands.ErrBookingNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
	})
}

// ================================================================================
// TestCancelBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestCancelBooking() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String()

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), bookingID).Return(nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, nil)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 404 when the booking does not exist", func() {
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), bookingID).
			Return(commands.ErrBookingNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
	})
}

// ================================================================================
// TestGetBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestGetBooking() {
	returnView := builder.NewBookingBuilder().BuildViewQuery()
	url := "/bookings/" + returnView.ID.String()

	s.Run("success: returns 200 OK with the booking", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), returnView.ID).Return(returnView, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, nil)

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(returnView.ID, body.ID)
		s.Equal(returnView.RequesterID, body.RequesterID)
	})

	s.Run("error: 400 on malformed booking ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/not-a-uuid", nil, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid booking ID format")
	})

	s.Run("error: 404 when the booking does not exist", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), returnView.ID).
			Return(nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
	})

	s.Run("error: 500 responds with the structured error envelope", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), returnView.ID).
			Return(nil, infra.WrapRepoErr("query failed", nil, infra.KindDBFailure)).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, nil)

		s.Equal(http.StatusInternalServerError, rec.Code)
		s.JSONEq(`{"error":{"message":"Internal server error"}}`, rec.Body.String())
	})
}

// ================================================================================
// TestListBookings
// ================================================================================

func (s *BookingHandlerTestSuite) TestListBookings() {
	requesterID := uuid.New()
	url := "/bookings?requester_id=" + requesterID.String()

	s.Run("success: returns 200 OK with the requester's bookings", func() {
		items := []*queries.BookingListItem{
			builder.NewBookingBuilder().BuildListItem(),
			builder.NewBookingBuilder().BuildListItem(),
		}
		s.mockQueries.EXPECT().ListByRequester(gomock.Any(), requesterID).Return(items, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, nil)

		var body []resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body, 2)
		s.Equal(items[0].ID, body[0].ID)
	})

	s.Run("success: returns an empty array when the requester has no bookings", func() {
		s.mockQueries.EXPECT().ListByRequester(gomock.Any(), requesterID).
			Return([]*queries.BookingListItem{}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, nil)

		var body []resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Empty(body)
	})

	s.Run("error: 400 when requester_id is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings", nil, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "requester_id query parameter is required")
	})
}

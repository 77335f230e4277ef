//go:build unit

package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blib-backend/internal/domain/subscriber"
	"blib-backend/internal/handler/api"
	"blib-backend/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

type extendCall struct {
	copyID      int
	days        int
	requesterID int
	actor       string
}

type stubCirculation struct {
	borrowErr error
	extendErr error
	returnErr error

	lastExtend extendCall
}

func (s *stubCirculation) Borrow(context.Context, int, int) error { return s.borrowErr }

func (s *stubCirculation) Extend(_ context.Context, copyID, days, requesterID int, actor string) error {
	s.lastExtend = extendCall{copyID: copyID, days: days, requesterID: requesterID, actor: actor}
	return s.extendErr
}

func (s *stubCirculation) Return(context.Context, int) error { return s.returnErr }

type stubOrders struct {
	orderErr  error
	cancelErr error
}

func (s *stubOrders) Order(context.Context, int, int) error { return s.orderErr }
func (s *stubOrders) CancelOrder(context.Context, int) error {
	return s.cancelErr
}

type CirculationHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	circulation *stubCirculation
	orders      *stubOrders
}

func (s *CirculationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.circulation = &stubCirculation{}
	s.orders = &stubOrders{}

	handler := api.NewCirculationHandler(s.circulation, s.orders)

	// Claims a real request would get from the auth middleware.
	asUser := func(userID int, role string) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set("user_id", userID)
			c.Set("user_role", role)
		}
	}

	s.router.POST("/api/borrows", asUser(0, "carla"), handler.Borrow)
	s.router.POST("/api/borrows/:copyId/extend", asUser(42, "subscriber"), handler.Extend)
	s.router.POST("/api/staff/borrows/:copyId/extend", asUser(0, "carla"), handler.Extend)
	s.router.POST("/api/borrows/:copyId/return", asUser(0, "carla"), handler.Return)
}

func TestCirculationHandlerSuite(t *testing.T) {
	suite.Run(t, new(CirculationHandlerTestSuite))
}

func (s *CirculationHandlerTestSuite) post(url, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *CirculationHandlerTestSuite) TestBorrow() {
	s.Run("success: returns 201", func() {
		s.SetupTest()
		rec := s.post("/api/borrows", `{"subscriber_id": 1, "copy_id": 10}`)
		s.Equal(http.StatusCreated, rec.Code)
	})

	s.Run("frozen subscriber: returns 409", func() {
		s.SetupTest()
		s.circulation.borrowErr = errs.ErrSubscriberFrozen

		rec := s.post("/api/borrows", `{"subscriber_id": 1, "copy_id": 10}`)
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("unknown copy: returns 404", func() {
		s.SetupTest()
		s.circulation.borrowErr = errs.ErrCopyNotFound

		rec := s.post("/api/borrows", `{"subscriber_id": 1, "copy_id": 99}`)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *CirculationHandlerTestSuite) TestExtend() {
	s.Run("subscriber extends as self with the default length", func() {
		s.SetupTest()
		rec := s.post("/api/borrows/10/extend", `{}`)

		s.Equal(http.StatusNoContent, rec.Code)
		s.Equal(extendCall{copyID: 10, days: 7, requesterID: 42, actor: subscriber.ActorSelf}, s.circulation.lastExtend)
	})

	s.Run("librarian extends under their own name", func() {
		s.SetupTest()
		rec := s.post("/api/staff/borrows/10/extend", `{"days": 14}`)

		s.Equal(http.StatusNoContent, rec.Code)
		s.Equal("carla", s.circulation.lastExtend.actor)
		s.Equal(14, s.circulation.lastExtend.days)
	})

	s.Run("window closed: returns 409", func() {
		s.SetupTest()
		s.circulation.extendErr = errs.ErrExtensionWindowClosed

		rec := s.post("/api/borrows/10/extend", `{}`)
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("non-numeric copy id: returns 400", func() {
		s.SetupTest()
		rec := s.post("/api/borrows/abc/extend", `{}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *CirculationHandlerTestSuite) TestReturn() {
	s.Run("success: returns 204", func() {
		s.SetupTest()
		rec := s.post("/api/borrows/10/return", ``)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("no active borrow: returns 404", func() {
		s.SetupTest()
		s.circulation.returnErr = errs.ErrBorrowNotFound

		rec := s.post("/api/borrows/10/return", ``)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/errs"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/handler"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/model"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/auth"
	md "github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/middleware"
	"github.com/Kidemi04/Library-Self-Checkout-System-sub001/pkg/validate"

	service_mocks "github.com/Kidemi04/Library-Self-Checkout-System-sub001/circulation/internal/handler/mocks"
)

func TestHandler_Checkout(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockCirculationService, req model.CheckoutRequest)

	borrowedAt := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	var tests = []struct {
		name         string
		body         string
		req          model.CheckoutRequest
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: `{"bookUid":"2815ac86-83c5-4269-b11e-5ad497b8b2e0","borrower":{"id":"p-100","name":"Ann Reed","role":"patron"}}`,
			req: model.CheckoutRequest{
				BookUid:  "2815ac86-83c5-4269-b11e-5ad497b8b2e0",
				Borrower: model.Borrower{ID: "p-100", Name: "Ann Reed", Role: "patron"},
			},
			mockBehavior: func(r *service_mocks.MockCirculationService, req model.CheckoutRequest) {
				r.EXPECT().
					Checkout(context.Background(), req).
					Return(model.Loan{
						LoanUid:      "7e1bb42a-2b30-4e18-9c1c-2a9c0ea6e6aa",
						CopyUid:      "b29a1a7a-37cd-4f29-81b4-dfa357d0f618",
						BookUid:      req.BookUid,
						BorrowerID:   "p-100",
						BorrowerName: "Ann Reed",
						BorrowerRole: "patron",
						Status:       model.LoanBorrowed,
						BorrowedAt:   borrowedAt,
						DueAt:        borrowedAt.Add(14 * 24 * time.Hour),
					}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"loanUid":"7e1bb42a-2b30-4e18-9c1c-2a9c0ea6e6aa","copyUid":"b29a1a7a-37cd-4f29-81b4-dfa357d0f618","bookUid":"2815ac86-83c5-4269-b11e-5ad497b8b2e0","borrowerId":"p-100","borrowerName":"Ann Reed","borrowerRole":"patron","status":"BORROWED","borrowedAt":"2026-01-10T12:00:00Z","dueAt":"2026-01-24T12:00:00Z","renewalCount":0}`,
			},
		},
		{
			name: "err. no copy available",
			body: `{"bookUid":"2815ac86-83c5-4269-b11e-5ad497b8b2e0","borrower":{"id":"p-100","name":"Ann Reed","role":"patron"}}`,
			req: model.CheckoutRequest{
				BookUid:  "2815ac86-83c5-4269-b11e-5ad497b8b2e0",
				Borrower: model.Borrower{ID: "p-100", Name: "Ann Reed", Role: "patron"},
			},
			mockBehavior: func(r *service_mocks.MockCirculationService, req model.CheckoutRequest) {
				r.EXPECT().
					Checkout(context.Background(), req).
					Return(model.Loan{}, errs.ErrNoCopyAvailable)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"no copy available"}`,
			},
		},
		{
			name: "err. borrower missing",
			body: `{"bookUid":"2815ac86-83c5-4269-b11e-5ad497b8b2e0"}`,
			req: model.CheckoutRequest{
				BookUid: "2815ac86-83c5-4269-b11e-5ad497b8b2e0",
			},
			mockBehavior: func(r *service_mocks.MockCirculationService, req model.CheckoutRequest) {
				r.EXPECT().
					Checkout(context.Background(), req).
					Return(model.Loan{}, errs.ErrInvalidBorrower)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"borrower identity is required"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockCirculationService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/loans", h.Checkout)

			r := httptest.NewRequest(http.MethodPost, "/loans", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc, tt.req)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_Checkin(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockCirculationService, identifier string)

	borrowedAt := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	returnedAt := time.Date(2026, 2, 12, 16, 45, 0, 0, time.UTC)

	var tests = []struct {
		name         string
		body         string
		identifier   string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name:       "ok",
			body:       `{"identifier":"BC-0042"}`,
			identifier: "BC-0042",
			mockBehavior: func(r *service_mocks.MockCirculationService, identifier string) {
				r.EXPECT().
					Checkin(context.Background(), identifier).
					Return(model.Loan{
						LoanUid:      "9c0b64ad-13d4-45eb-8f77-8b5be11e81ce",
						CopyUid:      "b29a1a7a-37cd-4f29-81b4-dfa357d0f618",
						BookUid:      "2815ac86-83c5-4269-b11e-5ad497b8b2e0",
						BorrowerID:   "p-100",
						BorrowerName: "Ann Reed",
						BorrowerRole: "patron",
						Status:       model.LoanReturned,
						BorrowedAt:   borrowedAt,
						DueAt:        borrowedAt.Add(14 * 24 * time.Hour),
						ReturnedAt:   &returnedAt,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"loanUid":"9c0b64ad-13d4-45eb-8f77-8b5be11e81ce","copyUid":"b29a1a7a-37cd-4f29-81b4-dfa357d0f618","bookUid":"2815ac86-83c5-4269-b11e-5ad497b8b2e0","borrowerId":"p-100","borrowerName":"Ann Reed","borrowerRole":"patron","status":"RETURNED","borrowedAt":"2026-02-01T09:30:00Z","dueAt":"2026-02-15T09:30:00Z","returnedAt":"2026-02-12T16:45:00Z","renewalCount":0}`,
			},
		},
		{
			name:         "err. identifier required",
			body:         `{}`,
			identifier:   "",
			mockBehavior: func(r *service_mocks.MockCirculationService, identifier string) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"Key: 'CheckinRequest.Identifier' Error:Field validation for 'Identifier' failed on the 'required' tag"}`,
			},
		},
		{
			name:       "err. ambiguous identifier",
			body:       `{"identifier":"p-100"}`,
			identifier: "p-100",
			mockBehavior: func(r *service_mocks.MockCirculationService, identifier string) {
				r.EXPECT().
					Checkin(context.Background(), identifier).
					Return(model.Loan{}, errs.ErrAmbiguousIdentifier)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"identifier matches more than one open loan"}`,
			},
		},
		{
			name:       "err. no open loan",
			body:       `{"identifier":"BC-9999"}`,
			identifier: "BC-9999",
			mockBehavior: func(r *service_mocks.MockCirculationService, identifier string) {
				r.EXPECT().
					Checkin(context.Background(), identifier).
					Return(model.Loan{}, errs.ErrLoanNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"no open loan matches the identifier"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockCirculationService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/returns", h.Checkin)

			r := httptest.NewRequest(http.MethodPost, "/returns", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc, tt.identifier)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_PlaceHold(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockCirculationService, req model.PlaceHoldRequest)

	placedAt := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)

	var tests = []struct {
		name         string
		body         string
		req          model.PlaceHoldRequest
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: `{"bookUid":"2815ac86-83c5-4269-b11e-5ad497b8b2e0","patronId":"p-200"}`,
			req: model.PlaceHoldRequest{
				BookUid:  "2815ac86-83c5-4269-b11e-5ad497b8b2e0",
				PatronID: "p-200",
			},
			mockBehavior: func(r *service_mocks.MockCirculationService, req model.PlaceHoldRequest) {
				r.EXPECT().
					PlaceHold(context.Background(), req).
					Return(model.Hold{
						HoldUid:  "5a9df3c2-55cc-4e05-a23c-7a80cbb0e2ab",
						BookUid:  req.BookUid,
						PatronID: req.PatronID,
						Status:   model.HoldQueued,
						PlacedAt: placedAt,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"holdUid":"5a9df3c2-55cc-4e05-a23c-7a80cbb0e2ab","bookUid":"2815ac86-83c5-4269-b11e-5ad497b8b2e0","patronId":"p-200","status":"QUEUED","placedAt":"2026-03-03T10:00:00Z"}`,
			},
		},
		{
			name: "err. duplicate hold",
			body: `{"bookUid":"2815ac86-83c5-4269-b11e-5ad497b8b2e0","patronId":"p-200"}`,
			req: model.PlaceHoldRequest{
				BookUid:  "2815ac86-83c5-4269-b11e-5ad497b8b2e0",
				PatronID: "p-200",
			},
			mockBehavior: func(r *service_mocks.MockCirculationService, req model.PlaceHoldRequest) {
				r.EXPECT().
					PlaceHold(context.Background(), req).
					Return(model.Hold{}, errs.ErrDuplicateHold)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"patron already holds this book"}`,
			},
		},
		{
			name:         "err. patronId required",
			body:         `{"bookUid":"2815ac86-83c5-4269-b11e-5ad497b8b2e0"}`,
			req:          model.PlaceHoldRequest{},
			mockBehavior: func(r *service_mocks.MockCirculationService, req model.PlaceHoldRequest) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"Key: 'PlaceHoldRequest.PatronID' Error:Field validation for 'PatronID' failed on the 'required' tag"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockCirculationService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/holds", h.PlaceHold)

			r := httptest.NewRequest(http.MethodPost, "/holds", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc, tt.req)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_SweepHolds(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockCirculationService)

	var tests = []struct {
		name         string
		role         auth.Role
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok. staff",
			role: auth.RoleStaff,
			mockBehavior: func(r *service_mocks.MockCirculationService) {
				r.EXPECT().
					SweepExpiredHolds(gomock.Any()).
					Return(model.SweepResult{ExpiredHolds: 2, OverdueLoans: 1}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"expiredHolds":2,"overdueLoans":1}`,
			},
		},
		{
			name:         "err. patron forbidden",
			role:         auth.RolePatron,
			mockBehavior: func(r *service_mocks.MockCirculationService) {},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"operation not permitted for this user"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockCirculationService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/holds/sweep", h.SweepHolds, md.AuthContext)

			r := httptest.NewRequest(http.MethodPost, "/holds/sweep", http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			r.Header.Set(auth.XUserIDHeader, "u-1")
			r.Header.Set(auth.XUserRoleHeader, string(tt.role))
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

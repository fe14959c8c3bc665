package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-rental/internal/errs"
	"github.com/Astemirdum/library-rental/internal/handler"
	service_mocks "github.com/Astemirdum/library-rental/internal/handler/mocks"
	"github.com/Astemirdum/library-rental/internal/model"
	"github.com/Astemirdum/library-rental/pkg/auth"
	"github.com/Astemirdum/library-rental/pkg/validate"
)

func withAuth(username, role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(auth.SetAuthContext(req.Context(), username, role)))
			return next(c)
		}
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestHandler_CreateBorrowing(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBorrowingService)

	borrowing := model.Borrowing{
		ID:                 7,
		BorrowingUid:       "2b4b8f2e-25c4-4c07-bdac-c125d2d1f0ab",
		Username:           "reader",
		BorrowDate:         date(2024, 4, 17),
		ExpectedReturnDate: date(2024, 5, 1),
		IsActive:           true,
	}
	payment := model.Payment{
		ID:          100,
		BorrowingID: 7,
		Status:      model.PaymentStatusPending,
		Type:        model.PaymentTypePayment,
		SessionID:   "cs_1",
		SessionURL:  "https://pay/cs_1",
		MoneyToPay:  decimal.RequireFromString("49.00"),
	}

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
		wantErr      bool
	}{
		{
			name: "ok",
			body: `{"bookIds":[1,3]}`,
			mockBehavior: func(r *service_mocks.MockBorrowingService) {
				r.EXPECT().
					CreateBorrowing(gomock.Any(), model.CreateBorrowingRequest{
						BookIDs:  []int{1, 3},
						Username: "reader",
					}).
					Return(model.BorrowingResponse{Borrowing: borrowing, Payment: &payment}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":7,"borrowingUid":"2b4b8f2e-25c4-4c07-bdac-c125d2d1f0ab","username":"reader","borrowDate":"2024-04-17T00:00:00Z","expectedReturnDate":"2024-05-01T00:00:00Z","actualReturnDate":null,"isActive":true,"books":null,"payment":{"id":100,"borrowingId":7,"status":"pending","type":"payment","sessionId":"cs_1","sessionUrl":"https://pay/cs_1","moneyToPay":"49"}}`,
			},
		},
		{
			name: "err. out of stock",
			body: `{"bookIds":[1,3]}`,
			mockBehavior: func(r *service_mocks.MockBorrowingService) {
				r.EXPECT().
					CreateBorrowing(gomock.Any(), gomock.Any()).
					Return(model.BorrowingResponse{}, errs.OutOfStock("Sample Book"))
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"the book \"Sample Book\" temporarily unavailable: out of stock"}`,
			},
			wantErr: true,
		},
		{
			name:         "err. empty book list",
			body:         `{"bookIds":[]}`,
			mockBehavior: func(r *service_mocks.MockBorrowingService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBorrowingService(c)
			bookSvc := service_mocks.NewMockBookService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, bookSvc, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/borrowings", h.CreateBorrowing, withAuth("reader", auth.RoleUser))

			r := httptest.NewRequest(http.MethodPost, "/borrowings", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_ReturnBorrowing(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBorrowingService)

	returnDate := date(2024, 5, 4)
	returned := model.Borrowing{
		ID:                 7,
		BorrowingUid:       "2b4b8f2e-25c4-4c07-bdac-c125d2d1f0ab",
		Username:           "reader",
		BorrowDate:         date(2024, 4, 17),
		ExpectedReturnDate: date(2024, 5, 1),
		ActualReturnDate:   &returnDate,
		IsActive:           false,
	}

	var tests = []struct {
		name         string
		role         string
		mockBehavior mockBehavior
		response     response
		wantErr      bool
	}{
		{
			name: "ok",
			role: auth.RoleAdmin,
			mockBehavior: func(r *service_mocks.MockBorrowingService) {
				r.EXPECT().
					ReturnBorrowing(gomock.Any(), 7, true).
					Return(model.BorrowingResponse{Borrowing: returned}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":7,"borrowingUid":"2b4b8f2e-25c4-4c07-bdac-c125d2d1f0ab","username":"reader","borrowDate":"2024-04-17T00:00:00Z","expectedReturnDate":"2024-05-01T00:00:00Z","actualReturnDate":"2024-05-04T00:00:00Z","isActive":false,"books":null}`,
			},
		},
		{
			name: "err. already returned",
			role: auth.RoleAdmin,
			mockBehavior: func(r *service_mocks.MockBorrowingService) {
				r.EXPECT().
					ReturnBorrowing(gomock.Any(), 7, true).
					Return(model.BorrowingResponse{}, errs.ErrAlreadyReturned)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"this borrowing is already returned"}`,
			},
			wantErr: true,
		},
		{
			name: "err. forbidden",
			role: auth.RoleUser,
			mockBehavior: func(r *service_mocks.MockBorrowingService) {
				r.EXPECT().
					ReturnBorrowing(gomock.Any(), 7, false).
					Return(model.BorrowingResponse{}, errs.ErrForbidden)
			},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"forbidden"}`,
			},
			wantErr: true,
		},
		{
			name: "err. not found",
			role: auth.RoleAdmin,
			mockBehavior: func(r *service_mocks.MockBorrowingService) {
				r.EXPECT().
					ReturnBorrowing(gomock.Any(), 7, true).
					Return(model.BorrowingResponse{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBorrowingService(c)
			bookSvc := service_mocks.NewMockBookService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, bookSvc, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.PATCH("/borrowings/:id/return", h.ReturnBorrowing, withAuth("admin", tt.role))

			r := httptest.NewRequest(http.MethodPatch, "/borrowings/7/return", http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

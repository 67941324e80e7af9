package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/checkmarble/caregiver-uploads/models"
)

type MockValidator struct {
	mock.Mock
}

func (m *MockValidator) Validate(ctx context.Context, token string) (models.Credentials, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.Credentials), args.Error(1)
}

func TestAuthenticationMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		setupHeaders   func(*http.Request)
		setupValidator func(*MockValidator)
		expectedStatus int
	}{
		{
			name: "valid bearer token",
			setupHeaders: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer test-jwt")
			},
			setupValidator: func(v *MockValidator) {
				v.On("Validate", mock.Anything, "test-jwt").
					Return(models.Credentials{CallerId: "caller"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing authorization header",
			setupHeaders:   func(r *http.Request) {},
			setupValidator: func(v *MockValidator) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "invalid bearer token format",
			setupHeaders: func(r *http.Request) {
				r.Header.Set("Authorization", "Token test-jwt")
			},
			setupValidator: func(v *MockValidator) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "rejected token",
			setupHeaders: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer expired")
			},
			setupValidator: func(v *MockValidator) {
				v.On("Validate", mock.Anything, "expired").
					Return(models.Credentials{}, errors.Wrap(models.UnAuthorizedError, "token is expired"))
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "validator failure",
			setupHeaders: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer test-jwt")
			},
			setupValidator: func(v *MockValidator) {
				v.On("Validate", mock.Anything, "test-jwt").
					Return(models.Credentials{}, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := new(MockValidator)
			tt.setupValidator(validator)
			auth := NewAuthentication(validator)

			var callerId string
			router := gin.New()
			router.GET("/test", auth.Middleware, func(c *gin.Context) {
				creds, _ := CredentialsFromCtx(c.Request.Context())
				callerId = creds.CallerId
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			tt.setupHeaders(req)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "caller", callerId)
			}
			validator.AssertExpectations(t)
		})
	}
}

func TestParseAuthorizationBearerHeader(t *testing.T) {
	header := http.Header{}
	header.Add("Authorization", "Bearer TOKEN")
	authorization, err := ParseAuthorizationBearerHeader(header)
	assert.NoError(t, err)
	assert.Equal(t, "TOKEN", authorization)

	authorization, err = ParseAuthorizationBearerHeader(http.Header{})
	assert.NoError(t, err)
	assert.Empty(t, authorization)

	header = http.Header{}
	header.Add("Authorization", "MalformedBearer")
	_, err = ParseAuthorizationBearerHeader(header)
	assert.ErrorIs(t, err, models.UnAuthorizedError)
}

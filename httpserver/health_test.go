package httpserver_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestHealthcheck(t *testing.T) {
	t.Run("should report OK without reading contacts", func(t *testing.T) {
		svc := new(MockContactService)
		server := newTestServer(svc)
		recorder := httptest.NewRecorder()

		server.Router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

		assert.Equal(t, http.StatusOK, recorder.Code)
		resp := decodeAPIResponse(t, recorder)
		assert.Equal(t, "200", resp.Code)
		assert.JSONEq(t, `{"status":"OK"}`, string(resp.Result))
		svc.AssertNotCalled(t, "ListContacts", mock.Anything)
		svc.AssertNotCalled(t, "AddContact", mock.Anything, mock.Anything)
	})

	t.Run("should not need a contact service", func(t *testing.T) {
		server := newTestServer(nil)
		recorder := httptest.NewRecorder()

		server.Router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

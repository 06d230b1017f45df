package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"customer-registry/internal/client"
	"customer-registry/internal/api/handler/dto"

	"github.com/stretchr/testify/assert"
)

func newTestController(t *testing.T, handler http.HandlerFunc) (*client.Controller, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return client.NewController(client.NewClient(srv.URL, srv.Client())), srv
}

func TestControllerLoad(t *testing.T) {
	ctl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"Ana","phone":"111"}]`))
	})

	assert.True(t, ctl.State().Loading)

	err := ctl.Load(context.Background())
	assert.NoError(t, err)

	state := ctl.State()
	assert.False(t, state.Loading)
	assert.Len(t, state.Customers, 1)
	assert.Equal(t, "Ana", state.Customers[0].Name)
}

func TestControllerLoadConfigMissing(t *testing.T) {
	ctl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":"CONFIG_MISSING","message":"DATABASE_URL is not set"}}`))
	})

	err := ctl.Load(context.Background())
	assert.Error(t, err)

	state := ctl.State()
	assert.False(t, state.Loading)
	assert.True(t, state.SetupRequired)
	assert.Contains(t, state.ErrMessage, "DATABASE_URL")
}

func TestControllerAddPrepends(t *testing.T) {
	ctl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`[{"id":1,"name":"Ana","phone":"111"}]`))
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":2,"name":"Bea","phone":"222"}`))
		}
	})

	assert.NoError(t, ctl.Load(context.Background()))
	assert.NoError(t, ctl.Add(context.Background(), "Bea", "222"))

	state := ctl.State()
	assert.Len(t, state.Customers, 2)
	assert.Equal(t, int64(2), state.Customers[0].ID, "new customer should be first")
}

func TestControllerAddSingleFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	ctl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":1,"name":"Ana","phone":"111"}`))
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, ctl.Add(context.Background(), "Ana", "111"))
	}()

	<-started
	err := ctl.Add(context.Background(), "Bea", "222")
	assert.True(t, errors.Is(err, client.ErrOperationInFlight))

	close(release)
	wg.Wait()
}

func TestControllerDeleteFilters(t *testing.T) {
	ctl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`[{"id":2,"name":"Bea","phone":"222"},{"id":1,"name":"Ana","phone":"111"}]`))
		case http.MethodDelete:
			var req dto.DeleteCustomerRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			resp, _ := json.Marshal(dto.DeleteCustomerResponse{Message: "customer deleted", ID: *req.ID})
			w.Write(resp)
		}
	})

	assert.NoError(t, ctl.Load(context.Background()))
	assert.NoError(t, ctl.Delete(context.Background(), 2))

	state := ctl.State()
	assert.Len(t, state.Customers, 1)
	assert.Equal(t, int64(1), state.Customers[0].ID)
}

// One delete at a time across all rows, not just the targeted one.
func TestControllerDeletePageWideSingleFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	ctl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.Write([]byte(`{"message":"customer deleted","id":1}`))
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, ctl.Delete(context.Background(), 1))
	}()

	<-started
	err := ctl.Delete(context.Background(), 2)
	assert.True(t, errors.Is(err, client.ErrOperationInFlight), "deletes of other rows must also be rejected")

	close(release)
	wg.Wait()
}

func TestControllerDeleteNotFoundLeavesStateUnchanged(t *testing.T) {
	ctl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`[{"id":1,"name":"Ana","phone":"111"}]`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"not found"}}`))
		}
	})

	assert.NoError(t, ctl.Load(context.Background()))

	err := ctl.Delete(context.Background(), 999)
	assert.True(t, errors.Is(err, client.ErrNotFound))

	state := ctl.State()
	assert.Len(t, state.Customers, 1)
	assert.NotEmpty(t, state.ErrMessage)
}

package ticket_api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ms-events/internal/apperror"
	"ms-events/internal/logger"
	"ms-events/internal/models"
	tickets "ms-events/internal/tickets/service"
	"ms-events/internal/tickets/ticket_api"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTicketDB struct {
	mock.Mock
}

func (m *MockTicketDB) CreateTicket(ctx context.Context, t *models.Ticket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTicketDB) GetTicketByID(ctx context.Context, id string) (*models.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockTicketDB) ListTickets(ctx context.Context, f models.TicketFilter) ([]models.Ticket, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Ticket), args.Int(1), args.Error(2)
}

func (m *MockTicketDB) UpdateTicket(ctx context.Context, t *models.Ticket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTicketDB) DeleteTicket(ctx context.Context, id string) (*models.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

type MockEvents struct {
	mock.Mock
}

func (m *MockEvents) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func setupRouter(store *MockTicketDB, events *MockEvents) http.Handler {
	h := ticket_api.NewHandler(tickets.NewTicketService(store, events), logger.Nop())
	r := chi.NewRouter()
	r.Route("/api/tickets", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.FindAll)
		r.Get("/{eventId}/events", h.FindAllByEvent)
		r.Get("/{id}", h.FindOne)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Remove)
	})
	return r
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestCreateTicket(t *testing.T) {
	store, events := new(MockTicketDB), new(MockEvents)
	eventID := uuid.NewString()
	events.On("GetEventByID", mock.Anything, eventID).Return(&models.Event{ID: eventID, Name: "Jazz Night"}, nil)
	store.On("CreateTicket", mock.Anything, mock.AnythingOfType("*models.Ticket")).Return(nil)

	rr := serve(setupRouter(store, events), http.MethodPost, "/api/tickets",
		`{"name":"VIP","description":"Front row","price":150,"quantity":20,"events":"`+eventID+`"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Data    models.Ticket `json:"data"`
		Message string        `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "VIP", body.Data.Name)
	assert.True(t, decimal.NewFromInt(150).Equal(body.Data.Price))
	assert.Equal(t, "Success create ticket", body.Message)
	store.AssertExpectations(t)
}

func TestCreateTicket_UnknownEvent(t *testing.T) {
	store, events := new(MockTicketDB), new(MockEvents)
	eventID := uuid.NewString()
	events.On("GetEventByID", mock.Anything, eventID).Return(nil, apperror.NewNotFound("event not found"))

	rr := serve(setupRouter(store, events), http.MethodPost, "/api/tickets",
		`{"name":"VIP","description":"Front row","price":150,"quantity":20,"events":"`+eventID+`"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "event not found")
	store.AssertNotCalled(t, "CreateTicket", mock.Anything, mock.Anything)
}

func TestFindAllByEvent(t *testing.T) {
	store, events := new(MockTicketDB), new(MockEvents)
	eventID := uuid.NewString()
	store.On("ListTickets", mock.Anything, mock.MatchedBy(func(f models.TicketFilter) bool {
		return f.EventID == eventID && f.Page == 1
	})).Return([]models.Ticket{{ID: uuid.NewString(), Name: "Regular", EventID: eventID}}, 1, nil)

	rr := serve(setupRouter(store, events), http.MethodGet, "/api/tickets/"+eventID+"/events", "")

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Data       []models.Ticket   `json:"data"`
		Message    string            `json:"message"`
		Pagination models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Regular", body.Data[0].Name)
	assert.Equal(t, 1, body.Pagination.Total)
	assert.Equal(t, "Success find all ticket by event", body.Message)
	store.AssertExpectations(t)
}

func TestFindAllByEvent_MalformedIDIsEmpty(t *testing.T) {
	store, events := new(MockTicketDB), new(MockEvents)

	rr := serve(setupRouter(store, events), http.MethodGet, "/api/tickets/not-a-uuid/events", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"data":[]`)
	store.AssertNotCalled(t, "ListTickets", mock.Anything, mock.Anything)
}

func TestFindOneTicket_MalformedIDIsNotFound(t *testing.T) {
	store, events := new(MockTicketDB), new(MockEvents)

	rr := serve(setupRouter(store, events), http.MethodGet, "/api/tickets/not-a-uuid", "")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "ticket not found")
}

func TestRemoveTicket_StillOrdered(t *testing.T) {
	store, events := new(MockTicketDB), new(MockEvents)
	id := uuid.NewString()
	store.On("DeleteTicket", mock.Anything, id).Return(nil, apperror.NewConflict("ticket still has orders"))

	rr := serve(setupRouter(store, events), http.MethodDelete, "/api/tickets/"+id, "")

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "ticket still has orders")
}

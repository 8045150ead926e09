package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmiclattes/manos-library/internal/domain"
	"github.com/cosmiclattes/manos-library/internal/handlers"
	"github.com/cosmiclattes/manos-library/internal/httpapi"
	"github.com/cosmiclattes/manos-library/internal/repository/memstore"
	"github.com/cosmiclattes/manos-library/internal/service"
)

type testEnv struct {
	app       *fiber.App
	store     *memstore.Store
	bookID    uuid.UUID
	member    domain.Caller
	librarian domain.Caller
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memstore.New()
	bookID := uuid.New()
	store.AddBook(domain.Book{ID: bookID, Title: "Testing HTTP", Author: "Fiber", InCirculation: true})
	require.NoError(t, store.CreateInventory(&domain.Inventory{BookID: bookID, TotalCopies: 2}))

	member := domain.User{ID: uuid.New(), Name: "Member", Email: "member@example.com", UserType: domain.RoleMember}
	librarian := domain.User{ID: uuid.New(), Name: "Librarian", Email: "librarian@example.com", UserType: domain.RoleLibrarian}
	store.AddUser(member)
	store.AddUser(librarian)

	circulationService := service.NewCirculationService(store.Books(), store.Inventories(), store.Borrows(), nil)
	userService := service.NewUserService(store.Users())
	statsService := service.NewStatsService(store.Books(), store.Users(), store.Inventories())

	app := fiber.New()
	handlers.RegisterRoutes(app,
		handlers.NewCirculationHandler(circulationService),
		handlers.NewInventoryHandler(circulationService),
		handlers.NewUsersHandler(userService),
		handlers.NewStatsHandler(statsService),
	)

	return &testEnv{
		app:       app,
		store:     store,
		bookID:    bookID,
		member:    domain.Caller{ID: member.ID, Role: member.UserType},
		librarian: domain.Caller{ID: librarian.ID, Role: librarian.UserType},
	}
}

func (e *testEnv) request(t *testing.T, method, path string, caller *domain.Caller, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if caller != nil {
		req.Header.Set("X-User-ID", caller.ID.String())
		req.Header.Set("X-User-Role", string(caller.Role))
	}

	resp, err := e.app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) httpapi.APIResponse {
	t.Helper()
	var out httpapi.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func Test_Borrow_Created(t *testing.T) {
	e := newTestEnv(t)

	resp := e.request(t, http.MethodPost, "/api/v1/borrow", &e.member,
		map[string]interface{}{"book_id": e.bookID})

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	body := decodeResponse(t, resp)
	assert.True(t, body.Success)
}

func Test_Borrow_MissingIdentityHeaders(t *testing.T) {
	e := newTestEnv(t)

	resp := e.request(t, http.MethodPost, "/api/v1/borrow", nil,
		map[string]interface{}{"book_id": e.bookID})

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func Test_Borrow_Conflicts(t *testing.T) {
	e := newTestEnv(t)

	resp := e.request(t, http.MethodPost, "/api/v1/borrow", &e.member,
		map[string]interface{}{"book_id": e.bookID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = e.request(t, http.MethodPost, "/api/v1/borrow", &e.member,
		map[string]interface{}{"book_id": e.bookID})

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	body := decodeResponse(t, resp)
	require.NotNil(t, body.Error)
	assert.Equal(t, "ALREADY_BORROWED", body.Error.Code)
}

func Test_Borrow_LibrarianForbidden(t *testing.T) {
	e := newTestEnv(t)

	resp := e.request(t, http.MethodPost, "/api/v1/borrow", &e.librarian,
		map[string]interface{}{"book_id": e.bookID})

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	body := decodeResponse(t, resp)
	require.NotNil(t, body.Error)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
}

func Test_Return_Flow(t *testing.T) {
	e := newTestEnv(t)

	resp := e.request(t, http.MethodPost, "/api/v1/borrow", &e.member,
		map[string]interface{}{"book_id": e.bookID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = e.request(t, http.MethodPost, fmt.Sprintf("/api/v1/borrow/return/%s", e.bookID), &e.member, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = e.request(t, http.MethodPost, fmt.Sprintf("/api/v1/borrow/return/%s", e.bookID), &e.member, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	body := decodeResponse(t, resp)
	require.NotNil(t, body.Error)
	assert.Equal(t, "NOT_BORROWED", body.Error.Code)
}

func Test_Availability_PublicAndNotFound(t *testing.T) {
	e := newTestEnv(t)

	resp := e.request(t, http.MethodGet, fmt.Sprintf("/api/v1/books/%s/availability", e.bookID), nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = e.request(t, http.MethodGet, fmt.Sprintf("/api/v1/books/%s/availability", uuid.New()), nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func Test_UpdateInventory_StatusMapping(t *testing.T) {
	e := newTestEnv(t)

	// member -> 403
	resp := e.request(t, http.MethodPut, fmt.Sprintf("/api/v1/inventory/%s", e.bookID), &e.member,
		map[string]interface{}{"total_copies": 5, "borrowed_copies": 0})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// malformed counts -> 400
	resp = e.request(t, http.MethodPut, fmt.Sprintf("/api/v1/inventory/%s", e.bookID), &e.librarian,
		map[string]interface{}{"total_copies": 5, "borrowed_copies": 7})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decodeResponse(t, resp)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INVALID_STATE", body.Error.Code)

	// valid replace -> 200
	resp = e.request(t, http.MethodPut, fmt.Sprintf("/api/v1/inventory/%s", e.bookID), &e.librarian,
		map[string]interface{}{"total_copies": 5, "borrowed_copies": 1})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func Test_CreateInventory_Duplicate(t *testing.T) {
	e := newTestEnv(t)

	resp := e.request(t, http.MethodPost, "/api/v1/inventory", &e.librarian,
		map[string]interface{}{"book_id": e.bookID, "total_copies": 5})

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	body := decodeResponse(t, resp)
	require.NotNil(t, body.Error)
	assert.Equal(t, "ALREADY_EXISTS", body.Error.Code)
}

func Test_DeleteInventory_NoContent(t *testing.T) {
	e := newTestEnv(t)

	resp := e.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/inventory/%s", e.bookID), &e.librarian, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = e.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/inventory/%s", e.bookID), &e.librarian, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func Test_UpdateUserRole_Endpoint(t *testing.T) {
	e := newTestEnv(t)

	resp := e.request(t, http.MethodPut, fmt.Sprintf("/api/v1/users/%s/role", e.member.ID), &e.librarian,
		map[string]interface{}{"user_type": "librarian"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = e.request(t, http.MethodPut, fmt.Sprintf("/api/v1/users/%s/role", e.librarian.ID), &e.member,
		map[string]interface{}{"user_type": "member"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func Test_LibrarianStats_Endpoint(t *testing.T) {
	e := newTestEnv(t)

	resp := e.request(t, http.MethodGet, "/api/v1/stats/librarian", &e.librarian, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = e.request(t, http.MethodGet, "/api/v1/stats/librarian", &e.member, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

package book

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookshelf/internal/testutil"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (*HTTPHandler, *MockRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockRepo := NewMockRepository(ctrl)
	return NewHTTPHandler(NewService(mockRepo)), mockRepo
}

func decodeBooks(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

var testBook = Book{
	ID:          "6f1a5c3e-8d7b-4a2f-9c0d-1e2f3a4b5c6d",
	Title:       "Dune",
	Author:      "Herbert",
	PublishYear: 1965,
	Description: "Desert planet saga",
	CreatedAt:   time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC),
	UpdatedAt:   time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC),
}

func TestHTTPHandler_List(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().List(gomock.Any()).Return([]Book{testBook}, nil)

		w := httptest.NewRecorder()
		handler.List(w, testutil.NewRequest(http.MethodGet, "/books", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		books := decodeBooks(t, w)
		require.Len(t, books, 1)
		assert.Equal(t, testBook.ID, books[0]["id"])
		assert.Equal(t, "Dune", books[0]["title"])
		assert.Equal(t, float64(1965), books[0]["publishYear"])
		assert.NotContains(t, books[0], "createdAt", "timestamps stay internal")
		assert.NotContains(t, books[0], "updatedAt")
	})

	t.Run("empty collection is an empty array", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().List(gomock.Any()).Return(nil, nil)

		w := httptest.NewRecorder()
		handler.List(w, testutil.NewRequest(http.MethodGet, "/books", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
	})

	t.Run("store failure", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().List(gomock.Any()).Return(nil, context.DeadlineExceeded)

		w := httptest.NewRecorder()
		handler.List(w, testutil.NewRequest(http.MethodGet, "/books", nil))

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusInternalServerError, resp.Code)
		assert.Equal(t, "Server error", resp.Body["error"])
	})
}

func TestHTTPHandler_Get(t *testing.T) {
	getBook := func(handler *HTTPHandler, id string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodGet, "/books/"+id, nil)
		r.SetPathValue("id", id)
		handler.Get(w, r)
		return w
	}

	t.Run("success", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().GetByID(gomock.Any(), testBook.ID).Return(testBook, nil)

		w := getBook(handler, testBook.ID)

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, testBook.ID, resp.Body["id"])
		assert.Equal(t, "Dune", resp.Body["title"])
	})

	t.Run("absent and malformed identifiers are indistinguishable", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().GetByID(gomock.Any(), testBook.ID).Return(Book{}, ErrNotFound)
		mockRepo.EXPECT().GetByID(gomock.Any(), "not-a-uuid").Return(Book{}, ErrInvalidID)

		absent := testutil.RecordHTTPResponse(getBook(handler, testBook.ID))
		malformed := testutil.RecordHTTPResponse(getBook(handler, "not-a-uuid"))

		assert.Equal(t, http.StatusNotFound, absent.Code)
		assert.Equal(t, http.StatusNotFound, malformed.Code)
		assert.Equal(t, "Book not found", absent.Body["error"])
		assert.Equal(t, absent.Body, malformed.Body)
	})

	t.Run("store failure", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().GetByID(gomock.Any(), testBook.ID).Return(Book{}, context.DeadlineExceeded)

		resp := testutil.RecordHTTPResponse(getBook(handler, testBook.ID))
		assert.Equal(t, http.StatusInternalServerError, resp.Code)
		assert.Equal(t, "Server error", resp.Body["error"])
	})
}

func TestHTTPHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		w := httptest.NewRecorder()
		handler.Create(w, testutil.NewRequest(http.MethodPost, "/books", Input{
			Title:       "Dune",
			Author:      "Herbert",
			PublishYear: 1965,
			Description: "Desert planet saga",
		}))

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusCreated, resp.Code)
		assert.NotEmpty(t, resp.Body["id"])
		assert.Equal(t, "Dune", resp.Body["title"])
	})

	t.Run("missing field", func(t *testing.T) {
		handler, _ := newTestHandler(t)

		w := httptest.NewRecorder()
		handler.Create(w, testutil.NewRequest(http.MethodPost, "/books", Input{
			Title:       "Dune",
			PublishYear: 1965,
			Description: "Desert planet saga",
		}))

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "All fields are required", resp.Body["error"])
	})

	t.Run("zero year counts as missing", func(t *testing.T) {
		handler, _ := newTestHandler(t)

		w := httptest.NewRecorder()
		handler.Create(w, testutil.NewRequest(http.MethodPost, "/books", Input{
			Title:       "Dune",
			Author:      "Herbert",
			Description: "Desert planet saga",
		}))

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "All fields are required", resp.Body["error"])
	})

	t.Run("whitespace-only field passes the coarse check, fails validation", func(t *testing.T) {
		handler, _ := newTestHandler(t)

		w := httptest.NewRecorder()
		handler.Create(w, testutil.NewRequest(http.MethodPost, "/books", Input{
			Title:       "   ",
			Author:      "Herbert",
			PublishYear: 1965,
			Description: "Desert planet saga",
		}))

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, []any{"Title is required"}, resp.Body["error"])
	})

	t.Run("out-of-range year lists violations", func(t *testing.T) {
		handler, _ := newTestHandler(t)

		w := httptest.NewRecorder()
		handler.Create(w, testutil.NewRequest(http.MethodPost, "/books", Input{
			Title:       "Dune",
			Author:      "Herbert",
			PublishYear: 500,
			Description: "Desert planet saga",
		}))

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, []any{"Year must be at least 1000"}, resp.Body["error"])
	})

	t.Run("malformed body", func(t *testing.T) {
		handler, _ := newTestHandler(t)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader("{not json"))
		handler.Create(w, r)

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "invalid request body", resp.Body["error"])
	})

	t.Run("store failure", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(context.DeadlineExceeded)

		w := httptest.NewRecorder()
		handler.Create(w, testutil.NewRequest(http.MethodPost, "/books", Input{
			Title:       "Dune",
			Author:      "Herbert",
			PublishYear: 1965,
			Description: "Desert planet saga",
		}))

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusInternalServerError, resp.Code)
		assert.Equal(t, "Server error", resp.Body["error"])
	})
}

func TestHTTPHandler_Update(t *testing.T) {
	putBook := func(handler *HTTPHandler, id string, body any) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPut, "/books/"+id, body)
		r.SetPathValue("id", id)
		handler.Update(w, r)
		return w
	}

	t.Run("partial body merges", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().GetByID(gomock.Any(), testBook.ID).Return(testBook, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		resp := testutil.RecordHTTPResponse(putBook(handler, testBook.ID, map[string]any{"publishYear": 1966}))

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, float64(1966), resp.Body["publishYear"])
		assert.Equal(t, "Dune", resp.Body["title"])
		assert.Equal(t, "Herbert", resp.Body["author"])
	})

	t.Run("not found", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().GetByID(gomock.Any(), testBook.ID).Return(Book{}, ErrNotFound)

		resp := testutil.RecordHTTPResponse(putBook(handler, testBook.ID, map[string]any{"title": "Messiah"}))

		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.Equal(t, "Book not found", resp.Body["error"])
	})

	t.Run("invalid merged record", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().GetByID(gomock.Any(), testBook.ID).Return(testBook, nil)

		resp := testutil.RecordHTTPResponse(putBook(handler, testBook.ID, map[string]any{"publishYear": 500}))

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, []any{"Year must be at least 1000"}, resp.Body["error"])
	})
}

func TestHTTPHandler_Delete(t *testing.T) {
	deleteBook := func(handler *HTTPHandler, id string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodDelete, "/books/"+id, nil)
		r.SetPathValue("id", id)
		handler.Delete(w, r)
		return w
	}

	t.Run("success", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().GetByID(gomock.Any(), testBook.ID).Return(testBook, nil)
		mockRepo.EXPECT().Delete(gomock.Any(), testBook.ID).Return(nil)

		resp := testutil.RecordHTTPResponse(deleteBook(handler, testBook.ID))

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "Book removed", resp.Body["message"])
	})

	t.Run("malformed identifier", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().GetByID(gomock.Any(), "not-a-uuid").Return(Book{}, ErrInvalidID)

		resp := testutil.RecordHTTPResponse(deleteBook(handler, "not-a-uuid"))

		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.Equal(t, "Book not found", resp.Body["error"])
	})
}

func TestHTTPHandler_Search(t *testing.T) {
	searchBooks := func(handler *HTTPHandler, query string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodGet, "/books/search/"+query, nil)
		r.SetPathValue("query", query)
		handler.Search(w, r)
		return w
	}

	t.Run("forwards the query to the store", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().Search(gomock.Any(), "herb").Return([]Book{testBook}, nil)

		w := searchBooks(handler, "herb")

		assert.Equal(t, http.StatusOK, w.Code)
		books := decodeBooks(t, w)
		require.Len(t, books, 1)
		assert.Equal(t, "Herbert", books[0]["author"])
	})

	t.Run("no matches is an empty array", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().Search(gomock.Any(), "zzz").Return(nil, nil)

		w := searchBooks(handler, "zzz")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
	})

	t.Run("store failure", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().Search(gomock.Any(), "herb").Return(nil, context.DeadlineExceeded)

		resp := testutil.RecordHTTPResponse(searchBooks(handler, "herb"))
		assert.Equal(t, http.StatusInternalServerError, resp.Code)
		assert.Equal(t, "Server error", resp.Body["error"])
	})
}

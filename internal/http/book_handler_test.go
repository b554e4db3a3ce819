package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libroteca/internal/entity"
	"libroteca/internal/store/mocks"
	"libroteca/internal/testutil"
	"libroteca/internal/usecase"
)

var testFacets = usecase.BookFacets{
	Genres:           []string{"Fiction", "Poetry"},
	Authors:          []string{"Borges", "Cortázar"},
	Titles:           []string{"El Aleph", "Ficciones"},
	PublicationDates: []int{1944, 1949},
}

func newBookHandler(t *testing.T) (*BookHandler, *mocks.MockBookRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	repo := mocks.NewMockBookRepository(ctrl)

	return NewBookHandler(repo, nil), repo
}

func TestBookHandler_List(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMock      func(repo *mocks.MockBookRepository)
		expectedStatus int
	}{
		{
			name:  "success - empty collection",
			query: "",
			setupMock: func(repo *mocks.MockBookRepository) {
				repo.EXPECT().Facets(gomock.Any()).Return(usecase.BookFacets{}, nil)
				repo.EXPECT().Find(gomock.Any(), gomock.Any()).Return([]entity.Book{}, int64(0), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "success - with filters",
			query: "?genre=Fiction&search=ale&publicationDate=1940-1950",
			setupMock: func(repo *mocks.MockBookRepository) {
				repo.EXPECT().Facets(gomock.Any()).Return(testFacets, nil)
				repo.EXPECT().Find(gomock.Any(), gomock.Any()).Return([]entity.Book{testutil.TestBook}, int64(1), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "facets failure",
			query: "",
			setupMock: func(repo *mocks.MockBookRepository) {
				repo.EXPECT().Facets(gomock.Any()).Return(usecase.BookFacets{}, context.DeadlineExceeded)
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:  "find failure",
			query: "",
			setupMock: func(repo *mocks.MockBookRepository) {
				repo.EXPECT().Facets(gomock.Any()).Return(testFacets, nil)
				repo.EXPECT().Find(gomock.Any(), gomock.Any()).Return(nil, int64(0), context.DeadlineExceeded)
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, repo := newBookHandler(t)
			tt.setupMock(repo)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/books"+tt.query, nil)

			handler.List(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestBookHandler_List_Envelope(t *testing.T) {
	handler, repo := newBookHandler(t)

	var got usecase.ListParams
	repo.EXPECT().Facets(gomock.Any()).Return(testFacets, nil)
	repo.EXPECT().Find(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p usecase.ListParams) ([]entity.Book, int64, error) {
			got = p
			return []entity.Book{testutil.TestBook}, int64(5), nil
		})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/books?limit=2&offset=2&genre=Fiction", nil)

	handler.List(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, got.Limit)
	assert.Equal(t, 2, got.Offset)
	assert.Equal(t, []string{"Fiction"}, got.Filter.Genres)

	resp := testutil.Record(w)
	assert.Equal(t, false, resp.Body["error"])
	assert.Equal(t, float64(5), resp.Body["total"])
	assert.Equal(t, float64(2), resp.Body["page"])
	assert.Equal(t, float64(2), resp.Body["limit"])
	assert.Len(t, resp.Body["genres"], 2)
	assert.Len(t, resp.Body["publicationDates"], 2)
	assert.Len(t, resp.Body["books"], 1)
}

func TestBookHandler_ListAll(t *testing.T) {
	handler, repo := newBookHandler(t)

	var got usecase.ListParams
	repo.EXPECT().Facets(gomock.Any()).Return(testFacets, nil)
	repo.EXPECT().Find(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p usecase.ListParams) ([]entity.Book, int64, error) {
			got = p
			return []entity.Book{testutil.TestBook}, int64(1), nil
		})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/books/all?search=test", nil)

	handler.ListAll(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	// No default limit on the light listing.
	assert.Equal(t, 0, got.Limit)
	assert.Equal(t, "test", got.Filter.Search)

	resp := testutil.Record(w)
	assert.Equal(t, false, resp.Body["error"])
	assert.Equal(t, float64(1), resp.Body["page"])
	assert.Len(t, resp.Body["response"], 1)
	assert.Contains(t, resp.Body, "titles")
	assert.NotContains(t, resp.Body, "genres")
}

func TestBookHandler_Resource_Get(t *testing.T) {
	bookID := testutil.TestBook.ID.Hex()

	tests := []struct {
		name           string
		path           string
		setupMock      func(repo *mocks.MockBookRepository)
		expectedStatus int
	}{
		{
			name:           "malformed id rejected before lookup",
			path:           "/books/not-a-hex-id",
			setupMock:      func(repo *mocks.MockBookRepository) {},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "record not found",
			path: "/books/ffffffffffffffffffffffff",
			setupMock: func(repo *mocks.MockBookRepository) {
				repo.EXPECT().GetByID(gomock.Any(), "ffffffffffffffffffffffff").
					Return(entity.Book{}, usecase.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "storage failure",
			path: "/books/" + bookID,
			setupMock: func(repo *mocks.MockBookRepository) {
				repo.EXPECT().GetByID(gomock.Any(), bookID).
					Return(entity.Book{}, context.DeadlineExceeded)
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name: "success",
			path: "/books/" + bookID,
			setupMock: func(repo *mocks.MockBookRepository) {
				repo.EXPECT().GetByID(gomock.Any(), bookID).
					Return(testutil.TestBook, nil)
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, repo := newBookHandler(t)
			tt.setupMock(repo)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)

			handler.Resource(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestBookHandler_Create(t *testing.T) {
	fields := map[string]string{
		"title":           "Ficciones",
		"author":          "Borges",
		"genre":           "Fiction",
		"publicationDate": "1944",
		"fragment":        "El jardín de senderos que se bifurcan.",
	}

	t.Run("missing required field", func(t *testing.T) {
		handler, _ := newBookHandler(t)

		incomplete := map[string]string{"title": "Ficciones", "genre": "Fiction"}
		w := httptest.NewRecorder()
		r := testutil.NewMultipartRequest(http.MethodPost, "/books", incomplete)

		handler.Create(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non-numeric year", func(t *testing.T) {
		handler, _ := newBookHandler(t)

		bad := map[string]string{
			"title": "Ficciones", "author": "Borges",
			"genre": "Fiction", "publicationDate": "unknown",
		}
		w := httptest.NewRecorder()
		r := testutil.NewMultipartRequest(http.MethodPost, "/books", bad)

		handler.Create(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		handler, repo := newBookHandler(t)

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, b *entity.Book) error {
				b.ID = testutil.TestBook.ID
				return nil
			})

		w := httptest.NewRecorder()
		r := testutil.NewMultipartRequest(http.MethodPost, "/books", fields)

		handler.Create(w, r)

		require.Equal(t, http.StatusCreated, w.Code)

		resp := testutil.Record(w)
		assert.Equal(t, testutil.TestBook.ID.Hex(), resp.Body["id"])
		assert.Equal(t, "Ficciones", resp.Body["title"])
		assert.Equal(t, float64(1944), resp.Body["publicationDate"])
	})

	t.Run("storage validation failure", func(t *testing.T) {
		handler, repo := newBookHandler(t)

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(usecase.ErrInvalidRecord)

		w := httptest.NewRecorder()
		r := testutil.NewMultipartRequest(http.MethodPost, "/books", fields)

		handler.Create(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBookHandler_Replace_MergesFields(t *testing.T) {
	handler, repo := newBookHandler(t)
	bookID := testutil.TestBook.ID.Hex()

	repo.EXPECT().GetByID(gomock.Any(), bookID).Return(testutil.TestBook, nil)

	var updated entity.Book
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, b *entity.Book) error {
			updated = *b
			return nil
		})

	w := httptest.NewRecorder()
	r := testutil.NewMultipartRequest(http.MethodPut, "/books/"+bookID, map[string]string{
		"title": "A New Title",
	})

	handler.Resource(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	// Omitted fields keep their previous values.
	assert.Equal(t, "A New Title", updated.Title)
	assert.Equal(t, testutil.TestBook.Author, updated.Author)
	assert.Equal(t, testutil.TestBook.Genre, updated.Genre)
	assert.Equal(t, testutil.TestBook.PublicationDate, updated.PublicationDate)
}

func TestBookHandler_Patch(t *testing.T) {
	bookID := testutil.TestBook.ID.Hex()

	t.Run("empty body is rejected without an update", func(t *testing.T) {
		handler, repo := newBookHandler(t)

		// Only the id resolution touches the store.
		repo.EXPECT().GetByID(gomock.Any(), bookID).Return(testutil.TestBook, nil)

		w := httptest.NewRecorder()
		r := testutil.NewJSONRequest(http.MethodPatch, "/books/"+bookID, map[string]any{})

		handler.Resource(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("partial update merges", func(t *testing.T) {
		handler, repo := newBookHandler(t)

		repo.EXPECT().GetByID(gomock.Any(), bookID).Return(testutil.TestBook, nil)

		var updated entity.Book
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, b *entity.Book) error {
				updated = *b
				return nil
			})

		w := httptest.NewRecorder()
		r := testutil.NewJSONRequest(http.MethodPatch, "/books/"+bookID, map[string]any{
			"genre": "Horror",
		})

		handler.Resource(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Horror", updated.Genre)
		assert.Equal(t, testutil.TestBook.Title, updated.Title)
	})
}

func TestBookHandler_Delete(t *testing.T) {
	bookID := testutil.TestBook.ID.Hex()

	t.Run("success confirms with title", func(t *testing.T) {
		handler, repo := newBookHandler(t)

		repo.EXPECT().GetByID(gomock.Any(), bookID).Return(testutil.TestBook, nil)
		repo.EXPECT().Delete(gomock.Any(), bookID).Return(nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodDelete, "/books/"+bookID, nil)

		handler.Resource(w, r)

		require.Equal(t, http.StatusOK, w.Code)

		resp := testutil.Record(w)
		assert.Contains(t, resp.Body["message"], testutil.TestBook.Title)
	})

	t.Run("storage failure", func(t *testing.T) {
		handler, repo := newBookHandler(t)

		repo.EXPECT().GetByID(gomock.Any(), bookID).Return(testutil.TestBook, nil)
		repo.EXPECT().Delete(gomock.Any(), bookID).Return(context.DeadlineExceeded)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodDelete, "/books/"+bookID, nil)

		handler.Resource(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"libroteca/internal/entity"
	"libroteca/internal/upload"
	"libroteca/internal/usecase"
)

const maxUploadMemory = 32 << 20

// objectIDRx is the storage engine's identifier format; anything else
// is rejected before a lookup is attempted.
var objectIDRx = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

var errInvalidID = errors.New("invalid book id")

type BookHandler struct {
	repo    usecase.BookRepository
	uploads *upload.Store
}

func NewBookHandler(repo usecase.BookRepository, uploads *upload.Store) *BookHandler {
	return &BookHandler{repo: repo, uploads: uploads}
}

// List serves the faceted listing: a page of matching books plus the
// total match count and the distinct value sets of the whole
// collection.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := usecase.ParseListParams(r.URL.Query())

	facets, err := h.repo.Facets(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, listErrorResponse{Error: true, Message: "Internal Server Error"})
		return
	}

	books, total, err := h.repo.Find(ctx, params)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, listErrorResponse{Error: true, Message: "Internal Server Error"})
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Total:            total,
		Page:             params.Page(),
		Limit:            params.Limit,
		Genres:           facets.Genres,
		Authors:          facets.Authors,
		Titles:           facets.Titles,
		PublicationDates: facets.PublicationDates,
		Books:            books,
	})
}

// ListAll serves the light listing variant: title search and optional
// pagination, no genre/author/date facets, no default limit.
func (h *BookHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := usecase.ParseListAllParams(r.URL.Query())

	facets, err := h.repo.Facets(ctx)
	if err != nil {
		JSONMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	books, total, err := h.repo.Find(ctx, params)
	if err != nil {
		JSONMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, listAllResponse{
		Total:    total,
		Page:     params.Page(),
		Limit:    params.Limit,
		Titles:   facets.Titles,
		Response: books,
	})
}

// Create inserts a new book from a multipart form. The required
// fields are checked before any write; an uploaded image is stored
// first and its path recorded on the record.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		JSONMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	author := strings.TrimSpace(r.FormValue("author"))
	genre := strings.TrimSpace(r.FormValue("genre"))
	rawYear := strings.TrimSpace(r.FormValue("publicationDate"))

	if title == "" || author == "" || genre == "" || rawYear == "" {
		JSONMessage(w, http.StatusBadRequest, "title, author, genre and publicationDate are required")
		return
	}
	year, err := strconv.Atoi(rawYear)
	if err != nil {
		JSONMessage(w, http.StatusBadRequest, "publicationDate must be a numeric year")
		return
	}

	book := &entity.Book{
		Title:           title,
		Author:          author,
		Genre:           genre,
		PublicationDate: year,
		Fragment:        r.FormValue("fragment"),
	}

	imagePath, hasImage, err := h.saveImage(r)
	if err != nil {
		JSONMessage(w, http.StatusInternalServerError, "could not store image")
		return
	}
	if hasImage {
		book.ImagePath = imagePath
	}

	if err := h.repo.Create(r.Context(), book); err != nil {
		JSONMessage(w, http.StatusBadRequest, "could not create book")
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

// Resource dispatches /books/{id} requests. The identifier is resolved
// to a stored record before the method-specific logic runs.
func (h *BookHandler) Resource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/books/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	book, err := h.resolve(r.Context(), id)
	switch {
	case errors.Is(err, errInvalidID):
		JSONMessage(w, http.StatusNotFound, "invalid book id")
		return
	case errors.Is(err, usecase.ErrNotFound):
		JSONMessage(w, http.StatusNotFound, "book not found")
		return
	case err != nil:
		JSONMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, book)
	case http.MethodPut:
		h.replace(w, r, book)
	case http.MethodPatch:
		h.patch(w, r, book)
	case http.MethodDelete:
		h.delete(w, r, book)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// resolve validates the raw identifier's shape before any lookup, then
// fetches the record it names.
func (h *BookHandler) resolve(ctx context.Context, id string) (entity.Book, error) {
	if !objectIDRx.MatchString(id) {
		return entity.Book{}, errInvalidID
	}
	return h.repo.GetByID(ctx, id)
}

// replace merges the multipart form into the resolved record field by
// field; an absent field keeps its previous value. A new image
// overwrites the stored path.
func (h *BookHandler) replace(w http.ResponseWriter, r *http.Request, book entity.Book) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		JSONMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	if v := r.FormValue("title"); v != "" {
		book.Title = v
	}
	if v := r.FormValue("author"); v != "" {
		book.Author = v
	}
	if v := r.FormValue("genre"); v != "" {
		book.Genre = v
	}
	if v := r.FormValue("publicationDate"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			JSONMessage(w, http.StatusBadRequest, "publicationDate must be a numeric year")
			return
		}
		book.PublicationDate = year
	}
	if v := r.FormValue("fragment"); v != "" {
		book.Fragment = v
	}

	imagePath, hasImage, err := h.saveImage(r)
	if err != nil {
		JSONMessage(w, http.StatusInternalServerError, "could not store image")
		return
	}
	if hasImage {
		book.ImagePath = imagePath
	}

	if err := h.repo.Update(r.Context(), &book); err != nil {
		JSONMessage(w, http.StatusBadRequest, "could not update book")
		return
	}
	writeJSON(w, http.StatusOK, book)
}

type patchBookReq struct {
	Title           *string `json:"title"`
	Author          *string `json:"author"`
	Genre           *string `json:"genre"`
	PublicationDate *int    `json:"publicationDate"`
}

// patch applies a partial JSON update. A body carrying none of the
// four core fields is rejected outright; the request never reaches
// the store.
func (h *BookHandler) patch(w http.ResponseWriter, r *http.Request, book entity.Book) {
	var req patchBookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == nil && req.Author == nil && req.Genre == nil && req.PublicationDate == nil {
		JSONMessage(w, http.StatusBadRequest, "at least one of title, author, genre or publicationDate must be sent")
		return
	}

	if req.Title != nil && *req.Title != "" {
		book.Title = *req.Title
	}
	if req.Author != nil && *req.Author != "" {
		book.Author = *req.Author
	}
	if req.Genre != nil && *req.Genre != "" {
		book.Genre = *req.Genre
	}
	if req.PublicationDate != nil && *req.PublicationDate != 0 {
		book.PublicationDate = *req.PublicationDate
	}

	if err := h.repo.Update(r.Context(), &book); err != nil {
		JSONMessage(w, http.StatusBadRequest, "could not update book")
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *BookHandler) delete(w http.ResponseWriter, r *http.Request, book entity.Book) {
	if err := h.repo.Delete(r.Context(), book.ID.Hex()); err != nil {
		JSONMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	JSONMessage(w, http.StatusOK, fmt.Sprintf("book %q was deleted successfully", book.Title))
}

// saveImage stores the optional "image" form file and reports whether
// one was attached.
func (h *BookHandler) saveImage(r *http.Request) (string, bool, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	defer file.Close()

	path, err := h.uploads.Save(file, header)
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}

package http

import (
	"encoding/json"
	"net/http"

	"libroteca/internal/entity"
)

// messageResponse is the plain body used for errors and confirmations.
type messageResponse struct {
	Message string `json:"message"`
}

// listResponse is the faceted listing envelope. The facet sets cover
// the entire collection, not the filtered page.
type listResponse struct {
	Error            bool          `json:"error"`
	Total            int64         `json:"total"`
	Page             int           `json:"page"`
	Limit            int           `json:"limit"`
	Genres           []string      `json:"genres"`
	Authors          []string      `json:"authors"`
	Titles           []string      `json:"titles"`
	PublicationDates []int         `json:"publicationDates"`
	Books            []entity.Book `json:"books"`
}

// listAllResponse is the light listing envelope.
type listAllResponse struct {
	Error    bool          `json:"error"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	Limit    int           `json:"limit"`
	Titles   []string      `json:"titles"`
	Response []entity.Book `json:"response"`
}

type listErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type validationResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

type loginResponse struct {
	Message string         `json:"message"`
	User    entity.Account `json:"user"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONMessage writes a {"message": ...} body with the given status.
func JSONMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

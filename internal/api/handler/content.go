package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/mindmaze/internal/api/response"
	"github.com/mcoot/mindmaze/internal/model"
	"github.com/mcoot/mindmaze/internal/services/content"
)

// ContentHandler serves the question bank read endpoints
type ContentHandler struct {
	content *content.Service
}

// NewContentHandler creates a new content handler
func NewContentHandler(content *content.Service) *ContentHandler {
	return &ContentHandler{
		content: content,
	}
}

// Categories handles GET /api/v1/categories
func (h *ContentHandler) Categories(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.CategoriesFromCounts(h.content.Categories()))
}

// Questions handles GET /api/v1/categories/{category}/questions
func (h *ContentHandler) Questions(w http.ResponseWriter, r *http.Request) {
	category := model.Category(mux.Vars(r)["category"])

	questions, err := h.content.Questions(category)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.QuestionsFromModel(category, questions))
}

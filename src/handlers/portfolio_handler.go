package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/username/stockledger/src/models"
	"github.com/username/stockledger/src/services"
	"github.com/username/stockledger/src/utils"
)

type PortfolioHandler struct {
	portfolioService services.PortfolioService
}

func NewPortfolioHandler(portfolioService services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

func (h *PortfolioHandler) List(w http.ResponseWriter, r *http.Request) {
	portfolios, err := h.portfolioService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to retrieve portfolios")
		return
	}
	utils.SendJSON(w, map[string]any{
		"message": "Portfolios retrieved",
		"count":   len(portfolios),
		"data":    portfolios,
	}, http.StatusOK)
}

func decodePortfolioInput(w http.ResponseWriter, r *http.Request) (models.PortfolioInput, bool) {
	var in models.PortfolioInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return in, false
	}
	return in, true
}

func (h *PortfolioHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodePortfolioInput(w, r)
	if !ok {
		return
	}
	p, err := h.portfolioService.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, "Failed to create portfolio")
		return
	}
	utils.SendJSON(w, map[string]any{"message": "Portfolio created", "data": p}, http.StatusCreated)
}

func (h *PortfolioHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.portfolioService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Failed to retrieve portfolio")
		return
	}
	utils.SendJSON(w, p, http.StatusOK)
}

func (h *PortfolioHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	in, ok := decodePortfolioInput(w, r)
	if !ok {
		return
	}
	p, err := h.portfolioService.Update(r.Context(), id, in, partial)
	if err != nil {
		writeServiceError(w, r, err, "Failed to update portfolio")
		return
	}
	utils.SendJSON(w, map[string]any{"message": "Portfolio updated", "data": p}, http.StatusOK)
}

func (h *PortfolioHandler) Update(w http.ResponseWriter, r *http.Request) { h.update(w, r, false) }

func (h *PortfolioHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) { h.update(w, r, true) }

// Delete removes the portfolio together with all of its trades.
func (h *PortfolioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.portfolioService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "Failed to delete portfolio")
		return
	}
	utils.SendJSON(w, map[string]string{"message": "Portfolio deleted"}, http.StatusOK)
}

func (h *PortfolioHandler) ByName(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		utils.SendJSONError(w, "name parameter is required", http.StatusBadRequest)
		return
	}
	p, err := h.portfolioService.GetByName(r.Context(), name)
	if err != nil {
		writeServiceError(w, r, err, "Failed to retrieve portfolio")
		return
	}
	utils.SendJSON(w, p, http.StatusOK)
}

func (h *PortfolioHandler) DeleteByName(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		utils.SendJSONError(w, "name parameter is required", http.StatusBadRequest)
		return
	}
	if err := h.portfolioService.DeleteByName(r.Context(), name); err != nil {
		writeServiceError(w, r, err, "Failed to delete portfolio")
		return
	}
	utils.SendJSON(w, map[string]string{"message": fmt.Sprintf("Portfolio %s deleted", name)}, http.StatusOK)
}

package handler

import (
	"encoding/json"
	"net/http"

	"tours-be/internal/bokun"
	"tours-be/internal/booking"
	"tours-be/internal/packages"
	"tours-be/internal/utils"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

type BokunHandler struct {
	packages packages.Service
	booking  booking.Service
}

func NewBokunHandler(packageSvc packages.Service, bookingSvc booking.Service) *BokunHandler {
	return &BokunHandler{packages: packageSvc, booking: bookingSvc}
}

// Register mounts the catalog and checkout routes under /api/bokun.
func (h *BokunHandler) Register(r *mux.Router) {
	api := r.PathPrefix("/api/bokun").Subrouter()
	api.HandleFunc("/packages", h.ListPackages).Methods(http.MethodGet)
	api.HandleFunc("/packages/{id}", h.GetPackage).Methods(http.MethodGet)
	api.HandleFunc("/packages/{id}/availability", h.GetAvailability).Methods(http.MethodGet)
	api.HandleFunc("/checkout/options", h.CheckoutOptions).Methods(http.MethodPost)
	api.HandleFunc("/checkout/submit", h.SubmitCheckout).Methods(http.MethodPost)
}

// ----------------- Catalog -----------------

func (h *BokunHandler) ListPackages(w http.ResponseWriter, r *http.Request) {
	const title = "Bokun packages request failed"

	page, ok := utils.QueryInt(r, "page", 0)
	if !ok {
		utils.WriteProblem(w, title, "page must be an integer", http.StatusBadRequest)
		return
	}
	pageSize, ok := utils.QueryInt(r, "pageSize", packages.DefaultPageSize)
	if !ok {
		utils.WriteProblem(w, title, "pageSize must be an integer", http.StatusBadRequest)
		return
	}

	filter := packages.ListFilter{
		Query:    utils.QueryString(r, "q"),
		Category: utils.QueryString(r, "category"),
	}

	items, err := h.packages.ListPackages(r.Context(), filter, page, pageSize)
	if err != nil {
		writeError(w, r, title, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, items)
}

func (h *BokunHandler) GetPackage(w http.ResponseWriter, r *http.Request) {
	details, err := h.packages.GetPackage(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, "Bokun package details request failed", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, details)
}

func (h *BokunHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	const title = "Bokun availability request failed"

	includeSoldOut, ok := utils.QueryBool(r, "includeSoldOut", false)
	if !ok {
		utils.WriteProblem(w, title, "includeSoldOut must be true or false", http.StatusBadRequest)
		return
	}

	input := packages.AvailabilityInput{
		Start:          utils.QueryString(r, "start"),
		End:            utils.QueryString(r, "end"),
		Currency:       utils.QueryString(r, "currency"),
		IncludeSoldOut: includeSoldOut,
	}

	availability, err := h.packages.GetAvailability(r.Context(), mux.Vars(r)["id"], input)
	if err != nil {
		writeError(w, r, title, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, availability)
}

// ----------------- Checkout -----------------

func (h *BokunHandler) CheckoutOptions(w http.ResponseWriter, r *http.Request) {
	const title = "Bokun checkout options request failed"

	var sel bokun.CheckoutSelection
	if !decodeBody(w, r, title, &sel) {
		return
	}

	result, err := h.booking.CheckoutOptions(r.Context(), sel)
	if err != nil {
		writeError(w, r, title, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

func (h *BokunHandler) SubmitCheckout(w http.ResponseWriter, r *http.Request) {
	const title = "Bokun checkout submit failed"

	var req bokun.CheckoutSubmitRequest
	if !decodeBody(w, r, title, &req) {
		return
	}

	result, err := h.booking.SubmitCheckout(r.Context(), req)
	if err != nil {
		writeError(w, r, title, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

func decodeBody(w http.ResponseWriter, r *http.Request, title string, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		utils.WriteProblem(w, title, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

package order_api

import (
	"fmt"
	"net/http"
	"strings"

	"ms-events/internal/auth"
	"ms-events/internal/logger"
	"ms-events/internal/models"
	"ms-events/internal/order"
	"ms-events/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	OrderService *order.OrderService
	Logger       *logger.Logger
}

func NewHandler(orderService *order.OrderService, log *logger.Logger) *Handler {
	return &Handler{OrderService: orderService, Logger: log}
}

func orderFilter(r *http.Request) models.OrderFilter {
	q := r.URL.Query()
	return models.OrderFilter{
		PageQuery: utils.ParsePageQuery(r),
		EventID:   strings.TrimSpace(q.Get("events")),
		Status:    models.OrderStatus(strings.TrimSpace(q.Get("status"))),
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err, "failed to create order")
		return
	}

	result, err := h.OrderService.Create(r.Context(), auth.UserID(r.Context()), req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Create order: %v", err))
		utils.WriteError(w, err, "failed to create order")
		return
	}
	utils.WriteSuccess(w, result, "Success create order")
}

func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	result, pagination, err := h.OrderService.FindAll(r.Context(), orderFilter(r))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("List orders: %v", err))
		utils.WriteError(w, err, "failed to find all orders")
		return
	}
	utils.WritePaginated(w, result, pagination, "Success find all orders")
}

func (h *Handler) FindAllByMember(w http.ResponseWriter, r *http.Request) {
	result, pagination, err := h.OrderService.FindAllByMember(r.Context(), auth.UserID(r.Context()), orderFilter(r))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("List order history: %v", err))
		utils.WriteError(w, err, "failed to find all orders")
		return
	}
	utils.WritePaginated(w, result, pagination, "Success find all orders history")
}

func (h *Handler) FindOne(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	var userID string
	admin := false
	if claims != nil {
		userID = claims.UserID
		admin = claims.Role == models.RoleAdmin
	}

	result, err := h.OrderService.FindOne(r.Context(), chi.URLParam(r, "orderId"), userID, admin)
	if err != nil {
		utils.WriteError(w, err, "failed to find one order")
		return
	}
	utils.WriteSuccess(w, result, "Success find one order")
}

func (h *Handler) Completed(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	result, err := h.OrderService.Complete(r.Context(), orderID, auth.UserID(r.Context()))
	if err != nil {
		h.Logger.Warn("API", fmt.Sprintf("Complete order %s: %v", orderID, err))
		utils.WriteError(w, err, "failed to complete order")
		return
	}
	utils.WriteSuccess(w, result, "Success completed an order")
}

func (h *Handler) Pending(w http.ResponseWriter, r *http.Request) {
	result, err := h.OrderService.Pending(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		utils.WriteError(w, err, "failed to pending order")
		return
	}
	utils.WriteSuccess(w, result, "Success pending an order")
}

func (h *Handler) Cancelled(w http.ResponseWriter, r *http.Request) {
	result, err := h.OrderService.Cancelled(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		utils.WriteError(w, err, "failed to cancel order")
		return
	}
	utils.WriteSuccess(w, result, "Success cancelled an order")
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	result, err := h.OrderService.Remove(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		utils.WriteError(w, err, "failed to remove order")
		return
	}
	utils.WriteSuccess(w, result, "Success remove an order")
}

// VoucherQR answers with the PNG itself rather than the JSON envelope.
func (h *Handler) VoucherQR(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	voucherID := chi.URLParam(r, "voucherId")

	png, err := h.OrderService.VoucherQR(r.Context(), orderID, voucherID, auth.UserID(r.Context()))
	if err != nil {
		utils.WriteError(w, err, "failed to generate voucher QR")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", voucherID+".png"))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.Logger.Warn("API", fmt.Sprintf("VoucherQR: write response: %v", err))
	}
}

func (h *Handler) VerifyVoucher(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyVoucherRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err, "failed to verify voucher")
		return
	}

	result, err := h.OrderService.VerifyVoucher(r.Context(), req)
	if err != nil {
		utils.WriteError(w, err, "failed to verify voucher")
		return
	}
	utils.WriteSuccess(w, result, "Voucher is valid")
}

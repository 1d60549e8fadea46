package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/diacaremarket/safe-deal-service/internal/application"
)

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) readyz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ready")
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := bearerTokenFromHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeMissingBearerError(r.Context(), w, "authenticate")
			return
		}

		claims, err := h.verifier.Verify(r.Context(), raw)
		if err != nil {
			writeMappedError(r.Context(), w, "authenticate", err)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyClaims, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) createTransaction(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "create_transaction")
		return
	}

	var req application.CreateTransactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_transaction", err)
		return
	}

	view, err := h.service.CreateTransaction(r.Context(), claims.UserID, req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_transaction", err)
		return
	}
	writeSuccess(w, http.StatusCreated, view)
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "list_transactions")
		return
	}

	query := application.ListTransactionsQuery{
		Role:  r.URL.Query().Get("role"),
		Page:  parseIntDefault(r.URL.Query().Get("page"), 1),
		Limit: parseIntDefault(r.URL.Query().Get("limit"), 20),
	}
	views, err := h.service.ListTransactions(r.Context(), claims.UserID, query)
	if err != nil {
		writeMappedError(r.Context(), w, "list_transactions", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"transactions": views})
}

func (h *Handler) getTransaction(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "get_transaction")
		return
	}
	transactionID, err := uuid.Parse(chi.URLParam(r, "transaction_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid transaction_id")
		return
	}

	view, err := h.service.GetTransaction(r.Context(), claims.UserID, transactionID)
	if err != nil {
		writeMappedError(r.Context(), w, "get_transaction", err)
		return
	}
	writeSuccess(w, http.StatusOK, view)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "update_status")
		return
	}
	transactionID, err := uuid.Parse(chi.URLParam(r, "transaction_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid transaction_id")
		return
	}

	var req application.UpdateStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "update_status", err)
		return
	}

	view, err := h.service.UpdateStatus(r.Context(), claims.UserID, transactionID, req)
	if err != nil {
		writeMappedError(r.Context(), w, "update_status", err)
		return
	}
	writeSuccess(w, http.StatusOK, view)
}

func (h *Handler) createDispute(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "create_dispute")
		return
	}
	transactionID, err := uuid.Parse(chi.URLParam(r, "transaction_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid transaction_id")
		return
	}

	var req application.CreateDisputeRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_dispute", err)
		return
	}

	view, err := h.service.CreateDispute(r.Context(), claims.UserID, transactionID, req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_dispute", err)
		return
	}
	writeSuccess(w, http.StatusOK, view)
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"asciify/internal/httpkit"
	"asciify/internal/pkg/errors"
	"asciify/internal/repositories"
)

func (h *Handler) ListInvocations(w http.ResponseWriter, r *http.Request) error {
	if h.ledger == nil {
		return errLedgerDisabled()
	}

	limit := httpkit.QueryInt(r, "limit", 50, 200)
	items, err := h.ledger.List(r.Context(), limit)
	if err != nil {
		return ledgerError(err, "handlers.list_invocations")
	}

	httpkit.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
	return nil
}

func (h *Handler) GetInvocation(w http.ResponseWriter, r *http.Request) error {
	if h.ledger == nil {
		return errLedgerDisabled()
	}

	id := chi.URLParam(r, "invocationId")
	inv, err := h.ledger.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrInvocationNotFound) {
			return errors.NotFound("invocation", id)
		}
		return ledgerError(err, "handlers.get_invocation")
	}

	httpkit.WriteJSON(w, http.StatusOK, map[string]any{"invocation": inv})
	return nil
}

func errLedgerDisabled() error {
	return errors.New(errors.CodeUnavailable, "invocation ledger is not configured").
		WithField("setting", "DATABASE_URL")
}

func ledgerError(err error, op string) error {
	if httpkit.IsUndefinedTable(err) || httpkit.IsConnectionFailure(err) {
		return errors.WrapWithCode(err, errors.CodeUnavailable, op, "invocation ledger unavailable")
	}
	return errors.Wrap(err, op, "ledger query failed")
}

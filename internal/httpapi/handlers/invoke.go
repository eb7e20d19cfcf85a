package handlers

import (
	"net/http"

	v1 "asciify/internal/contracts/host/v1"
	"asciify/internal/httpkit"
	"asciify/internal/invocation"
	"asciify/internal/pkg/errors"
	"asciify/internal/pkg/middleware"
	"asciify/internal/util"
)

// invokeReply is the host response plus an error member on failure.
type invokeReply struct {
	v1.InvokeResponse
	Error *middleware.ErrorBody `json:"error,omitempty"`
}

// Invoke serves POST /{function} for the function host.
func (h *Handler) Invoke(function string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		p, ok := h.functions[function]
		if !ok {
			middleware.HandleError(w, r, h.log, errors.NotFound("function", function))
			return
		}

		var req v1.InvokeRequest
		if err := httpkit.DecodeJSON(r, &req); err != nil {
			middleware.HandleError(w, r, h.log,
				errors.WrapWithCode(err, errors.CodeBadRequest, "handlers.invoke", "invalid invocation body"))
			return
		}

		blob, ok := req.Blob()
		if !ok {
			middleware.HandleError(w, r, h.log,
				errors.Validationf("Data.%s must be a string", v1.BlobBinding).WithField("field", "Data."+v1.BlobBinding))
			return
		}

		invID := r.Header.Get(v1.InvocationIDHeader)
		if invID == "" {
			invID = util.NewID("inv")
		}
		inv := invocation.New(invID, function, h.log.FromContext(ctx))

		res, err := p.Run(ctx, inv, req.BlobName(), blob)

		reply := invokeReply{InvokeResponse: v1.InvokeResponse{
			Outputs: map[string]any{},
			Logs:    inv.Logs(),
		}}
		if err != nil {
			middleware.LogError(r, h.log, err)
			reply.Error = middleware.NewErrorBody(err)
			httpkit.WriteJSON(w, errors.GetHTTPStatus(err), reply)
			return
		}

		if res.BlobName != "" {
			reply.ReturnValue = res.BlobName
		}
		httpkit.WriteJSON(w, http.StatusOK, reply)
	}
}

package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"svw.info/changemaker/internal/domain"
	"svw.info/changemaker/internal/infrastructure/storage"
	"svw.info/changemaker/internal/machine"
	"svw.info/changemaker/internal/usecase"
	"svw.info/changemaker/internal/validator"
)

// maxImportBytes bounds an uploaded state file.
const maxImportBytes = 1 << 20

type Handler struct {
	UC *usecase.Service
}

func New(uc *usecase.Service) *Handler { return &Handler{UC: uc} }

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/change", h.handleChange)
	mux.HandleFunc("/api/purchase", h.handlePurchase)
	mux.HandleFunc("/api/products", h.handleProducts)
	mux.HandleFunc("/api/machine", h.handleMachine)
	mux.HandleFunc("/api/export", h.handleExport)
	mux.HandleFunc("/api/import", h.handleImport)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResp{Success: false, Message: "method not allowed"})
}

type errorResp struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ---- Change ----

type changeReq struct {
	CashRegister  domain.Register `json:"cashRegister"`
	PaymentAmount int             `json:"paymentAmount"`
	Debug         bool            `json:"debug,omitempty"`
}

type changeResp struct {
	Success         bool                  `json:"success"`
	Message         string                `json:"message"`
	Change          []int                 `json:"change"`
	CoinUsage       map[int]int           `json:"coinUsage"`
	UpdatedRegister domain.Register       `json:"updatedRegister"`
	Debug           *domain.DebugSnapshot `json:"debug"`
}

type changeFailResp struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Failure string                `json:"failure,omitempty"`
	Debug   *domain.DebugSnapshot `json:"debug"`
}

func toChangeResp(res *domain.Result) (int, any) {
	if !res.Success {
		return http.StatusBadRequest, changeFailResp{
			Message: res.Message,
			Failure: res.Failure.String(),
			Debug:   res.Debug,
		}
	}
	return http.StatusOK, changeResp{
		Success:         true,
		Message:         res.Message,
		Change:          res.Change,
		CoinUsage:       res.CoinUsage,
		UpdatedRegister: res.UpdatedRegister,
		Debug:           res.Debug,
	}
}

func (h *Handler) handleChange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req changeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Message: "Invalid JSON payload."})
		return
	}
	res, _, err := h.UC.ComputeChange(r.Context(), domain.ChangeRequest{
		Register: req.CashRegister,
		Amount:   req.PaymentAmount,
		Debug:    req.Debug,
	})
	if err != nil {
		status := http.StatusInternalServerError
		var verr *validator.Error
		if errors.As(err, &verr) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResp{Message: err.Error()})
		return
	}
	status, body := toChangeResp(res)
	writeJSON(w, status, body)
}

// ---- Purchase ----

type purchaseReq struct {
	ProductID     string `json:"productId"`
	PaymentAmount int    `json:"paymentAmount"`
	Debug         bool   `json:"debug,omitempty"`
}

type purchaseResp struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message"`
	Purchase *domain.Purchase `json:"purchase,omitempty"`
}

func (h *Handler) handlePurchase(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req purchaseReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp{Message: "invalid JSON or missing productId"})
		return
	}
	rc, err := h.UC.Purchase(r.Context(), req.ProductID, req.PaymentAmount, req.Debug)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, machine.ErrUnknownProduct):
			status = http.StatusNotFound
		case errors.Is(err, machine.ErrOutOfStock), errors.Is(err, machine.ErrPaymentTooLow):
			status = http.StatusConflict
		case errors.As(err, new(*validator.Error)):
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResp{Message: err.Error()})
		return
	}
	status := http.StatusOK
	if !rc.Result.Success {
		status = http.StatusConflict
	}
	writeJSON(w, status, purchaseResp{Success: rc.Result.Success, Message: rc.Result.Message, Purchase: rc})
}

// ---- Products / Machine ----

type productsResp struct {
	Products []domain.Product `json:"products"`
}

func (h *Handler) handleProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	ps, err := h.UC.Products(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, productsResp{Products: ps})
}

type machineResp struct {
	State   domain.State `json:"state"`
	Balance int          `json:"balance"`
}

func (h *Handler) handleMachine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	st, err := h.UC.MachineState(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, machineResp{State: st, Balance: st.Register.Total(0)})
}

// ---- Export / Import ----

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	var buf bytes.Buffer
	if err := h.UC.Export(r.Context(), &buf); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp{Message: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="machine-state.txt"`)
	_, _ = io.Copy(w, &buf)
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	st, err := h.UC.Import(r.Context(), http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		status := http.StatusInternalServerError
		var perr *storage.ParseError
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			status = http.StatusRequestEntityTooLarge
		case errors.As(err, &perr), errors.Is(err, machine.ErrInvalidState):
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResp{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, machineResp{State: st, Balance: st.Register.Total(0)})
}

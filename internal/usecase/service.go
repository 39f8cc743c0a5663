package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"svw.info/changemaker/internal/domain"
	"svw.info/changemaker/internal/infrastructure/storage"
	"svw.info/changemaker/internal/ports"
)

type Service struct {
	Solver    ports.Solver
	Validator ports.Validator
	Machine   ports.Machine
	Logger    *slog.Logger
}

func NewService(s ports.Solver, v ports.Validator, m ports.Machine, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Solver: s, Validator: v, Machine: m, Logger: logger}
}

var errNotConfigured = errors.New("usecase dependency not configured")

// ComputeChange validates req and runs the solver. A non-nil error means the
// request was rejected; solver failures come back in the result.
func (u *Service) ComputeChange(ctx context.Context, req domain.ChangeRequest) (*domain.Result, ports.Stats, error) {
	if u.Solver == nil {
		return nil, ports.Stats{}, errNotConfigured
	}
	if u.Validator != nil {
		if err := u.Validator.Validate(ctx, req); err != nil {
			return nil, ports.Stats{}, err
		}
	}
	res, st := u.Solver.Solve(req)
	u.logResult(ctx, "change", req, res, st)
	return res, st, nil
}

func (u *Service) logResult(ctx context.Context, op string, req domain.ChangeRequest, res *domain.Result, st ports.Stats) {
	if !res.Success {
		u.Logger.InfoContext(ctx, op+" failed",
			"amount", req.Amount,
			"slots", len(req.Register),
			"failure", res.Failure.String(),
			"message", res.Message,
		)
		return
	}
	u.Logger.DebugContext(ctx, op,
		"amount", req.Amount,
		"slots", len(req.Register),
		"coins", res.CoinCount(),
		"nodes", st.Nodes,
		"dur", st.Duration,
		"cached", st.Cached,
	)
}

func (u *Service) Purchase(ctx context.Context, productID string, payment int, debug bool) (*domain.Purchase, error) {
	if u.Machine == nil {
		return nil, errNotConfigured
	}
	rc, err := u.Machine.Purchase(ctx, productID, payment, debug)
	if err != nil {
		u.Logger.InfoContext(ctx, "purchase rejected", "product", productID, "payment", payment, "err", err)
		return nil, err
	}
	u.Logger.InfoContext(ctx, "purchase",
		"id", rc.ID,
		"product", rc.Product.ID,
		"paid", rc.Paid,
		"change", rc.RoundedChange,
		"success", rc.Result.Success,
	)
	return rc, nil
}

func (u *Service) Products(ctx context.Context) ([]domain.Product, error) {
	if u.Machine == nil {
		return nil, errNotConfigured
	}
	return u.Machine.Products(ctx), nil
}

func (u *Service) MachineState(ctx context.Context) (domain.State, error) {
	if u.Machine == nil {
		return domain.State{}, errNotConfigured
	}
	return u.Machine.Snapshot(ctx), nil
}

// Export writes the machine state in the import/export text format.
func (u *Service) Export(ctx context.Context, w io.Writer) error {
	if u.Machine == nil {
		return errNotConfigured
	}
	return storage.Format(w, u.Machine.Snapshot(ctx))
}

// Import replaces the machine state with the parsed contents of r.
func (u *Service) Import(ctx context.Context, r io.Reader) (domain.State, error) {
	if u.Machine == nil {
		return domain.State{}, errNotConfigured
	}
	st, err := storage.Parse(r)
	if err != nil {
		return domain.State{}, err
	}
	if err := u.Machine.Replace(ctx, st); err != nil {
		return domain.State{}, err
	}
	u.Logger.InfoContext(ctx, "machine state imported", "slots", len(st.Register), "products", len(st.Products))
	return u.Machine.Snapshot(ctx), nil
}

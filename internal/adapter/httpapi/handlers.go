package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/galerie-com/move/internal/domain"
	"github.com/galerie-com/move/internal/usecase/catalog"
	"github.com/galerie-com/move/internal/usecase/holdings"
	"github.com/galerie-com/move/pkg/apperr"
	"github.com/galerie-com/move/pkg/logger"
	"github.com/galerie-com/move/pkg/money"
)

// Handler serves the reconciler's read API.
type Handler struct {
	Catalog  *catalog.Service
	Holdings *holdings.Aggregator
	Log      *logger.Logger
}

func NewHandler(catalogSvc *catalog.Service, holdingsAgg *holdings.Aggregator, logg *logger.Logger) *Handler {
	return &Handler{
		Catalog:  catalogSvc,
		Holdings: holdingsAgg,
		Log:      logg,
	}
}

type saleResponse struct {
	ID               string `json:"id"`
	Generation       string `json:"generation"`
	Name             string `json:"name"`
	Symbol           string `json:"symbol"`
	Description      string `json:"description"`
	IconURL          string `json:"icon_url"`
	MetadataSource   string `json:"metadata_source"`
	TotalUnits       uint64 `json:"total_units"`
	TotalPriceUSDC   string `json:"total_price_usdc"`
	PricePerUnit     uint64 `json:"price_per_unit"`
	PricePerUnitUSDC string `json:"price_per_unit_usdc"`
}

type saleDetailResponse struct {
	saleResponse
	UnitsCirculating uint64   `json:"units_circulating"`
	UnitsRemaining   uint64   `json:"units_remaining"`
	SupplySource     string   `json:"supply_source"`
	RecentPurchases  []string `json:"recent_purchases"`
}

type holdingsResponse struct {
	SaleID  string `json:"sale_id"`
	Account string `json:"account"`
	Units   uint64 `json:"units"`
}

func toSaleResponse(entry catalog.Entry) saleResponse {
	return saleResponse{
		ID:               string(entry.Sale.ID),
		Generation:       string(entry.Sale.Generation),
		Name:             entry.Metadata.Name,
		Symbol:           entry.Metadata.Symbol,
		Description:      entry.Metadata.Description,
		IconURL:          entry.Metadata.IconURL,
		MetadataSource:   string(entry.MetadataPath),
		TotalUnits:       entry.Sale.TotalUnits,
		TotalPriceUSDC:   money.FormatUSDC(entry.Sale.TotalPrice),
		PricePerUnit:     entry.PricePerUnit,
		PricePerUnitUSDC: money.FormatUSDC(entry.PricePerUnit),
	}
}

// ListSales handles GET /api/v1/sales.
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entries, err := h.Catalog.List(ctx)
	if err != nil {
		writeError(ctx, h.Log, w, mapLedgerError(err))
		return
	}

	out := make([]saleResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toSaleResponse(entry))
	}
	writeSuccess(w, out)
}

// GetSale handles GET /api/v1/sales/{id}.
func (h *Handler) GetSale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	if h.Log != nil {
		ctx = h.Log.WithSaleID(ctx, id)
	}

	detail, err := h.Catalog.Detail(ctx, domain.ObjectID(id))
	if err != nil {
		writeError(ctx, h.Log, w, mapLedgerError(err))
		return
	}

	purchases := make([]string, 0, len(detail.RecentPurchases))
	for _, digest := range detail.RecentPurchases {
		purchases = append(purchases, string(digest))
	}

	writeSuccess(w, saleDetailResponse{
		saleResponse:     toSaleResponse(detail.Entry),
		UnitsCirculating: detail.Supply.Circulating,
		UnitsRemaining:   detail.Supply.Remaining,
		SupplySource:     string(detail.Supply.Source),
		RecentPurchases:  purchases,
	})
}

// GetHoldings handles GET /api/v1/sales/{id}/holdings?account=.
func (h *Handler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	account := r.URL.Query().Get("account")
	if account == "" {
		writeError(ctx, h.Log, w, apperr.New(apperr.CodeValidation, "account query parameter is required"))
		return
	}
	if h.Log != nil {
		ctx = h.Log.WithSaleID(ctx, id)
		ctx = h.Log.WithAccount(ctx, account)
	}

	units, err := h.Holdings.HoldingsForSaleID(ctx, domain.Address(account), domain.ObjectID(id))
	if err != nil {
		writeError(ctx, h.Log, w, mapLedgerError(err))
		return
	}

	writeSuccess(w, holdingsResponse{
		SaleID:  id,
		Account: account,
		Units:   units,
	})
}

func mapLedgerError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperr.Wrap(apperr.CodeNotFound, err, "sale not found")
	case errors.Is(err, domain.ErrMalformedRecord):
		return apperr.Wrap(apperr.CodeInternal, err, "malformed ledger record")
	default:
		return apperr.Wrap(apperr.CodeDependency, err, "ledger read failed")
	}
}

package grpc

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/assetboard-backend/internal/adapter/dto"
	"github.com/simaogato/assetboard-backend/internal/domain"
	"github.com/simaogato/assetboard-backend/internal/usecase/dashboard"
	"github.com/simaogato/assetboard-backend/internal/usecase/ledger"
	"github.com/simaogato/assetboard-backend/internal/usecase/snapshot"
)

// Server implements the AssetBoardService gRPC server
type Server struct {
	DashboardService *dashboard.DashboardService
	LedgerService    *ledger.LedgerService
	SnapshotService  *snapshot.SnapshotService
}

var _ AssetBoardServiceServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(
	dashboardService *dashboard.DashboardService,
	ledgerService *ledger.LedgerService,
	snapshotService *snapshot.SnapshotService,
) *Server {
	return &Server{
		DashboardService: dashboardService,
		LedgerService:    ledgerService,
		SnapshotService:  snapshotService,
	}
}

// GetOverview handles the GetOverview RPC
func (s *Server) GetOverview(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var query dto.Query
	currency, err := decodeQuery(req, &query)
	if err != nil {
		return nil, err
	}

	overview, err := s.DashboardService.Overview(ctx, currency)
	if err != nil {
		return nil, mapError(err)
	}
	return encodeResponse(dto.FromOverview(overview))
}

// GetDistribution handles the GetDistribution RPC
func (s *Server) GetDistribution(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var query dto.Query
	currency, err := decodeQuery(req, &query)
	if err != nil {
		return nil, err
	}

	distribution, err := s.DashboardService.Distribution(ctx, currency)
	if err != nil {
		return nil, mapError(err)
	}
	return encodeResponse(items(dto.FromDistribution(distribution)))
}

// GetTrend handles the GetTrend RPC
func (s *Server) GetTrend(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var query dto.Query
	currency, err := decodeQuery(req, &query)
	if err != nil {
		return nil, err
	}
	window, err := query.Window()
	if err != nil {
		return nil, mapError(err)
	}

	trend, err := s.DashboardService.Trend(ctx, currency, window)
	if err != nil {
		return nil, mapError(err)
	}
	return encodeResponse(items(dto.FromTrend(trend)))
}

// GetSankey handles the GetSankey RPC
func (s *Server) GetSankey(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var query dto.Query
	currency, err := decodeQuery(req, &query)
	if err != nil {
		return nil, err
	}

	sankey, err := s.DashboardService.Sankey(ctx, currency)
	if err != nil {
		return nil, mapError(err)
	}
	return encodeResponse(dto.FromSankey(sankey))
}

// GetStats handles the GetStats RPC
func (s *Server) GetStats(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var query dto.Query
	currency, err := decodeQuery(req, &query)
	if err != nil {
		return nil, err
	}
	window, err := query.Window()
	if err != nil {
		return nil, mapError(err)
	}

	stats, err := s.DashboardService.Stats(ctx, currency, window)
	if err != nil {
		return nil, mapError(err)
	}
	return encodeResponse(dto.FromStats(stats))
}

// GetReceivables handles the GetReceivables RPC
func (s *Server) GetReceivables(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var query dto.Query
	currency, err := decodeQuery(req, &query)
	if err != nil {
		return nil, err
	}

	summary, err := s.DashboardService.Receivables(ctx, currency)
	if err != nil {
		return nil, mapError(err)
	}
	return encodeResponse(dto.FromReceivables(summary))
}

// RecordTransaction handles the RecordTransaction RPC
func (s *Server) RecordTransaction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var payload dto.Transaction
	if err := decodeRequest(req, &payload); err != nil {
		return nil, err
	}

	tx, err := payload.ToDomain()
	if err != nil {
		return nil, mapError(err)
	}

	recorded, err := s.LedgerService.RecordTransaction(ctx, tx)
	if err != nil {
		return nil, mapError(err)
	}
	return encodeResponse(dto.FromTransaction(recorded))
}

// ListTransactions handles the ListTransactions RPC
func (s *Server) ListTransactions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var paging struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	}
	if err := decodeRequest(req, &paging); err != nil {
		return nil, err
	}
	if paging.Offset < 0 {
		return nil, status.Errorf(codes.InvalidArgument, "offset must be non-negative")
	}

	page, err := s.LedgerService.ListTransactions(ctx, paging.Limit, paging.Offset)
	if err != nil {
		return nil, mapError(err)
	}

	transactions := make([]dto.Transaction, 0, len(page.Transactions))
	for _, tx := range page.Transactions {
		transactions = append(transactions, dto.FromTransaction(tx))
	}
	return encodeResponse(map[string]any{
		"items": transactions,
		"total": page.Total,
	})
}

// CaptureSnapshot handles the CaptureSnapshot RPC
func (s *Server) CaptureSnapshot(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var payload dto.SnapshotRequest
	if err := decodeRequest(req, &payload); err != nil {
		return nil, err
	}
	date, err := dto.ParseDate("date", payload.Date)
	if err != nil {
		return nil, mapError(err)
	}

	snap, err := s.SnapshotService.Capture(ctx, date)
	if err != nil {
		return nil, mapError(err)
	}
	return encodeResponse(dto.FromSnapshot(snap))
}

func items[T any](list []T) map[string]any {
	return map[string]any{"items": list}
}

// decodeRequest unpacks a Struct into a JSON tagged value
func decodeRequest(req *structpb.Struct, v any) error {
	if req == nil {
		return nil
	}
	raw, err := protojson.Marshal(req)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	return nil
}

func decodeQuery(req *structpb.Struct, query *dto.Query) (domain.Currency, error) {
	if err := decodeRequest(req, query); err != nil {
		return "", err
	}
	currency, err := query.ReportingCurrency()
	if err != nil {
		return "", mapError(err)
	}
	return currency, nil
}

// encodeResponse packs a JSON tagged value into a Struct
func encodeResponse(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var code codes.Code
	switch dto.Classify(err) {
	case dto.ErrCodeValidation, dto.ErrCodeInvalidTransfer:
		code = codes.InvalidArgument
	case dto.ErrCodeCurrencyConversion, dto.ErrCodeCyclicCategory:
		code = codes.FailedPrecondition
	case dto.ErrCodeNotFound:
		code = codes.NotFound
	case dto.ErrCodeCanceled:
		code = codes.Canceled
	default:
		code = codes.Internal
	}
	return status.Error(code, err.Error())
}

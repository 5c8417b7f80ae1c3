package grpc

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/simaogato/assetboard-backend/internal/logging"
)

// AuthInterceptor returns a gRPC unary server interceptor that validates
// the authorization token from request metadata.
// The token may be sent bare or as "Bearer <token>".
// If the token is missing or invalid, it returns status.Unauthenticated.
func AuthInterceptor(validToken string) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		authHeaders := md.Get("authorization")
		if len(authHeaders) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}

		if !TokenMatches(authHeaders[0], validToken) {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		return handler(ctx, req)
	}
}

// TokenMatches compares an authorization value against the expected token
func TokenMatches(header, validToken string) bool {
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return subtle.ConstantTimeCompare([]byte(token), []byte(validToken)) == 1
}

// LoggingInterceptor returns a gRPC unary server interceptor that tags the
// request context with a request-scoped logger and logs every completed call.
// An x-request-id metadata value is reused when the caller sends one.
func LoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logging.WithComponent(logger, "grpc")

	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()

		requestID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get("x-request-id"); len(ids) > 0 {
				requestID = ids[0]
			}
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}

		reqLogger := logger.With(
			slog.String(logging.FieldRequestID, requestID),
			slog.String(logging.FieldMethod, info.FullMethod),
		)
		resp, err := handler(logging.ToContext(ctx, reqLogger), req)

		code := status.Code(err)
		fields := []any{
			slog.String("code", code.String()),
			slog.Int64(logging.FieldDuration, time.Since(start).Milliseconds()),
		}
		switch code {
		case codes.OK:
			reqLogger.InfoContext(ctx, "grpc call completed", fields...)
		case codes.Internal, codes.Unknown:
			reqLogger.ErrorContext(ctx, "grpc call completed", append(fields, slog.String(logging.FieldError, err.Error()))...)
		default:
			reqLogger.WarnContext(ctx, "grpc call completed", append(fields, slog.String(logging.FieldError, err.Error()))...)
		}

		return resp, err
	}
}

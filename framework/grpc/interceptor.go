// Package grpcauth adapts the authentication pipeline to gRPC server
// interceptors. The token travels in the "authorization" metadata entry
// using the Bearer scheme; verified claims or the resolved principal are
// made available in the handler context.
package grpcauth

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	locoauth "github.com/Swoorup/locoauth"
)

// Mode selects which authentication pipeline the interceptor runs.
type Mode int

const (
	// ModeJWT verifies the token and stores the claims in the context.
	ModeJWT Mode = iota
	// ModeJWTWithIdentity verifies the token and resolves the backing
	// identity, storing the principal in the context.
	ModeJWTWithIdentity
	// ModeAPIKey resolves the identity owning the raw bearer value.
	ModeAPIKey
)

// Interceptor authenticates unary and stream gRPC calls.
type Interceptor[T any] struct {
	auth            *locoauth.Authenticator[T]
	mode            Mode
	extractor       TokenExtractor
	excludedMethods map[string]bool
}

// Option configures an Interceptor.
type Option[T any] func(*Interceptor[T]) error

// WithMode selects the authentication mode.
//
// Default: ModeJWT.
func WithMode[T any](mode Mode) Option[T] {
	return func(i *Interceptor[T]) error {
		i.mode = mode
		return nil
	}
}

// WithTokenExtractor overrides the metadata token extractor.
func WithTokenExtractor[T any](extractor TokenExtractor) Option[T] {
	return func(i *Interceptor[T]) error {
		if extractor == nil {
			return errors.New("token extractor must not be nil")
		}
		i.extractor = extractor
		return nil
	}
}

// WithExcludedMethods sets full method names ("/package.Service/Method")
// that bypass authentication.
func WithExcludedMethods[T any](methods ...string) Option[T] {
	return func(i *Interceptor[T]) error {
		for _, m := range methods {
			i.excludedMethods[m] = true
		}
		return nil
	}
}

// New creates a gRPC authentication interceptor around the given
// Authenticator.
func New[T any](auth *locoauth.Authenticator[T], opts ...Option[T]) (*Interceptor[T], error) {
	if auth == nil {
		return nil, errors.New("authenticator must not be nil")
	}

	i := &Interceptor[T]{
		auth:            auth,
		extractor:       MetadataTokenExtractor,
		excludedMethods: make(map[string]bool),
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}

	return i, nil
}

// UnaryServerInterceptor returns a grpc.UnaryServerInterceptor that
// authenticates calls and enriches the handler context with the result.
func (i *Interceptor[T]) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if i.excludedMethods[info.FullMethod] {
			return handler(ctx, req)
		}

		authCtx, err := i.authenticate(ctx)
		if err != nil {
			return nil, err
		}

		return handler(authCtx, req)
	}
}

// StreamServerInterceptor returns a grpc.StreamServerInterceptor that
// authenticates calls and enriches the stream context with the result.
func (i *Interceptor[T]) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		if i.excludedMethods[info.FullMethod] {
			return handler(srv, ss)
		}

		authCtx, err := i.authenticate(ss.Context())
		if err != nil {
			return err
		}

		return handler(srv, &wrappedStream{ServerStream: ss, ctx: authCtx})
	}
}

func (i *Interceptor[T]) authenticate(ctx context.Context) (context.Context, error) {
	token, err := i.extractor(ctx)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid authorization metadata")
	}

	switch i.mode {
	case ModeJWTWithIdentity:
		principal, err := i.auth.CheckTokenWithIdentity(ctx, token)
		if err != nil {
			return nil, statusFromError(err)
		}
		return locoauth.SetPrincipal(ctx, principal), nil
	case ModeAPIKey:
		identity, err := i.auth.CheckAPIKey(ctx, token)
		if err != nil {
			return nil, statusFromError(err)
		}
		return locoauth.SetIdentity(ctx, identity), nil
	default:
		claims, err := i.auth.CheckToken(ctx, token)
		if err != nil {
			return nil, statusFromError(err)
		}
		return locoauth.SetClaims(ctx, claims), nil
	}
}

// statusFromError maps the pipeline's rejection categories onto gRPC status
// codes: authorization failures become Unauthenticated, identity store
// failures become Internal. The generic rejection message is used so store
// and verification detail never crosses the wire.
func statusFromError(err error) error {
	httpStatus, message := locoauth.Rejection(err)
	if httpStatus == http.StatusInternalServerError {
		return status.Error(codes.Internal, message)
	}
	return status.Error(codes.Unauthenticated, message)
}

// wrappedStream overrides the stream context with the authenticated one.
type wrappedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedStream) Context() context.Context {
	return w.ctx
}

package grpcauth

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/metadata"
)

// TokenExtractor extracts tokens from gRPC metadata.
type TokenExtractor func(ctx context.Context) (string, error)

var (
	// ErrMultipleAuthHeaders indicates multiple authorization metadata
	// entries were provided.
	ErrMultipleAuthHeaders = errors.New("multiple authorization metadata entries are not allowed")

	// ErrInvalidAuthFormat indicates the authorization metadata format is
	// invalid.
	ErrInvalidAuthFormat = errors.New("invalid authorization metadata format, expected: Bearer <token>")
)

// MetadataTokenExtractor extracts the token from the "authorization"
// metadata key. The value must start with exactly "Bearer " (trailing space
// included); everything after the prefix is the token.
//
// gRPC normalizes incoming metadata keys to lowercase, so this extractor
// only checks the lowercase "authorization" key.
func MetadataTokenExtractor(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", nil // No metadata, no token (not an error).
	}

	values := md.Get("authorization")
	if len(values) == 0 {
		return "", nil // No auth metadata (not an error).
	}
	if len(values) > 1 {
		return "", ErrMultipleAuthHeaders
	}

	token, ok := strings.CutPrefix(values[0], "Bearer ")
	if !ok {
		return "", ErrInvalidAuthFormat
	}

	return token, nil
}

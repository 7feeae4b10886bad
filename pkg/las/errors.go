package las

import (
	"context"
	"errors"
	"os"

	"github.com/joshuapare/laskit/internal/format"
	"github.com/joshuapare/laskit/pkg/types"
)

// classify maps low-level errors onto the typed errors of pkg/types.
// Errors that already carry a kind pass through.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var te *types.Error
	if errors.As(err, &te) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return types.Wrap(types.ErrCanceled, err)
	case errors.Is(err, format.ErrCompressed):
		return types.Wrap(types.ErrCompressed, err)
	case errors.Is(err, format.ErrUnsupported):
		return types.Wrap(types.ErrUnsupported, err)
	case errors.Is(err, format.ErrSignatureMismatch),
		errors.Is(err, format.ErrTruncated),
		errors.Is(err, format.ErrMalformed):
		return types.Wrap(types.ErrMalformed, err)
	case errors.Is(err, os.ErrNotExist):
		return types.Errorf(types.ErrKindNotFound, "file not found", err)
	default:
		return types.Errorf(types.ErrKindCodec, "LAS codec failure", err)
	}
}

func checkCanceled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return types.Wrap(types.ErrCanceled, err)
	}
	return nil
}

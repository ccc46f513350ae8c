package ingest

import (
	"context"
	"io"

	"mlop-ingest/internal/apperror"
)

// Process decodes body line by line through builder, sends every produced
// row through send, and returns the total row count written. It stops at
// the first decode, validation, or send failure.
func Process[I any, R any](ctx context.Context, body io.Reader, builder Builder[I, R], enrichment Enrichment, send func(R) *apperror.Error) (int, *apperror.Error) {
	total := 0

	rawErr := DecodeLines(body, func(line []byte) error {
		input, perr := builder.Parse(line)
		if perr != nil {
			return perr
		}

		rows, berr := builder.Build(input, enrichment)
		if berr != nil {
			return berr
		}

		for _, row := range rows {
			if serr := send(row); serr != nil {
				return serr
			}
			total++
		}
		return nil
	})

	if rawErr == nil {
		return total, nil
	}
	if appErr, ok := rawErr.(*apperror.Error); ok {
		return total, appErr
	}
	return total, apperror.New(apperror.StreamProcessingError, rawErr.Error())
}

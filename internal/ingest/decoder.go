package ingest

import (
	"bufio"
	"fmt"
	"io"
)

const maxLineSize = 8 * 1024 * 1024

// DecodeLines reads r and calls handle once per newline-delimited record,
// trimming ASCII whitespace from both ends and skipping empty lines. A
// final, unterminated chunk at EOF is still delivered to handle. handle's
// error short-circuits the scan and is returned verbatim, so a typed
// *apperror.Error raised from inside handle survives unwrapped.
func DecodeLines(r io.Reader, handle func(line []byte) error) error {
	reader := bufio.NewReaderSize(r, 64*1024)

	for {
		line, readErr := reader.ReadBytes('\n')
		if len(line) > 0 {
			if trimmed := trimASCIISpace(line); len(trimmed) > 0 {
				if err := handle(trimmed); err != nil {
					return err
				}
			}
		}
		if len(line) > maxLineSize {
			return fmt.Errorf("ingest: line exceeds maximum size of %d bytes", maxLineSize)
		}
		if readErr != nil {
			if readErr == io.EOF {
				return nil
			}
			return fmt.Errorf("ingest: stream read failed: %w", readErr)
		}
	}
}

func trimASCIISpace(b []byte) []byte {
	start := 0
	for start < len(b) && isASCIISpace(b[start]) {
		start++
	}
	end := len(b)
	for end > start && isASCIISpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isASCIISpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

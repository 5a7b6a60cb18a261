package runner

import (
	"bufio"
	"context"
	"io"
	"strings"
)

type lineResult struct {
	line string
	err  error
}

// readLines reads r in the background so the loop can react to cancellation
// while a read is blocked. The final result carries the read error (io.EOF included).
func readLines(ctx context.Context, r io.Reader, buffer int) <-chan lineResult {
	out := make(chan lineResult, buffer)
	go func() {
		defer close(out)
		br := bufio.NewReader(r)
		for {
			text, err := br.ReadString('\n')
			if text != "" {
				text = strings.TrimRight(text, "\r\n")
				select {
				case out <- lineResult{line: text}:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				select {
				case out <- lineResult{err: err}:
				case <-ctx.Done():
				}
				return
			}
		}
	}()
	return out
}

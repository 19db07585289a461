package core

import (
	"context"

	"github.com/gridscope/gridscope/schema"
)

// RunAsync executes the pipeline on its own goroutine and delivers the
// report on the returned channel. The channel is buffered, so the
// report is never lost when the caller reads late.
func (p *Pipeline) RunAsync(ctx context.Context) <-chan *schema.PipelineReport {
	out := make(chan *schema.PipelineReport, 1)
	go func() {
		out <- p.Run(ctx)
		close(out)
	}()
	return out
}

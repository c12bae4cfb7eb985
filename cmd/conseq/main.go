// Command conseq builds consensus sequences from bins of noisy reads.
//
// Usage:
//
//	conseq [command] [options]
//
// Commands:
//
//	cons      Build one consensus per FASTQ bin in a directory
//	seed      Print the positional-vote seed of a FASTQ file
//	align     Align two sequences
//	version   Show version information
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

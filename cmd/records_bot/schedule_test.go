package main

import (
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExclusiveJob_SkipsOverlappingRuns(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})

	job := exclusiveJob(cronLogger{logger: slog.Default()}, func() {
		if calls.Add(1) == 1 {
			close(started)
			<-release
		}
	})

	done := make(chan struct{})
	go func() {
		job.Run()
		close(done)
	}()
	<-started

	// A tick while the first run is in flight is dropped.
	job.Run()
	assert.Equal(t, int32(1), calls.Load())

	close(release)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("first run did not finish")
	}

	job.Run()
	assert.Equal(t, int32(2), calls.Load())
}

func TestExclusiveJob_RecoversPanics(t *testing.T) {
	job := exclusiveJob(cronLogger{logger: slog.Default()}, func() { panic("boom") })
	assert.NotPanics(t, job.Run)
}

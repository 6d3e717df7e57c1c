package cron

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
)

func TestCronLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&buf)
	l.SetLevel(log.DebugLevel)

	cl := cronLogger{l}
	cl.Info("wake")
	cl.Error(errors.New("boom"), "job failed")

	want := "DEBU wake\nERRO job failed err=boom\n"
	if got := buf.String(); got != want {
		t.Errorf("log output = %q, want %q", got, want)
	}
}

func TestSchedulerAddRemove(t *testing.T) {
	s := NewScheduler(context.TODO())
	id, err := s.AddFunc("@hourly", func() {})
	if err != nil {
		t.Fatal(err)
	}
	s.Remove(id)

	if _, err := s.AddFunc("not a spec", func() {}); err == nil {
		t.Fatal("expected error for an invalid spec")
	}
}

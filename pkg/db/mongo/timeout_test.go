package mongo

import (
	"context"
	"testing"
	"time"
)

func TestWithTimeout(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Minute)
	defer cancel()
	deadline, ok := ctx.Deadline()
	if !ok || time.Until(deadline) > time.Minute {
		t.Errorf("expected deadline within a minute, got %v %v", deadline, ok)
	}

	short, cancelShort := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancelShort()
	ctx, cancel = WithTimeout(short, time.Hour)
	defer cancel()
	deadline, _ = ctx.Deadline()
	if time.Until(deadline) > time.Second {
		t.Errorf("parent deadline must win, got %s remaining", time.Until(deadline))
	}
}

func TestNow_MillisecondPrecision(t *testing.T) {
	n := Now()
	if n.Location() != time.UTC || n.Nanosecond()%int(time.Millisecond) != 0 {
		t.Errorf("Now() = %v", n)
	}
}

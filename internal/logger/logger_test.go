package logger

import "testing"

func TestGetAndNamed(t *testing.T) {
	Init("test")

	if Get() == nil {
		t.Fatal("expected a logger")
	}
	if Named("user_service") == nil {
		t.Fatal("expected a named logger")
	}
	// Later Init calls keep the first logger.
	first := Get()
	Init("production")
	if Get() != first {
		t.Error("expected Init to be idempotent")
	}
	Sync()
}

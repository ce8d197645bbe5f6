package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCauseChain(t *testing.T) {
	cause := errors.New("rpc timeout")
	err := Wrap(CodeDependency, cause, "fetching sale record")

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped error to match its cause")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %q", err.Code())
	}
}

func TestAsFindsTypedErrorThroughWrapping(t *testing.T) {
	typed := New(CodeNotFound, "sale not found")
	wrapped := fmt.Errorf("handling request: %w", typed)

	found := As(wrapped)
	if found == nil {
		t.Fatal("expected typed error to be found through wrapping")
	}
	if found.Code() != CodeNotFound {
		t.Fatalf("unexpected code %q", found.Code())
	}

	if As(errors.New("plain")) != nil {
		t.Fatal("expected nil for a plain error")
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("BOGUS"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal metadata, got status %d", meta.HTTPStatus)
	}

	if MetadataFor(CodeNotFound).HTTPStatus != http.StatusNotFound {
		t.Fatal("expected 404 for not found")
	}
}

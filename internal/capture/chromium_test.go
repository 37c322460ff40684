package capture

import (
	"context"
	"testing"
)

func TestOptionsNormalize(t *testing.T) {
	o := Options{URL: "http://127.0.0.1:8080/print", OutputPath: "out.png"}
	if err := o.normalize(); err != nil {
		t.Fatal(err)
	}
	if o.Width != DefaultWidth || o.Height != DefaultHeight || o.Timeout != DefaultTimeout {
		t.Errorf("defaults not applied: %+v", o)
	}
}

func TestCaptureRequiresURLAndOutput(t *testing.T) {
	if err := CapturePrintPNG(context.Background(), Options{OutputPath: "x.png"}); err == nil {
		t.Error("expected error without URL")
	}
	if err := CapturePrintPNG(context.Background(), Options{URL: "http://localhost/print"}); err == nil {
		t.Error("expected error without output path")
	}
}

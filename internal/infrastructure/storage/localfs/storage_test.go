package localfs

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}

	ctx := context.Background()
	if err := storage.Save(ctx, "inv-1_rechnung.pdf", strings.NewReader("%PDF-1.4 test")); err != nil {
		t.Fatalf("save: %v", err)
	}

	rc, err := storage.Open(ctx, "inv-1_rechnung.pdf")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "%PDF-1.4 test" {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestKeyCannotEscapeBasePath(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}

	err = storage.Save(context.Background(), "../../etc/passwd", strings.NewReader("x"))
	if err == nil {
		t.Fatalf("expected error for escaping key")
	}
}

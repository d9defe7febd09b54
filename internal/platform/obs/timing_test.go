package obs

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestWithRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background())

	id := RequestID(ctx)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("request id %q is not a uuid: %v", id, err)
	}
	if again := RequestID(WithRequestID(ctx)); again != id {
		t.Fatalf("existing id replaced: %q -> %q", id, again)
	}
}

func TestTimeLogsError(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	ctx := context.WithValue(context.Background(), RequestIDKey, "abc")
	err := errors.New("model exploded")
	Time(ctx, "estimate")(&err)

	line := buf.String()
	if !strings.Contains(line, "req_id=abc op=estimate") || !strings.Contains(line, "err=model exploded") {
		t.Fatalf("unexpected log line %q", line)
	}
}

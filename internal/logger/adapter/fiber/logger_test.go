package fiber_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/workflow-admin/workflow-admin/internal/logger/adapter/fiber"

	"github.com/workflow-admin/workflow-admin/internal/logger"
)

// accessLine is the json format of one access log line.
type accessLine struct {
	Status    int    `json:"status"`
	URI       string `json:"URI"`
	Method    string `json:"method"`
	Host      string `json:"host"`
	RequestID string `json:"request_id"`
	UserID    string `json:"user_id"`
}

var consoleJSON = logger.Log{
	EnableAccessLogToConsole: true,
	Console:                  logger.Console{Enabled: true},
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		config     adapter.Config
		target     string
		header     string
		wantOutput bool
		want       accessLine
	}{
		{
			name:   "console disabled no output",
			target: "/",
		},
		{
			name:       "get / log to console json",
			config:     adapter.Config{Config: consoleJSON},
			target:     "/",
			wantOutput: true,
			want:       accessLine{Status: 200, URI: "/", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "query string is logged",
			config:     adapter.Config{Config: consoleJSON},
			target:     "/workflows?page=2&search=invoice",
			wantOutput: true,
			want: accessLine{
				Status: 404, URI: "/workflows?page=2&search=invoice", Method: fiber.MethodGet, Host: "example.com",
			},
		},
		{
			name:       "incoming request id is kept",
			config:     adapter.Config{Config: consoleJSON},
			target:     "/",
			header:     "req-123",
			wantOutput: true,
			want:       accessLine{Status: 200, URI: "/", Method: fiber.MethodGet, Host: "example.com", RequestID: "req-123"},
		},
		{
			name: "user id is logged",
			config: adapter.Config{
				Config: consoleJSON,
				UserID: func(*fiber.Ctx) string { return "42" },
			},
			target:     "/",
			wantOutput: true,
			want:       accessLine{Status: 200, URI: "/", Method: fiber.MethodGet, Host: "example.com", UserID: "42"},
		},
		{
			name: "metrics is quiet",
			config: adapter.Config{Config: logger.Log{
				EnableAccessLogToConsole: true,
				DisableCheckAlive:        true,
				Console:                  logger.Console{Enabled: true},
			}},
			target: "/metrics",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, resp := runMiddleware(t, tt.target, tt.header, tt.config)

			assert.NotEmpty(t, resp.Header.Get(adapter.HeaderRequestID))

			if !tt.wantOutput {
				assert.Empty(t, output)
				return
			}

			require.NotEmpty(t, output)

			var got accessLine
			require.NoError(t, json.Unmarshal([]byte(output), &got))

			assert.Equal(t, tt.want.Status, got.Status)
			assert.Equal(t, tt.want.URI, got.URI)
			assert.Equal(t, tt.want.Method, got.Method)
			assert.Equal(t, tt.want.Host, got.Host)
			assert.Equal(t, tt.want.UserID, got.UserID)
			assert.NotEmpty(t, got.RequestID)

			if tt.want.RequestID != "" {
				assert.Equal(t, tt.want.RequestID, got.RequestID)
			}
		})
	}
}

func runMiddleware(t *testing.T, target, requestID string, cfg adapter.Config) (string, *http.Response) {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	// capture stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	os.Stderr = w

	app := fiber.New(fiber.Config{CaseSensitive: true, Immutable: true})
	app.Use(adapter.New(cfg))

	app.Get("/", func(ctx *fiber.Ctx) error {
		assert.NotEmpty(t, adapter.RequestID(ctx))
		return ctx.SendString("hello test")
	})

	app.Get("/metrics", func(ctx *fiber.Ctx) error {
		return ctx.SendString("# metrics")
	})

	req := httptest.NewRequest(fiber.MethodGet, target, nil)
	if requestID != "" {
		req.Header.Set(adapter.HeaderRequestID, requestID)
	}

	resp, err := app.Test(req, -1)

	outC := make(chan string)
	// copy the output in a separate goroutine so printing can't block indefinitely
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout
	os.Stderr = stderr
	out := <-outC

	require.NoError(t, err)

	return out, resp
}

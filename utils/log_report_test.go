package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, dir, name string, lines ...string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(strings.Join(lines, "\n")+"\n"), 0644))
}

func TestAnalyzeLogs(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)

	writeLog(t, dir, "error-2025-04-02.log",
		"ERROR: 2025/04/02 10:00:00 auth_controller.go:88: Sign in failed for jane@example.com",
		"ERROR: 2025/04/02 10:01:00 auth_controller.go:88: Sign in failed for jane@example.com",
		"ERROR: 2025/04/02 10:02:00 payment_controller.go:41: Payment provider error (paypal): timeout",
		"ERROR: 2025/04/02 10:03:00 webhook_controller.go:33: Stripe webhook rejected: bad signature",
		"goroutine 1 [running]:",
	)
	writeLog(t, dir, "info-2025-04-02.log",
		"INFO: 2025/04/02 09:00:00 auth_controller.go:160: User signed in successfully: bob@example.com (cart promote)",
		"INFO: 2025/04/02 09:05:00 order_controller.go:66: Order placed successfully: 1f3c",
		"INFO: 2025/04/02 09:06:00 order_payment.go:80: Order marked as paid: 1f3c",
		"INFO: 2025/04/02 09:07:00 logger.go:90: Request: [abc] GET /v1/products from 127.0.0.1 - Status: 200 - Duration: 1.5s",
		"INFO: 2025/04/02 09:08:00 logger.go:90: Request: [abd] GET /v1/cart from 127.0.0.1 - Status: 200 - Duration: 12ms",
	)

	stats, err := AnalyzeLogs(dir, day)
	require.NoError(t, err)

	assert.Equal(t, "2025-04-02", stats.Date)
	assert.Equal(t, 4, stats.TotalErrors, "stack trace lines are skipped")
	assert.Equal(t, 2, stats.SignInFailures)
	assert.Equal(t, 1, stats.SignInSuccess)
	assert.Equal(t, 1, stats.PaymentErrors)
	assert.Equal(t, 1, stats.WebhookRejections)
	assert.Equal(t, 1, stats.OrdersPlaced)
	assert.Equal(t, 1, stats.OrdersPaid)
	assert.Equal(t, 1, stats.SlowRequests)
	assert.Equal(t, 2, stats.UserActivities["jane@example.com"])
	assert.Equal(t, 1, stats.UserActivities["bob@example.com"])
	assert.Equal(t, 2, stats.ErrorPatterns["Sign in failed for jane@example.com"])

	var out bytes.Buffer
	stats.WriteReport(&out)
	assert.Contains(t, out.String(), "Failed sign ins: 2")
	assert.Contains(t, out.String(), "jane@example.com: 2")
}

func TestAnalyzeLogsMissingFiles(t *testing.T) {
	stats, err := AnalyzeLogs(t.TempDir(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalErrors)
	assert.Empty(t, stats.UserActivities)
}

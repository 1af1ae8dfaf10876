package worker

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"colette/internal/scheduler"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.RefreshSchedule != scheduler.DefaultSchedule {
		t.Errorf("Expected RefreshSchedule %q, got %q", scheduler.DefaultSchedule, config.RefreshSchedule)
	}

	if config.Timezone != "UTC" {
		t.Errorf("Expected Timezone 'UTC', got '%s'", config.Timezone)
	}

	if !config.RefreshEnabled {
		t.Error("Expected RefreshEnabled true")
	}

	if config.WorkerCount != 10 {
		t.Errorf("Expected WorkerCount 10, got %d", config.WorkerCount)
	}

	if config.BatchSize != scheduler.DefaultBatchSize {
		t.Errorf("Expected BatchSize %d, got %d", scheduler.DefaultBatchSize, config.BatchSize)
	}

	if config.JobTimeout != 2*time.Minute {
		t.Errorf("Expected JobTimeout 2m, got %v", config.JobTimeout)
	}

	if config.HealthPort != 9091 {
		t.Errorf("Expected HealthPort 9091, got %d", config.HealthPort)
	}
}

func TestDefaultConfig_Immutability(t *testing.T) {
	config1 := DefaultConfig()
	config2 := DefaultConfig()

	config1.RefreshSchedule = "0 6 * * * *"
	config1.WorkerCount = 20

	if config2.RefreshSchedule != scheduler.DefaultSchedule {
		t.Error("DefaultConfig returned a shared instance instead of a new one")
	}

	if config2.WorkerCount != 10 {
		t.Error("DefaultConfig returned a shared instance instead of a new one")
	}
}

func TestWorkerConfig_StructFields(t *testing.T) {
	config := WorkerConfig{
		RefreshSchedule: "0 0 * * * *",
		Timezone:        "UTC",
		RefreshEnabled:  false,
		WorkerCount:     5,
		BatchSize:       50,
		JobTimeout:      15 * time.Minute,
		HealthPort:      8080,
	}

	if config.RefreshSchedule != "0 0 * * * *" {
		t.Errorf("RefreshSchedule field not set correctly: %s", config.RefreshSchedule)
	}

	if config.Timezone != "UTC" {
		t.Errorf("Timezone field not set correctly: %s", config.Timezone)
	}

	if config.RefreshEnabled {
		t.Error("RefreshEnabled field not set correctly")
	}

	if config.WorkerCount != 5 {
		t.Errorf("WorkerCount field not set correctly: %d", config.WorkerCount)
	}

	if config.BatchSize != 50 {
		t.Errorf("BatchSize field not set correctly: %d", config.BatchSize)
	}

	if config.JobTimeout != 15*time.Minute {
		t.Errorf("JobTimeout field not set correctly: %v", config.JobTimeout)
	}

	if config.HealthPort != 8080 {
		t.Errorf("HealthPort field not set correctly: %d", config.HealthPort)
	}
}

func TestWorkerConfig_ZeroValue(t *testing.T) {
	var config WorkerConfig

	if config.RefreshSchedule != "" {
		t.Errorf("Expected empty RefreshSchedule, got '%s'", config.RefreshSchedule)
	}

	if config.Timezone != "" {
		t.Errorf("Expected empty Timezone, got '%s'", config.Timezone)
	}

	if config.RefreshEnabled {
		t.Error("Expected RefreshEnabled false")
	}

	if config.WorkerCount != 0 {
		t.Errorf("Expected WorkerCount 0, got %d", config.WorkerCount)
	}

	if config.BatchSize != 0 {
		t.Errorf("Expected BatchSize 0, got %d", config.BatchSize)
	}

	if config.JobTimeout != 0 {
		t.Errorf("Expected JobTimeout 0, got %v", config.JobTimeout)
	}

	if config.HealthPort != 0 {
		t.Errorf("Expected HealthPort 0, got %d", config.HealthPort)
	}
}

func TestWorkerConfig_Validate_ValidConfig(t *testing.T) {
	config := DefaultConfig()

	err := config.Validate()
	if err != nil {
		t.Errorf("DefaultConfig should be valid, got error: %v", err)
	}
}

func TestWorkerConfig_Validate_InvalidRefreshSchedule(t *testing.T) {
	config := DefaultConfig()
	config.RefreshSchedule = "invalid cron"

	err := config.Validate()
	if err == nil {
		t.Error("Expected validation error for invalid refresh schedule")
	}

	if err != nil && err.Error() == "" {
		t.Error("Error message should not be empty")
	}
}

func TestWorkerConfig_Validate_EmptyRefreshSchedule(t *testing.T) {
	config := DefaultConfig()
	config.RefreshSchedule = ""

	err := config.Validate()
	if err == nil {
		t.Error("Expected validation error for empty refresh schedule")
	}
}

func TestWorkerConfig_Validate_FiveFieldScheduleRejected(t *testing.T) {
	config := DefaultConfig()
	// Scheduler parses with cron.WithSeconds; a 5-field expression must fail.
	config.RefreshSchedule = "*/15 * * * *"

	err := config.Validate()
	if err == nil {
		t.Error("Expected validation error for a 5-field cron expression")
	}
}

func TestWorkerConfig_Validate_InvalidTimezone(t *testing.T) {
	config := DefaultConfig()
	config.Timezone = "Invalid/Timezone"

	err := config.Validate()
	if err == nil {
		t.Error("Expected validation error for invalid timezone")
	}
}

func TestWorkerConfig_Validate_EmptyTimezone(t *testing.T) {
	config := DefaultConfig()
	config.Timezone = ""

	err := config.Validate()
	if err == nil {
		t.Error("Expected validation error for empty timezone")
	}
}

func TestWorkerConfig_Validate_WorkerCountTooLow(t *testing.T) {
	config := DefaultConfig()
	config.WorkerCount = 0

	err := config.Validate()
	if err == nil {
		t.Error("Expected validation error for WorkerCount = 0")
	}
}

func TestWorkerConfig_Validate_WorkerCountTooHigh(t *testing.T) {
	config := DefaultConfig()
	config.WorkerCount = 101

	err := config.Validate()
	if err == nil {
		t.Error("Expected validation error for WorkerCount = 101")
	}
}

func TestWorkerConfig_Validate_WorkerCountBoundary(t *testing.T) {
	tests := []struct {
		name  string
		value int
		valid bool
	}{
		{"Min valid (1)", 1, true},
		{"Max valid (100)", 100, true},
		{"Below min (0)", 0, false},
		{"Negative", -1, false},
		{"Above max (101)", 101, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.WorkerCount = tt.value

			err := config.Validate()
			if tt.valid && err != nil {
				t.Errorf("Expected valid config, got error: %v", err)
			}
			if !tt.valid && err == nil {
				t.Errorf("Expected validation error for value %d", tt.value)
			}
		})
	}
}

func TestWorkerConfig_Validate_BatchSizeBoundary(t *testing.T) {
	tests := []struct {
		name  string
		value int
		valid bool
	}{
		{"Min valid (1)", 1, true},
		{"Max valid (10000)", 10000, true},
		{"Below min (0)", 0, false},
		{"Above max (10001)", 10001, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.BatchSize = tt.value

			err := config.Validate()
			if tt.valid && err != nil {
				t.Errorf("Expected valid config, got error: %v", err)
			}
			if !tt.valid && err == nil {
				t.Errorf("Expected validation error for value %d", tt.value)
			}
		})
	}
}

func TestWorkerConfig_Validate_JobTimeoutZero(t *testing.T) {
	config := DefaultConfig()
	config.JobTimeout = 0

	err := config.Validate()
	if err == nil {
		t.Error("Expected validation error for JobTimeout = 0")
	}
}

func TestWorkerConfig_Validate_JobTimeoutNegative(t *testing.T) {
	config := DefaultConfig()
	config.JobTimeout = -1 * time.Minute

	err := config.Validate()
	if err == nil {
		t.Error("Expected validation error for negative JobTimeout")
	}
}

func TestWorkerConfig_Validate_JobTimeoutValid(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
	}{
		{"1 second", 1 * time.Second},
		{"1 minute", 1 * time.Minute},
		{"2 minutes", 2 * time.Minute},
		{"30 minutes", 30 * time.Minute},
		{"1 hour", 1 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.JobTimeout = tt.duration

			err := config.Validate()
			if err != nil {
				t.Errorf("Expected valid timeout %v, got error: %v", tt.duration, err)
			}
		})
	}
}

func TestWorkerConfig_Validate_HealthPortTooLow(t *testing.T) {
	config := DefaultConfig()
	config.HealthPort = 1023

	err := config.Validate()
	if err == nil {
		t.Error("Expected validation error for HealthPort = 1023 (below 1024)")
	}
}

func TestWorkerConfig_Validate_HealthPortTooHigh(t *testing.T) {
	config := DefaultConfig()
	config.HealthPort = 65536

	err := config.Validate()
	if err == nil {
		t.Error("Expected validation error for HealthPort = 65536 (above 65535)")
	}
}

func TestWorkerConfig_Validate_HealthPortBoundary(t *testing.T) {
	tests := []struct {
		name  string
		port  int
		valid bool
	}{
		{"Min valid (1024)", 1024, true},
		{"Max valid (65535)", 65535, true},
		{"Below min (1023)", 1023, false},
		{"Above max (65536)", 65536, false},
		{"Zero", 0, false},
		{"Negative", -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.HealthPort = tt.port

			err := config.Validate()
			if tt.valid && err != nil {
				t.Errorf("Expected valid port %d, got error: %v", tt.port, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("Expected validation error for port %d", tt.port)
			}
		})
	}
}

func TestWorkerConfig_Validate_MultipleErrors(t *testing.T) {
	config := WorkerConfig{
		RefreshSchedule: "invalid",
		Timezone:        "Invalid/Zone",
		WorkerCount:     0,
		BatchSize:       0,
		JobTimeout:      0,
		HealthPort:      100,
	}

	err := config.Validate()
	if err == nil {
		t.Fatal("Expected validation errors for multiple invalid fields")
	}

	errStr := err.Error()
	if errStr == "" {
		t.Error("Error message should not be empty")
	}

	t.Logf("Validation error (expected): %v", err)
}

func TestWorkerConfig_Validate_ValidCustomConfig(t *testing.T) {
	config := WorkerConfig{
		RefreshSchedule: "0 */6 * * * *",
		Timezone:        "UTC",
		RefreshEnabled:  true,
		WorkerCount:     20,
		BatchSize:       200,
		JobTimeout:      1 * time.Hour,
		HealthPort:      8080,
	}

	err := config.Validate()
	if err != nil {
		t.Errorf("Expected valid custom config, got error: %v", err)
	}
}

// globalTestMetrics is a shared metrics instance for tests to avoid
// duplicate Prometheus registration errors. In production, metrics are
// created once at startup, so this simulates that behavior.
var globalTestMetrics = NewWorkerMetrics()

// setEnv is a test helper that sets an environment variable and fails the test if it errors
func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("Failed to set %s: %v", key, err)
	}
}

// unsetEnv is a test helper that unsets an environment variable and fails the test if it errors
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("Failed to unset %s: %v", key, err)
	}
}

func allWorkerEnvVars() []string {
	return []string{
		"CRON_REFRESH",
		"WORKER_TIMEZONE",
		"REFRESH_ENABLED",
		"WORKER_COUNT",
		"REFRESH_BATCH_SIZE",
		"JOB_TIMEOUT",
		"WORKER_HEALTH_PORT",
	}
}

func TestLoadConfigFromEnv_AllEnvVarsValid(t *testing.T) {
	setEnv(t, "CRON_REFRESH", "0 6 * * * *")
	setEnv(t, "WORKER_TIMEZONE", "UTC")
	setEnv(t, "REFRESH_ENABLED", "false")
	setEnv(t, "WORKER_COUNT", "20")
	setEnv(t, "REFRESH_BATCH_SIZE", "250")
	setEnv(t, "JOB_TIMEOUT", "1h")
	setEnv(t, "WORKER_HEALTH_PORT", "8080")
	defer func() {
		for _, k := range allWorkerEnvVars() {
			unsetEnv(t, k)
		}
	}()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	config, err := LoadConfigFromEnv(logger, globalTestMetrics)

	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}

	if config.RefreshSchedule != "0 6 * * * *" {
		t.Errorf("Expected RefreshSchedule '0 6 * * * *', got '%s'", config.RefreshSchedule)
	}
	if config.Timezone != "UTC" {
		t.Errorf("Expected Timezone 'UTC', got '%s'", config.Timezone)
	}
	if config.RefreshEnabled {
		t.Error("Expected RefreshEnabled false")
	}
	if config.WorkerCount != 20 {
		t.Errorf("Expected WorkerCount 20, got %d", config.WorkerCount)
	}
	if config.BatchSize != 250 {
		t.Errorf("Expected BatchSize 250, got %d", config.BatchSize)
	}
	if config.JobTimeout != 1*time.Hour {
		t.Errorf("Expected JobTimeout 1h, got %v", config.JobTimeout)
	}
	if config.HealthPort != 8080 {
		t.Errorf("Expected HealthPort 8080, got %d", config.HealthPort)
	}

	if buf.Len() > 0 {
		t.Errorf("Expected no warnings, got: %s", buf.String())
	}
}

func TestLoadConfigFromEnv_MissingEnvVars(t *testing.T) {
	for _, k := range allWorkerEnvVars() {
		unsetEnv(t, k)
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	config, err := LoadConfigFromEnv(logger, globalTestMetrics)

	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}

	defaults := DefaultConfig()
	if config.RefreshSchedule != defaults.RefreshSchedule {
		t.Errorf("Expected default RefreshSchedule, got '%s'", config.RefreshSchedule)
	}
	if config.Timezone != defaults.Timezone {
		t.Errorf("Expected default Timezone, got '%s'", config.Timezone)
	}
	if config.RefreshEnabled != defaults.RefreshEnabled {
		t.Errorf("Expected default RefreshEnabled, got %v", config.RefreshEnabled)
	}
	if config.WorkerCount != defaults.WorkerCount {
		t.Errorf("Expected default WorkerCount, got %d", config.WorkerCount)
	}
	if config.BatchSize != defaults.BatchSize {
		t.Errorf("Expected default BatchSize, got %d", config.BatchSize)
	}
	if config.JobTimeout != defaults.JobTimeout {
		t.Errorf("Expected default JobTimeout, got %v", config.JobTimeout)
	}
	if config.HealthPort != defaults.HealthPort {
		t.Errorf("Expected default HealthPort, got %d", config.HealthPort)
	}

	// No warnings should be logged (missing env vars don't trigger fallback)
	if buf.Len() > 0 {
		t.Errorf("Expected no warnings, got: %s", buf.String())
	}
}

func TestLoadConfigFromEnv_InvalidRefreshSchedule(t *testing.T) {
	setEnv(t, "CRON_REFRESH", "invalid cron")
	defer unsetEnv(t, "CRON_REFRESH")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	config, err := LoadConfigFromEnv(logger, globalTestMetrics)

	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}

	if config.RefreshSchedule != DefaultConfig().RefreshSchedule {
		t.Errorf("Expected default RefreshSchedule, got '%s'", config.RefreshSchedule)
	}

	logOutput := buf.String()
	if !strings.Contains(logOutput, "configuration fallback applied") {
		t.Error("Expected fallback warning in logs")
	}
	if !strings.Contains(logOutput, "refresh_schedule") {
		t.Error("Expected refresh_schedule field in warning")
	}
}

func TestLoadConfigFromEnv_InvalidTimezone(t *testing.T) {
	setEnv(t, "WORKER_TIMEZONE", "Invalid/Timezone")
	defer unsetEnv(t, "WORKER_TIMEZONE")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	config, err := LoadConfigFromEnv(logger, globalTestMetrics)

	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}

	if config.Timezone != DefaultConfig().Timezone {
		t.Errorf("Expected default Timezone, got '%s'", config.Timezone)
	}

	logOutput := buf.String()
	if !strings.Contains(logOutput, "configuration fallback applied") {
		t.Error("Expected fallback warning in logs")
	}
	if !strings.Contains(logOutput, "timezone") {
		t.Error("Expected timezone field in warning")
	}
}

func TestLoadConfigFromEnv_RefreshEnabledFalse(t *testing.T) {
	setEnv(t, "REFRESH_ENABLED", "false")
	defer unsetEnv(t, "REFRESH_ENABLED")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	config, err := LoadConfigFromEnv(logger, globalTestMetrics)
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if config.RefreshEnabled {
		t.Error("Expected RefreshEnabled false")
	}
}

func TestLoadConfigFromEnv_InvalidWorkerCount(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"Zero", "0"},
		{"Negative", "-1"},
		{"Too high", "101"},
		{"Invalid format", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, "WORKER_COUNT", tt.value)
			defer unsetEnv(t, "WORKER_COUNT")

			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			config, err := LoadConfigFromEnv(logger, globalTestMetrics)

			if err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}

			if config.WorkerCount != DefaultConfig().WorkerCount {
				t.Errorf("Expected default WorkerCount, got %d", config.WorkerCount)
			}

			logOutput := buf.String()
			if !strings.Contains(logOutput, "configuration fallback applied") {
				t.Error("Expected fallback warning in logs")
			}
		})
	}
}

func TestLoadConfigFromEnv_InvalidBatchSize(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"Zero", "0"},
		{"Too high", "10001"},
		{"Invalid format", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, "REFRESH_BATCH_SIZE", tt.value)
			defer unsetEnv(t, "REFRESH_BATCH_SIZE")

			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			config, err := LoadConfigFromEnv(logger, globalTestMetrics)

			if err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}

			if config.BatchSize != DefaultConfig().BatchSize {
				t.Errorf("Expected default BatchSize, got %d", config.BatchSize)
			}

			logOutput := buf.String()
			if !strings.Contains(logOutput, "configuration fallback applied") {
				t.Error("Expected fallback warning in logs")
			}
		})
	}
}

func TestLoadConfigFromEnv_InvalidJobTimeout(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"Zero", "0"},
		{"Negative", "-1s"},
		{"Invalid format", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, "JOB_TIMEOUT", tt.value)
			defer unsetEnv(t, "JOB_TIMEOUT")

			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			config, err := LoadConfigFromEnv(logger, globalTestMetrics)

			if err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}

			if config.JobTimeout != DefaultConfig().JobTimeout {
				t.Errorf("Expected default JobTimeout, got %v", config.JobTimeout)
			}

			logOutput := buf.String()
			if !strings.Contains(logOutput, "configuration fallback applied") {
				t.Error("Expected fallback warning in logs")
			}
		})
	}
}

func TestLoadConfigFromEnv_InvalidHealthPort(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"Too low", "1023"},
		{"Too high", "65536"},
		{"Zero", "0"},
		{"Negative", "-1"},
		{"Invalid format", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, "WORKER_HEALTH_PORT", tt.value)
			defer unsetEnv(t, "WORKER_HEALTH_PORT")

			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			config, err := LoadConfigFromEnv(logger, globalTestMetrics)

			if err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}

			if config.HealthPort != DefaultConfig().HealthPort {
				t.Errorf("Expected default HealthPort, got %d", config.HealthPort)
			}

			logOutput := buf.String()
			if !strings.Contains(logOutput, "configuration fallback applied") {
				t.Error("Expected fallback warning in logs")
			}
		})
	}
}

func TestLoadConfigFromEnv_MultipleInvalidFields(t *testing.T) {
	setEnv(t, "CRON_REFRESH", "invalid")
	setEnv(t, "WORKER_TIMEZONE", "Invalid/Zone")
	setEnv(t, "WORKER_COUNT", "0")
	setEnv(t, "REFRESH_BATCH_SIZE", "invalid")
	setEnv(t, "JOB_TIMEOUT", "invalid")
	setEnv(t, "WORKER_HEALTH_PORT", "100")
	defer func() {
		for _, k := range allWorkerEnvVars() {
			unsetEnv(t, k)
		}
	}()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	config, err := LoadConfigFromEnv(logger, globalTestMetrics)

	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}

	defaults := DefaultConfig()
	if config.RefreshSchedule != defaults.RefreshSchedule {
		t.Errorf("Expected default RefreshSchedule, got '%s'", config.RefreshSchedule)
	}
	if config.Timezone != defaults.Timezone {
		t.Errorf("Expected default Timezone, got '%s'", config.Timezone)
	}
	if config.WorkerCount != defaults.WorkerCount {
		t.Errorf("Expected default WorkerCount, got %d", config.WorkerCount)
	}
	if config.BatchSize != defaults.BatchSize {
		t.Errorf("Expected default BatchSize, got %d", config.BatchSize)
	}
	if config.JobTimeout != defaults.JobTimeout {
		t.Errorf("Expected default JobTimeout, got %v", config.JobTimeout)
	}
	if config.HealthPort != defaults.HealthPort {
		t.Errorf("Expected default HealthPort, got %d", config.HealthPort)
	}

	logOutput := buf.String()
	warningCount := strings.Count(logOutput, "configuration fallback applied")
	if warningCount != 6 {
		t.Errorf("Expected 6 warnings, got %d", warningCount)
	}
}

func TestLoadConfigFromEnv_PartiallyValid(t *testing.T) {
	setEnv(t, "CRON_REFRESH", "0 6 * * * *")    // Valid
	setEnv(t, "WORKER_TIMEZONE", "Invalid/Zone") // Invalid
	setEnv(t, "WORKER_COUNT", "20")              // Valid
	setEnv(t, "JOB_TIMEOUT", "invalid")          // Invalid
	setEnv(t, "WORKER_HEALTH_PORT", "8080")      // Valid
	defer func() {
		for _, k := range allWorkerEnvVars() {
			unsetEnv(t, k)
		}
	}()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	config, err := LoadConfigFromEnv(logger, globalTestMetrics)

	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}

	if config.RefreshSchedule != "0 6 * * * *" {
		t.Errorf("Expected RefreshSchedule '0 6 * * * *', got '%s'", config.RefreshSchedule)
	}
	if config.WorkerCount != 20 {
		t.Errorf("Expected WorkerCount 20, got %d", config.WorkerCount)
	}
	if config.HealthPort != 8080 {
		t.Errorf("Expected HealthPort 8080, got %d", config.HealthPort)
	}

	if config.Timezone != DefaultConfig().Timezone {
		t.Errorf("Expected default Timezone, got '%s'", config.Timezone)
	}
	if config.JobTimeout != DefaultConfig().JobTimeout {
		t.Errorf("Expected default JobTimeout, got %v", config.JobTimeout)
	}

	logOutput := buf.String()
	warningCount := strings.Count(logOutput, "configuration fallback applied")
	if warningCount != 2 {
		t.Errorf("Expected 2 warnings, got %d", warningCount)
	}
}

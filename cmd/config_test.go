package cmd

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "ampliquid", configBaseName)
	assert.Equal(t, "ampliquid.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "mapping", mappingFlagName)
	assert.Equal(t, "output", outputFlagName)
	assert.Equal(t, "log-dir", logDirFlagName)
	assert.Equal(t, "no-excel-log", noExcelLogFlagName)
	assert.Equal(t, "parallel", parallelFlagName)
	assert.Equal(t, "convert.parallel", parallelConfigKey)
	assert.Equal(t, "convert.log_dir", logDirConfigKey)
	assert.Equal(t, "convert.no_excel_log", noExcelLogConfigKey)
	assert.Equal(t, "depara.xlsx", defaultMappingPath)
	assert.Equal(t, ".", defaultLogDir)
	assert.Equal(t, false, defaultNoExcelLog)
	assert.Equal(t, 1, defaultParallel)
	assert.Equal(t, "AMPLIQUID", envPrefix)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  slog.Level
	}{
		{"empty uses default", "", slog.LevelInfo},
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"warning alias", "warning", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"mixed case", "DeBuG", slog.LevelDebug},
		{"numeric", "-4", slog.LevelDebug},
		{"garbage uses default", "loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelInfo))
		})
	}
}

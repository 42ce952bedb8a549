package cmd

import (
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServeEnvVars(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		args     []string
		expected serveConfig
	}{
		{
			name: "defaults",
			expected: serveConfig{
				Transport: "stdio",
				HTTPAddr:  ":8080",
				Metrics:   MetricsConfig{Enabled: true, Addr: ":9090"},
			},
		},
		{
			name: "environment overrides unset flags",
			env: map[string]string{
				"MCP_TRANSPORT":   "streamable-http",
				"MCP_HTTP_ADDR":   ":7000",
				"MCP_READ_ONLY":   "true",
				"METRICS_ENABLED": "false",
				"METRICS_ADDR":    ":9191",
			},
			expected: serveConfig{
				Transport: "streamable-http",
				HTTPAddr:  ":7000",
				ReadOnly:  true,
				Metrics:   MetricsConfig{Enabled: false, Addr: ":9191"},
			},
		},
		{
			name: "explicit flags win over environment",
			env: map[string]string{
				"MCP_TRANSPORT": "streamable-http",
				"MCP_READ_ONLY": "true",
				"METRICS_ADDR":  ":9191",
			},
			args: []string{"--transport", "stdio", "--read-only=false", "--metrics-addr", ":9292"},
			expected: serveConfig{
				Transport: "stdio",
				HTTPAddr:  ":8080",
				Metrics:   MetricsConfig{Enabled: true, Addr: ":9292"},
			},
		},
		{
			name: "invalid boolean is ignored",
			env:  map[string]string{"MCP_READ_ONLY": "sometimes"},
			expected: serveConfig{
				Transport: "stdio",
				HTTPAddr:  ":8080",
				Metrics:   MetricsConfig{Enabled: true, Addr: ":9090"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"MCP_TRANSPORT", "MCP_HTTP_ADDR", "MCP_READ_ONLY", "METRICS_ENABLED", "METRICS_ADDR"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cmd := &cobra.Command{Use: "serve"}
			cfg := serveConfig{}
			addServeFlags(cmd, &cfg)
			require.NoError(t, cmd.Flags().Parse(tt.args))

			loadServeEnvVars(cmd, &cfg)
			assert.Equal(t, tt.expected, cfg)
		})
	}
}

func TestRunServe_RejectsUnknownTransport(t *testing.T) {
	err := runServe(serveConfig{Transport: "carrier-pigeon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported transport type")
}

func TestRegisterAllTools(t *testing.T) {
	a := newTestApp(t, "key", nil)
	sc := newTestServerContext(t, a)

	s := mcpserver.NewMCPServer("test", "1.0.0")
	require.NoError(t, registerAllTools(s, sc, true))

	names := make([]string, 0)
	for name := range s.ListTools() {
		names = append(names, name)
	}
	assert.Len(t, names, 8)
	assert.NotContains(t, names, "create_task")
}

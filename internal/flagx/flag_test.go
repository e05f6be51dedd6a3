package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	clientFlags := []string{"-a", "-o", "-t", "-r"}
	serverFlags := []string{"-k", "-v", "-o"}

	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "client picks its own flags",
			args:    []string{"-a", "http://localhost:8080", "-k", "s3cret", "-t", "5s"},
			allowed: clientFlags,
			want:    []string{"-a", "http://localhost:8080", "-t", "5s"},
		},
		{
			name:    "server picks its own flags",
			args:    []string{"-a", "http://localhost:8080", "-k", "s3cret", "-v=12h"},
			allowed: serverFlags,
			want:    []string{"-k", "s3cret", "-v=12h"},
		},
		{
			name:    "shared flag kept by both",
			args:    []string{"-o=http://localhost:3000"},
			allowed: serverFlags,
			want:    []string{"-o=http://localhost:3000"},
		},
		{
			name:    "value that looks like a flag is not consumed",
			args:    []string{"-r", "-t", "1s"},
			allowed: clientFlags,
			want:    []string{"-r", "-t", "1s"},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-k"},
			allowed: serverFlags,
			want:    []string{"-k"},
		},
		{
			name:    "positional arguments dropped",
			args:    []string{"login", "--verbose", "-x=1"},
			allowed: clientFlags,
			want:    []string{},
		},
		{
			name:    "nil args",
			args:    nil,
			allowed: clientFlags,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFile(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "short", args: []string{"-a", "http://x", "-c", "client.json"}, want: "client.json"},
		{name: "long with equals", args: []string{"-config=server.json"}, want: "server.json"},
		{name: "double dash", args: []string{"--config", "dev.json"}, want: "dev.json"},
		{name: "absent", args: []string{"-a", "http://x"}, want: ""},
		{name: "empty", args: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigFile(tt.args))
		})
	}
}

package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleArg(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		want    string
		wantErr bool
	}{
		{"one token", "https://example.com", "https://example.com", false},
		{"leading spaces", "  42", "42", false},
		{"empty", "", "", true},
		{"only spaces", "   ", "", true},
		{"two tokens", "https://a.com https://b.com", "", true},
		{"tab separated", "42\t43", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := singleArg(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdminOnlyTable(t *testing.T) {
	// Все команды, меняющие таблицу или роли, закрыты
	gated := []string{"create_table", "create_links", "analytics", "add_admin", "remove_admin"}
	for _, cmd := range gated {
		assert.True(t, adminOnly[cmd], "command %s must be admin-only", cmd)
	}

	// Открытые команды отсутствуют в таблице
	open := []string{"start", "help", "myID", "myid"}
	for _, cmd := range open {
		assert.False(t, adminOnly[cmd], "command %s must not be admin-only", cmd)
	}
}

package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsDSN(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		expected string
	}{
		{
			name:     "default port",
			params:   Params{Host: "db.local", User: "sib", Password: "pw", Database: "energy"},
			expected: "postgres://sib:pw@db.local:5432/energy",
		},
		{
			name:     "explicit port and sslmode",
			params:   Params{Host: "10.0.0.2", Port: "6432", User: "sib", Database: "energy", SSLMode: "disable"},
			expected: "postgres://sib@10.0.0.2:6432/energy?sslmode=disable",
		},
		{
			name:     "password is escaped",
			params:   Params{Host: "h", User: "u", Password: "p@ss/word", Database: "d"},
			expected: "postgres://u:p%40ss%2Fword@h:5432/d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn, err := tt.params.DSN()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, dsn)
		})
	}
}

func TestParamsDSN_Invalid(t *testing.T) {
	_, err := Params{Database: "d"}.DSN()
	assert.Error(t, err)

	_, err = Params{Host: "h"}.DSN()
	assert.Error(t, err)
}

func TestNewPostgresDB_EmptyDSN(t *testing.T) {
	_, err := NewPostgresDB("  ")
	assert.Error(t, err)
}

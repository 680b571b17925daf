package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			"separate value",
			[]string{"-c", "conf.json", "-x", "other"},
			[]string{"-c"},
			[]string{"-c", "conf.json"},
		},
		{
			"equals form",
			[]string{"--config=conf.json", "-v"},
			[]string{"--config"},
			[]string{"--config=conf.json"},
		},
		{
			"flag followed by another flag keeps no value",
			[]string{"-c", "-v"},
			[]string{"-c"},
			[]string{"-c"},
		},
		{
			"nothing allowed",
			[]string{"-a", "b"},
			nil,
			[]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

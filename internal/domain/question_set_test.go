package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"timed-quiz/internal/domain"
)

func TestValidateSetID(t *testing.T) {
	tests := map[string]struct {
		setID   string
		wantErr bool
	}{
		"plain file":        {setID: "questions.json"},
		"nested":            {setID: "sets/geo.yaml"},
		"dot segment":       {setID: "./sets/geo.yaml"},
		"empty":             {setID: "", wantErr: true},
		"absolute path":     {setID: "/etc/passwd", wantErr: true},
		"parent dir":        {setID: "../x.json", wantErr: true},
		"nested parent":     {setID: "sets/../../x.json", wantErr: true},
		"absolute url":      {setID: "http://other/x.json", wantErr: true},
		"scheme relative":   {setID: "//other/x.json", wantErr: true},
		"escaped parent":    {setID: "%2e%2e/x.json", wantErr: true},
		"query":             {setID: "x.json?host=other", wantErr: true},
		"windows backslash": {setID: `..\x.json`, wantErr: true},
		"only dot":          {setID: ".", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := domain.ValidateSetID(tt.setID)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidSetID)
				return
			}
			require.NoError(t, err)
		})
	}
}

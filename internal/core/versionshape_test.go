package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsVersionShaped(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{version: "1.2.3", want: true},
		{version: "2024.1", want: true},
		{version: "7", want: true},
		{version: "33.5.0-jre", want: true},
		{version: "2.0.0+b42", want: true},
		{version: "1.0.0-rc.1", want: true},
		{version: "v1.2.3", want: false},
		{version: "1.2.3.beta", want: false},
		{version: "momo5.1f.medialive.20210427105401", want: false},
		{version: "latest", want: false},
		{version: "", want: false},
	}
	for _, tc := range tests {
		t.Run(tc.version, func(t *testing.T) {
			require.Equal(t, tc.want, IsVersionShaped(tc.version))
		})
	}
}

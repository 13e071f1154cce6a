package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestSocialValueScan(t *testing.T) {
	in := Social{GitHub: strPtr("https://github.com/homio"), Portfolio: strPtr("https://homio.app")}
	v, err := in.Value()
	require.NoError(t, err)

	var out Social
	require.NoError(t, out.Scan(v))
	require.Equal(t, in, out)

	require.NoError(t, out.Scan(nil))
	require.Equal(t, Social{}, out)
	require.Error(t, out.Scan(12))
}

func TestSocialMerge(t *testing.T) {
	base := Social{GitHub: strPtr("https://github.com/a"), LinkedIn: strPtr("https://linkedin.com/in/a")}
	merged := base.Merge(Social{LinkedIn: strPtr(""), Portfolio: strPtr("https://a.dev")})

	require.Equal(t, "https://github.com/a", *merged.GitHub)
	require.Nil(t, merged.LinkedIn)
	require.Equal(t, "https://a.dev", *merged.Portfolio)
}

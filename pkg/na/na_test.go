package na

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRendering(t *testing.T) {
	require.Equal(t, "NA", Int{}.String())
	require.Equal(t, "-1", IntOf(-1).String())
	require.Equal(t, "NA", Float{}.String())
	require.Equal(t, "1500.5", FloatOf(1500.5).String())
	require.Equal(t, "NA", Time{}.String())
	require.Equal(t, "2023-11-14 22:13:20", UnixOf(1700000000).String())

	require.Equal(t, int64(7), Int{}.Or(7))
	require.Equal(t, int64(3), IntOf(3).Or(7))
	require.Equal(t, 0.5, Float{}.Or(0.5))
}

func TestMarshal(t *testing.T) {
	out, err := json.Marshal(struct {
		A Int
		B Int
		C Float
		D Time
	}{
		A: IntOf(5),
		D: UnixOf(10),
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"A": 5, "B": "NA", "C": "NA", "D": 10}`, string(out))
}

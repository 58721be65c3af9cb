package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnowflakeID_JSONAcceptsStringAndNumber(t *testing.T) {
	out, err := json.Marshal(SnowflakeID(1790000000000000001))
	require.NoError(t, err)
	require.Equal(t, `"1790000000000000001"`, string(out))

	var fromString SnowflakeID
	require.NoError(t, json.Unmarshal([]byte(`"42"`), &fromString))
	require.Equal(t, SnowflakeID(42), fromString)

	var fromNumber SnowflakeID
	require.NoError(t, json.Unmarshal([]byte(`43`), &fromNumber))
	require.Equal(t, SnowflakeID(43), fromNumber)

	var bad SnowflakeID
	require.Error(t, json.Unmarshal([]byte(`"abc"`), &bad))
}

func TestSnowflakeID_Scan(t *testing.T) {
	var id SnowflakeID
	require.NoError(t, id.Scan(int64(7)))
	require.Equal(t, SnowflakeID(7), id)
	require.NoError(t, id.Scan([]byte("8")))
	require.Equal(t, SnowflakeID(8), id)
	require.Error(t, id.Scan(3.14))
}

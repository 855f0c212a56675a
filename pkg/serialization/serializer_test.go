package serialization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigking1998/algo-trade-bot-sub010/internal/core/strategy"
)

func sampleGraph(t *testing.T) *strategy.Graph {
	t.Helper()
	g := strategy.NewGraph("snapshot")
	require.NoError(t, g.AddNode(&strategy.Node{
		ID: "sma", Kind: strategy.NodeKindIndicator, Label: "SMA",
		Parameters: map[string]interface{}{"period": 14, "type": "sma"},
	}))
	require.NoError(t, g.AddNode(&strategy.Node{ID: "sig", Kind: strategy.NodeKindSignal, Label: "Buy"}))
	require.NoError(t, g.AddEdge(&strategy.Edge{Source: "sma", Target: "sig"}))
	return g
}

func TestSerializer_RoundTrip(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	tests := []struct {
		name   string
		config Config
	}{
		{name: "json plain", config: Config{Codec: NewJSONCodec()}},
		{name: "json gzip", config: Config{Codec: NewJSONCodec(), Compression: CompressionGzip}},
		{name: "msgpack zstd", config: Config{Codec: NewMsgPackCodec(), Compression: CompressionZstd}},
		{name: "msgpack zstd encrypted", config: Config{
			Codec: NewMsgPackCodec(), Compression: CompressionZstd, EncryptKey: key,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSerializer(tt.config)
			original := sampleGraph(t)

			data, err := s.Serialize(original)
			require.NoError(t, err)
			require.NotEmpty(t, data)

			var restored strategy.Graph
			require.NoError(t, s.Deserialize(data, &restored))
			assert.Equal(t, original.Name, restored.Name)
			require.Len(t, restored.Nodes, 2)
			assert.Equal(t, "sma", restored.Nodes[0].ID)
			require.Len(t, restored.Edges, 1)
		})
	}
}

func TestSerializer_EncryptedPayloadsDiffer(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	s := NewSerializer(Config{Codec: NewJSONCodec(), EncryptKey: key})
	g := sampleGraph(t)

	first, err := s.Serialize(g)
	require.NoError(t, err)
	second, err := s.Serialize(g)
	require.NoError(t, err)

	// Fresh nonce per call: ciphertexts differ, plaintexts round-trip.
	assert.NotEqual(t, first, second)
}

func TestSerializer_DecryptRejectsTamperedData(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	s := NewSerializer(Config{Codec: NewJSONCodec(), EncryptKey: key})

	data, err := s.Serialize(sampleGraph(t))
	require.NoError(t, err)
	data[len(data)-1] ^= 0xff

	var out strategy.Graph
	assert.Error(t, s.Deserialize(data, &out))
}

func TestDefaultSerializer(t *testing.T) {
	s := DefaultSerializer()
	data, err := s.Serialize(map[string]int{"a": 1})
	require.NoError(t, err)

	var out map[string]int
	require.NoError(t, s.Deserialize(data, &out))
	assert.Equal(t, 1, out["a"])
}

func TestFingerprint_StableAndSensitive(t *testing.T) {
	g := sampleGraph(t)

	first, err := Fingerprint(g)
	require.NoError(t, err)
	assert.Len(t, first, 64)

	for i := 0; i < 10; i++ {
		again, err := Fingerprint(sampleGraph(t))
		require.NoError(t, err)
		assert.Equal(t, first, again, "identical snapshots hash identically")
	}

	changed := sampleGraph(t)
	changed.Nodes[0].Parameters["period"] = 21
	other, err := Fingerprint(changed)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestFingerprint_RejectsUnencodable(t *testing.T) {
	_, err := Fingerprint(make(chan int))
	assert.Error(t, err)
}

package cache

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestWatcher_PublishesStats(t *testing.T) {
	fetcher := &countingFetcher{body: []byte("0123456789")}
	c := newTestCache(t, fetcher)

	for _, country := range []string{"India", "France"} {
		_, err := c.Resolve(context.Background(), "https://en.wikipedia.org/wiki/"+country)
		require.NoError(t, err)
	}

	w, err := NewWatcher(c, nil)
	require.NoError(t, err)
	defer w.watcher.Close()

	w.publish()

	require.Equal(t, 2.0, testutil.ToFloat64(entriesGauge))
	require.Equal(t, 20.0, testutil.ToFloat64(bytesGauge))
}

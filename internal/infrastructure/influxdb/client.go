package influxdb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/feedgate/feedgate/internal/infrastructure/config"
	"github.com/feedgate/feedgate/internal/infrastructure/logging"
)

const (
	defaultConnectTimeout = 10 * time.Second

	// millisecondsPerSecond converts seconds to milliseconds for the client options.
	millisecondsPerSecond = 1000
)

// Client mirrors feed readings into an InfluxDB bucket.
//
// Thread Safety:
//   - Write is safe for concurrent use; points are batched internally.
type Client struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	logger   *logging.Logger
}

// Connect establishes the mirror connection.
//
// Parameters:
//   - cfg: InfluxDB section of the configuration
//   - logger: destination for async write failures
//
// Returns:
//   - *Client: Connected mirror ready for use
//   - error: ErrDisabled when turned off, or a connection failure
func Connect(cfg config.InfluxDBConfig, logger *logging.Logger) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	flushInterval := cfg.FlushInterval
	if flushInterval <= 0 {
		flushInterval = 10
	}

	// #nosec G115 -- values validated above to be positive
	client := influxdb2.NewClientWithOptions(
		cfg.URL,
		cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(uint(batchSize)).
			SetFlushInterval(uint(flushInterval)*millisecondsPerSecond),
	)

	ctx, cancel := context.WithTimeout(context.Background(), defaultConnectTimeout)
	defer cancel()

	healthy, err := client.Ping(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping failed: %w", ErrConnectionFailed, err)
	}
	if !healthy {
		client.Close()
		return nil, fmt.Errorf("%w: server not healthy", ErrConnectionFailed)
	}

	c := &Client{
		client:   client,
		writeAPI: client.WriteAPI(cfg.Org, cfg.Bucket),
		logger:   logger.With("component", "influxdb"),
	}

	// Writes are async; failures surface on this channel and are only
	// logged — the mirror must never fail ingestion.
	go c.logWriteErrors(c.writeAPI.Errors())

	return c, nil
}

// Write enqueues one reading for the mirror. Non-blocking.
// Implements the feed service's Mirror interface.
func (c *Client) Write(nodeID int64, values []float64) {
	point := influxdb2.NewPointWithMeasurement("feed").
		AddTag("node_id", strconv.FormatInt(nodeID, 10)).
		SetTime(time.Now())
	for i, v := range values {
		point.AddField("value_"+strconv.Itoa(i), v)
	}

	c.writeAPI.WritePoint(point)
}

// logWriteErrors drains async write failures from the client library.
func (c *Client) logWriteErrors(errorsCh <-chan error) {
	for err := range errorsCh {
		c.logger.Error("mirror write failed", "error", err)
	}
}

// Close flushes pending points and shuts the client down.
func (c *Client) Close() {
	if c.client == nil {
		return
	}
	c.writeAPI.Flush()
	c.client.Close()
}

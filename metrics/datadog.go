package metrics

import (
	"fmt"
	"strings"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/pkg/errors"
)

// DataDogMetricsReporter sends metrics to a dogstatsd agent.
type DataDogMetricsReporter struct {
	client *statsd.Client
}

// NewDataDogMetricsReporter returns a reporter sending to addr. Metric names
// are prefixed with namespace when it is not empty.
func NewDataDogMetricsReporter(addr string, namespace string) (*DataDogMetricsReporter, error) {
	var opts []statsd.Option
	if namespace != "" {
		opts = append(opts, statsd.WithNamespace(strings.TrimSuffix(namespace, ".")+"."))
	}
	c, err := statsd.New(addr, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "could not create statsd client")
	}
	return &DataDogMetricsReporter{c}, nil
}

func (c *DataDogMetricsReporter) Count(name string, value int64, tags map[string]string, rate float64) error {
	return c.client.Count(name, value, convertTags(tags), rate)
}

func (c *DataDogMetricsReporter) Gauge(name string, value float64, tags map[string]string, rate float64) error {
	return c.client.Gauge(name, value, convertTags(tags), rate)
}

func (c *DataDogMetricsReporter) Histogram(name string, value float64, tags map[string]string, rate float64) error {
	return c.client.Histogram(name, value, convertTags(tags), rate)
}

func (c *DataDogMetricsReporter) Distribution(name string, value float64, tags map[string]string, rate float64) error {
	return c.client.Distribution(name, value, convertTags(tags), rate)
}

func (c *DataDogMetricsReporter) Set(name string, value string, tags map[string]string, rate float64) error {
	return c.client.Set(name, value, convertTags(tags), rate)
}

func (c *DataDogMetricsReporter) TimeInMilliseconds(name string, value float64, tags map[string]string, rate float64) error {
	return c.client.TimeInMilliseconds(name, value, convertTags(tags), rate)
}

func (c *DataDogMetricsReporter) Close() error {
	return c.client.Close()
}

// converts from {"TagName":"TagValue"} to ["tagname:tagvalue"]
func convertTags(tags map[string]string) []string {
	result := make([]string, 0, len(tags))
	for k, v := range tags {
		k := strings.ToLower(strings.TrimSpace(k))
		v := strings.ToLower(strings.TrimSpace(v))
		result = append(result, fmt.Sprintf("%s:%s", k, v))
	}
	return result
}

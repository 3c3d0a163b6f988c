package influx

import (
	"context"
	"errors"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/san-kum/lorenztrail/internal/analysis"
	"github.com/san-kum/lorenztrail/internal/dynamo"
	"github.com/san-kum/lorenztrail/internal/storage"
)

const (
	runMeasurement   = "lorenz_run"
	pointMeasurement = "lorenz_point"
)

// Config selects the InfluxDB v2 target.
type Config struct {
	URL    string `yaml:"url" mapstructure:"url"`
	Token  string `yaml:"token" mapstructure:"token"`
	Org    string `yaml:"org" mapstructure:"org"`
	Bucket string `yaml:"bucket" mapstructure:"bucket"`
}

func (c Config) Enabled() bool { return c.URL != "" }

// Publisher writes saved runs to InfluxDB.
type Publisher struct {
	client influxdb2.Client
	cfg    Config
	log    zerolog.Logger
}

func NewPublisher(cfg Config, log zerolog.Logger) (*Publisher, error) {
	if !cfg.Enabled() {
		return nil, errors.New("influx url is not configured")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("influx bucket is not configured")
	}
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token,
		influxdb2.DefaultOptions().SetBatchSize(2500))
	return &Publisher{client: client, cfg: cfg, log: log}, nil
}

// Ping reports whether the server is reachable.
func (p *Publisher) Ping(ctx context.Context) error {
	ok, err := p.client.Ping(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("influx at %s is not ready", p.cfg.URL)
	}
	return nil
}

// Publish writes the summary and every stride-th buffer point of a run.
func (p *Publisher) Publish(ctx context.Context, meta storage.RunMetadata, buffers [][]dynamo.Vec3, stride int) (int, error) {
	points := RunPoints(meta, buffers, stride)
	writer := p.client.WriteAPIBlocking(p.cfg.Org, p.cfg.Bucket)
	if err := writer.WritePoint(ctx, points...); err != nil {
		return 0, fmt.Errorf("writing %d points: %w", len(points), err)
	}
	p.log.Debug().Str("run", meta.ID).Int("points", len(points)).Msg("published run")
	return len(points), nil
}

func (p *Publisher) Close() { p.client.Close() }

// RunPoints builds the points for a run: one summary point, then buffer
// samples timestamped at their simulated offsets. Non-finite samples are
// skipped since line protocol cannot carry them.
func RunPoints(meta storage.RunMetadata, buffers [][]dynamo.Vec3, stride int) []*influxdb2_write.Point {
	stride = max(stride, 1)
	tags := map[string]string{
		"run":           meta.ID,
		"parameter_set": meta.ParameterSet,
	}

	points := make([]*influxdb2_write.Point, 0, 1+len(buffers)*meta.MaxPoints/stride)

	summary := map[string]any{
		"rho":          meta.Params.Rho,
		"sigma":        meta.Params.Sigma,
		"beta":         meta.Params.Beta,
		"dt":           meta.Dt,
		"steps":        meta.Steps,
		"trajectories": len(buffers),
		"non_finite":   meta.NonFinite,
	}
	var all []dynamo.Vec3
	for _, b := range buffers {
		all = append(all, b...)
	}
	if box := analysis.Bounds(all); box.Finite > 0 {
		size := box.Size()
		summary["extent_x"] = size.X
		summary["extent_y"] = size.Y
		summary["extent_z"] = size.Z
	}
	points = append(points, influxdb2.NewPoint(runMeasurement, tags, summary, meta.Timestamp))

	for ti, buf := range buffers {
		// the last sample sits at the run timestamp
		for i := 0; i < len(buf); i += stride {
			p := buf[i]
			if !p.IsFinite() {
				continue
			}
			offset := meta.Dt * float64(len(buf)-1-i)
			ts := meta.Timestamp.Add(-time.Duration(offset * float64(time.Second)))
			pt := influxdb2.NewPointWithMeasurement(pointMeasurement).
				AddTag("run", meta.ID).
				AddTag("trajectory", fmt.Sprint(ti)).
				AddField("x", p.X).
				AddField("y", p.Y).
				AddField("z", p.Z).
				SetTime(ts)
			points = append(points, pt)
		}
	}
	return points
}

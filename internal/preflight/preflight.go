// Package preflight checks that the systems under test answer before a suite run.
package preflight

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/carrental-io/carrental-qa/internal/config"
)

const (
	DialTimeout = 250 * time.Millisecond
	HTTPTimeout = 800 * time.Millisecond
)

// Target is one system to probe. Paths are tried in order; the first that answers
// with any HTTP status wins.
type Target struct {
	Name  string
	URL   string
	Paths []string
}

// Result is the outcome of probing one Target.
type Result struct {
	Target    Target
	Reachable bool
	Path      string
	Status    int
	Latency   time.Duration
	Err       error
}

func (r Result) String() string {
	if r.Reachable {
		return fmt.Sprintf("%s %s%s -> %d (%s)", r.Target.Name, r.Target.URL, r.Path, r.Status, r.Latency.Round(time.Millisecond))
	}
	return fmt.Sprintf("%s %s unreachable: %v", r.Target.Name, r.Target.URL, r.Err)
}

// Targets lists what the suites talk to. The shop is skipped when not configured.
func Targets(cfg *config.Config) []Target {
	targets := []Target{
		{Name: "api", URL: cfg.APIURL(), Paths: []string{"/api/vehicles", "/swagger/index.html", "/"}},
		{Name: "frontend", URL: cfg.BaseURL(), Paths: []string{"/", "/login"}},
	}
	if cfg.ShopURL() != "" {
		targets = append(targets, Target{Name: "shop", URL: cfg.ShopURL(), Paths: []string{"/"}})
	}
	return targets
}

// Probe dials the target's host, then issues GETs until one path answers.
func Probe(ctx context.Context, t Target) Result {
	start := time.Now()
	res := Result{Target: t}

	u, err := url.Parse(t.URL)
	if err != nil || u.Host == "" {
		res.Err = fmt.Errorf("invalid url %q", t.URL)
		return res
	}
	host := u.Host
	if u.Port() == "" {
		if u.Scheme == "https" {
			host += ":443"
		} else {
			host += ":80"
		}
	}

	d := net.Dialer{Timeout: DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", host)
	if err != nil {
		res.Err = err
		return res
	}
	_ = conn.Close()

	client := resty.New().SetTimeout(HTTPTimeout).SetBaseURL(strings.TrimRight(t.URL, "/"))
	paths := t.Paths
	if len(paths) == 0 {
		paths = []string{"/"}
	}
	for _, p := range paths {
		resp, err := client.R().SetContext(ctx).Get(p)
		if err != nil {
			res.Err = err
			continue
		}
		res.Reachable = true
		res.Path = p
		res.Status = resp.StatusCode()
		res.Err = nil
		break
	}
	res.Latency = time.Since(start)
	return res
}

// ProbeAll probes every target concurrently. Results keep the input order.
func ProbeAll(ctx context.Context, targets []Target) []Result {
	results := make([]Result, len(targets))
	g, ctx := errgroup.WithContext(ctx)
	for i, t := range targets {
		i, t := i, t
		g.Go(func() error {
			results[i] = Probe(ctx, t)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Wait probes t every interval until it is reachable or timeout elapses.
func Wait(ctx context.Context, t Target, interval, timeout time.Duration) (Result, error) {
	var last Result
	err := wait.PollUntilContextTimeout(ctx, interval, timeout, true, func(ctx context.Context) (bool, error) {
		last = Probe(ctx, t)
		return last.Reachable, nil
	})
	if err != nil {
		return last, fmt.Errorf("%s not reachable after %s: %w", t.Name, timeout, err)
	}
	return last, nil
}

// AllReachable reports whether every result is reachable.
func AllReachable(results []Result) bool {
	for _, r := range results {
		if !r.Reachable {
			return false
		}
	}
	return true
}

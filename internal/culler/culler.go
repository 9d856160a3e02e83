// Package culler checks entry links for dead or unreachable targets.
package culler

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/nikbrunner/shelf/internal/model"
)

// Status represents the health status of a link.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx response, or an existing file
	Dead                      // 404 or 410 Gone, or a missing file
	Unreachable               // timeout, DNS failure, connection refused, etc.
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Dead:
		return "dead"
	default:
		return "unreachable"
	}
}

// Target is one link of one entry.
type Target struct {
	Entry       *model.Entry
	Link        string
	Path        model.Path // containing folder
	EntryIndex  int
	PathDisplay string
}

// Result holds the check result for a single link.
type Result struct {
	Target
	Status     Status
	StatusCode int    // HTTP status code (0 if connection failed)
	Error      string // Error message for unreachable links
}

// ProgressFunc is called after each link is checked.
// completed is the number of links checked so far, total is the total count.
type ProgressFunc func(completed, total int)

// Options configures a check run.
type Options struct {
	Concurrency int
	Timeout     time.Duration
	// ExcludeDomains lists domains where 404s are treated as "possibly
	// private" instead of dead.
	ExcludeDomains []string
	OnProgress     ProgressFunc
}

// CollectTargets lists every valid link in the tree, in tree order.
func CollectTargets(tree *model.Tree) []Target {
	var targets []Target
	tree.Walk(func(p model.Path, f *model.Folder) bool {
		display := tree.DisplayPath(p)
		for i, e := range f.Entries {
			for _, link := range model.ValidLinks(e) {
				targets = append(targets, Target{
					Entry:       e,
					Link:        link,
					Path:        p,
					EntryIndex:  i,
					PathDisplay: display,
				})
			}
		}
		return true
	})
	return targets
}

// CheckLinks checks all targets concurrently and returns results in target
// order. Cancelling ctx marks unchecked links unreachable.
func CheckLinks(ctx context.Context, targets []Target, opts Options) []Result {
	if len(targets) == 0 {
		return nil
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	// Suppress noisy HTTP client logging (protocol errors, unsolicited responses, etc.)
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	// Build exclude map for fast lookup
	excludeMap := make(map[string]bool)
	for _, domain := range opts.ExcludeDomains {
		excludeMap[strings.ToLower(domain)] = true
	}

	results := make([]Result, len(targets))
	jobs := make(chan int, len(targets))
	var wg sync.WaitGroup

	var progressMu sync.Mutex
	completed := 0

	client := &http.Client{
		Timeout: opts.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// Follow redirects but limit to 10
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	for w := 0; w < opts.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = checkLink(ctx, client, targets[idx], excludeMap)

				if opts.OnProgress != nil {
					progressMu.Lock()
					completed++
					opts.OnProgress(completed, len(targets))
					progressMu.Unlock()
				}
			}
		}()
	}

	for i := range targets {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// checkLink checks a single link and returns the result.
func checkLink(ctx context.Context, client *http.Client, target Target, excludeMap map[string]bool) Result {
	result := Result{Target: target}

	if ctx.Err() != nil {
		result.Status = Unreachable
		result.Error = "Cancelled"
		return result
	}

	parsed, err := url.Parse(target.Link)
	if err != nil {
		result.Status = Unreachable
		result.Error = err.Error()
		return result
	}
	if strings.EqualFold(parsed.Scheme, "file") {
		return checkFile(result, parsed)
	}

	// Try HEAD first (faster, less bandwidth)
	resp, err := do(ctx, client, http.MethodHead, target.Link)
	if err != nil {
		// HEAD failed, try GET as fallback (some servers don't support HEAD)
		resp, err = do(ctx, client, http.MethodGet, target.Link)
		if err != nil {
			result.Status = Unreachable
			result.Error = normalizeError(err.Error())
			return result
		}
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Status = Healthy
	case resp.StatusCode == 404 || resp.StatusCode == 410:
		// Check if this domain is excluded (e.g., private repos)
		if isExcludedDomain(parsed, excludeMap) {
			result.Status = Unreachable
			result.Error = "Possibly private (auth required)"
		} else {
			result.Status = Dead
		}
	default:
		// Other errors (500, 403, etc.) - treat as unreachable
		result.Status = Unreachable
		result.Error = http.StatusText(resp.StatusCode)
	}

	return result
}

func do(ctx context.Context, client *http.Client, method, link string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, link, nil)
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}

func checkFile(result Result, u *url.URL) Result {
	_, err := os.Stat(u.Path)
	switch {
	case err == nil:
		result.Status = Healthy
	case errors.Is(err, os.ErrNotExist):
		result.Status = Dead
	default:
		result.Status = Unreachable
		result.Error = err.Error()
	}
	return result
}

// isExcludedDomain checks if the URL's domain is in the exclude list.
func isExcludedDomain(parsed *url.URL, excludeMap map[string]bool) bool {
	host := strings.ToLower(parsed.Hostname())
	// Check exact match and parent domain (e.g., "api.github.com" matches "github.com")
	if excludeMap[host] {
		return true
	}
	for domain := range excludeMap {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// normalizeError simplifies verbose error messages into readable categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context canceled"):
		return "Cancelled"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	case strings.Contains(lower, "tls:"):
		return "TLS error"
	default:
		return errStr
	}
}

// Group is a set of unhealthy results sharing a status and error.
type Group struct {
	Label   string
	Status  Status
	Results []Result
}

// GroupResults drops healthy results and groups the rest: dead links first,
// then unreachable links by error, largest group first.
func GroupResults(results []Result) []Group {
	var dead []Result
	byError := make(map[string][]Result)
	var errorOrder []string

	for _, r := range results {
		switch r.Status {
		case Dead:
			dead = append(dead, r)
		case Unreachable:
			if _, seen := byError[r.Error]; !seen {
				errorOrder = append(errorOrder, r.Error)
			}
			byError[r.Error] = append(byError[r.Error], r)
		}
	}

	var groups []Group
	if len(dead) > 0 {
		groups = append(groups, Group{Label: "Dead", Status: Dead, Results: dead})
	}
	var unreachable []Group
	for _, e := range errorOrder {
		unreachable = append(unreachable, Group{Label: e, Status: Unreachable, Results: byError[e]})
	}
	slices.SortStableFunc(unreachable, func(a, b Group) int { return len(b.Results) - len(a.Results) })
	return append(groups, unreachable...)
}

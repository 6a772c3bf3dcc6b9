package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numPlayers   = 500
)

var (
	ranks  = []string{"", "", "", "vip", "mvp", "admin"}
	worlds = []string{"overworld", "nether", "the_end"}
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type player struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Ranks []string  `json:"ranks,omitempty"`
	World string    `json:"world,omitempty"`
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

var population = func() []player {
	out := make([]player, numPlayers)
	for i := range out {
		out[i] = player{ID: uuid.New(), Name: fmt.Sprintf("player%03d", i)}
	}
	return out
}()

func main() {
	fmt.Println("=== Welcomer Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Players: %d\n\n", numWorkers, testDuration, numPlayers)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Join storm (connect/disconnect) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.6 {
			return doEvent(rng, "connect")
		}
		return doEvent(rng, "disconnect")
	})

	fmt.Println("\n--- Phase 2: Mixed load (50% events, 50% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.30:
			return doEvent(rng, "connect")
		case r < 0.50:
			return doEvent(rng, "disconnect")
		case r < 0.75:
			return doOutbox(rng)
		case r < 0.90:
			return doMilestones(rng)
		default:
			return doGet("/players/stats")
		}
	})

	fmt.Println("\n--- Phase 3: Read-heavy load (10% events, 90% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doEvent(rng, "connect")
		case r < 0.40:
			return doOutbox(rng)
		case r < 0.70:
			return doMilestones(rng)
		case r < 0.85:
			return doGet("/themes")
		default:
			return doGet("/players/stats")
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(seed, uint64(time.Now().UnixNano())))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Uint64() + uint64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	slices.Sort(endpoints)

	fmt.Printf("\n  %-26s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 92))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		slices.Sort(s.latencies)

		fmt.Printf("  %-26s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avgDuration(s.latencies)), fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)), fmtDur(percentile(s.latencies, 0.99)))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 92))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(max(totalOps, 1))*100, rps)
}

func randomPlayer(rng *rand.Rand) player {
	p := population[rng.IntN(len(population))]
	if rank := ranks[rng.IntN(len(ranks))]; rank != "" {
		p.Ranks = []string{rank}
	}
	p.World = worlds[rng.IntN(len(worlds))]
	return p
}

// doEvent posts a connection event. Disconnects of users that never joined
// answer 200 with deliver=false, so only transport and 5xx count as errors.
func doEvent(rng *rand.Rand, kind string) result {
	endpoint := "POST /events/" + kind
	data, _ := json.Marshal(randomPlayer(rng))
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/events/"+kind, "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func doOutbox(rng *rand.Rand) result {
	p := population[rng.IntN(len(population))]
	return doGetAs("GET /outbox", "/outbox?u="+p.ID.String(), http.StatusOK)
}

func doMilestones(rng *rand.Rand) result {
	p := population[rng.IntN(len(population))]
	res := doGetAs("GET /milestones", "/milestones?u="+p.ID.String(), http.StatusOK)
	// never-seen players are a valid miss
	if res.status == http.StatusNotFound {
		res.err = false
	}
	return res
}

func doGet(path string) result {
	return doGetAs("GET "+path, path, http.StatusOK)
}

func doGetAs(endpoint, path string, want int) result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != want}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

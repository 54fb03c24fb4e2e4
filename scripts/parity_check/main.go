package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Compares the gateway's list endpoints against the upstream collections:
// every id the upstream serves must come back through the gateway, and vice
// versa. Meant for a staging environment after deployments; mismatches
// usually mean a stale catalog snapshot or a broken upstream pager.

type result struct {
	Entity           string
	GatewayCount     int
	UpstreamCount    int
	MissingInGateway []int64
	ExtraInGateway   []int64
	Err              error
}

func main() {
	var (
		gatewayBase  string
		apiPrefix    string
		upstreamBase string
		token        string
		entityList   string
		pageSize     int
		timeout      time.Duration
	)

	flag.StringVar(&gatewayBase, "gateway-base", "http://localhost:8090", "Gateway base URL")
	flag.StringVar(&apiPrefix, "api-prefix", "/api/v1", "Gateway API prefix")
	flag.StringVar(&upstreamBase, "upstream-base", "http://localhost:8000/api", "Upstream exam-platform base URL")
	flag.StringVar(&token, "token", os.Getenv("PARITY_TOKEN"), "Bearer token for both sides")
	flag.StringVar(&entityList, "entities", "classes,streams,subjects,chapters,topics,courses,exams,packages,subscriptions", "Comma-separated collections to check")
	flag.IntVar(&pageSize, "page-size", 100, "Fetch page size")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	if token == "" {
		log.Fatal("a bearer token is required (-token or PARITY_TOKEN)")
	}

	client := &http.Client{Timeout: timeout}
	var results []result
	mismatches := 0

	for _, entity := range strings.Split(entityList, ",") {
		entity = strings.TrimSpace(entity)
		if entity == "" {
			continue
		}
		res := checkEntity(client, gatewayBase+apiPrefix, upstreamBase, token, entity, pageSize)
		if res.Err != nil || len(res.MissingInGateway) > 0 || len(res.ExtraInGateway) > 0 {
			mismatches++
		}
		results = append(results, res)
	}

	printReport(results)
	if mismatches > 0 {
		os.Exit(1)
	}
}

func checkEntity(client *http.Client, gatewayBase, upstreamBase, token, entity string, pageSize int) result {
	res := result{Entity: entity}

	gatewayIDs, err := fetchGatewayIDs(client, gatewayBase, token, entity, pageSize)
	if err != nil {
		res.Err = fmt.Errorf("gateway fetch failed: %w", err)
		return res
	}
	upstreamIDs, err := fetchUpstreamIDs(client, upstreamBase, token, entity, pageSize)
	if err != nil {
		res.Err = fmt.Errorf("upstream fetch failed: %w", err)
		return res
	}

	res.GatewayCount = len(gatewayIDs)
	res.UpstreamCount = len(upstreamIDs)
	res.MissingInGateway = difference(upstreamIDs, gatewayIDs)
	res.ExtraInGateway = difference(gatewayIDs, upstreamIDs)
	return res
}

// fetchGatewayIDs drains the gateway list endpoint. Responses arrive in the
// envelope shape, so ids live under data.
func fetchGatewayIDs(client *http.Client, base, token, entity string, pageSize int) (map[int64]bool, error) {
	ids := make(map[int64]bool)
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("limit", strconv.Itoa(pageSize))

		body, err := get(client, base+"/"+entity+"?"+query.Encode(), token)
		if err != nil {
			return nil, err
		}

		var envelope struct {
			Data []struct {
				ID int64 `json:"id"`
			} `json:"data"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, err
		}
		for _, item := range envelope.Data {
			ids[item.ID] = true
		}
		if len(envelope.Data) < pageSize {
			return ids, nil
		}
	}
}

// fetchUpstreamIDs drains the raw upstream collection, which pages with
// skip/limit and returns bare arrays.
func fetchUpstreamIDs(client *http.Client, base, token, entity string, pageSize int) (map[int64]bool, error) {
	ids := make(map[int64]bool)
	for skip := 0; ; skip += pageSize {
		query := url.Values{}
		query.Set("skip", strconv.Itoa(skip))
		query.Set("limit", strconv.Itoa(pageSize))

		body, err := get(client, base+"/"+entity+"?"+query.Encode(), token)
		if err != nil {
			return nil, err
		}

		var items []struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		for _, item := range items {
			ids[item.ID] = true
		}
		if len(items) < pageSize {
			return ids, nil
		}
	}
}

func get(client *http.Client, target, token string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %d: %s", target, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func difference(a, b map[int64]bool) []int64 {
	var out []int64
	for id := range a {
		if !b[id] {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func printReport(results []result) {
	fmt.Println("Parity Check Report")
	fmt.Println("===================")
	for _, res := range results {
		status := "OK"
		if res.Err != nil {
			status = "ERROR"
		} else if len(res.MissingInGateway) > 0 || len(res.ExtraInGateway) > 0 {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s\n", status, res.Entity)
		if res.Err != nil {
			fmt.Printf("  Error: %v\n", res.Err)
			continue
		}
		fmt.Printf("  Gateway: %d | Upstream: %d\n", res.GatewayCount, res.UpstreamCount)
		if len(res.MissingInGateway) > 0 {
			fmt.Printf("  Missing in gateway: %v\n", res.MissingInGateway)
		}
		if len(res.ExtraInGateway) > 0 {
			fmt.Printf("  Extra in gateway: %v\n", res.ExtraInGateway)
		}
	}
}
